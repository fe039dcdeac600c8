package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Product представляет товарную позицию каталога.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subtypes  []string  `json:"subtypes"`
	Unit      string    `json:"unit"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductDB инкапсулирует доступ к таблице products.
type ProductDB struct {
	db *sql.DB
}

// NewProductDB создает обертку таблицы products и гарантирует наличие схемы.
func NewProductDB(db *sql.DB) (*ProductDB, error) {
	pdb := &ProductDB{db: db}
	if err := pdb.createTable(); err != nil {
		return nil, err
	}
	return pdb, nil
}

// createTable создает таблицу products, если она еще не существует.
func (p *ProductDB) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		subtypes TEXT NOT NULL DEFAULT '[]',
		unit TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);`

	if _, err := p.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// Create вставляет новую товарную позицию.
func (p *ProductDB) Create(ctx context.Context, product *Product) error {
	subtypes, err := marshalStrings(product.Subtypes)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO products (id, name, subtypes, unit, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, subtypes, product.Unit, product.Notes,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// GetByID возвращает товарную позицию по идентификатору.
// Для отсутствующей записи возвращается sql.ErrNoRows.
func (p *ProductDB) GetByID(ctx context.Context, id string) (*Product, error) {
	row := p.db.QueryRowContext(ctx,
		`SELECT id, name, subtypes, unit, notes, created_at, updated_at
		 FROM products WHERE id = ?`, id)
	return scanProduct(row)
}

// GetAll возвращает все товарные позиции в порядке создания.
func (p *ProductDB) GetAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name, subtypes, unit, notes, created_at, updated_at
		 FROM products ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

// Update обновляет изменяемые поля товарной позиции.
func (p *ProductDB) Update(ctx context.Context, product *Product) error {
	subtypes, err := marshalStrings(product.Subtypes)
	if err != nil {
		return err
	}

	product.UpdatedAt = time.Now().UTC()

	result, err := p.db.ExecContext(ctx,
		`UPDATE products SET name = ?, subtypes = ?, unit = ?, notes = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name, subtypes, product.Unit, product.Notes, product.UpdatedAt, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRowAffected(result)
}

// Delete удаляет товарную позицию по идентификатору.
func (p *ProductDB) Delete(ctx context.Context, id string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRowAffected(result)
}

// scanner покрывает *sql.Row и *sql.Rows единым интерфейсом сканирования.
type scanner interface {
	Scan(dest ...any) error
}

// scanProduct читает одну строку таблицы products.
func scanProduct(s scanner) (*Product, error) {
	var product Product
	var subtypesRaw string
	if err := s.Scan(&product.ID, &product.Name, &subtypesRaw, &product.Unit,
		&product.Notes, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return nil, err
	}
	subtypes, err := unmarshalStrings(subtypesRaw)
	if err != nil {
		return nil, err
	}
	product.Subtypes = subtypes
	return &product, nil
}

// requireRowAffected превращает обновление нуля строк в sql.ErrNoRows.
func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
