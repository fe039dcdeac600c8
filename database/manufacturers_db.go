package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Offer — одна позиция предложения производителя: тип продукции и цена.
type Offer struct {
	ProductType string  `json:"product_type"`
	Price       float64 `json:"price"`
}

// Manufacturer представляет производителя и перечень предлагаемых им
// типов продукции с ценами.
type Manufacturer struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Location        string     `json:"location"`
	Contact         string     `json:"contact,omitempty"`
	ProductsOffered []Offer    `json:"products_offered"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ManufacturerDB инкапсулирует доступ к таблице manufacturers.
type ManufacturerDB struct {
	db *sql.DB
}

// NewManufacturerDB создает обертку таблицы manufacturers и гарантирует наличие схемы.
func NewManufacturerDB(db *sql.DB) (*ManufacturerDB, error) {
	mdb := &ManufacturerDB{db: db}
	if err := mdb.createTable(); err != nil {
		return nil, err
	}
	return mdb, nil
}

// createTable создает таблицу manufacturers, если она еще не существует.
func (m *ManufacturerDB) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS manufacturers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		contact TEXT NOT NULL DEFAULT '',
		products_offered TEXT NOT NULL DEFAULT '[]',
		verified_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_manufacturers_name ON manufacturers(name);`

	if _, err := m.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create manufacturers table: %w", err)
	}
	return nil
}

// Create вставляет нового производителя.
func (m *ManufacturerDB) Create(ctx context.Context, manufacturer *Manufacturer) error {
	offered, err := marshalOffers(manufacturer.ProductsOffered)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	manufacturer.CreatedAt = now
	manufacturer.UpdatedAt = now

	_, err = m.db.ExecContext(ctx,
		`INSERT INTO manufacturers
		 (id, name, location, contact, products_offered, verified_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		manufacturer.ID, manufacturer.Name, manufacturer.Location, manufacturer.Contact,
		offered, manufacturer.VerifiedAt, manufacturer.CreatedAt, manufacturer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert manufacturer: %w", err)
	}
	return nil
}

// GetByID возвращает производителя по идентификатору.
func (m *ManufacturerDB) GetByID(ctx context.Context, id string) (*Manufacturer, error) {
	row := m.db.QueryRowContext(ctx,
		`SELECT id, name, location, contact, products_offered, verified_at, created_at, updated_at
		 FROM manufacturers WHERE id = ?`, id)
	return scanManufacturer(row)
}

// GetAll возвращает всех производителей в порядке создания.
func (m *ManufacturerDB) GetAll(ctx context.Context) ([]Manufacturer, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, name, location, contact, products_offered, verified_at, created_at, updated_at
		 FROM manufacturers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query manufacturers: %w", err)
	}
	defer rows.Close()

	manufacturers := []Manufacturer{}
	for rows.Next() {
		manufacturer, err := scanManufacturer(rows)
		if err != nil {
			return nil, err
		}
		manufacturers = append(manufacturers, *manufacturer)
	}
	return manufacturers, rows.Err()
}

// Update обновляет изменяемые поля производителя.
func (m *ManufacturerDB) Update(ctx context.Context, manufacturer *Manufacturer) error {
	offered, err := marshalOffers(manufacturer.ProductsOffered)
	if err != nil {
		return err
	}

	manufacturer.UpdatedAt = time.Now().UTC()

	result, err := m.db.ExecContext(ctx,
		`UPDATE manufacturers
		 SET name = ?, location = ?, contact = ?, products_offered = ?, verified_at = ?, updated_at = ?
		 WHERE id = ?`,
		manufacturer.Name, manufacturer.Location, manufacturer.Contact, offered,
		manufacturer.VerifiedAt, manufacturer.UpdatedAt, manufacturer.ID)
	if err != nil {
		return fmt.Errorf("failed to update manufacturer: %w", err)
	}
	return requireRowAffected(result)
}

// Delete удаляет производителя по идентификатору.
func (m *ManufacturerDB) Delete(ctx context.Context, id string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM manufacturers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete manufacturer: %w", err)
	}
	return requireRowAffected(result)
}

// scanManufacturer читает одну строку таблицы manufacturers.
func scanManufacturer(s scanner) (*Manufacturer, error) {
	var manufacturer Manufacturer
	var offeredRaw string
	if err := s.Scan(&manufacturer.ID, &manufacturer.Name, &manufacturer.Location,
		&manufacturer.Contact, &offeredRaw, &manufacturer.VerifiedAt,
		&manufacturer.CreatedAt, &manufacturer.UpdatedAt); err != nil {
		return nil, err
	}
	offered, err := unmarshalOffers(offeredRaw)
	if err != nil {
		return nil, err
	}
	manufacturer.ProductsOffered = offered
	return &manufacturer, nil
}

// marshalOffers сериализует предложения в JSON для хранения в TEXT-колонке.
// nil и пустой список сохраняются как "[]".
func marshalOffers(offers []Offer) (string, error) {
	if offers == nil {
		offers = []Offer{}
	}
	data, err := json.Marshal(offers)
	if err != nil {
		return "", fmt.Errorf("failed to marshal offer list: %w", err)
	}
	return string(data), nil
}

// unmarshalOffers разбирает JSON-колонку обратно в список предложений.
func unmarshalOffers(raw string) ([]Offer, error) {
	if raw == "" {
		return []Offer{}, nil
	}
	var offers []Offer
	if err := json.Unmarshal([]byte(raw), &offers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offer list: %w", err)
	}
	return offers, nil
}
