package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Статусы заказа.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order представляет заказ на поставку продукции.
type Order struct {
	ID            string    `json:"id"`
	Manufacturer  string    `json:"manufacturer"`
	Product       string    `json:"product"`
	ProductType   string    `json:"product_type"`
	Quantity      float64   `json:"quantity"`
	FromLocation  string    `json:"from_location"`
	ToLocation    string    `json:"to_location"`
	MaterialCost  float64   `json:"material_cost"`
	TransportCost float64   `json:"transport_cost"`
	TotalCost     float64   `json:"total_cost"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderDB инкапсулирует доступ к таблице orders.
type OrderDB struct {
	db *sql.DB
}

// NewOrderDB создает обертку таблицы orders и гарантирует наличие схемы.
func NewOrderDB(db *sql.DB) (*OrderDB, error) {
	odb := &OrderDB{db: db}
	if err := odb.createTable(); err != nil {
		return nil, err
	}
	return odb, nil
}

// createTable создает таблицу orders, если она еще не существует.
func (o *OrderDB) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		manufacturer TEXT NOT NULL,
		product TEXT NOT NULL,
		product_type TEXT NOT NULL DEFAULT '',
		quantity REAL NOT NULL DEFAULT 0,
		from_location TEXT NOT NULL DEFAULT '',
		to_location TEXT NOT NULL DEFAULT '',
		material_cost REAL NOT NULL DEFAULT 0,
		transport_cost REAL NOT NULL DEFAULT 0,
		total_cost REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_manufacturer ON orders(manufacturer);`

	if _, err := o.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}
	return nil
}

// Create вставляет новый заказ.
func (o *OrderDB) Create(ctx context.Context, order *Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = OrderStatusPending
	}

	_, err := o.db.ExecContext(ctx,
		`INSERT INTO orders
		 (id, manufacturer, product, product_type, quantity, from_location, to_location,
		  material_cost, transport_cost, total_cost, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Manufacturer, order.Product, order.ProductType, order.Quantity,
		order.FromLocation, order.ToLocation, order.MaterialCost, order.TransportCost,
		order.TotalCost, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetByID возвращает заказ по идентификатору.
func (o *OrderDB) GetByID(ctx context.Context, id string) (*Order, error) {
	row := o.db.QueryRowContext(ctx,
		`SELECT id, manufacturer, product, product_type, quantity, from_location, to_location,
		        material_cost, transport_cost, total_cost, status, created_at, updated_at
		 FROM orders WHERE id = ?`, id)
	return scanOrder(row)
}

// GetAll возвращает все заказы в порядке создания.
func (o *OrderDB) GetAll(ctx context.Context) ([]Order, error) {
	rows, err := o.db.QueryContext(ctx,
		`SELECT id, manufacturer, product, product_type, quantity, from_location, to_location,
		        material_cost, transport_cost, total_cost, status, created_at, updated_at
		 FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

// Update обновляет изменяемые поля заказа.
func (o *OrderDB) Update(ctx context.Context, order *Order) error {
	order.UpdatedAt = time.Now().UTC()

	result, err := o.db.ExecContext(ctx,
		`UPDATE orders
		 SET manufacturer = ?, product = ?, product_type = ?, quantity = ?,
		     from_location = ?, to_location = ?, material_cost = ?, transport_cost = ?,
		     total_cost = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		order.Manufacturer, order.Product, order.ProductType, order.Quantity,
		order.FromLocation, order.ToLocation, order.MaterialCost, order.TransportCost,
		order.TotalCost, order.Status, order.UpdatedAt, order.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return requireRowAffected(result)
}

// Delete удаляет заказ по идентификатору.
func (o *OrderDB) Delete(ctx context.Context, id string) error {
	result, err := o.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return requireRowAffected(result)
}

// scanOrder читает одну строку таблицы orders.
func scanOrder(s scanner) (*Order, error) {
	var order Order
	if err := s.Scan(&order.ID, &order.Manufacturer, &order.Product, &order.ProductType,
		&order.Quantity, &order.FromLocation, &order.ToLocation, &order.MaterialCost,
		&order.TransportCost, &order.TotalCost, &order.Status,
		&order.CreatedAt, &order.UpdatedAt); err != nil {
		return nil, err
	}
	return &order, nil
}
