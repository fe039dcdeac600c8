package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Роли пользователей портала.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User представляет учетную запись сотрудника.
// PasswordHash хранит bcrypt-хеш и никогда не сериализуется в ответы API.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserDB инкапсулирует доступ к таблице users.
type UserDB struct {
	db *sql.DB
}

// NewUserDB создает обертку таблицы users и гарантирует наличие схемы.
func NewUserDB(db *sql.DB) (*UserDB, error) {
	udb := &UserDB{db: db}
	if err := udb.createTable(); err != nil {
		return nil, err
	}
	return udb, nil
}

// createTable создает таблицу users, если она еще не существует.
func (u *UserDB) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'employee',
		created_at TIMESTAMP NOT NULL
	);`

	if _, err := u.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

// Create вставляет нового пользователя.
func (u *UserDB) Create(ctx context.Context, user *User) error {
	user.CreatedAt = time.Now().UTC()

	_, err := u.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, display_name, role, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.PasswordHash, user.DisplayName, user.Role, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByUsername возвращает пользователя по имени учетной записи.
func (u *UserDB) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := u.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, display_name, role, created_at
		 FROM users WHERE username = ?`, username)

	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash,
		&user.DisplayName, &user.Role, &user.CreatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// CountUsers возвращает число зарегистрированных пользователей.
// Используется при старте для создания учетной записи администратора.
func (u *UserDB) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := u.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
