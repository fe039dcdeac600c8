package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Task представляет задачу, назначенную сотруднику на конкретный день.
// Первая строка TaskText трактуется как заголовок задачи.
type Task struct {
	ID         string    `json:"id"`
	AssignedTo string    `json:"assigned_to"`
	TaskDate   time.Time `json:"task_date"`
	TaskText   string    `json:"task_text"`
	Done       bool      `json:"done"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TaskDB инкапсулирует доступ к таблице tasks.
type TaskDB struct {
	db *sql.DB
}

// NewTaskDB создает обертку таблицы tasks и гарантирует наличие схемы.
func NewTaskDB(db *sql.DB) (*TaskDB, error) {
	tdb := &TaskDB{db: db}
	if err := tdb.createTable(); err != nil {
		return nil, err
	}
	return tdb, nil
}

// createTable создает таблицу tasks, если она еще не существует.
func (t *TaskDB) createTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		assigned_to TEXT NOT NULL,
		task_date TIMESTAMP NOT NULL,
		task_text TEXT NOT NULL,
		done INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(assigned_to);`

	if _, err := t.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// Create вставляет новую задачу.
func (t *TaskDB) Create(ctx context.Context, task *Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := t.db.ExecContext(ctx,
		`INSERT INTO tasks (id, assigned_to, task_date, task_text, done, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.AssignedTo, task.TaskDate, task.TaskText, task.Done,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetByID возвращает задачу по идентификатору.
func (t *TaskDB) GetByID(ctx context.Context, id string) (*Task, error) {
	row := t.db.QueryRowContext(ctx,
		`SELECT id, assigned_to, task_date, task_text, done, created_at, updated_at
		 FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// GetAll возвращает все задачи, отсортированные по дате исполнения.
func (t *TaskDB) GetAll(ctx context.Context) ([]Task, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT id, assigned_to, task_date, task_text, done, created_at, updated_at
		 FROM tasks ORDER BY task_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// Update обновляет изменяемые поля задачи.
func (t *TaskDB) Update(ctx context.Context, task *Task) error {
	task.UpdatedAt = time.Now().UTC()

	result, err := t.db.ExecContext(ctx,
		`UPDATE tasks SET assigned_to = ?, task_date = ?, task_text = ?, done = ?, updated_at = ?
		 WHERE id = ?`,
		task.AssignedTo, task.TaskDate, task.TaskText, task.Done, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRowAffected(result)
}

// Delete удаляет задачу по идентификатору.
func (t *TaskDB) Delete(ctx context.Context, id string) error {
	result, err := t.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRowAffected(result)
}

// scanTask читает одну строку таблицы tasks.
func scanTask(s scanner) (*Task, error) {
	var task Task
	if err := s.Scan(&task.ID, &task.AssignedTo, &task.TaskDate, &task.TaskText,
		&task.Done, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}
