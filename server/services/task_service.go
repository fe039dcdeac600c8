package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"portalserver/database"
	"portalserver/matching"
	apperrors "portalserver/server/errors"
)

// TaskService бизнес-логика задач сотрудников
type TaskService struct {
	tasks  *database.TaskDB
	logger *slog.Logger
}

// NewTaskService создает сервис задач
func NewTaskService(tasks *database.TaskDB, logger *slog.Logger) *TaskService {
	return &TaskService{tasks: tasks, logger: logger}
}

// Create прогоняет кандидата через проверку на дубликаты и сохраняет его.
// Для задач проверка точная: заголовок, исполнитель и календарный день.
func (s *TaskService) Create(ctx context.Context, task *database.Task, confirmDuplicate bool) (*matching.TaskDuplicate, error) {
	if !confirmDuplicate {
		existing, err := s.tasks.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load tasks for duplicate check", err)
		}
		if dup := matching.FindDuplicateTask(*task, existing); dup != nil {
			s.logger.Info("duplicate task rejected",
				"assigned_to", task.AssignedTo, "existing_id", dup.ExistingID)
			return dup, nil
		}
	}

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.NewInternalError("failed to create task", err)
	}

	s.logger.Info("task created", "task_id", task.ID, "assigned_to", task.AssignedTo)
	return nil, nil
}

// Get возвращает задачу по идентификатору
func (s *TaskService) Get(ctx context.Context, id string) (*database.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("task not found", err)
		}
		return nil, apperrors.NewInternalError("failed to load task", err)
	}
	return task, nil
}

// List возвращает все задачи
func (s *TaskService) List(ctx context.Context) ([]database.Task, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load tasks", err)
	}
	return tasks, nil
}

// Update обновляет задачу
func (s *TaskService) Update(ctx context.Context, task *database.Task) error {
	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("task not found", err)
		}
		return apperrors.NewInternalError("failed to update task", err)
	}
	return nil
}

// Delete удаляет задачу
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("task not found", err)
		}
		return apperrors.NewInternalError("failed to delete task", err)
	}
	return nil
}

// Suggest возвращает подсказки по заголовкам существующих задач
func (s *TaskService) Suggest(ctx context.Context, query string) ([]matching.Suggestion, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load tasks for suggestions", err)
	}

	candidates := make([]string, 0, len(tasks))
	for _, t := range tasks {
		candidates = append(candidates, matching.TaskTitle(t.TaskText))
	}

	return matching.RankSuggestions(query, candidates, suggestMinScore, suggestLimit), nil
}
