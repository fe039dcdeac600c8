package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portalserver/database"
	apperrors "portalserver/server/errors"
	"portalserver/server/services"
)

// TaskHandler HTTP-обработчики задач
type TaskHandler struct {
	service *services.TaskService
	export  *services.ExportService
}

// NewTaskHandler создает обработчик задач
func NewTaskHandler(service *services.TaskService, export *services.ExportService) *TaskHandler {
	return &TaskHandler{service: service, export: export}
}

// taskRequest тело запроса создания/обновления задачи.
// Дата передается строкой в формате YYYY-MM-DD.
type taskRequest struct {
	AssignedTo       string `json:"assigned_to"`
	TaskDate         string `json:"task_date"`
	TaskText         string `json:"task_text"`
	Done             bool   `json:"done"`
	ConfirmDuplicate bool   `json:"confirm_duplicate"`
}

// validate проверяет поля запроса и разбирает дату
func (r *taskRequest) validate() (time.Time, error) {
	if err := requireField("assigned_to", r.AssignedTo); err != nil {
		return time.Time{}, err
	}
	if r.TaskText == "" {
		return time.Time{}, apperrors.NewValidationError("task_text is required", nil)
	}

	date, err := time.Parse("2006-01-02", r.TaskDate)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("task_date must be in YYYY-MM-DD format", err)
	}
	return date, nil
}

// List обрабатывает GET /api/tasks
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Get обрабатывает GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create обрабатывает POST /api/tasks с проверкой на дубликаты
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	date, err := req.validate()
	if err != nil {
		respondError(c, err)
		return
	}

	task := &database.Task{
		AssignedTo: req.AssignedTo,
		TaskDate:   date,
		TaskText:   req.TaskText,
		Done:       req.Done,
	}

	dup, err := h.service.Create(c.Request.Context(), task, req.ConfirmDuplicate)
	if err != nil {
		respondError(c, err)
		return
	}
	if dup != nil {
		respondDuplicate(c, dup.Reason, dup.Existing)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Update обрабатывает PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	date, err := req.validate()
	if err != nil {
		respondError(c, err)
		return
	}

	task := &database.Task{
		ID:         c.Param("id"),
		AssignedTo: req.AssignedTo,
		TaskDate:   date,
		TaskText:   req.TaskText,
		Done:       req.Done,
	}
	if err := h.service.Update(c.Request.Context(), task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete обрабатывает DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Suggest обрабатывает GET /api/tasks/suggest?q=
func (h *TaskHandler) Suggest(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, apperrors.NewValidationError("query parameter q is required", nil))
		return
	}

	suggestions, err := h.service.Suggest(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Export обрабатывает GET /api/tasks/export?format=csv|excel
func (h *TaskHandler) Export(c *gin.Context) {
	exportFile(c, h.export, "tasks")
}
