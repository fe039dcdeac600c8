package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "portalserver/server/errors"
	"portalserver/server/middleware"
	"portalserver/server/services"
)

// ChatHandler HTTP-обработчик чат-ассистента
type ChatHandler struct {
	service *services.ChatService
}

// NewChatHandler создает обработчик чат-ассистента
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// chatRequest тело запроса к ассистенту
type chatRequest struct {
	Question string `json:"question"`
}

// Ask обрабатывает POST /api/chat
func (h *ChatHandler) Ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}

	username := middleware.GetUsernameFromGin(c)
	answer, err := h.service.Ask(c.Request.Context(), username, req.Question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
