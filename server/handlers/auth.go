package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "portalserver/server/errors"
	"portalserver/server/services"
)

// AuthHandler HTTP-обработчики аутентификации
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler создает обработчик аутентификации
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// loginRequest тело запроса входа
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login обрабатывает POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(c, apperrors.NewValidationError("username and password are required", nil))
		return
	}

	token, user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
