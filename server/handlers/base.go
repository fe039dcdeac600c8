package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	apperrors "portalserver/server/errors"
	"portalserver/server/middleware"
)

// maxFieldLength предельная длина имен, локаций и прочих коротких полей
const maxFieldLength = 160

// respondError пишет JSON-ошибку, извлекая статус из AppError
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode()
		message = appErr.UserMessage()
	}

	c.Error(err)
	c.JSON(status, gin.H{
		"error":      true,
		"message":    message,
		"request_id": middleware.GetRequestIDFromGin(c),
	})
}

// respondDuplicate пишет ответ 409 о найденном дубликате.
// existing — существующая запись, с которой конфликтует кандидат.
func respondDuplicate(c *gin.Context, reason string, existing any) {
	c.JSON(http.StatusConflict, gin.H{
		"duplicate": true,
		"reason":    reason,
		"existing":  existing,
	})
}

// requireField проверяет обязательное короткое текстовое поле
func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(fmt.Sprintf("%s is required", name), nil)
	}
	return checkFieldLength(name, value)
}

// checkFieldLength проверяет предельную длину короткого текстового поля
func checkFieldLength(name, value string) error {
	if utf8.RuneCountInString(value) > maxFieldLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("%s exceeds %d characters", name, maxFieldLength), nil)
	}
	return nil
}

// checkNonNegative проверяет, что числовое поле не отрицательно
func checkNonNegative(name string, value float64) error {
	if value < 0 {
		return apperrors.NewValidationError(fmt.Sprintf("%s must not be negative", name), nil)
	}
	return nil
}
