package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portalserver/docparse"
	apperrors "portalserver/server/errors"
)

// maxDocumentSize предельный размер загружаемого документа
const maxDocumentSize = 20 << 20 // 20 MB

// DocumentHandler HTTP-обработчик извлечения текста из документов
type DocumentHandler struct {
	client *docparse.Client
}

// NewDocumentHandler создает обработчик документов
func NewDocumentHandler(client *docparse.Client) *DocumentHandler {
	return &DocumentHandler{client: client}
}

// Extract обрабатывает POST /api/documents/extract (multipart, поле file)
func (h *DocumentHandler) Extract(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.NewValidationError("multipart field 'file' is required", err))
		return
	}
	if fileHeader.Size > maxDocumentSize {
		respondError(c, apperrors.NewValidationError("document is too large", nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to open uploaded file", err))
		return
	}
	defer file.Close()

	extraction, err := h.client.Extract(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		respondError(c, apperrors.NewBadGatewayError("document extraction failed", err))
		return
	}

	c.JSON(http.StatusOK, extraction)
}
