package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portalserver/database"
	apperrors "portalserver/server/errors"
	"portalserver/server/services"
)

// ProductHandler HTTP-обработчики товарных позиций
type ProductHandler struct {
	service *services.ProductService
	export  *services.ExportService
}

// NewProductHandler создает обработчик товарных позиций
func NewProductHandler(service *services.ProductService, export *services.ExportService) *ProductHandler {
	return &ProductHandler{service: service, export: export}
}

// productRequest тело запроса создания/обновления товарной позиции
type productRequest struct {
	Name             string   `json:"name"`
	Subtypes         []string `json:"subtypes"`
	Unit             string   `json:"unit"`
	Notes            string   `json:"notes"`
	ConfirmDuplicate bool     `json:"confirm_duplicate"`
}

// validate проверяет поля запроса
func (r *productRequest) validate() error {
	if err := requireField("name", r.Name); err != nil {
		return err
	}
	for _, subtype := range r.Subtypes {
		if err := checkFieldLength("subtype", subtype); err != nil {
			return err
		}
	}
	return checkFieldLength("unit", r.Unit)
}

// List обрабатывает GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Get обрабатывает GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create обрабатывает POST /api/products.
// При обнаружении дубликата возвращает 409 с описанием конфликта;
// confirm_duplicate в теле повторного запроса пропускает проверку.
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	product := &database.Product{
		Name:     req.Name,
		Subtypes: req.Subtypes,
		Unit:     req.Unit,
		Notes:    req.Notes,
	}

	dup, err := h.service.Create(c.Request.Context(), product, req.ConfirmDuplicate)
	if err != nil {
		respondError(c, err)
		return
	}
	if dup != nil {
		respondDuplicate(c, dup.Reason, dup.Existing)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Update обрабатывает PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	product := &database.Product{
		ID:       c.Param("id"),
		Name:     req.Name,
		Subtypes: req.Subtypes,
		Unit:     req.Unit,
		Notes:    req.Notes,
	}
	if err := h.service.Update(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete обрабатывает DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Suggest обрабатывает GET /api/products/suggest?q=
func (h *ProductHandler) Suggest(c *gin.Context) {
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

// Export обрабатывает GET /api/products/export?format=csv|excel
func (h *ProductHandler) Export(c *gin.Context) {
	exportFile(c, h.export, "products")
}

// exportFile общий обработчик выгрузки для всех видов записей
func exportFile(c *gin.Context, export *services.ExportService, kind string) {
	format := c.DefaultQuery("format", services.FormatCSV)

	file, err := export.Export(c.Request.Context(), kind, format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
