package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portalserver/database"
	apperrors "portalserver/server/errors"
	"portalserver/server/services"
)

// ManufacturerHandler HTTP-обработчики производителей
type ManufacturerHandler struct {
	service *services.ManufacturerService
	export  *services.ExportService
}

// NewManufacturerHandler создает обработчик производителей
func NewManufacturerHandler(service *services.ManufacturerService, export *services.ExportService) *ManufacturerHandler {
	return &ManufacturerHandler{service: service, export: export}
}

// manufacturerRequest тело запроса создания/обновления производителя
type manufacturerRequest struct {
	Name             string           `json:"name"`
	Location         string           `json:"location"`
	Contact          string           `json:"contact"`
	ProductsOffered  []database.Offer `json:"products_offered"`
	ConfirmDuplicate bool             `json:"confirm_duplicate"`
}

// validate проверяет поля запроса
func (r *manufacturerRequest) validate() error {
	if err := requireField("name", r.Name); err != nil {
		return err
	}
	if err := checkFieldLength("location", r.Location); err != nil {
		return err
	}
	if err := checkFieldLength("contact", r.Contact); err != nil {
		return err
	}
	for _, offered := range r.ProductsOffered {
		if err := requireField("products_offered product_type", offered.ProductType); err != nil {
			return err
		}
		if err := checkNonNegative("products_offered price", offered.Price); err != nil {
			return err
		}
	}
	return nil
}

// List обрабатывает GET /api/manufacturers
func (h *ManufacturerHandler) List(c *gin.Context) {
	manufacturers, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manufacturers)
}

// Get обрабатывает GET /api/manufacturers/:id
func (h *ManufacturerHandler) Get(c *gin.Context) {
	manufacturer, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manufacturer)
}

// Create обрабатывает POST /api/manufacturers с проверкой на дубликаты
func (h *ManufacturerHandler) Create(c *gin.Context) {
	var req manufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	manufacturer := &database.Manufacturer{
		Name:            req.Name,
		Location:        req.Location,
		Contact:         req.Contact,
		ProductsOffered: req.ProductsOffered,
	}

	dup, err := h.service.Create(c.Request.Context(), manufacturer, req.ConfirmDuplicate)
	if err != nil {
		respondError(c, err)
		return
	}
	if dup != nil {
		respondDuplicate(c, dup.Reason, dup.Existing)
		return
	}

	c.JSON(http.StatusCreated, manufacturer)
}

// Update обрабатывает PUT /api/manufacturers/:id
func (h *ManufacturerHandler) Update(c *gin.Context) {
	var req manufacturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	// Отметка verified_at сохраняется прежней записью
	current, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	manufacturer := &database.Manufacturer{
		ID:              current.ID,
		Name:            req.Name,
		Location:        req.Location,
		Contact:         req.Contact,
		ProductsOffered: req.ProductsOffered,
		VerifiedAt:      current.VerifiedAt,
	}
	if err := h.service.Update(c.Request.Context(), manufacturer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, manufacturer)
}

// Delete обрабатывает DELETE /api/manufacturers/:id
func (h *ManufacturerHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Suggest обрабатывает GET /api/manufacturers/suggest?q=
func (h *ManufacturerHandler) Suggest(c *gin.Context) {
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

// Export обрабатывает GET /api/manufacturers/export?format=csv|excel
func (h *ManufacturerHandler) Export(c *gin.Context) {
	exportFile(c, h.export, "manufacturers")
}

// Verify обрабатывает POST /api/manufacturers/:id/verify
func (h *ManufacturerHandler) Verify(c *gin.Context) {
	verification, err := h.service.VerifyOnline(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, verification)
}
