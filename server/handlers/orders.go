package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portalserver/database"
	apperrors "portalserver/server/errors"
	"portalserver/server/services"
)

// OrderHandler HTTP-обработчики заказов
type OrderHandler struct {
	service *services.OrderService
	export  *services.ExportService
}

// NewOrderHandler создает обработчик заказов
func NewOrderHandler(service *services.OrderService, export *services.ExportService) *OrderHandler {
	return &OrderHandler{service: service, export: export}
}

// orderRequest тело запроса создания/обновления заказа
type orderRequest struct {
	Manufacturer     string  `json:"manufacturer"`
	Product          string  `json:"product"`
	ProductType      string  `json:"product_type"`
	Quantity         float64 `json:"quantity"`
	FromLocation     string  `json:"from_location"`
	ToLocation       string  `json:"to_location"`
	MaterialCost     float64 `json:"material_cost"`
	TransportCost    float64 `json:"transport_cost"`
	TotalCost        float64 `json:"total_cost"`
	Status           string  `json:"status"`
	ConfirmDuplicate bool    `json:"confirm_duplicate"`
}

// validate проверяет поля запроса
func (r *orderRequest) validate() error {
	if err := requireField("manufacturer", r.Manufacturer); err != nil {
		return err
	}
	if err := requireField("product", r.Product); err != nil {
		return err
	}
	if err := checkFieldLength("product_type", r.ProductType); err != nil {
		return err
	}
	if err := checkFieldLength("from_location", r.FromLocation); err != nil {
		return err
	}
	if err := checkFieldLength("to_location", r.ToLocation); err != nil {
		return err
	}
	if r.Quantity <= 0 {
		return apperrors.NewValidationError("quantity must be positive", nil)
	}
	if err := checkNonNegative("material_cost", r.MaterialCost); err != nil {
		return err
	}
	if err := checkNonNegative("transport_cost", r.TransportCost); err != nil {
		return err
	}
	return checkNonNegative("total_cost", r.TotalCost)
}

// toOrder собирает модель заказа из запроса
func (r *orderRequest) toOrder(id string) *database.Order {
	return &database.Order{
		ID:            id,
		Manufacturer:  r.Manufacturer,
		Product:       r.Product,
		ProductType:   r.ProductType,
		Quantity:      r.Quantity,
		FromLocation:  r.FromLocation,
		ToLocation:    r.ToLocation,
		MaterialCost:  r.MaterialCost,
		TransportCost: r.TransportCost,
		TotalCost:     r.TotalCost,
		Status:        r.Status,
	}
}

// List обрабатывает GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Get обрабатывает GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Create обрабатывает POST /api/orders с проверкой на дубликаты
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	order := req.toOrder("")
	dup, err := h.service.Create(c.Request.Context(), order, req.ConfirmDuplicate)
	if err != nil {
		respondError(c, err)
		return
	}
	if dup != nil {
		respondDuplicate(c, dup.Reason, dup.Existing)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Update обрабатывает PUT /api/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", err))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	order := req.toOrder(c.Param("id"))
	if err := h.service.Update(c.Request.Context(), order); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete обрабатывает DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Suggest обрабатывает GET /api/orders/suggest?q=
func (h *OrderHandler) Suggest(c *gin.Context) {
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

// Export обрабатывает GET /api/orders/export?format=csv|excel
func (h *OrderHandler) Export(c *gin.Context) {
	exportFile(c, h.export, "orders")
}
