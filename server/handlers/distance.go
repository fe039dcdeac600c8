package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portalserver/server/services"
)

// DistanceHandler HTTP-обработчик расчета расстояний
type DistanceHandler struct {
	service *services.DistanceService
}

// NewDistanceHandler создает обработчик расчета расстояний
func NewDistanceHandler(service *services.DistanceService) *DistanceHandler {
	return &DistanceHandler{service: service}
}

// Lookup обрабатывает GET /api/distance?from=&to=
func (h *DistanceHandler) Lookup(c *gin.Context) {
	distance, err := h.service.Lookup(c.Request.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, distance)
}
