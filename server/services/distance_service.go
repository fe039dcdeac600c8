package services

import (
	"context"
	"log/slog"

	"portalserver/maps"
	apperrors "portalserver/server/errors"
)

// distanceProvider абстракция клиента карт для подмены в тестах
type distanceProvider interface {
	GetDistance(ctx context.Context, from, to string) (*maps.Distance, error)
}

// DistanceService расчет расстояний между пунктами отгрузки и доставки
type DistanceService struct {
	provider distanceProvider
	logger   *slog.Logger
}

// NewDistanceService создает сервис расчета расстояний
func NewDistanceService(provider distanceProvider, logger *slog.Logger) *DistanceService {
	return &DistanceService{provider: provider, logger: logger}
}

// Lookup возвращает расстояние и время в пути между пунктами
func (s *DistanceService) Lookup(ctx context.Context, from, to string) (*maps.Distance, error) {
	if from == "" || to == "" {
		return nil, apperrors.NewValidationError("both from and to are required", nil)
	}

	distance, err := s.provider.GetDistance(ctx, from, to)
	if err != nil {
		s.logger.Warn("distance lookup failed", "from", from, "to", to, "error", err)
		return nil, apperrors.NewBadGatewayError("distance service is unavailable", err)
	}
	return distance, nil
}
