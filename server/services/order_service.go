package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"portalserver/database"
	"portalserver/matching"
	apperrors "portalserver/server/errors"
)

// OrderService бизнес-логика заказов
type OrderService struct {
	orders *database.OrderDB
	logger *slog.Logger
}

// NewOrderService создает сервис заказов
func NewOrderService(orders *database.OrderDB, logger *slog.Logger) *OrderService {
	return &OrderService{orders: orders, logger: logger}
}

// Create прогоняет кандидата через проверку на дубликаты и сохраняет его.
// Итоговая стоимость досчитывается из материалов и транспорта, если не задана.
func (s *OrderService) Create(ctx context.Context, order *database.Order, confirmDuplicate bool) (*matching.OrderDuplicate, error) {
	if !confirmDuplicate {
		existing, err := s.orders.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load orders for duplicate check", err)
		}
		if dup := matching.FindDuplicateOrder(*order, existing); dup != nil {
			s.logger.Info("duplicate order rejected",
				"product", order.Product, "existing_id", dup.ExistingID)
			return dup, nil
		}
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.TotalCost == 0 {
		order.TotalCost = order.MaterialCost + order.TransportCost
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, apperrors.NewInternalError("failed to create order", err)
	}

	s.logger.Info("order created",
		"order_id", order.ID, "product", order.Product, "manufacturer", order.Manufacturer)
	return nil, nil
}

// Get возвращает заказ по идентификатору
func (s *OrderService) Get(ctx context.Context, id string) (*database.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("order not found", err)
		}
		return nil, apperrors.NewInternalError("failed to load order", err)
	}
	return order, nil
}

// List возвращает все заказы
func (s *OrderService) List(ctx context.Context) ([]database.Order, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load orders", err)
	}
	return orders, nil
}

// Update обновляет заказ
func (s *OrderService) Update(ctx context.Context, order *database.Order) error {
	if order.TotalCost == 0 {
		order.TotalCost = order.MaterialCost + order.TransportCost
	}
	if err := s.orders.Update(ctx, order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("order not found", err)
		}
		return apperrors.NewInternalError("failed to update order", err)
	}
	return nil
}

// Delete удаляет заказ
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("order not found", err)
		}
		return apperrors.NewInternalError("failed to delete order", err)
	}
	return nil
}

// Suggest возвращает подсказки по продуктам и производителям из заказов
func (s *OrderService) Suggest(ctx context.Context, query string) ([]matching.Suggestion, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load orders for suggestions", err)
	}

	candidates := make([]string, 0, len(orders)*2)
	for _, o := range orders {
		candidates = append(candidates, o.Product, o.Manufacturer)
	}

	return matching.RankSuggestions(query, candidates, suggestMinScore, suggestLimit), nil
}
