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

// suggestMinScore минимальная оценка кандидата для попадания в подсказки
const suggestMinScore = 0.4

// suggestLimit максимальное число подсказок в ответе
const suggestLimit = 10

// ProductService бизнес-логика товарных позиций с проверкой на дубликаты
type ProductService struct {
	products *database.ProductDB
	logger   *slog.Logger
}

// NewProductService создает сервис товарных позиций
func NewProductService(products *database.ProductDB, logger *slog.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// Create прогоняет кандидата через проверку на дубликаты и сохраняет его.
// При найденном дубликате возвращается описание конфликта без ошибки;
// confirmDuplicate пропускает проверку, когда пользователь подтвердил вставку.
// Проверка и вставка не атомарны: параллельные вставки одинаковых записей
// проходят обе.
func (s *ProductService) Create(ctx context.Context, product *database.Product, confirmDuplicate bool) (*matching.ProductDuplicate, error) {
	if !confirmDuplicate {
		existing, err := s.products.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load products for duplicate check", err)
		}
		if dup := matching.FindDuplicateProduct(*product, existing); dup != nil {
			s.logger.Info("duplicate product rejected",
				"name", product.Name, "existing_id", dup.ExistingID)
			return dup, nil
		}
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.NewInternalError("failed to create product", err)
	}

	s.logger.Info("product created", "product_id", product.ID, "name", product.Name)
	return nil, nil
}

// Get возвращает товарную позицию по идентификатору
func (s *ProductService) Get(ctx context.Context, id string) (*database.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("product not found", err)
		}
		return nil, apperrors.NewInternalError("failed to load product", err)
	}
	return product, nil
}

// List возвращает все товарные позиции
func (s *ProductService) List(ctx context.Context) ([]database.Product, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load products", err)
	}
	return products, nil
}

// Update обновляет товарную позицию
func (s *ProductService) Update(ctx context.Context, product *database.Product) error {
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("product not found", err)
		}
		return apperrors.NewInternalError("failed to update product", err)
	}
	return nil
}

// Delete удаляет товарную позицию
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("product not found", err)
		}
		return apperrors.NewInternalError("failed to delete product", err)
	}
	return nil
}

// Suggest возвращает подсказки по именам и подтипам существующих позиций
func (s *ProductService) Suggest(ctx context.Context, query string) ([]matching.Suggestion, error) {
	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load products for suggestions", err)
	}

	candidates := make([]string, 0, len(products))
	for _, p := range products {
		candidates = append(candidates, p.Name)
		candidates = append(candidates, p.Subtypes...)
	}

	return matching.RankSuggestions(query, candidates, suggestMinScore, suggestLimit), nil
}
