package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"portalserver/database"
	"portalserver/matching"
	apperrors "portalserver/server/errors"
	"portalserver/websearch"
)

// manufacturerVerifier абстракция онлайн-проверки для подмены в тестах
type manufacturerVerifier interface {
	Verify(ctx context.Context, name, location string) (*websearch.Verification, error)
}

// ManufacturerService бизнес-логика производителей
type ManufacturerService struct {
	manufacturers *database.ManufacturerDB
	verifier      manufacturerVerifier
	logger        *slog.Logger
}

// NewManufacturerService создает сервис производителей.
// verifier может быть nil, тогда онлайн-проверка недоступна.
func NewManufacturerService(manufacturers *database.ManufacturerDB, verifier manufacturerVerifier, logger *slog.Logger) *ManufacturerService {
	return &ManufacturerService{
		manufacturers: manufacturers,
		verifier:      verifier,
		logger:        logger,
	}
}

// Create прогоняет кандидата через проверку на дубликаты и сохраняет его.
// confirmDuplicate пропускает проверку после подтверждения пользователя.
func (s *ManufacturerService) Create(ctx context.Context, manufacturer *database.Manufacturer, confirmDuplicate bool) (*matching.ManufacturerDuplicate, error) {
	if !confirmDuplicate {
		existing, err := s.manufacturers.GetAll(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load manufacturers for duplicate check", err)
		}
		if dup := matching.FindDuplicateManufacturer(*manufacturer, existing); dup != nil {
			s.logger.Info("duplicate manufacturer rejected",
				"name", manufacturer.Name, "existing_id", dup.ExistingID)
			return dup, nil
		}
	}

	if manufacturer.ID == "" {
		manufacturer.ID = uuid.New().String()
	}
	if err := s.manufacturers.Create(ctx, manufacturer); err != nil {
		return nil, apperrors.NewInternalError("failed to create manufacturer", err)
	}

	s.logger.Info("manufacturer created", "manufacturer_id", manufacturer.ID, "name", manufacturer.Name)
	return nil, nil
}

// Get возвращает производителя по идентификатору
func (s *ManufacturerService) Get(ctx context.Context, id string) (*database.Manufacturer, error) {
	manufacturer, err := s.manufacturers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("manufacturer not found", err)
		}
		return nil, apperrors.NewInternalError("failed to load manufacturer", err)
	}
	return manufacturer, nil
}

// List возвращает всех производителей
func (s *ManufacturerService) List(ctx context.Context) ([]database.Manufacturer, error) {
	manufacturers, err := s.manufacturers.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load manufacturers", err)
	}
	return manufacturers, nil
}

// Update обновляет производителя
func (s *ManufacturerService) Update(ctx context.Context, manufacturer *database.Manufacturer) error {
	if err := s.manufacturers.Update(ctx, manufacturer); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("manufacturer not found", err)
		}
		return apperrors.NewInternalError("failed to update manufacturer", err)
	}
	return nil
}

// Delete удаляет производителя
func (s *ManufacturerService) Delete(ctx context.Context, id string) error {
	if err := s.manufacturers.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("manufacturer not found", err)
		}
		return apperrors.NewInternalError("failed to delete manufacturer", err)
	}
	return nil
}

// Suggest возвращает подсказки по именам существующих производителей
func (s *ManufacturerService) Suggest(ctx context.Context, query string) ([]matching.Suggestion, error) {
	manufacturers, err := s.manufacturers.GetAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load manufacturers for suggestions", err)
	}

	candidates := make([]string, 0, len(manufacturers))
	for _, m := range manufacturers {
		candidates = append(candidates, m.Name)
	}

	return matching.RankSuggestions(query, candidates, suggestMinScore, suggestLimit), nil
}

// VerifyOnline проверяет существование производителя через веб-поиск и,
// при подтверждении, проставляет отметку verified_at.
func (s *ManufacturerService) VerifyOnline(ctx context.Context, id string) (*websearch.Verification, error) {
	if s.verifier == nil {
		return nil, apperrors.NewBadGatewayError("web search verification is disabled", nil)
	}

	manufacturer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	verification, err := s.verifier.Verify(ctx, manufacturer.Name, manufacturer.Location)
	if err != nil {
		return nil, apperrors.NewBadGatewayError("web search verification failed", err)
	}

	if verification.Verified {
		now := time.Now().UTC()
		manufacturer.VerifiedAt = &now
		if err := s.manufacturers.Update(ctx, manufacturer); err != nil {
			return nil, apperrors.NewInternalError("failed to store verification mark", err)
		}
	}

	s.logger.Info("manufacturer verification finished",
		"manufacturer_id", id,
		"verified", verification.Verified,
		"mentions", verification.Mentions)
	return verification, nil
}
