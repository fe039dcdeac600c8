package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"portalserver/database"
	"portalserver/llm"
	apperrors "portalserver/server/errors"
)

// llmCompleter абстракция LLM-клиента для подмены в тестах
type llmCompleter interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// ChatConfig настройки чат-ассистента
type ChatConfig struct {
	RequestsPerMin   int
	SnapshotCacheTTL time.Duration
}

// ChatService чат-ассистент по данным портала. Часы, ограничитель частоты
// и кеш среза данных — явные зависимости сервиса, без глобального состояния.
type ChatService struct {
	llm    llmCompleter
	config ChatConfig
	now    func() time.Time
	logger *slog.Logger

	products      *database.ProductDB
	manufacturers *database.ManufacturerDB
	orders        *database.OrderDB
	tasks         *database.TaskDB

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	snapshotMu        sync.Mutex
	snapshot          string
	snapshotExpiresAt time.Time
}

// NewChatService создает чат-ассистент. now позволяет подменять время в тестах;
// nil означает time.Now.
func NewChatService(
	completer llmCompleter,
	config ChatConfig,
	products *database.ProductDB,
	manufacturers *database.ManufacturerDB,
	orders *database.OrderDB,
	tasks *database.TaskDB,
	now func() time.Time,
	logger *slog.Logger,
) *ChatService {
	if now == nil {
		now = time.Now
	}
	if config.RequestsPerMin <= 0 {
		config.RequestsPerMin = 10
	}

	return &ChatService{
		llm:           completer,
		config:        config,
		now:           now,
		logger:        logger,
		products:      products,
		manufacturers: manufacturers,
		orders:        orders,
		tasks:         tasks,
		limiters:      make(map[string]*rate.Limiter),
	}
}

// Ask отвечает на вопрос пользователя по данным портала.
// Частота запросов ограничивается отдельно для каждого пользователя.
func (s *ChatService) Ask(ctx context.Context, username, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.NewValidationError("question is empty", nil)
	}

	if !s.allow(username) {
		s.logger.Warn("chat rate limit exceeded", "username", username)
		return "", apperrors.NewTooManyRequestsError("too many chat requests, slow down", nil)
	}

	snapshot, err := s.portalSnapshot(ctx)
	if err != nil {
		return "", apperrors.NewInternalError("failed to build portal snapshot", err)
	}

	messages := []llm.Message{
		{
			Role: "system",
			Content: "You are an assistant for an internal business portal of a road safety " +
				"products company. Answer briefly using only the portal data below.\n\n" + snapshot,
		},
		{Role: "user", Content: question},
	}

	answer, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return "", apperrors.NewBadGatewayError("assistant is unavailable", err)
	}
	return answer, nil
}

// allow проверяет персональный лимит частоты запросов пользователя
func (s *ChatService) allow(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, ok := s.limiters[username]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(s.config.RequestsPerMin)/60.0), s.config.RequestsPerMin)
		s.limiters[username] = limiter
	}
	return limiter.AllowN(s.now(), 1)
}

// portalSnapshot собирает текстовый срез данных портала с TTL-кешем
func (s *ChatService) portalSnapshot(ctx context.Context) (string, error) {
	s.snapshotMu.Lock()
	defer s.snapshotMu.Unlock()

	if s.snapshot != "" && s.now().Before(s.snapshotExpiresAt) {
		return s.snapshot, nil
	}

	products, err := s.products.GetAll(ctx)
	if err != nil {
		return "", err
	}
	manufacturers, err := s.manufacturers.GetAll(ctx)
	if err != nil {
		return "", err
	}
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return "", err
	}
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Products (%d):\n", len(products))
	for _, p := range products {
		fmt.Fprintf(&b, "- %s [%s]\n", p.Name, strings.Join(p.Subtypes, ", "))
	}
	fmt.Fprintf(&b, "Manufacturers (%d):\n", len(manufacturers))
	for _, m := range manufacturers {
		fmt.Fprintf(&b, "- %s (%s): %s\n", m.Name, m.Location, strings.Join(offerLabels(m.ProductsOffered), ", "))
	}
	fmt.Fprintf(&b, "Orders (%d):\n", len(orders))
	for _, o := range orders {
		fmt.Fprintf(&b, "- %s x%g from %s, %s to %s, status %s\n",
			o.Product, o.Quantity, o.Manufacturer, o.FromLocation, o.ToLocation, o.Status)
	}
	fmt.Fprintf(&b, "Tasks (%d):\n", len(tasks))
	for _, t := range tasks {
		done := "open"
		if t.Done {
			done = "done"
		}
		fmt.Fprintf(&b, "- %s: %s on %s (%s)\n",
			t.AssignedTo, strings.SplitN(t.TaskText, "\n", 2)[0], t.TaskDate.Format("2006-01-02"), done)
	}

	s.snapshot = b.String()
	s.snapshotExpiresAt = s.now().Add(s.config.SnapshotCacheTTL)
	return s.snapshot, nil
}
