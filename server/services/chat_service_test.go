package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalserver/database"
	"portalserver/llm"
	apperrors "portalserver/server/errors"
)

// fakeCompleter записывает полученные сообщения и возвращает заготовленный ответ
type fakeCompleter struct {
	lastMessages []llm.Message
	answer       string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	f.lastMessages = messages
	return f.answer, nil
}

// fakeClock управляемые часы для тестов
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

// newChatFixture собирает чат-сервис поверх временной базы
func newChatFixture(t *testing.T, completer llmCompleter, clock *fakeClock, config ChatConfig) (*ChatService, *database.ProductDB) {
	t.Helper()

	db := newTestSQL(t)
	pdb, err := database.NewProductDB(db)
	require.NoError(t, err)
	mdb, err := database.NewManufacturerDB(db)
	require.NoError(t, err)
	odb, err := database.NewOrderDB(db)
	require.NoError(t, err)
	tdb, err := database.NewTaskDB(db)
	require.NoError(t, err)

	service := NewChatService(completer, config, pdb, mdb, odb, tdb, clock.Now, testLogger())
	return service, pdb
}

// TestChatServiceRateLimit проверяет персональный лимит частоты запросов.
func TestChatServiceRateLimit(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{current: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	completer := &fakeCompleter{answer: "ok"}

	service, _ := newChatFixture(t, completer, clock, ChatConfig{
		RequestsPerMin:   2,
		SnapshotCacheTTL: time.Minute,
	})

	// Первые два запроса проходят
	for i := 0; i < 2; i++ {
		_, err := service.Ask(ctx, "priya", "how many products?")
		require.NoError(t, err)
	}

	// Третий упирается в лимит
	_, err := service.Ask(ctx, "priya", "again?")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 429, appErr.StatusCode())

	// Лимит персональный: другой пользователь проходит
	_, err = service.Ask(ctx, "arjun", "hello")
	require.NoError(t, err)

	// Через минуту токены восстанавливаются
	clock.Advance(time.Minute)
	_, err = service.Ask(ctx, "priya", "and now?")
	require.NoError(t, err)
}

// TestChatServiceSnapshotCache проверяет TTL-кеш среза данных портала.
func TestChatServiceSnapshotCache(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{current: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	completer := &fakeCompleter{answer: "ok"}

	service, pdb := newChatFixture(t, completer, clock, ChatConfig{
		RequestsPerMin:   100,
		SnapshotCacheTTL: time.Minute,
	})

	require.NoError(t, pdb.Create(ctx, &database.Product{ID: "p1", Name: "Crash Cushion"}))

	_, err := service.Ask(ctx, "priya", "what do we sell?")
	require.NoError(t, err)
	require.NotEmpty(t, completer.lastMessages)
	assert.True(t, strings.Contains(completer.lastMessages[0].Content, "Crash Cushion"))

	// Новая запись внутри TTL не видна: срез берется из кеша
	require.NoError(t, pdb.Create(ctx, &database.Product{ID: "p2", Name: "Solar Road Stud"}))
	_, err = service.Ask(ctx, "priya", "and now?")
	require.NoError(t, err)
	assert.False(t, strings.Contains(completer.lastMessages[0].Content, "Solar Road Stud"))

	// После истечения TTL срез перестраивается
	clock.Advance(2 * time.Minute)
	_, err = service.Ask(ctx, "priya", "and after a while?")
	require.NoError(t, err)
	assert.True(t, strings.Contains(completer.lastMessages[0].Content, "Solar Road Stud"))
}

// TestChatServiceEmptyQuestion проверяет отказ на пустой вопрос.
func TestChatServiceEmptyQuestion(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{current: time.Now()}
	service, _ := newChatFixture(t, &fakeCompleter{answer: "ok"}, clock, ChatConfig{
		RequestsPerMin:   10,
		SnapshotCacheTTL: time.Minute,
	})

	_, err := service.Ask(ctx, "priya", "   ")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode())
}
