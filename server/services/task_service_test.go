package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalserver/database"
)

// TestTaskServiceDuplicateGate проверяет точный шлюз дубликатов задач.
func TestTaskServiceDuplicateGate(t *testing.T) {
	ctx := context.Background()
	tdb, err := database.NewTaskDB(newTestSQL(t))
	require.NoError(t, err)
	service := NewTaskService(tdb, testLogger())

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	original := &database.Task{
		AssignedTo: "Priya Sharma",
		TaskDate:   day,
		TaskText:   "Inspect barrier shipment\nCheck welds.",
	}
	dup, err := service.Create(ctx, original, false)
	require.NoError(t, err)
	require.Nil(t, dup)

	// Тот же заголовок и исполнитель в тот же день
	repeat := &database.Task{
		AssignedTo: "priya sharma",
		TaskDate:   day,
		TaskText:   "Inspect Barrier Shipment\nOther details.",
	}
	dup, err = service.Create(ctx, repeat, false)
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, original.ID, dup.ExistingID)

	// На следующий день — не дубликат
	nextDay := &database.Task{
		AssignedTo: "Priya Sharma",
		TaskDate:   day.AddDate(0, 0, 1),
		TaskText:   "Inspect barrier shipment",
	}
	dup, err = service.Create(ctx, nextDay, false)
	require.NoError(t, err)
	assert.Nil(t, dup)
}
