package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portalserver/database"
)

// TestOrderServiceDuplicateGate проверяет конъюнкцию условий дубликата заказа.
func TestOrderServiceDuplicateGate(t *testing.T) {
	ctx := context.Background()
	odb, err := database.NewOrderDB(newTestSQL(t))
	require.NoError(t, err)
	service := NewOrderService(odb, testLogger())

	original := &database.Order{
		Manufacturer: "SafeRoad India",
		Product:      "Metal Beam Crash Barrier",
		ProductType:  "W-Beam",
		Quantity:     120,
		FromLocation: "Chennai Port",
		ToLocation:   "Hyderabad Site",
		MaterialCost: 100000,
	}
	dup, err := service.Create(ctx, original, false)
	require.NoError(t, err)
	require.Nil(t, dup)

	// Тот же заказ с косметическими отличиями
	repeat := &database.Order{
		Manufacturer: "saferoad  india",
		Product:      "Metal Beam Crash Barrier",
		ProductType:  "w-beam",
		Quantity:     120.005,
		FromLocation: "chennai port",
		ToLocation:   "Hyderabad Site",
	}
	dup, err = service.Create(ctx, repeat, false)
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, original.ID, dup.ExistingID)

	// Другое количество разрывает конъюнкцию
	different := *repeat
	different.Quantity = 240
	dup, err = service.Create(ctx, &different, false)
	require.NoError(t, err)
	assert.Nil(t, dup)
}

// TestOrderServiceTotalCost проверяет досчет итоговой стоимости.
func TestOrderServiceTotalCost(t *testing.T) {
	ctx := context.Background()
	odb, err := database.NewOrderDB(newTestSQL(t))
	require.NoError(t, err)
	service := NewOrderService(odb, testLogger())

	order := &database.Order{
		Manufacturer:  "SafeRoad India",
		Product:       "Crash Cushion",
		Quantity:      10,
		MaterialCost:  50000,
		TransportCost: 7000,
	}
	_, err = service.Create(ctx, order, false)
	require.NoError(t, err)
	assert.Equal(t, 57000.0, order.TotalCost)
}
