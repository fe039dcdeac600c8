package matching

import (
	"strings"
	"testing"
	"time"

	"portalserver/database"
)

// TestFindDuplicateProduct проверяет двухступенчатую политику для товарных позиций.
func TestFindDuplicateProduct(t *testing.T) {
	existing := []database.Product{
		{
			ID:       "p1",
			Name:     "Metal Beam Crash Barrier",
			Subtypes: []string{"W-Beam", "Thrie-Beam"},
		},
		{
			ID:   "p2",
			Name: "Road Signage",
		},
	}

	t.Run("совпадение имени и подтипа", func(t *testing.T) {
		candidate := database.Product{
			Name:     "metal beam  crash barrier",
			Subtypes: []string{"w-beam "},
		}
		dup := FindDuplicateProduct(candidate, existing)
		if dup == nil {
			t.Fatal("ожидался дубликат, получен nil")
		}
		if dup.ExistingID != "p1" {
			t.Errorf("ExistingID = %q, want p1", dup.ExistingID)
		}
		if dup.Reason == "" {
			t.Error("причина дубликата пуста")
		}
	})

	t.Run("то же имя, другой подтип", func(t *testing.T) {
		// Имя совпадает полностью, но подтипы есть у обеих записей и не
		// пересекаются: дубликатом не считается.
		candidate := database.Product{
			Name:     "Metal Beam Crash Barrier",
			Subtypes: []string{"Cable Barrier"},
		}
		if dup := FindDuplicateProduct(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("почти точное имя без подтипов", func(t *testing.T) {
		candidate := database.Product{Name: "Road Signage"}
		dup := FindDuplicateProduct(candidate, existing)
		if dup == nil {
			t.Fatal("ожидался дубликат, получен nil")
		}
		if dup.ExistingID != "p2" {
			t.Errorf("ExistingID = %q, want p2", dup.ExistingID)
		}
	})

	t.Run("вхождение имени без подтипов ниже строгого порога", func(t *testing.T) {
		// Вхождение подстроки дает 0.9: выше порога кандидата, но ниже
		// строгого порога, а подтипов для второй ступени нет.
		candidate := database.Product{Name: "Signage"}
		if dup := FindDuplicateProduct(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("несвязанное имя", func(t *testing.T) {
		candidate := database.Product{Name: "Solar Street Light", Subtypes: []string{"W-Beam"}}
		if dup := FindDuplicateProduct(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})
}

// TestFindDuplicateManufacturer проверяет политику для производителей.
func TestFindDuplicateManufacturer(t *testing.T) {
	existing := []database.Manufacturer{
		{
			ID:       "m1",
			Name:     "SafeRoad India",
			Location: "Chennai",
			ProductsOffered: []database.Offer{
				{ProductType: "W-Beam Barrier", Price: 450},
				{ProductType: "Crash Cushion", Price: 98000},
			},
		},
	}

	t.Run("опечатка в имени и общая продукция", func(t *testing.T) {
		candidate := database.Manufacturer{
			Name:            "SafeRoad Indea",
			ProductsOffered: []database.Offer{{ProductType: "w-beam barrier", Price: 470}},
		}
		dup := FindDuplicateManufacturer(candidate, existing)
		if dup == nil {
			t.Fatal("ожидался дубликат, получен nil")
		}
		if dup.ExistingID != "m1" {
			t.Errorf("ExistingID = %q, want m1", dup.ExistingID)
		}
		// Вердикт называет конфликтующую продукцию и обе цены
		for _, fragment := range []string{"w-beam barrier", "470.00", "W-Beam Barrier", "450.00"} {
			if !strings.Contains(dup.Reason, fragment) {
				t.Errorf("причина %q не содержит %q", dup.Reason, fragment)
			}
		}
		if len(dup.Existing.ProductsOffered) == 0 || dup.Existing.ProductsOffered[0].Price != 450 {
			t.Errorf("в записи вердикта потеряны цены предложений: %+v", dup.Existing.ProductsOffered)
		}
	})

	t.Run("похожее имя ниже строгого порога без общей продукции", func(t *testing.T) {
		// Оценка имени между порогами требует пересечения продукции.
		candidate := database.Manufacturer{
			Name:            "SafeRoad Indea",
			ProductsOffered: []database.Offer{{ProductType: "Signage", Price: 1200}},
		}
		if dup := FindDuplicateManufacturer(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("общая продукция с разными ценами", func(t *testing.T) {
		// Цены в сравнении не участвуют, решает тип продукции.
		candidate := database.Manufacturer{
			Name:            "SafeRoad Indea",
			ProductsOffered: []database.Offer{{ProductType: "Crash Cushion", Price: 1}},
		}
		if dup := FindDuplicateManufacturer(candidate, existing); dup == nil {
			t.Fatal("ожидался дубликат, получен nil")
		}
	})

	t.Run("точное имя без общей продукции", func(t *testing.T) {
		// Почти точная коллизия имени решает независимо от продукции.
		candidate := database.Manufacturer{
			Name:            "saferoad india",
			ProductsOffered: []database.Offer{{ProductType: "Signage", Price: 1200}},
		}
		dup := FindDuplicateManufacturer(candidate, existing)
		if dup == nil {
			t.Fatal("ожидался дубликат, получен nil")
		}
	})

	t.Run("несвязанное имя", func(t *testing.T) {
		candidate := database.Manufacturer{
			Name:            "Bharat Steel Works",
			ProductsOffered: []database.Offer{{ProductType: "W-Beam Barrier", Price: 450}},
		}
		if dup := FindDuplicateManufacturer(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})
}

// TestFindDuplicateOrder проверяет конъюнкцию всех условий для заказов.
func TestFindDuplicateOrder(t *testing.T) {
	existing := []database.Order{
		{
			ID:           "o1",
			Manufacturer: "SafeRoad India",
			Product:      "Metal Beam Crash Barrier",
			ProductType:  "W-Beam",
			Quantity:     120,
			FromLocation: "Chennai Port",
			ToLocation:   "Hyderabad Site",
		},
	}

	base := database.Order{
		Manufacturer: "saferoad  india",
		Product:      "Metal Beam Crash Barrier",
		ProductType:  "w-beam",
		Quantity:     120.005,
		FromLocation: "chennai port",
		ToLocation:   "Hyderabad Site",
	}

	t.Run("все поля совпадают с допуском по количеству", func(t *testing.T) {
		dup := FindDuplicateOrder(base, existing)
		if dup == nil {
			t.Fatal("ожидался дубликат, получен nil")
		}
		if dup.ExistingID != "o1" {
			t.Errorf("ExistingID = %q, want o1", dup.ExistingID)
		}
	})

	t.Run("количество за пределами допуска", func(t *testing.T) {
		candidate := base
		candidate.Quantity = 120.5
		if dup := FindDuplicateOrder(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("количество ровно на границе допуска", func(t *testing.T) {
		// Сравнение строгое: разница ровно в QuantityEpsilon уже не дубликат.
		// Количества 0.02 и 0.01 дают в double точную разность, равную допуску.
		boundaryExisting := []database.Order{existing[0]}
		boundaryExisting[0].Quantity = 0.02
		candidate := base
		candidate.Quantity = 0.01
		if dup := FindDuplicateOrder(candidate, boundaryExisting); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("другое место назначения", func(t *testing.T) {
		candidate := base
		candidate.ToLocation = "Mumbai Depot"
		if dup := FindDuplicateOrder(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("другой производитель", func(t *testing.T) {
		candidate := base
		candidate.Manufacturer = "Bharat Steel Works"
		if dup := FindDuplicateOrder(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})
}

// TestFindDuplicateTask проверяет точное сравнение задач по заголовку,
// исполнителю и календарной дате.
func TestFindDuplicateTask(t *testing.T) {
	day := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	existing := []database.Task{
		{
			ID:         "t1",
			AssignedTo: "Priya Sharma",
			TaskDate:   day,
			TaskText:   "Inspect barrier shipment\nCheck welds and galvanization.",
		},
	}

	t.Run("тот же заголовок, исполнитель и день", func(t *testing.T) {
		candidate := database.Task{
			AssignedTo: "priya  sharma",
			TaskDate:   time.Date(2026, 3, 14, 17, 0, 0, 0, time.UTC),
			TaskText:   "  Inspect Barrier Shipment  \nDifferent details here.",
		}
		dup := FindDuplicateTask(candidate, existing)
		if dup == nil {
			t.Fatal("ожидался дубликат, получен nil")
		}
		if dup.ExistingID != "t1" {
			t.Errorf("ExistingID = %q, want t1", dup.ExistingID)
		}
	})

	t.Run("следующий день", func(t *testing.T) {
		candidate := database.Task{
			AssignedTo: "Priya Sharma",
			TaskDate:   day.AddDate(0, 0, 1),
			TaskText:   "Inspect barrier shipment",
		}
		if dup := FindDuplicateTask(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("почти совпадающий заголовок", func(t *testing.T) {
		// Для задач нечеткое сравнение не применяется.
		candidate := database.Task{
			AssignedTo: "Priya Sharma",
			TaskDate:   day,
			TaskText:   "Inspect barrier shipments",
		}
		if dup := FindDuplicateTask(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})

	t.Run("другой исполнитель", func(t *testing.T) {
		candidate := database.Task{
			AssignedTo: "Arjun Mehta",
			TaskDate:   day,
			TaskText:   "Inspect barrier shipment",
		}
		if dup := FindDuplicateTask(candidate, existing); dup != nil {
			t.Errorf("не ожидался дубликат, получен %+v", dup)
		}
	})
}

// TestTaskTitle проверяет выделение заголовка из текста задачи.
func TestTaskTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Single line", "Single line"},
		{"Title\nbody text", "Title"},
		{"", ""},
		{"\nbody only", ""},
	}

	for _, tt := range tests {
		if got := TaskTitle(tt.input); got != tt.expected {
			t.Errorf("TaskTitle(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
