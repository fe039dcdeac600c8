package matching

import (
	"fmt"
	"math"

	"portalserver/database"
)

// Duplicate описывает найденный дубликат: человекочитаемую причину и
// идентификатор существующей записи. Указатель на конкретную запись
// несут типизированные результаты политик.
type Duplicate struct {
	Reason     string `json:"reason"`
	ExistingID string `json:"existing_id"`
}

// ProductDuplicate — результат срабатывания политики для товарных позиций.
type ProductDuplicate struct {
	Duplicate
	Existing database.Product `json:"existing"`
}

// ManufacturerDuplicate — результат срабатывания политики для производителей.
type ManufacturerDuplicate struct {
	Duplicate
	Existing database.Manufacturer `json:"existing"`
}

// OrderDuplicate — результат срабатывания политики для заказов.
type OrderDuplicate struct {
	Duplicate
	Existing database.Order `json:"existing"`
}

// TaskDuplicate — результат срабатывания политики для задач.
type TaskDuplicate struct {
	Duplicate
	Existing database.Task `json:"existing"`
}

// fieldScore описывает одно сравниваемое поле составной проверки.
type fieldScore struct {
	candidate string
	existing  string
}

// allFieldsMatch проверяет, что каждая пара полей набирает не меньше порога.
// Отсутствующие значения участвуют как пустые строки.
func allFieldsMatch(fields []fieldScore, threshold float64) bool {
	for _, f := range fields {
		if Score(f.candidate, f.existing) < threshold {
			return false
		}
	}
	return true
}

// bestPair перебирает декартово произведение двух списков и возвращает
// первую пару со схожестью не ниже порога.
func bestPair(candidates, existing []string, threshold float64) (string, string, bool) {
	for _, c := range candidates {
		for _, e := range existing {
			if Score(c, e) >= threshold {
				return c, e, true
			}
		}
	}
	return "", "", false
}

// bestOfferPair перебирает пары предложений и возвращает первую со
// схожестью типов продукции не ниже порога. Цены в сравнении не участвуют.
func bestOfferPair(candidates, existing []database.Offer, threshold float64) (database.Offer, database.Offer, bool) {
	for _, c := range candidates {
		for _, e := range existing {
			if Score(c.ProductType, e.ProductType) >= threshold {
				return c, e, true
			}
		}
	}
	return database.Offer{}, database.Offer{}, false
}

// FindDuplicateProduct ищет среди существующих товарных позиций дубликат
// кандидата. Двухступенчатая проверка: схожесть имени не ниже NameThreshold
// открывает сравнение подтипов; если подтипы есть у обеих записей, решает
// совпадение любой пары подтипов, иначе достаточно имени не ниже
// StrongNameThreshold. Возвращает nil, если дубликат не найден.
func FindDuplicateProduct(candidate database.Product, existing []database.Product) *ProductDuplicate {
	for i := range existing {
		e := &existing[i]

		nameScore := Score(candidate.Name, e.Name)
		if nameScore < NameThreshold {
			continue
		}

		if len(candidate.Subtypes) > 0 && len(e.Subtypes) > 0 {
			cs, es, ok := bestPair(candidate.Subtypes, e.Subtypes, NameThreshold)
			if !ok {
				continue
			}
			return &ProductDuplicate{
				Duplicate: Duplicate{
					Reason: fmt.Sprintf(
						"product %q with subtype %q closely matches existing product %q (subtype %q)",
						candidate.Name, cs, e.Name, es),
					ExistingID: e.ID,
				},
				Existing: *e,
			}
		}

		if nameScore >= StrongNameThreshold {
			return &ProductDuplicate{
				Duplicate: Duplicate{
					Reason: fmt.Sprintf(
						"product %q closely matches existing product %q",
						candidate.Name, e.Name),
					ExistingID: e.ID,
				},
				Existing: *e,
			}
		}
	}
	return nil
}

// FindDuplicateManufacturer ищет дубликат производителя. Схожесть имени не
// ниже NameThreshold открывает сравнение предлагаемых типов продукции;
// совпавшая пара означает дубликат и попадает в вердикт вместе с ценой,
// а имя не ниже StrongNameThreshold признается дубликатом и без
// пересечения продукции. Возвращает nil, если дубликат не найден.
func FindDuplicateManufacturer(candidate database.Manufacturer, existing []database.Manufacturer) *ManufacturerDuplicate {
	for i := range existing {
		e := &existing[i]

		nameScore := Score(candidate.Name, e.Name)
		if nameScore < NameThreshold {
			continue
		}

		if co, eo, ok := bestOfferPair(candidate.ProductsOffered, e.ProductsOffered, NameThreshold); ok {
			return &ManufacturerDuplicate{
				Duplicate: Duplicate{
					Reason: fmt.Sprintf(
						"manufacturer %q offering %q at %.2f closely matches existing manufacturer %q (offering %q at %.2f)",
						candidate.Name, co.ProductType, co.Price, e.Name, eo.ProductType, eo.Price),
					ExistingID: e.ID,
				},
				Existing: *e,
			}
		}

		if nameScore >= StrongNameThreshold {
			return &ManufacturerDuplicate{
				Duplicate: Duplicate{
					Reason: fmt.Sprintf(
						"manufacturer %q closely matches existing manufacturer %q",
						candidate.Name, e.Name),
					ExistingID: e.ID,
				},
				Existing: *e,
			}
		}
	}
	return nil
}

// FindDuplicateOrder ищет дубликат заказа. Все пять текстовых полей
// (производитель, продукт, тип продукции, откуда, куда) должны набрать не
// меньше NameThreshold одновременно, а количества — совпасть с допуском
// QuantityEpsilon. Возвращает nil, если дубликат не найден.
func FindDuplicateOrder(candidate database.Order, existing []database.Order) *OrderDuplicate {
	for i := range existing {
		e := &existing[i]

		fields := []fieldScore{
			{candidate.Manufacturer, e.Manufacturer},
			{candidate.Product, e.Product},
			{candidate.ProductType, e.ProductType},
			{candidate.FromLocation, e.FromLocation},
			{candidate.ToLocation, e.ToLocation},
		}
		if !allFieldsMatch(fields, NameThreshold) {
			continue
		}
		if math.Abs(candidate.Quantity-e.Quantity) >= QuantityEpsilon {
			continue
		}

		return &OrderDuplicate{
			Duplicate: Duplicate{
				Reason: fmt.Sprintf(
					"order for %q from %q (qty %g, %s to %s) closely matches an existing order",
					candidate.Product, candidate.Manufacturer, candidate.Quantity,
					candidate.FromLocation, candidate.ToLocation),
				ExistingID: e.ID,
			},
			Existing: *e,
		}
	}
	return nil
}

// TaskTitle возвращает заголовок задачи: первую строку текста.
func TaskTitle(taskText string) string {
	for i, r := range taskText {
		if r == '\n' {
			return taskText[:i]
		}
	}
	return taskText
}

// FindDuplicateTask ищет дубликат задачи: точное совпадение нормализованного
// заголовка и исполнителя плюс та же календарная дата. Нечеткое сравнение
// здесь не применяется. Возвращает nil, если дубликат не найден.
func FindDuplicateTask(candidate database.Task, existing []database.Task) *TaskDuplicate {
	candidateTitle := NormalizeText(TaskTitle(candidate.TaskText))
	candidateAssignee := NormalizeText(candidate.AssignedTo)
	candidateDay := candidate.TaskDate.Format("2006-01-02")

	for i := range existing {
		e := &existing[i]

		if NormalizeText(TaskTitle(e.TaskText)) != candidateTitle {
			continue
		}
		if NormalizeText(e.AssignedTo) != candidateAssignee {
			continue
		}
		if e.TaskDate.Format("2006-01-02") != candidateDay {
			continue
		}

		return &TaskDuplicate{
			Duplicate: Duplicate{
				Reason: fmt.Sprintf(
					"task %q for %q on %s already exists",
					TaskTitle(candidate.TaskText), candidate.AssignedTo, candidateDay),
				ExistingID: e.ID,
			},
			Existing: *e,
		}
	}
	return nil
}
