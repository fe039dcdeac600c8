package matching

import "strings"

// Пороги схожести, используемые политиками обнаружения дубликатов.
const (
	// NameThreshold — минимальная схожесть имени (и детальных полей),
	// при которой запись считается кандидатом в дубликаты.
	NameThreshold = 0.85

	// StrongNameThreshold — схожесть имени, при которой запись считается
	// дубликатом даже без совпадения детальных полей.
	StrongNameThreshold = 0.95

	// ContainmentScore — фиксированная оценка, когда одна нормализованная
	// строка содержит другую как подстроку.
	ContainmentScore = 0.9

	// typoFloor — нижняя граница оценки для пар, отличающихся одной-двумя
	// позициями: опечатка не должна опускать оценку ниже порога.
	typoFloor = 0.85

	// QuantityEpsilon — допуск при сравнении количеств в заказах.
	QuantityEpsilon = 0.01
)

// Score возвращает оценку схожести двух строк в диапазоне [0, 1].
// Правила применяются по порядку, первое сработавшее выигрывает:
//  1. нормализованные строки равны (включая две пустые) — 1.0;
//  2. одна нормализованная строка содержит другую — 0.9;
//  3. иначе позиционное сравнение: число несовпадающих позиций на общей
//     длине плюс разница длин, схожесть = 1 − distance/maxLen.
//
// Для коротких расхождений (distance <= 2 при maxLen > 2) оценка
// поднимается до typoFloor, чтобы одиночные опечатки проходили порог.
// Сравнение ведется по рунам. Функция чистая и не возвращает ошибок.
func Score(a, b string) float64 {
	na := NormalizeText(a)
	nb := NormalizeText(b)

	if na == nb {
		return 1.0
	}

	// Пустая строка формально является подстрокой любой, поэтому пара
	// "что-то"/"" попадает под это правило и получает 0.9.
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return ContainmentScore
	}

	ra := []rune(na)
	rb := []rune(nb)

	minLen := len(ra)
	maxLen := len(rb)
	if minLen > maxLen {
		minLen, maxLen = maxLen, minLen
	}

	mismatches := 0
	for i := 0; i < minLen; i++ {
		if ra[i] != rb[i] {
			mismatches++
		}
	}

	// distance <= maxLen всегда: несовпадений не больше minLen,
	// плюс (maxLen - minLen). Значит схожесть не бывает отрицательной.
	distance := mismatches + (maxLen - minLen)
	similarity := 1.0 - float64(distance)/float64(maxLen)

	if distance <= 2 && maxLen > 2 && similarity < typoFloor {
		similarity = typoFloor
	}

	return similarity
}
