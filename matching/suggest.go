package matching

import (
	"regexp"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Этот файл реализует метрику для автодополнения (/suggest).
// ВНИМАНИЕ: SuggestScore не участвует в политиках обнаружения дубликатов,
// серверная проверка использует только Score. Таблица синонимов единиц
// измерения также применяется только здесь.

// unitSynonyms сводит разнобой в записи единиц измерения к каноническим
// формам. Замена выполняется по границам слов на нормализованном тексте.
var unitSynonyms = []struct {
	pattern   *regexp.Regexp
	canonical string
}{
	{regexp.MustCompile(`\b(?:ft|feet|foot)\b`), "ft"},
	{regexp.MustCompile(`\b(?:kg|kgs|kilogram|kilograms)\b`), "kg"},
	{regexp.MustCompile(`\b(?:meter|meters|metre|metres|mtr|mtrs)\b`), "meter"},
	{regexp.MustCompile(`\b(?:piece|pieces|pc|pcs)\b`), "piece"},
	{regexp.MustCompile(`\b(?:litre|litres|liter|liters|ltr|ltrs)\b`), "litre"},
	{regexp.MustCompile(`\b(?:unit|units)\b`), "unit"},
}

// NormalizeForSuggest готовит текст к нечеткому сравнению подсказок:
// базовая нормализация, приведение Unicode к форме NFC и замена
// синонимов единиц измерения каноническими формами.
func NormalizeForSuggest(text string) string {
	text = norm.NFC.String(NormalizeText(text))
	for _, syn := range unitSynonyms {
		text = syn.pattern.ReplaceAllString(text, syn.canonical)
	}
	return text
}

// LevenshteinDistance вычисляет редакционное расстояние между строками
// по рунам, используя один рабочий массив вместо полной матрицы.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			current := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, min(row[j-1]+1, prev+cost))
			prev = current
		}
	}
	return row[len(rb)]
}

// levenshteinSimilarity переводит расстояние в оценку схожести [0, 1].
func levenshteinSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// jaroSimilarity вычисляет классическую метрику Джаро по рунам.
func jaroSimilarity(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	matchWindow := len(ra)
	if len(rb) > matchWindow {
		matchWindow = len(rb)
	}
	matchWindow = matchWindow/2 - 1
	if matchWindow < 0 {
		matchWindow = 0
	}

	aMatched := make([]bool, len(ra))
	bMatched := make([]bool, len(rb))

	matches := 0
	for i := range ra {
		start := i - matchWindow
		if start < 0 {
			start = 0
		}
		end := i + matchWindow + 1
		if end > len(rb) {
			end = len(rb)
		}
		for j := start; j < end; j++ {
			if bMatched[j] || ra[i] != rb[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	j := 0
	for i := range ra {
		if !aMatched[i] {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-float64(transpositions)/2)/m) / 3
}

// JaroWinklerSimilarity усиливает метрику Джаро бонусом за общий префикс
// длиной до четырех рун.
func JaroWinklerSimilarity(a, b string) float64 {
	jaro := jaroSimilarity(a, b)
	if jaro <= 0.7 {
		return jaro
	}

	ra := []rune(a)
	rb := []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < 4 && ra[prefix] == rb[prefix] {
		prefix++
	}
	return jaro + float64(prefix)*0.1*(1-jaro)
}

// SuggestScore возвращает оценку схожести для подсказок: максимум из
// нормализованного расстояния Левенштейна и метрики Джаро-Винклера,
// посчитанных на тексте после NormalizeForSuggest.
func SuggestScore(a, b string) float64 {
	na := NormalizeForSuggest(a)
	nb := NormalizeForSuggest(b)

	lev := levenshteinSimilarity(na, nb)
	jw := JaroWinklerSimilarity(na, nb)
	if jw > lev {
		return jw
	}
	return lev
}

// Suggestion — один вариант автодополнения с его оценкой.
type Suggestion struct {
	Value string  `json:"value"`
	Score float64 `json:"score"`
}

// RankSuggestions отбирает из кандидатов варианты со схожестью не ниже
// minScore, сортирует по убыванию оценки и обрезает до limit.
// Дубликаты кандидатов схлопываются.
func RankSuggestions(query string, candidates []string, minScore float64, limit int) []Suggestion {
	seen := make(map[string]bool, len(candidates))
	suggestions := []Suggestion{}

	for _, candidate := range candidates {
		if candidate == "" || seen[candidate] {
			continue
		}
		seen[candidate] = true

		score := SuggestScore(query, candidate)
		if score < minScore {
			continue
		}
		suggestions = append(suggestions, Suggestion{Value: candidate, Score: score})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
