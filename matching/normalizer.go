package matching

import "strings"

// NormalizeText приводит текст к каноническому виду для сравнения:
// обрезает пробелы по краям, переводит в нижний регистр и схлопывает
// последовательности пробельных символов в один пробел.
// Функция идемпотентна: NormalizeText(NormalizeText(x)) == NormalizeText(x).
// Пустая строка остается пустой, функция никогда не возвращает ошибку.
func NormalizeText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	return strings.Join(strings.Fields(text), " ")
}
