package matching

import (
	"math"
	"math/rand"
	"testing"
)

// TestScoreExactAfterNormalization проверяет, что строки, равные после
// нормализации, получают оценку 1.0.
func TestScoreExactAfterNormalization(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"W-Beam", "w-beam "},
		{"  Metal Beam  Crash Barrier", "metal beam crash barrier"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Score(tt.a, tt.b); got != 1.0 {
			t.Errorf("Score(%q, %q) = %v, want 1.0", tt.a, tt.b, got)
		}
	}
}

// TestScoreContainment проверяет фиксированную оценку 0.9 при вхождении
// одной нормализованной строки в другую.
func TestScoreContainment(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"guardrail", "guardrail systems"},
		{"Metal Beam Crash Barrier", "metal beam"},
		{"Chennai", "chennai port"},
	}

	for _, tt := range tests {
		if got := Score(tt.a, tt.b); got != ContainmentScore {
			t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, ContainmentScore)
		}
	}
}

// TestScoreTypo проверяет, что одиночная опечатка проходит порог дубликата.
func TestScoreTypo(t *testing.T) {
	got := Score("SafeRoad India", "SafeRoad Indea")
	if got < NameThreshold {
		t.Errorf("Score(SafeRoad India, SafeRoad Indea) = %v, want >= %v", got, NameThreshold)
	}
	if got >= 1.0 {
		t.Errorf("опечатка не должна давать точное совпадение: %v", got)
	}
}

// TestScoreEmptyAgainstNonEmpty проверяет, что пустая строка не считается
// точным совпадением с непустой.
func TestScoreEmptyAgainstNonEmpty(t *testing.T) {
	if got := Score("abc", ""); got >= 1.0 {
		t.Errorf("Score(abc, \"\") = %v, want < 1.0", got)
	}
}

// TestScoreUnrelated проверяет низкие оценки для несвязанных строк.
func TestScoreUnrelated(t *testing.T) {
	got := Score("Signage", "W-Beam Barrier")
	if got >= NameThreshold {
		t.Errorf("Score(Signage, W-Beam Barrier) = %v, want < %v", got, NameThreshold)
	}
}

// TestScoreBounds проверяет диапазон [0, 1] и симметричность на случайных парах.
func TestScoreBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []rune("abcdefghij -")

	randomString := func() string {
		n := rng.Intn(20)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(runes)
	}

	for i := 0; i < 200; i++ {
		a := randomString()
		b := randomString()

		ab := Score(a, b)
		ba := Score(b, a)

		if ab != ba {
			t.Errorf("Score не симметрична: Score(%q, %q)=%v, Score(%q, %q)=%v", a, b, ab, b, a, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("Score(%q, %q) = %v вне диапазона [0, 1]", a, b, ab)
		}
		if got := Score(a, a); got != 1.0 {
			t.Errorf("Score(%q, %q) = %v, want 1.0", a, a, got)
		}
	}
}

// TestScorePositionalDistance проверяет формулу позиционного расстояния.
func TestScorePositionalDistance(t *testing.T) {
	const eps = 1e-9

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		// 3 несовпадения на длине 5, нижняя граница не применяется.
		{"три несовпадения", "abcde", "abxyz", 0.4},
		// 2 несовпадения на длине 4 дают 0.5, но distance <= 2 при
		// maxLen > 2 поднимает оценку до нижней границы.
		{"две опечатки", "abcd", "abxy", 0.85},
		// одно несовпадение на длине 10, 0.9 уже выше нижней границы.
		{"одна опечатка в длинной строке", "abcdefghij", "abcdefghix", 0.9},
		// 1 несовпадение на длине 4 дает 0.75, поднимается до нижней границы.
		{"одна опечатка в короткой строке", "abcx", "abcy", 0.85},
		// разница длин входит в расстояние: 3 несовпадения плюс 2
		// лишних символа на длине 8.
		{"разные длины", "ab cde", "ab xyz q", 1.0 - 5.0/8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("Score(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
