package websearch

import (
	"context"
	"testing"
)

// fakeSearcher заготовленные результаты поиска
type fakeSearcher struct {
	results []SearchResult
}

func (f *fakeSearcher) Search(_ context.Context, _ string) ([]SearchResult, error) {
	return f.results, nil
}

// TestVerifierVerified проверяет подтверждение при достаточных упоминаниях.
func TestVerifierVerified(t *testing.T) {
	verifier := &Verifier{
		client: &fakeSearcher{results: []SearchResult{
			{Title: "SafeRoad India - W-Beam barriers", Snippet: "Leading manufacturer"},
			{Title: "About us | SafeRoad India", Snippet: "Chennai based"},
			{Title: "Unrelated page", Snippet: "nothing here"},
		}},
		minMentions:   2,
		minConfidence: 0.3,
	}

	verification, err := verifier.Verify(context.Background(), "SafeRoad India", "Chennai")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if verification.Mentions != 2 {
		t.Errorf("Mentions = %d, want 2", verification.Mentions)
	}
	if !verification.Verified {
		t.Errorf("ожидалось подтверждение, получено %+v", verification)
	}
}

// TestVerifierNotVerified проверяет отказ при недостатке упоминаний.
func TestVerifierNotVerified(t *testing.T) {
	verifier := &Verifier{
		client: &fakeSearcher{results: []SearchResult{
			{Title: "Unrelated page", Snippet: "nothing"},
			{Title: "Another page", Snippet: "still nothing"},
		}},
		minMentions:   2,
		minConfidence: 0.3,
	}

	verification, err := verifier.Verify(context.Background(), "SafeRoad India", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if verification.Verified {
		t.Errorf("не ожидалось подтверждение: %+v", verification)
	}
}

// TestVerifierEmptyName проверяет отказ на пустое имя.
func TestVerifierEmptyName(t *testing.T) {
	verifier := &Verifier{client: &fakeSearcher{}, minMentions: 2, minConfidence: 0.3}
	if _, err := verifier.Verify(context.Background(), "  ", ""); err == nil {
		t.Error("ожидалась ошибка на пустое имя")
	}
}
