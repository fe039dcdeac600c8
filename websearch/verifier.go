package websearch

import (
	"context"
	"fmt"
	"strings"

	"portalserver/matching"
)

// Verification итог онлайн-проверки производителя
type Verification struct {
	Query      string         `json:"query"`
	Mentions   int            `json:"mentions"`
	Confidence float64        `json:"confidence"`
	Verified   bool           `json:"verified"`
	Results    []SearchResult `json:"results"`
}

// searcher абстракция поиска для подмены в тестах
type searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Verifier проверяет существование производителя по результатам веб-поиска
type Verifier struct {
	client        searcher
	minMentions   int
	minConfidence float64
}

// NewVerifier создает проверяющего поверх клиента поиска
func NewVerifier(client *Client) *Verifier {
	return &Verifier{
		client:        client,
		minMentions:   2,
		minConfidence: 0.3,
	}
}

// Verify ищет производителя в вебе и оценивает долю результатов,
// упоминающих его имя. Компания считается подтвержденной, когда
// упоминаний достаточно и их доля не ниже порога.
func (v *Verifier) Verify(ctx context.Context, name, location string) (*Verification, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("manufacturer name is empty")
	}

	query := name
	if location = strings.TrimSpace(location); location != "" {
		query += " " + location
	}
	query += " manufacturer"

	results, err := v.client.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	normalizedName := matching.NormalizeText(name)
	mentions := 0
	for _, r := range results {
		haystack := matching.NormalizeText(r.Title + " " + r.Snippet)
		if strings.Contains(haystack, normalizedName) {
			mentions++
		}
	}

	verification := &Verification{
		Query:    query,
		Mentions: mentions,
		Results:  results,
	}
	if len(results) > 0 {
		verification.Confidence = float64(mentions) / float64(len(results))
	}
	verification.Verified = mentions >= v.minMentions && verification.Confidence >= v.minConfidence

	return verification, nil
}
