package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// SearchResult один результат веб-поиска
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Config настройки клиента веб-поиска
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	CacheTTL        time.Duration
	RateLimitPerSec int
	MaxResults      int
}

// DefaultConfig возвращает настройки клиента по умолчанию
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://html.duckduckgo.com/html/",
		Timeout:         5 * time.Second,
		CacheTTL:        24 * time.Hour,
		RateLimitPerSec: 1,
		MaxResults:      10,
	}
}

// cacheEntry кешированные результаты с временем истечения
type cacheEntry struct {
	results   []SearchResult
	expiresAt time.Time
}

// Client клиент HTML-версии DuckDuckGo с ограничением частоты запросов
// и TTL-кешем результатов. Безопасен для конкурентного использования.
type Client struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewClient создает клиент веб-поиска
func NewClient(config Config) *Client {
	if config.MaxResults <= 0 {
		config.MaxResults = 10
	}
	if config.RateLimitPerSec <= 0 {
		config.RateLimitPerSec = 1
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimitPerSec), 1),
		cache:   make(map[string]cacheEntry),
	}
}

// Search выполняет поиск и возвращает результаты, используя кеш.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	if results, ok := c.fromCache(query); ok {
		return results, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	results, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	c.store(query, results)
	return results, nil
}

// fetch загружает и разбирает страницу результатов
func (c *Client) fetch(ctx context.Context, query string) ([]SearchResult, error) {
	form := url.Values{}
	form.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; portalserver/1.0)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	return c.parseResults(doc), nil
}

// parseResults извлекает результаты из HTML-разметки DuckDuckGo
func (c *Client) parseResults(doc *goquery.Document) []SearchResult {
	results := []SearchResult{}

	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		snippet := strings.TrimSpace(s.Find("a.result__snippet").First().Text())

		if title == "" || href == "" {
			return true
		}

		results = append(results, SearchResult{
			Title:   title,
			URL:     resolveRedirect(href),
			Snippet: snippet,
		})
		return len(results) < c.config.MaxResults
	})

	return results
}

// resolveRedirect разворачивает редирект-ссылку DuckDuckGo (uddg-параметр)
func resolveRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded
		}
	}
	return href
}

// fromCache возвращает непросроченные кешированные результаты
func (c *Client) fromCache(query string) ([]SearchResult, bool) {
	if c.config.CacheTTL <= 0 {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[query]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.results, true
}

// store сохраняет результаты в кеш
func (c *Client) store(query string, results []SearchResult) {
	if c.config.CacheTTL <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[query] = cacheEntry{
		results:   results,
		expiresAt: time.Now().Add(c.config.CacheTTL),
	}
}
