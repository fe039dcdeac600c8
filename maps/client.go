package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Distance результат расчета расстояния между двумя пунктами
type Distance struct {
	From            string `json:"from"`
	To              string `json:"to"`
	DistanceMeters  int    `json:"distance_meters"`
	DistanceText    string `json:"distance_text"`
	DurationSeconds int    `json:"duration_seconds"`
	DurationText    string `json:"duration_text"`
}

// Config настройки клиента Distance Matrix API
type Config struct {
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// cacheEntry кешированный результат с временем истечения
type cacheEntry struct {
	distance  Distance
	expiresAt time.Time
}

// Client клиент Google Distance Matrix API с TTL-кешем маршрутов.
// Безопасен для конкурентного использования.
type Client struct {
	config     Config
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewClient создает клиент расчета расстояний
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		cache: make(map[string]cacheEntry),
	}
}

// matrixResponse ответ Distance Matrix API
type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"distance"`
			Duration struct {
				Text  string `json:"text"`
				Value int    `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// GetDistance возвращает расстояние и время в пути между пунктами,
// используя кеш маршрутов.
func (c *Client) GetDistance(ctx context.Context, from, to string) (*Distance, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return nil, fmt.Errorf("both origin and destination are required")
	}
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("maps api key is not configured")
	}

	cacheKey := from + "|" + to
	if d, ok := c.fromCache(cacheKey); ok {
		return &d, nil
	}

	params := url.Values{}
	params.Set("origins", from)
	params.Set("destinations", to)
	params.Set("key", c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build distance request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("distance request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read distance response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("maps api returned status %d", resp.StatusCode)
	}

	var parsed matrixResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse distance response: %w", err)
	}
	if parsed.Status != "OK" {
		return nil, fmt.Errorf("maps api status %s: %s", parsed.Status, parsed.ErrorMessage)
	}
	if len(parsed.Rows) == 0 || len(parsed.Rows[0].Elements) == 0 {
		return nil, fmt.Errorf("maps api returned empty result")
	}

	element := parsed.Rows[0].Elements[0]
	if element.Status != "OK" {
		return nil, fmt.Errorf("route not found: %s", element.Status)
	}

	distance := Distance{
		From:            from,
		To:              to,
		DistanceMeters:  element.Distance.Value,
		DistanceText:    element.Distance.Text,
		DurationSeconds: element.Duration.Value,
		DurationText:    element.Duration.Text,
	}

	c.store(cacheKey, distance)
	return &distance, nil
}

// fromCache возвращает непросроченный кешированный маршрут
func (c *Client) fromCache(key string) (Distance, bool) {
	if c.config.CacheTTL <= 0 {
		return Distance{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return Distance{}, false
	}
	return entry.distance, true
}

// store сохраняет маршрут в кеш
func (c *Client) store(key string, distance Distance) {
	if c.config.CacheTTL <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{distance: distance, expiresAt: time.Now().Add(c.config.CacheTTL)}
}
