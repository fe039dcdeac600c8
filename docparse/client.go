package docparse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Extraction результат извлечения текста из документа
type Extraction struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
	Pages    int    `json:"pages,omitempty"`
}

// Config настройки клиента сервиса извлечения текста
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client клиент внешнего сервиса извлечения текста из документов
// (PDF, сканы накладных и сертификатов).
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient создает клиент сервиса извлечения текста
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
	}
}

// extractResponse ответ сервиса извлечения
type extractResponse struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
	Error string `json:"error,omitempty"`
}

// Extract загружает документ во внешний сервис и возвращает извлеченный текст
func (c *Client) Extract(ctx context.Context, filename string, content io.Reader) (*Extraction, error) {
	if filename == "" {
		return nil, fmt.Errorf("document filename is empty")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to copy document content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/extract", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build extract request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read extract response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction service returned status %d", resp.StatusCode)
	}

	var parsed extractResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse extract response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("extraction service error: %s", parsed.Error)
	}

	return &Extraction{
		Filename: filename,
		Text:     parsed.Text,
		Pages:    parsed.Pages,
	}, nil
}
