// Package ollama implements ai.TextGenerator against a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultURL     = "http://localhost:11434/api/generate"
	DefaultModel   = "llama3.2:3b"
	defaultTimeout = 60 * time.Second
	contentType    = "application/json"
)

// Options configures a Generator. Zero values fall back to defaults.
type Options struct {
	URL         string
	Model       string
	Temperature float64
	// Format is passed through to the server. "json" asks for a JSON answer.
	Format  string
	Timeout time.Duration
}

type generateRequest struct {
	Model   string          `json:"model"`
	System  string          `json:"system,omitempty"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// Generator calls the /api/generate endpoint with streaming disabled.
type Generator struct {
	HTTPClient *http.Client
	url        string
	model      string
	format     string
	temp       float64
	logger     *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Generator {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		url:        opts.URL,
		model:      opts.Model,
		format:     opts.Format,
		temp:       opts.Temperature,
		logger:     logger,
	}
}

func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	body, err := json.Marshal(generateRequest{
		Model:   g.model,
		System:  strings.TrimSpace(system),
		Prompt:  message,
		Stream:  false,
		Format:  g.format,
		Options: generateOptions{Temperature: g.temp},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	g.logger.Debug("make request", zap.String("url", g.url), zap.Int("prompt_length", len(message)))

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama: %s", out.Error)
	}

	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", errors.New("ollama returned empty response")
	}

	return text, nil
}

func (g *Generator) Model() string {
	return g.model
}
