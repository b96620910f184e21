package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Berguit/topical-map-app/internal/platform/logger"
)

const (
	DefaultBaseURL     = "https://openrouter.ai/api/v1"
	DefaultModel       = "anthropic/claude-sonnet-4"
	DefaultSiteURL     = "http://localhost:3000"
	DefaultSiteName    = "Topical Map SaaS"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4096
)

type Config struct {
	BaseURL             string
	ChatCompletionsPath string
	APIKey              string
	DefaultModel        string
	SiteURL             string
	SiteName            string
	Timeout             time.Duration
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options tune a single completion. Zero values fall back to the client
// defaults; Temperature is a pointer so that 0 can be requested explicitly.
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   int
}

func Temperature(v float64) *float64 { return &v }

type Client struct {
	log *logger.Logger

	baseURL  string
	chatPath string
	apiKey   string
	model    string
	siteURL  string
	siteName string
	timeout  time.Duration

	httpClient *http.Client
}

func New(cfg Config, log *logger.Logger) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/chat/completions"
	}
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = DefaultModel
	}
	siteURL := strings.TrimSpace(cfg.SiteURL)
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	siteName := strings.TrimSpace(cfg.SiteName)
	if siteName == "" {
		siteName = DefaultSiteName
	}
	if log == nil {
		log = logger.Nop()
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		log:        log.With("service", "OpenRouterClient"),
		baseURL:    baseURL,
		chatPath:   chatPath,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		model:      model,
		siteURL:    siteURL,
		siteName:   siteName,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Transport: tr},
	}
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg Config, httpClient *http.Client, log *logger.Logger) *Client {
	c := New(cfg, log)
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c
}

func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

func (c *Client) Model() string { return c.model }

// CompleteSimple sends one user prompt, preceded by a system message when
// systemPrompt is non-empty.
func (c *Client) CompleteSimple(ctx context.Context, prompt, systemPrompt string, opts Options) (string, error) {
	msgs := make([]Message, 0, 2)
	if strings.TrimSpace(systemPrompt) != "" {
		msgs = append(msgs, Message{Role: "system", Content: systemPrompt})
	}
	msgs = append(msgs, Message{Role: "user", Content: prompt})
	return c.complete(ctx, msgs, opts)
}

func (c *Client) CompleteWithMessages(ctx context.Context, msgs []Message, opts Options) (string, error) {
	return c.complete(ctx, msgs, opts)
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatCompletionResponse struct {
	ID      string `json:"id,omitempty"`
	Model   string `json:"model,omitempty"`
	Choices []struct {
		Message struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

func (c *Client) complete(ctx context.Context, msgs []Message, opts Options) (string, error) {
	if c.apiKey == "" {
		return "", &ConfigurationError{Reason: "OPENROUTER_API_KEY is not set"}
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = c.model
	}
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	reqBody := chatCompletionRequest{
		Model:       model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	start := time.Now()
	var resp chatCompletionResponse
	if err := c.doJSON(ctx, http.MethodPost, c.chatPath, reqBody, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &CompletionError{Reason: "no choices"}
	}

	fields := []interface{}{"model", model, "latency_ms", time.Since(start).Milliseconds()}
	if resp.Usage != nil {
		fields = append(fields, "prompt_tokens", resp.Usage.PromptTokens, "completion_tokens", resp.Usage.CompletionTokens)
	}
	c.log.Debug("completion finished", fields...)

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", c.siteName)
}

func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx2 := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx2, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &CompletionError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
