// Package gemini sends prompts to the Gemini generateContent endpoint
package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/audiojones/opscheck/pkg/httpclient"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultAPIURL is the public Generative Language API
	DefaultAPIURL = "https://generativelanguage.googleapis.com"

	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.5-flash"

	generatePathFmt = "/v1beta/models/%s:generateContent"
)

// Client calls generateContent with an API key
type Client struct {
	*httpclient.BaseClient
	apiKey string
	model  string
	logger hclog.Logger
}

// NewClient creates a Gemini client. An empty model selects DefaultModel.
func NewClient(baseURL, apiKey, model string, logger hclog.Logger, opts ...httpclient.Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	base := []httpclient.Option{
		httpclient.WithTimeout(60 * time.Second),
		httpclient.WithSecret(apiKey),
		httpclient.WithLogger(logger),
	}

	return &Client{
		BaseClient: httpclient.NewBaseClient(baseURL, append(base, opts...)...),
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// GenerateContent sends a single-turn prompt and returns the text of the first candidate
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	req := GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
	}

	query := url.Values{}
	query.Set("key", c.apiKey)

	var resp GenerateResponse
	path := fmt.Sprintf(generatePathFmt, url.PathEscape(c.model))
	if err := c.PostJSON(ctx, path, query, req, &resp); err != nil {
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	c.logger.Debug("generated content", "model", c.model, "chars", len(text))
	return text, nil
}

// AnalysisPrompt wraps a rendered diagnostic report into a request for remediation advice
func AnalysisPrompt(report string) string {
	var b strings.Builder
	b.WriteString("You are helping an operator fix a failed web deployment.\n")
	b.WriteString("Below is an automated diagnostic summary of the latest deployment logs.\n")
	b.WriteString("Explain the most likely root cause and give concrete, ordered steps to fix it.\n\n")
	b.WriteString(report)
	return b.String()
}
