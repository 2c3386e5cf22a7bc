// Package gemini calls the generateContent endpoint of the Generative
// Language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neuroscreen/portal/internal/services"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.0-flash"
)

// ErrNoContent means the reply did not carry candidates[0].content.parts[0].
var ErrNoContent = errors.New("gemini: no valid content in response")

var ErrMissingKey = errors.New("gemini: api key not configured")

type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini: request failed with status %d", e.Status)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    HTTPClient
}

func NewClient(apiKey, model, baseURL string, hc HTTPClient) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{apiKey: apiKey, model: model, baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type content struct {
	Role  string              `json:"role"`
	Parts []services.ChatPart `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []services.ChatPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends history followed by prompt as a user turn and returns the
// first candidate's text.
func (c *Client) Generate(ctx context.Context, history []services.ChatMessage, prompt string) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", ErrMissingKey
	}
	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{Role: m.Role, Parts: m.Parts})
	}
	contents = append(contents, content{Role: services.ChatRoleUser, Parts: []services.ChatPart{{Text: prompt}}})
	body, err := json.Marshal(generateRequest{Contents: contents})
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	// The key stays out of the URL, which transport errors echo verbatim.
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("gemini: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{Status: resp.StatusCode, Body: string(raw)}
	}
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoContent
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

var _ services.Generator = (*Client)(nil)
