// Package backend is the REST client for the screening backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/neuroscreen/portal/internal/metrics"
	"github.com/neuroscreen/portal/internal/services"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx reply. Message is the backend's optional
// human-readable "message" field.
type APIError struct {
	Status  int
	Message string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s: %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s: status %d", e.Path, e.Status)
}

func (e *APIError) StatusCode() int     { return e.Status }
func (e *APIError) UserMessage() string { return e.Message }

type Client struct {
	base    string
	http    HTTPClient
	token   string
	metrics *metrics.Metrics
}

func New(baseURL string, hc HTTPClient) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: hc}
}

// WithMetrics records every call outcome in m.
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	cp := *c
	cp.metrics = m
	return &cp
}

// WithToken returns a copy that authenticates as the given session token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) (err error) {
	defer func() {
		if c.metrics != nil {
			c.metrics.IncrementBackendCall(err == nil)
		}
	}()
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Path: path}
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = strings.TrimSpace(payload.Message)
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*services.User, error) {
	var u services.User
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"email": email, "password": password}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*services.User, error) {
	var u services.User
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, map[string]string{"name": name, "email": email, "password": password}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]services.User, error) {
	var out []services.User
	if err := c.do(ctx, http.MethodGet, "/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListQuestions(ctx context.Context) ([]services.Question, error) {
	var out []services.Question
	if err := c.do(ctx, http.MethodGet, "/questions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateQuestion(ctx context.Context, q services.Question) (*services.Question, error) {
	q.ID = ""
	var out services.Question
	if err := c.do(ctx, http.MethodPost, "/questions", nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateQuestion(ctx context.Context, id string, q services.Question) (*services.Question, error) {
	var out services.Question
	if err := c.do(ctx, http.MethodPut, "/questions/"+url.PathEscape(id), nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/questions/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) AssessmentQuestions(ctx context.Context, ageGroup, language string) ([]services.AssessmentQuestion, error) {
	q := url.Values{}
	q.Set("ageGroup", ageGroup)
	q.Set("language", language)
	var out []services.AssessmentQuestion
	if err := c.do(ctx, http.MethodGet, "/questions/assessment", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SubmitAssessment(ctx context.Context, sub services.AssessmentSubmission) (*services.Assessment, error) {
	var out services.Assessment
	if err := c.do(ctx, http.MethodPost, "/assessments", nil, sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListAssessments(ctx context.Context) ([]services.Assessment, error) {
	var out []services.Assessment
	if err := c.do(ctx, http.MethodGet, "/assessments", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var (
	_ services.AuthClient          = (*Client)(nil)
	_ services.AdminClient         = (*Client)(nil)
	_ services.QuestionSource      = (*Client)(nil)
	_ services.AssessmentSubmitter = (*Client)(nil)
	_ services.AssessmentLister    = (*Client)(nil)
)
