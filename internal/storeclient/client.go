// Package storeclient talks to a remote crew task store over HTTP.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client implements coordinator.TaskStore against
//
//	POST   {base}/tasks
//	GET    {base}/tasks/{id}
//	PATCH  {base}/tasks/{id}
//	DELETE {base}/tasks/{id}
//
// Deadlines come from the caller's context.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse store base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("store base url %q must be http or https", baseURL)
	}

	c := &Client{baseURL: u, http: http.DefaultClient, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ coordinator.TaskStore = (*Client)(nil)

type createRequest struct {
	models.CrewTaskDraft
	DriverID string `json:"driver_id"`
}

// errorBody covers both `{"error": ...}` and `{"code": ..., "message": ...}`.
type errorBody struct {
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Conflicts []models.CrewTask `json:"conflicts"`
}

func (c *Client) Create(ctx context.Context, draft models.CrewTaskDraft, driverID string) (*models.CrewTask, error) {
	var task models.CrewTask
	if err := c.do(ctx, http.MethodPost, "tasks", createRequest{CrewTaskDraft: draft, DriverID: driverID}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) Update(ctx context.Context, id string, patch models.CrewTaskPatch) (*models.CrewTask, error) {
	var task models.CrewTask
	if err := c.do(ctx, http.MethodPatch, "tasks/"+url.PathEscape(id), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Get(ctx context.Context, id string) (*models.CrewTask, error) {
	var task models.CrewTask
	if err := c.do(ctx, http.MethodGet, "tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", method, err)
		}
		body = bytes.NewReader(buf)
	}

	endpoint := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("task store unreachable", zap.String("method", method), zap.String("url", endpoint.String()), zap.Error(err))
		return &coordinator.StoreError{Message: fmt.Sprintf("task store unreachable: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &coordinator.StoreError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode task store response: %v", err)}
		}
		return nil
	}

	return c.decodeError(method, endpoint.String(), resp)
}

func (c *Client) decodeError(method, endpoint string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var parsed errorBody
	_ = json.Unmarshal(raw, &parsed)

	message := parsed.Error
	if message == "" {
		message = parsed.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}

	c.log.Debug("task store error",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.String("message", message))

	if resp.StatusCode == http.StatusConflict {
		return &coordinator.ConflictError{Message: message, Conflicts: parsed.Conflicts}
	}
	return &coordinator.StoreError{StatusCode: resp.StatusCode, Message: message}
}
