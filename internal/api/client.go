// Package api is the HTTP client for the fiscal-auditor admin backend
// (scheduler jobs, ETL processes, system health).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fiscal-auditor/adminctl/internal/export"
)

// Error is a non-2xx response. Message holds the body's "error" field when
// the server sent one.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string

	body []byte
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// ServerMessage returns the server-provided message of err, if it carries one.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a client rooted at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListJobs returns scheduler jobs ordered by name.
func (c *Client) ListJobs(ctx context.Context, activeOnly bool) ([]Job, error) {
	q := url.Values{}
	if activeOnly {
		q.Set("active", "true")
	}
	var jobs []Job
	if err := c.do(ctx, http.MethodGet, "/api/scheduler/jobs", q, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// SetJobActive sends {"is_active": active} for job id.
func (c *Client) SetJobActive(ctx context.Context, id int, active bool) (Job, error) {
	body := struct {
		IsActive bool `json:"is_active"`
	}{active}
	var job Job
	err := c.do(ctx, http.MethodPut, "/api/scheduler/jobs/"+strconv.Itoa(id), nil, body, &job)
	return job, err
}

// RunJob asks the backend to run job id now.
func (c *Client) RunJob(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPost, "/api/scheduler/jobs/"+strconv.Itoa(id)+"/run", nil, nil, nil)
}

func processQuery(f ProcessFilter) url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// ListProcesses returns ETL processes, newest first.
func (c *Client) ListProcesses(ctx context.Context, f ProcessFilter) ([]Process, error) {
	var out []Process
	if err := c.do(ctx, http.MethodGet, "/api/etl/processes", processQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessRecords returns the same listing as ListProcesses with the backend's
// field order intact, for CSV export.
func (c *Client) ProcessRecords(ctx context.Context, f ProcessFilter) ([]export.Record, error) {
	var out []export.Record
	if err := c.do(ctx, http.MethodGet, "/api/etl/processes", processQuery(f), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProcess returns one ETL process.
func (c *Client) GetProcess(ctx context.Context, id int) (Process, error) {
	var p Process
	err := c.do(ctx, http.MethodGet, "/api/etl/processes/"+strconv.Itoa(id), nil, nil, &p)
	return p, err
}

// DeleteProcess removes ETL process id.
func (c *Client) DeleteProcess(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/etl/processes/"+strconv.Itoa(id), nil, nil, nil)
}

// Health returns the backend health report. An unhealthy backend answers 500
// with {"status": "unhealthy", "error": ...}; that body is returned as a
// Health with a nil error. Other failures surface as *Error.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	err := c.do(ctx, http.MethodGet, "/api/system/health", nil, nil, &h)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusInternalServerError {
		var report Health
		if json.Unmarshal(apiErr.body, &report) == nil && report.Status != "" {
			return report, nil
		}
	}
	return h, err
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("api request failed", "method", method, "path", path, "err", err)
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr.body = raw
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}
