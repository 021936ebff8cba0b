// Package hrms is the REST gateway to the HRMS backend. It attaches the
// access token, tags every request with an id and maps failures onto the
// client's error taxonomy.
package hrms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrms_tui/internal/attendance"
	"hrms_tui/internal/observability"
)

// Option configures optional behaviour for the Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mostly for timeouts and tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger overrides the logger used to report failed calls.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithToken sets the bearer token used for every call.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithMetrics records one sample per call.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	metrics    *observability.Metrics

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log.New(io.Discard, "[hrms] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for a session and keeps its token.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, body, &s); err != nil {
		return Session{}, err
	}
	if s.Token == "" {
		return Session{}, &APIError{Status: http.StatusBadGateway, Message: "login response carried no token"}
	}
	c.SetToken(s.Token)
	return s, nil
}

// CheckIn opens today's attendance record.
func (c *Client) CheckIn(ctx context.Context) (attendance.Day, error) {
	var day attendance.Day
	err := c.do(ctx, "check_in", http.MethodPost, "/trackers/check-in", nil, nil, &day)
	return day, err
}

// CheckOut closes today's attendance record; the backend computes total hours.
func (c *Client) CheckOut(ctx context.Context) (attendance.Day, error) {
	var day attendance.Day
	err := c.do(ctx, "check_out", http.MethodPost, "/trackers/check-out", nil, nil, &day)
	return day, err
}

// TodayStatus returns today's record. Every field is nil before check-in.
func (c *Client) TodayStatus(ctx context.Context) (attendance.Day, error) {
	var day attendance.Day
	err := c.do(ctx, "today_status", http.MethodGet, "/trackers/today-status", nil, nil, &day)
	return day, err
}

// MyAttendance returns one page of the user's attendance history. Backends
// answering with a bare list get an estimated total.
func (c *Client) MyAttendance(ctx context.Context, offset, limit int) (attendance.Page, error) {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))

	var raw json.RawMessage
	if err := c.do(ctx, "my_attendance", http.MethodGet, "/trackers/my-attendance", q, nil, &raw); err != nil {
		return attendance.Page{}, err
	}

	page := attendance.Page{Offset: offset, Limit: limit}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Records); err != nil {
			return attendance.Page{}, fmt.Errorf("decode my-attendance: %w", err)
		}
		page.Total = offset + len(page.Records)
		if len(page.Records) == limit {
			page.Total++
		}
		return page, nil
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return attendance.Page{}, fmt.Errorf("decode my-attendance: %w", err)
	}
	page.Offset, page.Limit = offset, limit
	return page, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	err := c.roundTrip(ctx, method, path, query, in, out)
	c.metrics.RecordRequest(op, Outcome(err))
	if err != nil {
		c.logger.Printf("%s %s failed: %v", method, path, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading body: %v", ErrNetwork, err)
	}
	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
