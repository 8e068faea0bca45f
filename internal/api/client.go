// Package api is a client for the mood-detection backend: account forms,
// the admin user table and the mood_detect upload.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Error is a non-2xx reply from the backend. Message is the reply's
// "error" field and may be empty.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Message extracts the backend's message from err, or "" when err is not
// an *Error or carries none.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Credentials is the login and signup form body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// User is one row of the admin user table.
type User struct {
	Username string `json:"username"`
}

type messageReply struct {
	Message string `json:"message"`
}

type moodReply struct {
	Mood string `json:"mood"`
}

// Client talks to one backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger logs every request and its outcome to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login submits credentials to /api/login and returns the success message.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.submit(ctx, "/api/login", creds)
}

// Signup submits credentials to /api/signup and returns the success message.
func (c *Client) Signup(ctx context.Context, creds Credentials) (string, error) {
	return c.submit(ctx, "/api/signup", creds)
}

func (c *Client) submit(ctx context.Context, path string, creds Credentials) (string, error) {
	resp, err := c.postJSON(ctx, path, creds)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var reply messageReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("decoding %s reply: %w", path, err)
	}
	return reply.Message, nil
}

// Users fetches the admin user table in backend order.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var users []User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

// DeleteUser removes username. The reply body is not required.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	resp, err := c.postJSON(ctx, "/api/users/delete", User{Username: username})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// OpenExport starts the CSV export download. The caller closes the body.
// size is -1 when the backend does not announce a length.
func (c *Client) OpenExport(ctx context.Context) (body io.ReadCloser, size int64, err error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/export", nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := c.do(req)
	if err != nil {
		return nil, 0, err
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, 0, err
	}
	return resp.Body, resp.ContentLength, nil
}

// ExportUsers downloads the CSV export into w.
func (c *Client) ExportUsers(ctx context.Context, w io.Writer) (int64, error) {
	body, _, err := c.OpenExport(ctx)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, fmt.Errorf("downloading export: %w", err)
	}
	return n, nil
}

// DetectMood uploads audio as the multipart field "audio" and returns the
// detected mood.
func (c *Client) DetectMood(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		return "", fmt.Errorf("creating audio part: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("reading audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/mood_detect", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var reply moodReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("decoding mood reply: %w", err)
	}
	return reply.Mood, nil
}

func (c *Client) postJSON(ctx context.Context, path string, v any) (*http.Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", path, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logf("api: %s %s failed: %v", req.Method, req.URL.Path, err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	c.logf("api: %s %s -> %d in %s (request %s)", req.Method, req.URL.Path, resp.StatusCode,
		time.Since(start).Round(time.Millisecond), req.Header.Get("X-Request-Id"))
	return resp, nil
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// checkStatus turns a non-2xx reply into an *Error carrying the JSON
// "error" field when the body has one.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	var reply struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &reply)
	return &Error{Status: resp.StatusCode, Message: reply.Error}
}
