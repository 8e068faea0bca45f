// Package weather reads current conditions from OpenWeatherMap for the
// caller's location.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Report is the slice of current conditions the weather panel shows.
type Report struct {
	City        string
	TempC       float64
	Description string
}

// Error is a non-2xx reply. Message is the API's "message" field and may
// be empty.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather: status %d", e.Status)
	}
	return fmt.Sprintf("weather: %s (status %d)", e.Message, e.Status)
}

// Message extracts the API message from err, or "".
func Message(err error) string {
	var wErr *Error
	if errors.As(err, &wErr) {
		return wErr.Message
	}
	return ""
}

type currentReply struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Client queries the current-weather endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL
// (https://api.openweathermap.org/data/2.5).
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Current fetches metric conditions at at.
func (c *Client) Current(ctx context.Context, at Coords) (*Report, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building weather request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call weather API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var reply struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(data, &reply)
		return nil, &Error{Status: resp.StatusCode, Message: reply.Message}
	}

	var reply currentReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	report := &Report{City: reply.Name, TempC: reply.Main.Temp}
	if len(reply.Weather) > 0 {
		report.Description = reply.Weather[0].Description
	}
	return report, nil
}
