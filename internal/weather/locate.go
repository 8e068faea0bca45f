package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrUnsupported means no location source is configured.
	ErrUnsupported = errors.New("weather: geolocation not supported")
	// ErrDenied means the location source refused or failed to answer.
	ErrDenied = errors.New("weather: location unavailable")
)

// Coords is a latitude/longitude pair in degrees.
type Coords struct {
	Lat float64
	Lon float64
}

// Locator finds where the user is.
type Locator interface {
	Locate(ctx context.Context) (Coords, error)
}

// StaticLocator always reports the same coordinates.
type StaticLocator Coords

func (s StaticLocator) Locate(context.Context) (Coords, error) {
	return Coords(s), nil
}

// NoLocator is used when location lookup is switched off.
type NoLocator struct{}

func (NoLocator) Locate(context.Context) (Coords, error) {
	return Coords{}, ErrUnsupported
}

// IPLocator estimates coordinates from the caller's public IP using an
// ip-api.com compatible endpoint. Every failure is reported as ErrDenied.
type IPLocator struct {
	url        string
	httpClient *http.Client
}

// NewIPLocator creates a locator querying url.
func NewIPLocator(url string, timeout time.Duration) *IPLocator {
	return &IPLocator{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geoIPReply struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IPLocator) Locate(ctx context.Context) (Coords, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Coords{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Coords{}, fmt.Errorf("%w: %v", ErrDenied, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coords{}, fmt.Errorf("%w: geo-ip status %d", ErrDenied, resp.StatusCode)
	}
	var reply geoIPReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return Coords{}, fmt.Errorf("%w: decoding geo-ip reply: %v", ErrDenied, err)
	}
	if reply.Status != "success" {
		return Coords{}, fmt.Errorf("%w: %s", ErrDenied, reply.Message)
	}
	return Coords{Lat: reply.Lat, Lon: reply.Lon}, nil
}
