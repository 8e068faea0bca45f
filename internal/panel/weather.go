package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/iburimskiy/moodwave/internal/weather"
)

// Conditions is the weather call the panel needs.
type Conditions interface {
	Current(ctx context.Context, at weather.Coords) (*weather.Report, error)
}

// Weather locates the user and shows current conditions.
type Weather struct {
	Guard
	locator weather.Locator
	source  Conditions
}

func NewWeather(locator weather.Locator, source Conditions) *Weather {
	return &Weather{locator: locator, source: source}
}

// Pending is shown while the lookup runs.
func (w *Weather) Pending() Status { return neutral("Fetching weather...") }

// Fetch locates the user and then reads the weather there.
func (w *Weather) Fetch(ctx context.Context) Status {
	at, err := w.locator.Locate(ctx)
	switch {
	case errors.Is(err, weather.ErrUnsupported):
		return failure("Geolocation not supported by your system.")
	case err != nil:
		return failure("Permission denied for location.")
	}

	report, err := w.source.Current(ctx, at)
	if err != nil {
		var wErr *weather.Error
		if errors.As(err, &wErr) {
			return failure(orDefault(wErr.Message, "Failed to fetch weather"))
		}
		return failure("Error: " + err.Error())
	}
	return neutral(
		report.City,
		fmt.Sprintf("Temperature: %g °C", report.TempC),
		"Weather: "+report.Description,
	)
}
