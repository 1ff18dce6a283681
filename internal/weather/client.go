// Package weather is a stateless adapter for the OpenWeatherMap current
// weather API.
//
// GATEWAY CONTRACT:
// Current() returns a normalized *Info on success and nil on ANY failure —
// missing API key, transport error, non-2xx status, or a response missing the
// expected fields. Callers never see an error: the home page renders an
// "unavailable" state from nil, and the add-location flow treats nil as "this
// city/country pair is invalid". Failures are logged here, once.
//
// There is no caching and no retry — every call is one fresh request.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DefaultBaseURL is OpenWeatherMap's current-weather endpoint root.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Info is the normalized weather reading the rest of the app works with.
// The provider's response carries far more; we keep the four fields the
// home page displays.
type Info struct {
	Temperature float64 `json:"temperature"` // °C, rounded to 1 decimal
	Description string  `json:"description"` // capitalized, e.g. "Light snow"
	Humidity    int     `json:"humidity"`    // percent
	WindSpeed   float64 `json:"wind_speed"`  // m/s, rounded to 1 decimal
}

// Client calls OpenWeatherMap. Construct with New; the zero value is not
// usable.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a weather Client.
//
// apiKey may be empty — the client still constructs, and every Current()
// call logs the missing key and returns nil. This is what lets the app start
// without the provider configured and degrade instead of crash.
func New(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		// The provider call has no retry, so a stuck connection would hold a
		// request goroutine indefinitely without this bound.
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// NewWithBaseURL creates a Client pointed at a custom endpoint root.
// Used in tests to aim the client at an httptest server.
func NewWithBaseURL(apiKey, baseURL string, logger *slog.Logger) *Client {
	c := New(apiKey, logger)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// owmResponse is the portion of OpenWeatherMap's response we care about.
// Pointer fields distinguish "absent" from "zero" — a response missing any
// of main/weather/wind is treated as no data.
type owmResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current fetches the current weather for a city/country pair, metric units,
// single attempt. Returns nil on any failure.
func (c *Client) Current(ctx context.Context, city, country string) *Info {
	if c.apiKey == "" {
		// Configuration fault, not a request fault — but the contract is the
		// same: no data, no error to the caller.
		c.logger.Error("OPENWEATHERMAP_API_KEY is not set")
		return nil
	}

	q := url.Values{}
	q.Set("q", fmt.Sprintf("%s,%s", city, country))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	reqURL := fmt.Sprintf("%s/weather?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("building weather request", slog.String("error", err.Error()))
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("fetching weather",
			slog.String("city", city),
			slog.String("country", country),
			slog.String("error", err.Error()),
		)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("weather provider returned non-2xx",
			slog.String("city", city),
			slog.String("country", country),
			slog.Int("status", resp.StatusCode),
		)
		return nil
	}

	var data owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		c.logger.Warn("decoding weather response", slog.String("error", err.Error()))
		return nil
	}

	if data.Main == nil || len(data.Weather) == 0 || data.Wind == nil {
		return nil
	}

	return &Info{
		Temperature: round1(data.Main.Temp),
		Description: capitalize(data.Weather[0].Description),
		Humidity:    data.Main.Humidity,
		WindSpeed:   round1(data.Wind.Speed),
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// capitalize upper-cases the first rune and lower-cases the rest —
// "light snow" → "Light snow".
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
