package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const openWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// Current is the decoded current-weather observation.
type Current struct {
	ConditionID int     `json:"conditionId"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	TempC       float64 `json:"tempC"`
	HumidityPct float64 `json:"humidityPct"`
}

// IsRain reports whether the condition code falls in OpenWeatherMap's rain
// band (5xx).
func (c Current) IsRain() bool {
	return c.ConditionID >= 500 && c.ConditionID < 600
}

// Client calls the OpenWeatherMap API. Requests run through a circuit breaker
// so a flapping upstream stops being hammered.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		apiKey:  apiKey,
		baseURL: openWeatherBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		circuit: cb,
	}
}

// Current fetches the current weather at the given coordinate.
func (c *Client) Current(ctx context.Context, lat, lon float64) (Current, error) {
	raw, err := c.get(ctx, "/weather", lat, lon)
	if err != nil {
		return Current{}, err
	}

	var payload struct {
		Weather []struct {
			ID          int    `json:"id"`
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Current{}, fmt.Errorf("decode weather response: %w", err)
	}
	if len(payload.Weather) == 0 {
		return Current{}, fmt.Errorf("weather response has no conditions")
	}

	return Current{
		ConditionID: payload.Weather[0].ID,
		Condition:   payload.Weather[0].Main,
		Description: payload.Weather[0].Description,
		TempC:       payload.Main.Temp,
		HumidityPct: payload.Main.Humidity,
	}, nil
}

// Forecast fetches the 5-day forecast at the given coordinate and returns the
// raw upstream payload for the frontend to render.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	return c.get(ctx, "/forecast", lat, lon)
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())

	body, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("openweather returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}
