// Package weather fetches current conditions from an OpenWeather-compatible API.
package weather

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"suggestion-workers/internal/common/config"
	commonhttp "suggestion-workers/internal/common/http"
	"suggestion-workers/internal/common/logger"
	"suggestion-workers/internal/common/metrics"
	"suggestion-workers/internal/models"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	providerName = "weather"

	// OpenWeather reports metric wind speed in m/s.
	metersPerSecondToKmh = 3.6

	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
	breakerInterval         = time.Minute
)

var ErrEmptyResponse = errors.New("weather response has no conditions")

var knownConditions = map[string]bool{
	"clear": true, "clouds": true, "rain": true, "snow": true, "drizzle": true, "thunderstorm": true,
}

type apiResponse struct {
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type Client struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*models.WeatherSnapshot]
	logger  logger.Logger
}

func NewClient(cfg config.WeatherAPIConfig, log logger.Logger) *Client {
	log = log.WithFields(map[string]interface{}{"provider": providerName})

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	settings := gobreaker.Settings{
		Name:        providerName,
		MaxRequests: 1,
		Interval:    breakerInterval,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	}

	return &Client{
		http:    commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker[*models.WeatherSnapshot](settings),
		logger:  log,
	}
}

// CurrentWeather waits for a rate-limit token, then calls the API through the
// circuit breaker. An open breaker fails fast with gobreaker.ErrOpenState.
func (c *Client) CurrentWeather(ctx context.Context, lat, lng float64) (*models.WeatherSnapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.ExternalSignalFailures.WithLabelValues(providerName).Inc()
		return nil, fmt.Errorf("weather rate limit: %w", err)
	}

	snapshot, err := c.breaker.Execute(func() (*models.WeatherSnapshot, error) {
		return c.fetch(ctx, lat, lng)
	})
	if err != nil {
		metrics.ExternalSignalFailures.WithLabelValues(providerName).Inc()
		return nil, err
	}
	return snapshot, nil
}

func (c *Client) fetch(ctx context.Context, lat, lng float64) (*models.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("units", "metric")
	if c.apiKey != "" {
		q.Set("appid", c.apiKey)
	}

	var resp apiResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/weather?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetch current weather: %w", err)
	}
	if len(resp.Weather) == 0 {
		return nil, ErrEmptyResponse
	}

	condition := strings.ToLower(resp.Weather[0].Main)
	if !knownConditions[condition] {
		condition = "other"
	}

	c.logger.Debug("weather fetched", map[string]interface{}{
		"latitude":  lat,
		"longitude": lng,
		"condition": condition,
	})

	return &models.WeatherSnapshot{
		Condition:    condition,
		TemperatureC: resp.Main.Temp,
		WindSpeed:    resp.Wind.Speed * metersPerSecondToKmh,
	}, nil
}

// BreakerState reports the breaker state for readiness checks.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}
