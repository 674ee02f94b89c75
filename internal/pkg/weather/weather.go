// Package weather fetches current conditions from OpenWeatherMap.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/yigit/clubportal/internal/pkg/cache"
	"github.com/yigit/clubportal/internal/pkg/metrics"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnavailableMessage is reported in degraded results
const UnavailableMessage = "weather data unavailable"

// Report is the weather summary shown on the portal
type Report struct {
	City        string `json:"city"`
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Humidity    int    `json:"humidity"`
	WindSpeed   int    `json:"windSpeed"`
	Error       string `json:"error,omitempty"`
}

// Degraded reports whether the lookup failed
func (r Report) Degraded() bool {
	return r.Error != ""
}

// Config configures the client
type Config struct {
	APIKey   string
	BaseURL  string
	Country  string
	Language string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client fetches and caches weather reports
type Client struct {
	cfg    Config
	http   *http.Client
	redis  *redis.Client
	logger zerolog.Logger
	title  cases.Caser
}

// NewClient creates a client. redisClient may be nil to disable caching.
func NewClient(cfg Config, redisClient *redis.Client, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	tag, err := language.Parse(cfg.Language)
	if err != nil {
		tag = language.Turkish
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		redis:  redisClient,
		logger: logger,
		title:  cases.Title(tag),
	}
}

type owmResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Fetch returns the weather for city. It never fails: problems are logged and
// yield a degraded report. Successful reports are cached.
func (c *Client) Fetch(ctx context.Context, city string) Report {
	city = strings.TrimSpace(city)
	if city == "" || c.cfg.APIKey == "" {
		metrics.WeatherFetches.WithLabelValues("degraded").Inc()
		return Report{City: city, Error: UnavailableMessage}
	}

	var report Report
	hit, err := cache.CacheAside(ctx, c.redis, cacheKey(city, c.cfg.Language), &report, c.cfg.CacheTTL, func() error {
		fetched, err := c.fetchRemote(ctx, city)
		if err != nil {
			return err
		}
		report = fetched
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("city", city).Msg("Weather lookup failed")
		metrics.WeatherFetches.WithLabelValues("degraded").Inc()
		return Report{City: city, Error: UnavailableMessage}
	}

	if hit {
		metrics.WeatherFetches.WithLabelValues("cache_hit").Inc()
	} else {
		metrics.WeatherFetches.WithLabelValues("ok").Inc()
	}
	return report
}

func (c *Client) fetchRemote(ctx context.Context, city string) (Report, error) {
	q := url.Values{}
	q.Set("q", city+","+c.cfg.Country)
	q.Set("appid", c.cfg.APIKey)
	q.Set("units", "metric")
	q.Set("lang", c.cfg.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("weather api status %d", resp.StatusCode)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Report{}, fmt.Errorf("decode weather response: %w", err)
	}
	if len(body.Weather) == 0 {
		return Report{}, fmt.Errorf("weather response without conditions")
	}

	name := body.Name
	if name == "" {
		name = city
	}
	return Report{
		City:        name,
		Temperature: int(math.Round(body.Main.Temp)),
		Description: c.title.String(body.Weather[0].Description),
		Icon:        body.Weather[0].Icon,
		Humidity:    body.Main.Humidity,
		// m/s to km/h
		WindSpeed: int(math.Round(body.Wind.Speed * 3.6)),
	}, nil
}

func cacheKey(city, lang string) string {
	return "weather:" + lang + ":" + strings.ToLower(city)
}
