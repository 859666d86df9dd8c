package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hydrowise/hydration-service/internal/core/domain"
	"github.com/hydrowise/hydration-service/internal/core/ports"
)

const (
	DefaultBaseURL  = "https://api.openweathermap.org/data/2.5"
	DefaultLanguage = "id"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config holds the OpenWeather client settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// Client fetches current conditions from the OpenWeather API.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ ports.WeatherProvider = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message"`
}

// Current returns the conditions at c. Every failure is a *domain.WeatherError.
func (cl *Client) Current(ctx context.Context, c domain.Coordinates) (domain.WeatherReport, error) {
	if cl.cfg.APIKey == "" {
		return domain.WeatherReport{}, &domain.WeatherError{
			Kind:    domain.WeatherCredentialMissing,
			Message: "weather API key is not configured",
		}
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lng, 'f', -1, 64))
	q.Set("appid", cl.cfg.APIKey)
	q.Set("units", "metric")
	q.Set("lang", cl.cfg.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cl.cfg.BaseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return domain.WeatherReport{}, &domain.WeatherError{Kind: domain.WeatherAPIError, Message: "invalid weather request", Err: err}
	}

	resp, err := cl.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.WeatherReport{}, ctxErr
		}
		return domain.WeatherReport{}, &domain.WeatherError{Kind: domain.WeatherOffline, Message: "no internet connection", Err: err}
	}
	defer resp.Body.Close()

	var body currentResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := body.Message
		if msg == "" {
			msg = fmt.Sprintf("weather API returned %d", resp.StatusCode)
		}
		return domain.WeatherReport{}, &domain.WeatherError{
			Kind:    domain.WeatherAPIError,
			Message: msg,
			Err:     fmt.Errorf("status %d", resp.StatusCode),
		}
	}
	if decodeErr != nil {
		return domain.WeatherReport{}, &domain.WeatherError{Kind: domain.WeatherAPIError, Message: "malformed weather response", Err: decodeErr}
	}
	if len(body.Weather) == 0 {
		return domain.WeatherReport{}, &domain.WeatherError{
			Kind:    domain.WeatherAPIError,
			Message: "malformed weather response",
			Err:     errors.New("missing weather conditions"),
		}
	}

	return domain.WeatherReport{
		// Half rounds toward positive infinity.
		TemperatureC: int(math.Floor(body.Main.Temp + 0.5)),
		Condition:    body.Weather[0].Description,
		City:         body.Name,
	}, nil
}
