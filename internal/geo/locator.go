package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/ignite/email-tracker/internal/config"
	"github.com/ignite/email-tracker/internal/metrics"
	"github.com/ignite/email-tracker/internal/pkg/logger"
)

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// errUnknownIP marks a well-formed upstream answer that has no location for
// the address. It is not an upstream failure and never trips the breaker.
var errUnknownIP = errors.New("geolocation: unknown address")

// Locator resolves IPs through an ip-api.com compatible endpoint.
type Locator struct {
	client  HTTPDoer
	baseURL string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[string]
	cache   Cache
}

// Option customizes a Locator.
type Option func(*Locator)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(l *Locator) { l.client = c }
}

// WithCache enables result caching.
func WithCache(c Cache) Option {
	return func(l *Locator) { l.cache = c }
}

// NewLocator builds a Locator from config.
func NewLocator(cfg config.GeoConfig, opts ...Option) *Locator {
	l := &Locator{
		client:  &http.Client{Timeout: cfg.Timeout()},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout(),
	}
	l.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "geolocation",
		Timeout: cfg.BreakerCooldown(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errUnknownIP)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns "City, Country", "Country", or "".
func (l *Locator) Locate(ctx context.Context, ip string) string {
	if !routable(ip) {
		metrics.RecordGeoLookup(metrics.GeoSkipped, 0)
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if l.cache != nil {
		loc, ok, err := l.cache.Get(ctx, ip)
		if err != nil {
			logger.Debug("geo cache read failed", "ip", ip, "error", err)
		} else if ok {
			metrics.RecordGeoLookup(metrics.GeoCacheHit, 0)
			return loc
		}
	}

	start := time.Now()
	loc, err := l.breaker.Execute(func() (string, error) {
		return l.lookup(ctx, ip)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordGeoLookup(metrics.GeoBreakerOpen, 0)
		return ""
	case errors.Is(err, errUnknownIP):
		metrics.RecordGeoLookup(metrics.GeoUnknown, time.Since(start))
		return ""
	case err != nil:
		metrics.RecordGeoLookup(metrics.GeoFailed, time.Since(start))
		logger.Debug("geolocation failed", "ip", ip, "error", err)
		return ""
	}
	metrics.RecordGeoLookup(metrics.GeoResolved, time.Since(start))

	if l.cache != nil {
		if err := l.cache.Set(ctx, ip, loc); err != nil {
			logger.Debug("geo cache write failed", "ip", ip, "error", err)
		}
	}
	return loc
}

type ipAPIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Country string `json:"country"`
	City    string `json:"city"`
}

func (l *Locator) lookup(ctx context.Context, ip string) (string, error) {
	endpoint := fmt.Sprintf("%s/json/%s?fields=status,message,country,city", l.baseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("geolocation: unexpected status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return "", fmt.Errorf("geolocation: decode: %w", err)
	}
	// ip-api answers 200 with status "fail" for reserved or invalid input.
	if body.Status == "fail" {
		return "", fmt.Errorf("%w: %s", errUnknownIP, body.Message)
	}
	return formatLocation(body.City, body.Country), nil
}

func formatLocation(city, country string) string {
	if city != "" && country != "" {
		return city + ", " + country
	}
	return country
}

// routable rejects empty input, test-client placeholders, and addresses
// that cannot have a public location.
func routable(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return !parsed.IsLoopback() && !parsed.IsPrivate() && !parsed.IsUnspecified() &&
		!parsed.IsLinkLocalUnicast()
}

// Nop is a locator that never resolves anything.
type Nop struct{}

// Locate always returns "".
func (Nop) Locate(context.Context, string) string { return "" }
