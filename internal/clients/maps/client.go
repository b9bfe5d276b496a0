package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	vehicleDomain "github.com/Kilat-Pet-Delivery/service-vehicles/internal/domain/vehicle"
	"github.com/Kilat-Pet-Delivery/service-vehicles/internal/platform/tracing"
)

const (
	maxBodyBytes = 64 << 10

	// DefaultTimeout bounds a call when NewClient is given a non-positive timeout.
	DefaultTimeout = 2 * time.Second
)

var tracer = otel.Tracer("maps-client")

// Client reverse-geocodes coordinates through the maps service.
type Client struct {
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit throttles outbound requests. A non-positive rate disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient creates a maps client. Every call is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAddress returns the address nearest to lat/lon. Failures wrap ErrEnrichmentUnavailable.
func (c *Client) FetchAddress(ctx context.Context, lat, lon float64) (address *vehicleDomain.Address, err error) {
	ctx, span := tracer.Start(ctx, "fetch-address",
		trace.WithAttributes(
			attribute.Float64("location.lat", lat),
			attribute.Float64("location.lon", lon),
		),
	)
	defer func() { tracing.EndSpan(span, err) }()

	if err = vehicleDomain.ValidateCoordinates(lat, lon); err != nil {
		return nil, fmt.Errorf("%w: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: maps rate limit: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
		}
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/maps?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create maps request: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: maps request failed: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: maps service returned %d", vehicleDomain.ErrEnrichmentUnavailable, resp.StatusCode)
	}

	var body vehicleDomain.Address
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed maps payload: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
	}
	if body == (vehicleDomain.Address{}) {
		err = fmt.Errorf("%w: maps payload has no address", vehicleDomain.ErrEnrichmentUnavailable)
		return nil, err
	}
	return &body, nil
}
