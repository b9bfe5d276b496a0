package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
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

var tracer = otel.Tracer("pricing-client")

// Client calls the pricing service for vehicle price quotes.
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

// WithRateLimit throttles outbound requests to perSecond with the given burst.
// A non-positive rate disables throttling.
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

// NewClient creates a pricing client. Every call is bounded by timeout.
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

type priceResponse struct {
	Currency string           `json:"currency"`
	Price    *decimal.Decimal `json:"price"`
	Amount   *decimal.Decimal `json:"amount"`
}

// FetchPrice returns the current quote for vehicleID. Any failure, including a
// timeout, a non-2xx status or an incomplete payload, wraps ErrEnrichmentUnavailable.
func (c *Client) FetchPrice(ctx context.Context, vehicleID int64) (quote *vehicleDomain.PriceQuote, err error) {
	ctx, span := tracer.Start(ctx, "fetch-price",
		trace.WithAttributes(attribute.Int64("vehicle.id", vehicleID)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err = c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: price rate limit: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
		}
	}

	endpoint := c.baseURL + "/prices/" + strconv.FormatInt(vehicleID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create price request: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: price request failed: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: pricing service returned %d", vehicleDomain.ErrEnrichmentUnavailable, resp.StatusCode)
	}

	var body priceResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed price payload: %v", vehicleDomain.ErrEnrichmentUnavailable, err)
	}

	amount := body.Price
	if amount == nil {
		amount = body.Amount
	}
	if body.Currency == "" || amount == nil {
		err = fmt.Errorf("%w: price payload missing currency or amount", vehicleDomain.ErrEnrichmentUnavailable)
		return nil, err
	}

	return &vehicleDomain.PriceQuote{Currency: body.Currency, Amount: *amount}, nil
}
