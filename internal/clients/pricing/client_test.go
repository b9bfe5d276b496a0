package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vehicleDomain "github.com/Kilat-Pet-Delivery/service-vehicles/internal/domain/vehicle"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPrice(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/prices/1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"currency":"USD","price":20000.00,"vehicleId":1}`))
	})

	c := NewClient(srv.URL, time.Second)
	quote, err := c.FetchPrice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "USD", quote.Currency)
	assert.Equal(t, "USD20000.00", quote.Display())
}

func TestFetchPrice_AmountAlias(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"currency":"EUR","amount":"1234.50"}`))
	})

	quote, err := NewClient(srv.URL, time.Second).FetchPrice(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "EUR1234.50", quote.Display())
}

func TestFetchPrice_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed payload", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"currency":`))
		}},
		{"missing currency", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"price":10}`))
		}},
		{"missing amount", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"currency":"USD"}`))
		}},
		{"slow upstream", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.handler)
			c := NewClient(srv.URL, 100*time.Millisecond)

			quote, err := c.FetchPrice(context.Background(), 1)
			require.Error(t, err)
			assert.Nil(t, quote)
			assert.True(t, errors.Is(err, vehicleDomain.ErrEnrichmentUnavailable))
		})
	}
}

func TestFetchPrice_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchPrice(context.Background(), 1)
	assert.ErrorIs(t, err, vehicleDomain.ErrEnrichmentUnavailable)
}

func TestFetchPrice_RateLimitBoundedByTimeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"currency":"USD","price":1}`))
	})

	c := NewClient(srv.URL, 50*time.Millisecond, WithRateLimit(0.001, 1))

	_, err := c.FetchPrice(context.Background(), 1)
	require.NoError(t, err)

	_, err = c.FetchPrice(context.Background(), 1)
	assert.ErrorIs(t, err, vehicleDomain.ErrEnrichmentUnavailable)
}

func TestNewClient_NonPositiveTimeoutUsesDefault(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		assert.Equal(t, DefaultTimeout, NewClient("http://pricing", timeout).timeout)
	}
}
