package geocoding

import (
	"context"
	"errors"
	"fmt"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type memoryCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *memoryCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memoryCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func newORSServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestORSGeocoderGeocodeManyUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "key" {
			t.Errorf("missing api key header")
		}
		switch r.URL.Query().Get("text") {
		case "1 Oak St":
			fmt.Fprint(w, `{"features":[{"geometry":{"coordinates":[-112.07,33.45]}}]}`)
		default:
			fmt.Fprint(w, `{"features":[]}`)
		}
	})

	cache := &memoryCache{m: map[string]domain.Coordinates{
		"2 Elm St": {Lat: 1, Lon: 2},
	}}

	g, err := NewORSGeocoder("key", WithBaseURL(srv.URL), WithCache(cache), WithRateLimit(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := g.GeocodeMany(context.Background(), []string{"1  Oak St", "2 Elm St", "3 Nowhere Rd"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("results = %v, want 2 entries", got)
	}
	if c := got["1  Oak St"]; c.Lat != 33.45 || c.Lon != -112.07 {
		t.Fatalf("1 Oak St = %v", c)
	}
	if c := got["2 Elm St"]; c.Lat != 1 {
		t.Fatalf("2 Elm St = %v, want cached value", c)
	}
	if calls.Load() != 2 {
		t.Fatalf("upstream calls = %d, want 2 (cache hit skipped)", calls.Load())
	}
	if _, ok := cache.m["1 Oak St"]; !ok {
		t.Fatal("fresh result was not written to cache")
	}
}

func TestORSGeocoderNotFound(t *testing.T) {
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features":[]}`)
	})

	g, _ := NewORSGeocoder("key", WithBaseURL(srv.URL), WithRateLimit(0))

	_, err := g.Geocode(context.Background(), "nowhere")
	if !errors.Is(err, ports.ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound", err)
	}
}

func TestORSGeocoderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"features":[{"geometry":{"coordinates":[10,20]}}]}`)
	})

	g, _ := NewORSGeocoder("key", WithBaseURL(srv.URL), WithRateLimit(0), WithBackoff(time.Millisecond))

	c, err := g.Geocode(context.Background(), "1 Oak St")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Lat != 20 || c.Lon != 10 {
		t.Fatalf("coords = %v", c)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls = %d, want 3", calls.Load())
	}
}

func TestORSGeocoderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := newORSServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	g, _ := NewORSGeocoder("key", WithBaseURL(srv.URL), WithRateLimit(0), WithBackoff(time.Millisecond))

	_, err := g.Geocode(context.Background(), "1 Oak St")
	var he *httpStatusError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 httpStatusError", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestNewORSGeocoderRequiresKey(t *testing.T) {
	if _, err := NewORSGeocoder("  "); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
