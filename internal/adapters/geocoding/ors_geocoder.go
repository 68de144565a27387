package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/platform/metrics"
	"lawn-route-service/internal/platform/obs"
	"lawn-route-service/internal/ports"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder implements BatchGeocoder using the OpenRouteService search API.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching (optional)
//   - Client-side rate limiting and bounded concurrency
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session        *http.Client
	apiKey         string
	baseURL        string
	country        string
	cache          ports.GeocodeCache
	limiter        *rate.Limiter
	concurrency    int
	maxAttempts    int
	initialBackoff time.Duration
}

type ORSOption func(*ORSGeocoder)

func WithBaseURL(u string) ORSOption {
	return func(o *ORSGeocoder) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithCache(c ports.GeocodeCache) ORSOption {
	return func(o *ORSGeocoder) { o.cache = c }
}

// WithRateLimit caps upstream requests per second. Zero or less disables the limiter.
func WithRateLimit(rps float64) ORSOption {
	return func(o *ORSGeocoder) {
		if rps <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

func WithCountry(code string) ORSOption {
	return func(o *ORSGeocoder) { o.country = code }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSGeocoder) { o.session = c }
}

func WithBackoff(initial time.Duration) ORSOption {
	return func(o *ORSGeocoder) { o.initialBackoff = initial }
}

func NewORSGeocoder(apiKey string, opts ...ORSOption) (*ORSGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	g := &ORSGeocoder{
		session:        &http.Client{Timeout: 10 * time.Second},
		apiKey:         apiKey,
		baseURL:        defaultORSBaseURL,
		country:        "US",
		limiter:        rate.NewLimiter(rate.Limit(1.5), 1),
		concurrency:    4,
		maxAttempts:    4,
		initialBackoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// normalize ensures consistent lookups by collapsing whitespace.
func (o *ORSGeocoder) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Delegate to the batched path to reuse caching logic.
func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	norm := o.normalize(address)
	if norm == "" {
		return domain.Coordinates{}, errors.New("geocode: address must be non-empty")
	}

	results, err := o.GeocodeMany(ctx, []string{norm})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	c, ok := results[norm]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, ports.ErrAddressNotFound)
	}

	return c, nil
}

// GeocodeMany resolves many addresses, consulting the cache first.
// Results are keyed by the caller's address strings. Addresses with no match
// are absent from the result; any other upstream failure fails the batch.
func (o *ORSGeocoder) GeocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.GeocodeMany")(&err)

	// normalized -> caller spellings
	byNorm := make(map[string][]string, len(addresses))
	uniq := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := o.normalize(a)
		if n == "" {
			continue
		}
		if _, ok := byNorm[n]; !ok {
			uniq = append(uniq, n)
		}
		byNorm[n] = append(byNorm[n], a)
	}

	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	hits := make(map[string]domain.Coordinates)
	// Check persistent geocode cache before issuing external API calls.
	if o.cache != nil {
		hits, err = o.cache.GetMany(ctx, uniq)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
	}
	metrics.GeocodeRequests.WithLabelValues("cache_hit").Add(float64(len(hits)))

	misses := make([]string, 0, len(uniq))
	for _, a := range uniq {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}

	fresh, err := o.fetchMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	if o.cache != nil && len(fresh) > 0 {
		if err := o.cache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, src := range []map[string]domain.Coordinates{hits, fresh} {
		for n, c := range src {
			for _, a := range byNorm[n] {
				out[a] = c
			}
		}
	}

	return out, nil
}

// fetchMany geocodes addresses concurrently, bounded by o.concurrency and the limiter.
func (o *ORSGeocoder) fetchMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, len(addresses))
	if len(addresses) == 0 {
		return out, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)

	for _, a := range addresses {
		g.Go(func() error {
			c, err := o.fetchOne(gctx, a)
			if errors.Is(err, ports.ErrAddressNotFound) {
				metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
				return nil
			}
			if err != nil {
				metrics.GeocodeRequests.WithLabelValues("error").Inc()
				return fmt.Errorf("geocode %q: %w", a, err)
			}

			metrics.GeocodeRequests.WithLabelValues("fetched").Inc()
			mu.Lock()
			out[a] = c
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// fetchOne resolves a single address using /geocode/search.
func (o *ORSGeocoder) fetchOne(ctx context.Context, address string) (domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinates{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, ports.ErrAddressNotFound
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	// ORS returns [lon, lat].
	c := domain.Coordinates{Lon: coords[0], Lat: coords[1]}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocoder returned out-of-range coordinates for %q: %v", address, coords)
	}

	return c, nil
}
