package main

import (
	"context"
	"database/sql"
	"errors"
	"lawn-route-service/internal/adapters/cache"
	"lawn-route-service/internal/adapters/geocoding"
	"lawn-route-service/internal/adapters/repositories"
	"lawn-route-service/internal/api"
	"lawn-route-service/internal/api/handlers"
	"lawn-route-service/internal/config"
	"lawn-route-service/internal/domain"
	"lawn-route-service/internal/platform/db"
	"lawn-route-service/internal/platform/metrics"
	"lawn-route-service/internal/ports"
	"lawn-route-service/internal/services"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or memory, ORS, Redis or SQL cache) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	metrics.Register()
	ctx := context.Background()

	var (
		repo  ports.ClientRepository
		sqlDB *sql.DB
	)
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlDB.Close()

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewPostgresClientRepository(sqlDB)
		log.Println("client store: postgres")
	} else {
		seeds, err := loadSeeds(cfg.SeedPath)
		if err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewMemoryClientRepository(seeds...)
		log.Printf("client store: memory clients=%d", len(seeds))
	}

	geocoder, closeCache, err := newGeocoder(ctx, cfg, sqlDB)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	router := api.NewRouter(
		services.NewClientService(repo, geocoder),
		services.NewPlanner(repo, cfg.MaxClients),
		handlers.Defaults{
			Grouping: services.GroupingOptions{
				ThresholdMeters: cfg.GroupThresholdMeters,
				RoadBonus:       cfg.RoadBonus,
			},
			Depot: cfg.Depot(),
		},
	)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newGeocoder builds the ORS geocoder with the best available cache.
// Without an API key it returns a nil geocoder and clients must carry coordinates.
func newGeocoder(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (ports.Geocoder, func(), error) {
	noop := func() {}

	if cfg.ORSAPIKey == "" {
		log.Println("ORS_API_KEY not set: geocoding disabled, clients must include lat/lon")
		return nil, noop, nil
	}

	opts := []geocoding.ORSOption{
		geocoding.WithBaseURL(cfg.ORSBaseURL),
		geocoding.WithRateLimit(cfg.GeocodeRPS),
	}

	closeCache := noop
	switch {
	case cfg.RedisURL != "":
		rc, err := cache.NewRedisGeocodeCacheFromURL(ctx, cfg.RedisURL, cfg.GeocodeCacheTTL)
		if err != nil {
			return nil, noop, err
		}
		opts = append(opts, geocoding.WithCache(rc))
		closeCache = func() { _ = rc.Close() }
		log.Println("geocode cache: redis")
	case sqlDB != nil:
		opts = append(opts, geocoding.WithCache(cache.NewSQLGeocodeCache(sqlDB)))
		log.Println("geocode cache: postgres")
	default:
		log.Println("geocode cache: none")
	}

	g, err := geocoding.NewORSGeocoder(cfg.ORSAPIKey, opts...)
	if err != nil {
		return nil, noop, err
	}
	return g, closeCache, nil
}

// loadSeeds reads the demo client file for the in-memory store. A missing file is not an error.
func loadSeeds(path string) ([]*domain.Client, error) {
	seeds, err := repositories.ReadSeeds(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file %q not found, starting empty", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	clients := make([]*domain.Client, 0, len(seeds))
	for _, s := range seeds {
		clients = append(clients, s.Client())
	}
	return clients, nil
}
