package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"lawn-route-service/internal/adapters/cache"
	"lawn-route-service/internal/adapters/geocoding"
	"lawn-route-service/internal/adapters/repositories"
	"lawn-route-service/internal/config"
	"lawn-route-service/internal/platform/db"
	"lawn-route-service/internal/services"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func main() {
	backfill := flag.Bool("backfill", false, "geocode stored clients that have no coordinates")
	skipSeed := flag.Bool("skip-seed", false, "initialize the schema without loading the seed file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()

	seedPath := config.Get("SEED_PATH", "data/seeds/clients.json")
	if *skipSeed {
		seedPath = ""
	}
	if err := initAndSeed(ctx, db, seedPath); err != nil {
		log.Fatal(err)
	}

	if *backfill {
		if err := runBackfill(ctx, db); err != nil {
			log.Fatal(err)
		}
	}
}

func initAndSeed(ctx context.Context, db *sql.DB, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if seedPath == "" {
		return nil
	}

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, db, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}

func runBackfill(ctx context.Context, db *sql.DB) error {
	key := config.Get("ORS_API_KEY", "")
	if key == "" {
		return fmt.Errorf("backfill: ORS_API_KEY is required")
	}

	rps, err := strconv.ParseFloat(config.Get("GEOCODE_RPS", "1.5"), 64)
	if err != nil {
		return fmt.Errorf("backfill: GEOCODE_RPS: %w", err)
	}

	geocoder, err := geocoding.NewORSGeocoder(key,
		geocoding.WithBaseURL(config.Get("ORS_BASE_URL", "https://api.openrouteservice.org")),
		geocoding.WithRateLimit(rps),
		geocoding.WithCache(cache.NewSQLGeocodeCache(db)),
	)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	svc := services.NewClientService(repositories.NewPostgresClientRepository(db), geocoder)

	log.Println("Backfilling client coordinates...")
	n, err := svc.Backfill(ctx)
	if err != nil {
		return err
	}
	log.Printf("Backfill complete. updated=%d", n)

	return nil
}
