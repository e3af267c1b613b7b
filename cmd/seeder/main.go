package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"company_reviews/internal/adapters/observability"
	"company_reviews/internal/app"
	"company_reviews/internal/domain"
	"company_reviews/internal/shared"
	mysqlrepo "company_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if cfg.SeedFile == "" {
		log.Fatal().Msg("SEED_FILE is required")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("read seed file failed")
	}
	var fx domain.Fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		log.Fatal().Err(err).Msg("decode seed file failed")
	}

	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Int("users", len(fx.Users)).
		Int("companies", len(fx.Companies)).
		Int("reviews", len(fx.Reviews)).
		Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	seed := app.NewSeedService(mysqlrepo.New(db))
	if err := seed.ImportParents(ctx, fx); err != nil {
		log.Fatal().Err(err).Msg("import users/companies failed")
	}

	batches := app.GroupByCompany(fx.Reviews)
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, id := range app.SortedKeys(batches) {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(companyID string, rs []domain.Review) {
			defer wg.Done()
			defer sem.Release(1)

			if err := seed.ImportReviews(ctx, companyID, rs); err != nil {
				failed.Add(1)
				log.Warn().Str("company", companyID).Err(err).Msg("seed batch failed")
				return
			}
			log.Info().Str("company", companyID).Int("reviews", len(rs)).Msg("seed batch ok")
		}(id, batches[id])
	}

	wg.Wait()
	if n := failed.Load(); n > 0 {
		log.Fatal().Int32("failed_batches", n).Msg("seeding incomplete")
	}
	log.Info().Msg("seeding completed")
}
