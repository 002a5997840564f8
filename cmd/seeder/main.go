package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"cinema_catalog/internal/adapters/catalogclient"
	"cinema_catalog/internal/adapters/observability"
	"cinema_catalog/internal/shared"
)

// record is one fixture: the write route and its form fields.
type record struct {
	Path string            `json:"path"`
	Form map[string]string `json:"form"`
}

type poster interface {
	Post(ctx context.Context, path string, form map[string]string) (catalogclient.Envelope, error)
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	recs, err := readRecords(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("cannot read seed file")
	}

	log.Info().
		Str("base", cfg.SeedAPIBase).
		Int("workers", cfg.SeedWorkers).
		Int("records", len(recs)).
		Msg("seeder starting")

	client := catalogclient.New(cfg.SeedAPIBase, cfg.SeedRPS)
	failed := seed(ctx, client, recs, cfg.SeedWorkers)

	log.Info().Int64("failed", failed).Int("total", len(recs)).Msg("seeding completed")
	if failed > 0 {
		os.Exit(1)
	}
}

// seed posts every record with at most workers requests in flight and
// returns the number of records the API did not accept.
func seed(ctx context.Context, client poster, recs []record, workers int) int64 {
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)

	for i, rec := range recs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("semaphore acquire failed")
			failed.Add(int64(len(recs) - i))
			break
		}

		wg.Add(1)
		go func(i int, rec record) {
			defer wg.Done()
			defer sem.Release(1)

			if _, err := client.Post(ctx, rec.Path, rec.Form); err != nil {
				failed.Add(1)
				log.Warn().Int("index", i).Str("path", rec.Path).Err(err).Msg("seed failed")
				return
			}
			log.Debug().Int("index", i).Str("path", rec.Path).Msg("seed ok")
		}(i, rec)
	}

	wg.Wait()
	return failed.Load()
}

func readRecords(path string) ([]record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
