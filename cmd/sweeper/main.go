// Sweeper removes orphaned photos from blob storage. A photo is orphaned
// when no inspection result references its URL, which happens when results
// are overwritten or inspections deleted after upload.
package main

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"lodgeiq/internal/adapters/blob"
	"lodgeiq/internal/adapters/observability"
	"lodgeiq/internal/shared"
	mysqlrepo "lodgeiq/internal/storage/mysql"
)

const photoPrefix = "inspections/"

// Photos younger than this are skipped: an upload may land in blob storage
// before the result row referencing it is saved.
const graceWindow = 24 * time.Hour

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	repo := mysqlrepo.New(db)
	blobs, err := blob.New(cfg.BlobBase, cfg.BlobToken, 10)
	if err != nil {
		log.Fatal().Err(err).Msg("blob client init failed")
	}

	urls, err := repo.PhotoURLs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load referenced photo URLs failed")
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if key, ok := blobs.KeyFromURL(u); ok {
			referenced[key] = struct{}{}
		}
	}

	stored, err := blobs.List(ctx, photoPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("list blob keys failed")
	}

	var orphans []string
	cutoff := time.Now().Add(-graceWindow).UnixMilli()
	for _, key := range stored {
		if _, ok := referenced[key]; ok {
			continue
		}
		if uploadedAfter(key, cutoff) {
			continue
		}
		orphans = append(orphans, key)
	}
	log.Info().
		Int("stored", len(stored)).
		Int("referenced", len(referenced)).
		Int("orphans", len(orphans)).
		Msg("sweep plan")

	sem := semaphore.NewWeighted(int64(cfg.SweepWorkers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	deleted, failed := 0, 0

	for _, key := range orphans {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Error().Err(err).Msg("sweep aborted")
			break
		}
		wg.Add(1)
		go func(key string) {
			defer sem.Release(1)
			defer wg.Done()
			err := blobs.Delete(ctx, key)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				log.Error().Err(err).Str("key", key).Msg("delete failed")
				return
			}
			deleted++
		}(key)
	}
	wg.Wait()

	log.Info().Int("deleted", deleted).Int("failed", failed).Msg("sweep completed")
}

// uploadedAfter reads the millisecond timestamp that prefixes the blob
// filename (inspections/{inspID}/{itemID}/{unixms}-{rand}-{name}).
func uploadedAfter(key string, cutoffMillis int64) bool {
	parts := strings.Split(key, "/")
	name := parts[len(parts)-1]
	ts, _, ok := strings.Cut(name, "-")
	if !ok {
		return false
	}
	var ms int64
	for _, c := range ts {
		if c < '0' || c > '9' {
			return false
		}
		ms = ms*10 + int64(c-'0')
	}
	return ms > cutoffMillis
}
