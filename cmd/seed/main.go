package main

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/repository"
	"finance-tracker/internal/service"
	"finance-tracker/pkg/config"
	"finance-tracker/pkg/logger"
	"finance-tracker/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	seedDir := flag.String("dir", filepath.Join("cmd", "seed", "fixtures"), "directory with *.json fixture files")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, appLogger); err != nil {
		appLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	txService := service.NewTransactionService(repository.NewTransactionRepository(db, appLogger), cfg.Store.Strict(), appLogger)

	appLogger.Info("Starting database seeding...", zap.String("dir", *seedDir))

	cacheFile := filepath.Join(*seedDir, ".seed_cache.json")
	added, err := seedTransactions(ctx, *seedDir, cacheFile, txService, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed transactions", zap.Error(err))
	}

	appLogger.Info("Database seeding completed", zap.Int("added", added))
}

// seededFile is what the cache remembers about one fixture.
type seededFile struct {
	Path     string    `json:"path"`
	MD5      string    `json:"md5"`
	Added    int       `json:"added"`
	SeededAt time.Time `json:"seeded_at"`
}

// seedCache is keyed by fixture path.
type seedCache struct {
	Files map[string]seededFile `json:"files"`
}

// readSeedCache returns an empty cache when cacheFile is missing or blank.
func readSeedCache(cacheFile string) (*seedCache, error) {
	cache := &seedCache{Files: map[string]seededFile{}}

	data, err := os.ReadFile(cacheFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cache, nil
	case err != nil:
		return nil, fmt.Errorf("read seed cache: %w", err)
	case len(bytes.TrimSpace(data)) == 0:
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("parse seed cache: %w", err)
	}
	if cache.Files == nil {
		cache.Files = map[string]seededFile{}
	}
	return cache, nil
}

func (c *seedCache) write(cacheFile string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seed cache: %w", err)
	}
	return os.WriteFile(cacheFile, data, 0644)
}

// unchanged reports whether path was already seeded with this content.
func (c *seedCache) unchanged(path, sum string) (seededFile, bool) {
	entry, ok := c.Files[path]
	return entry, ok && entry.MD5 == sum
}

// seedTransactions adds the transactions of every fixture file in seedDir
// that is new or changed since the last run. Invalid entries are logged and
// skipped. It returns how many transactions were added.
func seedTransactions(
	ctx context.Context,
	seedDir string,
	cacheFile string,
	txService *service.TransactionService,
	logger *zap.Logger,
) (int, error) {
	cache, err := readSeedCache(cacheFile)
	if err != nil {
		logger.Warn("Seed cache unreadable, seeding every fixture", zap.Error(err))
		cache = &seedCache{Files: map[string]seededFile{}}
	}

	files, err := filepath.Glob(filepath.Join(seedDir, "*.json"))
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	total := 0
	for _, path := range files {
		if path == cacheFile {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return total, fmt.Errorf("read fixture %s: %w", path, err)
		}
		sum := fmt.Sprintf("%x", md5.Sum(data))
		if entry, ok := cache.unchanged(path, sum); ok {
			logger.Info("Fixture already seeded, skipping",
				zap.String("path", path),
				zap.Time("seeded_at", entry.SeededAt),
			)
			continue
		}

		var requests []dto.TransactionRequest
		if err := json.Unmarshal(data, &requests); err != nil {
			logger.Error("Invalid fixture file, skipping", zap.String("path", path), zap.Error(err))
			continue
		}

		added := 0
		for i := range requests {
			if _, err := txService.Add(ctx, &requests[i]); err != nil {
				logger.Warn("Skipping fixture entry",
					zap.String("path", path),
					zap.Int("index", i),
					zap.Error(err),
				)
				continue
			}
			added++
		}
		total += added

		logger.Info("Seeded fixture", zap.String("path", path), zap.Int("added", added))
		cache.Files[path] = seededFile{Path: path, MD5: sum, Added: added, SeededAt: time.Now()}
	}

	if err := cache.write(cacheFile); err != nil {
		logger.Warn("Failed to save seed cache", zap.Error(err))
	}

	return total, nil
}
