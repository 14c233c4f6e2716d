package main

import (
	"errors"
	"os"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"podcaster/internal/cache"
	"podcaster/internal/config"
	"podcaster/internal/db"
	"podcaster/internal/episodes"
	"podcaster/internal/logging"
	"podcaster/internal/media"
	"podcaster/internal/migration"
	"podcaster/internal/worker"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogJSON)

	db.InitDB(cfg.DatabaseURL)

	store, err := cache.Open(cfg.RedisAddr, cfg.CachePrefix, cfg.NoCache)
	if err != nil {
		log.Fatalf("could not open cache: %v", err)
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer client.Close()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"high":    2,
				"default": 1,
			},
			// Exponential backoff: 1min, 2min, 4min, ... capped at 6 hours
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				delay := time.Minute
				maxDelay := 6 * time.Hour
				for i := 0; i < n; i++ {
					delay *= 2
					if delay > maxDelay {
						delay = maxDelay
						break
					}
				}

				log.Printf("Task %s failed %d times, retrying in %v", task.Type(), n+1, delay)
				return delay
			},
		},
	)

	manager := episodes.NewManager(store, media.NewHTTPSizer(cfg.FetchTimeout, cfg.UserAgent), nil)
	taskHandler := worker.NewTaskHandler(client, manager, migration.NewMigrator(manager))

	mux := asynq.NewServeMux()
	taskHandler.Register(mux)

	log.Printf("Worker starting (commit: %s)", CommitSHA)
	if err := srv.Run(mux); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
