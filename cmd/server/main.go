package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"podcaster/internal/cache"
	"podcaster/internal/config"
	"podcaster/internal/db"
	"podcaster/internal/episodes"
	"podcaster/internal/handlers"
	"podcaster/internal/logging"
	"podcaster/internal/media"
	"podcaster/internal/middleware"
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

	manager := episodes.NewManager(store, media.NewHTTPSizer(cfg.FetchTimeout, cfg.UserAgent), nil)
	h := handlers.New(client, manager, cfg.BaseURL)
	limiter, err := middleware.NewRateLimiterMiddleware(rate.Limit(cfg.RateLimit), cfg.RateBurst, cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("could not configure rate limiter: %v", err)
	}
	router := handlers.NewRouter(h, limiter.Middleware)

	log.Printf("Starting server on :%s (commit: %s)", cfg.Port, CommitSHA)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
