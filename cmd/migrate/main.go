package main

import (
	"errors"
	"os"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"podcaster/internal/cache"
	"podcaster/internal/config"
	"podcaster/internal/db"
	"podcaster/internal/episodes"
	"podcaster/internal/logging"
	"podcaster/internal/media"
	"podcaster/internal/migration"
	"podcaster/pkg/tasks"
)

type options struct {
	config.Config

	Legacy bool `long:"legacy" description:"Enqueue migration of every post with legacy enclosure metadata"`
	PostID int  `long:"post" description:"Migrate a single legacy post synchronously"`
}

func main() {
	var opts options
	err := config.LoadInto(os.Args[1:], &opts)
	if errors.Is(err, config.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}
	logging.Setup(opts.LogLevel, opts.LogJSON)

	db.InitDB(opts.DatabaseURL)

	version, dirty, err := db.RunMigrations()
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Schema at version %d (dirty: %t)", version, dirty)

	if opts.PostID != 0 {
		manager := episodes.NewManager(cache.NewMemoryStore(), media.NewHTTPSizer(opts.FetchTimeout, opts.UserAgent), nil)
		episode, err := migration.NewMigrator(manager).MigratePost(opts.PostID)
		if err != nil {
			log.Fatalf("Failed to migrate post %d: %v", opts.PostID, err)
		}
		log.Printf("Post %d migrated into episode %d", opts.PostID, episode.ID)
	}

	if opts.Legacy {
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: opts.RedisAddr})
		defer client.Close()

		task, err := tasks.NewMigrateAllLegacyTask()
		if err != nil {
			log.Fatalf("could not create task: %v", err)
		}
		info, err := client.Enqueue(task)
		if err != nil {
			log.Fatalf("could not enqueue task: %v", err)
		}
		log.Printf("Enqueued legacy migration (task %s)", info.ID)
	}
}
