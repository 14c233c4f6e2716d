package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"podcaster/internal/db"
	"podcaster/internal/episodes"
	"podcaster/internal/migration"
	"podcaster/pkg/tasks"
)

type TaskHandler struct {
	asynqClient tasks.TaskEnqueuer
	episodes    *episodes.Manager
	migrator    *migration.Migrator
}

func NewTaskHandler(client tasks.TaskEnqueuer, manager *episodes.Manager, migrator *migration.Migrator) *TaskHandler {
	return &TaskHandler{asynqClient: client, episodes: manager, migrator: migrator}
}

// Register wires every task type to its handler.
func (h *TaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeRefetchFiles, h.HandleRefetchFilesTask)
	mux.HandleFunc(tasks.TypeRefetchAllEpisodes, h.HandleRefetchAllEpisodesTask)
	mux.HandleFunc(tasks.TypeMigrateLegacyPost, h.HandleMigrateLegacyPostTask)
	mux.HandleFunc(tasks.TypeMigrateAllLegacy, h.HandleMigrateAllLegacyTask)
}

func (h *TaskHandler) HandleRefetchFilesTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.RefetchFilesTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	log.Printf("Refetching files for episode %d", p.EpisodeID)

	episode, err := db.GetEpisodeByID(p.EpisodeID)
	if err != nil {
		return fmt.Errorf("failed to get episode by id: %w", err)
	}
	if episode == nil {
		log.Printf("Episode %d no longer exists, skipping refetch", p.EpisodeID)
		return nil
	}

	valid, err := h.episodes.RefetchFiles(ctx, episode)
	if err != nil {
		return fmt.Errorf("failed to refetch files: %w", err)
	}

	log.Printf("Refetched files for episode %d: %d valid", p.EpisodeID, len(valid))
	return nil
}

func (h *TaskHandler) HandleRefetchAllEpisodesTask(ctx context.Context, t *asynq.Task) error {
	log.Println("Refetching files for all episodes...")

	ids, err := db.GetEpisodeIDs()
	if err != nil {
		return fmt.Errorf("failed to get episode ids: %w", err)
	}

	for _, id := range ids {
		task, err := tasks.NewRefetchFilesTask(id)
		if err != nil {
			log.Printf("failed to create refetch task for episode %d: %v", id, err)
			continue
		}

		_, err = h.asynqClient.Enqueue(task)
		if err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
			log.Printf("failed to enqueue refetch task for episode %d: %v", id, err)
			continue
		}
	}

	log.Println("Finished enqueuing refetch tasks.")
	return nil
}

func (h *TaskHandler) HandleMigrateLegacyPostTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.MigrateLegacyPostTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	if _, err := h.migrator.MigratePost(p.PostID); err != nil {
		return fmt.Errorf("failed to migrate legacy post %d: %w", p.PostID, err)
	}
	return nil
}

func (h *TaskHandler) HandleMigrateAllLegacyTask(ctx context.Context, t *asynq.Task) error {
	ids, err := h.migrator.LegacyPostIDs()
	if err != nil {
		return err
	}

	log.Printf("Enqueuing migration of %d legacy posts", len(ids))
	for _, id := range ids {
		task, err := tasks.NewMigrateLegacyPostTask(id)
		if err != nil {
			log.Printf("failed to create migrate task for post %d: %v", id, err)
			continue
		}
		if _, err := h.asynqClient.Enqueue(task); err != nil {
			log.Printf("failed to enqueue migrate task for post %d: %v", id, err)
		}
	}
	return nil
}
