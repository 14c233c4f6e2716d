package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeRefetchFiles       = "episode:refetch_files"
	TypeRefetchAllEpisodes = "episodes:refetch_all"
	TypeMigrateLegacyPost  = "legacy:migrate_post"
	TypeMigrateAllLegacy   = "legacy:migrate_all"
)

type RefetchFilesTaskPayload struct {
	EpisodeID int
}

// RefetchUniqueTTL bounds how long a refetch of the same episode is
// deduplicated, also when the earlier task ends up archived.
const RefetchUniqueTTL = 30 * time.Minute

// RefetchFilesOptions are the enqueue options of every refetch task.
func RefetchFilesOptions() []asynq.Option {
	return []asynq.Option{asynq.Unique(RefetchUniqueTTL)}
}

// NewRefetchFilesTask builds a task deduplicated per episode for
// RefetchUniqueTTL.
func NewRefetchFilesTask(episodeID int) (*asynq.Task, error) {
	payload, err := json.Marshal(RefetchFilesTaskPayload{EpisodeID: episodeID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRefetchFiles, payload, RefetchFilesOptions()...), nil
}

func NewRefetchAllEpisodesTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeRefetchAllEpisodes, nil), nil
}

type MigrateLegacyPostTaskPayload struct {
	PostID int
}

func NewMigrateLegacyPostTask(postID int) (*asynq.Task, error) {
	payload, err := json.Marshal(MigrateLegacyPostTaskPayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeMigrateLegacyPost, payload), nil
}

func NewMigrateAllLegacyTask() (*asynq.Task, error) {
	return asynq.NewTask(TypeMigrateAllLegacy, nil), nil
}
