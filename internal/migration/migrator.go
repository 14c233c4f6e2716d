package migration

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"podcaster/internal/db"
	"podcaster/internal/models"
)

// EpisodeStore is the part of episodes.Manager the migrator needs.
type EpisodeStore interface {
	FindOrCreateByPostID(postID int) (*models.Episode, error)
	Save(episode *models.Episode) error
}

type Migrator struct {
	episodes EpisodeStore
}

func NewMigrator(episodes EpisodeStore) *Migrator {
	return &Migrator{episodes: episodes}
}

// LegacyPostIDs lists posts carrying legacy enclosure metadata.
func (m *Migrator) LegacyPostIDs() ([]int, error) {
	ids, err := db.GetPostIDsWithMeta(models.MetaKeyEnclosure)
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy posts: %w", err)
	}
	return ids, nil
}

// MigratePost backfills the post's episode with the legacy subtitle, summary
// and duration.
func (m *Migrator) MigratePost(postID int) (*models.Episode, error) {
	parser, err := NewLegacyPostParser(postID)
	if err != nil {
		return nil, err
	}

	subtitle, err := parser.Subtitle()
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle of post %d: %w", postID, err)
	}
	summary, err := parser.Summary()
	if err != nil {
		return nil, fmt.Errorf("failed to read summary of post %d: %w", postID, err)
	}

	episode, err := m.episodes.FindOrCreateByPostID(postID)
	if err != nil {
		return nil, err
	}

	// missing legacy fields never overwrite what is already stored
	if subtitle != "" {
		episode.Subtitle = subtitle
	}
	if summary != "" {
		episode.Summary = summary
	}
	if duration, ok := parser.Duration(); ok {
		episode.Duration = duration
	}

	if err := m.episodes.Save(episode); err != nil {
		return nil, err
	}

	log.WithField("episode_id", episode.ID).Printf("Migrated legacy post %d", postID)
	return episode, nil
}
