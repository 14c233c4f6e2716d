package db

import (
	"database/sql"
	"errors"

	"podcaster/internal/models"
)

const episodeColumns = `id, COALESCE(post_id, 0) AS post_id, subtitle, summary, enable, slug, duration,
	cover_art, chapters, recording_date, explicit, license_name, license_url`

// GetAllEpisodesByTime returns every episode joined with its post, newest
// post first.
func GetAllEpisodesByTime() ([]models.EpisodeWithPost, error) {
	query := `
		SELECT e.id, e.post_id, e.subtitle, e.summary, e.enable, e.slug, e.duration,
		       e.cover_art, e.chapters, e.recording_date, e.explicit, e.license_name, e.license_url,
		       p.post_title, p.post_status, p.post_type, p.post_date
		FROM episodes e
		JOIN posts p ON e.post_id = p.id
		ORDER BY p.post_date DESC
	`
	var episodes []models.EpisodeWithPost
	if err := DB.Select(&episodes, query); err != nil {
		return nil, err
	}
	return episodes, nil
}

// GetEpisodeByID returns nil when no such episode exists.
func GetEpisodeByID(id int) (*models.Episode, error) {
	episode := &models.Episode{}
	err := DB.Get(episode, "SELECT "+episodeColumns+" FROM episodes WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return episode, nil
}

// GetEpisodeByPostID returns nil when the post has no episode.
func GetEpisodeByPostID(postID int) (*models.Episode, error) {
	episode := &models.Episode{}
	err := DB.Get(episode, "SELECT "+episodeColumns+" FROM episodes WHERE post_id = $1 ORDER BY id LIMIT 1", postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return episode, nil
}

func GetEpisodeIDs() ([]int, error) {
	var ids []int
	err := DB.Select(&ids, "SELECT id FROM episodes ORDER BY id")
	return ids, err
}

func CreateEpisode(postID int) (*models.Episode, error) {
	episode := &models.Episode{}
	err := DB.Get(episode, "INSERT INTO episodes (post_id) VALUES ($1) RETURNING "+episodeColumns, postID)
	if err != nil {
		return nil, err
	}
	return episode, nil
}

func SaveEpisode(e *models.Episode) error {
	_, err := DB.Exec(`
		UPDATE episodes
		SET post_id = $1, subtitle = $2, summary = $3, enable = $4, slug = $5, duration = $6,
		    cover_art = $7, chapters = $8, recording_date = $9, explicit = $10,
		    license_name = $11, license_url = $12
		WHERE id = $13`,
		e.PostID, e.Subtitle, e.Summary, e.Enable, e.Slug, e.Duration,
		e.CoverArt, e.Chapters, e.RecordingDate, e.Explicit,
		e.LicenseName, e.LicenseURL, e.ID)
	return err
}
