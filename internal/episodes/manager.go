// Package episodes resolves an episode's post, media files, cover art and
// chapters, and keeps its cached chapter strings fresh.
package episodes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"podcaster/internal/cache"
	"podcaster/internal/chapters"
	"podcaster/internal/db"
	"podcaster/internal/media"
	"podcaster/internal/models"
)

const chaptersCacheTTL = 24 * time.Hour

// Manager orchestrates lookups into the tables related to an episode.
type Manager struct {
	cache  cache.Store
	sizer  media.FileSizer
	logger log.FieldLogger
}

func NewManager(store cache.Store, sizer media.FileSizer, logger log.FieldLogger) *Manager {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Manager{cache: store, sizer: sizer, logger: logger}
}

func (m *Manager) AllByTime() ([]models.EpisodeWithPost, error) {
	episodes, err := db.GetAllEpisodesByTime()
	if err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return episodes, nil
}

// Current returns the episode of the post being displayed. A zero postID
// means no single post is being displayed.
func (m *Manager) Current(postID int) (*models.Episode, error) {
	if postID == 0 {
		return nil, nil
	}
	return m.FindByPostID(postID)
}

// FindByPostID returns nil when the post has no episode.
func (m *Manager) FindByPostID(postID int) (*models.Episode, error) {
	episode, err := db.GetEpisodeByPostID(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get episode for post %d: %w", postID, err)
	}
	return episode, nil
}

func (m *Manager) FindOrCreateByPostID(postID int) (*models.Episode, error) {
	episode, err := m.FindByPostID(postID)
	if err != nil {
		return nil, err
	}
	if episode != nil {
		return episode, nil
	}

	episode, err = db.CreateEpisode(postID)
	if err != nil {
		return nil, fmt.Errorf("failed to create episode for post %d: %w", postID, err)
	}
	return episode, nil
}

func (m *Manager) Save(episode *models.Episode) error {
	if err := db.SaveEpisode(episode); err != nil {
		return fmt.Errorf("failed to save episode %d: %w", episode.ID, err)
	}
	return nil
}

func (m *Manager) post(episode *models.Episode) (*models.Post, error) {
	post, err := db.GetPost(episode.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", episode.PostID, err)
	}
	return post, nil
}

func (m *Manager) FullTitle(episode *models.Episode) (string, error) {
	post, err := m.post(episode)
	if err != nil {
		return "", err
	}
	return episode.FullTitle(post), nil
}

func (m *Manager) Description(episode *models.Episode) (string, error) {
	post, err := m.post(episode)
	if err != nil {
		return "", err
	}
	return episode.Description(post), nil
}

func (m *Manager) IsValid(episode *models.Episode) (bool, error) {
	post, err := m.post(episode)
	if err != nil {
		return false, err
	}
	return episode.IsValid(post), nil
}

// MediaFiles returns the episode's files ordered by asset position.
func (m *Manager) MediaFiles(episode *models.Episode) ([]models.MediaFile, error) {
	files, err := db.GetMediaFilesByEpisodeID(episode.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get media files for episode %d: %w", episode.ID, err)
	}
	return files, nil
}

// EnclosureURL returns "" when the episode has no file for the asset.
func (m *Manager) EnclosureURL(episode *models.Episode, asset *models.EpisodeAsset) (string, error) {
	file, err := db.GetMediaFile(episode.ID, asset.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get media file: %w", err)
	}
	if file == nil {
		return "", nil
	}

	podcast, err := db.GetPodcast()
	if err != nil {
		return "", fmt.Errorf("failed to get podcast settings: %w", err)
	}
	return media.FileURL(podcast.MediaFileBaseURI, episode.Slug, asset), nil
}

// RefetchFiles re-determines the size of every media file of the episode and
// returns the IDs of files with a positive size. A published episode without
// any valid file raises an alert but is not an error.
func (m *Manager) RefetchFiles(ctx context.Context, episode *models.Episode) ([]int, error) {
	assets, err := db.GetAllEpisodeAssets()
	if err != nil {
		return nil, fmt.Errorf("failed to get episode assets: %w", err)
	}
	podcast, err := db.GetPodcast()
	if err != nil {
		return nil, fmt.Errorf("failed to get podcast settings: %w", err)
	}

	validFiles := []int{}
	for i := range assets {
		asset := &assets[i]
		file, err := db.GetMediaFile(episode.ID, asset.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get media file for asset %d: %w", asset.ID, err)
		}
		if file == nil {
			continue
		}

		url := media.FileURL(podcast.MediaFileBaseURI, episode.Slug, asset)
		size, err := m.sizer.FileSize(ctx, url)
		if err != nil {
			m.logger.WithField("episode_id", episode.ID).Warnf("Could not determine size of %s: %v", url, err)
			size = 0
		}
		file.Size = size

		if err := db.UpdateMediaFileSize(file.ID, file.Size); err != nil {
			return nil, fmt.Errorf("failed to save media file %d: %w", file.ID, err)
		}

		if file.IsValid() {
			validFiles = append(validFiles, file.ID)
		}
	}

	if len(validFiles) == 0 {
		status, err := db.GetPostStatus(episode.PostID)
		if err != nil {
			return nil, fmt.Errorf("failed to get post status: %w", err)
		}
		if status == models.PostStatusPublish {
			m.logger.WithFields(log.Fields{
				"episode_id": episode.ID,
				"severity":   "alert",
			}).Error("All assets for this episode are invalid!")
		}
	}

	return validFiles, nil
}

// Chapters returns the parsed chapter list of the episode.
func (m *Manager) Chapters(episode *models.Episode) []chapters.Chapter {
	return chapters.Parse(episode.Chapters)
}

// ChaptersString renders the chapters in a string format, served from the
// transient cache when present.
func (m *Manager) ChaptersString(ctx context.Context, episode *models.Episode, format string) (string, error) {
	if !chapters.IsStringFormat(format) {
		return "", fmt.Errorf("unknown chapter format %q", format)
	}

	key := ChaptersCacheKey(episode.ID, format)
	if cached, ok, err := m.cache.Get(ctx, key); err != nil {
		m.logger.Warnf("Failed to read chapters cache %s: %v", key, err)
	} else if ok {
		return cached, nil
	}

	rendered, err := chapters.Render(m.Chapters(episode), format)
	if err != nil {
		return "", err
	}

	if err := m.cache.Set(ctx, key, rendered, chaptersCacheTTL); err != nil {
		m.logger.Warnf("Failed to write chapters cache %s: %v", key, err)
	}
	return rendered, nil
}

// ChaptersCacheKey names the transient holding an episode's chapter string.
func ChaptersCacheKey(episodeID int, format string) string {
	key := "podlove_chapters_string_" + strconv.Itoa(episodeID)
	if format != chapters.FormatMP4Chaps {
		key += "_" + format
	}
	return key
}

func chaptersCacheKeys(episodeID int) []string {
	return []string{
		ChaptersCacheKey(episodeID, chapters.FormatMP4Chaps),
		ChaptersCacheKey(episodeID, chapters.FormatPSC),
		ChaptersCacheKey(episodeID, chapters.FormatJSON),
	}
}

// DeleteCaches drops the cached chapter strings of the episode and of the
// episodes belonging to revisions of its post.
func (m *Manager) DeleteCaches(ctx context.Context, episode *models.Episode) error {
	keys := chaptersCacheKeys(episode.ID)

	revisions, err := db.GetPostRevisions(episode.PostID)
	if err != nil {
		return fmt.Errorf("failed to get revisions of post %d: %w", episode.PostID, err)
	}
	for _, revision := range revisions {
		revisionEpisode, err := db.GetEpisodeByPostID(revision.ID)
		if err != nil {
			return fmt.Errorf("failed to get episode for revision %d: %w", revision.ID, err)
		}
		if revisionEpisode != nil {
			keys = append(keys, chaptersCacheKeys(revisionEpisode.ID)...)
		}
	}

	return m.cache.Delete(ctx, keys...)
}
