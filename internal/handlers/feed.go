package handlers

import (
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"podcaster/internal/db"
	"podcaster/internal/feed"
	"podcaster/internal/models"
)

func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	settings, err := db.GetPodcast()
	if err != nil {
		log.Printf("Error getting podcast settings: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	entries, err := h.feedEntries()
	if err != nil {
		log.Printf("Error getting episodes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	rss, err := feed.GenerateRSS(settings, entries, h.baseURL)
	if err != nil {
		log.Printf("Error generating RSS: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}

// feedEntries collects the valid, published episodes, newest first.
func (h *Handlers) feedEntries() ([]feed.Entry, error) {
	rows, err := h.episodes.AllByTime()
	if err != nil {
		return nil, err
	}

	entries := []feed.Entry{}
	for _, row := range rows {
		post := row.Post()
		episode := row.Episode
		if !episode.IsValid(post) || post.Status != models.PostStatusPublish {
			continue
		}

		coverArt, err := h.episodes.CoverArtWithFallback(&episode)
		if err != nil {
			return nil, err
		}
		enclosure, err := h.enclosure(&episode)
		if err != nil {
			return nil, err
		}

		entries = append(entries, feed.Entry{
			Episode:   episode,
			Post:      post,
			CoverArt:  coverArt,
			Enclosure: enclosure,
		})
	}
	return entries, nil
}

// enclosure picks the first valid media file in asset order.
func (h *Handlers) enclosure(episode *models.Episode) (*feed.Enclosure, error) {
	files, err := h.episodes.MediaFiles(episode)
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		if !file.IsValid() {
			continue
		}
		asset, err := db.GetEpisodeAssetByID(file.EpisodeAssetID)
		if err != nil {
			return nil, fmt.Errorf("failed to get episode asset %d: %w", file.EpisodeAssetID, err)
		}
		if asset == nil {
			continue
		}
		url, err := h.episodes.EnclosureURL(episode, asset)
		if err != nil {
			return nil, err
		}
		if url == "" {
			continue
		}
		return &feed.Enclosure{URL: url, Size: file.Size, Extension: asset.FileExtension}, nil
	}
	return nil, nil
}
