package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"podcaster/internal/chapters"
	"podcaster/internal/duration"
	"podcaster/internal/models"
	"podcaster/pkg/tasks"
)

type licenseResponse struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	HTML       string `json:"html"`
	PictureURL string `json:"picture_url"`
}

type chapterResponse struct {
	Start string `json:"start"`
	Title string `json:"title"`
	Href  string `json:"href,omitempty"`
}

type episodeResponse struct {
	ID          int                `json:"id"`
	PostID      int                `json:"post_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Subtitle    string             `json:"subtitle"`
	Summary     string             `json:"summary"`
	Duration    string             `json:"duration"`
	Explicit    string             `json:"explicit"`
	CoverArt    string             `json:"cover_art"`
	Valid       bool               `json:"valid"`
	License     licenseResponse    `json:"license"`
	MediaFiles  []models.MediaFile `json:"media_files"`
	Chapters    []chapterResponse  `json:"chapters"`
}

func (h *Handlers) GetEpisode(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.episodeFromPath(w, r)
	if !ok {
		return
	}

	title, err := h.episodes.FullTitle(episode)
	if err != nil {
		log.Printf("Error building title for episode %d: %v", episode.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	description, err := h.episodes.Description(episode)
	if err != nil {
		log.Printf("Error building description for episode %d: %v", episode.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	valid, err := h.episodes.IsValid(episode)
	if err != nil {
		log.Printf("Error validating episode %d: %v", episode.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	coverArt, err := h.episodes.CoverArtWithFallback(episode)
	if err != nil {
		log.Printf("Error resolving cover art for episode %d: %v", episode.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	files, err := h.episodes.MediaFiles(episode)
	if err != nil {
		log.Printf("Error getting media files for episode %d: %v", episode.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	lic := episode.License()
	resp := episodeResponse{
		ID:          episode.ID,
		PostID:      episode.PostID,
		Title:       title,
		Description: description,
		Subtitle:    episode.Subtitle,
		Summary:     episode.Summary,
		Duration:    episode.FormattedDuration(duration.FormatHMS),
		Explicit:    episode.ExplicitText(),
		CoverArt:    coverArt,
		Valid:       valid,
		License: licenseResponse{
			Name:       lic.Name,
			URL:        lic.URL,
			HTML:       lic.HTML(),
			PictureURL: lic.PictureURL(),
		},
		MediaFiles: files,
		Chapters:   []chapterResponse{},
	}
	for _, c := range h.episodes.Chapters(episode) {
		resp.Chapters = append(resp.Chapters, chapterResponse{
			Start: c.Start.Format(duration.FormatHMSMillis),
			Title: c.Title,
			Href:  c.Href,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

var chapterContentTypes = map[string]string{
	chapters.FormatPSC:      "application/xml",
	chapters.FormatJSON:     "application/json",
	chapters.FormatMP4Chaps: "text/plain; charset=utf-8",
}

func (h *Handlers) GetChapters(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	contentType, known := chapterContentTypes[format]
	if !known {
		http.Error(w, "Unknown chapter format", http.StatusBadRequest)
		return
	}

	episode, ok := h.episodeFromPath(w, r)
	if !ok {
		return
	}

	out, err := h.episodes.ChaptersString(r.Context(), episode, format)
	if err != nil {
		log.Printf("Error rendering chapters for episode %d: %v", episode.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write([]byte(out))
}

func (h *Handlers) PostRefetch(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.episodeFromPath(w, r)
	if !ok {
		return
	}

	task, err := tasks.NewRefetchFilesTask(episode.ID)
	if err != nil {
		log.Printf("Error creating task: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	status := "queued"
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		if !errors.Is(err, asynq.ErrDuplicateTask) {
			log.Printf("Error enqueuing task: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		status = "already_queued"
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"status": status, "episode_id": episode.ID})
}

func (h *Handlers) DeleteCaches(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.episodeFromPath(w, r)
	if !ok {
		return
	}

	if err := h.episodes.DeleteCaches(r.Context(), episode); err != nil {
		log.Printf("Error deleting caches for episode %d: %v", episode.ID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
