package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"podcaster/internal/episodes"
	"podcaster/internal/models"
	"podcaster/pkg/tasks"
)

type Handlers struct {
	asynqClient tasks.TaskEnqueuer
	episodes    *episodes.Manager
	baseURL     string
}

func New(asynqClient tasks.TaskEnqueuer, manager *episodes.Manager, baseURL string) *Handlers {
	return &Handlers{
		asynqClient: asynqClient,
		episodes:    manager,
		baseURL:     baseURL,
	}
}

// NewRouter registers all routes; middlewares wrap every route.
func NewRouter(h *Handlers, middlewares ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/feed", h.GetFeed).Methods(http.MethodGet)
	r.HandleFunc("/episodes/{post_id:[0-9]+}", h.GetEpisode).Methods(http.MethodGet)
	r.HandleFunc("/episodes/{post_id:[0-9]+}/chapters.{format}", h.GetChapters).Methods(http.MethodGet)
	r.HandleFunc("/episodes/{post_id:[0-9]+}/refetch", h.PostRefetch).Methods(http.MethodPost)
	r.HandleFunc("/episodes/{post_id:[0-9]+}/caches", h.DeleteCaches).Methods(http.MethodDelete)
	for _, m := range middlewares {
		r.Use(m)
	}
	return r
}

// episodeFromPath loads the episode named by the {post_id} route variable and
// writes the error response itself when it cannot.
func (h *Handlers) episodeFromPath(w http.ResponseWriter, r *http.Request) (*models.Episode, bool) {
	postID, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return nil, false
	}

	episode, err := h.episodes.Current(postID)
	if err != nil {
		log.Printf("Error getting episode for post %d: %v", postID, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if episode == nil {
		http.Error(w, "Episode not found", http.StatusNotFound)
		return nil, false
	}
	return episode, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
