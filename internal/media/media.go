package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"podcaster/internal/models"
)

// FileURL builds the public URL of an episode's file for the given asset.
func FileURL(baseURI, slug string, asset *models.EpisodeAsset) string {
	if baseURI == "" || slug == "" || asset == nil {
		return ""
	}
	url := strings.TrimRight(baseURI, "/") + "/" + slug + asset.Suffix
	if asset.FileExtension != "" {
		url += "." + asset.FileExtension
	}
	return url
}

// FileSizer determines the size of a remote file. Unreachable files have
// size 0.
type FileSizer interface {
	FileSize(ctx context.Context, url string) (int64, error)
}

// HTTPSizer asks the media host for the file's Content-Length.
type HTTPSizer struct {
	client    *http.Client
	userAgent string
}

func NewHTTPSizer(timeout time.Duration, userAgent string) *HTTPSizer {
	return &HTTPSizer{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (s *HTTPSizer) FileSize(ctx context.Context, url string) (int64, error) {
	if url == "" {
		return 0, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch headers for %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, nil
	}
	if resp.ContentLength < 0 {
		return 0, nil
	}
	return resp.ContentLength, nil
}
