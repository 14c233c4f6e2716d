package episodes

import (
	"fmt"
	"strconv"

	"podcaster/internal/db"
	"podcaster/internal/media"
	"podcaster/internal/models"
)

type CoverArtKind int

const (
	// CoverArtUnconfigured: no image asset assignment (or an empty manual one).
	CoverArtUnconfigured CoverArtKind = iota
	// CoverArtInvalid: the assigned asset or its file is missing or empty.
	CoverArtInvalid
	CoverArtFound
)

type CoverArt struct {
	Kind CoverArtKind
	URL  string
}

func (c CoverArt) Found() bool {
	return c.Kind == CoverArtFound
}

// CoverArt resolves the episode image according to the asset assignment.
func (m *Manager) CoverArt(episode *models.Episode) (CoverArt, error) {
	assignment, err := db.GetAssetAssignment()
	if err != nil {
		return CoverArt{}, fmt.Errorf("failed to get asset assignment: %w", err)
	}

	if assignment.Image == nil || *assignment.Image == "" {
		return CoverArt{Kind: CoverArtUnconfigured}, nil
	}

	if *assignment.Image == models.AssetAssignmentManual {
		if episode.CoverArt == "" {
			return CoverArt{Kind: CoverArtUnconfigured}, nil
		}
		return CoverArt{Kind: CoverArtFound, URL: episode.CoverArt}, nil
	}

	assetID, err := strconv.Atoi(*assignment.Image)
	if err != nil {
		return CoverArt{Kind: CoverArtInvalid}, nil
	}

	asset, err := db.GetEpisodeAssetByID(assetID)
	if err != nil {
		return CoverArt{}, fmt.Errorf("failed to get episode asset %d: %w", assetID, err)
	}
	if asset == nil {
		return CoverArt{Kind: CoverArtInvalid}, nil
	}

	file, err := db.GetMediaFile(episode.ID, asset.ID)
	if err != nil {
		return CoverArt{}, fmt.Errorf("failed to get media file: %w", err)
	}
	if file == nil || !file.IsValid() {
		return CoverArt{Kind: CoverArtInvalid}, nil
	}

	podcast, err := db.GetPodcast()
	if err != nil {
		return CoverArt{}, fmt.Errorf("failed to get podcast settings: %w", err)
	}
	return CoverArt{Kind: CoverArtFound, URL: media.FileURL(podcast.MediaFileBaseURI, episode.Slug, asset)}, nil
}

// CoverArtWithFallback returns the episode image or the podcast cover image.
func (m *Manager) CoverArtWithFallback(episode *models.Episode) (string, error) {
	art, err := m.CoverArt(episode)
	if err != nil {
		return "", err
	}
	if art.Found() {
		return art.URL, nil
	}

	podcast, err := db.GetPodcast()
	if err != nil {
		return "", fmt.Errorf("failed to get podcast settings: %w", err)
	}
	return podcast.CoverImage, nil
}
