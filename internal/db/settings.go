package db

import (
	"database/sql"
	"errors"

	"podcaster/internal/models"
)

// GetPodcast returns the podcast settings; an unconfigured podcast yields
// zero-valued settings.
func GetPodcast() (models.Podcast, error) {
	podcast := models.Podcast{}
	err := DB.Get(&podcast, `
		SELECT title, subtitle, summary, cover_image, media_file_base_uri, language,
		       author_name, owner_name, owner_email, explicit, license_name, license_url
		FROM podcast WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Podcast{}, nil
	}
	return podcast, err
}

func GetAssetAssignment() (models.AssetAssignment, error) {
	assignment := models.AssetAssignment{}
	err := DB.Get(&assignment, "SELECT image FROM asset_assignments WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return models.AssetAssignment{}, nil
	}
	return assignment, err
}
