package db

import (
	"database/sql"
	"errors"

	"podcaster/internal/models"
)

// GetMediaFilesByEpisodeID returns the episode's media files ordered by the
// position of their asset.
func GetMediaFilesByEpisodeID(episodeID int) ([]models.MediaFile, error) {
	query := `
		SELECT M.id, M.episode_id, M.episode_asset_id, M.size
		FROM media_files M
		JOIN episode_assets A ON A.id = M.episode_asset_id
		WHERE M.episode_id = $1
		ORDER BY A.position ASC
	`
	mediaFiles := []models.MediaFile{}
	if err := DB.Select(&mediaFiles, query, episodeID); err != nil {
		return nil, err
	}
	return mediaFiles, nil
}

// GetMediaFile returns nil when the episode has no file for the asset.
func GetMediaFile(episodeID, assetID int) (*models.MediaFile, error) {
	file := &models.MediaFile{}
	err := DB.Get(file, "SELECT id, episode_id, episode_asset_id, size FROM media_files WHERE episode_id = $1 AND episode_asset_id = $2", episodeID, assetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return file, nil
}

func UpdateMediaFileSize(id int, size int64) error {
	_, err := DB.Exec("UPDATE media_files SET size = $1 WHERE id = $2", size, id)
	return err
}

func GetAllEpisodeAssets() ([]models.EpisodeAsset, error) {
	assets := []models.EpisodeAsset{}
	err := DB.Select(&assets, "SELECT id, title, position, type, file_extension, suffix FROM episode_assets ORDER BY position ASC")
	return assets, err
}

// GetEpisodeAssetByID returns nil when the asset does not exist.
func GetEpisodeAssetByID(id int) (*models.EpisodeAsset, error) {
	asset := &models.EpisodeAsset{}
	err := DB.Get(asset, "SELECT id, title, position, type, file_extension, suffix FROM episode_assets WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return asset, nil
}
