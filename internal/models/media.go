package models

// AssetAssignmentManual means the episode carries its own cover art URL.
const AssetAssignmentManual = "manual"

// EpisodeAsset is a configured file-format slot (e.g. MP3, video).
type EpisodeAsset struct {
	ID            int    `db:"id"`
	Title         string `db:"title"`
	Position      int    `db:"position"`
	Type          string `db:"type"`
	FileExtension string `db:"file_extension"`
	Suffix        string `db:"suffix"`
}

// MediaFile is the concrete file satisfying one asset for one episode.
type MediaFile struct {
	ID             int   `db:"id" json:"id"`
	EpisodeID      int   `db:"episode_id" json:"episode_id"`
	EpisodeAssetID int   `db:"episode_asset_id" json:"episode_asset_id"`
	Size           int64 `db:"size" json:"size"`
}

func (m *MediaFile) IsValid() bool {
	return m.Size > 0
}

// Podcast holds podcast-wide settings.
type Podcast struct {
	Title            string `db:"title"`
	Subtitle         string `db:"subtitle"`
	Summary          string `db:"summary"`
	CoverImage       string `db:"cover_image"`
	MediaFileBaseURI string `db:"media_file_base_uri"`
	Language         string `db:"language"`
	AuthorName       string `db:"author_name"`
	OwnerName        string `db:"owner_name"`
	OwnerEmail       string `db:"owner_email"`
	Explicit         int    `db:"explicit"`
	LicenseName      string `db:"license_name"`
	LicenseURL       string `db:"license_url"`
}

// AssetAssignment says which asset provides cover art. Image is nil when
// unconfigured, "manual", or an episode asset ID.
type AssetAssignment struct {
	Image *string `db:"image"`
}
