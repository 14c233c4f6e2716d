package episodes

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcaster/internal/cache"
	"podcaster/internal/chapters"
	"podcaster/internal/models"
	"podcaster/internal/test"
)

var episodeCols = []string{"id", "post_id", "subtitle", "summary", "enable", "slug", "duration",
	"cover_art", "chapters", "recording_date", "explicit", "license_name", "license_url"}

var assetCols = []string{"id", "title", "position", "type", "file_extension", "suffix"}

var mediaFileCols = []string{"id", "episode_id", "episode_asset_id", "size"}

func newTestManager(sizer *test.StubSizer) (*Manager, *cache.MemoryStore, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	store := cache.NewMemoryStore()
	if sizer == nil {
		sizer = &test.StubSizer{}
	}
	return NewManager(store, sizer, logger), store, hook
}

func expectPodcast(mock sqlmock.Sqlmock, baseURI, coverImage string) {
	mock.ExpectQuery(`FROM podcast WHERE id = 1`).
		WillReturnRows(sqlmock.NewRows([]string{"media_file_base_uri", "cover_image"}).AddRow(baseURI, coverImage))
}

func expectAssignment(mock sqlmock.Sqlmock, image interface{}) {
	rows := sqlmock.NewRows([]string{"image"})
	if image != nil {
		rows.AddRow(image)
	}
	mock.ExpectQuery(`SELECT image FROM asset_assignments`).WillReturnRows(rows)
}

func TestCoverArt(t *testing.T) {
	episode := &models.Episode{ID: 7, PostID: 5, Slug: "ep7", CoverArt: "https://example.com/manual.jpg"}

	t.Run("unconfigured", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		expectAssignment(mock, nil)

		art, err := m.CoverArt(episode)
		require.NoError(t, err)
		assert.Equal(t, CoverArtUnconfigured, art.Kind)
	})

	t.Run("manual", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		expectAssignment(mock, "manual")

		art, err := m.CoverArt(episode)
		require.NoError(t, err)
		assert.Equal(t, CoverArt{Kind: CoverArtFound, URL: "https://example.com/manual.jpg"}, art)
	})

	t.Run("manual without stored image", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		expectAssignment(mock, "manual")

		art, err := m.CoverArt(&models.Episode{ID: 8})
		require.NoError(t, err)
		assert.Equal(t, CoverArtUnconfigured, art.Kind)
	})

	t.Run("assigned asset missing", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		expectAssignment(mock, "3")
		mock.ExpectQuery(`FROM episode_assets WHERE id = \$1`).WithArgs(3).WillReturnRows(sqlmock.NewRows(assetCols))

		art, err := m.CoverArt(episode)
		require.NoError(t, err)
		assert.Equal(t, CoverArtInvalid, art.Kind)
	})

	t.Run("assigned file empty", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		expectAssignment(mock, "3")
		mock.ExpectQuery(`FROM episode_assets WHERE id = \$1`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows(assetCols).AddRow(3, "Cover", 5, "image", "jpg", "-cover"))
		mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 3).
			WillReturnRows(sqlmock.NewRows(mediaFileCols).AddRow(30, 7, 3, 0))

		art, err := m.CoverArt(episode)
		require.NoError(t, err)
		assert.Equal(t, CoverArtInvalid, art.Kind)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("assigned file found", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		expectAssignment(mock, "3")
		mock.ExpectQuery(`FROM episode_assets WHERE id = \$1`).WithArgs(3).
			WillReturnRows(sqlmock.NewRows(assetCols).AddRow(3, "Cover", 5, "image", "jpg", "-cover"))
		mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 3).
			WillReturnRows(sqlmock.NewRows(mediaFileCols).AddRow(30, 7, 3, 2048))
		expectPodcast(mock, "https://cdn.example.com/", "")

		art, err := m.CoverArt(episode)
		require.NoError(t, err)
		assert.Equal(t, CoverArt{Kind: CoverArtFound, URL: "https://cdn.example.com/ep7-cover.jpg"}, art)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCoverArtWithFallback(t *testing.T) {
	_, mock := test.NewMockDB(t)
	m, _, _ := newTestManager(nil)

	expectAssignment(mock, "not-an-id")
	expectPodcast(mock, "", "https://example.com/podcast.jpg")

	url, err := m.CoverArtWithFallback(&models.Episode{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/podcast.jpg", url)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectRefetchSetup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`FROM episode_assets ORDER BY position ASC`).
		WillReturnRows(sqlmock.NewRows(assetCols).
			AddRow(1, "MP3", 1, "audio", "mp3", "").
			AddRow(2, "AAC", 2, "audio", "m4a", ""))
	expectPodcast(mock, "https://cdn.example.com", "")
}

func TestRefetchFilesAlertsWhenPublishedEpisodeHasNoValidFiles(t *testing.T) {
	_, mock := test.NewMockDB(t)
	sizer := &test.StubSizer{}
	m, _, hook := newTestManager(sizer)
	episode := &models.Episode{ID: 7, PostID: 5, Slug: "ep7"}

	expectRefetchSetup(mock)
	mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(mediaFileCols).AddRow(10, 7, 1, 999))
	mock.ExpectExec(`UPDATE media_files SET size = \$1 WHERE id = \$2`).WithArgs(int64(0), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows(mediaFileCols))
	mock.ExpectQuery(`SELECT post_status FROM posts WHERE id = \$1`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"post_status"}).AddRow("publish"))

	valid, err := m.RefetchFiles(context.Background(), episode)
	require.NoError(t, err)
	assert.Empty(t, valid)
	assert.Equal(t, []string{"https://cdn.example.com/ep7.mp3"}, sizer.Requested)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "All assets for this episode are invalid!", entry.Message)
	assert.Equal(t, 7, entry.Data["episode_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefetchFilesDraftEpisodeDoesNotAlert(t *testing.T) {
	_, mock := test.NewMockDB(t)
	m, _, hook := newTestManager(nil)
	episode := &models.Episode{ID: 7, PostID: 5, Slug: "ep7"}

	expectRefetchSetup(mock)
	mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(mediaFileCols))
	mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows(mediaFileCols))
	mock.ExpectQuery(`SELECT post_status FROM posts WHERE id = \$1`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"post_status"}).AddRow("draft"))

	valid, err := m.RefetchFiles(context.Background(), episode)
	require.NoError(t, err)
	assert.Empty(t, valid)
	assert.Empty(t, hook.AllEntries())
}

func TestRefetchFilesCollectsValidFiles(t *testing.T) {
	_, mock := test.NewMockDB(t)
	sizer := &test.StubSizer{Sizes: map[string]int64{"https://cdn.example.com/ep7.m4a": 4096}}
	m, _, hook := newTestManager(sizer)
	episode := &models.Episode{ID: 7, PostID: 5, Slug: "ep7"}

	expectRefetchSetup(mock)
	mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows(mediaFileCols).AddRow(10, 7, 1, 0))
	mock.ExpectExec(`UPDATE media_files SET size = \$1 WHERE id = \$2`).WithArgs(int64(0), 10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`FROM media_files WHERE episode_id = \$1 AND episode_asset_id = \$2`).WithArgs(7, 2).
		WillReturnRows(sqlmock.NewRows(mediaFileCols).AddRow(11, 7, 2, 0))
	mock.ExpectExec(`UPDATE media_files SET size = \$1 WHERE id = \$2`).WithArgs(int64(4096), 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	valid, err := m.RefetchFiles(context.Background(), episode)
	require.NoError(t, err)
	assert.Equal(t, []int{11}, valid)
	assert.Empty(t, hook.AllEntries())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChaptersStringIsCached(t *testing.T) {
	m, store, _ := newTestManager(nil)
	ctx := context.Background()
	episode := &models.Episode{ID: 7, Chapters: "00:00:00 Intro\n00:05:00 Main"}

	out, err := m.ChaptersString(ctx, episode, chapters.FormatMP4Chaps)
	require.NoError(t, err)
	assert.Equal(t, "00:00:00.000 Intro\n00:05:00.000 Main", out)

	cached, ok, _ := store.Get(ctx, "podlove_chapters_string_7")
	assert.True(t, ok)
	assert.Equal(t, out, cached)

	episode.Chapters = "00:00:00 Changed"
	again, err := m.ChaptersString(ctx, episode, chapters.FormatMP4Chaps)
	require.NoError(t, err)
	assert.Equal(t, out, again)

	_, err = m.ChaptersString(ctx, episode, chapters.FormatObject)
	assert.Error(t, err)
}

func TestChaptersCacheKey(t *testing.T) {
	assert.Equal(t, "podlove_chapters_string_7", ChaptersCacheKey(7, chapters.FormatMP4Chaps))
	assert.Equal(t, "podlove_chapters_string_7_psc", ChaptersCacheKey(7, chapters.FormatPSC))
	assert.Equal(t, "podlove_chapters_string_7_json", ChaptersCacheKey(7, chapters.FormatJSON))
}

func TestDeleteCachesCoversRevisions(t *testing.T) {
	_, mock := test.NewMockDB(t)
	m, store, _ := newTestManager(nil)
	ctx := context.Background()

	for _, key := range []string{
		"podlove_chapters_string_7",
		"podlove_chapters_string_7_psc",
		"podlove_chapters_string_8",
		"podlove_chapters_string_9",
	} {
		require.NoError(t, store.Set(ctx, key, "x", 0))
	}

	mock.ExpectQuery(`FROM posts WHERE post_parent = \$1 AND post_type = \$2`).WithArgs(5, models.PostTypeRevision).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_title", "post_type", "post_parent"}).
			AddRow(6, "rev", "revision", 5).
			AddRow(16, "rev without episode", "revision", 5))
	mock.ExpectQuery(`FROM episodes WHERE post_id = \$1`).WithArgs(6).
		WillReturnRows(sqlmock.NewRows(episodeCols).AddRow(8, 6, "", "", 1, "", "", "", "", nil, 0, "", ""))
	mock.ExpectQuery(`FROM episodes WHERE post_id = \$1`).WithArgs(16).
		WillReturnRows(sqlmock.NewRows(episodeCols))

	require.NoError(t, m.DeleteCaches(ctx, &models.Episode{ID: 7, PostID: 5}))

	for _, key := range []string{"podlove_chapters_string_7", "podlove_chapters_string_7_psc", "podlove_chapters_string_8"} {
		_, ok, _ := store.Get(ctx, key)
		assert.False(t, ok, key)
	}
	_, ok, _ := store.Get(ctx, "podlove_chapters_string_9")
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOrCreateByPostID(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		mock.ExpectQuery(`FROM episodes WHERE post_id = \$1`).WithArgs(5).
			WillReturnRows(sqlmock.NewRows(episodeCols).AddRow(7, 5, "", "", 1, "", "", "", "", nil, 0, "", ""))

		episode, err := m.FindOrCreateByPostID(5)
		require.NoError(t, err)
		assert.Equal(t, 7, episode.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("created", func(t *testing.T) {
		_, mock := test.NewMockDB(t)
		m, _, _ := newTestManager(nil)
		mock.ExpectQuery(`FROM episodes WHERE post_id = \$1`).WithArgs(5).WillReturnRows(sqlmock.NewRows(episodeCols))
		mock.ExpectQuery(`INSERT INTO episodes \(post_id\) VALUES \(\$1\) RETURNING`).WithArgs(5).
			WillReturnRows(sqlmock.NewRows(episodeCols).AddRow(9, 5, "", "", 1, "", "", "", "", nil, 0, "", ""))

		episode, err := m.FindOrCreateByPostID(5)
		require.NoError(t, err)
		assert.Equal(t, 9, episode.ID)
		assert.Equal(t, 5, episode.PostID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCurrentWithoutPost(t *testing.T) {
	m, _, _ := newTestManager(nil)
	episode, err := m.Current(0)
	require.NoError(t, err)
	assert.Nil(t, episode)
}

func TestFullTitleAndValidity(t *testing.T) {
	_, mock := test.NewMockDB(t)
	m, _, _ := newTestManager(nil)
	episode := &models.Episode{ID: 7, PostID: 5, Subtitle: "Part 2"}

	postRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "post_title", "post_status", "post_type"}).AddRow(5, "Show", "publish", "podcast")
	}
	mock.ExpectQuery(`FROM posts WHERE id = \$1`).WithArgs(5).WillReturnRows(postRows())
	mock.ExpectQuery(`FROM posts WHERE id = \$1`).WithArgs(5).WillReturnRows(postRows())

	title, err := m.FullTitle(episode)
	require.NoError(t, err)
	assert.Equal(t, "Show - Part 2", title)

	valid, err := m.IsValid(episode)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestIsValidMissingPost(t *testing.T) {
	_, mock := test.NewMockDB(t)
	m, _, _ := newTestManager(nil)
	mock.ExpectQuery(`FROM posts WHERE id = \$1`).WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_title", "post_status", "post_type"}))

	valid, err := m.IsValid(&models.Episode{ID: 7, PostID: 5})
	require.NoError(t, err)
	assert.False(t, valid)
}
