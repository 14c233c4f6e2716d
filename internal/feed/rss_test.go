package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podcaster/internal/models"
)

func TestGenerateRSS(t *testing.T) {
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	settings := models.Podcast{
		Title:      "My Show",
		Subtitle:   "Things",
		Summary:    "All about things",
		CoverImage: "https://example.com/cover.jpg",
		Language:   "en-us",
		AuthorName: "Jane",
		OwnerEmail: "jane@example.com",
	}
	entries := []Entry{
		{
			Episode:   models.Episode{ID: 7, PostID: 5, Subtitle: "Part 2", Duration: "1:00:00", Explicit: models.ExplicitClean},
			Post:      &models.Post{ID: 5, Title: "Episode One", Date: date},
			CoverArt:  "https://example.com/ep7.jpg",
			Enclosure: &Enclosure{URL: "https://cdn.example.com/ep7.m4a", Size: 4096, Extension: "m4a"},
		},
		{
			Episode: models.Episode{ID: 8, PostID: 6},
			Post:    &models.Post{ID: 6, Title: "No Media", Date: date},
		},
	}

	out, err := GenerateRSS(settings, entries, "https://podcast.example.com/")
	require.NoError(t, err)

	assert.Contains(t, out, "<title>My Show</title>")
	assert.Contains(t, out, "<title>Episode One - Part 2</title>")
	assert.Contains(t, out, "<link>https://podcast.example.com/episodes/5</link>")
	assert.Contains(t, out, `url="https://cdn.example.com/ep7.m4a"`)
	assert.Contains(t, out, `type="audio/x-m4a"`)
	assert.Contains(t, out, "<itunes:duration>")
	assert.Contains(t, out, "<itunes:explicit>clean</itunes:explicit>")
	assert.Contains(t, out, itemGUID(5))
	assert.Contains(t, out, "<title>No Media</title>")
}

func TestGenerateRSSSkipsUnlinkableEntries(t *testing.T) {
	entries := []Entry{
		{
			Episode: models.Episode{ID: 8, PostID: 6},
			Post:    &models.Post{ID: 6, Title: "No Media"},
		},
		{
			Episode: models.Episode{ID: 9, PostID: 7},
		},
	}

	out, err := GenerateRSS(models.Podcast{Title: "My Show"}, entries, "")
	require.NoError(t, err)
	assert.NotContains(t, out, "No Media")
	assert.NotContains(t, out, "<item>")
}

func TestItemGUIDIsStable(t *testing.T) {
	assert.Equal(t, itemGUID(5), itemGUID(5))
	assert.NotEqual(t, itemGUID(5), itemGUID(6))
}

func TestEnclosureType(t *testing.T) {
	assert.Equal(t, "audio/x-m4a", enclosureType("M4A").String())
	assert.Equal(t, "audio/mpeg", enclosureType("mp3").String())
	assert.Equal(t, "audio/mpeg", enclosureType("ogg").String())
	assert.Equal(t, "application/pdf", enclosureType("pdf").String())
}

func TestGenerateRSSBlankSummaryFallsBackToTitle(t *testing.T) {
	date := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []Entry{
		{
			Episode: models.Episode{ID: 1, PostID: 5, Summary: "Real summary"},
			Post:    &models.Post{ID: 5, Title: "Good", Date: date},
		},
		{
			Episode: models.Episode{ID: 2, PostID: 6, Summary: "   "},
			Post:    &models.Post{ID: 6, Title: "Q&A", Date: date},
		},
		{
			Episode: models.Episode{ID: 3, PostID: 7, Summary: "\n", Subtitle: " "},
			Post:    &models.Post{ID: 7, Title: "Legacy", Date: date},
		},
	}

	out, err := GenerateRSS(models.Podcast{Title: "My Show"}, entries, "https://podcast.example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Real summary")
	assert.Contains(t, out, "<title>Q&amp;A</title>")
	assert.Contains(t, out, "<link>https://podcast.example.com/episodes/7</link>")
}
