package feed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eduncan911/podcast"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"podcaster/internal/duration"
	"podcaster/internal/models"
)

// guidNamespace keeps item GUIDs stable across feed rebuilds.
var guidNamespace = uuid.MustParse("6f1c3b0e-3f55-4b8e-9c1f-2b0d7d6a8e41")

// Entry is one episode ready for the feed.
type Entry struct {
	Episode   models.Episode
	Post      *models.Post
	CoverArt  string
	Enclosure *Enclosure
}

type Enclosure struct {
	URL       string
	Size      int64
	Extension string
}

func enclosureType(ext string) podcast.EnclosureType {
	switch strings.ToLower(ext) {
	case "m4a":
		return podcast.M4A
	case "m4v":
		return podcast.M4V
	case "mp4":
		return podcast.MP4
	case "mov":
		return podcast.MOV
	case "pdf":
		return podcast.PDF
	case "epub":
		return podcast.EPUB
	default:
		return podcast.MP3
	}
}

func itemGUID(postID int) string {
	return uuid.NewSHA1(guidNamespace, []byte(strconv.Itoa(postID))).String()
}

// GenerateRSS renders the podcast feed. Entries without a title are skipped.
func GenerateRSS(settings models.Podcast, entries []Entry, baseURL string) (string, error) {
	var lastBuild *time.Time
	for _, e := range entries {
		if e.Post != nil && (lastBuild == nil || e.Post.Date.After(*lastBuild)) {
			d := e.Post.Date
			lastBuild = &d
		}
	}
	if lastBuild == nil {
		lastBuild = &time.Time{}
	}

	p := podcast.New(settings.Title, baseURL, settings.Summary, lastBuild, lastBuild)
	p.Language = settings.Language
	if settings.Subtitle != "" {
		p.AddSubTitle(settings.Subtitle)
	}
	if settings.Summary != "" {
		p.AddSummary(settings.Summary)
	}
	if settings.CoverImage != "" {
		p.AddImage(settings.CoverImage)
	}
	if settings.AuthorName != "" || settings.OwnerEmail != "" {
		p.AddAuthor(settings.AuthorName, settings.OwnerEmail)
	}
	p.IExplicit = (&models.Episode{Explicit: settings.Explicit}).ExplicitText()
	if settings.LicenseName != "" {
		p.Copyright = settings.LicenseName
	}

	for i := range entries {
		e := &entries[i]
		title := e.Episode.FullTitle(e.Post)
		if strings.TrimSpace(title) == "" {
			log.WithField("episode_id", e.Episode.ID).Warn("Skipping untitled episode in feed")
			continue
		}

		// blank summaries trim to nothing and items require a description
		description := e.Episode.Description(e.Post)
		if description == "" {
			description = models.EscapeHTML(strings.TrimSpace(title))
		}

		item := podcast.Item{
			Title:       title,
			Description: description,
			GUID:        itemGUID(e.Episode.PostID),
		}
		if e.Post != nil {
			item.AddPubDate(&e.Post.Date)
		}
		if baseURL != "" {
			item.Link = fmt.Sprintf("%s/episodes/%d", strings.TrimRight(baseURL, "/"), e.Episode.PostID)
		}
		// items need either a link or an enclosure
		if item.Link == "" && e.Enclosure == nil {
			log.WithField("episode_id", e.Episode.ID).Warn("Skipping episode without media in feed")
			continue
		}
		if strings.TrimSpace(e.Episode.Subtitle) != "" {
			item.ISubtitle = e.Episode.Subtitle
		}
		if strings.TrimSpace(e.Episode.Summary) != "" {
			item.AddSummary(e.Episode.Summary)
		}
		if d := duration.Parse(e.Episode.Duration); d.Valid() {
			item.AddDuration(d.Seconds())
		}
		item.IExplicit = e.Episode.ExplicitText()
		if e.CoverArt != "" {
			item.AddImage(e.CoverArt)
		}
		if e.Enclosure != nil {
			item.AddEnclosure(e.Enclosure.URL, enclosureType(e.Enclosure.Extension), e.Enclosure.Size)
		}

		if _, err := p.AddItem(item); err != nil {
			return "", fmt.Errorf("failed to add episode %d to feed: %w", e.Episode.ID, err)
		}
	}

	return p.String(), nil
}
