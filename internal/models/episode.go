package models

import (
	"strings"
	"time"

	"podcaster/internal/duration"
	"podcaster/internal/license"
)

// Explicit flag values as stored in episodes.explicit.
const (
	ExplicitNo    = 0
	ExplicitYes   = 1
	ExplicitClean = 2
)

// Episode is one podcast installment, paired 1:1 with a post.
type Episode struct {
	ID            int        `db:"id" json:"id"`
	PostID        int        `db:"post_id" json:"post_id"`
	Subtitle      string     `db:"subtitle" json:"subtitle"`
	Summary       string     `db:"summary" json:"summary"`
	Enable        int        `db:"enable" json:"enable"`
	Slug          string     `db:"slug" json:"slug"`
	Duration      string     `db:"duration" json:"duration"`
	CoverArt      string     `db:"cover_art" json:"cover_art"`
	Chapters      string     `db:"chapters" json:"chapters"`
	RecordingDate *time.Time `db:"recording_date" json:"recording_date,omitempty"`
	Explicit      int        `db:"explicit" json:"explicit"`
	LicenseName   string     `db:"license_name" json:"license_name"`
	LicenseURL    string     `db:"license_url" json:"license_url"`
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes text the way stored descriptions are escaped.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// FullTitle returns the post title and, if available, the subtitle,
// separated by a dash.
func (e *Episode) FullTitle(post *Post) string {
	title := ""
	if post != nil {
		title = post.Title
	}
	if e.Subtitle != "" {
		title = title + " - " + e.Subtitle
	}
	return title
}

// Description picks summary, then subtitle, then the post title. The result
// is trimmed and HTML-escaped.
func (e *Episode) Description(post *Post) string {
	var description string
	switch {
	case e.Summary != "":
		description = e.Summary
	case e.Subtitle != "":
		description = e.Subtitle
	case post != nil:
		description = post.Title
	}
	return EscapeHTML(strings.TrimSpace(description))
}

func (e *Episode) ExplicitText() string {
	if e.Explicit == ExplicitClean {
		return "clean"
	}
	if e.Explicit != ExplicitNo {
		return "yes"
	}
	return "no"
}

// IsValid reports whether the episode belongs to an existing, non-trashed
// post of type "podcast".
func (e *Episode) IsValid(post *Post) bool {
	if post == nil {
		return false
	}
	// skip deleted podcasts
	if !post.HasLiveStatus() {
		return false
	}
	// skip versions
	return post.Type == PostTypePodcast
}

func (e *Episode) License() license.License {
	return license.New(license.ScopeEpisode, e.LicenseName, e.LicenseURL)
}

// FormattedDuration renders the stored duration in the given format, see
// duration.Format* constants.
func (e *Episode) FormattedDuration(format string) string {
	return duration.Parse(e.Duration).Format(format)
}
