// Package migration moves episode data written by legacy podcasting plugins
// (PodPress, PowerPress) into the episode schema.
package migration

import (
	"fmt"

	"podcaster/internal/db"
)

const (
	MetaKeySubtitle = "subtitle"
	MetaKeySummary  = "summary"
)

// LegacyPostParser reads episode fields from a legacy post. Enclosures are
// parsed once, on construction.
type LegacyPostParser struct {
	PostID   int
	duration string
}

func NewLegacyPostParser(postID int) (*LegacyPostParser, error) {
	p := &LegacyPostParser{PostID: postID}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p, nil
}

// parse keeps the duration of the last enclosure carrying one.
func (p *LegacyPostParser) parse() error {
	enclosures, err := db.GetEnclosuresByPostID(p.PostID)
	if err != nil {
		return fmt.Errorf("failed to get enclosures for post %d: %w", p.PostID, err)
	}
	for _, enclosure := range enclosures {
		if enclosure.Duration != "" {
			p.duration = enclosure.Duration
		}
	}
	return nil
}

// Duration reports false when no enclosure carried a duration.
func (p *LegacyPostParser) Duration() (string, bool) {
	return p.duration, p.duration != ""
}

func (p *LegacyPostParser) Subtitle() (string, error) {
	return db.GetPostMeta(p.PostID, MetaKeySubtitle)
}

func (p *LegacyPostParser) Summary() (string, error) {
	return db.GetPostMeta(p.PostID, MetaKeySummary)
}
