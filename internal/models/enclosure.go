package models

import (
	"regexp"
	"strconv"
	"strings"
)

// MetaKeyEnclosure is the post meta key legacy podcasting plugins store
// enclosures under.
const MetaKeyEnclosure = "enclosure"

// Enclosure is legacy attachment metadata carried by a post before migration.
type Enclosure struct {
	PostID   int
	URL      string
	Size     int64
	MimeType string
	Duration string
}

// serialized PHP array entry ("s:8:"duration";s:5:"10:00";") or JSON pair
var durationPattern = regexp.MustCompile(`(?:s:\d+:"duration";s:\d+:"([^"]*)")|(?:"duration"\s*:\s*"([^"]*)")`)

// ParseEnclosure decodes an enclosure meta value: url, size and mime type on
// their own lines, optionally followed by a serialized blob of extra fields.
func ParseEnclosure(postID int, value string) Enclosure {
	enclosure := Enclosure{PostID: postID}

	lines := strings.SplitN(strings.ReplaceAll(value, "\r\n", "\n"), "\n", 4)
	if len(lines) > 0 {
		enclosure.URL = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		enclosure.Size, _ = strconv.ParseInt(strings.TrimSpace(lines[1]), 10, 64)
	}
	if len(lines) > 2 {
		enclosure.MimeType = strings.TrimSpace(lines[2])
	}
	if len(lines) > 3 {
		if m := durationPattern.FindStringSubmatch(lines[3]); m != nil {
			enclosure.Duration = strings.TrimSpace(m[1] + m[2])
		}
	}

	return enclosure
}
