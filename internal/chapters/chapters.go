// Package chapters parses stored episode chapters and renders them as
// Podlove Simple Chapters, mp4chaps or JSON.
package chapters

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"

	"podcaster/internal/duration"
)

const (
	FormatObject   = "object"
	FormatPSC      = "psc"
	FormatMP4Chaps = "mp4chaps"
	FormatJSON     = "json"
)

// "00:01:02.500 Title <http://example.com>"
var linePattern = regexp.MustCompile(`^(\d+(?::\d+){0,2}(?:\.\d+)?)\s+(.*?)(?:\s*<([^>]*)>)?\s*$`)

type Chapter struct {
	Start duration.Duration
	Title string
	Href  string
}

// Parse reads mp4chaps-style lines. Blank and malformed lines are skipped.
func Parse(text string) []Chapter {
	var chapters []Chapter
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		start := duration.Parse(m[1])
		if !start.Valid() {
			continue
		}
		chapters = append(chapters, Chapter{
			Start: start,
			Title: strings.TrimSpace(m[2]),
			Href:  strings.TrimSpace(m[3]),
		})
	}
	return chapters
}

func IsStringFormat(format string) bool {
	switch format {
	case FormatPSC, FormatMP4Chaps, FormatJSON:
		return true
	}
	return false
}

// Render serializes chapters into one of the string formats.
func Render(chapters []Chapter, format string) (string, error) {
	switch format {
	case FormatMP4Chaps:
		return renderMP4Chaps(chapters), nil
	case FormatPSC:
		return renderPSC(chapters)
	case FormatJSON:
		return renderJSON(chapters)
	default:
		return "", fmt.Errorf("unknown chapter format %q", format)
	}
}

func renderMP4Chaps(chapters []Chapter) string {
	lines := make([]string, 0, len(chapters))
	for _, c := range chapters {
		line := c.Start.Format(duration.FormatHMSMillis) + " " + c.Title
		if c.Href != "" {
			line += " <" + c.Href + ">"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

type pscChapters struct {
	XMLName  xml.Name     `xml:"psc:chapters"`
	Xmlns    string       `xml:"xmlns:psc,attr"`
	Version  string       `xml:"version,attr"`
	Chapters []pscChapter `xml:"psc:chapter"`
}

type pscChapter struct {
	Start string `xml:"start,attr"`
	Title string `xml:"title,attr"`
	Href  string `xml:"href,attr,omitempty"`
}

func renderPSC(chapters []Chapter) (string, error) {
	doc := pscChapters{
		Xmlns:   "http://podlove.org/simple-chapters",
		Version: "1.2",
	}
	for _, c := range chapters {
		doc.Chapters = append(doc.Chapters, pscChapter{
			Start: c.Start.Format(duration.FormatHMSMillis),
			Title: c.Title,
			Href:  c.Href,
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal psc chapters: %w", err)
	}
	return string(out), nil
}

type jsonChapter struct {
	Start string `json:"start"`
	Title string `json:"title"`
	Href  string `json:"href,omitempty"`
}

func renderJSON(chapters []Chapter) (string, error) {
	out := make([]jsonChapter, 0, len(chapters))
	for _, c := range chapters {
		out = append(out, jsonChapter{
			Start: c.Start.Format(duration.FormatHMSMillis),
			Title: c.Title,
			Href:  c.Href,
		})
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json chapters: %w", err)
	}
	return string(b), nil
}
