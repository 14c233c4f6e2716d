// Package license renders license metadata for episodes and podcasts.
package license

import (
	"fmt"
	"html"
	"regexp"
)

const (
	ScopeEpisode = "episode"
	ScopePodcast = "podcast"
)

const cc0PictureURL = "https://licensebuttons.net/p/zero/1.0/88x31.png"

var ccLicensePattern = regexp.MustCompile(`creativecommons\.org/licenses/([a-z-]+)/(\d+\.\d+)`)
var ccZeroPattern = regexp.MustCompile(`creativecommons\.org/publicdomain/zero/`)

type License struct {
	Scope string
	Name  string
	URL   string
}

func New(scope, name, url string) License {
	return License{Scope: scope, Name: name, URL: url}
}

func (l License) IsComplete() bool {
	return l.Name != "" && l.URL != ""
}

// PictureURL returns the badge image for Creative Commons licenses and ""
// for everything else.
func (l License) PictureURL() string {
	if m := ccLicensePattern.FindStringSubmatch(l.URL); m != nil {
		return fmt.Sprintf("https://i.creativecommons.org/l/%s/%s/88x31.png", m[1], m[2])
	}
	if ccZeroPattern.MatchString(l.URL) {
		return cc0PictureURL
	}
	return ""
}

func (l License) HTML() string {
	if !l.IsComplete() {
		return ""
	}

	name := html.EscapeString(l.Name)
	url := html.EscapeString(l.URL)

	out := ""
	if picture := l.PictureURL(); picture != "" {
		out += fmt.Sprintf(`<a rel="license" href="%s"><img alt="%s" style="border-width:0" src="%s" /></a><br />`, url, name, html.EscapeString(picture))
	}
	out += fmt.Sprintf(`This work is licensed under the <a rel="license" href="%s">%s</a>.`, url, name)
	return out
}
