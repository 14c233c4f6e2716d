package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullTitle(t *testing.T) {
	post := &Post{Title: "Show"}

	e := Episode{Subtitle: "Part 2"}
	assert.Equal(t, "Show - Part 2", e.FullTitle(post))

	e = Episode{}
	assert.Equal(t, "Show", e.FullTitle(post))
}

func TestDescription(t *testing.T) {
	post := &Post{Title: "  Post <Title>  "}

	t.Run("summary wins and is escaped", func(t *testing.T) {
		e := Episode{Summary: "A&B", Subtitle: "sub"}
		assert.Equal(t, "A&amp;B", e.Description(post))
	})

	t.Run("subtitle when no summary", func(t *testing.T) {
		e := Episode{Subtitle: " \"quoted\" 'single' "}
		assert.Equal(t, "&quot;quoted&quot; &#039;single&#039;", e.Description(post))
	})

	t.Run("post title as last resort", func(t *testing.T) {
		e := Episode{}
		assert.Equal(t, "Post &lt;Title&gt;", e.Description(post))
	})

	t.Run("no post", func(t *testing.T) {
		e := Episode{}
		assert.Equal(t, "", e.Description(nil))
	})
}

func TestExplicitText(t *testing.T) {
	cases := map[int]string{
		ExplicitNo:    "no",
		ExplicitYes:   "yes",
		ExplicitClean: "clean",
	}
	for value, want := range cases {
		e := Episode{Explicit: value}
		assert.Equal(t, want, e.ExplicitText(), "explicit=%d", value)
	}
}

func TestIsValid(t *testing.T) {
	e := Episode{PostID: 1}

	assert.False(t, e.IsValid(nil))
	assert.False(t, e.IsValid(&Post{Status: "publish", Type: "post"}))
	assert.False(t, e.IsValid(&Post{Status: "trash", Type: PostTypePodcast}))
	assert.False(t, e.IsValid(&Post{Status: "inherit", Type: PostTypeRevision}))
	assert.True(t, e.IsValid(&Post{Status: "publish", Type: PostTypePodcast}))

	for _, status := range []string{"private", "draft", "pending", "future"} {
		assert.True(t, e.IsValid(&Post{Status: status, Type: PostTypePodcast}), status)
	}
}

func TestLicense(t *testing.T) {
	e := Episode{LicenseName: "CC BY 4.0", LicenseURL: "https://creativecommons.org/licenses/by/4.0/"}
	lic := e.License()

	assert.Equal(t, "CC BY 4.0", lic.Name)
	assert.Equal(t, "https://i.creativecommons.org/l/by/4.0/88x31.png", lic.PictureURL())
}

func TestFormattedDuration(t *testing.T) {
	e := Episode{Duration: "1:02:03.5"}
	assert.Equal(t, "01:02:03", e.FormattedDuration("HH:MM:SS"))
	assert.Equal(t, "01:02:03.500", e.FormattedDuration("HH:MM:SS.mmm"))

	e = Episode{}
	assert.Equal(t, "", e.FormattedDuration("HH:MM:SS"))
}

func TestMediaFileIsValid(t *testing.T) {
	assert.False(t, (&MediaFile{Size: 0}).IsValid())
	assert.False(t, (&MediaFile{Size: -1}).IsValid())
	assert.True(t, (&MediaFile{Size: 1}).IsValid())
}

func TestEscapeHTML(t *testing.T) {
	assert.Equal(t, "Q&amp;A &lt;live&gt; &quot;it&#039;s&quot;", EscapeHTML(`Q&A <live> "it's"`))
}
