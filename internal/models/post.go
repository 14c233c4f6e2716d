package models

import "time"

const (
	PostTypePodcast  = "podcast"
	PostTypeRevision = "revision"

	PostStatusPublish = "publish"
)

// liveStatuses are the post statuses of posts that have not been trashed.
var liveStatuses = map[string]bool{
	"private": true,
	"draft":   true,
	"publish": true,
	"pending": true,
	"future":  true,
}

// Post is the content record an episode is attached to.
type Post struct {
	ID     int       `db:"id"`
	Title  string    `db:"post_title"`
	Name   string    `db:"post_name"`
	Status string    `db:"post_status"`
	Type   string    `db:"post_type"`
	Date   time.Time `db:"post_date"`
	Parent int       `db:"post_parent"`
}

func (p *Post) HasLiveStatus() bool {
	return liveStatuses[p.Status]
}

// EpisodeWithPost is a row of the episodes/posts join.
type EpisodeWithPost struct {
	Episode
	PostTitle  string    `db:"post_title"`
	PostStatus string    `db:"post_status"`
	PostType   string    `db:"post_type"`
	PostDate   time.Time `db:"post_date"`
}

// Post rebuilds the joined post columns.
func (e *EpisodeWithPost) Post() *Post {
	return &Post{
		ID:     e.PostID,
		Title:  e.PostTitle,
		Status: e.PostStatus,
		Type:   e.PostType,
		Date:   e.PostDate,
	}
}
