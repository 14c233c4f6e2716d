package db

import (
	"database/sql"
	"errors"

	"podcaster/internal/models"
)

const postColumns = "id, post_title, post_name, post_status, post_type, post_date, post_parent"

// GetPost returns nil when the post does not exist.
func GetPost(id int) (*models.Post, error) {
	post := &models.Post{}
	err := DB.Get(post, "SELECT "+postColumns+" FROM posts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetPostStatus returns "" for missing posts.
func GetPostStatus(id int) (string, error) {
	var status string
	err := DB.Get(&status, "SELECT post_status FROM posts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return status, err
}

func GetPostRevisions(postID int) ([]models.Post, error) {
	query := "SELECT " + postColumns + " FROM posts WHERE post_parent = $1 AND post_type = $2 ORDER BY post_date DESC, id DESC"
	var revisions []models.Post
	if err := DB.Select(&revisions, query, postID, models.PostTypeRevision); err != nil {
		return nil, err
	}
	return revisions, nil
}

// GetPostMeta returns the first value stored under key, or "" when there is none.
func GetPostMeta(postID int, key string) (string, error) {
	var value string
	err := DB.Get(&value, "SELECT meta_value FROM postmeta WHERE post_id = $1 AND meta_key = $2 ORDER BY meta_id LIMIT 1", postID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

func GetPostMetaValues(postID int, key string) ([]string, error) {
	var values []string
	err := DB.Select(&values, "SELECT meta_value FROM postmeta WHERE post_id = $1 AND meta_key = $2 ORDER BY meta_id", postID, key)
	return values, err
}

func GetPostIDsWithMeta(key string) ([]int, error) {
	var ids []int
	err := DB.Select(&ids, "SELECT DISTINCT post_id FROM postmeta WHERE meta_key = $1 ORDER BY post_id", key)
	return ids, err
}

// GetEnclosuresByPostID decodes every legacy enclosure stored for the post,
// in insertion order.
func GetEnclosuresByPostID(postID int) ([]models.Enclosure, error) {
	values, err := GetPostMetaValues(postID, models.MetaKeyEnclosure)
	if err != nil {
		return nil, err
	}
	enclosures := make([]models.Enclosure, 0, len(values))
	for _, v := range values {
		enclosures = append(enclosures, models.ParseEnclosure(postID, v))
	}
	return enclosures, nil
}
