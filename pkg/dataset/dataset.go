// Package dataset loads the engagement CSV and prepares rows for seeding
// and analysis.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/lumoshq/lumos/internal/models"
)

// ErrPostNotFound is returned when no row matches the requested post id.
var ErrPostNotFound = errors.New("post not found")

var requiredColumns = []string{
	"post_id", "post_type", "topic", "hashtags_used",
	"likes", "comments", "shares", "saves", "reach",
	"engagement_rate", "audio_type",
}

// LoadFile reads the CSV at path.
func LoadFile(path string) ([]models.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses posts from CSV data. The first record must be a header row
// containing at least the required columns; extra columns are ignored.
func Load(r io.Reader) ([]models.Post, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("csv missing column %q", col)
		}
	}

	var posts []models.Post
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		post, err := decodeRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}

func decodeRecord(record []string, idx map[string]int) (models.Post, error) {
	get := func(col string) string { return record[idx[col]] }

	num := func(col string) (float64, error) {
		v, err := strconv.ParseFloat(get(col), 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", col, err)
		}
		return v, nil
	}

	post := models.Post{
		PostID:       get("post_id"),
		PostType:     get("post_type"),
		Topic:        get("topic"),
		HashtagsUsed: get("hashtags_used"),
		AudioType:    get("audio_type"),
	}

	var err error
	if post.Likes, err = num("likes"); err != nil {
		return post, err
	}
	if post.Comments, err = num("comments"); err != nil {
		return post, err
	}
	if post.Shares, err = num("shares"); err != nil {
		return post, err
	}
	if post.Saves, err = num("saves"); err != nil {
		return post, err
	}
	if post.Reach, err = num("reach"); err != nil {
		return post, err
	}
	if post.EngagementRate, err = num("engagement_rate"); err != nil {
		return post, err
	}

	return post, nil
}

// ByType returns the posts whose post_type matches. An empty postType keeps
// every row.
func ByType(posts []models.Post, postType string) []models.Post {
	if postType == "" {
		return posts
	}
	var filtered []models.Post
	for _, p := range posts {
		if p.PostType == postType {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// Find returns the post with the given id.
func Find(posts []models.Post, postID string) (models.Post, error) {
	for _, p := range posts {
		if p.PostID == postID {
			return p, nil
		}
	}
	return models.Post{}, fmt.Errorf("%w: %s", ErrPostNotFound, postID)
}

// PostTypes returns the distinct post types in sorted order.
func PostTypes(posts []models.Post) []string {
	seen := make(map[string]bool)
	var types []string
	for _, p := range posts {
		if !seen[p.PostType] {
			seen[p.PostType] = true
			types = append(types, p.PostType)
		}
	}
	sort.Strings(types)
	return types
}

// VectorizeText builds the text the database embeds for one post.
func VectorizeText(p models.Post) string {
	return fmt.Sprintf("summary: %s | hashtags: %s", p.Topic, p.HashtagsUsed)
}
