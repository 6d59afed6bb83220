package models

// Post is a single row of the engagement CSV.
type Post struct {
	PostID         string  `json:"post_id"`
	PostType       string  `json:"post_type"`
	Topic          string  `json:"topic"`
	HashtagsUsed   string  `json:"hashtags_used"`
	Likes          float64 `json:"likes"`
	Comments       float64 `json:"comments"`
	Shares         float64 `json:"shares"`
	Saves          float64 `json:"saves"`
	Reach          float64 `json:"reach"`
	EngagementRate float64 `json:"engagement_rate"`
	AudioType      string  `json:"audio_type"`
}

// Metrics returns the numeric columns keyed by name, in the order the
// dashboard reports them.
func (p Post) Metrics() map[string]float64 {
	return map[string]float64{
		"likes":           p.Likes,
		"comments":        p.Comments,
		"shares":          p.Shares,
		"saves":           p.Saves,
		"reach":           p.Reach,
		"engagement_rate": p.EngagementRate,
	}
}

// MetricNames lists the numeric columns in report order.
var MetricNames = []string{"likes", "comments", "shares", "saves", "reach", "engagement_rate"}

// Document is a post prepared for insertion into the vector collection. The
// Vectorize text is embedded by the hosted service at insert time.
type Document struct {
	Post
	ID        string `json:"_id"`
	Vectorize string `json:"$vectorize"`
}

// MetricStats holds the four aggregates the dashboard reports for one metric.
type MetricStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// TypeStats maps metric name to its aggregates over one post type.
type TypeStats map[string]MetricStats

// Performance maps metric name to the post's percentage difference from the
// type average, rounded to two decimals.
type Performance map[string]float64
