package models

import "time"

// ShortLink is the admin-facing view of a live short link
type ShortLink struct {
	Slug        string    `json:"slug"`
	OriginalURL string    `json:"originalUrl"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"createdAt"` // Approximate, derived from remaining TTL
}

// SystemMetrics aggregates usage across all live links
type SystemMetrics struct {
	TotalURLs           int        `json:"totalUrls"`
	TotalClicks         int64      `json:"totalClicks"`
	AverageClicksPerURL float64    `json:"averageClicksPerUrl"`
	LastURL             *ShortLink `json:"lastUrl"` // Most recently created or renewed link, nil when empty
}
