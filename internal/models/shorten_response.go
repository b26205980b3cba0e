package models

// Expiration tells the client when a short link stops resolving
type Expiration struct {
	Seconds   int    `json:"seconds"`   // Always 86400 (24 hours)
	Formatted string `json:"formatted"` // Locale-formatted expiry timestamp
}

// ShortenResponse represents the response after shortening a URL
type ShortenResponse struct {
	Success       bool       `json:"success"`
	ShortID       string     `json:"shortId"`
	ShortURL      string     `json:"shortUrl"` // Full short URL (base URL + /go/ + id)
	IsExistingURL bool       `json:"isExistingUrl"`
	Expiration    Expiration `json:"expiration"`
}

// ErrorResponse is the failure shape shared by the shorten and admin APIs
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
