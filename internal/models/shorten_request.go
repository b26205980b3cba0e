package models

// ShortenRequest represents the request body for shortening a URL
type ShortenRequest struct {
	URL  string `json:"url" binding:"required"` // Destination URL, scheme optional
	Lang string `json:"lang,omitempty"`         // Locale hint for error messages ("es" or "en")
}
