package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shortspan/internal/models"
	"shortspan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type ShortenerController struct {
	linkService service.LinkService
	log         zerolog.Logger
	baseURL     string
	frontendURL string
}

func NewShortenerController(linkService service.LinkService, log zerolog.Logger, baseURL, frontendURL string) *ShortenerController {
	return &ShortenerController{
		linkService: linkService,
		log:         log.With().Str("component", "shortener_controller").Logger(),
		baseURL:     baseURL,
		frontendURL: frontendURL,
	}
}

// CreateShortLink handles POST /api/v1/shorten
func (sc *ShortenerController) CreateShortLink(c *gin.Context) {
	var req models.ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: message(req.Lang, "bad_request"),
		})
		return
	}

	result, err := sc.linkService.Shorten(c.Request.Context(), req.URL)
	if err != nil {
		status, key := shortenFailure(err)
		if status == http.StatusInternalServerError {
			sc.log.Error().Err(err).Msg("shorten failed")
		}
		c.JSON(status, models.ErrorResponse{Error: message(req.Lang, key)})
		return
	}

	expiresAt := time.Now().Add(service.LinkTTL)

	c.JSON(http.StatusOK, models.ShortenResponse{
		Success:       true,
		ShortID:       result.ID,
		ShortURL:      fmt.Sprintf("%s/go/%s", sc.baseURL, result.ID),
		IsExistingURL: result.IsExisting,
		Expiration: models.Expiration{
			Seconds:   int(service.LinkTTL.Seconds()),
			Formatted: formatExpiration(expiresAt, req.Lang),
		},
	})
}

// Redirect handles GET /go/:id. Failures never surface as raw HTTP errors;
// the visitor is sent to the landing page with a machine-readable reason.
func (sc *ShortenerController) Redirect(c *gin.Context) {
	id := c.Param("id")

	destination, err := sc.linkService.Resolve(c.Request.Context(), id)
	if err != nil {
		token := errorToken(err)
		if errors.Is(err, service.ErrStoreUnavailable) {
			sc.log.Error().Err(err).Str("id", id).Msg("resolve failed")
		} else {
			sc.log.Warn().Str("id", id).Str("reason", token).Msg("redirect rejected")
		}
		c.Redirect(http.StatusFound, sc.errorLanding(token, id))
		return
	}

	c.Redirect(http.StatusFound, destination)
}

// shortenFailure maps a service error to an HTTP status and message key
func shortenFailure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		return http.StatusBadRequest, "invalid_url"
	case errors.Is(err, service.ErrURLTooLong):
		return http.StatusBadRequest, "url_too_long"
	case errors.Is(err, service.ErrIDSpaceExhausted):
		return http.StatusInternalServerError, "id_exhausted"
	default:
		return http.StatusInternalServerError, "store_error"
	}
}

// errorToken classifies a resolve failure for the landing page
func errorToken(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingID):
		return "missing_id"
	case errors.Is(err, service.ErrInvalidID):
		return "invalid_id"
	case errors.Is(err, service.ErrLinkNotFound):
		return "url_not_found"
	case errors.Is(err, service.ErrInvalidStoredURL):
		return "invalid_url"
	case errors.Is(err, service.ErrStoreUnavailable):
		return "redis_connection"
	default:
		return "unknown"
	}
}

// errorLanding builds the soft-landing URL carrying the error token. The
// offending id is included when there is one.
func (sc *ShortenerController) errorLanding(token, id string) string {
	query := url.Values{"error": {token}}
	if id != "" && token != "redis_connection" {
		query.Set("id", id)
	}
	return fmt.Sprintf("%s/?%s", sc.frontendURL, query.Encode())
}

// formatExpiration renders the expiry timestamp for the locale hint
func formatExpiration(t time.Time, lang string) string {
	if lang == "en" {
		return t.Format("01/02/2006, 03:04 PM")
	}
	return t.Format("02/01/2006, 15:04")
}
