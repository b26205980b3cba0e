package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"shortspan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AdminController struct {
	adminService service.AdminService
	log          zerolog.Logger
}

func NewAdminController(adminService service.AdminService, log zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		log:          log.With().Str("component", "admin_controller").Logger(),
	}
}

// GetURLs handles GET /api/v1/admin/urls. With ?slug= it looks up a single
// link; otherwise it lists the latest links, bounded by ?limit=.
func (ac *AdminController) GetURLs(c *gin.Context) {
	if slug := c.Query("slug"); slug != "" {
		link, err := ac.adminService.FindBySlug(c.Request.Context(), slug)
		if err != nil {
			ac.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
		return
	}

	limit := service.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	links, err := ac.adminService.LatestLinks(c.Request.Context(), limit)
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

// DeleteURL handles DELETE /api/v1/admin/urls?slug=
func (ac *AdminController) DeleteURL(c *gin.Context) {
	slug := c.Query("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slug query parameter required"})
		return
	}

	if err := ac.adminService.DeleteLink(c.Request.Context(), slug); err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetMetrics handles GET /api/v1/admin/metrics
func (ac *AdminController) GetMetrics(c *gin.Context) {
	metrics, err := ac.adminService.Metrics(c.Request.Context())
	if err != nil {
		ac.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func (ac *AdminController) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingID), errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slug"})
	case errors.Is(err, service.ErrLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "URL not found"})
	default:
		ac.log.Error().Err(err).Msg("admin operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
	}
}
