package controllers

import (
	"net/http"

	"shortspan/internal/store"

	"github.com/gin-gonic/gin"
)

type SystemController struct {
	store   store.KVStore
	backend string
}

func NewSystemController(kv store.KVStore, backend string) *SystemController {
	return &SystemController{
		store:   kv,
		backend: backend,
	}
}

// Health handles GET /health
func (sc *SystemController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StoreStatus handles GET /api/v1/store/status - reports which backend is
// configured and whether it currently answers.
func (sc *SystemController) StoreStatus(c *gin.Context) {
	if err := sc.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"backend":   sc.backend,
			"connected": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"backend":   sc.backend,
		"connected": true,
	})
}
