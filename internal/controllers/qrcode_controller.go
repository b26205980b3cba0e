package controllers

import (
	"fmt"
	"net/http"

	"shortspan/internal/shortid"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

type QRCodeController struct {
	baseURL string
}

func NewQRCodeController(baseURL string) *QRCodeController {
	return &QRCodeController{
		baseURL: baseURL,
	}
}

// GenerateQRCode handles GET /api/v1/qrcode/:id - renders a short link as a
// QR code. The id is only shape-checked; an expired id still yields a code,
// scanning it just lands on the error page.
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	id := c.Param("id")
	if !shortid.Valid(id) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid short link id",
		})
		return
	}

	shortURL := fmt.Sprintf("%s/go/%s", qc.baseURL, id)

	code, err := qrcode.New(shortURL, qrcode.Medium)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code",
		})
		return
	}

	png, err := code.PNG(256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code image",
		})
		return
	}

	c.Header("Content-Disposition", "inline; filename=qrcode.png")
	c.Data(http.StatusOK, "image/png", png)
}
