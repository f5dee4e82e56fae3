package auth

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers contains HTTP handlers for pairing
type Handlers struct {
	presenter *Presenter
}

// NewHandlers creates a new pairing handlers instance
func NewHandlers(presenter *Presenter) *Handlers {
	return &Handlers{presenter: presenter}
}

// QRPageHandler serves an HTML page embedding the latest QR code, or a page
// saying none is available yet.
func (h *Handlers) QRPageHandler(c *gin.Context) {
	artifact, ok := h.presenter.Latest()
	if !ok {
		renderPage(c, unavailablePage, nil)
		return
	}

	// The data URL is produced locally, never from request input.
	renderPage(c, qrPage, qrPageData{
		Image:    template.URL(artifact.DataURL),
		Terminal: artifact.Terminal,
	})
}

// QRImageHandler serves the latest QR code as a PNG
func (h *Handlers) QRImageHandler(c *gin.Context) {
	artifact, ok := h.presenter.Latest()
	if !ok || len(artifact.PNG) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No hay QR disponible aún"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", artifact.PNG)
}

func renderPage(c *gin.Context, tmpl *template.Template, data any) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
