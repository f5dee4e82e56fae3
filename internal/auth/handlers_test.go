package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neekaru/whatsapp-gateway/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newQRRouter(p *Presenter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandlers(p)
	r.GET("/qr", h.QRPageHandler)
	r.GET("/qr.png", h.QRImageHandler)
	return r
}

func TestQRPageBeforeAndAfterPayload(t *testing.T) {
	p := NewPresenter(config.QRModeImage, nil, zerolog.Nop())
	r := newQRRouter(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No hay QR disponible aún")

	p.OnPairingPayload(pairingRef)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<img src="data:image/png;base64,`)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestQRPageTerminalOnly(t *testing.T) {
	p := NewPresenter(config.QRModeTerminal, nil, zerolog.Nop())
	p.OnPairingPayload(pairingRef)

	w := httptest.NewRecorder()
	newQRRouter(p).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<pre>")
	assert.NotContains(t, w.Body.String(), "<img")
}

func TestQRImage(t *testing.T) {
	p := NewPresenter(config.QRModeBoth, nil, zerolog.Nop())
	r := newQRRouter(p)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	p.OnPairingPayload(pairingRef)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/qr.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}
