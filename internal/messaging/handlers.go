package messaging

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response messages
const (
	msgMissingFields = "Faltan teléfono o mensaje"
	msgInvalidBody   = "Invalid request"
	msgNotReady      = "WhatsApp no está conectado. Espera unos segundos e intenta nuevamente."
)

// Handlers contains HTTP handlers for messaging
type Handlers struct {
	service *Service
}

// NewHandlers creates a new messaging handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// SendMessageHandler handles POST /enviar
func (h *Handlers) SendMessageHandler(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	result, err := h.service.Send(c.Request.Context(), string(req.Telefono), req.Mensaje)
	if err != nil {
		if _, ok := isValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingFields})
			return
		}
		if _, ok := isNotReadyError(err); ok {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgNotReady})
			return
		}
		if deliveryErr, ok := isDeliveryError(err); ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": deliveryErr.Reason()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
