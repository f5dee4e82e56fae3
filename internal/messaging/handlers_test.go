package messaging

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postEnviar(t *testing.T, svc *Service, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/enviar", NewHandlers(svc).SendMessageHandler)

	req := httptest.NewRequest(http.MethodPost, "/enviar", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestEnviarSuccess(t *testing.T) {
	sender := &recordingSender{}
	svc, _ := newTestService(true, sender)

	w, resp := postEnviar(t, svc, `{"telefono":"3794595272","mensaje":"hola"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true, "enviadoA": "5493794595272"}, resp)
}

func TestEnviarAcceptsNumericPhone(t *testing.T) {
	sender := &recordingSender{}
	svc, _ := newTestService(true, sender)

	w, resp := postEnviar(t, svc, `{"telefono":3794595272,"mensaje":"hola"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5493794595272", resp["enviadoA"])
}

func TestEnviarMissingFields(t *testing.T) {
	sender := &recordingSender{}
	svc, _ := newTestService(true, sender)

	for _, body := range []string{
		`{"telefono":"3794595272"}`,
		`{"mensaje":"hola"}`,
		`{"telefono":null,"mensaje":"hola"}`,
		``,
	} {
		w, resp := postEnviar(t, svc, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, msgMissingFields, resp["error"], body)
	}
	assert.Zero(t, sender.calls())
}

func TestEnviarMalformedBody(t *testing.T) {
	svc, _ := newTestService(true, &recordingSender{})

	w, resp := postEnviar(t, svc, `{"telefono":true,"mensaje":"hola"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidBody, resp["error"])
}

func TestEnviarNotReady(t *testing.T) {
	sender := &recordingSender{}
	svc, _ := newTestService(false, sender)

	w, resp := postEnviar(t, svc, `{"telefono":"3794595272","mensaje":"hola"}`)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, msgNotReady, resp["error"])
	assert.Zero(t, sender.calls())
}

func TestEnviarDeliveryError(t *testing.T) {
	sender := &recordingSender{err: errors.New("websocket disconnected before info query returned response")}
	svc, _ := newTestService(true, sender)

	w, resp := postEnviar(t, svc, `{"telefono":"3794595272","mensaje":"hola"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"error": "websocket disconnected before info query returned response"}, resp)
}

func TestPhoneNumberUnmarshal(t *testing.T) {
	var req SendRequest
	require.NoError(t, json.Unmarshal([]byte(`{"telefono": 5493794595272, "mensaje": "x"}`), &req))
	assert.Equal(t, PhoneNumber("5493794595272"), req.Telefono)

	require.NoError(t, json.Unmarshal([]byte(`{"telefono": "11-2345-6789"}`), &req))
	assert.Equal(t, PhoneNumber("11-2345-6789"), req.Telefono)

	assert.Error(t, json.Unmarshal([]byte(`{"telefono": {}}`), &req))

	for _, bad := range []string{`5.493794595272e12`, `3794595272.5`, `-3794595272`, `1E10`} {
		assert.Error(t, json.Unmarshal([]byte(`{"telefono": `+bad+`}`), &req), bad)
	}
}

func TestEnviarRejectsNonIntegerPhone(t *testing.T) {
	sender := &recordingSender{}
	svc, _ := newTestService(true, sender)

	w, resp := postEnviar(t, svc, `{"telefono":5.493794595272e12,"mensaje":"hola"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, msgInvalidBody, resp["error"])
	assert.Zero(t, sender.calls())
}
