package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_ServesForm(t *testing.T) {
	w := httptest.NewRecorder()

	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/api/upload"`)
	assert.Contains(t, body, `name="thumbnail"`)
	assert.Contains(t, body, "URL.revokeObjectURL")
}

func TestHandler_MissingAsset(t *testing.T) {
	w := httptest.NewRecorder()

	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope.js", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
