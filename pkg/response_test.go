package pkg

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteResponseBytes(t *testing.T) {
	w := httptest.NewRecorder()

	testJson := `{"key":"val"}`
	WriteResponseBytes(w, ContentType.JSON, []byte(testJson), http.StatusCreated)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, ContentType.JSON, w.Header().Get("Content-Type"))
	assert.Equal(t, testJson, w.Body.String())
}

func TestWriteResponseBytesOK(t *testing.T) {
	w := httptest.NewRecorder()
	WriteResponseBytesOK(w, ContentType.Parquet, []byte("PAR1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.Parquet, w.Header().Get("Content-Type"))
	assert.Equal(t, "PAR1", w.Body.String())
}

func TestWriteTextResponseOK(t *testing.T) {
	w := httptest.NewRecorder()
	WriteTextResponseOK(w, "test text")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.Text, w.Header().Get("Content-Type"))
	assert.Equal(t, "test text", w.Body.String())
}

func TestWriteJSONResponseOK(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONResponseOK(w, `{"key":"val"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentType.JSON, w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"key":"val"}`, w.Body.String())
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, map[string]int{"sessions": 3}, http.StatusOK)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessions":3}`, w.Body.String())

	w = httptest.NewRecorder()
	WriteJSON(w, math.NaN(), http.StatusOK)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
