package responsewriter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_DefaultsToOK(t *testing.T) {
	w := Wrap(httptest.NewRecorder())
	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Zero(t, w.BytesWritten())
}

func TestWriteHeader_RecordsFirstStatusOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusBadRequest)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusBadRequest, w.StatusCode())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWrite_CountsToolPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	payload, err := json.Marshal(map[string]any{"draft_id": 12, "sections": 4})
	require.NoError(t, err)

	n, err := w.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, len(payload), w.BytesWritten())
	assert.Equal(t, http.StatusOK, w.StatusCode(), "bare Write implies 200")

	_, err = w.Write([]byte("\n"))
	require.NoError(t, err)
	assert.Equal(t, len(payload)+1, w.BytesWritten())
}

func TestWrite_AfterExplicitStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte(`{"error":{"code":"unknown_tool"}}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, w.StatusCode())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnwrap_ExposesInnerWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)
	assert.Same(t, http.ResponseWriter(rec), w.Unwrap())
}
