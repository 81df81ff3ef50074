package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/railroad/pkg/cache"
	"github.com/matzehuels/railroad/pkg/errors"
	"github.com/matzehuels/railroad/pkg/pipeline"
	"github.com/matzehuels/railroad/pkg/render"
)

func newTestHandler(t *testing.T, dir string, maxBody int64) http.Handler {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(fc, nil, log.New(io.Discard))
	t.Cleanup(func() { runner.Close() })
	return newServer(runner, log.New(io.Discard), dir, maxBody).routes()
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServeHealth(t *testing.T) {
	rec := do(newTestHandler(t, "", 0), http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServeRender(t *testing.T) {
	h := newTestHandler(t, "", 0)

	rec := do(h, http.MethodPost, "/render", "application/json", beginJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "miss", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `viewBox="0 0 218 42"`)

	rec = do(h, http.MethodPost, "/render", "application/json", beginJSON)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hit", rec.Header().Get("X-Cache"))
}

func TestServeRenderInputFormats(t *testing.T) {
	h := newTestHandler(t, "", 0)

	rec := do(h, http.MethodPost, "/render", "application/yaml", beginYAML)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodPost, "/render?input=yaml", "", beginYAML)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(h, http.MethodPost, "/render", "image/gif", beginJSON)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(errors.ErrCodeInvalidFormat), decodeError(t, rec).Code)
}

func TestServeRenderOptions(t *testing.T) {
	h := newTestHandler(t, "", 0)

	rec := do(h, http.MethodPost, "/render?format=png&scale=1", "", beginJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = do(h, http.MethodPost, "/render?stylesheet=dark&markers=false", "", beginJSON)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "<style")
	assert.Contains(t, rec.Body.String(), `viewBox="0 0 158 42"`)
}

func TestServeRenderPDF(t *testing.T) {
	if render.HasRSVG() {
		t.Skip("rsvg-convert is installed")
	}
	rec := do(newTestHandler(t, "", 0), http.MethodPost, "/render?format=pdf", "", beginJSON)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
	assert.Equal(t, string(errors.ErrCodeUnsupported), decodeError(t, rec).Code)
}

func TestServeRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", "/render", "{", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"no root", "/render", "{}", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown kind", "/render", `{"root": {"kind": "spiral"}}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad output format", "/render?format=gif", beginJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"two formats", "/render?format=svg,png", beginJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad boolean", "/render?markers=maybe", beginJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"nan scale", "/render?format=png&scale=NaN", beginJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad scale", "/render?scale=big", beginJSON, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad stylesheet", "/render?stylesheet=neon", beginJSON, http.StatusBadRequest, errors.ErrCodeInvalidStyle},
	}

	h := newTestHandler(t, "", 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, tt.target, "", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, string(tt.code), decodeError(t, rec).Code)
		})
	}
}

func TestServeRenderBodyLimit(t *testing.T) {
	rec := do(newTestHandler(t, "", 16), http.MethodPost, "/render", "", beginJSON)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServeDiagrams(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "begin.yaml", beginYAML)
	h := newTestHandler(t, dir, 0)

	rec := do(h, http.MethodGet, "/diagrams/begin.yaml", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = do(h, http.MethodGet, "/diagrams/missing.yaml", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, string(errors.ErrCodeFileNotFound), decodeError(t, rec).Code)

	rec = do(newTestHandler(t, "", 0), http.MethodGet, "/diagrams/begin.yaml", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidStructure, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeGeometry, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidPath, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
