package stream

import (
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempVideo(t *testing.T, size int) (string, []byte) {
	t.Helper()

	data := make([]byte, size)
	_, err := rand.Read(data)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.mp4")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path, data
}

func TestServeFileFull(t *testing.T) {
	path, data := writeTempVideo(t, 4096)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/stream", nil)

	err := ServeFile(w, r, path, FullPlan(int64(len(data))))
	require.NoError(t, err)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "4096", resp.Header.Get("Content-Length"))
	assert.Empty(t, resp.Header.Get("Content-Range"))
	assert.Equal(t, data, w.Body.Bytes())
}

func TestServeFilePartialExactBytes(t *testing.T) {
	path, data := writeTempVideo(t, 100_000)

	for _, tc := range []struct{ start, end int64 }{
		{0, 0},
		{0, 99_999},
		{1, 2},
		{50_000, 70_000},
		{99_999, 99_999},
	} {
		plan := Plan{Start: tc.start, End: tc.end, Size: int64(len(data)), Partial: true}

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/stream", nil)
		require.NoError(t, ServeFile(w, r, path, plan))

		resp := w.Result()
		assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
		assert.Equal(t, data[tc.start:tc.end+1], w.Body.Bytes(), "range %d-%d", tc.start, tc.end)
	}
}

func TestServeFileContentRangeHeader(t *testing.T) {
	path, _ := writeTempVideo(t, 10_000)

	plan := Plan{Start: 100, End: 199, Size: 10_000, Partial: true}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/stream", nil)
	require.NoError(t, ServeFile(w, r, path, plan))

	resp := w.Result()
	assert.Equal(t, "bytes 100-199/10000", resp.Header.Get("Content-Range"))
	assert.Equal(t, "100", resp.Header.Get("Content-Length"))
}

func TestServeFileHead(t *testing.T) {
	path, _ := writeTempVideo(t, 1024)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodHead, "/stream", nil)
	require.NoError(t, ServeFile(w, r, path, FullPlan(1024)))

	assert.Equal(t, "1024", w.Result().Header.Get("Content-Length"))
	assert.Zero(t, w.Body.Len())
}

func TestServeFileMissing(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/stream", nil)

	err := ServeFile(w, r, filepath.Join(t.TempDir(), "gone.mp4"), FullPlan(10))
	assert.ErrorIs(t, err, ErrOpen)
	assert.Equal(t, http.StatusOK, w.Code, "no headers may be written on open failure")
	assert.Zero(t, w.Body.Len())
}

func TestReadWindow(t *testing.T) {
	path, data := writeTempVideo(t, 5000)

	chunk, err := ReadWindow(path, Plan{Start: 1000, End: 1999, Size: 5000, Partial: true})
	require.NoError(t, err)
	assert.Equal(t, data[1000:2000], chunk)
}

func TestReadWindowTruncatedFile(t *testing.T) {
	path, data := writeTempVideo(t, 5000)

	// shrink the file after the window was planned; the chunk must
	// carry only the bytes that were actually read, never zero padding
	require.NoError(t, os.Truncate(path, 1500))

	chunk, err := ReadWindow(path, Plan{Start: 1000, End: 1999, Size: 5000, Partial: true})
	require.NoError(t, err)
	assert.Equal(t, data[1000:1500], chunk)
}
