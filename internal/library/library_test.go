package library

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLibrary(t *testing.T, files map[string][]byte) *Library {
	t.Helper()

	root := t.TempDir()
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), data, 0o644))
	}

	l, err := New(root, slog.Default())
	require.NoError(t, err)

	return l
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, name := range []string{"movie.mp4", "some show s01e02.mkv", "ünïcode.webm"} {
		id := EncodeId(name)
		decoded, err := DecodeId(id)
		require.NoError(t, err)
		assert.Equal(t, name, decoded)
	}
}

func TestDecodeIdInvalid(t *testing.T) {
	_, err := DecodeId("not%valid!base64")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScanPicksUpVideos(t *testing.T) {
	l := newTestLibrary(t, map[string][]byte{
		"a.mp4":     []byte("aaaa"),
		"b.mkv":     []byte("bb"),
		"notes.txt": []byte("skip me"),
		"fake.mp3":  []byte("skip me too"),
		"clip.webm": []byte("cc"),
	})

	videos := l.List()
	require.Len(t, videos, 3)
	assert.Equal(t, "a.mp4", videos[0].Name)
	assert.Equal(t, FormatMP4, videos[0].Format)
	assert.Equal(t, int64(4), videos[0].Size)
	assert.Equal(t, "clip.webm", videos[1].Name)
}

func TestResolveRejectsEscape(t *testing.T) {
	l := newTestLibrary(t, map[string][]byte{"a.mp4": []byte("aaaa")})

	for _, name := range []string{"../etc/passwd", "../../secret.mp4", "sub/../../x.mp4"} {
		_, err := l.Resolve(name)
		assert.ErrorIs(t, err, ErrAccessDenied, "name %q must be denied", name)
	}
}

func TestResolveMissingFile(t *testing.T) {
	l := newTestLibrary(t, map[string][]byte{"a.mp4": []byte("aaaa")})

	_, err := l.Resolve("missing.mp4")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByIdRevalidates(t *testing.T) {
	l := newTestLibrary(t, map[string][]byte{"a.mp4": []byte("aaaa")})

	video, err := l.Get(EncodeId("a.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "a.mp4", video.Name)
	assert.Equal(t, int64(4), video.Size)

	// an id that decodes to an escaping path must be denied, even
	// though decoding itself succeeds
	_, err = l.Get(EncodeId("../outside.mp4"))
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = l.Get(EncodeId("gone.mp4"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirectoryIsNotAVideo(t *testing.T) {
	l := newTestLibrary(t, map[string][]byte{"a.mp4": []byte("aaaa")})
	require.NoError(t, os.Mkdir(filepath.Join(l.Root(), "sub.mp4"), 0o755))

	_, err := l.Resolve("sub.mp4")
	assert.ErrorIs(t, err, ErrNotFound)

	// a directory with a video extension must never resolve to a Video
	_, err = l.Get(EncodeId("sub.mp4"))
	assert.ErrorIs(t, err, ErrNotFound)
}
