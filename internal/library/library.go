package library

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
)

var (
	ErrAccessDenied = errors.New("access denied")
	ErrNotFound     = errors.New("video not found")
)

type Format string

const (
	FormatMP4     Format = "mp4"
	FormatMKV     Format = "mkv"
	FormatAVI     Format = "avi"
	FormatMOV     Format = "mov"
	FormatWebM    Format = "webm"
	FormatUnknown Format = "unknown"
)

func formatFromExt(ext string) Format {
	switch strings.ToLower(ext) {
	case ".mp4":
		return FormatMP4
	case ".mkv":
		return FormatMKV
	case ".avi":
		return FormatAVI
	case ".mov":
		return FormatMOV
	case ".webm":
		return FormatWebM
	default:
		return FormatUnknown
	}
}

func isVideoExt(ext string) bool {
	return formatFromExt(ext) != FormatUnknown
}

type Video struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Path       string `json:"-"`
	Format     Format `json:"format"`
	Size       int64  `json:"size"`
	CreatedAt  int64  `json:"created_at"`
	ModifiedAt int64  `json:"modified_at"`
}

// Library maps opaque video ids to validated filesystem paths under a
// single media root. Ids are reversible encodings of the filename, but
// every access re-resolves and re-validates the path against the root.
type Library struct {
	root   string
	videos map[string]Video
	logger *slog.Logger
}

func New(root string, logger *slog.Logger) (*Library, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat media root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("media root is not a directory: %s", absRoot)
	}

	l := Library{
		root:   absRoot,
		videos: make(map[string]Video),
		logger: logger,
	}

	if err := l.scan(); err != nil {
		return nil, fmt.Errorf("failed to scan media root: %w", err)
	}

	return &l, nil
}

func EncodeId(filename string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(filename))
}

func DecodeId(id string) (string, error) {
	filename, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return "", fmt.Errorf("%w: invalid id", ErrNotFound)
	}

	return string(filename), nil
}

func (l *Library) scan() error {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || !isVideoExt(filepath.Ext(entry.Name())) {
			continue
		}

		video, err := l.videoFromFilename(entry.Name())
		if err != nil {
			l.logger.Warn("skipping unreadable file", "name", entry.Name(), "error", err)
			continue
		}

		l.videos[video.Id] = video
	}

	l.logger.Info("media root scanned", "root", l.root, "videos", len(l.videos))
	return nil
}

// Resolve joins filename to the media root and validates that the
// cleaned result is still a descendant of the root. Paths are never
// trusted across requests, so this runs on every access.
func (l *Library) Resolve(filename string) (string, error) {
	path := filepath.Clean(filepath.Join(l.root, filename))

	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path escapes media root", ErrAccessDenied)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return "", fmt.Errorf("failed to stat %s: %w", filename, err)
	}
	if !info.Mode().IsRegular() {
		// directories and special files are never streamable
		return "", fmt.Errorf("%w: %s", ErrNotFound, filename)
	}

	return path, nil
}

// Get resolves an opaque id to a Video with a freshly validated path
// and up-to-date file size.
func (l *Library) Get(id string) (Video, error) {
	filename, err := DecodeId(id)
	if err != nil {
		return Video{}, err
	}

	return l.videoFromFilename(filename)
}

func (l *Library) videoFromFilename(filename string) (Video, error) {
	path, err := l.Resolve(filename)
	if err != nil {
		return Video{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Video{}, fmt.Errorf("failed to stat %s: %w", filename, err)
	}

	return Video{
		Id:         EncodeId(filename),
		Name:       filename,
		Path:       path,
		Format:     formatFromExt(filepath.Ext(filename)),
		Size:       info.Size(),
		CreatedAt:  info.ModTime().Unix(),
		ModifiedAt: info.ModTime().Unix(),
	}, nil
}

func (l *Library) List() []Video {
	videos := maps.Values(l.videos)
	sort.Slice(videos, func(i, j int) bool {
		return videos[i].Name < videos[j].Name
	})

	return videos
}

func (l *Library) Root() string {
	return l.root
}
