package stream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var (
	// ErrOpen means the file could not be opened or positioned; no
	// response bytes were written yet, so callers may still pick a
	// status code.
	ErrOpen = errors.New("open failed")

	// ErrStream means the transfer broke after headers were sent; the
	// status line cannot change, the connection just terminates.
	ErrStream = errors.New("stream error")
)

const copyBufferSize = 256 << 10

var mimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".webm": "video/webm",
}

func ContentTypeForName(name string) string {
	if mime, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}

	return "application/octet-stream"
}

func writeHeaders(w http.ResponseWriter, path string, plan Plan) {
	w.Header().Set("Content-Type", ContentTypeForName(path))
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Length", strconv.FormatInt(plan.Length(), 10))

	if plan.Partial {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", plan.Start, plan.End, plan.Size))
		w.WriteHeader(http.StatusPartialContent)
	} else {
		w.WriteHeader(http.StatusOK)
	}
}

// ServeFile executes a byte-window plan against path, writing exactly
// End-Start+1 bytes. A write failure or client disconnect aborts the
// copy; the file handle is released when this returns. Errors after
// the headers are written are reported as ErrStream, the status line
// cannot change at that point.
func ServeFile(w http.ResponseWriter, r *http.Request, path string, plan Plan) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrOpen, path, err)
	}
	defer f.Close()

	if _, err := f.Seek(plan.Start, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek %s: %s", ErrOpen, path, err)
	}

	writeHeaders(w, path, plan)

	if r.Method == http.MethodHead {
		return nil
	}

	rc := http.NewResponseController(w)
	buf := make([]byte, copyBufferSize)
	length := plan.Length()
	var written int64

	for written < length {
		select {
		case <-r.Context().Done():
			return fmt.Errorf("%w: client disconnected", ErrStream)
		default:
		}

		toRead := int64(len(buf))
		if rem := length - written; rem < toRead {
			toRead = rem
		}

		n, readErr := f.Read(buf[:toRead])
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return fmt.Errorf("%w: client write failed: %s", ErrStream, err)
			}
			if err := rc.Flush(); err != nil {
				return fmt.Errorf("%w: flush failed: %s", ErrStream, err)
			}
			written += int64(n)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return fmt.Errorf("%w: read failed: %s", ErrStream, readErr)
		}
	}

	if written < length {
		return fmt.Errorf("%w: short read: %d of %d bytes", ErrStream, written, length)
	}

	return nil
}

// ReadWindow reads the plan's window into memory. Used by the live
// channel's chunked transfer, where the window is already bounded by
// the configured chunk size.
func ReadWindow(path string, plan Plan) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrOpen, path, err)
	}
	defer f.Close()

	buf := make([]byte, plan.Length())
	n, err := f.ReadAt(buf, plan.Start)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read failed: %s", ErrStream, err)
	}

	// the file may have shrunk since it was planned; never pad the
	// chunk with bytes that were not read
	return buf[:n], nil
}
