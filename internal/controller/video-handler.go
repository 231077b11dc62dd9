package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidsync/server/internal/library"
	"github.com/vidsync/server/internal/stream"
	"github.com/vidsync/server/pkg/rest"
)

func (c *controller) listVideos(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.library.List()})
}

// lookupVideo resolves the id from the URL and maps locator errors to
// their HTTP statuses. All access paths go through this, a previously
// resolved path is never reused.
func (c *controller) lookupVideo(w http.ResponseWriter, r *http.Request) (library.Video, bool) {
	videoId := chi.URLParam(r, "video-id")

	video, err := c.library.Get(videoId)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrAccessDenied):
			rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": "access denied"})
		case errors.Is(err, library.ErrNotFound):
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "video not found"})
		default:
			c.logger.WarnContext(r.Context(), "failed to look up video", "video_id", videoId, "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
		}
		return library.Video{}, false
	}

	return video, true
}

func (c *controller) getVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := c.lookupVideo(w, r)
	if !ok {
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": video})
}

func (c *controller) streamVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := c.lookupVideo(w, r)
	if !ok {
		return
	}

	plan, err := stream.PlanRange(r.Header.Get("Range"), video.Size, c.chunkWindow)
	if err != nil {
		switch {
		case errors.Is(err, stream.ErrNotSatisfiable):
			w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", video.Size))
			rest.WriteJSON(w, http.StatusRequestedRangeNotSatisfiable, rest.Envelope{"error": "range not satisfiable"})
			return
		case errors.Is(err, stream.ErrMalformed):
			// an unparseable range header degrades to a full response
			// instead of failing the request
			c.logger.InfoContext(r.Context(), "ignoring malformed range header", "header", r.Header.Get("Range"))
			plan = stream.FullPlan(video.Size)
		default:
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal error"})
			return
		}
	}

	c.serveStream(w, r, video.Path, plan)
}

func (c *controller) downloadVideo(w http.ResponseWriter, r *http.Request) {
	video, ok := c.lookupVideo(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", video.Name))
	c.serveStream(w, r, video.Path, stream.FullPlan(video.Size))
}

func (c *controller) serveStream(w http.ResponseWriter, r *http.Request, path string, plan stream.Plan) {
	if err := stream.ServeFile(w, r, path, plan); err != nil {
		if errors.Is(err, stream.ErrOpen) {
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "stream error"})
			return
		}
		// headers already went out; the transfer just ends here
		c.logger.InfoContext(r.Context(), "stream aborted", "path", path, "error", err)
	}
}
