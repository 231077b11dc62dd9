package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c *controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		r.Get("/ws", c.serveWS)
		r.Route("/videos", func(r chi.Router) {
			r.Get("/", c.listVideos)
			r.Route("/{video-id}", func(r chi.Router) {
				r.Get("/", c.getVideo)
				r.Method(http.MethodGet, "/stream", http.HandlerFunc(c.streamVideo))
				r.Method(http.MethodHead, "/stream", http.HandlerFunc(c.streamVideo))
				r.Get("/download", c.downloadVideo)
			})
		})
	})

	return r
}
