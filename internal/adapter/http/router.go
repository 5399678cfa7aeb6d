package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	pipelineH *PipelineHandler,
	projectH *ProjectHandler,
	apiToken string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(bodySizeLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware(apiToken))

		// Pipelines
		r.Post("/pipelines", pipelineH.Trigger)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", pipelineH.ListRuns)
			r.Get("/{id}", pipelineH.GetRun)
		})

		// Poll registry
		r.Route("/projects", func(r chi.Router) {
			r.Post("/", projectH.Register)
			r.Get("/", projectH.List)
			r.Route("/{project}", func(r chi.Router) {
				r.Get("/", projectH.Get)
				r.Delete("/", projectH.Delete)
			})
		})
	})

	return r
}
