package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})

		// Generation gateway
		r.Post("/generate", apiHandler.GenerateHandler)

		// Persistence gateways
		r.Get("/courses", apiHandler.GetCoursesHandler)
		r.Post("/courses", apiHandler.UpsertCourseHandler)
		r.Get("/courses/{courseID}", apiHandler.GetCourseByIDHandler)
		r.Get("/lessons", apiHandler.GetLessonHandler)
		r.Post("/lessons", apiHandler.UpsertLessonHandler)
		r.Get("/sections", apiHandler.GetSectionHandler)
		r.Post("/sections", apiHandler.UpsertSectionHandler)

		// Cascade endpoints
		r.Post("/courses/resolve", apiHandler.ResolveCourseHandler)
		r.Post("/lessons/expand", apiHandler.ExpandLessonHandler)
		r.Post("/sections/expand", apiHandler.ExpandSectionHandler)

		// Side fetches
		r.Post("/videos/search", apiHandler.VideoSearchHandler)
		r.Post("/progress", apiHandler.ProgressHandler)
	})

	return r
}
