package http

import (
	"net/http"

	"github.com/examstack/examstack/internal/content"

	"github.com/go-chi/chi/v5"
)

// Subject browser: active majors with counts, then materials, then chapters.

func ListMajorsHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		majors, err := repo.ListActiveMajors(r.Context())
		if err != nil {
			http.Error(w, "failed to load majors", 500)
			return
		}
		writeJSON(w, 200, majors)
	}
}

func ListMaterialsHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "majorID"))
		if !ok {
			redirectError(w, 404, "Invalid subject selected.", "/")
			return
		}
		materials, err := repo.ListActiveMaterials(r.Context(), id)
		if err != nil {
			http.Error(w, "failed to load materials", 500)
			return
		}
		writeJSON(w, 200, materials)
	}
}

func ListChaptersHandler(repo content.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(chi.URLParam(r, "materialID"))
		if !ok {
			redirectError(w, 404, "Invalid material selected.", "/")
			return
		}
		chapters, err := repo.ListActiveChapters(r.Context(), id)
		if err != nil {
			http.Error(w, "failed to load chapters", 500)
			return
		}
		writeJSON(w, 200, chapters)
	}
}
