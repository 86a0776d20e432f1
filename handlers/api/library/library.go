package library

import (
	"io"
	"net/http"

	"moodboard/board"
	"moodboard/handlers/api/apierror"

	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

// Imports above this size are rejected outright.
const maxImportSize = 32 << 20

// HandleExport streams the whole library as a downloadable JSON document.
func HandleExport(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := store.Export()
		if err != nil {
			logrus.WithError(err).Error("Failed to export library")
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "failed to export library"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="moodboard-export.json"`)
		w.Write(data)
	}
}

// HandleImport validates an uploaded library document and replaces the
// current state wholesale. A document failing validation changes nothing.
func HandleImport(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize+1))
		if err != nil {
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, map[string]string{"error": "failed to read request body"})
			return
		}
		defer r.Body.Close()
		if len(data) > maxImportSize {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, map[string]string{"error": "import document too large"})
			return
		}

		if err := store.Import(r.Context(), data); err != nil {
			apierror.Render(w, r, err)
			return
		}
		render.JSON(w, r, map[string]string{"status": "imported"})
	}
}
