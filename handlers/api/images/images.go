package images

import (
	"encoding/json"
	"net/http"
	"strings"

	"moodboard/board"
	"moodboard/core"
	"moodboard/filter"
	"moodboard/handlers/api/apierror"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// HandleList returns the visible image subset for the filter selection in
// the query string: search, tags (comma-separated, AND), colors
// (comma-separated, OR) and boards (comma-separated ids or "all").
func HandleList(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sel := filter.Selection{
			SearchTerm: q.Get("search"),
			Tags:       splitParam(q.Get("tags")),
			Colors:     splitParam(q.Get("colors")),
			Boards:     splitParam(q.Get("boards")),
		}
		visible := filter.VisibleImages(store.Snapshot(), sel)
		if visible == nil {
			visible = []*core.ImageItem{}
		}
		render.JSON(w, r, visible)
	}
}

// HandleListTags returns every tag in use, deduplicated and sorted.
func HandleListTags(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, filter.AllTags(store.Snapshot()))
	}
}

// HandleListColors returns every palette color in use, deduplicated and
// sorted.
func HandleListColors(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, filter.AllColors(store.Snapshot()))
	}
}

// HandleAdd creates a new image on an existing board, or on a freshly
// created board when newBoardName is given.
func HandleAdd(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params board.AddImageParams
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid JSON in request body"})
			return
		}
		img, err := store.AddImage(r.Context(), params)
		if err != nil {
			apierror.Render(w, r, err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, img)
	}
}

// HandleUpdate merges a partial update into an image. A boardId in the patch
// moves the image to that board.
func HandleUpdate(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var patch board.ImagePatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid JSON in request body"})
			return
		}
		img, err := store.UpdateImage(r.Context(), id, patch)
		if err != nil {
			apierror.Render(w, r, err)
			return
		}
		render.JSON(w, r, img)
	}
}

// HandleDelete removes an image. The delete is idempotent; repeating it for
// an id that is already gone still succeeds.
func HandleDelete(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		store.DeleteImage(r.Context(), id)
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"deleted": id})
	}
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
