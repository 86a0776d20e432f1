package boards

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"moodboard/board"
	"moodboard/core"
	"moodboard/handlers/api/apierror"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
)

type (
	// BoardSummary is the list-view shape of a board: metadata without the
	// image payload.
	BoardSummary struct {
		ID           string            `json:"id"`
		Name         string            `json:"name"`
		ImageCount   int               `json:"imageCount"`
		ViewSettings core.ViewSettings `json:"viewSettings"`
	}

	// ListResponse is the full board listing plus the active selection.
	ListResponse struct {
		Boards        []BoardSummary `json:"boards"`
		ActiveBoardID string         `json:"activeBoardId"`
	}

	nameRequest struct {
		Name string `json:"name"`
	}

	activeRequest struct {
		BoardID string `json:"boardId"`
	}
)

// HandleList returns metadata for every board and the active selection.
func HandleList(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lib := store.Snapshot()
		resp := ListResponse{
			Boards:        make([]BoardSummary, 0, len(lib.Boards)),
			ActiveBoardID: lib.ActiveBoardID,
		}
		for _, b := range lib.Boards {
			resp.Boards = append(resp.Boards, BoardSummary{
				ID:           b.ID,
				Name:         b.Name,
				ImageCount:   len(b.Images),
				ViewSettings: b.ViewSettings,
			})
		}
		render.JSON(w, r, resp)
	}
}

// HandleGet returns a single board with its images.
func HandleGet(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		for _, b := range store.Snapshot().Boards {
			if b.ID == id {
				render.JSON(w, r, b)
				return
			}
		}
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "board not found"})
	}
}

// HandleCreate creates a new board. The name is optional.
func HandleCreate(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req nameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid JSON in request body"})
			return
		}
		created := store.CreateBoard(r.Context(), req.Name)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, created)
	}
}

// HandleRename updates a board's name.
func HandleRename(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var req nameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid JSON in request body"})
			return
		}
		if err := store.RenameBoard(r.Context(), id, req.Name); err != nil {
			apierror.Render(w, r, err)
			return
		}
		render.JSON(w, r, map[string]string{"id": id, "name": req.Name})
	}
}

// HandleDelete removes a board and all of its images. Unknown ids succeed;
// the board is gone either way.
func HandleDelete(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		store.DeleteBoard(r.Context(), id)
		render.Status(r, http.StatusOK)
		render.JSON(w, r, map[string]string{"deleted": id})
	}
}

// HandleUpdateView shallow-merges a partial view settings object into the
// board's settings and returns the merged result.
func HandleUpdateView(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		var patch core.ViewSettingsPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid JSON in request body"})
			return
		}
		merged, err := store.UpdateViewSettings(r.Context(), id, patch)
		if err != nil {
			apierror.Render(w, r, err)
			return
		}
		render.JSON(w, r, merged)
	}
}

// HandleSetActive changes the board selection. "all" selects every board.
func HandleSetActive(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req activeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]string{"error": "invalid JSON in request body"})
			return
		}
		if err := store.SetActiveBoard(r.Context(), req.BoardID); err != nil {
			apierror.Render(w, r, err)
			return
		}
		logrus.WithField("board_id", req.BoardID).Debug("Active board changed")
		render.JSON(w, r, map[string]string{"activeBoardId": req.BoardID})
	}
}
