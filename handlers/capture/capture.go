// Package capture is the browser extension's entry point: the popup opens
// this route with a single url query parameter and the image lands on the
// active board.
package capture

import (
	"net/http"

	"moodboard/board"
	"moodboard/core"
	"moodboard/handlers/api/apierror"

	"github.com/sirupsen/logrus"
)

// HandleCapture saves the url query parameter as a new image. The target is
// the active board; with the AllBoards selection the first board is used,
// and an empty library gets a starter board created on the fly. On success
// the browser is sent back to the app.
func HandleCapture(store *board.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("url")

		params := board.AddImageParams{URL: raw}
		targetID := store.ActiveBoardID()
		if targetID == core.AllBoards {
			if boards := store.Snapshot().Boards; len(boards) > 0 {
				targetID = boards[0].ID
			}
		}
		if targetID == core.AllBoards {
			params.NewBoardName = "Captured"
		} else {
			params.BoardID = targetID
		}

		img, err := store.AddImage(r.Context(), params)
		if err != nil {
			apierror.Render(w, r, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"image_id": img.ID,
			"board_id": img.BoardID,
		}).Info("Image captured from extension")

		http.Redirect(w, r, "/?captured="+img.ID, http.StatusSeeOther)
	}
}
