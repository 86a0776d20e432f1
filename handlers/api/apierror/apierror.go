// Package apierror maps the store's error taxonomy onto HTTP responses so
// every API handler renders failures the same way.
package apierror

import (
	"errors"
	"net/http"

	"moodboard/core"

	"github.com/go-chi/render"
)

// Render writes err as a JSON error response with the status implied by its
// kind: validation 400, not found 404, external service 502, anything else
// (including storage) 500.
func Render(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case core.IsValidation(err):
		status = http.StatusBadRequest
	case core.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrExternalService):
		status = http.StatusBadGateway
	}
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
