package boards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodboard/board"
	"moodboard/core"
	"moodboard/stores/memory"

	"github.com/go-chi/chi/v5"
)

func newTestStore(t *testing.T) *board.Store {
	t.Helper()
	return board.NewStore(context.Background(), memory.NewStore())
}

func newRouter(store *board.Store) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/boards", HandleList(store))
	r.Post("/api/boards", HandleCreate(store))
	r.Put("/api/boards/active", HandleSetActive(store))
	r.Get("/api/boards/{id}", HandleGet(store))
	r.Put("/api/boards/{id}", HandleRename(store))
	r.Delete("/api/boards/{id}", HandleDelete(store))
	r.Put("/api/boards/{id}/view", HandleUpdateView(store))
	return r
}

func TestHandleCreateAndList(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/api/boards", strings.NewReader(`{"name":"Inspo"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}
	var created core.Board
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Name != "Inspo" || created.ID == "" {
		t.Errorf("unexpected board in response: %+v", created)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/boards", nil))
	var list ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	// Starter board plus the created one.
	if len(list.Boards) != 2 {
		t.Errorf("expected 2 boards, got %d", len(list.Boards))
	}
	if list.ActiveBoardID != created.ID {
		t.Errorf("activeBoardId = %q, want %q", list.ActiveBoardID, created.ID)
	}
}

func TestHandleRename_Validation(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)
	created := store.CreateBoard(context.Background(), "Design")

	req := httptest.NewRequest(http.MethodPut, "/api/boards/"+created.ID, strings.NewReader(`{"name":"  "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/boards/unknown", strings.NewReader(`{"name":"New"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandleDelete_UnknownStillSucceeds(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/boards/unknown", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (idempotent delete)", rec.Code, http.StatusOK)
	}
}

func TestHandleUpdateView(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)
	created := store.CreateBoard(context.Background(), "Design")

	req := httptest.NewRequest(http.MethodPut, "/api/boards/"+created.ID+"/view",
		strings.NewReader(`{"viewMode":"canvas","backgroundPattern":"grid"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var merged core.ViewSettings
	if err := json.NewDecoder(rec.Body).Decode(&merged); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if merged.ViewMode != core.ViewModeCanvas {
		t.Errorf("viewMode = %q, want canvas", merged.ViewMode)
	}
	if merged.BackgroundPattern != core.BackgroundGrid {
		t.Errorf("backgroundPattern = %q, want grid", merged.BackgroundPattern)
	}
	if merged.GridColumns != core.DefaultGridColumns {
		t.Error("untouched settings should keep their values")
	}
}

func TestHandleSetActive(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)

	req := httptest.NewRequest(http.MethodPut, "/api/boards/active", strings.NewReader(`{"boardId":"all"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/boards/active", strings.NewReader(`{"boardId":"unknown"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
