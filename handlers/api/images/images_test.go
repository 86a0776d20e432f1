package images

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
	r.Get("/api/images", HandleList(store))
	r.Post("/api/images", HandleAdd(store))
	r.Patch("/api/images/{id}", HandleUpdate(store))
	r.Delete("/api/images/{id}", HandleDelete(store))
	r.Get("/api/tags", HandleListTags(store))
	r.Get("/api/colors", HandleListColors(store))
	return r
}

func seed(t *testing.T, store *board.Store) (design, photos *core.Board) {
	t.Helper()
	ctx := context.Background()
	design = store.CreateBoard(ctx, "Design")
	photos = store.CreateBoard(ctx, "Photos")
	mustAdd := func(params board.AddImageParams) {
		if _, err := store.AddImage(ctx, params); err != nil {
			t.Fatal(err)
		}
	}
	mustAdd(board.AddImageParams{
		URL: "https://x/poster.png", Title: "Swiss poster", BoardID: design.ID,
		Tags: []string{"poster", "swiss"}, Colors: []string{"Red"},
	})
	mustAdd(board.AddImageParams{
		URL: "https://x/logo.png", Title: "Logo", BoardID: design.ID, Tags: []string{"logo"},
	})
	mustAdd(board.AddImageParams{
		URL: "https://x/shot.png", Title: "Concert", BoardID: photos.ID, Tags: []string{"poster"},
	})
	return design, photos
}

func decodeImages(t *testing.T, rec *httptest.ResponseRecorder) []*core.ImageItem {
	t.Helper()
	var items []*core.ImageItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("failed to decode images: %v", err)
	}
	return items
}

func TestHandleAdd(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)
	created := store.CreateBoard(context.Background(), "Design")

	body := `{"url":"https://x/y.png","title":"Poster","tags":["Poster"],"boardId":"` + created.ID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var img core.ImageItem
	if err := json.NewDecoder(rec.Body).Decode(&img); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if img.BoardID != created.ID || img.Tags[0] != "poster" {
		t.Errorf("unexpected image: %+v", img)
	}
}

func TestHandleAdd_Errors(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"missing url", `{"boardId":"x"}`, http.StatusBadRequest},
		{"unknown board", `{"url":"https://x/y.png","boardId":"nope"}`, http.StatusNotFound},
		{"broken json", `{"url":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandleList_FilterSelection(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)
	design, _ := seed(t, store)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no filters", "", 3},
		{"tag AND across boards", "?tags=poster", 2},
		{"tag AND narrows", "?tags=poster,swiss", 1},
		{"color OR", "?colors=Red,Blue", 1},
		{"board scope", "?boards=" + design.ID, 2},
		{"search", "?search=concert", 1},
		{"combined", "?search=poster&tags=poster&boards=" + design.ID, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/images"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if got := decodeImages(t, rec); len(got) != tt.want {
				t.Errorf("visible images = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestHandleUpdate_Move(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)
	ctx := context.Background()
	design := store.CreateBoard(ctx, "Design")
	photos := store.CreateBoard(ctx, "Photos")
	img, err := store.AddImage(ctx, board.AddImageParams{URL: "https://x/y.png", BoardID: design.ID})
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPatch, "/api/images/"+img.ID,
		strings.NewReader(`{"boardId":"`+photos.ID+`"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var moved core.ImageItem
	if err := json.NewDecoder(rec.Body).Decode(&moved); err != nil {
		t.Fatal(err)
	}
	if moved.ID != img.ID || moved.BoardID != photos.ID {
		t.Errorf("unexpected image after move: %+v", moved)
	}
}

func TestHandleDelete_Idempotent(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)
	ctx := context.Background()
	created := store.CreateBoard(ctx, "Design")
	img, err := store.AddImage(ctx, board.AddImageParams{URL: "https://x/y.png", BoardID: created.ID})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/api/images/"+img.ID, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("delete #%d status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestHandleListTagsAndColors(t *testing.T) {
	store := newTestStore(t)
	router := newRouter(store)
	seed(t, store)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))
	var tags []string
	if err := json.NewDecoder(rec.Body).Decode(&tags); err != nil {
		t.Fatal(err)
	}
	want := []string{"logo", "poster", "swiss"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags = %v, want %v (sorted)", tags, want)
			break
		}
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/colors", nil))
	var colors []string
	if err := json.NewDecoder(rec.Body).Decode(&colors); err != nil {
		t.Fatal(err)
	}
	if len(colors) != 1 || colors[0] != "Red" {
		t.Errorf("colors = %v, want [Red]", colors)
	}
}
