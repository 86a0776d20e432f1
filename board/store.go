package board

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"moodboard/core"

	"github.com/sirupsen/logrus"
)

// Store is the single authoritative in-memory state for all boards and their
// images. All mutation goes through its methods; callers only ever receive
// deep copies, so nested state cannot be mutated from outside. Every
// successful mutation is persisted wholesale through the LibraryStore.
type Store struct {
	mu      sync.RWMutex
	lib     *core.Library
	persist core.LibraryStore
}

// AddImageParams carries the caller-supplied fields for a new image. Exactly
// one of BoardID or NewBoardName selects the target board; when NewBoardName
// is set a board is created first and becomes the target.
type AddImageParams struct {
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	Notes        string   `json:"notes"`
	Tags         []string `json:"tags"`
	Colors       []string `json:"colors"`
	BoardID      string   `json:"boardId"`
	NewBoardName string   `json:"newBoardName"`
}

// ImagePatch is a partial image update. Nil fields are left untouched; a
// non-nil BoardID moves the image to that board.
type ImagePatch struct {
	URL     *string   `json:"url,omitempty"`
	Title   *string   `json:"title,omitempty"`
	Notes   *string   `json:"notes,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Colors  *[]string `json:"colors,omitempty"`
	BoardID *string   `json:"boardId,omitempty"`
	X       *float64  `json:"x,omitempty"`
	Y       *float64  `json:"y,omitempty"`
	Width   *float64  `json:"width,omitempty"`
	Height  *float64  `json:"height,omitempty"`
}

// NewStore hydrates a store from the persistence layer. A failed load is
// logged and the store starts from the default library; the session continues
// with in-memory state as authoritative.
func NewStore(ctx context.Context, persist core.LibraryStore) *Store {
	lib, err := persist.Load(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to load library, starting from default")
		lib = core.DefaultLibrary()
	}
	if err := lib.Validate(); err != nil {
		logrus.WithError(err).Error("Persisted library is inconsistent, starting from default")
		lib = core.DefaultLibrary()
	}
	return &Store{lib: lib, persist: persist}
}

// Snapshot returns a deep copy of the whole library for read paths (filter
// engine, export, rendering).
func (s *Store) Snapshot() *core.Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib.Clone()
}

// ActiveBoardID returns the current board selection, or core.AllBoards.
func (s *Store) ActiveBoardID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib.ActiveBoardID
}

// CreateBoard appends a new board with default view settings and makes it the
// active board. An empty name is substituted with a placeholder.
func (s *Store) CreateBoard(ctx context.Context, name string) *core.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	board := s.createBoardLocked(name)
	s.persistLocked(ctx, "create board")
	logrus.WithFields(logrus.Fields{"board_id": board.ID, "name": board.Name}).Info("Board created")
	return board.Clone()
}

func (s *Store) createBoardLocked(name string) *core.Board {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Untitled Board"
	}
	now := time.Now()
	board := &core.Board{
		ID:           core.NewID(),
		Name:         name,
		Images:       []*core.ImageItem{},
		ViewSettings: core.DefaultViewSettings(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.lib.Boards = append(s.lib.Boards, board)
	s.lib.ActiveBoardID = board.ID
	return board
}

// DeleteBoard removes a board and every image it contains. Deleting the
// active board falls the selection back to AllBoards. Unknown ids are an
// idempotent no-op.
func (s *Store) DeleteBoard(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.boardIndexLocked(id)
	if idx < 0 {
		logrus.WithField("board_id", id).Debug("Board already gone, delete is a no-op")
		return
	}
	removed := s.lib.Boards[idx]
	s.lib.Boards = append(s.lib.Boards[:idx], s.lib.Boards[idx+1:]...)
	if s.lib.ActiveBoardID == id {
		s.lib.ActiveBoardID = core.AllBoards
	}
	s.persistLocked(ctx, "delete board")
	logrus.WithFields(logrus.Fields{
		"board_id":       id,
		"deleted_images": len(removed.Images),
	}).Info("Board deleted with its images")
}

// RenameBoard updates a board's name in place. The trimmed name must be
// non-empty.
func (s *Store) RenameBoard(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: board name must not be empty", core.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	board := s.boardLocked(id)
	if board == nil {
		return fmt.Errorf("%w: board %s", core.ErrNotFound, id)
	}
	board.Name = name
	board.UpdatedAt = time.Now()
	s.persistLocked(ctx, "rename board")
	logrus.WithFields(logrus.Fields{"board_id": id, "name": name}).Info("Board renamed")
	return nil
}

// AddImage validates and appends a new image to the target board, assigning a
// fresh id, normalized tags and palette-checked colors. The finalized image
// is returned.
func (s *Store) AddImage(ctx context.Context, params AddImageParams) (*core.ImageItem, error) {
	if err := validateImageURL(params.URL); err != nil {
		return nil, err
	}
	if err := validateColors(params.Colors); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var target *core.Board
	if params.NewBoardName != "" {
		target = s.createBoardLocked(params.NewBoardName)
	} else {
		target = s.boardLocked(params.BoardID)
		if target == nil {
			return nil, fmt.Errorf("%w: board %s", core.ErrNotFound, params.BoardID)
		}
	}

	now := time.Now()
	img := &core.ImageItem{
		ID:        core.NewID(),
		URL:       params.URL,
		Title:     params.Title,
		Notes:     params.Notes,
		Tags:      core.NormalizeTags(params.Tags),
		Colors:    append([]string{}, params.Colors...),
		BoardID:   target.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	target.Images = append(target.Images, img)
	target.UpdatedAt = now
	s.persistLocked(ctx, "add image")
	logrus.WithFields(logrus.Fields{"image_id": img.ID, "board_id": target.ID}).Info("Image added")
	return img.Clone(), nil
}

// UpdateImage merges the patch into an existing image. Changing the board id
// moves the image: it is removed from its old board and appended to the new
// one, keeping its id. Unknown image or target board ids fail with NotFound
// and leave the store unmodified.
func (s *Store) UpdateImage(ctx context.Context, id string, patch ImagePatch) (*core.ImageItem, error) {
	if patch.URL != nil {
		if err := validateImageURL(*patch.URL); err != nil {
			return nil, err
		}
	}
	if patch.Colors != nil {
		if err := validateColors(*patch.Colors); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owner, idx, img := s.findImageLocked(id)
	if img == nil {
		return nil, fmt.Errorf("%w: image %s", core.ErrNotFound, id)
	}

	var moveTo *core.Board
	if patch.BoardID != nil && *patch.BoardID != owner.ID {
		moveTo = s.boardLocked(*patch.BoardID)
		if moveTo == nil {
			return nil, fmt.Errorf("%w: board %s", core.ErrNotFound, *patch.BoardID)
		}
	}

	if patch.URL != nil {
		img.URL = *patch.URL
	}
	if patch.Title != nil {
		img.Title = *patch.Title
	}
	if patch.Notes != nil {
		img.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		img.Tags = core.NormalizeTags(*patch.Tags)
	}
	if patch.Colors != nil {
		img.Colors = append([]string{}, (*patch.Colors)...)
	}
	if patch.X != nil {
		img.X = patch.X
	}
	if patch.Y != nil {
		img.Y = patch.Y
	}
	if patch.Width != nil {
		img.Width = patch.Width
	}
	if patch.Height != nil {
		img.Height = patch.Height
	}

	now := time.Now()
	img.UpdatedAt = now
	if moveTo != nil {
		owner.Images = append(owner.Images[:idx], owner.Images[idx+1:]...)
		owner.UpdatedAt = now
		img.BoardID = moveTo.ID
		moveTo.Images = append(moveTo.Images, img)
		moveTo.UpdatedAt = now
	}

	s.persistLocked(ctx, "update image")
	logrus.WithFields(logrus.Fields{
		"image_id": id,
		"board_id": img.BoardID,
		"moved":    moveTo != nil,
	}).Info("Image updated")
	return img.Clone(), nil
}

// DeleteImage removes an image from its owning board. Deleting an unknown id
// is an idempotent no-op, so a double-submitted delete never errors.
func (s *Store) DeleteImage(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, idx, img := s.findImageLocked(id)
	if img == nil {
		logrus.WithField("image_id", id).Debug("Image already gone, delete is a no-op")
		return
	}
	owner.Images = append(owner.Images[:idx], owner.Images[idx+1:]...)
	owner.UpdatedAt = time.Now()
	s.persistLocked(ctx, "delete image")
	logrus.WithFields(logrus.Fields{"image_id": id, "board_id": owner.ID}).Info("Image deleted")
}

// UpdateViewSettings shallow-merges a partial settings object into a board's
// view settings and returns the merged result.
func (s *Store) UpdateViewSettings(ctx context.Context, boardID string, patch core.ViewSettingsPatch) (*core.ViewSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board := s.boardLocked(boardID)
	if board == nil {
		return nil, fmt.Errorf("%w: board %s", core.ErrNotFound, boardID)
	}
	board.ViewSettings = patch.Apply(board.ViewSettings)
	board.UpdatedAt = time.Now()
	s.persistLocked(ctx, "update view settings")
	logrus.WithField("board_id", boardID).Info("View settings updated")

	merged := board.ViewSettings
	return &merged, nil
}

// SetActiveBoard changes the board selection to a known board id or the
// AllBoards sentinel.
func (s *Store) SetActiveBoard(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id != core.AllBoards && s.boardLocked(id) == nil {
		return fmt.Errorf("%w: board %s", core.ErrNotFound, id)
	}
	s.lib.ActiveBoardID = id
	s.persistLocked(ctx, "set active board")
	return nil
}

func (s *Store) boardIndexLocked(id string) int {
	for i, board := range s.lib.Boards {
		if board.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) boardLocked(id string) *core.Board {
	if idx := s.boardIndexLocked(id); idx >= 0 {
		return s.lib.Boards[idx]
	}
	return nil
}

func (s *Store) findImageLocked(id string) (*core.Board, int, *core.ImageItem) {
	for _, board := range s.lib.Boards {
		for i, img := range board.Images {
			if img.ID == id {
				return board, i, img
			}
		}
	}
	return nil, -1, nil
}

// persistLocked writes the whole library after a mutation. A write failure is
// logged and the session continues with memory as the authority; callers
// never see the error.
func (s *Store) persistLocked(ctx context.Context, op string) {
	if err := s.persist.Save(ctx, s.lib.Clone()); err != nil {
		logrus.WithError(err).WithField("operation", op).Error("Failed to persist library")
	}
}

func validateImageURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("%w: image url is required", core.ErrValidation)
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: image url must be an absolute http(s) url", core.ErrValidation)
	}
	return nil
}

func validateColors(colors []string) error {
	for _, color := range colors {
		if !core.IsBasicColor(color) {
			return fmt.Errorf("%w: unknown color %q", core.ErrValidation, color)
		}
	}
	return nil
}
