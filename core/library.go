package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AllBoards is the sentinel active-board value meaning "no single board is
// selected, show everything".
const AllBoards = "all"

type (
	// ImageItem is a single saved visual reference. Only the remote URL is
	// stored, never the binary.
	ImageItem struct {
		ID      string   `json:"id"`
		URL     string   `json:"url"`
		Title   string   `json:"title"`
		Notes   string   `json:"notes"`
		Tags    []string `json:"tags"`
		Colors  []string `json:"colors"`
		BoardID string   `json:"boardId"`

		// Canvas placement. Nil means the image has not been placed yet.
		X      *float64 `json:"x,omitempty"`
		Y      *float64 `json:"y,omitempty"`
		Width  *float64 `json:"width,omitempty"`
		Height *float64 `json:"height,omitempty"`

		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// Board is a named, ordered collection of images with its own display
	// configuration.
	Board struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		Images       []*ImageItem `json:"images"`
		ViewSettings ViewSettings `json:"viewSettings"`
		CreatedAt    time.Time    `json:"createdAt"`
		UpdatedAt    time.Time    `json:"updatedAt"`
	}

	// Library is the whole persisted document: every board plus the active
	// board selection. It is always written and read as one unit.
	Library struct {
		Boards        []*Board `json:"boards"`
		ActiveBoardID string   `json:"activeBoardId"`
	}

	// LibraryStore defines the persistence layer for the library document.
	LibraryStore interface {
		// Load returns the persisted library, or a default library when no
		// document exists yet. A malformed document must be logged and
		// replaced by the default, never surfaced as an error to the caller.
		Load(ctx context.Context) (*Library, error)

		// Save persists the whole library document. Readers observe either
		// the previous or the new document, never a partial write.
		Save(ctx context.Context, lib *Library) error
	}
)

// DefaultLibrary is the state of a first run: one starter board, active.
func DefaultLibrary() *Library {
	now := time.Now()
	board := &Board{
		ID:           NewID(),
		Name:         "My Moodboard",
		Images:       []*ImageItem{},
		ViewSettings: DefaultViewSettings(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return &Library{
		Boards:        []*Board{board},
		ActiveBoardID: board.ID,
	}
}

// UnmarshalJSON fills in default view settings before decoding, so boards
// persisted without a viewSettings key hydrate to the documented defaults.
func (b *Board) UnmarshalJSON(data []byte) error {
	type boardAlias Board
	tmp := boardAlias{ViewSettings: DefaultViewSettings()}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*b = Board(tmp)
	if b.Images == nil {
		b.Images = []*ImageItem{}
	}
	return nil
}

// NormalizeTags trims, lowercases and de-duplicates tags, preserving the
// first-seen order. Empty entries are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// Validate checks the structural invariants a library document must satisfy
// before it may replace store state: unique non-empty board ids, every image
// carrying the id of its containing board, palette-only colors, and an
// active selection that references an existing board or the AllBoards
// sentinel.
func (l *Library) Validate() error {
	if l.Boards == nil {
		return fmt.Errorf("%w: missing boards list", ErrValidation)
	}
	boardIDs := make(map[string]bool, len(l.Boards))
	imageIDs := make(map[string]bool)
	for _, board := range l.Boards {
		if board == nil {
			return fmt.Errorf("%w: null board entry", ErrValidation)
		}
		if board.ID == "" {
			return fmt.Errorf("%w: board with empty id", ErrValidation)
		}
		if boardIDs[board.ID] {
			return fmt.Errorf("%w: duplicate board id %s", ErrValidation, board.ID)
		}
		boardIDs[board.ID] = true
		for _, img := range board.Images {
			if img == nil {
				return fmt.Errorf("%w: null image entry in board %s", ErrValidation, board.ID)
			}
			if img.ID == "" {
				return fmt.Errorf("%w: image with empty id in board %s", ErrValidation, board.ID)
			}
			if imageIDs[img.ID] {
				return fmt.Errorf("%w: duplicate image id %s", ErrValidation, img.ID)
			}
			imageIDs[img.ID] = true
			if img.URL == "" {
				return fmt.Errorf("%w: image %s has no url", ErrValidation, img.ID)
			}
			if img.BoardID != board.ID {
				return fmt.Errorf("%w: image %s references board %s but lives in board %s",
					ErrValidation, img.ID, img.BoardID, board.ID)
			}
			for _, color := range img.Colors {
				if !IsBasicColor(color) {
					return fmt.Errorf("%w: image %s has unknown color %q", ErrValidation, img.ID, color)
				}
			}
		}
	}
	if l.ActiveBoardID != AllBoards && !boardIDs[l.ActiveBoardID] {
		return fmt.Errorf("%w: active board %s does not exist", ErrValidation, l.ActiveBoardID)
	}
	return nil
}

// Clone returns a deep copy of the library. Mutating the copy never affects
// the original.
func (l *Library) Clone() *Library {
	out := &Library{
		Boards:        make([]*Board, 0, len(l.Boards)),
		ActiveBoardID: l.ActiveBoardID,
	}
	for _, board := range l.Boards {
		out.Boards = append(out.Boards, board.Clone())
	}
	return out
}

// Clone returns a deep copy of the board and its images.
func (b *Board) Clone() *Board {
	copied := *b
	copied.Images = make([]*ImageItem, 0, len(b.Images))
	for _, img := range b.Images {
		copied.Images = append(copied.Images, img.Clone())
	}
	return &copied
}

// Clone returns a deep copy of the image.
func (i *ImageItem) Clone() *ImageItem {
	copied := *i
	copied.Tags = append([]string{}, i.Tags...)
	copied.Colors = append([]string{}, i.Colors...)
	copied.X = cloneFloat(i.X)
	copied.Y = cloneFloat(i.Y)
	copied.Width = cloneFloat(i.Width)
	copied.Height = cloneFloat(i.Height)
	return &copied
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
