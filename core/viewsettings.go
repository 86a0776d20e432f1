package core

import "encoding/json"

type (
	// ViewMode selects how a board is rendered.
	ViewMode string

	// CoverPosition places the cover image in list rows.
	CoverPosition string

	// BackgroundPattern is the canvas backdrop, only meaningful in canvas mode.
	BackgroundPattern string
)

const (
	ViewModeMoodboard ViewMode = "moodboard"
	ViewModeList      ViewMode = "list"
	ViewModeCanvas    ViewMode = "canvas"

	CoverPositionLeft  CoverPosition = "left"
	CoverPositionRight CoverPosition = "right"

	BackgroundNone  BackgroundPattern = "none"
	BackgroundDots  BackgroundPattern = "dots"
	BackgroundGrid  BackgroundPattern = "grid"
	BackgroundLines BackgroundPattern = "lines"
)

const (
	MinGridColumns     = 1
	MaxGridColumns     = 5
	DefaultGridColumns = 3
)

// ViewSettings holds per-board display preferences. Every field has a
// default; documents missing a key hydrate to the default rather than the
// zero value.
type ViewSettings struct {
	ViewMode          ViewMode          `json:"viewMode"`
	GridColumns       int               `json:"gridColumns"`
	ListShowCover     bool              `json:"listShowCover"`
	ListShowTitle     bool              `json:"listShowTitle"`
	ListShowNotes     bool              `json:"listShowNotes"`
	ListShowTags      bool              `json:"listShowTags"`
	ListCoverPosition CoverPosition     `json:"listCoverPosition"`
	BackgroundPattern BackgroundPattern `json:"backgroundPattern"`
}

// ViewSettingsPatch is a partial ViewSettings; nil fields are left untouched
// by Apply. It doubles as the JSON shape for partial-update requests.
type ViewSettingsPatch struct {
	ViewMode          *ViewMode          `json:"viewMode,omitempty"`
	GridColumns       *int               `json:"gridColumns,omitempty"`
	ListShowCover     *bool              `json:"listShowCover,omitempty"`
	ListShowTitle     *bool              `json:"listShowTitle,omitempty"`
	ListShowNotes     *bool              `json:"listShowNotes,omitempty"`
	ListShowTags      *bool              `json:"listShowTags,omitempty"`
	ListCoverPosition *CoverPosition     `json:"listCoverPosition,omitempty"`
	BackgroundPattern *BackgroundPattern `json:"backgroundPattern,omitempty"`
}

// DefaultViewSettings returns the documented defaults for a fresh board.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		ViewMode:          ViewModeMoodboard,
		GridColumns:       DefaultGridColumns,
		ListShowCover:     true,
		ListShowTitle:     true,
		ListShowNotes:     false,
		ListShowTags:      true,
		ListCoverPosition: CoverPositionLeft,
		BackgroundPattern: BackgroundDots,
	}
}

// Apply shallow-merges the patch onto s and returns the result, clamping
// GridColumns to its bounds and falling back to defaults for unknown enum
// values.
func (p ViewSettingsPatch) Apply(s ViewSettings) ViewSettings {
	if p.ViewMode != nil {
		s.ViewMode = *p.ViewMode
	}
	if p.GridColumns != nil {
		s.GridColumns = *p.GridColumns
	}
	if p.ListShowCover != nil {
		s.ListShowCover = *p.ListShowCover
	}
	if p.ListShowTitle != nil {
		s.ListShowTitle = *p.ListShowTitle
	}
	if p.ListShowNotes != nil {
		s.ListShowNotes = *p.ListShowNotes
	}
	if p.ListShowTags != nil {
		s.ListShowTags = *p.ListShowTags
	}
	if p.ListCoverPosition != nil {
		s.ListCoverPosition = *p.ListCoverPosition
	}
	if p.BackgroundPattern != nil {
		s.BackgroundPattern = *p.BackgroundPattern
	}
	s.normalize()
	return s
}

func (s *ViewSettings) normalize() {
	switch s.ViewMode {
	case ViewModeMoodboard, ViewModeList, ViewModeCanvas:
	default:
		s.ViewMode = ViewModeMoodboard
	}
	if s.GridColumns < MinGridColumns || s.GridColumns > MaxGridColumns {
		s.GridColumns = DefaultGridColumns
	}
	switch s.ListCoverPosition {
	case CoverPositionLeft, CoverPositionRight:
	default:
		s.ListCoverPosition = CoverPositionLeft
	}
	switch s.BackgroundPattern {
	case BackgroundNone, BackgroundDots, BackgroundGrid, BackgroundLines:
	default:
		s.BackgroundPattern = BackgroundDots
	}
}

// UnmarshalJSON hydrates settings as a patch over the defaults, so documents
// written by older versions (or hand-edited ones missing keys) never lose
// fields to zero values.
func (s *ViewSettings) UnmarshalJSON(data []byte) error {
	var patch ViewSettingsPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return err
	}
	*s = patch.Apply(DefaultViewSettings())
	return nil
}
