// Package filter computes the visible image subset from a library snapshot
// and the active filter selection. Everything here is a pure function; the
// handlers recompute on demand from fresh snapshots.
package filter

import (
	"sort"
	"strings"

	"moodboard/core"
)

// Selection is the combination of active filters. Zero values mean "filter
// inactive": an empty search term, tag set or color set do not restrict the
// result, and an empty board set (or one containing core.AllBoards) includes
// every board.
type Selection struct {
	SearchTerm string
	Tags       []string
	Colors     []string
	Boards     []string
}

// VisibleImages returns the images matching every active filter, in board
// order and per-board insertion order. Filters across categories are
// conjunctive; within the color category a single match suffices.
func VisibleImages(lib *core.Library, sel Selection) []*core.ImageItem {
	scope := boardScope(sel.Boards)
	search := strings.ToLower(strings.TrimSpace(sel.SearchTerm))
	tags := core.NormalizeTags(sel.Tags)

	var out []*core.ImageItem
	for _, board := range lib.Boards {
		if scope != nil && !scope[board.ID] {
			continue
		}
		for _, img := range board.Images {
			if !matchesSearch(img, search) {
				continue
			}
			if !hasAllTags(img, tags) {
				continue
			}
			if !hasAnyColor(img, sel.Colors) {
				continue
			}
			out = append(out, img)
		}
	}
	return out
}

// AllTags returns every tag used across the library, deduplicated and sorted.
func AllTags(lib *core.Library) []string {
	return collect(lib, func(img *core.ImageItem) []string { return img.Tags })
}

// AllColors returns every palette color in use, deduplicated and sorted.
func AllColors(lib *core.Library) []string {
	return collect(lib, func(img *core.ImageItem) []string { return img.Colors })
}

func collect(lib *core.Library, field func(*core.ImageItem) []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, board := range lib.Boards {
		for _, img := range board.Images {
			for _, v := range field(img) {
				if !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

// boardScope returns nil when every board is in scope.
func boardScope(boards []string) map[string]bool {
	if len(boards) == 0 {
		return nil
	}
	scope := make(map[string]bool, len(boards))
	for _, id := range boards {
		if id == core.AllBoards {
			return nil
		}
		scope[id] = true
	}
	return scope
}

func matchesSearch(img *core.ImageItem, term string) bool {
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(img.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(img.Notes), term) {
		return true
	}
	for _, tag := range img.Tags {
		if strings.Contains(tag, term) {
			return true
		}
	}
	for _, color := range img.Colors {
		if strings.Contains(strings.ToLower(color), term) {
			return true
		}
	}
	return false
}

// hasAllTags applies AND semantics: every selected tag must be present.
func hasAllTags(img *core.ImageItem, tags []string) bool {
	for _, want := range tags {
		found := false
		for _, have := range img.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasAnyColor applies OR semantics: at least one selected color must match.
func hasAnyColor(img *core.ImageItem, colors []string) bool {
	if len(colors) == 0 {
		return true
	}
	for _, want := range colors {
		for _, have := range img.Colors {
			if have == want {
				return true
			}
		}
	}
	return false
}
