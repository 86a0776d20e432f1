package core

import (
	"reflect"
	"testing"
)

func validLibrary() *Library {
	img := &ImageItem{ID: "i1", URL: "https://example.com/a.png", BoardID: "b1", Colors: []string{"Red"}}
	board := &Board{
		ID:           "b1",
		Name:         "Design",
		Images:       []*ImageItem{img},
		ViewSettings: DefaultViewSettings(),
	}
	return &Library{Boards: []*Board{board}, ActiveBoardID: "b1"}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Poster ", "poster", "TYPE", "", "type", "art"})
	want := []string{"poster", "type", "art"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags() = %v, want %v", got, want)
	}
}

func TestLibrary_ValidateOK(t *testing.T) {
	if err := validLibrary().Validate(); err != nil {
		t.Errorf("Validate() failed for a valid library: %v", err)
	}

	lib := validLibrary()
	lib.ActiveBoardID = AllBoards
	if err := lib.Validate(); err != nil {
		t.Errorf("Validate() should accept the all-boards sentinel: %v", err)
	}
}

func TestLibrary_ValidateFailures(t *testing.T) {
	tests := []struct {
		name  string
		corrupt func(*Library)
	}{
		{"missing boards list", func(l *Library) { l.Boards = nil }},
		{"empty board id", func(l *Library) { l.Boards[0].ID = "" }},
		{"duplicate board id", func(l *Library) { l.Boards = append(l.Boards, &Board{ID: "b1"}) }},
		{"empty image id", func(l *Library) { l.Boards[0].Images[0].ID = "" }},
		{"missing image url", func(l *Library) { l.Boards[0].Images[0].URL = "" }},
		{"board reference mismatch", func(l *Library) { l.Boards[0].Images[0].BoardID = "other" }},
		{"unknown color", func(l *Library) { l.Boards[0].Images[0].Colors = []string{"Magenta"} }},
		{"dangling active board", func(l *Library) { l.ActiveBoardID = "gone" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib := validLibrary()
			tt.corrupt(lib)
			err := lib.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !IsValidation(err) {
				t.Errorf("Validate() error should wrap ErrValidation, got %v", err)
			}
		})
	}
}

func TestLibrary_CloneIsDeep(t *testing.T) {
	lib := validLibrary()
	copied := lib.Clone()

	copied.Boards[0].Name = "changed"
	copied.Boards[0].Images[0].Tags = append(copied.Boards[0].Images[0].Tags, "new")
	copied.Boards[0].Images[0].Colors[0] = "Blue"

	if lib.Boards[0].Name != "Design" {
		t.Error("mutating the clone changed the original board name")
	}
	if len(lib.Boards[0].Images[0].Tags) != 0 {
		t.Error("mutating the clone changed the original image tags")
	}
	if lib.Boards[0].Images[0].Colors[0] != "Red" {
		t.Error("mutating the clone changed the original image colors")
	}
}

func TestIsBasicColor(t *testing.T) {
	for _, c := range BasicColors {
		if !IsBasicColor(c) {
			t.Errorf("IsBasicColor(%q) = false, want true", c)
		}
	}
	for _, c := range []string{"red", "Magenta", ""} {
		if IsBasicColor(c) {
			t.Errorf("IsBasicColor(%q) = true, want false", c)
		}
	}
}
