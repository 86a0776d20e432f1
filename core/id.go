package core

import "github.com/oklog/ulid/v2"

// NewID returns a fresh ULID string, used for board and image ids.
func NewID() string {
	return ulid.Make().String()
}
