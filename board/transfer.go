package board

import (
	"context"
	"encoding/json"
	"fmt"

	"moodboard/core"

	"github.com/sirupsen/logrus"
)

// Export serializes the whole library to an indented JSON document suitable
// for download. The document round-trips through Import unchanged.
func (s *Store) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return json.MarshalIndent(s.lib, "", "  ")
}

// Import parses and validates a library document and replaces the store
// state wholesale, persisting immediately. A document that fails structural
// validation is rejected and the current state is left untouched; there is
// no partial import.
func (s *Store) Import(ctx context.Context, data []byte) error {
	var lib core.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return fmt.Errorf("%w: not a library document: %v", core.ErrValidation, err)
	}
	if err := lib.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lib = &lib
	s.persistLocked(ctx, "import library")
	logrus.WithField("boards", len(lib.Boards)).Info("Library replaced by import")
	return nil
}
