package memory

import (
	"context"
	"encoding/json"
	"sync"

	"moodboard/core"

	"github.com/sirupsen/logrus"
)

// memStore keeps the serialized library document in memory. It is the
// default backend; contents are lost on restart.
type memStore struct {
	mu       sync.RWMutex
	document []byte
}

// NewStore creates a new in-memory store.
func NewStore() *memStore {
	return &memStore{}
}

func (s *memStore) Load(ctx context.Context) (*core.Library, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.document) == 0 {
		logrus.Info("No library document in memory, starting with default library")
		return core.DefaultLibrary(), nil
	}
	var lib core.Library
	if err := json.Unmarshal(s.document, &lib); err != nil {
		logrus.WithError(err).Error("Stored library document is malformed, substituting default")
		return core.DefaultLibrary(), nil
	}
	return &lib, nil
}

func (s *memStore) Save(ctx context.Context, lib *core.Library) error {
	data, err := json.Marshal(lib)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.document = data
	logrus.WithField("bytes", len(data)).Debug("Library saved to memory")
	return nil
}
