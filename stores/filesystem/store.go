package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"moodboard/core"

	"github.com/sirupsen/logrus"
)

const libraryFileName = "library.json"

type fsStore struct {
	basePath string
}

// NewStore creates a new filesystem-based store keeping the library in a
// single JSON file under basePath.
func NewStore(basePath string) *fsStore {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		log.Fatalf("failed to create base directory: %v", err)
	}
	return &fsStore{basePath: basePath}
}

func (s *fsStore) libraryPath() string {
	return filepath.Join(s.basePath, libraryFileName)
}

func (s *fsStore) Load(ctx context.Context) (*core.Library, error) {
	filePath := s.libraryPath()
	logEntry := logrus.WithField("file_path", filePath)

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			logEntry.Info("No library file yet, starting with default library")
			return core.DefaultLibrary(), nil
		}
		logEntry.WithError(err).Error("Failed to read library file")
		return nil, fmt.Errorf("%w: read %s: %v", core.ErrStorage, filePath, err)
	}

	var lib core.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		logEntry.WithError(err).Error("Library file is malformed, substituting default")
		return core.DefaultLibrary(), nil
	}
	logEntry.WithField("boards", len(lib.Boards)).Info("Library loaded")
	return &lib, nil
}

// Save writes the document to a temp file and renames it into place, so a
// concurrent reader sees either the old or the new file, never a torn write.
func (s *fsStore) Save(ctx context.Context, lib *core.Library) error {
	filePath := s.libraryPath()
	logEntry := logrus.WithField("file_path", filePath)

	data, err := json.Marshal(lib)
	if err != nil {
		logEntry.WithError(err).Error("Failed to marshal library")
		return fmt.Errorf("%w: marshal library: %v", core.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(s.basePath, libraryFileName+".tmp-*")
	if err != nil {
		logEntry.WithError(err).Error("Failed to create temp file")
		return fmt.Errorf("%w: create temp file: %v", core.ErrStorage, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		logEntry.WithError(err).Error("Failed to write library")
		return fmt.Errorf("%w: write %s: %v", core.ErrStorage, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: close %s: %v", core.ErrStorage, tmpPath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		logEntry.WithError(err).Error("Failed to replace library file")
		return fmt.Errorf("%w: rename %s: %v", core.ErrStorage, tmpPath, err)
	}

	logEntry.WithField("bytes", len(data)).Debug("Library saved")
	return nil
}
