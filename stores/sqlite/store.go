package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"moodboard/core"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// The library is a single document, so the table holds exactly one row.
const libraryRowID = 1

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based store.
func NewStore(dataSourceName string) *sqliteStore {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}

	tableStmt := `
	CREATE TABLE IF NOT EXISTS library (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL,
		updated_at DATETIME NOT NULL
	);`
	if _, err = db.Exec(tableStmt); err != nil {
		log.Fatalf("failed to create library table: %v", err)
	}

	return &sqliteStore{db}
}

func (s *sqliteStore) Load(ctx context.Context) (*core.Library, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM library WHERE id = ?", libraryRowID).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			logrus.Info("No library row yet, starting with default library")
			return core.DefaultLibrary(), nil
		}
		logrus.WithError(err).Error("Failed to read library row")
		return nil, fmt.Errorf("%w: select library: %v", core.ErrStorage, err)
	}

	var lib core.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		logrus.WithError(err).Error("Library row is malformed, substituting default")
		return core.DefaultLibrary(), nil
	}
	logrus.WithField("boards", len(lib.Boards)).Info("Library loaded")
	return &lib, nil
}

func (s *sqliteStore) Save(ctx context.Context, lib *core.Library) error {
	data, err := json.Marshal(lib)
	if err != nil {
		return fmt.Errorf("%w: marshal library: %v", core.ErrStorage, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO library (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		libraryRowID, data, time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to write library row")
		return fmt.Errorf("%w: upsert library: %v", core.ErrStorage, err)
	}

	logrus.WithField("bytes", len(data)).Debug("Library saved")
	return nil
}
