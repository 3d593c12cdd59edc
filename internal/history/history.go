// Package history keeps a local journal of load attempts and recently
// played clips in SQLite.
package history

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/endoreels/reelplayer/internal/config"
)

const (
	appName    = "reelplayer"
	dbFileName = "history.db"
)

type Manager struct {
	db  *sql.DB
	cfg config.HistoryConfig
}

func Open(cfg config.HistoryConfig) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(dbPath, cfg)
}

// OpenAt opens the journal at an explicit path. Used by tests.
func OpenAt(dbPath string, cfg config.HistoryConfig) (*Manager, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, cfg: cfg}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
