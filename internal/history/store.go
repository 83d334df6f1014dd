package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Supported storage backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendCSV, BackendSQLite, BackendBolt}
}

// Store persists a snapshot of the log. Save replaces whatever was stored
// before; Load on a store that was never saved returns no records.
type Store interface {
	Load() ([]Record, error)
	Save(records []Record) error
	Close() error
}

// OpenStore opens the store for backend at path, creating parent
// directories as needed.
func OpenStore(backend, path string) (Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}
	switch strings.ToLower(backend) {
	case BackendCSV, "":
		return NewCSVStore(path), nil
	case BackendSQLite:
		return OpenSQLiteStore(path)
	case BackendBolt:
		return OpenBoltStore(path)
	default:
		return nil, fmt.Errorf("unknown history backend %q: supported backends are %s",
			backend, strings.Join(Backends(), ", "))
	}
}

// LoadInto replaces the log's records with the store's contents.
func LoadInto(l *Log, s Store) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	l.Replace(records)
	return nil
}
