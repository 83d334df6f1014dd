package history

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps history in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenSQLiteStore opens (or creates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		command TEXT NOT NULL,
		arguments TEXT NOT NULL,
		result TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);`)
	return err
}

func (s *SQLiteStore) Load() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT command, arguments, result, timestamp FROM history ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r      Record
			result string
		)
		if err := rows.Scan(&r.Command, &r.Arguments, &result, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if r.Result, err = parseResult(result); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Save(records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO history (command, arguments, result, timestamp) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing history insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(r.Command, r.Arguments, formatFloat(r.Result), r.Timestamp); err != nil {
			return fmt.Errorf("inserting history record: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
