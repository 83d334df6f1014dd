package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
)

var csvHeader = []string{"command", "arguments", "result", "timestamp"}

// CSVStore keeps history in a CSV file with a command,arguments,result,timestamp header.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading history file %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		result, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("history file %s line %d: result %q: %w", s.path, i+2, row[2], err)
		}
		records = append(records, Record{
			Command:   row[0],
			Arguments: row[1],
			Result:    result,
			Timestamp: row[3],
		})
	}
	return records, nil
}

func (s *CSVStore) Save(records []Record) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating history file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("writing history header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Command, r.Arguments, formatFloat(r.Result), r.Timestamp}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("writing history record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flushing history file: %w", err)
	}
	return f.Close()
}

func (s *CSVStore) Close() error { return nil }
