package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/shopper-segments/internal/model"
)

// CSVSource reads transactions from a comma separated file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV source for path.
func NewCSVSource(path string) (*CSVSource, error) {
	if err := validateString(path, "path"); err != nil {
		return nil, err
	}
	return &CSVSource{path: path}, nil
}

// Load reads the whole file.
func (s *CSVSource) Load(ctx context.Context) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	return newTable(rows, s.path)
}

// ReadCSV decodes transactions from r. The header must contain every
// required column; extra columns are ignored.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.Transaction, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	decoder, err := newRowDecoder(header)
	if err != nil {
		return nil, err
	}

	var rows []model.Transaction
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		tx, err := decoder.decode(cells, line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, tx)
	}

	return rows, nil
}
