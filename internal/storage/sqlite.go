package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/shopper-segments/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteSource reads transactions from a table in a SQLite database. Column
// names match the CSV header exactly.
type SQLiteSource struct {
	db     *sql.DB
	dbPath string
	table  string
}

// NewSQLiteSource opens the database read-only.
func NewSQLiteSource(dbPath, table string) (*SQLiteSource, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if err := validateString(table, "table"); err != nil {
		return nil, err
	}

	dsn := "file:" + dbPath + "?mode=ro&_busy_timeout=5000"
	if dbPath == ":memory:" || strings.HasPrefix(dbPath, "file:") {
		dsn = dbPath
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return newSQLiteSourceFromDB(db, dbPath, table), nil
}

func newSQLiteSourceFromDB(db *sql.DB, dbPath, table string) *SQLiteSource {
	return &SQLiteSource{db: db, dbPath: dbPath, table: table}
}

// Close closes the database connection.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Load checks the table schema and reads every row.
func (s *SQLiteSource) Load(ctx context.Context) (*model.Table, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	columns, err := s.tableColumns(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := newRowDecoder(columns); err != nil {
		return nil, err
	}

	selects := make([]string, len(model.RequiredColumns))
	for i, col := range model.RequiredColumns {
		selects[i] = fmt.Sprintf("CAST(%s AS TEXT)", quoteIdent(col))
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", strings.Join(selects, ", "), quoteIdent(s.table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	decoder, err := newRowDecoder(model.RequiredColumns)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	raw := make([]sql.NullString, len(model.RequiredColumns))
	dest := make([]any, len(raw))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for line := 1; rows.Next(); line++ {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", line, err)
		}

		cells := make([]string, len(raw))
		for i, v := range raw {
			if v.Valid {
				cells[i] = v.String
			}
		}

		tx, err := decoder.decode(cells, line)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return newTable(transactions, s.dbPath+"#"+s.table)
}

func (s *SQLiteSource) tableColumns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(s.table)))
	if err != nil {
		return nil, fmt.Errorf("failed to inspect table %s: %w", s.table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("failed to read table info: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s does not exist", s.table)
	}

	return columns, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
