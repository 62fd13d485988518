package db

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// Placeholder selects the bind parameter syntax of the target driver.
type Placeholder int

const (
	// Dollar renders $1, $2, ... (PostgreSQL).
	Dollar Placeholder = iota
	// Question renders ?, ?, ... (SQLite).
	Question
)

// InsertConfig defines the parameters for an insert-or-ignore statement.
type InsertConfig struct {
	Table        string   // target table (e.g., "leads")
	Columns      []string // columns supplied as bind parameters, in order
	ConflictKeys []string // columns forming the unique constraint
	NowColumns   []string // extra columns set to the statement's current timestamp
}

// InsertIgnoreSQL builds a single-row INSERT ... ON CONFLICT (keys) DO NOTHING.
// Both PostgreSQL and SQLite (3.24+) accept the generated statement.
func InsertIgnoreSQL(cfg InsertConfig, ph Placeholder) (string, error) {
	if len(cfg.Columns) == 0 {
		return "", eris.New("db: insert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return "", eris.New("db: insert: no conflict keys specified")
	}

	cols := make([]string, 0, len(cfg.Columns)+len(cfg.NowColumns))
	cols = append(cols, cfg.Columns...)
	cols = append(cols, cfg.NowColumns...)

	values := make([]string, 0, len(cols))
	for i := range cfg.Columns {
		values = append(values, placeholder(ph, i+1))
	}
	for range cfg.NowColumns {
		values = append(values, "CURRENT_TIMESTAMP")
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		sanitizeTable(cfg.Table),
		quoteAndJoin(cols),
		strings.Join(values, ", "),
		quoteAndJoin(cfg.ConflictKeys),
	), nil
}

func placeholder(ph Placeholder, n int) string {
	if ph == Question {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// sanitizeTable handles schema-qualified table names like "crm.leads".
func sanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// quoteAndJoin quotes each column name and joins with commas.
func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
