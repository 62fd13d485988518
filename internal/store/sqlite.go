package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadscout/internal/db"
	"github.com/sells-group/leadscout/internal/leads"
)

// SQLiteStore implements Store using modernc.org/sqlite. image_urls is kept
// as a JSON array and collected_at as RFC 3339 text.
type SQLiteStore struct {
	db *sql.DB
}

var sqliteInsertLead = insertLeadSQL(db.Question)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: conn}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	place_id               TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	formatted_address      TEXT NOT NULL DEFAULT '',
	city                   TEXT NOT NULL DEFAULT '',
	state                  TEXT NOT NULL DEFAULT '',
	neighborhood           TEXT NOT NULL DEFAULT '',
	formatted_phone_number TEXT,
	latitude               REAL,
	longitude              REAL,
	image_urls             TEXT NOT NULL DEFAULT '[]',
	type                   TEXT NOT NULL DEFAULT '',
	collected_at           TEXT NOT NULL,
	status                 TEXT NOT NULL DEFAULT 'Disponível',
	last_status_update_at  DATETIME
);

CREATE INDEX IF NOT EXISTS idx_leads_city_state ON leads(city, state);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// InsertLead runs the conflict-ignoring insert in its own transaction.
func (s *SQLiteStore) InsertLead(ctx context.Context, lead leads.Lead) (bool, error) {
	imageURLs := lead.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	urlsJSON, err := json.Marshal(imageURLs)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: marshal image urls")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: begin insert lead")
	}
	defer tx.Rollback() //nolint:errcheck

	collectedAt := lead.CollectedAt.UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(ctx, sqliteInsertLead, leadArgs(lead, string(urlsJSON), collectedAt)...)
	if err != nil {
		return false, eris.Wrapf(err, "sqlite: insert lead %s", lead.PlaceID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: rows affected")
	}

	if err := tx.Commit(); err != nil {
		return false, eris.Wrapf(err, "sqlite: commit lead %s", lead.PlaceID)
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListPlaceIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT place_id FROM leads`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list place ids")
	}
	defer rows.Close() //nolint:errcheck

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan place id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: list place ids rows")
}

// GetLead returns the stored lead, or nil when the place is unknown.
func (s *SQLiteStore) GetLead(ctx context.Context, placeID string) (*leads.Lead, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectLeadColumns+` FROM leads WHERE place_id = ?`, placeID)

	var (
		l           leads.Lead
		phone       sql.NullString
		lat, lng    sql.NullFloat64
		urlsJSON    string
		collectedAt string
	)
	err := row.Scan(&l.PlaceID, &l.Name, &l.FormattedAddress, &l.City, &l.State, &l.Neighborhood,
		&phone, &lat, &lng, &urlsJSON, &l.Type, &collectedAt, &l.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", placeID)
	}

	if phone.Valid {
		l.Phone = &phone.String
	}
	if lat.Valid && lng.Valid {
		l.Coordinates = &leads.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if err := json.Unmarshal([]byte(urlsJSON), &l.ImageURLs); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal image urls %s", placeID)
	}
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
	if l.CollectedAt, err = time.Parse(time.RFC3339Nano, collectedAt); err != nil {
		return nil, eris.Wrapf(err, "sqlite: parse collected_at %s", placeID)
	}
	return &l, nil
}

func (s *SQLiteStore) CountLeads(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM leads`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count leads")
	}
	return n, nil
}
