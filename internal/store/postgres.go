package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/db"
	"github.com/sells-group/leadscout/internal/leads"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var postgresInsertLead = insertLeadSQL(db.Dollar)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	place_id               TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	formatted_address      TEXT NOT NULL DEFAULT '',
	city                   TEXT NOT NULL DEFAULT '',
	state                  TEXT NOT NULL DEFAULT '',
	neighborhood           TEXT NOT NULL DEFAULT '',
	formatted_phone_number TEXT,
	latitude               DOUBLE PRECISION,
	longitude              DOUBLE PRECISION,
	image_urls             TEXT[] NOT NULL DEFAULT '{}',
	type                   TEXT NOT NULL DEFAULT '',
	collected_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	status                 TEXT NOT NULL DEFAULT 'Disponível',
	last_status_update_at  TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_leads_city_state ON leads(city, state);
CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// InsertLead runs the conflict-ignoring insert in its own transaction. The
// rollback is a no-op once the commit has succeeded.
func (s *PostgresStore) InsertLead(ctx context.Context, lead leads.Lead) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, eris.Wrap(err, "postgres: begin insert lead")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	imageURLs := lead.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}
	tag, err := tx.Exec(ctx, postgresInsertLead, leadArgs(lead, imageURLs, lead.CollectedAt.UTC())...)
	if err != nil {
		return false, eris.Wrapf(err, "postgres: insert lead %s", lead.PlaceID)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, eris.Wrapf(err, "postgres: commit lead %s", lead.PlaceID)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListPlaceIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT place_id FROM leads`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list place ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan place id")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list place ids rows")
}

// GetLead returns the stored lead, or nil when the place is unknown.
func (s *PostgresStore) GetLead(ctx context.Context, placeID string) (*leads.Lead, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectLeadColumns+` FROM leads WHERE place_id = $1`, placeID)

	var (
		l         leads.Lead
		phone     *string
		lat, lng  *float64
		imageURLs []string
	)
	err := row.Scan(&l.PlaceID, &l.Name, &l.FormattedAddress, &l.City, &l.State, &l.Neighborhood,
		&phone, &lat, &lng, &imageURLs, &l.Type, &l.CollectedAt, &l.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", placeID)
	}

	l.Phone = phone
	l.Coordinates = coordinates(lat, lng)
	l.ImageURLs = imageURLs
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
	return &l, nil
}

func (s *PostgresStore) CountLeads(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM leads`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "postgres: count leads")
	}
	return n, nil
}
