// Package store persists leads in Postgres or SQLite. Every insert is
// conflict-ignoring on place_id, so writing the same place twice leaves one row.
package store

import (
	"context"

	"github.com/sells-group/leadscout/internal/db"
	"github.com/sells-group/leadscout/internal/leads"
)

// Store defines the persistence interface for collected leads.
type Store interface {
	// InsertLead stores the lead unless its place_id already exists. It
	// reports whether a new row was written.
	InsertLead(ctx context.Context, lead leads.Lead) (bool, error)
	ListPlaceIDs(ctx context.Context) ([]string, error)
	GetLead(ctx context.Context, placeID string) (*leads.Lead, error)
	CountLeads(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// leadColumns is the insert column order shared by both drivers.
var leadColumns = []string{
	"place_id",
	"name",
	"formatted_address",
	"city",
	"state",
	"neighborhood",
	"formatted_phone_number",
	"latitude",
	"longitude",
	"image_urls",
	"type",
	"collected_at",
	"status",
}

const selectLeadColumns = `place_id, name, formatted_address, city, state, neighborhood,
	formatted_phone_number, latitude, longitude, image_urls, type, collected_at, status`

func insertLeadSQL(ph db.Placeholder) string {
	q, err := db.InsertIgnoreSQL(db.InsertConfig{
		Table:        "leads",
		Columns:      leadColumns,
		ConflictKeys: []string{"place_id"},
		NowColumns:   []string{"last_status_update_at"},
	}, ph)
	if err != nil {
		// The config above is static and always valid.
		panic(err)
	}
	return q
}

// leadArgs flattens a lead in leadColumns order. Coordinates become two
// nullable columns.
func leadArgs(l leads.Lead, imageURLs any, collectedAt any) []any {
	var lat, lng any
	if l.Coordinates != nil {
		lat, lng = l.Coordinates.Lat, l.Coordinates.Lng
	}
	var phone any
	if l.Phone != nil {
		phone = *l.Phone
	}
	status := l.Status
	if status == "" {
		status = leads.StatusAvailable
	}
	return []any{
		l.PlaceID,
		l.Name,
		l.FormattedAddress,
		l.City,
		l.State,
		l.Neighborhood,
		phone,
		lat,
		lng,
		imageURLs,
		l.Type,
		collectedAt,
		status,
	}
}

func coordinates(lat, lng *float64) *leads.Coordinates {
	if lat == nil || lng == nil {
		return nil
	}
	return &leads.Coordinates{Lat: *lat, Lng: *lng}
}
