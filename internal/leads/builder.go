package leads

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/pkg/google"
)

// SearchContext is what the collector knows about a candidate before
// enrichment: its identifier and the query that surfaced it.
type SearchContext struct {
	PlaceID string
	Term    string
	City    string
	State   string
}

// LeadBuilder assembles Lead records from detail payloads.
type LeadBuilder struct {
	apiKey string
	now    func() time.Time
}

// NewLeadBuilder creates a builder. apiKey is embedded in photo URLs.
func NewLeadBuilder(apiKey string) *LeadBuilder {
	return &LeadBuilder{
		apiKey: apiKey,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Build creates the Lead for a candidate. Coordinates are set only when both
// latitude and longitude are present. Only the first photo is kept.
func (b *LeadBuilder) Build(d google.PlaceDetails, sc SearchContext) Lead {
	lead := Lead{
		PlaceID:          sc.PlaceID,
		Name:             d.Name,
		FormattedAddress: d.FormattedAddress,
		City:             sc.City,
		State:            sc.State,
		Neighborhood:     ExtractNeighborhood(d.FormattedAddress),
		Type:             sc.Term,
		CollectedAt:      b.now(),
		ImageURLs:        []string{},
		Status:           StatusAvailable,
	}

	if d.FormattedPhoneNumber != "" {
		phone := d.FormattedPhoneNumber
		lead.Phone = &phone
	}

	if d.Geometry != nil && d.Geometry.Location != nil {
		loc := d.Geometry.Location
		if loc.Lat != nil && loc.Lng != nil {
			lead.Coordinates = &Coordinates{Lat: *loc.Lat, Lng: *loc.Lng}
		}
	}

	if len(d.Photos) > 0 && d.Photos[0].PhotoReference != "" {
		lead.ImageURLs = append(lead.ImageURLs, google.PhotoURL(b.apiKey, d.Photos[0].PhotoReference))
	}

	if lead.Neighborhood == "" && d.FormattedAddress != "" {
		zap.L().Debug("neighborhood not found in address",
			zap.String("place_id", sc.PlaceID),
			zap.String("address", d.FormattedAddress),
		)
	}

	return lead
}
