package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/pkg/google"
)

func fptr(f float64) *float64 { return &f }

func fixedBuilder(key string, at time.Time) *LeadBuilder {
	b := NewLeadBuilder(key)
	b.now = func() time.Time { return at }
	return b
}

func TestLeadBuilder_Build(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := fixedBuilder("k3y", at)

	d := google.PlaceDetails{
		Name:                 "Condomínio Mar Azul",
		FormattedAddress:     "Rua A, 123 - Boa Viagem, Recife - PE, 51020-000, Brasil",
		FormattedPhoneNumber: "(81) 3333-4444",
		Geometry:             &google.Geometry{Location: &google.Location{Lat: fptr(-8.12), Lng: fptr(-34.9)}},
		Photos:               []google.Photo{{PhotoReference: "ref-1"}, {PhotoReference: "ref-2"}},
	}
	lead := b.Build(d, SearchContext{PlaceID: "p1", Term: "Condomínio", City: "Recife", State: "PE"})

	assert.Equal(t, "p1", lead.PlaceID)
	assert.Equal(t, "Condomínio Mar Azul", lead.Name)
	assert.Equal(t, "Boa Viagem", lead.Neighborhood)
	assert.Equal(t, "Recife", lead.City)
	assert.Equal(t, "PE", lead.State)
	assert.Equal(t, "Condomínio", lead.Type)
	assert.Equal(t, StatusAvailable, lead.Status)
	assert.Equal(t, at, lead.CollectedAt)
	require.NotNil(t, lead.Phone)
	assert.Equal(t, "(81) 3333-4444", *lead.Phone)
	assert.True(t, lead.HasPhone())
	require.NotNil(t, lead.Coordinates)
	assert.InDelta(t, -8.12, lead.Coordinates.Lat, 0.0001)
	assert.InDelta(t, -34.9, lead.Coordinates.Lng, 0.0001)
	assert.Equal(t, []string{google.PhotoURL("k3y", "ref-1")}, lead.ImageURLs)
}

func TestLeadBuilder_PartialCoordinates(t *testing.T) {
	b := NewLeadBuilder("k")
	d := google.PlaceDetails{
		Name:     "Hotel X",
		Geometry: &google.Geometry{Location: &google.Location{Lat: fptr(1.5)}},
	}
	lead := b.Build(d, SearchContext{PlaceID: "p"})
	assert.Nil(t, lead.Coordinates)
}

func TestLeadBuilder_NoPhotosNoPhone(t *testing.T) {
	b := NewLeadBuilder("k")
	lead := b.Build(google.PlaceDetails{Name: "Hotel X", FormattedAddress: "no commas here"}, SearchContext{PlaceID: "p"})

	assert.NotNil(t, lead.ImageURLs)
	assert.Empty(t, lead.ImageURLs)
	assert.Nil(t, lead.Phone)
	assert.False(t, lead.HasPhone())
	assert.Empty(t, lead.Neighborhood)
	assert.False(t, lead.CollectedAt.IsZero())
}
