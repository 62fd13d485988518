package export

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscout/internal/leads"
)

func sampleLeads() []leads.Lead {
	phone := "(81) 3333-4444"
	return []leads.Lead{
		{
			PlaceID:          "p1",
			Name:             "Condomínio Mar Azul",
			FormattedAddress: "Rua A, 123 - Boa Viagem, Recife - PE",
			City:             "Recife",
			State:            "PE",
			Neighborhood:     "Boa Viagem",
			Phone:            &phone,
			Type:             "Condomínio",
			CollectedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Coordinates:      &leads.Coordinates{Lat: -8.12, Lng: -34.9},
			ImageURLs:        []string{"https://maps.googleapis.com/maps/api/place/photo?maxwidth=400&photoreference=r&key=k"},
			Status:           leads.StatusAvailable,
		},
		{
			PlaceID:     "p2",
			Name:        "Hotel Central",
			City:        "Recife",
			State:       "PE",
			Type:        "Hotel",
			CollectedAt: time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC),
			ImageURLs:   []string{},
			Status:      leads.StatusAvailable,
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleLeads()))

	out := buf.String()
	assert.Contains(t, out, "\n    {")
	assert.Contains(t, out, `"formatted_phone_number": "(81) 3333-4444"`)
	assert.Contains(t, out, `"collection_date": "2026-03-01T12:00:00Z"`)
	assert.Contains(t, out, "&photoreference=")

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Nil(t, decoded[1]["formatted_phone_number"])
	assert.Nil(t, decoded[1]["coordinates"])
	assert.Equal(t, []any{}, decoded[1]["image_urls"])
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, sampleLeads()))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "p1", decoded[0]["place_id"])
	assert.Equal(t, "Boa Viagem", decoded[0]["neighborhood"])
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("csv"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	want := sampleLeads()
	require.NoError(t, WriteXLSX(path, want))

	got, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[0], got[0])
	assert.Equal(t, want[1].PlaceID, got[1].PlaceID)
	assert.Nil(t, got[1].Phone)
	assert.Nil(t, got[1].Coordinates)
	assert.Empty(t, got[1].ImageURLs)
}

func TestReadXLSX_MissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}
