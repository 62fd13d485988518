package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscout/internal/leads"
)

// SheetName is the worksheet written by WriteXLSX.
const SheetName = "Leads"

// Header is the fixed first row of an exported workbook.
var Header = []string{
	"place_id",
	"name",
	"formatted_address",
	"city",
	"state",
	"neighborhood",
	"formatted_phone_number",
	"type",
	"collection_date",
	"lat",
	"lng",
	"image_urls",
	"status",
}

// WriteXLSX saves leads to a workbook at path, one row per lead.
func WriteXLSX(path string, ls []leads.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	addRow(sheet, Header)
	for _, l := range ls {
		addRow(sheet, leadToRow(l))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "xlsx: save %s", path)
	}
	return nil
}

// ReadXLSX loads leads from a workbook written by WriteXLSX.
func ReadXLSX(path string) ([]leads.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}
	sheet, ok := f.Sheet[SheetName]
	if !ok {
		return nil, eris.Errorf("xlsx: sheet %q not found", SheetName)
	}

	var out []leads.Lead
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		l, err := rowToLead(rowToStrings(row))
		if err != nil {
			return nil, eris.Wrapf(err, "xlsx: row %d", i+1)
		}
		out = append(out, l)
	}
	return out, nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func leadToRow(l leads.Lead) []string {
	var phone, lat, lng string
	if l.Phone != nil {
		phone = *l.Phone
	}
	if l.Coordinates != nil {
		lat = strconv.FormatFloat(l.Coordinates.Lat, 'f', -1, 64)
		lng = strconv.FormatFloat(l.Coordinates.Lng, 'f', -1, 64)
	}
	return []string{
		l.PlaceID,
		l.Name,
		l.FormattedAddress,
		l.City,
		l.State,
		l.Neighborhood,
		phone,
		l.Type,
		l.CollectedAt.UTC().Format(time.RFC3339),
		lat,
		lng,
		strings.Join(l.ImageURLs, " "),
		l.Status,
	}
}

func rowToLead(cells []string) (leads.Lead, error) {
	col := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}

	l := leads.Lead{
		PlaceID:          col(0),
		Name:             col(1),
		FormattedAddress: col(2),
		City:             col(3),
		State:            col(4),
		Neighborhood:     col(5),
		Type:             col(7),
		ImageURLs:        strings.Fields(col(11)),
		Status:           col(12),
	}
	if phone := col(6); phone != "" {
		l.Phone = &phone
	}
	if ts := col(8); ts != "" {
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return l, eris.Wrap(err, "parse collection_date")
		}
		l.CollectedAt = t
	}
	if latS, lngS := col(9), col(10); latS != "" && lngS != "" {
		lat, err := strconv.ParseFloat(latS, 64)
		if err != nil {
			return l, eris.Wrap(err, "parse lat")
		}
		lng, err := strconv.ParseFloat(lngS, 64)
		if err != nil {
			return l, eris.Wrap(err, "parse lng")
		}
		l.Coordinates = &leads.Coordinates{Lat: lat, Lng: lng}
	}
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
	return l, nil
}
