// Package export writes collected leads as JSON, YAML, or an XLSX workbook.
package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/leadscout/internal/leads"
)

// Format is an output encoding for lead dumps.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Write dumps leads to w in the given format.
func Write(w io.Writer, format Format, ls []leads.Lead) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, ls)
	case FormatYAML:
		return WriteYAML(w, ls)
	default:
		return eris.Errorf("export: unknown format %q", format)
	}
}

// WriteJSON writes leads as an indented JSON array. A nil slice is written as [].
func WriteJSON(w io.Writer, ls []leads.Lead) error {
	if ls == nil {
		ls = []leads.Lead{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return eris.Wrap(enc.Encode(ls), "export: encode json")
}

// WriteYAML writes leads as a YAML sequence.
func WriteYAML(w io.Writer, ls []leads.Lead) error {
	if ls == nil {
		ls = []leads.Lead{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ls); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	return eris.Wrap(enc.Close(), "export: close yaml encoder")
}
