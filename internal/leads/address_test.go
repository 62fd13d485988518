package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNeighborhood(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{"standard", "Rua A, 123 - Centro, Recife - PE", "Centro"},
		{"full google address", "Av. Boa Viagem, 5000 - Boa Viagem, Recife - PE, 51030-000, Brasil", "Boa Viagem"},
		{"no commas", "no commas here", ""},
		{"empty", "", ""},
		{"no hyphen in second segment", "Rua B, 45, Olinda - PE", ""},
		{"multiple hyphens uses last", "Rua C, 10 - Bloco A - Torre, Recife", "Torre"},
		{"trailing hyphen", "Rua D, 10 -, Recife", ""},
		{"extra whitespace", "Rua E,  7  -   Casa Forte  , Recife", "Casa Forte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNeighborhood(tt.addr))
		})
	}
}
