package leads

import "strings"

// ExtractNeighborhood pulls the neighborhood out of a Brazilian-style formatted
// address such as "Rua A, 123 - Centro, Recife - PE". The second comma segment
// is split on hyphens and its last part is returned, trimmed. Any other shape
// yields "".
func ExtractNeighborhood(addr string) string {
	parts := strings.Split(addr, ",")
	if len(parts) < 2 {
		return ""
	}
	sub := strings.Split(parts[1], "-")
	if len(sub) < 2 {
		return ""
	}
	return strings.TrimSpace(sub[len(sub)-1])
}
