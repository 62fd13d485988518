// Package leads implements budget-capped lead collection from Google Places:
// paginated text search, detail enrichment, filtering, and idempotent persistence.
package leads

import (
	"time"
)

// StatusAvailable is the status every lead is created with. Later transitions
// belong to the CRM that consumes the leads table.
const StatusAvailable = "Disponível"

// Lead is a business listing accepted for persistence. It is built once per
// place and never updated by this package.
type Lead struct {
	PlaceID          string       `json:"place_id" yaml:"place_id" db:"place_id"`
	Name             string       `json:"name" yaml:"name" db:"name"`
	FormattedAddress string       `json:"formatted_address" yaml:"formatted_address" db:"formatted_address"`
	City             string       `json:"city" yaml:"city" db:"city"`
	State            string       `json:"state" yaml:"state" db:"state"`
	Neighborhood     string       `json:"neighborhood" yaml:"neighborhood" db:"neighborhood"`
	Phone            *string      `json:"formatted_phone_number" yaml:"formatted_phone_number" db:"formatted_phone_number"`
	Type             string       `json:"type" yaml:"type" db:"type"`
	CollectedAt      time.Time    `json:"collection_date" yaml:"collection_date" db:"collected_at"`
	Coordinates      *Coordinates `json:"coordinates" yaml:"coordinates"`
	ImageURLs        []string     `json:"image_urls" yaml:"image_urls" db:"image_urls"`
	Status           string       `json:"status" yaml:"status" db:"status"`
}

// HasPhone reports whether the lead carries a phone number.
func (l Lead) HasPhone() bool {
	return l.Phone != nil && *l.Phone != ""
}

// Coordinates is a lat/lng pair. A lead has both or neither.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Request describes one collection run.
type Request struct {
	City         string
	State        string
	Terms        []string
	Neighborhood string
	Policy       PhonePolicy
}

// RunSummary holds the counters reported at the end of a run.
type RunSummary struct {
	RunID             string  `json:"run_id"`
	Inserted          int     `json:"inserted"`
	LeadsWithPhone    int     `json:"leads_with_phone"`
	LeadsWithoutPhone int     `json:"leads_without_phone"`
	KnownSkipped      int     `json:"known_skipped"`
	DetailsFailed     int     `json:"details_failed"`
	Irrelevant        int     `json:"irrelevant"`
	PolicyRejected    int     `json:"policy_rejected"`
	AlreadyStored     int     `json:"already_stored"`
	PersistFailed     int     `json:"persist_failed"`
	SearchCalls       int     `json:"search_calls"`
	DetailsCalls      int     `json:"details_calls"`
	RequestsUsed      int     `json:"requests_used"`
	BudgetExhausted   bool    `json:"budget_exhausted"`
	Interrupted       bool    `json:"interrupted"`
	EstimatedCostUSD  float64 `json:"estimated_cost_usd"`
}

// Result is the outcome of a run: accepted leads in acceptance order plus the summary.
type Result struct {
	Leads   []Lead     `json:"leads"`
	Summary RunSummary `json:"summary"`
}
