package leads

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/pkg/google"
)

// DetailsFetcher looks up place details under the run's request budget.
type DetailsFetcher struct {
	client google.Client
	budget *RequestBudget
	fields []string
}

// NewDetailsFetcher creates a DetailsFetcher requesting google.DetailFields.
func NewDetailsFetcher(client google.Client, budget *RequestBudget) *DetailsFetcher {
	return &DetailsFetcher{client: client, budget: budget, fields: google.DetailFields}
}

// Fetch returns the detail payload for placeID. It returns an empty payload
// without calling upstream when the budget is exhausted, and an empty payload
// when the call fails. The budget is charged for every call the API answered,
// including non-OK statuses such as NOT_FOUND or REQUEST_DENIED. Failed
// lookups are not retried; callers skip the candidate.
func (f *DetailsFetcher) Fetch(ctx context.Context, placeID string) google.PlaceDetails {
	log := zap.L().With(zap.String("place_id", placeID))

	if f.budget.Exhausted() {
		log.Warn("request budget exhausted, skipping details",
			zap.Int("used", f.budget.Used()),
			zap.Int("ceiling", f.budget.Ceiling()),
		)
		return google.PlaceDetails{}
	}

	resp, err := f.client.Details(ctx, placeID, f.fields)
	if google.Answered(err) {
		f.budget.Record(CallDetails)
	}
	if err != nil {
		log.Warn("details lookup failed",
			zap.Bool("transient", google.IsTransient(err)),
			zap.Error(err),
		)
		return google.PlaceDetails{}
	}
	if resp == nil {
		return google.PlaceDetails{}
	}
	return resp.Result
}
