package leads

import (
	"context"

	"go.uber.org/zap"
)

// Store is the persistence surface the collector needs. Implementations live
// in internal/store.
type Store interface {
	PlaceIDLister
	InsertLead(ctx context.Context, lead Lead) (bool, error)
}

// InsertOutcome is the result of handing a lead to the Gateway.
type InsertOutcome int

const (
	// OutcomeFailed means the datastore returned an error; nothing is guaranteed stored.
	OutcomeFailed InsertOutcome = iota
	// OutcomeInserted means a new row was written.
	OutcomeInserted
	// OutcomeExisting means the place_id was already stored and the insert was ignored.
	OutcomeExisting
)

// Persisted reports whether the store now holds a row for the lead.
func (o InsertOutcome) Persisted() bool {
	return o == OutcomeInserted || o == OutcomeExisting
}

// Gateway turns store errors into a logged, non-fatal outcome.
type Gateway struct {
	store Store
}

// NewGateway wraps a store.
func NewGateway(store Store) *Gateway {
	return &Gateway{store: store}
}

// Insert persists lead with insert-or-ignore semantics.
func (g *Gateway) Insert(ctx context.Context, lead Lead) InsertOutcome {
	inserted, err := g.store.InsertLead(ctx, lead)
	if err != nil {
		zap.L().Error("persist lead failed",
			zap.String("place_id", lead.PlaceID),
			zap.Error(err),
		)
		return OutcomeFailed
	}
	if !inserted {
		zap.L().Debug("lead already stored", zap.String("place_id", lead.PlaceID))
		return OutcomeExisting
	}
	return OutcomeInserted
}
