package leads

import (
	"context"

	"go.uber.org/zap"
)

// PlaceIDLister lists the identifiers of every stored lead.
type PlaceIDLister interface {
	ListPlaceIDs(ctx context.Context) ([]string, error)
}

// DedupIndex is a snapshot of the place ids stored before the run started.
// It is loaded once and not refreshed during the run.
type DedupIndex struct {
	ids map[string]struct{}
}

// NewDedupIndex builds an index from a list of place ids.
func NewDedupIndex(ids []string) *DedupIndex {
	idx := &DedupIndex{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		idx.ids[id] = struct{}{}
	}
	return idx
}

// LoadDedupIndex reads the stored place ids. A store failure is logged and
// yields an empty index: the run continues and may spend extra detail calls on
// known places, which the conflict-ignoring insert later absorbs.
func LoadDedupIndex(ctx context.Context, store PlaceIDLister) *DedupIndex {
	ids, err := store.ListPlaceIDs(ctx)
	if err != nil {
		zap.L().Error("load existing place ids failed, continuing with empty index", zap.Error(err))
		return NewDedupIndex(nil)
	}
	return NewDedupIndex(ids)
}

// Contains reports whether placeID was stored before the run.
func (d *DedupIndex) Contains(placeID string) bool {
	_, ok := d.ids[placeID]
	return ok
}

// Len returns the number of known place ids.
func (d *DedupIndex) Len() int {
	return len(d.ids)
}
