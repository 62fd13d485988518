package leads

// CallKind identifies the upstream operation charged against the budget.
type CallKind int

const (
	// CallSearch is a Text Search page request.
	CallSearch CallKind = iota
	// CallDetails is a Place Details request.
	CallDetails
)

// RequestBudget caps the number of upstream calls made during one run. It is
// created per run, shared by pointer with every component that issues calls,
// and never reset. Not safe for concurrent use; the collector is sequential.
type RequestBudget struct {
	ceiling int
	search  int
	details int
}

// NewRequestBudget creates a budget with the given ceiling. A non-positive
// ceiling yields a budget that is exhausted from the start.
func NewRequestBudget(ceiling int) *RequestBudget {
	if ceiling < 0 {
		ceiling = 0
	}
	return &RequestBudget{ceiling: ceiling}
}

// Exhausted reports whether no further upstream call may be issued.
func (b *RequestBudget) Exhausted() bool {
	return b.Used() >= b.ceiling
}

// Record charges one completed call of the given kind.
func (b *RequestBudget) Record(kind CallKind) {
	switch kind {
	case CallSearch:
		b.search++
	case CallDetails:
		b.details++
	}
}

// Used returns the number of calls charged so far.
func (b *RequestBudget) Used() int {
	return b.search + b.details
}

// Remaining returns how many calls may still be issued.
func (b *RequestBudget) Remaining() int {
	if r := b.ceiling - b.Used(); r > 0 {
		return r
	}
	return 0
}

// Ceiling returns the configured maximum.
func (b *RequestBudget) Ceiling() int { return b.ceiling }

// SearchCalls returns the number of Text Search calls charged.
func (b *RequestBudget) SearchCalls() int { return b.search }

// DetailsCalls returns the number of Place Details calls charged.
func (b *RequestBudget) DetailsCalls() int { return b.details }
