package leads

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/cost"
	"github.com/sells-group/leadscout/pkg/google"
)

const (
	defaultMaxRequests    = 900
	defaultMaxPages       = 3
	defaultPageDelay      = 2 * time.Second
	defaultCandidateDelay = 1500 * time.Millisecond
)

// Options configures a Collector. Zero values fall back to the defaults
// except for the delays, where zero disables the wait.
type Options struct {
	MaxRequests    int
	MaxPages       int
	PageDelay      time.Duration
	CandidateDelay time.Duration
	APIKey         string
	Rates          *cost.Rates
}

// DefaultOptions returns the production throttle settings.
func DefaultOptions() Options {
	return Options{
		MaxRequests:    defaultMaxRequests,
		MaxPages:       defaultMaxPages,
		PageDelay:      defaultPageDelay,
		CandidateDelay: defaultCandidateDelay,
	}
}

// Collector runs budget-capped searches and persists the accepted leads.
// Runs are strictly sequential; a Collector must not be shared between
// concurrent runs.
type Collector struct {
	client  google.Client
	store   Store
	opts    Options
	builder *LeadBuilder
	costs   *cost.Calculator
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewCollector creates a Collector.
func NewCollector(client google.Client, store Store, opts Options) *Collector {
	if opts.MaxRequests <= 0 {
		opts.MaxRequests = defaultMaxRequests
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = defaultMaxPages
	}
	rates := cost.DefaultRates()
	if opts.Rates != nil {
		rates = *opts.Rates
	}
	return &Collector{
		client:  client,
		store:   store,
		opts:    opts,
		builder: NewLeadBuilder(opts.APIKey),
		costs:   cost.NewCalculator(rates),
		sleep:   sleepContext,
	}
}

// Query builds the text search query for a term, scoped to the neighborhood
// when one is given.
func Query(term string, req Request) string {
	if req.Neighborhood != "" {
		return term + " em " + req.Neighborhood + ", " + req.City + ", " + req.State
	}
	return term + " em " + req.City + ", " + req.State
}

// Run collects leads for every term in order. Upstream and store failures
// are logged and skipped; the only errors returned are for invalid requests.
// The run ends when the terms are done, the budget is spent, or ctx is
// canceled, and always yields a summary.
func (c *Collector) Run(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.State) == "" {
		return nil, eris.New("leads: city and state are required")
	}
	terms := make([]string, 0, len(req.Terms))
	for _, t := range req.Terms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, eris.New("leads: at least one search term is required")
	}

	runID := uuid.New().String()
	log := zap.L().With(
		zap.String("run_id", runID),
		zap.String("city", req.City),
		zap.String("state", req.State),
		zap.Stringer("policy", req.Policy),
	)

	budget := NewRequestBudget(c.opts.MaxRequests)
	known := LoadDedupIndex(ctx, c.store)
	log.Info("collection started",
		zap.Strings("terms", terms),
		zap.Int("max_requests", budget.Ceiling()),
		zap.Int("known_places", known.Len()),
	)

	r := &run{
		c:       c,
		req:     req,
		log:     log,
		budget:  budget,
		fetcher: NewDetailsFetcher(c.client, budget),
		known:   known,
		gateway: NewGateway(c.store),
		leads:   []Lead{},
	}
	r.summary.RunID = runID

	for _, term := range terms {
		if r.halted(ctx) {
			break
		}
		r.collectTerm(ctx, term)
	}

	s := &r.summary
	s.Inserted = len(r.leads)
	s.SearchCalls = budget.SearchCalls()
	s.DetailsCalls = budget.DetailsCalls()
	s.RequestsUsed = budget.Used()
	s.BudgetExhausted = budget.Exhausted()
	s.EstimatedCostUSD = c.costs.Places(s.SearchCalls, s.DetailsCalls)

	log.Info("collection finished",
		zap.Int("inserted", s.Inserted),
		zap.Int("leads_with_phone", s.LeadsWithPhone),
		zap.Int("leads_without_phone", s.LeadsWithoutPhone),
		zap.Int("known_skipped", s.KnownSkipped),
		zap.Int("already_stored", s.AlreadyStored),
		zap.Int("persist_failed", s.PersistFailed),
		zap.Int("requests_used", s.RequestsUsed),
		zap.Bool("budget_exhausted", s.BudgetExhausted),
		zap.Bool("interrupted", s.Interrupted),
		zap.Float64("estimated_cost_usd", s.EstimatedCostUSD),
	)

	return &Result{Leads: r.leads, Summary: *s}, nil
}

// run holds the mutable state of a single collection.
type run struct {
	c       *Collector
	req     Request
	log     *zap.Logger
	budget  *RequestBudget
	fetcher *DetailsFetcher
	known   *DedupIndex
	gateway *Gateway
	leads   []Lead
	summary RunSummary
}

// halted reports whether no more upstream calls may be made, either because
// the budget is spent or the context is done.
func (r *run) halted(ctx context.Context) bool {
	if ctx.Err() != nil {
		r.summary.Interrupted = true
		return true
	}
	return r.budget.Exhausted()
}

func (r *run) collectTerm(ctx context.Context, term string) {
	query := Query(term, r.req)
	log := r.log.With(zap.String("term", term), zap.String("query", query))

	var pageToken string
	for page := 0; page < r.c.opts.MaxPages; page++ {
		if r.halted(ctx) {
			return
		}
		if page > 0 {
			// Page tokens take a moment to become valid upstream.
			if err := r.c.sleep(ctx, r.c.opts.PageDelay); err != nil {
				r.summary.Interrupted = true
				return
			}
		}

		resp, err := r.c.client.TextSearch(ctx, google.TextSearchRequest{Query: query, PageToken: pageToken})
		if google.Answered(err) {
			r.budget.Record(CallSearch)
		}
		if err != nil {
			log.Warn("text search failed, moving to next term",
				zap.Int("page", page+1),
				zap.Bool("transient", google.IsTransient(err)),
				zap.Error(err),
			)
			return
		}
		log.Debug("text search page",
			zap.Int("page", page+1),
			zap.Int("results", len(resp.Results)),
			zap.Int("requests_used", r.budget.Used()),
		)

		for _, res := range resp.Results {
			if r.halted(ctx) {
				return
			}
			if res.PlaceID == "" {
				continue
			}
			if r.known.Contains(res.PlaceID) {
				r.summary.KnownSkipped++
				continue
			}

			r.processCandidate(ctx, term, res.PlaceID)

			if err := r.c.sleep(ctx, r.c.opts.CandidateDelay); err != nil {
				r.summary.Interrupted = true
				return
			}
		}

		if resp.NextPageToken == "" {
			return
		}
		pageToken = resp.NextPageToken
	}
}

func (r *run) processCandidate(ctx context.Context, term, placeID string) {
	log := r.log.With(zap.String("place_id", placeID))

	details := r.fetcher.Fetch(ctx, placeID)
	if details.IsEmpty() {
		r.summary.DetailsFailed++
		return
	}
	if !MatchesTerm(term, details.Name) {
		r.summary.Irrelevant++
		log.Debug("name does not match term", zap.String("name", details.Name), zap.String("term", term))
		return
	}
	if !r.req.Policy.Accept(details.FormattedPhoneNumber != "") {
		r.summary.PolicyRejected++
		return
	}

	lead := r.c.builder.Build(details, SearchContext{
		PlaceID: placeID,
		Term:    term,
		City:    r.req.City,
		State:   r.req.State,
	})

	switch r.gateway.Insert(ctx, lead) {
	case OutcomeInserted:
		r.leads = append(r.leads, lead)
		if lead.HasPhone() {
			r.summary.LeadsWithPhone++
		} else {
			r.summary.LeadsWithoutPhone++
		}
		log.Info("lead stored", zap.String("name", lead.Name), zap.Bool("has_phone", lead.HasPhone()))
	case OutcomeExisting:
		// Stored by an earlier candidate in this run or an outside writer; first acceptance wins.
		r.summary.AlreadyStored++
	default:
		r.summary.PersistFailed++
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
