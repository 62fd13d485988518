package main

import (
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/cost"
	"github.com/sells-group/leadscout/internal/export"
	"github.com/sells-group/leadscout/internal/leads"
	"github.com/sells-group/leadscout/pkg/google"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect leads for a city from Google Places",
	Long: "Runs one text search per term in the given city, follows up to three result pages, " +
		"fetches details for unseen places, and stores the ones whose name matches the term. " +
		"Accepted leads are printed to stdout; logs go to stderr.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("collect"); err != nil {
			return err
		}

		req, err := collectRequest(cmd, cfg)
		if err != nil {
			return err
		}
		maxRequests, _ := cmd.Flags().GetInt("max-requests")
		format, _ := cmd.Flags().GetString("format")
		xlsxPath, _ := cmd.Flags().GetString("xlsx")

		log := zap.L().With(zap.String("command", "collect"))

		st, err := initStore(ctx, cfg.Store)
		if err != nil {
			return eris.Wrap(err, "collect: init store")
		}
		defer st.Close() //nolint:errcheck

		gClient := google.NewClient(cfg.Google.Key,
			google.WithBaseURL(cfg.Google.BaseURL),
			google.WithRateLimit(cfg.Google.RateLimit),
			google.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Google.TimeoutSecs) * time.Second}),
		)

		collector := leads.NewCollector(gClient, st, collectOptions(cfg, maxRequests))
		result, err := collector.Run(ctx, req)
		if err != nil {
			return eris.Wrap(err, "collect")
		}

		if err := export.Write(cmd.OutOrStdout(), export.Format(format), result.Leads); err != nil {
			return err
		}
		if xlsxPath != "" {
			if err := export.WriteXLSX(xlsxPath, result.Leads); err != nil {
				return err
			}
			log.Info("workbook written", zap.String("path", xlsxPath), zap.Int("leads", len(result.Leads)))
		}

		return nil
	},
}

// collectRequest reads the run parameters from flags, falling back to the
// configured terms. The phone flags are resolved into a policy here and
// nowhere else.
func collectRequest(cmd *cobra.Command, c *config.Config) (leads.Request, error) {
	city, _ := cmd.Flags().GetString("city")
	state, _ := cmd.Flags().GetString("state")
	terms, _ := cmd.Flags().GetStringSlice("terms")
	neighborhood, _ := cmd.Flags().GetString("neighborhood")
	withPhone, _ := cmd.Flags().GetBool("with-phone")
	withoutPhone, _ := cmd.Flags().GetBool("without-phone")

	if city == "" {
		return leads.Request{}, eris.New("--city is required")
	}
	if state == "" {
		return leads.Request{}, eris.New("--state is required")
	}
	if len(terms) == 0 {
		terms = c.Collect.Terms
	}
	if len(terms) == 0 {
		terms = config.DefaultTerms
	}

	return leads.Request{
		City:         city,
		State:        state,
		Terms:        terms,
		Neighborhood: neighborhood,
		Policy:       leads.ResolvePhonePolicy(withPhone, withoutPhone),
	}, nil
}

// collectOptions maps configuration onto collector options. A positive
// maxRequests flag overrides the configured ceiling.
func collectOptions(c *config.Config, maxRequests int) leads.Options {
	ceiling := c.Collect.MaxRequests
	if maxRequests > 0 {
		ceiling = maxRequests
	}
	return leads.Options{
		MaxRequests:    ceiling,
		MaxPages:       c.Collect.MaxPages,
		PageDelay:      c.Collect.PageDelay(),
		CandidateDelay: c.Collect.CandidateDelay(),
		APIKey:         c.Google.Key,
		Rates: &cost.Rates{Places: cost.PlacesRate{
			TextSearch: c.Pricing.Google.TextSearch,
			Details:    c.Pricing.Google.Details,
		}},
	}
}

func addCollectFlags(cmd *cobra.Command) {
	cmd.Flags().String("city", "", "city to search in (required)")
	cmd.Flags().String("state", "", "state abbreviation, e.g. PE (required)")
	cmd.Flags().StringSlice("terms", nil, "search terms (default from collect.terms)")
	cmd.Flags().String("neighborhood", "", "restrict queries to a neighborhood")
	cmd.Flags().Bool("with-phone", false, "keep only leads with a phone number")
	cmd.Flags().Bool("without-phone", false, "keep only leads without a phone number")
	cmd.Flags().Int("max-requests", 0, "request ceiling for this run (default from collect.max_requests)")
	cmd.Flags().String("format", "json", "stdout format: json or yaml")
	cmd.Flags().String("xlsx", "", "also write accepted leads to this workbook")
}

func init() {
	addCollectFlags(collectCmd)
	rootCmd.AddCommand(collectCmd)
}
