package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/leads"
	"github.com/sells-group/leadscout/internal/store"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"collect", "migrate", "count"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "leadscout", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCollectCommand_Flags(t *testing.T) {
	for _, name := range []string{"city", "state", "terms", "neighborhood", "with-phone", "without-phone", "max-requests", "format", "xlsx"} {
		assert.NotNil(t, collectCmd.Flags().Lookup(name), "collect should have --%s flag", name)
	}
	assert.Equal(t, "json", collectCmd.Flags().Lookup("format").DefValue)
	assert.Equal(t, "0", collectCmd.Flags().Lookup("max-requests").DefValue)
}

func newCollectFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "collect"}
	addCollectFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func testConfig() *config.Config {
	return &config.Config{
		Google: config.GoogleConfig{Key: "k"},
		Collect: config.CollectConfig{
			MaxRequests:      900,
			MaxPages:         3,
			PageDelayMs:      2000,
			CandidateDelayMs: 1500,
			Terms:            []string{"Hotel"},
		},
		Pricing: config.PricingConfig{Google: config.GooglePricing{TextSearch: 0.032, Details: 0.017}},
	}
}

func TestCollectRequest(t *testing.T) {
	cmd := newCollectFlags(t, "--city", "Recife", "--state", "PE", "--terms", "Condomínio,Edifício", "--with-phone")

	req, err := collectRequest(cmd, testConfig())
	require.NoError(t, err)
	assert.Equal(t, "Recife", req.City)
	assert.Equal(t, "PE", req.State)
	assert.Equal(t, []string{"Condomínio", "Edifício"}, req.Terms)
	assert.Equal(t, leads.PolicyWithPhone, req.Policy)
}

func TestCollectRequest_DefaultsFromConfig(t *testing.T) {
	cmd := newCollectFlags(t, "--city", "Recife", "--state", "PE")

	req, err := collectRequest(cmd, testConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hotel"}, req.Terms)
	assert.Equal(t, leads.PolicyBoth, req.Policy)
}

func TestCollectRequest_BothPhoneFlags(t *testing.T) {
	cmd := newCollectFlags(t, "--city", "Recife", "--state", "PE", "--with-phone", "--without-phone")

	req, err := collectRequest(cmd, testConfig())
	require.NoError(t, err)
	assert.Equal(t, leads.PolicyBoth, req.Policy)
}

func TestCollectRequest_MissingCity(t *testing.T) {
	cmd := newCollectFlags(t, "--state", "PE")

	_, err := collectRequest(cmd, testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--city")
}

func TestCollectOptions(t *testing.T) {
	opts := collectOptions(testConfig(), 0)
	assert.Equal(t, 900, opts.MaxRequests)
	assert.Equal(t, 3, opts.MaxPages)
	assert.Equal(t, 2*time.Second, opts.PageDelay)
	assert.Equal(t, 1500*time.Millisecond, opts.CandidateDelay)
	assert.Equal(t, "k", opts.APIKey)
	require.NotNil(t, opts.Rates)
	assert.InDelta(t, 0.017, opts.Rates.Places.Details, 1e-9)

	assert.Equal(t, 5, collectOptions(testConfig(), 5).MaxRequests)
}

func TestInitStore_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.db")
	st, err := initStore(context.Background(), config.StoreConfig{Driver: "sqlite", DatabaseURL: path})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	_, ok := st.(*store.SQLiteStore)
	assert.True(t, ok)
	require.NoError(t, st.Migrate(context.Background()))

	n, err := st.CountLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestInitStore_UnknownDriver(t *testing.T) {
	_, err := initStore(context.Background(), config.StoreConfig{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestInitStore_SQLiteDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	st, err := initStore(context.Background(), config.StoreConfig{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	require.NoError(t, st.Migrate(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "leads.db"))
}
