package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIgnoreSQL_Dollar(t *testing.T) {
	sql, err := InsertIgnoreSQL(InsertConfig{
		Table:        "leads",
		Columns:      []string{"place_id", "name"},
		ConflictKeys: []string{"place_id"},
	}, Dollar)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "leads" ("place_id", "name") VALUES ($1, $2) ON CONFLICT ("place_id") DO NOTHING`, sql)
}

func TestInsertIgnoreSQL_QuestionWithNowColumns(t *testing.T) {
	sql, err := InsertIgnoreSQL(InsertConfig{
		Table:        "leads",
		Columns:      []string{"place_id", "status"},
		ConflictKeys: []string{"place_id"},
		NowColumns:   []string{"last_status_update_at"},
	}, Question)
	require.NoError(t, err)
	assert.Equal(t,
		`INSERT INTO "leads" ("place_id", "status", "last_status_update_at") VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT ("place_id") DO NOTHING`,
		sql)
}

func TestInsertIgnoreSQL_NoColumns(t *testing.T) {
	_, err := InsertIgnoreSQL(InsertConfig{
		Table:        "leads",
		ConflictKeys: []string{"place_id"},
	}, Dollar)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestInsertIgnoreSQL_NoConflictKeys(t *testing.T) {
	_, err := InsertIgnoreSQL(InsertConfig{
		Table:   "leads",
		Columns: []string{"place_id"},
	}, Dollar)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", `"simple"`},
		{"crm.leads", `"crm"."leads"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeTable(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"id", "name", "value"})
	assert.Equal(t, `"id", "name", "value"`, result)
}
