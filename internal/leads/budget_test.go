package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestBudget_CountsUntilCeiling(t *testing.T) {
	b := NewRequestBudget(3)
	assert.False(t, b.Exhausted())
	assert.Equal(t, 3, b.Remaining())

	b.Record(CallSearch)
	b.Record(CallDetails)
	assert.False(t, b.Exhausted())
	assert.Equal(t, 2, b.Used())
	assert.Equal(t, 1, b.Remaining())

	b.Record(CallDetails)
	assert.True(t, b.Exhausted())
	assert.Equal(t, 0, b.Remaining())
	assert.Equal(t, 1, b.SearchCalls())
	assert.Equal(t, 2, b.DetailsCalls())
	assert.Equal(t, 3, b.Ceiling())
}

func TestRequestBudget_ZeroCeiling(t *testing.T) {
	b := NewRequestBudget(0)
	assert.True(t, b.Exhausted())
	assert.Equal(t, 0, b.Remaining())

	neg := NewRequestBudget(-5)
	assert.True(t, neg.Exhausted())
	assert.Equal(t, 0, neg.Ceiling())
}

func TestRequestBudget_UnknownKindIgnored(t *testing.T) {
	b := NewRequestBudget(1)
	b.Record(CallKind(42))
	assert.Equal(t, 0, b.Used())
	assert.False(t, b.Exhausted())
}
