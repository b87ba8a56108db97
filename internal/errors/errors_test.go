package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	t.Parallel()

	ee := Newf("boom").Build()
	assert.Equal(t, ComponentUnknown, ee.Component)
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.Equal(t, "boom", ee.Error())
}

func TestBuilderMetadata(t *testing.T) {
	t.Parallel()

	ee := Newf("insert failed").
		Component("ordertable").
		Category(CategoryDatabase).
		Priority(PriorityHigh).
		Context("operation", "insert").
		Context("order_id", uint64(42)).
		Build()

	assert.Equal(t, "ordertable", ee.Component)
	assert.Equal(t, CategoryDatabase, ee.Category)
	assert.Equal(t, PriorityHigh, ee.Priority)

	ctx := ee.GetContext()
	require.NotNil(t, ctx)
	assert.Equal(t, "insert", ctx["operation"])
	assert.Equal(t, uint64(42), ctx["order_id"])

	// Returned context is a copy
	ctx["operation"] = "mutated"
	assert.Equal(t, "insert", ee.GetContext()["operation"])
}

func TestInvalidPriorityFallsBackToMedium(t *testing.T) {
	t.Parallel()

	ee := Newf("x").Priority("urgent!!").Build()
	assert.Equal(t, PriorityMedium, ee.Priority)
}

func TestIsMatchesByCategory(t *testing.T) {
	t.Parallel()

	a := Newf("a").Category(CategoryRecordLoad).Build()
	b := Newf("b").Category(CategoryRecordLoad).Build()
	c := Newf("c").Category(CategoryDatabase).Build()

	assert.True(t, Is(a, b))
	assert.False(t, Is(a, c))
}

func TestUnwrapPreservesSentinel(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("row not found")
	wrapped := New(sentinel).Category(CategoryNotFound).Build()

	assert.True(t, Is(wrapped, sentinel))
}
