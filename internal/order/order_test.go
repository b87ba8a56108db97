package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderStartsClean(t *testing.T) {
	t.Parallel()

	o := NewOrder(7)
	assert.Equal(t, uint64(7), o.ID())
	assert.Equal(t, TypeOrder, o.Type())
	assert.Empty(t, o.Changed())
}

func TestSetterRecordsChange(t *testing.T) {
	t.Parallel()

	o := NewOrder(1)
	o.SetTotal("19.99")

	assert.Equal(t, []string{ColTotal}, o.Changed())
	prev, ok := o.Previous(ColTotal)
	assert.True(t, ok)
	assert.Equal(t, "", prev)
}

func TestSetterSameValueIsNotJournaled(t *testing.T) {
	t.Parallel()

	o := NewOrder(1)
	o.SetCurrency("USD")
	o.MarkClean()

	o.SetCurrency("USD")
	assert.Empty(t, o.Changed())
}

func TestJournalKeepsOldestPreviousValue(t *testing.T) {
	t.Parallel()

	o := NewOrder(1)
	o.SetTotal("10.00")
	o.MarkClean()

	o.SetTotal("11.00")
	o.SetTotal("12.00")

	prev, ok := o.Previous(ColTotal)
	assert.True(t, ok)
	assert.Equal(t, "10.00", prev)
	assert.Equal(t, []string{ColTotal}, o.Changed())
}

func TestMarkCleanClearsJournal(t *testing.T) {
	t.Parallel()

	o := NewOrder(1)
	o.SetCurrency("EUR")
	o.SetPricesIncludeTax(true)
	assert.Len(t, o.Changed(), 2)

	o.MarkClean()
	assert.Empty(t, o.Changed())
	assert.Equal(t, "EUR", o.Currency())
	assert.True(t, o.PricesIncludeTax())
}

func TestChangedIsSorted(t *testing.T) {
	t.Parallel()

	o := NewOrder(1)
	o.SetVersion("8.1.0")
	o.SetCartTax("1.50")
	o.SetTotal("20.00")

	assert.Equal(t, []string{ColCartTax, ColTotal, ColVersion}, o.Changed())
}

func TestRefundJournal(t *testing.T) {
	t.Parallel()

	r := NewRefund(55)
	assert.Equal(t, TypeRefund, r.Type())

	r.SetAmount("5.00")
	r.SetReason("damaged goods")
	r.SetRefundedBy(3)
	r.SetRefundedPayment(true)

	assert.Equal(t, []string{ColAmount, ColReason, ColRefundedBy, ColRefundedPayment}, r.Changed())

	r.MarkClean()
	assert.Empty(t, r.Changed())
	assert.Equal(t, uint64(3), r.RefundedBy())
}
