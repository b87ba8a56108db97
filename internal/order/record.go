// Package order contains the domain records handled by the migration engine:
// orders and their dependent refunds, each carrying a change journal of
// columns mutated since the last persisted state.
package order

import (
	"slices"
	"sync"
)

// RecordType identifies a tracked record type in the legacy store.
type RecordType string

const (
	TypeOrder  RecordType = "shop_order"
	TypeRefund RecordType = "shop_order_refund"
)

// Column names of the normalized order table.
const (
	ColCurrency         = "currency"
	ColDiscountTotal    = "discount_total"
	ColDiscountTax      = "discount_tax"
	ColShippingTotal    = "shipping_total"
	ColShippingTax      = "shipping_tax"
	ColCartTax          = "cart_tax"
	ColTotal            = "total"
	ColVersion          = "version"
	ColPricesIncludeTax = "prices_include_tax"
)

// Column names of the normalized refund table.
const (
	ColAmount          = "amount"
	ColReason          = "reason"
	ColRefundedBy      = "refunded_by"
	ColRefundedPayment = "refunded_payment"
)

// Record is the common surface of migratable domain records.
type Record interface {
	// ID returns the record's unique identifier, shared between the legacy
	// store and the normalized table.
	ID() uint64

	// Type returns the legacy record type.
	Type() RecordType

	// Changed returns the columns mutated since the journal was last cleared,
	// in sorted order.
	Changed() []string

	// Previous returns the value a column held before its first uncommitted
	// mutation, and whether the column is in the journal.
	Previous(column string) (any, bool)

	// MarkClean clears the change journal, establishing the current field
	// values as the persisted baseline.
	MarkClean()
}

// changeJournal tracks (column, previous value) pairs recorded on mutation.
// It is embedded by the concrete record types; setters call record() before
// assigning a new value.
type changeJournal struct {
	mu      sync.Mutex
	changes map[string]any
}

func (j *changeJournal) record(column string, previous any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.changes == nil {
		j.changes = make(map[string]any)
	}
	// Keep the oldest previous value so repeated mutations of one field
	// still journal the last-persisted state.
	if _, seen := j.changes[column]; !seen {
		j.changes[column] = previous
	}
}

// Changed returns the journaled column names in sorted order.
func (j *changeJournal) Changed() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	cols := make([]string, 0, len(j.changes))
	for col := range j.changes {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	return cols
}

// Previous returns the journaled pre-mutation value for a column.
func (j *changeJournal) Previous(column string) (any, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	v, ok := j.changes[column]
	return v, ok
}

// MarkClean clears the journal.
func (j *changeJournal) MarkClean() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.changes = nil
}
