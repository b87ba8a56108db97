package order

// Refund is the dependent sub-entity of an order. It has its own record ID in
// the legacy store and its own normalized table, but shares the migration
// mechanism with orders.
type Refund struct {
	changeJournal

	id              uint64
	amount          string
	reason          string
	refundedBy      uint64 // user reference, 0 means unset
	refundedPayment bool
}

// NewRefund creates a refund with the given record ID and zero-value fields.
func NewRefund(id uint64) *Refund {
	return &Refund{id: id}
}

func (r *Refund) ID() uint64       { return r.id }
func (r *Refund) Type() RecordType { return TypeRefund }

func (r *Refund) Amount() string { return r.amount }
func (r *Refund) SetAmount(v string) {
	if v == r.amount {
		return
	}
	r.record(ColAmount, r.amount)
	r.amount = v
}

func (r *Refund) Reason() string { return r.reason }
func (r *Refund) SetReason(v string) {
	if v == r.reason {
		return
	}
	r.record(ColReason, r.reason)
	r.reason = v
}

func (r *Refund) RefundedBy() uint64 { return r.refundedBy }
func (r *Refund) SetRefundedBy(v uint64) {
	if v == r.refundedBy {
		return
	}
	r.record(ColRefundedBy, r.refundedBy)
	r.refundedBy = v
}

func (r *Refund) RefundedPayment() bool { return r.refundedPayment }
func (r *Refund) SetRefundedPayment(v bool) {
	if v == r.refundedPayment {
		return
	}
	r.record(ColRefundedPayment, r.refundedPayment)
	r.refundedPayment = v
}
