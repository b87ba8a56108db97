package mapper

import (
	"strconv"

	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/order"
)

// Legacy meta keys of the refund record type.
const (
	MetaRefundAmount    = "_refund_amount"
	MetaRefundReason    = "_refund_reason"
	MetaRefundedBy      = "_refunded_by"
	MetaRefundedPayment = "_refunded_payment"
)

var refundsSchema = &Schema{
	recordType: order.TypeRefund,
	table:      "order_refunds",
	metaKeys: map[string]string{
		order.ColAmount:          MetaRefundAmount,
		order.ColReason:          MetaRefundReason,
		order.ColRefundedBy:      MetaRefundedBy,
		order.ColRefundedPayment: MetaRefundedPayment,
	},
	newRecord:    func(id uint64) order.Record { return order.NewRefund(id) },
	toColumns:    refundToColumns,
	applyColumns: refundApplyColumns,
}

// Refunds returns the schema for the dependent refund record type.
func Refunds() *Schema { return refundsSchema }

func refundToColumns(rec order.Record) (map[string]string, error) {
	r := rec.(*order.Refund)
	cols := map[string]string{
		order.ColAmount:          r.Amount(),
		order.ColReason:          r.Reason(),
		order.ColRefundedPayment: boolToToken(r.RefundedPayment()),
		order.ColRefundedBy:      "",
	}
	if r.RefundedBy() != 0 {
		cols[order.ColRefundedBy] = strconv.FormatUint(r.RefundedBy(), 10)
	}
	return cols, nil
}

func refundApplyColumns(rec order.Record, cols map[string]string) error {
	r := rec.(*order.Refund)
	r.SetAmount(cols[order.ColAmount])
	r.SetReason(cols[order.ColReason])

	if raw := cols[order.ColRefundedBy]; raw != "" {
		by, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return errors.New(err).
				Component("mapper").
				Category(errors.CategoryValidation).
				Context("column", order.ColRefundedBy).
				Context("order_id", rec.ID()).
				Build()
		}
		r.SetRefundedBy(by)
	} else {
		r.SetRefundedBy(0)
	}

	refunded, err := tokenToBool(cols[order.ColRefundedPayment])
	if err != nil {
		return errors.New(err).
			Component("mapper").
			Category(errors.CategoryValidation).
			Context("column", order.ColRefundedPayment).
			Context("order_id", rec.ID()).
			Build()
	}
	r.SetRefundedPayment(refunded)
	return nil
}
