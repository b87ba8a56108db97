package entities

// RefundRow is the normalized representation of a refund record. RefundedBy
// is a nullable reference to the user who performed the refund.
type RefundRow struct {
	OrderID         uint64  `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	Amount          string  `gorm:"column:amount;size:32"`
	Reason          string  `gorm:"column:reason"`
	RefundedBy      *string `gorm:"column:refunded_by;size:20"`
	RefundedPayment string  `gorm:"column:refunded_payment;size:3"`
}

// TableName overrides the table name used by GORM.
func (RefundRow) TableName() string {
	return "order_refunds"
}
