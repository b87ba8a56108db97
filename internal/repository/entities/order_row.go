package entities

// OrderRow is the normalized one-row-per-record representation of an order.
// Monetary columns are decimal strings, boolean columns hold yes/no tokens.
type OrderRow struct {
	OrderID          uint64 `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	Currency         string `gorm:"column:currency;size:8"`
	DiscountTotal    string `gorm:"column:discount_total;size:32"`
	DiscountTax      string `gorm:"column:discount_tax;size:32"`
	ShippingTotal    string `gorm:"column:shipping_total;size:32"`
	ShippingTax      string `gorm:"column:shipping_tax;size:32"`
	CartTax          string `gorm:"column:cart_tax;size:32"`
	Total            string `gorm:"column:total;size:32"`
	Version          string `gorm:"column:version;size:16"`
	PricesIncludeTax string `gorm:"column:prices_include_tax;size:3"`
}

// TableName overrides the table name used by GORM.
func (OrderRow) TableName() string {
	return "orders"
}
