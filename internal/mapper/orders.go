package mapper

import (
	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/order"
)

// Legacy meta keys of the order record type.
const (
	MetaOrderCurrency    = "_order_currency"
	MetaCartDiscount     = "_cart_discount"
	MetaCartDiscountTax  = "_cart_discount_tax"
	MetaOrderShipping    = "_order_shipping"
	MetaOrderShippingTax = "_order_shipping_tax"
	MetaOrderTax         = "_order_tax"
	MetaOrderTotal       = "_order_total"
	MetaOrderVersion     = "_order_version"
	MetaPricesIncludeTax = "_prices_include_tax"
)

var ordersSchema = &Schema{
	recordType: order.TypeOrder,
	table:      "orders",
	metaKeys: map[string]string{
		order.ColCurrency:         MetaOrderCurrency,
		order.ColDiscountTotal:    MetaCartDiscount,
		order.ColDiscountTax:      MetaCartDiscountTax,
		order.ColShippingTotal:    MetaOrderShipping,
		order.ColShippingTax:      MetaOrderShippingTax,
		order.ColCartTax:          MetaOrderTax,
		order.ColTotal:            MetaOrderTotal,
		order.ColVersion:          MetaOrderVersion,
		order.ColPricesIncludeTax: MetaPricesIncludeTax,
	},
	newRecord:    func(id uint64) order.Record { return order.NewOrder(id) },
	toColumns:    orderToColumns,
	applyColumns: orderApplyColumns,
}

// Orders returns the schema for the primary order record type.
func Orders() *Schema { return ordersSchema }

func orderToColumns(rec order.Record) (map[string]string, error) {
	o := rec.(*order.Order)
	return map[string]string{
		order.ColCurrency:         o.Currency(),
		order.ColDiscountTotal:    o.DiscountTotal(),
		order.ColDiscountTax:      o.DiscountTax(),
		order.ColShippingTotal:    o.ShippingTotal(),
		order.ColShippingTax:      o.ShippingTax(),
		order.ColCartTax:          o.CartTax(),
		order.ColTotal:            o.Total(),
		order.ColVersion:          o.Version(),
		order.ColPricesIncludeTax: boolToToken(o.PricesIncludeTax()),
	}, nil
}

func orderApplyColumns(rec order.Record, cols map[string]string) error {
	o := rec.(*order.Order)
	o.SetCurrency(cols[order.ColCurrency])
	o.SetDiscountTotal(cols[order.ColDiscountTotal])
	o.SetDiscountTax(cols[order.ColDiscountTax])
	o.SetShippingTotal(cols[order.ColShippingTotal])
	o.SetShippingTax(cols[order.ColShippingTax])
	o.SetCartTax(cols[order.ColCartTax])
	o.SetTotal(cols[order.ColTotal])
	o.SetVersion(cols[order.ColVersion])

	incl, err := tokenToBool(cols[order.ColPricesIncludeTax])
	if err != nil {
		return errors.New(err).
			Component("mapper").
			Category(errors.CategoryValidation).
			Context("column", order.ColPricesIncludeTax).
			Context("order_id", rec.ID()).
			Build()
	}
	o.SetPricesIncludeTax(incl)
	return nil
}
