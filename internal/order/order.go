package order

// Order is the primary domain record. Monetary amounts are kept as decimal
// strings end to end to avoid float rounding between the legacy store and
// the normalized table.
type Order struct {
	changeJournal

	id               uint64
	currency         string
	discountTotal    string
	discountTax      string
	shippingTotal    string
	shippingTax      string
	cartTax          string
	total            string
	version          string
	pricesIncludeTax bool
}

// NewOrder creates an order with the given record ID and zero-value fields.
func NewOrder(id uint64) *Order {
	return &Order{id: id}
}

func (o *Order) ID() uint64       { return o.id }
func (o *Order) Type() RecordType { return TypeOrder }

func (o *Order) Currency() string { return o.currency }
func (o *Order) SetCurrency(v string) {
	if v == o.currency {
		return
	}
	o.record(ColCurrency, o.currency)
	o.currency = v
}

func (o *Order) DiscountTotal() string { return o.discountTotal }
func (o *Order) SetDiscountTotal(v string) {
	if v == o.discountTotal {
		return
	}
	o.record(ColDiscountTotal, o.discountTotal)
	o.discountTotal = v
}

func (o *Order) DiscountTax() string { return o.discountTax }
func (o *Order) SetDiscountTax(v string) {
	if v == o.discountTax {
		return
	}
	o.record(ColDiscountTax, o.discountTax)
	o.discountTax = v
}

func (o *Order) ShippingTotal() string { return o.shippingTotal }
func (o *Order) SetShippingTotal(v string) {
	if v == o.shippingTotal {
		return
	}
	o.record(ColShippingTotal, o.shippingTotal)
	o.shippingTotal = v
}

func (o *Order) ShippingTax() string { return o.shippingTax }
func (o *Order) SetShippingTax(v string) {
	if v == o.shippingTax {
		return
	}
	o.record(ColShippingTax, o.shippingTax)
	o.shippingTax = v
}

func (o *Order) CartTax() string { return o.cartTax }
func (o *Order) SetCartTax(v string) {
	if v == o.cartTax {
		return
	}
	o.record(ColCartTax, o.cartTax)
	o.cartTax = v
}

func (o *Order) Total() string { return o.total }
func (o *Order) SetTotal(v string) {
	if v == o.total {
		return
	}
	o.record(ColTotal, o.total)
	o.total = v
}

func (o *Order) Version() string { return o.version }
func (o *Order) SetVersion(v string) {
	if v == o.version {
		return
	}
	o.record(ColVersion, o.version)
	o.version = v
}

func (o *Order) PricesIncludeTax() bool { return o.pricesIncludeTax }
func (o *Order) SetPricesIncludeTax(v bool) {
	if v == o.pricesIncludeTax {
		return
	}
	o.record(ColPricesIncludeTax, o.pricesIncludeTax)
	o.pricesIncludeTax = v
}
