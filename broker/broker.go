// Package broker is the order-routing boundary. The coordinator
// speaks to a Broker and never learns whether fills came from the
// paper venue or a real exchange.
package broker

import (
	"context"
	"time"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Order is a market order request. Price is the resolved reference
// price: the paper venue fills at it, live venues treat it as
// advisory and fill at market.
type Order struct {
	Symbol string
	Side   Side
	Amount float64
	Price  float64
}

// Fill is the venue's acknowledgement of an executed order.
type Fill struct {
	OrderID string
	Symbol  string
	Side    Side
	Amount  float64
	Price   float64
	Fee     float64
	Time    time.Time
}

type Broker interface {
	// LastPrice returns the venue's most recent price for symbol.
	LastPrice(ctx context.Context, symbol string) (float64, error)

	// PlaceMarketOrder executes immediately. Failures carry one of
	// the package's sentinel categories where the venue's reason is
	// recognized.
	PlaceMarketOrder(ctx context.Context, order Order) (Fill, error)
}
