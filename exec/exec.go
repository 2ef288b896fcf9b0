// Package exec coordinates trade execution. The Coordinator resolves a
// price and an order size for each instruction, runs it past the risk
// governor, and routes admitted orders to a paper or live venue.
// Outcomes are values, not errors: a failed order comes back as a
// Result with StatusError so a trading loop can record it and move on.
package exec

import "github.com/rustyeddy/tradesim/broker"

// Side is the instruction verb. Hold is a valid instruction that
// executes nothing.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
	Hold Side = "HOLD"
)

// broker maps an instruction side onto a venue order side. Hold and
// unknown verbs have no mapping.
func (s Side) broker() (broker.Side, bool) {
	switch s {
	case Buy:
		return broker.Buy, true
	case Sell:
		return broker.Sell, true
	}
	return "", false
}

// Mode selects the execution venue.
type Mode string

const (
	ModePaper Mode = "paper"
	ModeLive  Mode = "live"
)

// Order is one trade instruction handed to Execute, or a close intent
// emitted by CheckAndClose. Zero Price and Amount are requests to
// resolve them: the price from the venue quote (then the configured
// fallback), the amount from risk sizing on a buy or from the open
// position on a sell.
type Order struct {
	Symbol string  `json:"symbol"`
	Side   Side    `json:"side"`
	Price  float64 `json:"price,omitempty"`
	Amount float64 `json:"amount,omitempty"`
	Reason string  `json:"reason,omitempty"` // close intents only
}

// Reasons carried on close intents.
const (
	ReasonStopLoss   = "stop_loss"
	ReasonTakeProfit = "take_profit"
)

// Status discriminates Result variants.
type Status string

const (
	StatusSkipped  Status = "skipped"
	StatusRejected Status = "rejected"
	StatusExecuted Status = "executed"
	StatusError    Status = "error"
)

// Category classifies execution failures for callers that branch on
// them. Anything outside the known venue taxonomy is CategoryUnknown.
type Category string

const (
	CategoryInsufficientFunds Category = "insufficient_funds"
	CategoryInvalidOrder      Category = "invalid_order"
	CategoryUnknown           Category = "unknown"
)

// Result is the outcome of one Execute call. Status is always set;
// the rest is filled per variant: Reason for skipped and rejected,
// Category and Message for error, the fill fields and Mode for
// executed.
type Result struct {
	Status   Status   `json:"status"`
	Symbol   string   `json:"symbol,omitempty"`
	Side     Side     `json:"side,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Category Category `json:"category,omitempty"`
	Message  string   `json:"message,omitempty"`
	Amount   float64  `json:"amount,omitempty"`
	Price    float64  `json:"price,omitempty"`
	Fee      float64  `json:"fee,omitempty"`
	OrderID  string   `json:"order_id,omitempty"`
	Mode     Mode     `json:"mode,omitempty"`
}
