// Package broker defines the seam between the hedging engine and a
// brokerage account. Live connectivity (sessions, authentication, real
// order routing) lives behind the Broker interface; this repository ships
// only the in-memory paper implementation.
package broker

import "context"

type InstrumentType string

const (
	Equity       InstrumentType = "EQUITY"
	EquityOption InstrumentType = "EQUITY_OPTION"
)

type OrderAction string

const (
	BuyToOpen  OrderAction = "BUY_TO_OPEN"
	SellToOpen OrderAction = "SELL_TO_OPEN"
)

// Position is one open account position as reported by the brokerage.
// Direction is +1 for long, -1 for short.
type Position struct {
	Symbol           string         `json:"symbol" csv:"symbol"`
	UnderlyingSymbol string         `json:"underlying_symbol" csv:"underlying_symbol"`
	InstrumentType   InstrumentType `json:"instrument_type" csv:"instrument_type"`
	Quantity         float64        `json:"quantity" csv:"quantity"`
	Direction        int            `json:"direction" csv:"direction"`
}

type Quote struct {
	Symbol    string  `json:"symbol"`
	BidPrice  float64 `json:"bid_price"`
	AskPrice  float64 `json:"ask_price"`
	LastPrice float64 `json:"last_price"`
}

// Mid returns the bid/ask midpoint, falling back to the last trade when
// the book side is empty.
func (q *Quote) Mid() float64 {
	if q.BidPrice > 0 && q.AskPrice > 0 {
		return (q.BidPrice + q.AskPrice) / 2
	}
	return q.LastPrice
}

// Order is a day market order, the only kind the hedger submits.
type Order struct {
	Symbol   string      `json:"symbol"`
	Quantity int         `json:"quantity"`
	Action   OrderAction `json:"action"`
}

type OrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	DryRun bool   `json:"dry_run"`
}

type Broker interface {
	GetPositions(ctx *context.Context) ([]*Position, error)
	GetQuote(ctx *context.Context, symbol string) (*Quote, error)
	PlaceOrder(ctx *context.Context, order *Order, dryRun bool) (*OrderResponse, error)
}
