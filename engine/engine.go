// Package engine runs the polling hedge loop: pull positions, solve
// implied volatility and delta per option leg, aggregate exposure per
// underlying and submit offsetting equity orders.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron"

	"github.com/tradevik/hedge-go-library/broker"
	"github.com/tradevik/hedge-go-library/hedger"
	"github.com/tradevik/hedge-go-library/notify"
	"github.com/tradevik/hedge-go-library/rates"
	"github.com/tradevik/hedge-go-library/report"
)

// Engine wires a broker, a rate source and the hedging policy into a
// runnable loop.
type Engine struct {
	Broker   broker.Broker
	Rates    rates.Source
	Notifier notify.Notifier
	Reports  *report.Writer
	Policy   hedger.Policy
	DryRun   bool

	// Now is the clock used for expiry math, overridable in tests.
	Now func() time.Time

	mu   sync.RWMutex
	last *Snapshot
}

// Snapshot is the outcome of one hedge run, kept for the status endpoint.
type Snapshot struct {
	RanAt        time.Time          `json:"ran_at"`
	RiskFreeRate float64            `json:"risk_free_rate"`
	Exposures    []*hedger.Exposure `json:"exposures"`
	OrdersPlaced int                `json:"orders_placed"`
}

func New(b broker.Broker, src rates.Source, cfg *Config) *Engine {
	return &Engine{
		Broker:   b,
		Rates:    src,
		Notifier: notify.Log{},
		Policy:   hedger.Policy{MinImpliedVol: cfg.MinImpliedVol},
		DryRun:   cfg.DryRun,
		Now:      time.Now,
	}
}

// RunOnce performs a single poll-price-hedge cycle.
func (e *Engine) RunOnce(ctx *context.Context) (*Snapshot, error) {
	now := e.Now()

	positions, err := e.Broker.GetPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: get positions: %w", err)
	}

	stocks := map[string]*hedger.StockLine{}
	underlyingPrices := map[string]float64{}

	// Equity pass first so share counts and underlying prices are in
	// place before the option legs need them.
	for _, pos := range positions {
		if pos.InstrumentType != broker.Equity || pos.Quantity == 0 {
			continue
		}
		quote, err := e.Broker.GetQuote(ctx, pos.Symbol)
		if err != nil {
			return nil, fmt.Errorf("engine: quote %s: %w", pos.Symbol, err)
		}
		stocks[pos.Symbol] = &hedger.StockLine{
			Quantity:  int(pos.Quantity),
			Direction: pos.Direction,
		}
		underlyingPrices[pos.Symbol] = quote.Mid()
	}

	var legs []*hedger.OptionLeg
	for _, pos := range positions {
		if pos.InstrumentType != broker.EquityOption || pos.Quantity == 0 {
			continue
		}

		contract, err := hedger.ParseOptionSymbol(pos.Symbol)
		if err != nil {
			return nil, err
		}

		underlyingPrice, ok := underlyingPrices[pos.UnderlyingSymbol]
		if !ok {
			quote, err := e.Broker.GetQuote(ctx, pos.UnderlyingSymbol)
			if err != nil {
				return nil, fmt.Errorf("engine: quote %s: %w", pos.UnderlyingSymbol, err)
			}
			underlyingPrice = quote.Mid()
			underlyingPrices[pos.UnderlyingSymbol] = underlyingPrice
		}

		quote, err := e.Broker.GetQuote(ctx, pos.Symbol)
		if err != nil {
			return nil, fmt.Errorf("engine: quote %s: %w", pos.Symbol, err)
		}

		legs = append(legs, &hedger.OptionLeg{
			Symbol:          pos.Symbol,
			Underlying:      pos.UnderlyingSymbol,
			Quantity:        pos.Quantity,
			Direction:       pos.Direction,
			MarketPrice:     quote.Mid(),
			UnderlyingPrice: underlyingPrice,
			Strike:          contract.Strike,
			TimeToExpiry:    hedger.TimeToExpiry(now, contract.Expiration),
			Type:            contract.Type,
		})
	}

	rate, err := e.Rates.Rate(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: risk-free rate: %w", err)
	}

	exposures, err := hedger.Plan(legs, stocks, rate, e.Policy)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{RanAt: now, RiskFreeRate: rate, Exposures: exposures}
	var rows []*report.Row

	for _, exp := range exposures {
		for _, skipped := range exp.Skipped {
			log.Printf("skipping %s: %s", skipped.Symbol, skipped.Reason)
		}

		row := &report.Row{
			Timestamp:      now.Format(time.RFC3339),
			Underlying:     exp.Underlying,
			TotalShares:    exp.TotalShares,
			TotalDeltas:    exp.TotalDeltas,
			DeltaImbalance: exp.DeltaImbalance,
			DryRun:         e.DryRun,
		}

		if exp.Order == nil {
			e.notify(ctx, fmt.Sprintf("%s: shares %d, deltas %d, delta is hedged, no adjustment needed",
				exp.Underlying, exp.TotalShares, exp.TotalDeltas))
			rows = append(rows, row)
			continue
		}

		row.Action = string(exp.Order.Action)
		row.Quantity = exp.Order.Quantity

		resp, err := e.Broker.PlaceOrder(ctx, exp.Order, e.DryRun)
		if err != nil {
			// One rejected order should not stall the rest of the book.
			log.Printf("order placement failed for %s: %v", exp.Underlying, err)
			e.notify(ctx, fmt.Sprintf("%s: order placement failed: %v", exp.Underlying, err))
			rows = append(rows, row)
			continue
		}
		snapshot.OrdersPlaced++

		e.notify(ctx, fmt.Sprintf("%s: shares %d, deltas %d, imbalance %d -> %s %d shares (order %s)",
			exp.Underlying, exp.TotalShares, exp.TotalDeltas, exp.DeltaImbalance,
			exp.Order.Action, exp.Order.Quantity, resp.ID))
		rows = append(rows, row)
	}

	if e.Reports != nil {
		if err := e.Reports.Append(now, rows); err != nil {
			log.Printf("report write failed: %v", err)
		}
	}

	e.mu.Lock()
	e.last = snapshot
	e.mu.Unlock()

	return snapshot, nil
}

// Run executes RunOnce immediately and then on the configured interval
// until the context is cancelled.
func (e *Engine) Run(ctx *context.Context, frequency time.Duration) error {
	if _, err := e.RunOnce(ctx); err != nil {
		log.Printf("hedge run failed: %v", err)
	}

	c := cron.New()
	err := c.AddFunc(fmt.Sprintf("@every %s", frequency), func() {
		if _, err := e.RunOnce(ctx); err != nil {
			log.Printf("hedge run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("engine: schedule: %w", err)
	}

	c.Start()
	defer c.Stop()

	<-(*ctx).Done()
	return (*ctx).Err()
}

// LastSnapshot returns the most recent run outcome, nil before the first
// run completes.
func (e *Engine) LastSnapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last
}

func (e *Engine) notify(ctx *context.Context, message string) {
	if e.Notifier == nil {
		return
	}
	if err := e.Notifier.Notify(ctx, message); err != nil {
		log.Printf("notify failed: %v", err)
	}
}
