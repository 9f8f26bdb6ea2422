package hedger

import (
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tradevik/hedge-go-library/broker"
	"github.com/tradevik/hedge-go-library/options"
)

// DefaultMinImpliedVol matches the anomaly threshold the bots have always
// used: an implied vol at or below it is treated as bad data, not signal.
const DefaultMinImpliedVol = 0.005

// Policy holds the knobs that decide whether a computed exposure turns
// into an order.
type Policy struct {
	// MinImpliedVol suppresses legs whose solved implied volatility is at
	// or below the threshold. Zero means DefaultMinImpliedVol.
	MinImpliedVol float64
}

func (p Policy) minVol() float64 {
	if p.MinImpliedVol == 0 {
		return DefaultMinImpliedVol
	}
	return p.MinImpliedVol
}

// OptionLeg is one option position with the market data needed to price
// it. Direction is +1 long, -1 short.
type OptionLeg struct {
	Symbol          string
	Underlying      string
	Quantity        float64
	Direction       int
	MarketPrice     float64
	UnderlyingPrice float64
	Strike          float64
	TimeToExpiry    float64
	Type            options.Type
}

// StockLine is the share position held against an underlying.
type StockLine struct {
	Quantity  int
	Direction int
}

// SkippedLeg records a leg excluded from aggregation and why.
type SkippedLeg struct {
	Symbol string
	Reason string
}

// Exposure is the per-underlying aggregation result. TotalDeltas is the
// option exposure in share-equivalents (x100 contract multiplier),
// DeltaImbalance the net exposure after existing shares. Order is the
// offsetting market order, nil when already flat.
type Exposure struct {
	Underlying     string
	TotalShares    int
	TotalDeltas    int
	DeltaImbalance int
	Order          *broker.Order
	Skipped        []SkippedLeg
}

// Plan solves implied volatility and delta for every leg, aggregates the
// exposure per underlying and constructs the offsetting order. Underlyings
// come back in symbol order. Legs that are expired, unsolvable or below
// the implied-vol threshold are skipped and reported on the exposure; only
// engine misuse (bad option type and the like) returns an error.
func Plan(legs []*OptionLeg, stocks map[string]*StockLine, riskFreeRate float64, policy Policy) ([]*Exposure, error) {
	byUnderlying := map[string][]*OptionLeg{}
	for _, leg := range legs {
		byUnderlying[leg.Underlying] = append(byUnderlying[leg.Underlying], leg)
	}

	underlyings := maps.Keys(byUnderlying)
	slices.Sort(underlyings)

	exposures := make([]*Exposure, 0, len(underlyings))
	for _, underlying := range underlyings {
		exp := &Exposure{Underlying: underlying}

		if line, ok := stocks[underlying]; ok {
			exp.TotalShares = line.Quantity * line.Direction
		}

		var deltaSum float64
		for _, leg := range byUnderlying[underlying] {
			if leg.TimeToExpiry <= 0 {
				exp.Skipped = append(exp.Skipped, SkippedLeg{Symbol: leg.Symbol, Reason: "expired"})
				continue
			}

			params := options.Parameters{
				UnderlyingPrice: leg.UnderlyingPrice,
				Strike:          leg.Strike,
				TimeToExpiry:    leg.TimeToExpiry,
				RiskFreeRate:    riskFreeRate,
				Type:            leg.Type,
			}

			iv, err := options.ImpliedVolatility(leg.MarketPrice, params)
			if err != nil {
				return nil, err
			}
			if !iv.Converged {
				exp.Skipped = append(exp.Skipped, SkippedLeg{Symbol: leg.Symbol, Reason: "implied vol did not converge"})
				continue
			}
			if iv.Volatility <= policy.minVol() {
				exp.Skipped = append(exp.Skipped, SkippedLeg{Symbol: leg.Symbol, Reason: "implied vol below threshold"})
				continue
			}

			params.Volatility = iv.Volatility
			delta, err := options.Delta(params)
			if err != nil {
				return nil, err
			}

			deltaSum += delta * leg.Quantity * float64(leg.Direction)
		}

		// 100-share contract multiplier.
		exp.TotalDeltas = int(math.Round(deltaSum * 100))
		exp.DeltaImbalance = exp.TotalDeltas + exp.TotalShares
		exp.Order = offsettingOrder(underlying, exp.DeltaImbalance)

		exposures = append(exposures, exp)
	}

	return exposures, nil
}

// offsettingOrder flattens a signed share imbalance: short when long
// delta, long when short delta.
func offsettingOrder(underlying string, imbalance int) *broker.Order {
	switch {
	case imbalance > 0:
		return &broker.Order{Symbol: underlying, Quantity: imbalance, Action: broker.SellToOpen}
	case imbalance < 0:
		return &broker.Order{Symbol: underlying, Quantity: -imbalance, Action: broker.BuyToOpen}
	}
	return nil
}
