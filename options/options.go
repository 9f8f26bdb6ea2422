// Package options prices American equity options with the
// Barone-Adesi-Whaley quadratic approximation and derives implied
// volatility and greeks from that pricer.
//
// Everything in this package is a pure function over value inputs: no
// shared state, no I/O. Calls are safe from any number of goroutines.
package options

import "errors"

// Type is the option right.
type Type int

const (
	Call Type = iota
	Put
)

func (t Type) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return "invalid"
}

var (
	ErrInvalidOptionType   = errors.New("options: option type must be call or put")
	ErrInvalidTimeToExpiry = errors.New("options: time to expiry must be positive")
	ErrInvalidVolatility   = errors.New("options: volatility must be positive")
)

// Parameters are the market and contract inputs for a single pricing call.
// Time to expiry is in years, rate and volatility are annualized decimals.
type Parameters struct {
	UnderlyingPrice float64
	Strike          float64
	TimeToExpiry    float64
	RiskFreeRate    float64
	Volatility      float64
	Type            Type
}

func (p Parameters) validate() error {
	if p.Type != Call && p.Type != Put {
		return ErrInvalidOptionType
	}
	if p.TimeToExpiry <= 0 {
		return ErrInvalidTimeToExpiry
	}
	if p.Volatility <= 0 {
		return ErrInvalidVolatility
	}
	return nil
}
