package options

import "math"

// Default bisection settings.
const (
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-8

	lowerVolBound = 0.0001
	upperVolBound = 2.0
)

// Result is the outcome of an implied-volatility solve. Volatility holds
// the last bisection midpoint whether or not the solve converged, so
// callers can still use the estimate after deciding how to treat
// Converged == false.
type Result struct {
	Volatility float64
	Converged  bool
}

// Solver inverts Price by bisection on volatility. The zero value is not
// usable; construct with NewSolver.
//
// Bisection assumes the model price is monotonically increasing in
// volatility over the bracket. That holds for the BAW price on
// [0.0001, 2.0] and is asserted by the package tests, not checked per call.
type Solver struct {
	MaxIterations int
	Tolerance     float64
}

// NewSolver returns a solver with the default iteration cap and tolerance.
func NewSolver() *Solver {
	return &Solver{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Solve recovers the volatility implied by marketPrice. The Volatility
// field of p is ignored. Invalid contract inputs surface as pricer errors;
// running out of iterations is reported through Result.Converged, never as
// an error.
func (s *Solver) Solve(marketPrice float64, p Parameters) (Result, error) {
	lower := lowerVolBound
	upper := upperVolBound

	// The market price can imply a volatility above the default ceiling.
	// Double the ceiling until the model price there clears the target,
	// spending from the same iteration budget.
	iter := 0
	for ; iter < s.MaxIterations; iter++ {
		p.Volatility = upper
		price, err := Price(p)
		if err != nil {
			return Result{}, err
		}
		if price >= marketPrice {
			break
		}
		upper *= 2
	}

	mid := (lower + upper) / 2
	for ; iter < s.MaxIterations; iter++ {
		mid = (lower + upper) / 2
		p.Volatility = mid

		price, err := Price(p)
		if err != nil {
			return Result{}, err
		}

		if math.Abs(price-marketPrice) < s.Tolerance {
			return Result{Volatility: mid, Converged: true}, nil
		}

		if price > marketPrice {
			upper = mid
		} else {
			lower = mid
		}
	}

	return Result{Volatility: mid, Converged: false}, nil
}

// ImpliedVolatility solves with the default settings.
func ImpliedVolatility(marketPrice float64, p Parameters) (Result, error) {
	return NewSolver().Solve(marketPrice, p)
}
