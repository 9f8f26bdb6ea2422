package options

import "math"

// Greeks holds the option sensitivities.
type Greeks struct {
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
	Rho   float64
}

// Finite-difference step sizes.
const (
	spotStep = 1e-4
	volStep  = 1e-4
	timeStep = 1e-5
	rateStep = 1e-5
)

// Delta returns the Black-Scholes delta from the d1 term: NormCDF(d1) for
// calls, NormCDF(d1)-1 for puts. Calls land in [0,1], puts in [-1,0].
func Delta(p Parameters) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}

	d1 := (math.Log(p.UnderlyingPrice/p.Strike) + (p.RiskFreeRate+0.5*p.Volatility*p.Volatility)*p.TimeToExpiry) /
		(p.Volatility * math.Sqrt(p.TimeToExpiry))

	if p.Type == Call {
		return NormCDF(d1), nil
	}
	return NormCDF(d1) - 1, nil
}

// Gamma estimates the second derivative of price with respect to the
// underlying via a central second difference.
func Gamma(p Parameters) (float64, error) {
	up, down := p, p
	up.UnderlyingPrice += spotStep
	down.UnderlyingPrice -= spotStep

	priceUp, err := Price(up)
	if err != nil {
		return 0, err
	}
	price, err := Price(p)
	if err != nil {
		return 0, err
	}
	priceDown, err := Price(down)
	if err != nil {
		return 0, err
	}
	return (priceUp - 2*price + priceDown) / (spotStep * spotStep), nil
}

// Vega estimates the sensitivity to volatility via a central difference.
// A volatility at or below the step size makes the downward bump invalid
// and the pricer's error is returned unchanged.
func Vega(p Parameters) (float64, error) {
	up, down := p, p
	up.Volatility += volStep
	down.Volatility -= volStep

	priceUp, err := Price(up)
	if err != nil {
		return 0, err
	}
	priceDown, err := Price(down)
	if err != nil {
		return 0, err
	}
	return (priceUp - priceDown) / (2 * volStep), nil
}

// Theta estimates time decay via a central difference on time to expiry,
// negated so that value lost per year of elapsed time reports as negative.
// Near expiry the step shrinks to T/2 so the downward bump stays positive.
func Theta(p Parameters) (float64, error) {
	h := timeStep
	if p.TimeToExpiry <= h {
		h = p.TimeToExpiry / 2
	}

	up, down := p, p
	up.TimeToExpiry += h
	down.TimeToExpiry -= h

	priceUp, err := Price(up)
	if err != nil {
		return 0, err
	}
	priceDown, err := Price(down)
	if err != nil {
		return 0, err
	}
	return -(priceUp - priceDown) / (2 * h), nil
}

// Rho estimates the sensitivity to the risk-free rate via a central
// difference.
func Rho(p Parameters) (float64, error) {
	up, down := p, p
	up.RiskFreeRate += rateStep
	down.RiskFreeRate -= rateStep

	priceUp, err := Price(up)
	if err != nil {
		return 0, err
	}
	priceDown, err := Price(down)
	if err != nil {
		return 0, err
	}
	return (priceUp - priceDown) / (2 * rateStep), nil
}

// ComputeGreeks evaluates the full greek set for one option. The first
// failing estimator aborts the computation.
func ComputeGreeks(p Parameters) (Greeks, error) {
	var g Greeks
	var err error

	if g.Delta, err = Delta(p); err != nil {
		return Greeks{}, err
	}
	if g.Gamma, err = Gamma(p); err != nil {
		return Greeks{}, err
	}
	if g.Vega, err = Vega(p); err != nil {
		return Greeks{}, err
	}
	if g.Theta, err = Theta(p); err != nil {
		return Greeks{}, err
	}
	if g.Rho, err = Rho(p); err != nil {
		return Greeks{}, err
	}
	return g, nil
}
