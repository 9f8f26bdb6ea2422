package options

import "math"

// Price returns the Barone-Adesi-Whaley approximation of an American
// option's fair value.
//
// The quadratic approximation prices the European Black-Scholes value and
// adds an early-exercise premium past a critical underlying price. When the
// characteristic root q2 is negative the early-exercise branch is never
// optimal and the European value is returned as-is.
func Price(p Parameters) (float64, error) {
	if err := p.validate(); err != nil {
		return 0, err
	}

	S, K, T, r, sigma := p.UnderlyingPrice, p.Strike, p.TimeToExpiry, p.RiskFreeRate, p.Volatility

	sigma2 := sigma * sigma
	M := 2 * r / sigma2
	n := 2 * (r - 0.5*sigma2) / sigma2
	q2 := (-(n - 1) - math.Sqrt((n-1)*(n-1)+4*M)) / 2

	sqrtT := math.Sqrt(T)
	d1 := (math.Log(S/K) + (r+0.5*sigma2)*T) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT

	if p.Type == Call {
		european := S*NormCDF(d1) - K*math.Exp(-r*T)*NormCDF(d2)
		if q2 < 0 {
			return european, nil
		}
		sCritical := K / (1 - 1/q2)
		if S >= sCritical {
			return S - K, nil
		}
		a2 := (sCritical - K) * math.Pow(sCritical, -q2)
		return european + a2*math.Pow(S/sCritical, q2), nil
	}

	european := K*math.Exp(-r*T)*NormCDF(-d2) - S*NormCDF(-d1)
	if q2 < 0 {
		return european, nil
	}
	sCritical := K / (1 - 1/q2)
	if S <= sCritical {
		return K - S, nil
	}
	a2 := (K - sCritical) * math.Pow(sCritical, -q2)
	return european + a2*math.Pow(S/sCritical, q2), nil
}
