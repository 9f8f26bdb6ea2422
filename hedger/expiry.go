package hedger

import "time"

const (
	// Contracts settle at 16:00 exchange-local time on the expiration day.
	expiryHour = 16

	secondsPerYear = 365.25 * 24 * 60 * 60
)

// TimeToExpiry returns the year fraction between now and 16:00 local time
// on the expiration date. The result is negative once the contract has
// expired; callers must special-case that before pricing.
func TimeToExpiry(now, expiration time.Time) float64 {
	expiresAt := time.Date(expiration.Year(), expiration.Month(), expiration.Day(),
		expiryHour, 0, 0, 0, time.Local)
	return expiresAt.Sub(now).Seconds() / secondsPerYear
}
