// Package rates supplies the annualized risk-free rate the pricer needs,
// either as a fixed configuration value or polled from a FRED interest
// rate series.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tradevik/hedge-go-library/requests"
)

// Source yields the current annualized risk-free rate as a decimal.
type Source interface {
	Rate(ctx *context.Context) (float64, error)
}

// Static always returns a fixed rate.
type Static struct {
	Value float64
}

func (s *Static) Rate(ctx *context.Context) (float64, error) {
	return s.Value, nil
}

const fredObservationsURL = "https://api.stlouisfed.org/fred/series/observations"

// DefaultFREDSeries is the 3-month Treasury bill secondary market rate.
const DefaultFREDSeries = "DGS3MO"

// FRED fetches the latest observation of an interest rate series from the
// St. Louis Fed API. Series values are percentages and come back as
// decimals.
type FRED struct {
	APIKey string
	Series string
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

type fredResponsePayload struct {
	Observations []fredObservation `json:"observations"`
}

func (f *FRED) Rate(ctx *context.Context) (float64, error) {
	series := f.Series
	if series == "" {
		series = DefaultFREDSeries
	}

	query := url.Values{}
	query.Set("series_id", series)
	query.Set("api_key", f.APIKey)
	query.Set("file_type", "json")
	query.Set("sort_order", "desc")
	query.Set("limit", "5")

	body, code, err := requests.Get(ctx, fredObservationsURL+"?"+query.Encode(), nil)
	if err != nil {
		return 0, err
	}
	if code != 200 {
		return 0, fmt.Errorf("rates: FRED returned status %d", code)
	}

	var payload fredResponsePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("rates: parse FRED response: %w", err)
	}

	return latestRate(payload.Observations)
}

// latestRate picks the newest numeric observation. FRED reports missing
// data points as ".", so holidays and weekends get skipped.
func latestRate(observations []fredObservation) (float64, error) {
	for _, obs := range observations {
		if obs.Value == "." || obs.Value == "" {
			continue
		}
		percent, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("rates: bad observation value %q: %w", obs.Value, err)
		}
		return percent / 100, nil
	}
	return 0, fmt.Errorf("rates: no numeric observations in series")
}
