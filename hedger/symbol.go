// Package hedger turns account positions and the options engine's outputs
// into offsetting equity orders that flatten per-underlying delta
// exposure.
package hedger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tradevik/hedge-go-library/options"
)

// Contract is the parsed form of an OCC option symbol.
type Contract struct {
	Underlying string
	Expiration time.Time
	Strike     float64
	Type       options.Type
}

// ParseOptionSymbol parses a 21-character OCC symbol, e.g.
// "AAPL  240621C00190000": padded root, yymmdd expiry, C/P, strike in
// thousandths.
func ParseOptionSymbol(symbol string) (*Contract, error) {
	if len(symbol) != 21 {
		return nil, fmt.Errorf("hedger: option symbol %q is not 21 characters", symbol)
	}

	root := strings.TrimSpace(symbol[:6])
	if root == "" {
		return nil, fmt.Errorf("hedger: option symbol %q has an empty root", symbol)
	}

	expiration, err := time.ParseInLocation("060102", symbol[6:12], time.Local)
	if err != nil {
		return nil, fmt.Errorf("hedger: option symbol %q has a bad expiration: %w", symbol, err)
	}

	var typ options.Type
	switch symbol[12] {
	case 'C':
		typ = options.Call
	case 'P':
		typ = options.Put
	default:
		return nil, fmt.Errorf("hedger: option symbol %q has type %q, want C or P", symbol, symbol[12])
	}

	strikeThousandths, err := strconv.ParseInt(symbol[13:21], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("hedger: option symbol %q has a bad strike: %w", symbol, err)
	}

	return &Contract{
		Underlying: root,
		Expiration: expiration,
		Strike:     float64(strikeThousandths) / 1000,
		Type:       typ,
	}, nil
}
