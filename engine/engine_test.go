package engine_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tradevik/hedge-go-library/broker"
	"github.com/tradevik/hedge-go-library/engine"
	"github.com/tradevik/hedge-go-library/hedger"
	"github.com/tradevik/hedge-go-library/options"
	"github.com/tradevik/hedge-go-library/rates"
)

const (
	optionSymbol = "AAPL  240621C00100000"
	riskFreeRate = 0.01
)

// fixedNow keeps the option roughly half a year from expiry.
var fixedNow = time.Date(2023, time.December, 21, 10, 0, 0, 0, time.Local)

// seedPaper builds a paper account: short 50 AAPL shares against two long
// ATM calls whose quote matches the model at the given volatility.
func seedPaper(t *testing.T, sigma float64) *broker.Paper {
	t.Helper()

	contract, err := hedger.ParseOptionSymbol(optionSymbol)
	if err != nil {
		t.Fatalf("ParseOptionSymbol returned an error: %v", err)
	}

	params := options.Parameters{
		UnderlyingPrice: 100,
		Strike:          contract.Strike,
		TimeToExpiry:    hedger.TimeToExpiry(fixedNow, contract.Expiration),
		RiskFreeRate:    riskFreeRate,
		Volatility:      sigma,
		Type:            contract.Type,
	}
	optionPrice, err := options.Price(params)
	if err != nil {
		t.Fatalf("Price returned an error: %v", err)
	}

	paper := broker.NewPaper()
	paper.SetPositions([]*broker.Position{
		{Symbol: "AAPL", UnderlyingSymbol: "AAPL", InstrumentType: broker.Equity, Quantity: 50, Direction: -1},
		{Symbol: optionSymbol, UnderlyingSymbol: "AAPL", InstrumentType: broker.EquityOption, Quantity: 2, Direction: 1},
	})
	paper.SetQuote("AAPL", &broker.Quote{BidPrice: 99.9, AskPrice: 100.1})
	paper.SetQuote(optionSymbol, &broker.Quote{BidPrice: optionPrice, AskPrice: optionPrice})
	return paper
}

func newEngine(paper *broker.Paper, dryRun bool) *engine.Engine {
	e := engine.New(paper, &rates.Static{Value: riskFreeRate}, &engine.Config{DryRun: dryRun})
	e.Now = func() time.Time { return fixedNow }
	return e
}

func TestRunOnce(t *testing.T) {
	t.Run("HedgesTheImbalance", func(t *testing.T) {
		paper := seedPaper(t, 0.2)
		e := newEngine(paper, false)
		ctx := context.Background()

		snapshot, err := e.RunOnce(&ctx)
		if err != nil {
			t.Fatalf("RunOnce returned an error: %v", err)
		}
		if len(snapshot.Exposures) != 1 {
			t.Fatalf("expected one exposure, got %d", len(snapshot.Exposures))
		}

		exp := snapshot.Exposures[0]
		if exp.Underlying != "AAPL" {
			t.Errorf("underlying: expected AAPL, got %q", exp.Underlying)
		}
		if exp.TotalShares != -50 {
			t.Errorf("total shares: expected -50, got %d", exp.TotalShares)
		}
		// Two long ~0.54-delta calls are ~108 share-equivalents.
		if exp.TotalDeltas < 100 || exp.TotalDeltas > 115 {
			t.Errorf("total deltas: expected ~108, got %d", exp.TotalDeltas)
		}
		if exp.Order == nil || exp.Order.Action != broker.SellToOpen {
			t.Fatalf("expected a sell-to-open hedge, got %+v", exp.Order)
		}
		if exp.Order.Quantity != exp.DeltaImbalance {
			t.Errorf("order quantity %d should match imbalance %d", exp.Order.Quantity, exp.DeltaImbalance)
		}

		if snapshot.OrdersPlaced != 1 {
			t.Errorf("expected one order placed, got %d", snapshot.OrdersPlaced)
		}
		if got := len(paper.Orders()); got != 1 {
			t.Errorf("expected one journaled order, got %d", got)
		}
	})

	t.Run("DryRunPlacesNothing", func(t *testing.T) {
		paper := seedPaper(t, 0.2)
		e := newEngine(paper, true)
		ctx := context.Background()

		snapshot, err := e.RunOnce(&ctx)
		if err != nil {
			t.Fatalf("RunOnce returned an error: %v", err)
		}
		if snapshot.OrdersPlaced != 1 {
			t.Errorf("dry-run orders still count as placed, got %d", snapshot.OrdersPlaced)
		}
		if got := len(paper.Orders()); got != 0 {
			t.Errorf("dry run must not journal orders, got %d", got)
		}
	})

	t.Run("LowImpliedVolSkipsLeg", func(t *testing.T) {
		paper := seedPaper(t, 0.004)
		e := newEngine(paper, true)
		ctx := context.Background()

		snapshot, err := e.RunOnce(&ctx)
		if err != nil {
			t.Fatalf("RunOnce returned an error: %v", err)
		}
		exp := snapshot.Exposures[0]
		if exp.TotalDeltas != 0 {
			t.Errorf("suppressed leg should not contribute deltas, got %d", exp.TotalDeltas)
		}
		if len(exp.Skipped) != 1 {
			t.Errorf("expected one skipped leg, got %+v", exp.Skipped)
		}
	})

	t.Run("UpdatesSnapshot", func(t *testing.T) {
		paper := seedPaper(t, 0.2)
		e := newEngine(paper, true)
		ctx := context.Background()

		if e.LastSnapshot() != nil {
			t.Fatal("expected no snapshot before the first run")
		}
		if _, err := e.RunOnce(&ctx); err != nil {
			t.Fatalf("RunOnce returned an error: %v", err)
		}
		if e.LastSnapshot() == nil {
			t.Error("expected a snapshot after the run")
		}
	})
}

func TestStatusRouter(t *testing.T) {
	paper := seedPaper(t, 0.2)
	e := newEngine(paper, true)
	router := e.StatusRouter()

	t.Run("Health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("health: expected 200, got %d", rec.Code)
		}
	})

	t.Run("StatusAfterRun", func(t *testing.T) {
		ctx := context.Background()
		if _, err := e.RunOnce(&ctx); err != nil {
			t.Fatalf("RunOnce returned an error: %v", err)
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status: expected 200, got %d", rec.Code)
		}

		var snapshot engine.Snapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
			t.Fatalf("status payload: %v", err)
		}
		if len(snapshot.Exposures) != 1 || snapshot.Exposures[0].Underlying != "AAPL" {
			t.Errorf("unexpected snapshot payload: %s", rec.Body.String())
		}
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("RequiresFrequency", func(t *testing.T) {
		t.Setenv("HEDGING_FREQUENCY", "")
		if _, err := engine.LoadConfig(); err == nil {
			t.Error("expected an error when HEDGING_FREQUENCY is unset")
		}
	})

	t.Run("ParsesEverything", func(t *testing.T) {
		t.Setenv("HEDGING_FREQUENCY", "2.5")
		t.Setenv("DRY_RUN", "false")
		t.Setenv("MIN_IMPLIED_VOL", "0.01")
		t.Setenv("RISK_FREE_RATE", "0.042")

		cfg, err := engine.LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig returned an error: %v", err)
		}
		if cfg.HedgingFrequency != 2500*time.Millisecond {
			t.Errorf("frequency: expected 2.5s, got %v", cfg.HedgingFrequency)
		}
		if cfg.DryRun {
			t.Error("expected DryRun=false")
		}
		if cfg.MinImpliedVol != 0.01 {
			t.Errorf("min implied vol: expected 0.01, got %v", cfg.MinImpliedVol)
		}
		if cfg.RiskFreeRate != 0.042 {
			t.Errorf("rate: expected 0.042, got %v", cfg.RiskFreeRate)
		}
	})

	t.Run("RejectsBadFrequency", func(t *testing.T) {
		t.Setenv("HEDGING_FREQUENCY", "often")
		if _, err := engine.LoadConfig(); err == nil {
			t.Error("expected an error for a non-numeric frequency")
		}
	})
}
