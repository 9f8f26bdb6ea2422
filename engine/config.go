package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the bot's process-wide configuration, read once at startup
// from the environment and passed down explicitly.
type Config struct {
	HedgingFrequency time.Duration
	DryRun           bool
	MinImpliedVol    float64

	// Risk-free rate: static value, or a FRED series when an API key is
	// configured.
	RiskFreeRate float64
	FREDAPIKey   string
	FREDSeries   string

	StatusAddr string

	TelegramToken  string
	TelegramChatID int64

	NATSURL     string
	NATSSubject string

	ReportDir     string
	ReportArchive bool

	PaperPositionsCSV string
}

// LoadConfig reads configuration from environment variables.
// HEDGING_FREQUENCY (seconds) is required; everything else defaults to a
// dry-run bot with a static rate and no side channels.
func LoadConfig() (*Config, error) {
	freqStr := os.Getenv("HEDGING_FREQUENCY")
	if freqStr == "" {
		return nil, fmt.Errorf("engine: HEDGING_FREQUENCY environment variable not set")
	}
	freqSeconds, err := strconv.ParseFloat(freqStr, 64)
	if err != nil || freqSeconds <= 0 {
		return nil, fmt.Errorf("engine: HEDGING_FREQUENCY must be a positive number of seconds, got %q", freqStr)
	}

	cfg := &Config{
		HedgingFrequency:  time.Duration(freqSeconds * float64(time.Second)),
		DryRun:            true,
		RiskFreeRate:      0.05,
		FREDAPIKey:        os.Getenv("FRED_API_KEY"),
		FREDSeries:        os.Getenv("FRED_SERIES"),
		StatusAddr:        os.Getenv("STATUS_ADDR"),
		TelegramToken:     os.Getenv("TELEGRAM_TOKEN"),
		NATSURL:           os.Getenv("NATS_URL"),
		NATSSubject:       os.Getenv("NATS_SUBJECT"),
		ReportDir:         os.Getenv("REPORT_DIR"),
		PaperPositionsCSV: os.Getenv("PAPER_POSITIONS_CSV"),
	}

	if v := os.Getenv("DRY_RUN"); v != "" {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("engine: DRY_RUN must be a boolean, got %q", v)
		}
		cfg.DryRun = dryRun
	}

	if v := os.Getenv("MIN_IMPLIED_VOL"); v != "" {
		minVol, err := strconv.ParseFloat(v, 64)
		if err != nil || minVol < 0 {
			return nil, fmt.Errorf("engine: MIN_IMPLIED_VOL must be a non-negative number, got %q", v)
		}
		cfg.MinImpliedVol = minVol
	}

	if v := os.Getenv("RISK_FREE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("engine: RISK_FREE_RATE must be a number, got %q", v)
		}
		cfg.RiskFreeRate = rate
	}

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("engine: TELEGRAM_CHAT_ID must be an integer, got %q", v)
		}
		cfg.TelegramChatID = chatID
	}

	if v := os.Getenv("REPORT_ARCHIVE"); v != "" {
		archive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("engine: REPORT_ARCHIVE must be a boolean, got %q", v)
		}
		cfg.ReportArchive = archive
	}

	return cfg, nil
}
