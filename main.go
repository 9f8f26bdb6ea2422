package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tradevik/hedge-go-library/broker"
	"github.com/tradevik/hedge-go-library/engine"
	"github.com/tradevik/hedge-go-library/notify"
	"github.com/tradevik/hedge-go-library/rates"
	"github.com/tradevik/hedge-go-library/report"
)

func main() {
	// Load environment variables
	if os.Getenv("HEDGING_FREQUENCY") == "" {
		godotenv.Load()
	}

	cfg, err := engine.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	// Live brokerage connectivity is an external collaborator; the bot
	// ships with the paper broker, optionally seeded from a CSV account
	// snapshot.
	paper := broker.NewPaper()
	if cfg.PaperPositionsCSV != "" {
		if err := paper.LoadPositionsCSV(cfg.PaperPositionsCSV); err != nil {
			log.Fatal(err)
		}
	}

	var rateSource rates.Source = &rates.Static{Value: cfg.RiskFreeRate}
	if cfg.FREDAPIKey != "" {
		rateSource = &rates.FRED{APIKey: cfg.FREDAPIKey, Series: cfg.FREDSeries}
	}

	e := engine.New(paper, rateSource, cfg)
	e.Notifier = buildNotifier(cfg)
	if cfg.ReportDir != "" {
		e.Reports = &report.Writer{Dir: cfg.ReportDir, Archive: cfg.ReportArchive}
	}
	if cfg.StatusAddr != "" {
		e.ServeStatus(cfg.StatusAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
	}()

	log.Printf("starting hedge loop every %s (dry run: %v)", cfg.HedgingFrequency, cfg.DryRun)
	if err := e.Run(&ctx, cfg.HedgingFrequency); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
}

func buildNotifier(cfg *engine.Config) notify.Notifier {
	sinks := notify.Multi{notify.Log{}}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		sinks = append(sinks, notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID))
	}

	if cfg.NATSURL != "" {
		subject := cfg.NATSSubject
		if subject == "" {
			subject = "hedge.adjustments"
		}
		nc, err := notify.NewNATS(cfg.NATSURL, subject)
		if err != nil {
			log.Printf("nats disabled: %v", err)
		} else {
			sinks = append(sinks, nc)
		}
	}

	return sinks
}
