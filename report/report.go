// Package report writes a CSV audit trail of hedge runs, with an optional
// zstd archive of the raw rows.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

var dateFormatConcise = "20060102"

// Row is one underlying's outcome in one hedge run.
type Row struct {
	Timestamp      string `csv:"timestamp"`
	Underlying     string `csv:"underlying"`
	TotalShares    int    `csv:"total_shares"`
	TotalDeltas    int    `csv:"total_deltas"`
	DeltaImbalance int    `csv:"delta_imbalance"`
	Action         string `csv:"action"`
	Quantity       int    `csv:"quantity"`
	DryRun         bool   `csv:"dry_run"`
}

// Writer appends rows to a date-stamped CSV in Dir. When Archive is set
// the marshalled rows are also appended to a compressed daily archive.
type Writer struct {
	Dir     string
	Archive bool
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// Append records the rows of one hedge run.
func (w *Writer) Append(now time.Time, rows []*Row) error {
	if len(rows) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return err
	}

	dateStr := now.Format(dateFormatConcise)
	path := filepath.Join(w.Dir, "hedge_"+dateStr+".csv")

	existing, err := os.Stat(path)
	newFile := err != nil || existing.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if newFile {
		err = gocsv.MarshalFile(&rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, f)
	}
	if err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}

	if w.Archive {
		raw, err := gocsv.MarshalBytes(&rows)
		if err != nil {
			return err
		}
		archivePath := filepath.Join(w.Dir, "hedge_"+dateStr+".csv.zstd")
		if err := appendCompressed(archivePath, raw); err != nil {
			return fmt.Errorf("report: archive %s: %w", archivePath, err)
		}
	}
	return nil
}
