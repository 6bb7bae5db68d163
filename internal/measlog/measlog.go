// Package measlog writes per-SACCH-period measurement reports to daily
// CSV files, one row per averaged report.
//
// Grounded on log.go (log_init/log_write): daily file
// names derived from the current UTC date, opened for append, a header
// row written only the first time the file is created. The date pattern
// is rendered with github.com/lestrrat-go/strftime instead of
// time.Format; the pattern itself is the fixed constant filenamePattern.
package measlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lestrrat-go/strftime"
)

var header = []string{"utc_time", "chan_nr", "rxlev_dbm", "rxqual", "toa_stddev", "num_meas"}

// Row is one measurement report line.
type Row struct {
	Time      time.Time
	ChanNr    uint8
	RxLevDbm  int
	RxQual    uint8
	ToaStdDev int
	NumMeas   int
}

// filenamePattern is the strftime pattern (in the same
// timestamp_format style) used to derive each day's log file name.
const filenamePattern = "%Y-%m-%d-meas.csv"

// Writer appends Rows to a daily-rotated CSV file under dir.
type Writer struct {
	dir       string
	openFname string
	file      *os.File
	csv       *csv.Writer
}

// NewWriter creates a writer rotating files in dir named by
// filenamePattern.
func NewWriter(dir string) (*Writer, error) {
	return &Writer{dir: dir}, nil
}

// Write appends one row, rotating to a new daily file if the date has
// changed since the last write.
func (w *Writer) Write(r Row) error {
	fname, err := strftime.Format(filenamePattern, r.Time.UTC())
	if err != nil {
		return fmt.Errorf("measlog: formatting filename: %w", err)
	}
	if w.file != nil && fname != w.openFname {
		w.Close()
	}
	if w.file == nil {
		full := filepath.Join(w.dir, fname)
		_, statErr := os.Stat(full)
		alreadyThere := statErr == nil

		f, err := os.OpenFile(full, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return fmt.Errorf("measlog: opening %q: %w", full, err)
		}
		w.file = f
		w.openFname = fname
		w.csv = csv.NewWriter(f)
		if !alreadyThere {
			if err := w.csv.Write(header); err != nil {
				return err
			}
		}
	}

	record := []string{
		r.Time.UTC().Format(time.RFC3339),
		fmt.Sprintf("0x%02x", r.ChanNr),
		fmt.Sprintf("%d", r.RxLevDbm),
		fmt.Sprintf("%d", r.RxQual),
		fmt.Sprintf("%d", r.ToaStdDev),
		fmt.Sprintf("%d", r.NumMeas),
	}
	if err := w.csv.Write(record); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes and closes the currently open file, if any.
func (w *Writer) Close() error {
	if w.file == nil {
		return nil
	}
	w.csv.Flush()
	err := w.file.Close()
	w.file = nil
	w.openFname = ""
	return err
}
