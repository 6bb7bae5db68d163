// Package btslog provides per-category leveled logging for the BTS process.
//
// It plays the role log.go / textcolor.go play for
// Dire Wolf: one place that owns the output stream and per-subsystem
// verbosity, except here each osmo-bts-style category (DL1SAP, DLOOP, DMEAS,
// DRSL, DNM, DCBCH, DPAG) gets its own charmbracelet/log sub-logger instead
// of a hand-rolled ANSI color table.
package btslog

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// Category names mirror the DXXX logging categories of osmo-bts.
const (
	CatL1SAP = "DL1SAP"
	CatLoop  = "DLOOP" // power control loops
	CatMeas  = "DMEAS"
	CatRSL   = "DRSL"
	CatNM    = "DNM" // managed object FSMs
	CatCBCH  = "DCBCH"
	CatPag   = "DPAG"
	CatAbis  = "DABIS"
	CatPCU   = "DPCU"
)

var (
	mu      sync.Mutex
	root    *log.Logger
	levels  = map[string]log.Level{}
	cache   = map[string]*log.Logger{}
	initted bool
)

// Init sets the output writer and default level for the whole process. It
// must be called once at startup before any category logger is used.
func Init(w io.Writer, defaultLevel log.Level) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	root = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})
	root.SetLevel(defaultLevel)
	cache = map[string]*log.Logger{}
	initted = true
}

// SetCategoryLevel overrides the verbosity of a single category, the
// equivalent of osmo-bts's "logging level <category> <level>" VTY command.
func SetCategoryLevel(category string, level log.Level) {
	mu.Lock()
	defer mu.Unlock()
	levels[category] = level
	if l, ok := cache[category]; ok {
		l.SetLevel(level)
	}
}

// For returns the logger for a category, creating it lazily. If Init was
// never called it falls back to a stderr logger at Info level so that
// packages remain usable (and testable) standalone.
func For(category string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !initted {
		Init(os.Stderr, log.InfoLevel)
	}
	if l, ok := cache[category]; ok {
		return l
	}
	l := root.With("cat", category)
	if lvl, ok := levels[category]; ok {
		l.SetLevel(lvl)
	}
	cache[category] = l
	return l
}
