// Package power implements the two slow closed-loop controllers:
// MS uplink power and BTS downlink power (attenuation).
//
// Grounded on original_source/src/common/power_control.c, specifically
// lchan_ms_pwr_ctrl and its EWMA pre-filter lchan_ul_pf_ewma. The BS
// downlink loop (no retained C source for it) is built by mirroring the
// same shape the MS loop uses: attenuation
// instead of Tx level, threshold-crossing override, optional SACCH-period
// skipping and EWMA pre-filter.
package power

// BandTable converts between a GSM power control level and dBm for one
// band. Levels run 0..MaxLvl; dbm = BaseDbm - StepDb*level.
// This is the simplified single-slope stand-in for the real per-band
// tables in gsm_data_shared.c (GSM_BAND_900/1800/1900 each have slightly
// different level<->dBm mappings and a couple of special high-power
// levels); Band1800 below is defined entirely in terms of a "band 1800"
// table of exactly this 30-2*level shape, so that is what is implemented
// here.
type BandTable struct {
	BaseDbm int
	StepDb  int
	MaxLvl  int
}

// Band1800 is the simplified single-slope table the power loops use.
var Band1800 = BandTable{BaseDbm: 30, StepDb: 2, MaxLvl: 15}

// Band900 and Band1900 are the same single-slope shape at the other two
// GSM bands' typical max Tx power.
var (
	Band900  = BandTable{BaseDbm: 33, StepDb: 2, MaxLvl: 19}
	Band1900 = BandTable{BaseDbm: 30, StepDb: 2, MaxLvl: 15}
)

// BandByName resolves a configured band string ("900", "1800", "1900")
// to its BandTable, defaulting to Band1800 for anything unrecognised.
func BandByName(name string) BandTable {
	switch name {
	case "900":
		return Band900
	case "1900":
		return Band1900
	default:
		return Band1800
	}
}

// Dbm converts a power control level to dBm.
func (t BandTable) Dbm(level int) int {
	if level < 0 {
		level = 0
	}
	if level > t.MaxLvl {
		level = t.MaxLvl
	}
	return t.BaseDbm - t.StepDb*level
}

// Level converts a desired dBm value to the highest power control level
// whose power is at least that value (the division rounds toward the
// stronger level), clamped to [0, MaxLvl].
func (t BandTable) Level(dbm int) int {
	lvl := (t.BaseDbm - dbm) / t.StepDb
	if lvl < 0 {
		lvl = 0
	}
	if lvl > t.MaxLvl {
		lvl = t.MaxLvl
	}
	return lvl
}

// MsLoopParams configures the MS uplink power control loop.
type MsLoopParams struct {
	Band         BandTable
	TargetDbm    int
	HysteresisDb int
	RaiseMaxDb   int // MS_RAISE_MAX_DB in power_control.c
	LowerMaxDb   int // MS_LOWER_MAX_DB in power_control.c
	// EwmaEnabled selects MS_UL_PF_ALGO_EWMA; when false (the default,
	// matching power_control.c's MS_UL_PF_ALGO_NONE) samples pass
	// through unfiltered.
	EwmaEnabled  bool
	EwmaAlphaPct int // 'A' in lchan_ul_pf_ewma, 1..99
}

// DefaultMsLoopParams mirrors the MS_RAISE_MAX_DB / MS_LOWER_MAX_DB
// constants of power_control.c (4 / 8 dB per SACCH interval).
func DefaultMsLoopParams(band BandTable, targetDbm, hysteresisDb int) MsLoopParams {
	return MsLoopParams{Band: band, TargetDbm: targetDbm, HysteresisDb: hysteresisDb, RaiseMaxDb: 4, LowerMaxDb: 8}
}

// MsLoop is the per-lchan MS uplink power control state.
type MsLoop struct {
	Params  MsLoopParams
	Current int // current power control level
	Max     int // BSC-requested cap (power control level)
	ewma    int // Avg100, scaled EWMA accumulator
	primed  bool
}

// NewMsLoop creates a loop starting at `current` with a BSC cap of `max`
// (both power control levels).
func NewMsLoop(params MsLoopParams, current, max int) *MsLoop {
	return &MsLoop{Params: params, Current: current, Max: max}
}

// Step feeds one averaged uplink RxLev sample (dBm) for the current SACCH
// period and returns the (possibly unchanged) new power control level.
// Hysteresis keeps the loop stable; raise/lower steps keep it bounded.
func (l *MsLoop) Step(avgUlRssiDbm int) int {
	filtered := l.filterEwma(avgUlRssiDbm)

	diff := l.Params.TargetDbm - filtered
	if abs(diff) <= l.Params.HysteresisDb {
		return l.Current
	}
	if diff > l.Params.RaiseMaxDb {
		diff = l.Params.RaiseMaxDb
	} else if diff < -l.Params.LowerMaxDb {
		diff = -l.Params.LowerMaxDb
	}

	curDbm := l.Params.Band.Dbm(l.Current)
	newDbm := curDbm + diff
	if newDbm < 0 {
		newDbm = 0
	}
	maxDbm := l.Params.Band.Dbm(l.Max)
	if newDbm > maxDbm {
		newDbm = maxDbm
	}

	l.Current = l.Params.Band.Level(newDbm)
	return l.Current
}

// filterEwma applies the EWMA_SCALE_FACTOR=100 low-pass filter of
// lchan_ul_pf_ewma: Avg100 += A*(Pwr - Avg100/100); the first sample
// initializes Avg100 = Pwr*100 (pass-through).
func (l *MsLoop) filterEwma(pwr int) int {
	if !l.Params.EwmaEnabled {
		return pwr
	}
	alpha := l.Params.EwmaAlphaPct
	if alpha <= 0 {
		alpha = 50
	}
	if !l.primed {
		l.ewma = pwr * 100
		l.primed = true
		return pwr
	}
	l.ewma += alpha * (pwr - l.ewma/100)
	return l.ewma / 100
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
