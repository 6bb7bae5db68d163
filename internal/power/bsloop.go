package power

// AttenLoopParams configures the BTS downlink (attenuation) power control
// loop. No reference C source for this loop was available (only the MS
// uplink loop, power_control.c, was); this implementation mirrors the MS
// loop's shape 1:1, substituting attenuation-dB bookkeeping for
// power-level lookups.
type AttenLoopParams struct {
	TargetDbm    int
	HysteresisDb int
	IncStepMaxDb int // max dB attenuation may decrease per interval (more power)
	RedStepMaxDb int // max dB attenuation may increase per interval (less power)
	MaxAttenDb   int
	// CtrlInterval selects SACCH-period skipping: 0,1,2 => act every
	// {1,2,4} SACCH blocks.
	CtrlInterval int
}

// RxQualThresholds holds the per-codec "lower"/"upper" RxQual thresholds
// of TS 45.008 §A.3.2.1.
type RxQualThresholds struct{ Lower, Upper int }

var (
	RxQualFR    = RxQualThresholds{Lower: 13, Upper: 17}
	RxQualHR    = RxQualThresholds{Lower: 16, Upper: 21}
	RxQualAmrFR = RxQualThresholds{Lower: 7, Upper: 11}
	RxQualAmrHR = RxQualThresholds{Lower: 13, Upper: 17}
	RxQualSDCCH = RxQualThresholds{Lower: 12, Upper: 16}
	RxQualGPRS  = RxQualThresholds{Lower: 18, Upper: 24}
)

// BsLoop is the per-lchan BTS downlink power control state. CurrentAtten is
// the attenuation reduction in dB below the configured max Tx power;
// decreasing it raises Tx power.
type BsLoop struct {
	Params       AttenLoopParams
	CurrentAtten int
	skipCounter  int
	ewma         int
	primed       bool
	ewmaEnabled  bool
	ewmaAlphaPct int
}

// NewBsLoop creates a loop starting at the given attenuation.
func NewBsLoop(params AttenLoopParams, currentAtten int) *BsLoop {
	return &BsLoop{Params: params, CurrentAtten: currentAtten}
}

// EnableEwma turns on the optional RxLev EWMA pre-filter.
func (l *BsLoop) EnableEwma(alphaPct int) {
	l.ewmaEnabled = true
	l.ewmaAlphaPct = alphaPct
}

// Step feeds one averaged downlink RxLev sample (dBm, as reported back by
// the MS) and optionally an RxQual value (0..7; pass -1 if unavailable),
// and returns the new attenuation. Hysteresis/bounding work the same way
// MsLoop's Step does, plus an RxQual threshold override.
func (l *BsLoop) Step(avgDlRxLevDbm int, rxQual int, qualThresh RxQualThresholds) int {
	if l.Params.CtrlInterval > 0 {
		l.skipCounter++
		period := 1 << uint(l.Params.CtrlInterval)
		if l.skipCounter%period != 0 {
			return l.CurrentAtten
		}
	}

	filtered := l.filterEwma(avgDlRxLevDbm)

	// RxQual crossing the "lower" threshold forces a power raise
	// (attenuation decrease) regardless of RxLev.
	if rxQual >= 0 && rxQual > qualThresh.Lower {
		step := l.Params.IncStepMaxDb
		if step <= 0 {
			step = 2
		}
		l.CurrentAtten = clamp(l.CurrentAtten-step, 0, l.Params.MaxAttenDb)
		return l.CurrentAtten
	}

	diff := l.Params.TargetDbm - filtered
	if abs(diff) <= l.Params.HysteresisDb {
		return l.CurrentAtten
	}
	if l.Params.RedStepMaxDb > 0 && diff > l.Params.RedStepMaxDb {
		diff = l.Params.RedStepMaxDb
	}
	if l.Params.IncStepMaxDb > 0 && diff < -l.Params.IncStepMaxDb {
		diff = -l.Params.IncStepMaxDb
	}

	// CurrentAtten moves by diff: see DESIGN.md for the worked numeric
	// trace this sign convention is grounded on.
	l.CurrentAtten = clamp(l.CurrentAtten+diff, 0, l.Params.MaxAttenDb)
	return l.CurrentAtten
}

func (l *BsLoop) filterEwma(pwr int) int {
	if !l.ewmaEnabled {
		return pwr
	}
	alpha := l.ewmaAlphaPct
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

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
