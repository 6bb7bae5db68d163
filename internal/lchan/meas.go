// Package lchan implements the logical-channel state and measurement
// averaging: per-burst measurement ring, SACCH-period
// averaging with AMR-DTX-dependent window selection, SUB-frame tagging,
// and BER-to-RxQual conversion.
//
// Grounded on original_source/src/common/measurement.c: ts45008_83_is_sub,
// ber10k_to_rxqual, and the lchan measurement-accumulation loop in
// lchan_new_ul_meas/lchan_meas_reset.
package lchan

import "math"

// Sample is one uplink burst's measurement tuple.
type Sample struct {
	Fn      uint32
	Ber10k  uint32 // bit error rate * 10000
	Toa256  int16  // timing of arrival, 1/256 symbol
	CiCb    int16  // carrier-to-interference, centibel
	RssiDbm int
	IsSub   bool
}

// MaxMeasRing is the 104-sample cap (`meas.num_ul_meas <= 104`).
const MaxMeasRing = 104

// MeasRing accumulates uplink samples across one SACCH period.
type MeasRing struct {
	samples []Sample
}

// Push appends a sample, silently dropping it once MaxMeasRing is reached
// (the ring resets at every SACCH-period end).
func (r *MeasRing) Push(s Sample) {
	if len(r.samples) >= MaxMeasRing {
		return
	}
	r.samples = append(r.samples, s)
}

// Reset clears the ring at SACCH-period end.
func (r *MeasRing) Reset() { r.samples = r.samples[:0] }

// Len reports the number of accumulated samples.
func (r *MeasRing) Len() int { return len(r.samples) }

// AmrDtxWindow names the averaging window AMR DTX classification selects
// from the AMR DTX sub-frame type.
type AmrDtxWindow int

const (
	WindowOcto          AmrDtxWindow = iota // 8 (TCH/F, no DTX)
	WindowSix                               // 6 (TCH/H, no DTX)
	WindowQuad                              // 4 (ONSET)
	WindowM8FirstQuad                       // first 4 of 8 (SID_FIRST/SID_UPDATE_CN, F)
	WindowM6FirstTwo                        // first 2 of 6 (SID_FIRST/SID_UPDATE_CN/SID_INH, H)
	WindowM6MiddleTwo                       // middle 2 of 6
)

// windowSize returns how many samples the window covers.
func windowSize(w AmrDtxWindow) int {
	switch w {
	case WindowOcto:
		return 8
	case WindowSix:
		return 6
	case WindowQuad:
		return 4
	case WindowM8FirstQuad:
		return 4
	case WindowM6FirstTwo:
		return 2
	case WindowM6MiddleTwo:
		return 2
	default:
		return 8
	}
}

// windowSlice picks out the sub-slice of the most recent block (of
// blockLen samples) that the window names.
func windowSlice(block []Sample, w AmrDtxWindow) []Sample {
	n := len(block)
	if n == 0 {
		return nil
	}
	switch w {
	case WindowM8FirstQuad:
		if n > 4 {
			return block[:4]
		}
		return block
	case WindowM6FirstTwo:
		if n > 2 {
			return block[:2]
		}
		return block
	case WindowM6MiddleTwo:
		if n >= 4 {
			mid := n / 2
			return block[mid-1 : mid+1]
		}
		return block
	default:
		size := windowSize(w)
		if size > n {
			size = n
		}
		return block[n-size:]
	}
}

// Average is one SACCH-period averaged measurement report.
type Average struct {
	RxLevDbm  int
	RxQual    uint8
	ToaStdDev int
	NumMeas   int
}

// AverageBlock computes the averaged report over the last block of
// samples (selected by Window): averaging N copies of the same sample
// returns that sample.
func AverageBlock(block []Sample, w AmrDtxWindow) Average {
	sel := windowSlice(block, w)
	if len(sel) == 0 {
		// An empty selection (num_meas_sub == 0) is treated as 100% BER, -120 dBm.
		return Average{RxLevDbm: -120, RxQual: 7, NumMeas: 0}
	}
	var sumBer, sumRssi int64
	var sumToa int64
	for _, s := range sel {
		sumBer += int64(s.Ber10k)
		sumRssi += int64(s.RssiDbm)
		sumToa += int64(s.Toa256)
	}
	n := int64(len(sel))
	meanBer := uint32(sumBer / n)
	meanRssi := int(sumRssi / n)
	meanToa := sumToa / n

	var sumSq int64
	for _, s := range sel {
		d := int64(s.Toa256) - meanToa
		sumSq += d * d
	}
	stddev := isqrt(sumSq / n)

	return Average{
		RxLevDbm:  meanRssi,
		RxQual:    ber10kToRxQual(meanBer),
		ToaStdDev: stddev,
		NumMeas:   len(sel),
	}
}

// ber10kToRxQual converts averaged BER*10000 to the 8-level TS 45.008
// §8.2.4 RxQual scale.
func ber10kToRxQual(ber10k uint32) uint8 {
	thresholds := [7]uint32{20, 40, 80, 160, 320, 640, 1280}
	for i, t := range thresholds {
		if ber10k < t {
			return uint8(i)
		}
	}
	return 7
}

func isqrt(v int64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(v)))
}

// LchanType names the measurement-tagging-relevant channel kind.
type LchanType int

const (
	TchF LchanType = iota
	TchHSub0
	TchHSub1
)

// ts45008SubTchF, ts45008SubTchHSub0/1 are the TS 45.008 §8.3 fixed index
// lists of fn%104 values counted as SUB measurements.
var (
	ts45008SubTchF    = map[uint32]bool{52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true, 59: true}
	ts45008SubTchHSub0 = map[uint32]bool{0: true, 2: true, 4: true, 6: true, 52: true, 54: true, 56: true, 58: true}
	ts45008SubTchHSub1 = map[uint32]bool{14: true, 16: true, 18: true, 20: true, 66: true, 68: true, 70: true, 72: true}
)

// IsSub decides whether a burst at fn is part of the SUB measurement set,
// per ts45008_83_is_sub: SACCH-grid frames always count, plus the
// mode-specific fixed index list, plus any AMR SID_UPDATE frame.
func IsSub(typ LchanType, fn uint32, isSacchFrame, isAmrSidUpdate bool) bool {
	if isSacchFrame {
		return true
	}
	if isAmrSidUpdate {
		return true
	}
	fn104 := fn % 104
	switch typ {
	case TchF:
		return ts45008SubTchF[fn104]
	case TchHSub0:
		return ts45008SubTchHSub0[fn104]
	case TchHSub1:
		return ts45008SubTchHSub1[fn104]
	default:
		return false
	}
}
