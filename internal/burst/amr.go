package burst

// AMR (AFS/AHS) in-band signalling: CMI/CMR schedule and DTX sub-frame
// classification for AMR (AFS/AHS).
//
// Grounded on original_source/src/osmo-bts-trx/sched_lchan_tchf.c (comment
// "the first FN 0,8,17 defines that CMI is included in frame" for uplink,
// "first FN 4,13,21" for downlink) and sched_lchan_tchh.c
// (sched_tchh_ul_amr_cmi_map).

// ulAmrCmiFns are the TCH/F voice-block-aligned frame numbers (mod 26,
// the AMR multiframe period within the 26-frame TCH/F multiframe) at which
// the uplink voice block carries a CMI (Codec Mode Indication) instead of
// a plain speech frame.
var ulAmrCmiFns = map[int]bool{0: true, 8: true, 17: true}

// UlAmrFnIsCmi reports whether the uplink AMR voice block beginning at
// frame number fnBegin carries CMI.
func UlAmrFnIsCmi(fnBegin uint32) bool {
	return ulAmrCmiFns[int(fnBegin%26)]
}

// DlAmrFnIsCmi is the downlink counterpart: it returns the inverse of
// UlAmrFnIsCmi, so among the TCH/F voice-block starts the downlink CMI
// frames are 4, 13 and 21, the complement of the uplink CMI set.
func DlAmrFnIsCmi(fnBegin uint32) bool {
	return !UlAmrFnIsCmi(fnBegin)
}

// AmrDtxType enumerates the AMR DTX sub-frame types,
// which select the measurement averaging window (see internal/lchan).
type AmrDtxType int

const (
	AmrDtxNone AmrDtxType = iota
	AmrDtxOnset
	AmrDtxSidFirst
	AmrDtxSidUpdate
	AmrDtxSidUpdateCN
	AmrDtxSidFirstInh
	AmrDtxSidUpdateInh
)

// AmrToc is the minimal AMR Table-of-Contents byte this package decodes:
// bit 7 = F (follow-on indicator, unused here), bits 6..3 = FT (frame
// type/mode index or DTX marker per 3GPP TS 26.101), bit 2 = Q (quality).
type AmrToc struct {
	FT byte
	Q  bool
}

// ParseAmrToc extracts the TOC fields from the first octet of an AMR
// payload frame.
func ParseAmrToc(b byte) AmrToc {
	return AmrToc{FT: (b >> 3) & 0x0f, Q: (b>>2)&1 != 0}
}

// AMR frame-type codes that carry DTX signalling, per TS 26.101 Table 1a.
const (
	amrFtSidFirst  = 8
	amrFtSidUpdate = 9
	amrFtOnset     = 11 // vendor-specific onset marker used by osmo-bts
)

// ClassifyAmrDtx maps a decoded AMR TOC to the DTX sub-frame type used to
// select the measurement averaging window.
func ClassifyAmrDtx(toc AmrToc) AmrDtxType {
	switch toc.FT {
	case amrFtSidFirst:
		return AmrDtxSidFirst
	case amrFtSidUpdate:
		return AmrDtxSidUpdate
	case amrFtOnset:
		return AmrDtxOnset
	default:
		return AmrDtxNone
	}
}
