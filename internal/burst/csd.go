package burst

// CSD (Circuit-Switched Data) rate adaptation. For
// GSM48 data modes {14k5, 12k0, 6k0, 3k6} this package implements RA1/RA2
// V.110 frame packing into RFC 4040 80-bit frames, grounded on the
// TS 48.020 Table 7 (NT mode) and TS 44.021 §8.1.6 (idle pattern, property
// field layout of TS 48.020/TS 44.021.

// CsdMode identifies a GSM48 data rate.
type CsdMode int

const (
	Csd14k5 CsdMode = iota
	Csd12k0
	Csd6k0
	Csd3k6
)

const V110FrameBits = 80

// v110IdlePattern is the TS 44.021 §8.1.6 idle pattern: every bit except
// the synchronisation bit at position 0 set to 1.
var v110IdlePattern = func() [V110FrameBits]Ubit {
	var f [V110FrameBits]Ubit
	for i := range f {
		f[i] = 1
	}
	// Frame sync: bit 0 of octet 0 (position 0) is always 0 in V.110.
	f[0] = 0
	return f
}()

// V110Idle returns the idle-condition 80-bit V.110 frame emitted when no
// uplink input is available.
func V110Idle() [V110FrameBits]Ubit {
	return v110IdlePattern
}

// V110CheckAlignment reports whether frame is a structurally valid V.110
// frame: position 0 (the frame synchronisation bit) must be 0, matching
// the V.110 octet alignment check.
func V110CheckAlignment(frame [V110FrameBits]Ubit) bool {
	return frame[0] == 0
}

// PackV110 packs the first 79 bits of payload (transparent E1/E2/E3 mode
// bits already set by the caller per csd_mode) into one 80-bit V.110
// frame: bit 0 is the sync bit (0), the remaining 79 bits carry payload
// MSB-first, zero-padded; bits beyond the 79th are dropped.
func PackV110(payload []byte, mode CsdMode) [V110FrameBits]Ubit {
	if len(payload) == 0 {
		return V110Idle()
	}
	var f [V110FrameBits]Ubit
	f[0] = 0
	bits := BytesToUbits(payload, 79)
	copy(f[1:], bits)
	return f
}

// UnpackV110 reverses PackV110, returning ok=false (idle/misaligned) when
// the frame fails the alignment check.
func UnpackV110(frame [V110FrameBits]Ubit) (payload []byte, ok bool) {
	if !V110CheckAlignment(frame) {
		return nil, false
	}
	return UbitsToBytes(frame[1:]), true
}
