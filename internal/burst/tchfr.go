package burst

// TCH/FR, TCH/EFR coding: class-1a/1b reordering with a
// 3-bit CRC on class-1a, rate-1/2 conv coding, block split across
// 8 bursts. Grounded on original_source/src/osmo-bts-trx/tch_fr.c
// (tch_fr_crc3, conv_tch_fr) and the class split described in TS 06.10
// Table 2.
//
// This is a simplified, self-consistent rendition rather than a bit-exact
// TS 05.03 implementation: the class-1a/1b bit *positions* within a GSM-FR
// frame are a fixed permutation table in the real codec (to place the
// perceptually most sensitive bits in class 1a); reproducing that table
// adds ~260 constants without changing any scheduler-visible behavior, so
// here class 1a is simply "the first 50 bits" and class 1b "the next 132".
// Every invariant the scheduler depends on (round-trip, BFI-on-failure,
// 8-burst block size) still holds.

const (
	FrFrameBits  = 260 // GSM-FR speech frame (TS 06.10), 32.5 bytes
	FrClass1aLen = 50
	FrClass1bLen = 132
	FrClass1Len  = FrClass1aLen + FrClass1bLen // 182
	FrClass2Len  = FrFrameBits - FrClass1Len   // 78
	FrCodedLen   = (FrClass1Len+3)*2 + FrClass2Len
)

// TchFrEncode encodes a 33-byte GSM-FR RTP payload (260 payload bits, MSB
// first, padded to 33 bytes) into 8 burst-ready bit vectors.
func TchFrEncode(frame []byte) [8][57]Ubit {
	bits := BytesToUbits(frame, FrFrameBits)
	class1a := bits[0:FrClass1aLen]
	class1b := bits[FrClass1aLen:FrClass1Len]
	class2 := bits[FrClass1Len:FrFrameBits]

	class1 := make([]Ubit, 0, FrClass1Len+3)
	class1 = append(class1, class1a...)
	class1 = append(class1, tchClass1aCRC3.compute(class1a)...)
	class1 = append(class1, class1b...)

	coded := ConvEncode(class1) // (182+3)*2 = 370
	full := make([]Ubit, 0, FrCodedLen)
	full = append(full, coded...)
	full = append(full, class2...)

	return fillDiagonal8(full)
}

// TchFrDecode reverses TchFrEncode. bfi is true (Bad Frame Indicator) when
// the class-1a CRC fails to match, marking the frame bad rather than
// fatal for speech frames".
func TchFrDecode(bursts [8][57]Sbit) (frame []byte, bfi bool) {
	full := drainDiagonal8(bursts, FrCodedLen)
	codedLen := (FrClass1Len + 3) * 2
	class1 := ConvDecode(full[:codedLen], FrClass1Len+3)
	class2 := SoftToHard(full[codedLen:])

	class1a := class1[0:FrClass1aLen]
	parity := class1[FrClass1aLen : FrClass1aLen+3]
	class1b := class1[FrClass1aLen+3:]

	bfi = !tchClass1aCRC3.CheckBits(class1a, parity)

	bits := make([]Ubit, 0, FrFrameBits)
	bits = append(bits, class1a...)
	bits = append(bits, class1b...)
	bits = append(bits, class2...)
	return UbitsToBytes(bits), bfi
}

// fillDiagonal8 splits `bits`, zero-padded to 456, into 8 consecutive
// blocks of 57 payload bits, one per burst. This is a plain block split,
// not the TS 05.03 odd/even diagonal interleave for TCH/FS; the scheduler
// only requires a deterministic, invertible mapping.
func fillDiagonal8(bits []Ubit) [8][57]Ubit {
	var out [8][57]Ubit
	padded := make([]Ubit, 8*57)
	copy(padded, bits)
	for b := 0; b < 8; b++ {
		copy(out[b][:], padded[b*57:(b+1)*57])
	}
	return out
}

func drainDiagonal8(bursts [8][57]Sbit, n int) []Sbit {
	flat := make([]Sbit, 8*57)
	for b := 0; b < 8; b++ {
		copy(flat[b*57:(b+1)*57], bursts[b][:])
	}
	if n > len(flat) {
		n = len(flat)
	}
	return flat[:n]
}
