// Package gsmtap implements the GSMTAP v2 header codec: a 16-byte
// header followed by the L2 PDU, used by both the virtual-Um multicast
// sink and the passive-capture sink.
//
// Grounded on original_source/include/osmocom/core/gsmtap.h's
// gsmtap_hdr layout, re-expressed as an explicit encoding/binary codec:
// fixed 16-byte header with explicit codec functions, not manual bit/
// byte-order annotations or a packed struct laid out over the wire.
package gsmtap

import "encoding/binary"

const (
	Version2   = 2
	HeaderLen  = 16
	DefaultPort = 4729
)

// ChanType is the GSMTAP channel-type code.
type ChanType byte

const (
	ChanUnknown ChanType = iota
	ChanBCCH
	ChanCCCH
	ChanRACH
	ChanSDCCH
	ChanSACCH
	ChanTCHF
	ChanTCHH
	ChanPDTCH
	ChanPTCCH
	ChanCBCH
)

// uplinkBit is OR-ed into the ARFCN field's high byte to distinguish
// uplink from downlink captures.
const uplinkBit = 0x80

// Header is the decoded form of a GSMTAP v2 header.
type Header struct {
	Arfcn    uint16
	Uplink   bool
	Timeslot uint8
	SubSlot  uint8
	ChanType ChanType
	FrameNr  uint32
	RssiDbm  int8
	SnrDb    int8
}

// Encode serializes a header and appends payload, producing a complete
// GSMTAP v2 packet.
func Encode(h Header, payload []byte) []byte {
	out := make([]byte, HeaderLen+len(payload))
	out[0] = Version2
	out[1] = HeaderLen / 4
	arfcnHi := byte(h.Arfcn >> 8)
	if h.Uplink {
		arfcnHi |= uplinkBit
	}
	out[2] = arfcnHi
	out[3] = byte(h.Arfcn)
	out[4] = byte(h.ChanType)
	out[5] = 0 // antenna number, unused
	out[6] = h.SubSlot
	out[7] = h.Timeslot
	binary.BigEndian.PutUint32(out[8:12], h.FrameNr)
	out[12] = byte(h.RssiDbm)
	out[13] = byte(h.SnrDb)
	out[14] = 0
	out[15] = 0
	copy(out[HeaderLen:], payload)
	return out
}

// Decode parses a GSMTAP v2 packet into its header and payload.
func Decode(pkt []byte) (Header, []byte, bool) {
	if len(pkt) < HeaderLen || pkt[0] != Version2 {
		return Header{}, nil, false
	}
	arfcnHi := pkt[2]
	h := Header{
		Arfcn:    uint16(arfcnHi&^uplinkBit)<<8 | uint16(pkt[3]),
		Uplink:   arfcnHi&uplinkBit != 0,
		ChanType: ChanType(pkt[4]),
		SubSlot:  pkt[6],
		Timeslot: pkt[7],
		FrameNr:  binary.BigEndian.Uint32(pkt[8:12]),
		RssiDbm:  int8(pkt[12]),
		SnrDb:    int8(pkt[13]),
	}
	return h, pkt[HeaderLen:], true
}
