// Package abis implements the IPA wire framing: a 3-byte
// header (2-byte big-endian length + 1-byte protocol discriminator)
// prefixing each Abis OML/RSL payload, plus the vendor-extension ManId
// magic strings.
//
// Grounded on kiss_frame.go's framing style (read a fixed
// header, then the declared-length body) generalized from KISS's
// FEND-delimited framing to IPA's length-prefixed framing; the protocol
// discriminator values themselves come from
// original_source/include/osmocom/core/linuxlist.h-adjacent IPA
// constants referenced throughout original_source/src/common/abis.c.
package abis

import (
	"encoding/binary"
	"errors"
	"io"
)

// Proto is the one-byte IPA protocol discriminator.
type Proto byte

const (
	ProtoCCM  Proto = 0xFE
	ProtoOML  Proto = 0xFF
	ProtoRSL  Proto = 0x00
	ProtoOsmo Proto = 0xEE
)

// ManIdIpaccess and ManIdOsmocom are the NUL-terminated vendor-extension
// magic strings (13 and 12 bytes).
var (
	ManIdIpaccess = []byte("com.ipaccess\x00")
	ManIdOsmocom  = []byte("org.osmocom\x00")
)

// MaxPayloadLen is the largest value of the 16-bit length field, which
// counts the protocol byte plus the payload; Encode therefore rejects
// payloads longer than MaxPayloadLen-1 bytes.
const MaxPayloadLen = 65535

// Frame is one decoded IPA message.
type Frame struct {
	Proto   Proto
	Payload []byte
}

var ErrOversizeFrame = errors.New("abis: frame exceeds MaxPayloadLen")

// Encode serializes a frame into its wire form: 2-byte big-endian length
// (of Proto + Payload), 1-byte Proto, then Payload.
func Encode(f Frame) ([]byte, error) {
	if len(f.Payload) > MaxPayloadLen-1 {
		return nil, ErrOversizeFrame
	}
	out := make([]byte, 3+len(f.Payload))
	binary.BigEndian.PutUint16(out[0:2], uint16(len(f.Payload)+1))
	out[2] = byte(f.Proto)
	copy(out[3:], f.Payload)
	return out, nil
}

// ReadFrame reads one IPA frame from r, or an error (including io.EOF on
// a clean stream close).
func ReadFrame(r io.Reader) (Frame, error) {
	var hdr [3]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Frame{}, err
	}
	length := binary.BigEndian.Uint16(hdr[0:2])
	if length == 0 {
		return Frame{}, errors.New("abis: zero-length frame has no protocol byte")
	}
	if int(length) > MaxPayloadLen {
		return Frame{}, ErrOversizeFrame
	}
	proto := Proto(hdr[2])
	payload := make([]byte, length-1)
	if length > 1 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, err
		}
	}
	return Frame{Proto: proto, Payload: payload}, nil
}

// FormattedObjectHeader holds the header fields EncodeFOM writes for a
// TS 12.21 formatted-object message: message discriminator, message type,
// object class and object instance. The placement, sequence-number and
// length octets of the TS 12.21 header are not represented or written.
type FormattedObjectHeader struct {
	MsgDisc   byte // FOM=0x80, MANUF=0x81 in TS 12.21
	MsgType   byte
	ObjClass  byte
	ObjInst   [3]byte // bts/trx/ts instance triplet
}

const (
	MsgDiscFOM   = 0x80
	MsgDiscManuf = 0x81
)

// EncodeFOM serializes a formatted-object header followed by its
// attribute payload.
func EncodeFOM(h FormattedObjectHeader, attrs []byte) []byte {
	out := make([]byte, 6+len(attrs))
	out[0] = h.MsgDisc
	out[1] = h.MsgType
	out[2] = h.ObjClass
	copy(out[3:6], h.ObjInst[:])
	copy(out[6:], attrs)
	return out
}
