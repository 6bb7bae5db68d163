// Package pcu implements the PCU UNIX-socket wire framing:
// a 4-byte header (msg_type, bts_nr, 2 bytes spare) followed by a
// message-type-specific body, at wire version 0x0D.
//
// Grounded on original_source's gsm_pcu_if struct family (referenced
// throughout src/common/pcuif_proto.c) and kissnet.go's
// socket-framing idiom (fixed header, then a declared body).
package pcu

import (
	"encoding/binary"
	"errors"
	"io"
)

const WireVersion = 0x0D

// DefaultSocketPath is the default PCU UNIX stream socket path of
// DefaultSocketPath is the default PCU UNIX stream socket path.
const DefaultSocketPath = "/tmp/pcu_bts"

// MsgType enumerates the recognised gsm_pcu_if message types.
type MsgType byte

const (
	MsgDataReq MsgType = iota
	MsgDataInd
	MsgDataCnf2
	MsgRtsReq
	MsgRachInd
	MsgInfoInd
	MsgActReq
	MsgTimeInd
	MsgInterfInd
	MsgPagReq
	MsgTxtInd
	MsgAppInfoReq
	MsgSuspReq
	MsgContainer
)

// Message is one decoded PCU interface message.
type Message struct {
	Type  MsgType
	BtsNr uint8
	Body  []byte
}

// Encode serializes a message: msg_type, bts_nr, 2 spare bytes, body.
func Encode(m Message) []byte {
	out := make([]byte, 4+len(m.Body))
	out[0] = byte(m.Type)
	out[1] = m.BtsNr
	copy(out[4:], m.Body)
	return out
}

var ErrShortHeader = errors.New("pcu: message shorter than the 4-byte header")

// Decode parses a fixed-size buffer already read from the socket (the
// PCU interface is message-oriented, not stream-framed: each recvmsg()
// delivers exactly one gsm_pcu_if message).
func Decode(buf []byte) (Message, error) {
	if len(buf) < 4 {
		return Message{}, ErrShortHeader
	}
	return Message{Type: MsgType(buf[0]), BtsNr: buf[1], Body: buf[4:]}, nil
}

// ReadMessage reads one length-delimited message from a stream socket
// wrapper that itself frames messages with a 2-byte big-endian length
// prefix (the UNIX stream socket transport's outer framing, distinct
// from the gsm_pcu_if header it carries).
func ReadMessage(r io.Reader) (Message, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Message{}, err
	}
	n := binary.BigEndian.Uint16(lenBuf[:])
	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Message{}, err
	}
	return Decode(body)
}

// WriteMessage writes one message with the stream transport's 2-byte
// length-prefix framing.
func WriteMessage(w io.Writer, m Message) error {
	wire := Encode(m)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(wire)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(wire)
	return err
}
