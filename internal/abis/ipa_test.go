package abis

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := Frame{Proto: ProtoRSL, Payload: []byte{1, 2, 3, 4}}
	wire, err := Encode(f)
	require.NoError(t, err)

	got, err := ReadFrame(bytes.NewReader(wire))
	require.NoError(t, err)
	require.Equal(t, f, got)
}

func TestReadFrameTwoInSequence(t *testing.T) {
	a, _ := Encode(Frame{Proto: ProtoOML, Payload: []byte("x")})
	b, _ := Encode(Frame{Proto: ProtoCCM, Payload: nil})
	r := bytes.NewReader(append(a, b...))

	f1, err := ReadFrame(r)
	require.NoError(t, err)
	require.Equal(t, ProtoOML, f1.Proto)

	f2, err := ReadFrame(r)
	require.NoError(t, err)
	require.Equal(t, ProtoCCM, f2.Proto)
	require.Empty(t, f2.Payload)
}

func TestReadFrameEOF(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestOversizePayloadRejected(t *testing.T) {
	_, err := Encode(Frame{Proto: ProtoRSL, Payload: make([]byte, MaxPayloadLen)})
	require.Error(t, err)
}

func TestEncodeFOMLayout(t *testing.T) {
	h := FormattedObjectHeader{MsgDisc: MsgDiscFOM, MsgType: 1, ObjClass: 2, ObjInst: [3]byte{0, 1, 2}}
	out := EncodeFOM(h, []byte{0xAA})
	require.Equal(t, byte(MsgDiscFOM), out[0])
	require.Equal(t, byte(0xAA), out[6])
}
