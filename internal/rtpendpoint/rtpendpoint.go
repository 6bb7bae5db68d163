// Package rtpendpoint implements the RtpEndpoint abstraction: a single
// interface with SendFrame/Poll/Close, implemented by a no-RTP endpoint
// and a twjit-style jitter buffer (there is no ORTP-backed endpoint),
// plus the Osmux circuit-ID bitmap allocator shared resources need.
//
// Grounded on original_source/include/themwi/rtp/twjit.h (the
// poll-for-frame jitter-buffer contract) and src/common/osmux.c's
// osmux_cid_bitmap allocator.
package rtpendpoint

import "github.com/osmo-go/btssched/internal/btserr"

// Frame is one payload handed to or received from an RtpEndpoint.
type Frame struct {
	Payload  []byte
	Marker   bool
	Duration int // samples, media-clock-rate dependent
}

// Endpoint is the single interface the RTP back-ends here (NullEndpoint
// and JitterEndpoint) implement, so the scheduler never branches on which
// one is active.
type Endpoint interface {
	SendFrame(f Frame) error
	Poll() (Frame, bool)
	Close() error
}

// NullEndpoint discards everything sent and never yields a frame; used
// when RTP is not configured for an lchan (the "no-RTP" case).
type NullEndpoint struct{}

func (NullEndpoint) SendFrame(Frame) error   { return nil }
func (NullEndpoint) Poll() (Frame, bool)     { return Frame{}, false }
func (NullEndpoint) Close() error            { return nil }

// jitterSlot is one buffered frame plus its sequence number, used by
// JitterEndpoint to reorder frames the way twjit's input side does.
type jitterSlot struct {
	seq   uint16
	frame Frame
}

// JitterEndpoint is a minimal twjit-style jitter buffer: frames are
// admitted out of order (by sequence number) and Poll drains them in
// sequence order once a configurable depth has accumulated.
type JitterEndpoint struct {
	depth int
	buf   []jitterSlot
	out   chan Frame
}

// NewJitterEndpoint creates a jitter buffer that reorders up to depth
// frames before releasing the oldest.
func NewJitterEndpoint(depth int) *JitterEndpoint {
	if depth < 1 {
		depth = 1
	}
	return &JitterEndpoint{depth: depth}
}

// Admit inserts a frame at the given sequence number (the uplink side of
// twjit_in.c: arriving RTP packets are buffered keyed by sequence).
func (j *JitterEndpoint) Admit(seq uint16, f Frame) {
	j.buf = append(j.buf, jitterSlot{seq: seq, frame: f})
	for i := len(j.buf) - 1; i > 0 && j.buf[i].seq < j.buf[i-1].seq; i-- {
		j.buf[i], j.buf[i-1] = j.buf[i-1], j.buf[i]
	}
}

func (j *JitterEndpoint) SendFrame(f Frame) error { return nil }

// Poll releases the oldest buffered frame once depth frames are held.
func (j *JitterEndpoint) Poll() (Frame, bool) {
	if len(j.buf) < j.depth {
		return Frame{}, false
	}
	f := j.buf[0].frame
	j.buf = j.buf[1:]
	return f, true
}

func (j *JitterEndpoint) Close() error { j.buf = nil; return nil }

// OsmuxCidMax is the highest valid Osmux circuit ID (osmux.c:
// OSMUX_CID_MAX).
const OsmuxCidMax = 255

// CidAllocator is the first-free Osmux circuit-ID bitmap allocator: Alloc
// hands out the lowest free ID.
type CidAllocator struct {
	used [OsmuxCidMax + 1]bool
}

// Alloc returns the lowest-numbered free circuit ID, or an error if none
// remain (osmux_cid_bitmap exhausted).
func (a *CidAllocator) Alloc() (int, error) {
	for i := 0; i <= OsmuxCidMax; i++ {
		if !a.used[i] {
			a.used[i] = true
			return i, nil
		}
	}
	return -1, btserr.New(btserr.ClassTransientRadio, "rtpendpoint.CidAllocator.Alloc", btserr.ErrInvariant)
}

// Free returns a circuit ID to the pool.
func (a *CidAllocator) Free(cid int) {
	if cid >= 0 && cid <= OsmuxCidMax {
		a.used[cid] = false
	}
}

// OutputKey identifies the shared Osmux output handle multiple lchans
// may multiplex onto, keyed by (remote_ip, remote_port).
type OutputKey struct {
	RemoteIP   string
	RemotePort int
}
