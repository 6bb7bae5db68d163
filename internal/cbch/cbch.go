// Package cbch implements the Cell Broadcast Scheduler.
//
// Grounded on original_source/src/common/cbch.c: two independent queues
// (basic/extended), each with an optional retained default message, the
// block-number-0-dequeues-a-new-message rule, and deletion of
// fully-transmitted non-default messages.
package cbch

const (
	// BlockLen is the 22-byte (176-bit) SMS-CB block payload length.
	BlockLen = 22
	// MsgLen is the 88-byte (4-block) SMS-CB message length.
	MsgLen = 4 * BlockLen
)

// Message is one queued (or default) SMS-CB message.
type Message struct {
	Payload [MsgLen]byte
}

// Block is one 23-byte CBCH radio block: a 1-byte header (lpd/seq_nr/lb)
// followed by 22 bytes of payload.
type Block struct {
	SeqNr byte // 0..3 for a normal message block, 8 for a schedule message
	Lb    bool // "last block" flag
	Null  bool
	Data  [BlockLen]byte
}

// Queue is one of the two (basic/extended) per-BTS SMS-CB queues.
type Queue struct {
	pending []*Message
	current *Message
	def     *Message
	maxLen  int
}

// NewQueue creates a queue with the given maximum pending length.
func NewQueue(maxLen int) *Queue {
	return &Queue{maxLen: maxLen}
}

// SetDefault installs (or clears, with nil) the retained default message
// sent when the pending queue is empty.
func (q *Queue) SetDefault(m *Message) { q.def = m }

// Enqueue appends a message to the pending queue, returns false if the
// queue is already at its configured maximum length.
func (q *Queue) Enqueue(m *Message) bool {
	if len(q.pending) >= q.maxLen {
		return false
	}
	q.pending = append(q.pending, m)
	return true
}

// NextBlock produces the CBCH block for the given block_nr (0..3) within
// the current 51-multiframe TB, dequeuing a new current message on
// block_nr==0 (picking the next pending message, or falling back to the
// default, or emitting a NULL block), per cbch.c's get_smscb_block /
// get_smscb_null_block.
func (q *Queue) NextBlock(blockNr int) Block {
	if blockNr == 0 {
		q.advance()
	}
	if q.current == nil {
		return Block{Null: true}
	}
	off := blockNr * BlockLen
	var out Block
	copy(out.Data[:], q.current.Payload[off:off+BlockLen])
	out.SeqNr = byte(blockNr)
	out.Lb = blockNr == 3
	if blockNr == 3 {
		q.finishCurrent()
	}
	return out
}

func (q *Queue) advance() {
	if len(q.pending) > 0 {
		q.current = q.pending[0]
		q.pending = q.pending[1:]
		return
	}
	q.current = q.def
}

// finishCurrent drops a fully-transmitted message unless it is the
// retained default (cbch.c: "delete any fully-transmitted normal message
// (or superseded default)").
func (q *Queue) finishCurrent() {
	if q.current != q.def {
		q.current = nil
	}
}

// Len reports the number of pending (not-yet-current) messages.
func (q *Queue) Len() int { return len(q.pending) }

// Scheduler owns the basic and extended queues of one BTS and drives them
// from the TB (CBCH multiframe slot) derived from the frame number, per
// TB = (fn/51) mod 8, TB 0..3 -> basic, 4..7 -> extended,
// block_nr = TB mod 4.
type Scheduler struct {
	Basic    *Queue
	Extended *Queue
}

// NewScheduler creates a scheduler with default-sized queues (matching
// no explicit cap in the reference C source: a generous 16-message bound is used,
// well above any deployment's real backlog).
func NewScheduler() *Scheduler {
	return &Scheduler{Basic: NewQueue(16), Extended: NewQueue(16)}
}

// NextBlock computes TB and block_nr from fn and returns the block to
// transmit this frame.
func (s *Scheduler) NextBlock(fn uint32) Block {
	tb := int((fn / 51) % 8)
	blockNr := tb % 4
	if tb < 4 {
		return s.Basic.NextBlock(blockNr)
	}
	return s.Extended.NextBlock(blockNr)
}
