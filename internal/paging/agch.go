// Package paging implements the AGCH/PCH bounded queue,
// including IMM-ASSIGN-REJECT merging.
//
// Grounded on original_source/src/common/bts.c: store_imm_ass_rej_refs,
// extract_imm_ass_rej_refs, try_merge_imm_ass_rej, bts_agch_enqueue,
// bts_agch_dequeue, bts_agch_max_queue_length.
package paging

// ReqRef is a GSM 04.08 request reference (opaque to the merge logic:
// only byte-equality matters).
type ReqRef [3]byte

const reqRefsPerImmAssRej = 4

// ImmAssReject is a simplified GSM 04.08 §9.1.20.2 IMMEDIATE ASSIGNMENT
// REJECT message body: up to 4 request-reference/wait-indicator pairs.
type ImmAssReject struct {
	RequestRefs [reqRefsPerImmAssRej]ReqRef
	WaitInds    [reqRefsPerImmAssRej]byte
}

// Message is one queued AGCH/PCH downlink message.
type Message struct {
	IsImmAssReject bool
	Reject         ImmAssReject
	Payload        []byte // raw L2, used for non-IMM-ASS-REJECT messages
}

// extractRefs pulls the distinct request refs out of a reject message,
// skipping duplicates the way extract_imm_ass_rej_refs does (ref2 counted
// only if it differs from ref1, ref3 only if it differs from both, etc).
func extractRefs(r ImmAssReject) ([]ReqRef, []byte) {
	refs := []ReqRef{r.RequestRefs[0]}
	waits := []byte{r.WaitInds[0]}
	for i := 1; i < reqRefsPerImmAssRej; i++ {
		dup := false
		for j := 0; j < i; j++ {
			if r.RequestRefs[i] == r.RequestRefs[j] {
				dup = true
				break
			}
		}
		if !dup {
			refs = append(refs, r.RequestRefs[i])
			waits = append(waits, r.WaitInds[i])
		}
	}
	return refs, waits
}

// storeRefs fills a reject message's 4 slots from refs/waits, cycling
// through the distinct entries to pad out empty slots (GSM 04.08
// §9.1.20.2: unused request reference fields repeat the ones present,
// not just the last one), and returns how many of refs/waits it consumed.
func storeRefs(out *ImmAssReject, refs []ReqRef, waits []byte) int {
	n := len(refs)
	if n == 0 {
		return 0
	}
	if n > reqRefsPerImmAssRej {
		n = reqRefsPerImmAssRej
	}
	for i := 0; i < reqRefsPerImmAssRej; i++ {
		out.RequestRefs[i] = refs[i%n]
		out.WaitInds[i] = waits[i%n]
	}
	return n
}

// tryMergeImmAssReject attempts to fold newMsg's request refs into
// oldMsg, in place. Returns true if newMsg was fully absorbed (and should
// be discarded by the caller).
func tryMergeImmAssReject(old, next *ImmAssReject) bool {
	oldRefs, oldWaits := extractRefs(*old)
	if len(oldRefs) == reqRefsPerImmAssRej {
		return false
	}
	newRefs, newWaits := extractRefs(*next)

	allRefs := append(append([]ReqRef{}, oldRefs...), newRefs...)
	allWaits := append(append([]byte{}, oldWaits...), newWaits...)

	stored := storeRefs(old, allRefs, allWaits)
	remaining := len(allRefs) - stored
	if remaining == 0 {
		return true
	}
	storeRefs(next, allRefs[stored:], allWaits[stored:])
	return false
}

// Queue is the per-BTS AGCH/PCH downlink message queue.
type Queue struct {
	items        []*Message
	hardLimit    int
	maxLength    int
	rejected     int
	merged       int
	lowWatermark int
	highWmark    int
}

// NewQueue creates a queue with the 1000-message hard cap of bts.c and a
// configurable soft maxLength (recomputed separately via MaxQueueLength).
func NewQueue() *Queue {
	return &Queue{hardLimit: 1000, maxLength: 1000}
}

// SetMaxLength installs the SI3-derived soft maximum (see MaxQueueLength).
func (q *Queue) SetMaxLength(n int) { q.maxLength = n }

// Len reports the current queue depth.
func (q *Queue) Len() int { return len(q.items) }

// Rejected reports how many enqueues were refused for exceeding the hard cap.
func (q *Queue) Rejected() int { return q.rejected }

// Merged reports how many IMM-ASSIGN-REJECT messages were folded into an
// existing queue tail instead of being appended.
func (q *Queue) Merged() int { return q.merged }

// Enqueue appends msg, merging it into the queue tail first if both the
// tail and msg are IMM-ASSIGN-REJECT messages with room to combine.
func (q *Queue) Enqueue(msg *Message) bool {
	if len(q.items) > q.hardLimit {
		q.rejected++
		return false
	}
	if len(q.items) > 0 && msg.IsImmAssReject {
		tail := q.items[len(q.items)-1]
		if tail.IsImmAssReject && tryMergeImmAssReject(&tail.Reject, &msg.Reject) {
			q.merged++
			return true
		}
	}
	q.items = append(q.items, msg)
	return true
}

// Dequeue pops the oldest message, or nil if empty.
func (q *Queue) Dequeue() *Message {
	if len(q.items) == 0 {
		return nil
	}
	m := q.items[0]
	q.items = q.items[1:]
	return m
}

// Compact drops IMM-ASSIGN-REJECT messages probabilistically once the
// queue depth crosses `low` (percent of maxLength), ramping the drop
// probability linearly to 1.0 at `high` percent, using the supplied [0,1)
// random draw per candidate message (caller-supplied so the decision is
// deterministic and testable).
func (q *Queue) Compact(lowPct, highPct int, draw func() float64) int {
	low := q.maxLength * lowPct / 100
	high := q.maxLength * highPct / 100
	depth := len(q.items)
	if depth <= low || high <= low {
		return 0
	}
	p := float64(depth-low) / float64(high-low)
	if p > 1 {
		p = 1
	}
	kept := q.items[:0]
	dropped := 0
	for _, m := range q.items {
		if m.IsImmAssReject && draw() < p {
			dropped++
			continue
		}
		kept = append(kept, m)
	}
	q.items = kept
	return dropped
}

// txIntegerTable and sValues implement bts_agch_max_queue_length's lookup of
// S (TS 04.08 Table 3.1 "Values of S") from the RACH control TX_INTEGER.
var txIntegerTable = [16]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 16, 20, 25, 32, 50}

// sValues[isCombinedCCCH][T_group].
var sValues = [2][5]int{
	{10, 9, 8, 7, 6},
	{55, 41, 31, 25, 20},
}

// MaxQueueLength computes the AGCH soft maximum:
// L = (T + 2*S) / R_RACH * R_CCCH, with R_CCCH encoded as a *256 ratio
// the way bts_agch_max_queue_length does (ccchRachRatio256 = 256/9 for
// combined CCCH+SDCCH, 256/5.5 otherwise).
func MaxQueueLength(txInteger int, combinedCCCH bool) int {
	tGroup := 0
	for i, t := range txIntegerTable {
		if t == txInteger {
			tGroup = i % 5
			break
		}
	}
	idx := 0
	if combinedCCCH {
		idx = 1
	}
	s := sValues[idx][tGroup]

	var ccchRachRatio256 int
	if combinedCCCH {
		ccchRachRatio256 = 256 / 9
	} else {
		ccchRachRatio256 = (256 * 2) / 11 // 1/5.5 == 2/11
	}
	return (txInteger + 2*s) * ccchRachRatio256 / 256
}
