package burst

// Rate-1/2, K=5 convolutional code shared by xCCH, RACH and (as the base
// for puncturing) PDTCH CS-1: G0 = 1+x^3+x^4, G1 = 1+x+x^3+x^4. Grounded on
// conv_xcch / conv_rach in original_source/src/osmo-bts-trx/{xcch,rach}.c,
// which both instantiate the identical osmo_conv_code tables -- GSM reuses
// one generator pair across every non-punctured channel coding in TS 45.003.
//
// The C source drives a generic table-interpreter (osmo_conv_encode /
// osmo_conv_decode) off next_output/next_state arrays. Since every caller
// in this package uses the same single code, ConvEncode/ConvDecode
// implement it directly against the generator polynomials instead of
// carrying the interpreter machinery -- this is the adaptation the spec's
// "dynamic dispatch via function pointers" pattern the C source uses --
// calls for: a static capability replacing runtime table indirection.

const convK = 5          // constraint length (4 memory bits + 1 input bit)
const convStates = 1 << (convK - 1)

// convOutputs[state][input] gives the 2-bit (o0,o1) output for the
// transition out of `state` on `input`, derived from G0/G1 taps
// (1,0,0,1,1) and (1,1,0,1,1) applied to the 5-bit shift register whose
// bit 0 is the current input (x^0) and bits 1..4 the previous four inputs
// (x^1..x^4, most recent first).
func convOutputs(state int, input int) (int, int) {
	reg := (state << 1) | input // 5-bit register: b0 = input, b1..b4 = state
	o0 := parity(reg & 0b11001) // taps x^0, x^3, x^4 -> bits 0,3,4
	o1 := parity(reg & 0b11011) // taps x^0, x^1, x^3, x^4 -> bits 0,1,3,4
	return o0, o1
}

func parity(v int) int {
	p := 0
	for v != 0 {
		p ^= v & 1
		v >>= 1
	}
	return p
}

func convNextState(state, input int) int {
	return ((state << 1) | input) & (convStates - 1)
}

// ConvEncode runs the rate-1/2 K=5 encoder over `in` (one ubit per slice
// entry) and returns 2*len(in) coded output bits. The encoder always
// starts in the all-zero state and no flush bits are appended, so the code
// is not terminated: the register ends in whatever state the last K-1
// input bits leave it, and ConvDecode picks the best final state.
func ConvEncode(in []Ubit) []Ubit {
	out := make([]Ubit, 0, len(in)*2)
	state := 0
	for _, b := range in {
		input := int(b)
		o0, o1 := convOutputs(state, input)
		out = append(out, Ubit(o0), Ubit(o1))
		state = convNextState(state, input)
	}
	return out
}

// ConvDecode runs a soft-decision Viterbi decoder over 2*n coded soft bits
// and returns the n most likely input bits. It corrects channel errors
// (including single-bit errors) by maximum
// likelihood path selection across all 16 states.
func ConvDecode(coded []Sbit, n int) []Ubit {
	const inf = 1 << 30
	type node struct {
		metric int
		prev   int
		input  int
	}
	trellis := make([][convStates]node, n+1)
	for s := 0; s < convStates; s++ {
		trellis[0][s].metric = inf
	}
	trellis[0][0].metric = 0

	for t := 0; t < n; t++ {
		c0, c1 := coded[2*t], coded[2*t+1]
		var next [convStates]node
		for s := 0; s < convStates; s++ {
			next[s].metric = inf
		}
		for s := 0; s < convStates; s++ {
			cur := trellis[t][s]
			if cur.metric == inf {
				continue
			}
			for input := 0; input <= 1; input++ {
				o0, o1 := convOutputs(s, input)
				cost := softCost(o0, c0) + softCost(o1, c1)
				ns := convNextState(s, input)
				m := cur.metric + cost
				if m < next[ns].metric {
					next[ns] = node{metric: m, prev: s, input: input}
				}
			}
		}
		trellis[t+1] = next
	}

	// Find best final state.
	best, bestMetric := 0, 1<<30
	for s := 0; s < convStates; s++ {
		if trellis[n][s].metric < bestMetric {
			bestMetric = trellis[n][s].metric
			best = s
		}
	}

	out := make([]Ubit, n)
	state := best
	for t := n; t > 0; t-- {
		node := trellis[t][state]
		out[t-1] = Ubit(node.input)
		state = node.prev
	}
	return out
}

// softCost is the branch metric for expected hard bit `expect` against
// received soft bit `got` (positive got => bit 0, negative => bit 1).
func softCost(expect int, got Sbit) int {
	// Cost is 0 when the soft bit agrees strongly, growing with
	// disagreement; equivalent to Euclidean-like metric on sign+magnitude.
	if expect == 0 {
		return int(127 - int(got))
	}
	return int(127 + int(got))
}
