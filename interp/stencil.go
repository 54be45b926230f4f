package interp

// PosVelRecord is one 6-double position+velocity node, the state unit
// shared by the Lagrange (Type 8/9) and Hermite (Type 12/13) segment
// families (spec.md §3 table).
type PosVelRecord struct {
	Pos [3]float64
	Vel [3]float64
}

// nodeTimes abstracts over the evenly spaced (Type 8/12, a fixed step) and
// irregularly spaced (Type 9/13, an explicit epoch array) node layouts so
// stencilStart has one implementation for both.
type nodeTimes interface {
	at(i int) float64
	len() int
}

type evenTimes struct {
	init float64
	step float64
	n    int
}

func (e evenTimes) at(i int) float64 { return e.init + float64(i)*e.step }
func (e evenTimes) len() int         { return e.n }

type explicitTimes struct{ data []float64 }

func (e explicitTimes) at(i int) float64 { return e.data[i] }
func (e explicitTimes) len() int         { return len(e.data) }

// stencilStart returns the index of the first of `window` consecutive nodes
// surrounding t, clamped so the stencil never runs past either array end —
// "the stencil is shifted to keep the same degree" (spec.md §4.3.3).
func stencilStart(nt nodeTimes, t float64, window int) int {
	n := nt.len()
	if window > n {
		window = n
	}
	lo, hi := 0, n-1
	idx := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if nt.at(mid) <= t {
			idx = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	start := idx - (window-1)/2
	if start < 0 {
		start = 0
	}
	if start+window > n {
		start = n - window
	}
	return start
}
