package interp

import "github.com/goastro/anise/anerr"

// HermiteSet is the Type 12 (evenly spaced) / Type 13 (unequally spaced)
// payload: a stencil of PosVelRecord nodes interpolated with a Hermite
// basis that matches both value and derivative at every node (spec.md
// §4.3.3). The outer layout is the same as Lagrange's; only the
// interpolation rule differs, per spec.md §3's combined table row.
type HermiteSet struct {
	Degree     int
	NumRecords int
	StateData  []float64 // NumRecords*6 doubles, zero-copy view into the segment
	Times      nodeTimes
}

func (h HermiteSet) nodeAt(i int) PosVelRecord {
	off := i * 6
	s := h.StateData[off : off+6]
	return PosVelRecord{Pos: [3]float64{s[0], s[1], s[2]}, Vel: [3]float64{s[3], s[4], s[5]}}
}

// NewHermiteType12 decodes an evenly spaced Hermite segment: [states…],
// [init_et, step_s, degree, n_records].
func NewHermiteType12(segment []float64) (HermiteSet, error) {
	const name = "Hermite Type 12"
	n := len(segment)
	if n < 4 {
		return HermiteSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s needs at least 4 doubles, got %d", name, n)
	}
	initET := segment[n-4]
	stepS := segment[n-3]
	if !isFinite(initET) || !isFinite(stepS) {
		return HermiteSet{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
			"%s: init epoch/step size is not finite", name)
	}
	degree := int(segment[n-2])
	numRecords := int(segment[n-1])
	stateData := segment[:n-4]
	if len(stateData) != numRecords*6 {
		return HermiteSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s: state data length %d does not match %d records of 6 doubles", name, len(stateData), numRecords)
	}
	return HermiteSet{
		Degree:     degree,
		NumRecords: numRecords,
		StateData:  stateData,
		Times:      evenTimes{init: initET, step: stepS, n: numRecords},
	}, nil
}

// NewHermiteType13 decodes an unequally spaced Hermite segment: state
// block, epoch block (one f64 per state), optional epoch directory
// (ignored — a lookup optimization, not needed for correctness), then
// [degree, n_records].
func NewHermiteType13(segment []float64) (HermiteSet, error) {
	const name = "Hermite Type 13"
	n := len(segment)
	if n < 2 {
		return HermiteSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s needs at least 2 doubles, got %d", name, n)
	}
	degree := int(segment[n-2])
	numRecords := int(segment[n-1])
	stateEnd := numRecords * 6
	if stateEnd+numRecords > n-2 {
		return HermiteSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s: declared %d records do not fit in %d doubles", name, numRecords, n)
	}
	stateData := segment[0:stateEnd]
	epochData := segment[stateEnd : stateEnd+numRecords]
	for _, e := range epochData {
		if !isFinite(e) {
			return HermiteSet{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
				"%s: one of the epoch data is not finite", name)
		}
	}
	return HermiteSet{
		Degree:     degree,
		NumRecords: numRecords,
		StateData:  stateData,
		Times:      explicitTimes{data: epochData},
	}, nil
}

// Evaluate builds the osculating Hermite polynomial over the stencil
// surrounding t and returns its value (position) and derivative
// (velocity), per axis.
func (h HermiteSet) Evaluate(t, startET, endET float64) (pos, vel [3]float64, err error) {
	if err = checkRange(t, startET, endET); err != nil {
		return
	}
	window := h.Degree + 1
	if window > maxStencilNodes {
		window = maxStencilNodes
	}
	if window > h.NumRecords {
		window = h.NumRecords
	}
	start := stencilStart(h.Times, t, window)

	var times [maxStencilNodes]float64
	var px, py, pz [maxStencilNodes]float64
	var vx, vy, vz [maxStencilNodes]float64
	for i := 0; i < window; i++ {
		node := h.nodeAt(start + i)
		times[i] = h.Times.at(start + i)
		px[i], py[i], pz[i] = node.Pos[0], node.Pos[1], node.Pos[2]
		vx[i], vy[i], vz[i] = node.Vel[0], node.Vel[1], node.Vel[2]
	}

	pos[0], vel[0] = hermiteEval(times[:window], px[:window], vx[:window], t)
	pos[1], vel[1] = hermiteEval(times[:window], py[:window], vy[:window], t)
	pos[2], vel[2] = hermiteEval(times[:window], pz[:window], vz[:window], t)
	return
}

// CheckIntegrity verifies every state/time double is finite.
func (h HermiteSet) CheckIntegrity() error {
	for _, v := range h.StateData {
		if !isFinite(v) {
			return anerr.New(anerr.FamilyIntegrity, anerr.KindSubNormal,
				"Hermite record contains a non-finite value")
		}
	}
	return nil
}

// hermiteEval builds the degree-(2m-1) osculating Hermite polynomial
// through m nodes — matching both value f[i] and derivative fp[i] at each
// abscissa x[i] — via Newton divided differences over doubled abscissas,
// and returns the polynomial's value and derivative at t. O(m^2) time,
// O(1) heap allocation (fixed-size arrays sized to maxStencilNodes).
func hermiteEval(x, f, fp []float64, t float64) (value, deriv float64) {
	m := len(x)
	if m == 0 {
		return 0, 0
	}
	n := 2 * m

	var z [2 * maxStencilNodes]float64
	var col [2 * maxStencilNodes]float64
	for i := 0; i < m; i++ {
		z[2*i] = x[i]
		z[2*i+1] = x[i]
		col[2*i] = f[i]
		col[2*i+1] = f[i]
	}

	value = col[0]
	deriv = 0
	prodVal := 1.0
	prodDeriv := 0.0

	for k := 1; k < n; k++ {
		var next [2 * maxStencilNodes]float64
		for j := 0; j < n-k; j++ {
			if z[j+k] == z[j] {
				next[j] = fp[j/2]
			} else {
				next[j] = (col[j+1] - col[j]) / (z[j+k] - z[j])
			}
		}
		coeff := next[0]

		factor := t - z[k-1]
		newProdVal := prodVal * factor
		newProdDeriv := prodDeriv*factor + prodVal
		prodVal, prodDeriv = newProdVal, newProdDeriv

		value += coeff * prodVal
		deriv += coeff * prodDeriv

		col = next
	}
	return value, deriv
}
