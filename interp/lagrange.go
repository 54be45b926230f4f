package interp

import "github.com/goastro/anise/anerr"

// LagrangeSet is the Type 8 (evenly spaced) / Type 9 (unequally spaced)
// payload. Unlike Hermite, position and velocity are each fit with a
// value-only Lagrange basis over their own node samples, independently —
// the velocity output is not the derivative of the position polynomial
// (spec.md §4.3.3). The source's evaluator was left `todo!`
// (original_source/src/naif/daf/datatypes/lagrange.rs); this implements the
// barycentric-form evaluator spec.md §9 directs, since no LAGRANGE_BSP
// fixture ships in the retrieval pack to validate against — see DESIGN.md.
type LagrangeSet struct {
	Degree     int
	NumRecords int
	StateData  []float64
	Times      nodeTimes
}

func (l LagrangeSet) nodeAt(i int) PosVelRecord {
	off := i * 6
	s := l.StateData[off : off+6]
	return PosVelRecord{Pos: [3]float64{s[0], s[1], s[2]}, Vel: [3]float64{s[3], s[4], s[5]}}
}

// NewLagrangeType8 decodes an evenly spaced Lagrange segment: [states…],
// [init_et, step_s, degree, n_records].
func NewLagrangeType8(segment []float64) (LagrangeSet, error) {
	const name = "Lagrange Type 8"
	n := len(segment)
	if n < 4 {
		return LagrangeSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s needs at least 4 doubles, got %d", name, n)
	}
	initET := segment[n-4]
	stepS := segment[n-3]
	if !isFinite(initET) || !isFinite(stepS) {
		return LagrangeSet{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
			"%s: init epoch/step size is not finite", name)
	}
	degree := int(segment[n-2])
	numRecords := int(segment[n-1])
	stateData := segment[:n-4]
	if len(stateData) != numRecords*6 {
		return LagrangeSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s: state data length %d does not match %d records of 6 doubles", name, len(stateData), numRecords)
	}
	return LagrangeSet{
		Degree:     degree,
		NumRecords: numRecords,
		StateData:  stateData,
		Times:      evenTimes{init: initET, step: stepS, n: numRecords},
	}, nil
}

// NewLagrangeType9 decodes an unequally spaced Lagrange segment: state
// block, epoch block, optional epoch directory (ignored, a lookup
// optimization only), then [degree, n_records].
func NewLagrangeType9(segment []float64) (LagrangeSet, error) {
	const name = "Lagrange Type 9"
	n := len(segment)
	if n < 2 {
		return LagrangeSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s needs at least 2 doubles, got %d", name, n)
	}
	degree := int(segment[n-2])
	numRecords := int(segment[n-1])
	stateEnd := numRecords * 6
	if stateEnd+numRecords > n-2 {
		return LagrangeSet{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s: declared %d records do not fit in %d doubles", name, numRecords, n)
	}
	stateData := segment[0:stateEnd]
	epochData := segment[stateEnd : stateEnd+numRecords]
	for _, e := range epochData {
		if !isFinite(e) {
			return LagrangeSet{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
				"%s: one of the epoch data is not finite", name)
		}
	}
	return LagrangeSet{
		Degree:     degree,
		NumRecords: numRecords,
		StateData:  stateData,
		Times:      explicitTimes{data: epochData},
	}, nil
}

// Evaluate fits independent value-only Lagrange interpolants to the
// stencil's position and velocity samples and evaluates both at t.
func (l LagrangeSet) Evaluate(t, startET, endET float64) (pos, vel [3]float64, err error) {
	if err = checkRange(t, startET, endET); err != nil {
		return
	}
	window := l.Degree + 1
	if window > maxStencilNodes {
		window = maxStencilNodes
	}
	if window > l.NumRecords {
		window = l.NumRecords
	}
	start := stencilStart(l.Times, t, window)

	var times [maxStencilNodes]float64
	var px, py, pz [maxStencilNodes]float64
	var vx, vy, vz [maxStencilNodes]float64
	for i := 0; i < window; i++ {
		node := l.nodeAt(start + i)
		times[i] = l.Times.at(start + i)
		px[i], py[i], pz[i] = node.Pos[0], node.Pos[1], node.Pos[2]
		vx[i], vy[i], vz[i] = node.Vel[0], node.Vel[1], node.Vel[2]
	}

	pos[0] = lagrangeEval(times[:window], px[:window], t)
	pos[1] = lagrangeEval(times[:window], py[:window], t)
	pos[2] = lagrangeEval(times[:window], pz[:window], t)
	vel[0] = lagrangeEval(times[:window], vx[:window], t)
	vel[1] = lagrangeEval(times[:window], vy[:window], t)
	vel[2] = lagrangeEval(times[:window], vz[:window], t)
	return
}

// CheckIntegrity verifies every state/time double is finite.
func (l LagrangeSet) CheckIntegrity() error {
	for _, v := range l.StateData {
		if !isFinite(v) {
			return anerr.New(anerr.FamilyIntegrity, anerr.KindSubNormal,
				"Lagrange record contains a non-finite value")
		}
	}
	return nil
}

// lagrangeEval evaluates the Lagrange interpolating polynomial through
// (x[i], y[i]) at t in barycentric form, returning y[i] exactly when t
// coincides with a node.
func lagrangeEval(x, y []float64, t float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	var num, den float64
	for i := 0; i < n; i++ {
		diff := t - x[i]
		if diff == 0 {
			return y[i]
		}
		w := 1.0
		for j := 0; j < n; j++ {
			if j != i {
				w /= x[i] - x[j]
			}
		}
		num += w / diff * y[i]
		den += w / diff
	}
	return num / den
}
