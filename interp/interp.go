// Package interp implements the layout-aware segment evaluators of spec.md
// §4.3: Chebyshev Type 2/3, Hermite Type 12/13, and Lagrange Type 8/9. Each
// type's from-slice constructor is grounded on the matching Rust struct in
// original_source/anise/src/naif/daf/datatypes (chebyshev.rs, chebyshev3.rs)
// and original_source/src/naif/daf/datatypes/lagrange.rs; the Chebyshev
// recurrence itself follows spec.md §4.3.1 step 6 directly, lifted out of
// the teacher's spk.chebyshev/chebyshevDerivative helpers in spk/spk.go and
// generalized into a standalone, reusable form.
package interp

import (
	"math"

	"github.com/goastro/anise/anerr"
)

// interpSlackSeconds absorbs the 1ns rounding artefact spec.md §4.3.1 step 1
// documents when a UTC-converted epoch rounds into or out of a segment.
const interpSlackSeconds = 1e-9

// maxStencilNodes bounds the Hermite/Lagrange interpolation window so the
// evaluators can use fixed-size stack arrays instead of allocating on every
// query (spec.md §9 "zero-copy vs allocation": queries must not allocate).
// GMAT- and SPICE-generated kernels use degrees well under this.
const maxStencilNodes = 64

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func checkRange(t, startET, endET float64) error {
	if t < startET-interpSlackSeconds || t > endET+interpSlackSeconds {
		return anerr.Newf(anerr.FamilyInterpolation, anerr.KindNoInterpolationData,
			"epoch %.9f outside segment validity [%.9f, %.9f]", t, startET, endET)
	}
	return nil
}

// splineIndex implements the CSPICE SPKR02 window-selection policy verbatim
// (spec.md §4.3.1 step 3): floor((t-start)/window)+1, clamped to
// [1, numRecords]. This tie-break must not be "corrected" to a plain floor
// division — it matches CSPICE bit-for-bit at segment/record boundaries.
func splineIndex(t, startET, windowS float64, numRecords int) int {
	idx := int((t-startET)/windowS) + 1
	if idx > numRecords {
		idx = numRecords
	}
	if idx < 1 {
		idx = 1
	}
	return idx
}

// chebyshevEval evaluates one Chebyshev-of-the-first-kind series at
// normalized time s ∈ [-1,1] (spec.md §4.3.1 step 6), returning both the
// value and, scaled by 1/radiusS, its derivative with respect to
// unnormalized time. Uses the paired T/U recurrences with O(1) extra state
// — no slice allocation regardless of degree.
func chebyshevEval(coeffs []float64, s, radiusS float64) (value, deriv float64) {
	n := len(coeffs)
	if n == 0 {
		return 0, 0
	}
	value = coeffs[0]
	if n == 1 {
		return value, 0
	}

	tPrev, tCur := 1.0, s // T0, T1
	value += coeffs[1] * tCur

	uPrev, uCur := 1.0, 2*s // U0, U1
	deriv = coeffs[1] * uPrev / radiusS

	for k := 2; k < n; k++ {
		tNext := 2*s*tCur - tPrev
		value += coeffs[k] * tNext
		deriv += coeffs[k] * float64(k) * uCur / radiusS

		tPrev, tCur = tCur, tNext
		uNext := 2*s*uCur - uPrev
		uPrev, uCur = uCur, uNext
	}
	return value, deriv
}

// chebyshevValue is chebyshevEval without the derivative half, used by
// Chebyshev Type 3's velocity block (spec.md §4.3.2: the velocity block is
// evaluated as a plain series, not as the derivative of position).
func chebyshevValue(coeffs []float64, s float64) float64 {
	v, _ := chebyshevEval(coeffs, s, 1)
	return v
}

// Evaluator is implemented by every segment payload type this package
// exposes, letting the ephemeris/orientation resolvers dispatch on a
// summary's declared data type without a type switch duplicated at every
// call site.
type Evaluator interface {
	Evaluate(epochET, startET, endET float64) (pos, vel [3]float64, err error)
	CheckIntegrity() error
}
