// Package orientation implements the rotation resolver of spec.md §4.7
// (C8): it walks a tree whose edges are either time-varying BPC segments
// or constant-rate PCK polynomial rotations, rooted at J2000 (orientation
// id 1), and composes direction-cosine matrices with their time
// derivatives between any two loaded orientations.
//
// Grounded on the teacher's coord.meanObliquity/fundamentalArgs/
// nutationAngles (IAU 2000A nutation-precession machinery), adapted from
// "compute nutation for Earth only" into "evaluate an arbitrary body's
// pole RA/Dec/W polynomial against its own nutation-precession angle
// table", and on coord.ICRFToEcliptic's hardcoded obliquity rotation,
// generalized into the fixed ECLIPJ2000 edge every tree walk can reach.
package orientation

import (
	"math"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/daf"
	"github.com/goastro/anise/dataset"
	"github.com/goastro/anise/frame"
	"github.com/goastro/anise/interp"
	"github.com/goastro/anise/rotation"
)

// MaxTreeDepth bounds a single from-root or to-root walk, mirroring
// ephemeris.MaxTreeDepth (spec.md §4.6's "compile-time constant >= 8"
// applies identically to the orientation tree per §4.7).
const MaxTreeDepth = 32

// secPerCentury/secPerDay convert TDB seconds past J2000 into the units
// spec.md §4.7 names: pole RA/Dec polynomials are evaluated against
// Julian centuries TDB since J2000, prime-meridian polynomials against
// days since J2000.
const (
	secPerDay     = 86400.0
	secPerCentury = 36525.0 * secPerDay
	deg2rad       = math.Pi / 180.0
)

// obliquityJ2000Deg is the IAU 1976/FK5 mean obliquity of the ecliptic at
// J2000.0, the fixed angle relating J2000 (id 1) to ECLIPJ2000 (id 17).
const obliquityJ2000Deg = 84381.448 / 3600.0

// centralDiffStepS is the ±1s finite-difference step spec.md §4.7/§9
// requires for PCK rotation derivatives ("the source uses a ±1s finite
// difference... implementers must keep this interval").
const centralDiffStepS = 1.0

// Resolver holds the loaded BPC files and the planetary-constants dataset
// that together define the orientation tree.
type Resolver struct {
	BPCFiles   []*daf.File
	Planetary  *dataset.PlanetaryConstantsSet
}

// treeEdge is one DCM step toward the tree's root, along with the parent
// node it leads to.
type treeEdge struct {
	dcm    rotation.DCM
	parent int32
}

// findEdge locates the single outbound edge for orientation id node at
// epoch et, trying (in order) a time-varying BPC segment, the fixed
// ECLIPJ2000 obliquity edge, and a constant-rate PCK rotation.
func (r *Resolver) findEdge(node int32, et float64) (treeEdge, bool, error) {
	if e, ok, err := r.bpcEdge(node, et); ok || err != nil {
		return e, ok, err
	}
	if node == frame.EclipJ2000 {
		rot := rotation.R1(obliquityJ2000Deg * deg2rad)
		return treeEdge{dcm: rotation.Transpose(rotation.NewDCM(rot, frame.J2000, node)), parent: frame.J2000}, true, nil
	}
	if e, ok, err := r.pckEdge(node, et); ok || err != nil {
		return e, ok, err
	}
	return treeEdge{}, false, nil
}

func (r *Resolver) bpcEdge(node int32, et float64) (treeEdge, bool, error) {
	const slack = 1e-9
	for _, f := range r.BPCFiles {
		for _, seg := range f.Segments {
			bp, ok := seg.Summary.(daf.BPCSummary)
			if !ok || bp.FrameID != node {
				continue
			}
			if et < bp.StartETs-slack || et > bp.EndETs+slack {
				continue
			}
			ev, err := interp.NewEvaluator(bp.DataType(), seg.Data)
			if err != nil {
				return treeEdge{}, false, err
			}
			angles, rates, err := ev.Evaluate(et, bp.StartETs, bp.EndETs)
			if err != nil {
				return treeEdge{}, false, err
			}
			rot, drot := assembleDCM(angles[0], angles[1], angles[2], rates[0], rates[1], rates[2])
			dcm := rotation.Transpose(rotation.NewDCMWithDeriv(rot, drot, bp.InertialFrameID, node))
			return treeEdge{dcm: dcm, parent: bp.InertialFrameID}, true, nil
		}
	}
	return treeEdge{}, false, nil
}

func (r *Resolver) pckEdge(node int32, et float64) (treeEdge, bool, error) {
	if r.Planetary == nil {
		return treeEdge{}, false, nil
	}
	bodyID := node - 10000
	pc, err := r.Planetary.GetByID(bodyID)
	if err != nil {
		return treeEdge{}, false, nil
	}
	rot, err := pckRotation(pc, et)
	if err != nil {
		return treeEdge{}, false, err
	}
	rotPlus, err := pckRotation(pc, et+centralDiffStepS)
	if err != nil {
		return treeEdge{}, false, err
	}
	rotMinus, err := pckRotation(pc, et-centralDiffStepS)
	if err != nil {
		return treeEdge{}, false, err
	}
	drot := matScale(matSub(rotPlus, rotMinus), 1/(2*centralDiffStepS))
	dcm := rotation.Transpose(rotation.NewDCMWithDeriv(rot, drot, pc.ParentOrientationID, node))
	return treeEdge{dcm: dcm, parent: pc.ParentOrientationID}, true, nil
}

// assembleDCM builds the DCM from a BPC segment's evaluated angle vector
// and its analytic derivative, via the same R3(w)*R1(pi/2-dec)*R3(ra+pi/2)
// composition the PCK path uses (spec.md §4.7), differentiated by the
// product rule rather than by central difference — BPC derivatives are
// analytic per spec.md §4.7's BPC paragraph.
func assembleDCM(ra, dec, w, raRate, decRate, wRate float64) (rotation.Mat3, rotation.Mat3) {
	phi := math.Pi/2 - dec
	psi := ra + math.Pi/2
	phiRate := -decRate
	psiRate := raRate

	r3w := rotation.R3(w)
	r1phi := rotation.R1(phi)
	r3psi := rotation.R3(psi)

	rot := rotation.MatMul(r3w, rotation.MatMul(r1phi, r3psi))

	dR3w := rotation.DR3(w, wRate)
	dR1phi := rotation.DR1(phi, phiRate)
	dR3psi := rotation.DR3(psi, psiRate)

	term1 := rotation.MatMul(dR3w, rotation.MatMul(r1phi, r3psi))
	term2 := rotation.MatMul(r3w, rotation.MatMul(dR1phi, r3psi))
	term3 := rotation.MatMul(r3w, rotation.MatMul(r1phi, dR3psi))
	drot := matAdd3(term1, term2, term3)
	return rot, drot
}

// pckRotation builds the constant-rate DCM J2000->body-fixed from a
// planetary-constants record's pole RA/Dec/prime-meridian polynomials
// (spec.md §4.7's constant-rate rotation formula).
func pckRotation(pc dataset.PlanetaryConstants, et float64) (rotation.Mat3, error) {
	tCenturies := et / secPerCentury
	dDays := et / secPerDay

	raDeg, err := evaluatePhaseAngleDeg(pc.PoleRA, tCenturies, tCenturies, pc.NutPrecAngles)
	if err != nil {
		return rotation.Mat3{}, err
	}
	decDeg, err := evaluatePhaseAngleDeg(pc.PoleDec, tCenturies, tCenturies, pc.NutPrecAngles)
	if err != nil {
		return rotation.Mat3{}, err
	}
	wDeg, err := evaluatePhaseAngleDeg(pc.PrimeMeridian, dDays, tCenturies, pc.NutPrecAngles)
	if err != nil {
		return rotation.Mat3{}, err
	}

	ra := raDeg * deg2rad
	dec := decDeg * deg2rad
	w := wDeg * deg2rad
	return rotation.MatMul(rotation.R3(w), rotation.MatMul(rotation.R1(math.Pi/2-dec), rotation.R3(ra+math.Pi/2))), nil
}

// evaluatePhaseAngleDeg evaluates constant + rate*d + quadratic*d^2 plus
// the trigonometric nutation-precession correction sum, in degrees. The
// nutation-precession angles themselves are evaluated at tCenturies, since
// their rates are in degrees/century whatever unit d is in. Errors
// if a trig term indexes an empty angle table (spec.md §9's Uranus/Neptune
// open question: consume coefficients, surface an error rather than
// guessing when none are loaded).
func evaluatePhaseAngleDeg(p dataset.PhaseAnglePolynomial, d, tCenturies float64, angles []dataset.NutationPrecessionAngle) (float64, error) {
	if !p.Present {
		return 0, nil
	}
	val := p.Constant + p.Rate*d + p.Quadratic*d*d
	for _, term := range p.TrigTerms {
		idx := int(term.AngleIndex)
		if idx >= len(angles) {
			return 0, anerr.Newf(anerr.FamilyOrientation, anerr.KindInvalidValue,
				"phase-angle polynomial references nutation-precession angle %d but only %d are loaded", idx, len(angles))
		}
		angleDeg := angles[idx].Constant + angles[idx].Rate*tCenturies
		val += term.Coefficient * math.Sin(angleDeg*deg2rad)
	}
	return val, nil
}

func matSub(a, b rotation.Mat3) rotation.Mat3 {
	var out rotation.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] - b[i][j]
		}
	}
	return out
}

func matScale(a rotation.Mat3, s float64) rotation.Mat3 {
	var out rotation.Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] * s
		}
	}
	return out
}

func matAdd3(a, b, c rotation.Mat3) rotation.Mat3 {
	return rotation.MatAdd(rotation.MatAdd(a, b), c)
}

// pathToRoot walks from start toward the orientation tree's root (J2000),
// stopping when findEdge finds no further edge or MaxTreeDepth is
// exceeded.
func (r *Resolver) pathToRoot(start int32, et float64) ([]rotation.DCM, []int32, error) {
	node := start
	nodes := []int32{node}
	visited := map[int32]bool{node: true}
	var edges []rotation.DCM
	for depth := 0; depth < MaxTreeDepth; depth++ {
		e, ok, err := r.findEdge(node, et)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return edges, nodes, nil
		}
		edges = append(edges, e.dcm)
		node = e.parent
		if visited[node] {
			return nil, nil, anerr.Newf(anerr.FamilyOrientation, anerr.KindMaxDepthExceeded,
				"cycle detected in orientation chain at frame %d", node)
		}
		visited[node] = true
		nodes = append(nodes, node)
	}
	return nil, nil, anerr.Newf(anerr.FamilyOrientation, anerr.KindMaxDepthExceeded,
		"orientation chain from frame %d exceeds max depth %d", start, MaxTreeDepth)
}

func lowestCommonAncestor(fromNodes, toNodes []int32) (fromIdx, toIdx int, err error) {
	firstSeen := make(map[int32]int, len(fromNodes))
	for i, n := range fromNodes {
		if _, ok := firstSeen[n]; !ok {
			firstSeen[n] = i
		}
	}
	for j, n := range toNodes {
		if i, ok := firstSeen[n]; ok {
			return i, j, nil
		}
	}
	return 0, 0, anerr.New(anerr.FamilyOrientation, anerr.KindNoCommonAncestor,
		"no common ancestor between orientation chains")
}

// composeChain folds a from-leaf-to-root sequence of edges into one DCM
// from the leaf to the last node reached.
func composeChain(edges []rotation.DCM, leaf int32) (rotation.DCM, error) {
	if len(edges) == 0 {
		return rotation.DCM{Rot: rotation.Identity3, From: leaf, To: leaf}, nil
	}
	acc := edges[0]
	for _, e := range edges[1:] {
		var err error
		acc, err = rotation.Compose(acc, e)
		if err != nil {
			return rotation.DCM{}, err
		}
	}
	return acc, nil
}

// Rotate returns the DCM (with time derivative) rotating from fromOrient
// to toOrient at epoch et (spec.md §4.7's rotate()).
func (r *Resolver) Rotate(fromOrient, toOrient int32, et float64) (rotation.DCM, error) {
	if fromOrient == toOrient {
		return rotation.DCM{Rot: rotation.Identity3, From: fromOrient, To: toOrient}, nil
	}
	fromEdges, fromNodes, err := r.pathToRoot(fromOrient, et)
	if err != nil {
		return rotation.DCM{}, err
	}
	toEdges, toNodes, err := r.pathToRoot(toOrient, et)
	if err != nil {
		return rotation.DCM{}, err
	}
	fi, ti, err := lowestCommonAncestor(fromNodes, toNodes)
	if err != nil {
		return rotation.DCM{}, err
	}

	fromDCM, err := composeChain(fromEdges[:fi], fromOrient)
	if err != nil {
		return rotation.DCM{}, err
	}
	toDCM, err := composeChain(toEdges[:ti], toOrient)
	if err != nil {
		return rotation.DCM{}, err
	}

	return rotation.Compose(fromDCM, rotation.Transpose(toDCM))
}
