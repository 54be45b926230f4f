// Package ephemeris implements the translation resolver of spec.md §4.6
// (C7): given a forest of loaded SPK files, it treats every segment as an
// edge from target_id to center_id, finds the lowest common ancestor of
// two bodies' paths to the root, and composes translations (with their
// time derivatives) across that path, optionally applying a light-time
// and/or stellar-aberration correction.
//
// Grounded on the teacher's spk.SPK.walkChain/buildChains/bodyWrtSSB
// (chain-to-SSB walk with cycle detection), generalized from "always walk
// to the solar system barycenter" into "find the common ancestor of two
// arbitrary chains", and on the teacher's coord.Aberration (full
// relativistic stellar-aberration tilt) and SPK.observe fixed-point
// light-time loop, generalized into the LT/LT+S/CN/CN+S/XLT/XLT+S/XCN/
// XCN+S family spec.md §4.6 step 4 names.
package ephemeris

import (
	"math"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/daf"
	"github.com/goastro/anise/interp"
	"github.com/goastro/anise/rotation"
)

// MaxTreeDepth bounds how many edges a single from-root or to-root walk may
// traverse before giving up, per spec.md §4.6 "depth is bounded; the
// maximum tree depth is a compile-time constant (>= 8)".
const MaxTreeDepth = 32

// SpeedOfLightKmS is the IAU-adopted vacuum speed of light in km/s, the
// unit every DAF payload and this package's states use.
const SpeedOfLightKmS = 299792.458

// segmentSlackSeconds matches interp's 1ns boundary slack so a segment
// lookup at et doesn't reject an epoch interp.Evaluate would accept.
const segmentSlackSeconds = 1e-9

// Correction enumerates the aberration corrections spec.md §4.6 step 4
// supports. There is no default; callers must choose None explicitly for
// the geometric (uncorrected) state.
type Correction int

const (
	None Correction = iota
	LT              // reception, one light-time iteration
	LTS             // LT plus stellar aberration
	CN              // reception, iterated light-time (two passes)
	CNS             // CN plus stellar aberration
	XLT             // transmission, one light-time iteration
	XLTS            // XLT plus stellar aberration
	XCN             // transmission, iterated light-time (two passes)
	XCNS            // XCN plus stellar aberration
)

// State is a Cartesian position+velocity pair, in km and km/s.
type State struct {
	Position rotation.Vec3
	Velocity rotation.Vec3
}

// edge is one SPK segment, oriented from its summary's target toward its
// center — the direction pathToRoot walks.
type edge struct {
	segment daf.Segment
	summary daf.SPKSummary
}

// findSegment scans files in load order for the first SPK segment whose
// target matches id and whose validity window covers et (spec.md §4.6:
// "for each from_id finding the first summary whose target matches and
// whose [start_et,end_et] covers epoch").
func findSegment(files []*daf.File, id int32, et float64) (edge, bool) {
	for _, f := range files {
		for _, seg := range f.Segments {
			sp, ok := seg.Summary.(daf.SPKSummary)
			if !ok {
				continue
			}
			if sp.TargetID != id {
				continue
			}
			if et < sp.StartETs-segmentSlackSeconds || et > sp.EndETs+segmentSlackSeconds {
				continue
			}
			return edge{segment: seg, summary: sp}, true
		}
	}
	return edge{}, false
}

// pathToRoot walks from start toward the tree's root, stopping when no
// loaded segment targets the current node (a synthetic root, e.g. the
// SSB, or simply the end of what's loaded) or MaxTreeDepth is exceeded.
// If segments target the current node but none covers et, it fails with
// Interpolation{NoInterpolationData}.
// Returns the edges walked and the node sequence (start, ..., terminal).
func pathToRoot(files []*daf.File, start int32, et float64) ([]edge, []int32, error) {
	node := start
	nodes := []int32{node}
	visited := map[int32]bool{node: true}
	var edges []edge
	for depth := 0; depth < MaxTreeDepth; depth++ {
		e, ok := findSegment(files, node, et)
		if !ok {
			for _, f := range files {
				for _, seg := range f.Segments {
					if sp, isSPK := seg.Summary.(daf.SPKSummary); isSPK && sp.TargetID == node {
						return nil, nil, anerr.Newf(anerr.FamilyInterpolation, anerr.KindNoInterpolationData,
							"no SPK segment for body %d covers epoch %g (one covers [%g, %g])", node, et, sp.StartETs, sp.EndETs)
					}
				}
			}
			return edges, nodes, nil
		}
		edges = append(edges, e)
		node = e.summary.CenterID
		if visited[node] {
			return nil, nil, anerr.Newf(anerr.FamilyEphemeris, anerr.KindMaxDepthExceeded,
				"cycle detected in SPK chain at body %d", node)
		}
		visited[node] = true
		nodes = append(nodes, node)
	}
	return nil, nil, anerr.Newf(anerr.FamilyEphemeris, anerr.KindMaxDepthExceeded,
		"SPK chain from body %d exceeds max depth %d", start, MaxTreeDepth)
}

// CommonEphemerisPath finds the lowest common ancestor of from and to's
// paths to the root at epoch et, returning the hop count and the shared
// node (spec.md §4.6's common_ephemeris_path).
func CommonEphemerisPath(files []*daf.File, from, to int32, et float64) (hopCount int, common int32, err error) {
	_, fromNodes, err := pathToRoot(files, from, et)
	if err != nil {
		return 0, 0, err
	}
	_, toNodes, err := pathToRoot(files, to, et)
	if err != nil {
		return 0, 0, err
	}
	_, fi, ti, err := lowestCommonAncestor(fromNodes, toNodes)
	if err != nil {
		return 0, 0, err
	}
	return fi + ti, fromNodes[fi], nil
}

// lowestCommonAncestor returns the deepest node shared by both paths (the
// first match scanning from each path's leaf end, since both paths walk
// leaf-to-root) along with its index in each.
func lowestCommonAncestor(fromNodes, toNodes []int32) (node int32, fromIdx, toIdx int, err error) {
	firstSeen := make(map[int32]int, len(fromNodes))
	for i, n := range fromNodes {
		if _, ok := firstSeen[n]; !ok {
			firstSeen[n] = i
		}
	}
	for j, n := range toNodes {
		if i, ok := firstSeen[n]; ok {
			return n, i, j, nil
		}
	}
	return 0, 0, 0, anerr.Newf(anerr.FamilyEphemeris, anerr.KindNoCommonAncestor,
		"no common ancestor between ephemeris chains")
}

// evaluateEdge evaluates one segment's payload at et, returning the state
// of its target relative to its center.
func evaluateEdge(e edge, et float64) (State, error) {
	ev, err := interp.NewEvaluator(e.summary.DataType(), e.segment.Data)
	if err != nil {
		return State{}, err
	}
	pos, vel, err := ev.Evaluate(et, e.summary.StartETs, e.summary.EndETs)
	if err != nil {
		return State{}, err
	}
	return State{Position: rotation.Vec3(pos), Velocity: rotation.Vec3(vel)}, nil
}

// accumulate sums the target-relative-to-center states along a path,
// telescoping to the state of the path's start relative to its end.
func accumulate(edges []edge, et float64) (State, error) {
	var total State
	for _, e := range edges {
		st, err := evaluateEdge(e, et)
		if err != nil {
			return State{}, err
		}
		total.Position = rotation.Add(total.Position, st.Position)
		total.Velocity = rotation.Add(total.Velocity, st.Velocity)
	}
	return total, nil
}

// TranslateGeometric computes the uncorrected (no aberration) state of
// target relative to observer at epoch et, per spec.md §4.6 steps 1-3.
func TranslateGeometric(files []*daf.File, target, observer int32, et float64) (State, error) {
	fromEdges, fromNodes, err := pathToRoot(files, target, et)
	if err != nil {
		return State{}, err
	}
	toEdges, toNodes, err := pathToRoot(files, observer, et)
	if err != nil {
		return State{}, err
	}
	_, fi, ti, err := lowestCommonAncestor(fromNodes, toNodes)
	if err != nil {
		return State{}, err
	}

	outbound, err := accumulate(fromEdges[:fi], et)
	if err != nil {
		return State{}, err
	}
	inbound, err := accumulate(toEdges[:ti], et)
	if err != nil {
		return State{}, err
	}

	return State{
		Position: rotation.Sub(outbound.Position, inbound.Position),
		Velocity: rotation.Sub(outbound.Velocity, inbound.Velocity),
	}, nil
}

// Translate computes the state of target relative to observer at epoch et
// with the requested aberration correction applied (spec.md §4.6 step 4).
func Translate(files []*daf.File, target, observer int32, et float64, corr Correction) (State, error) {
	if corr == None {
		return TranslateGeometric(files, target, observer, et)
	}

	transmit := corr == XLT || corr == XLTS || corr == XCN || corr == XCNS
	iterations := 1
	if corr == CN || corr == CNS || corr == XCN || corr == XCNS {
		iterations = 2
	}
	stellar := corr == LTS || corr == CNS || corr == XLTS || corr == XCNS

	st, tau, err := lightTimeIterate(files, target, observer, et, iterations, transmit)
	if err != nil {
		return State{}, err
	}

	if !stellar {
		return st, nil
	}

	obsState, err := TranslateGeometric(files, observer, 0 /* SSB */, et)
	if err != nil {
		return State{}, err
	}
	st.Position = stellarAberration(st.Position, obsState.Velocity, tau)
	return st, nil
}

// lightTimeIterate solves r - c*tau = evaluate(et -/+ tau) for tau via
// fixed-point iteration, starting from tau0 = |r_geometric|/c (spec.md
// §4.6 step 4): one pass for LT/XLT, two for CN/XCN. transmit selects
// epoch+tau (transmission) over epoch-tau (reception).
func lightTimeIterate(files []*daf.File, target, observer int32, et float64, iterations int, transmit bool) (State, float64, error) {
	geo, err := TranslateGeometric(files, target, observer, et)
	if err != nil {
		return State{}, 0, err
	}
	tau := rotation.Norm(geo.Position) / SpeedOfLightKmS

	st := geo
	for i := 0; i < iterations; i++ {
		var evalET float64
		if transmit {
			evalET = et + tau
		} else {
			evalET = et - tau
		}
		st, err = TranslateGeometric(files, target, observer, evalET)
		if err != nil {
			return State{}, 0, err
		}
		tau = rotation.Norm(st.Position) / SpeedOfLightKmS
	}
	return st, tau, nil
}

// stellarAberration applies the full special-relativistic (Lorentz)
// stellar-aberration tilt to an astrometric position vector, matching the
// teacher's coord.Aberration verbatim in substance (translated from
// km/day to km/s since this package's light-time tau is in seconds).
func stellarAberration(position, observerVelocity rotation.Vec3, lightTimeS float64) rotation.Vec3 {
	distanceKm := lightTimeS * SpeedOfLightKmS
	speedKmS := rotation.Norm(observerVelocity)
	if distanceKm == 0 || speedKmS == 0 {
		return position
	}

	beta := speedKmS / SpeedOfLightKmS
	if beta >= 1 {
		return position
	}
	dot := rotation.Dot(position, observerVelocity)
	cosTheta := dot / (distanceKm * speedKmS)
	gammaInv := math.Sqrt(1 - beta*beta)
	p := beta * cosTheta
	q := (1 + p/(1+gammaInv)) * lightTimeS
	r := 1 + p

	var out rotation.Vec3
	for i := 0; i < 3; i++ {
		out[i] = (gammaInv*position[i] + q*observerVelocity[i]) / r
	}
	return out
}
