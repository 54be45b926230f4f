package orientation_test

import (
	"math"
	"testing"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
	"github.com/goastro/anise/daf"
	"github.com/goastro/anise/dataset"
	"github.com/goastro/anise/frame"
	"github.com/goastro/anise/internal/dafbuild"
	"github.com/goastro/anise/orientation"
	"github.com/goastro/anise/rotation"
)

func constantPoly(deg float64) dataset.PhaseAnglePolynomial {
	return dataset.PhaseAnglePolynomial{Present: true, Constant: deg}
}

func ratePoly(deg, ratePerUnit float64) dataset.PhaseAnglePolynomial {
	return dataset.PhaseAnglePolynomial{Present: true, Constant: deg, Rate: ratePerUnit}
}

func earthLikeConstants() *dataset.PlanetaryConstantsSet {
	set := dataset.NewPlanetaryConstantsSet()
	set.SetByID(399, "EARTH", dataset.PlanetaryConstants{
		ParentOrientationID: frame.J2000,
		PoleRA:              constantPoly(0),
		PoleDec:             constantPoly(90),
		PrimeMeridian:       ratePoly(190, 360.9856235),
	})
	return set
}

func TestRotateIdentity(t *testing.T) {
	r := &orientation.Resolver{Planetary: earthLikeConstants()}
	dcm, err := r.Rotate(frame.J2000, frame.J2000, 0)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if dcm.Rot != rotation.Identity3 {
		t.Fatalf("identity rotation = %v, want Identity3", dcm.Rot)
	}
}

func TestRotatePCKOrthogonal(t *testing.T) {
	r := &orientation.Resolver{Planetary: earthLikeConstants()}
	dcm, err := r.Rotate(frame.J2000, frame.IAUOrientationID(399), 86400)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	prod := rotation.MatMul(dcm.Rot, rotation.MatT(dcm.Rot))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod[i][j]-want) > 1e-9 {
				t.Fatalf("R*R^T[%d][%d] = %g, want %g", i, j, prod[i][j], want)
			}
		}
	}
	if !dcm.HasDeriv {
		t.Fatal("expected PCK-derived rotation to carry a derivative")
	}
}

func TestRotatePCKDerivativeMatchesCentralDifference(t *testing.T) {
	r := &orientation.Resolver{Planetary: earthLikeConstants()}
	const et, step = 3600.0, 1.0
	dcm, err := r.Rotate(frame.J2000, frame.IAUOrientationID(399), et)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	plus, err := r.Rotate(frame.J2000, frame.IAUOrientationID(399), et+step)
	if err != nil {
		t.Fatalf("Rotate+: %v", err)
	}
	minus, err := r.Rotate(frame.J2000, frame.IAUOrientationID(399), et-step)
	if err != nil {
		t.Fatalf("Rotate-: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			fd := (plus.Rot[i][j] - minus.Rot[i][j]) / (2 * step)
			if math.Abs(fd-dcm.DRot[i][j]) > 1e-6 {
				t.Fatalf("DRot[%d][%d] = %g, finite-difference = %g", i, j, dcm.DRot[i][j], fd)
			}
		}
	}
}

func TestRotateInverseUndoesForward(t *testing.T) {
	r := &orientation.Resolver{Planetary: earthLikeConstants()}
	const et = 1000.0
	fwd, err := r.Rotate(frame.J2000, frame.IAUOrientationID(399), et)
	if err != nil {
		t.Fatalf("Rotate fwd: %v", err)
	}
	back, err := r.Rotate(frame.IAUOrientationID(399), frame.J2000, et)
	if err != nil {
		t.Fatalf("Rotate back: %v", err)
	}
	prod := rotation.MatMul(back.Rot, fwd.Rot)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod[i][j]-want) > 1e-9 {
				t.Fatalf("back*fwd[%d][%d] = %g, want %g", i, j, prod[i][j], want)
			}
		}
	}
}

func TestRotateMissingNutationTableErrors(t *testing.T) {
	set := dataset.NewPlanetaryConstantsSet()
	set.SetByID(799, "URANUS", dataset.PlanetaryConstants{
		ParentOrientationID: frame.J2000,
		PoleRA: dataset.PhaseAnglePolynomial{
			Present:   true,
			Constant:  257.311,
			TrigTerms: []dataset.TrigTerm{{Coefficient: 0.1, AngleIndex: 0}},
		},
		PoleDec:       constantPoly(-15.175),
		PrimeMeridian: ratePoly(203.81, -501.1600928),
	})
	r := &orientation.Resolver{Planetary: set}
	_, err := r.Rotate(frame.J2000, frame.IAUOrientationID(799), 0)
	if err == nil {
		t.Fatal("expected error referencing an empty nutation-precession table")
	}
	ae, ok := err.(*anerr.Error)
	if !ok || ae.Family() != anerr.FamilyOrientation {
		t.Fatalf("err = %v, want Orientation family", err)
	}
}

// bpcAngleSegment builds a degree-0 Chebyshev Type 2 payload encoding a
// constant [ra, dec, w] angle triple (radians), matching this package's
// [ra,dec,w] convention for BPC rotation segments.
func bpcAngleSegment(ra, dec, w, initET, intervalS float64) []float64 {
	mid := initET + intervalS/2
	radius := intervalS / 2
	return []float64{mid, radius, ra, dec, w, initET, intervalS, 5, 1}
}

func TestRotateBPCEdge(t *testing.T) {
	const frameID, inertialID int32 = 90000, frame.J2000
	const initET, intervalS = -1000.0, 2000.0
	data := dafbuild.Build(daf.BPCMagic, 2, 6, bytesview.Little, []dafbuild.Entry{
		{
			Name:    "BPCTEST",
			StartET: initET, EndET: initET + intervalS,
			Data: bpcAngleSegment(0.1, 0.2, 0.3, initET, intervalS),
			Ints: func(s, e int32) []int32 { return []int32{frameID, inertialID, 2, s, e, 0} },
		},
	})
	f, err := daf.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	r := &orientation.Resolver{BPCFiles: []*daf.File{f}}
	dcm, err := r.Rotate(frame.J2000, frameID, 0)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	prod := rotation.MatMul(dcm.Rot, rotation.MatT(dcm.Rot))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(prod[i][j]-want) > 1e-9 {
				t.Fatalf("R*R^T[%d][%d] = %g, want %g", i, j, prod[i][j], want)
			}
		}
	}
}

func TestRotateNoCommonAncestor(t *testing.T) {
	r := &orientation.Resolver{Planetary: dataset.NewPlanetaryConstantsSet()}
	_, err := r.Rotate(500000, 600000, 0)
	if err == nil {
		t.Fatal("expected NoCommonAncestor")
	}
	ae, ok := err.(*anerr.Error)
	if !ok || ae.Kind() != anerr.KindNoCommonAncestor {
		t.Fatalf("err = %v, want Orientation/NoCommonAncestor", err)
	}
}
