package rotation

import (
	"github.com/goastro/anise/anerr"
)

// DCM is a direction-cosine matrix tagged with the frames it rotates
// between, optionally carrying its time derivative.
type DCM struct {
	Rot      Mat3
	DRot     Mat3
	HasDeriv bool
	From     int32
	To       int32
}

// NewDCM builds a DCM with no derivative.
func NewDCM(rot Mat3, from, to int32) DCM {
	return DCM{Rot: rot, From: from, To: to}
}

// NewDCMWithDeriv builds a DCM carrying its time derivative.
func NewDCMWithDeriv(rot, drot Mat3, from, to int32) DCM {
	return DCM{Rot: rot, DRot: drot, HasDeriv: true, From: from, To: to}
}

// Compose returns the DCM that rotates from a.From through a.To==b.From to
// b.To: b applied after a, so the matrix is b.Rot*a.Rot, with the
// derivative composed via the product rule: d/dt(B*A) = dB*A + B*dA.
// Fails with FrameMismatch unless a.To equals b.From.
func Compose(a, b DCM) (DCM, error) {
	if a.To != b.From {
		return DCM{}, anerr.Newf(anerr.FamilyOrientation, anerr.KindFrameMismatch,
			"cannot compose DCM %d->%d with %d->%d", a.From, a.To, b.From, b.To)
	}
	rot := MatMul(b.Rot, a.Rot)
	if !a.HasDeriv && !b.HasDeriv {
		return NewDCM(rot, a.From, b.To), nil
	}
	da, db := a.DRot, b.DRot
	term1 := MatMul(db, a.Rot)
	term2 := MatMul(b.Rot, da)
	drot := MatAdd(term1, term2)
	return NewDCMWithDeriv(rot, drot, a.From, b.To), nil
}

// Transpose returns the inverse rotation (To -> From), with derivative
// transposed too: d/dt(A^T) = (dA)^T.
func Transpose(d DCM) DCM {
	if !d.HasDeriv {
		return NewDCM(MatT(d.Rot), d.To, d.From)
	}
	return NewDCMWithDeriv(MatT(d.Rot), MatT(d.DRot), d.To, d.From)
}

// ApplyState rotates a position/velocity pair through d, applying the
// transport theorem v' = D*v + Ddot*r when a derivative is available.
func ApplyState(d DCM, r, v Vec3) (Vec3, Vec3) {
	rOut := Apply(d.Rot, r)
	vOut := Apply(d.Rot, v)
	if d.HasDeriv {
		vOut = Add(vOut, Apply(d.DRot, r))
	}
	return rOut, vOut
}
