// Package almanac provides the Almanac façade of spec.md §4.8 (C9): the
// single entry point holding a bounded set of loaded SPK/BPC files plus
// the planetary/spacecraft/Euler-parameter datasets, dispatching
// translate/rotate/transform queries to the ephemeris (C7) and
// orientation (C8) resolvers and applying aberration corrections.
//
// Grounded on the teacher's almanac package's name and dependency-
// injection pattern (functions take loaded files by parameter rather than
// reaching for global state) — not its content, since the teacher's
// almanac is event-finding (seasons/moon-phases/risings), which spec.md
// §1 places out of scope; this package is the façade spec.md §4.8 itself
// describes.
package almanac

import (
	"github.com/rs/zerolog"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/daf"
	"github.com/goastro/anise/dataset"
	"github.com/goastro/anise/ephemeris"
	"github.com/goastro/anise/frame"
	"github.com/goastro/anise/orientation"
	"github.com/goastro/anise/rotation"
)

// MaxSPKFiles and MaxBPCFiles are the Almanac's fixed small capacities
// (spec.md §3's Lifecycle paragraph: "an Almanac owns up to 32 SPKs and
// up to 8 BPCs simultaneously").
const (
	MaxSPKFiles = 32
	MaxBPCFiles = 8
)

// Correction re-exports ephemeris.Correction so callers of this package
// never need to import ephemeris directly.
type Correction = ephemeris.Correction

const (
	NoCorrection = ephemeris.None
	LT           = ephemeris.LT
	LTS          = ephemeris.LTS
	CN           = ephemeris.CN
	CNS          = ephemeris.CNS
	XLT          = ephemeris.XLT
	XLTS         = ephemeris.XLTS
	XCN          = ephemeris.XCN
	XCNS         = ephemeris.XCNS
)

// Orbit is a Cartesian state (position+velocity, km/km·s⁻¹) at an epoch,
// tagged with the frame it's expressed in (spec.md §6.3).
type Orbit struct {
	Position rotation.Vec3
	Velocity rotation.Vec3
	EpochET  float64
	Frame    frame.Frame
}

// Almanac is immutable after construction: every With* method returns a
// new Almanac sharing the prior set's file handles (spec.md §5 — no lock
// is ever held during a query). The zero value is a valid, empty Almanac.
type Almanac struct {
	spks []*daf.File
	bpcs []*daf.File

	planetary  *dataset.PlanetaryConstantsSet
	spacecraft *dataset.SpacecraftConstantsSet
	euler      *dataset.EulerParameterSetContainer

	log zerolog.Logger
}

// New returns an empty Almanac with a no-op logger.
func New() *Almanac {
	return &Almanac{log: zerolog.Nop()}
}

// WithLogger returns a copy of a carrying l for load diagnostics.
func (a *Almanac) WithLogger(l zerolog.Logger) *Almanac {
	cp := a.clone()
	cp.log = l
	return cp
}

// clone makes a shallow copy of a's slices/pointers — cheap, since the
// underlying *daf.File handles and dataset pointers are shared, not
// duplicated.
func (a *Almanac) clone() *Almanac {
	cp := &Almanac{
		planetary:  a.planetary,
		spacecraft: a.spacecraft,
		euler:      a.euler,
		log:        a.log,
	}
	cp.spks = append(cp.spks, a.spks...)
	cp.bpcs = append(cp.bpcs, a.bpcs...)
	return cp
}

// WithSPK returns a new Almanac with f appended to the loaded SPK set.
// Fails with Lookup{InvalidIndex} if the fixed capacity is exceeded.
func (a *Almanac) WithSPK(f *daf.File) (*Almanac, error) {
	if len(a.spks) >= MaxSPKFiles {
		return nil, anerr.Newf(anerr.FamilyLookup, anerr.KindInvalidIndex,
			"almanac: cannot load more than %d SPK files", MaxSPKFiles)
	}
	cp := a.clone()
	cp.spks = append(cp.spks, f)
	cp.log.Debug().Str("internal_name", f.Record.InternalName).Msg("almanac: SPK loaded")
	return cp, nil
}

// WithBPC returns a new Almanac with f appended to the loaded BPC set.
// Fails with Lookup{InvalidIndex} if the fixed capacity is exceeded.
func (a *Almanac) WithBPC(f *daf.File) (*Almanac, error) {
	if len(a.bpcs) >= MaxBPCFiles {
		return nil, anerr.Newf(anerr.FamilyLookup, anerr.KindInvalidIndex,
			"almanac: cannot load more than %d BPC files", MaxBPCFiles)
	}
	cp := a.clone()
	cp.bpcs = append(cp.bpcs, f)
	cp.log.Debug().Str("internal_name", f.Record.InternalName).Msg("almanac: BPC loaded")
	return cp, nil
}

// WithPlanetaryConstants returns a new Almanac using the given planetary
// dataset (spec.md §3's "one planetary-constants dataset").
func (a *Almanac) WithPlanetaryConstants(set *dataset.PlanetaryConstantsSet) *Almanac {
	cp := a.clone()
	cp.planetary = set
	return cp
}

// WithSpacecraftConstants returns a new Almanac using the given spacecraft
// dataset.
func (a *Almanac) WithSpacecraftConstants(set *dataset.SpacecraftConstantsSet) *Almanac {
	cp := a.clone()
	cp.spacecraft = set
	return cp
}

// WithEulerParameters returns a new Almanac using the given Euler
// parameter set container.
func (a *Almanac) WithEulerParameters(set *dataset.EulerParameterSetContainer) *Almanac {
	cp := a.clone()
	cp.euler = set
	return cp
}

// PlanetaryConstants exposes the loaded planetary-constants dataset, or
// nil if none was attached.
func (a *Almanac) PlanetaryConstants() *dataset.PlanetaryConstantsSet { return a.planetary }

// SpacecraftConstants exposes the loaded spacecraft-constants dataset, or
// nil if none was attached.
func (a *Almanac) SpacecraftConstants() *dataset.SpacecraftConstantsSet { return a.spacecraft }

// EulerParameters exposes the loaded Euler parameter set container, or
// nil if none was attached.
func (a *Almanac) EulerParameters() *dataset.EulerParameterSetContainer { return a.euler }

func (a *Almanac) orientationResolver() *orientation.Resolver {
	return &orientation.Resolver{BPCFiles: a.bpcs, Planetary: a.planetary}
}

// TranslateGeometric returns target's uncorrected position/velocity
// relative to observer at et (TDB seconds past J2000), in J2000
// orientation (spec.md §4.8's translate_geometric — "cheaper code path").
func (a *Almanac) TranslateGeometric(target, observer frame.Frame, et float64) (Orbit, error) {
	st, err := ephemeris.TranslateGeometric(a.spks, target.EphemerisID, observer.EphemerisID, et)
	if err != nil {
		return Orbit{}, err
	}
	return Orbit{Position: st.Position, Velocity: st.Velocity, EpochET: et, Frame: frame.New(target.EphemerisID, frame.J2000)}, nil
}

// Translate returns target's position/velocity relative to observer at et
// with the given aberration correction applied, in J2000 orientation
// (spec.md §4.8's translate — "pure position/velocity; no rotation
// applied").
func (a *Almanac) Translate(target, observer frame.Frame, et float64, corr Correction) (Orbit, error) {
	st, err := ephemeris.Translate(a.spks, target.EphemerisID, observer.EphemerisID, et, corr)
	if err != nil {
		return Orbit{}, err
	}
	return Orbit{Position: st.Position, Velocity: st.Velocity, EpochET: et, Frame: frame.New(target.EphemerisID, frame.J2000)}, nil
}

// Rotate returns the DCM (with time derivative) rotating from
// fromFrame's orientation to toFrame's orientation at et (spec.md §4.8's
// rotate — "no translation applied").
func (a *Almanac) Rotate(fromFrame, toFrame frame.Frame, et float64) (rotation.DCM, error) {
	return a.orientationResolver().Rotate(fromFrame.OrientationID, toFrame.OrientationID, et)
}

// Transform composes Translate then a rotation into observer's
// orientation, yielding a Cartesian state expressed in observer's frame
// (spec.md §4.8's transform).
func (a *Almanac) Transform(target, observer frame.Frame, et float64, corr Correction) (Orbit, error) {
	st, err := ephemeris.Translate(a.spks, target.EphemerisID, observer.EphemerisID, et, corr)
	if err != nil {
		return Orbit{}, err
	}
	dcm, err := a.orientationResolver().Rotate(frame.J2000, observer.OrientationID, et)
	if err != nil {
		return Orbit{}, err
	}
	pos, vel := rotation.ApplyState(dcm, st.Position, st.Velocity)
	return Orbit{Position: pos, Velocity: vel, EpochET: et, Frame: observer}, nil
}

// StateOf builds the target frame as (naifID, observer.OrientationID) and
// calls Transform — spec.md §4.8's state_of.
func (a *Almanac) StateOf(naifID int32, observer frame.Frame, et float64, corr Correction) (Orbit, error) {
	target := frame.New(naifID, observer.OrientationID)
	return a.Transform(target, observer, et, corr)
}

// SpkEzr is a CSPICE-compatibility alias for Transform, matching the
// classic spkezr(target, et, frame, abcorr, observer) call shape's
// semantics (spec.md §4.8).
func (a *Almanac) SpkEzr(target frame.Frame, et float64, observerFrameOrientation int32, observer frame.Frame, corr Correction) (Orbit, error) {
	return a.Transform(target, frame.New(observer.EphemerisID, observerFrameOrientation), et, corr)
}

// CommonEphemerisPath exposes the ephemeris resolver's hop path for
// diagnostics (spec.md §4.8).
func (a *Almanac) CommonEphemerisPath(from, to frame.Frame, et float64) (hopCount int, common int32, err error) {
	return ephemeris.CommonEphemerisPath(a.spks, from.EphemerisID, to.EphemerisID, et)
}

// SPKCount and BPCCount report how many files of each kind are loaded —
// used by tests and diagnostics, not part of the core query surface.
func (a *Almanac) SPKCount() int { return len(a.spks) }
func (a *Almanac) BPCCount() int { return len(a.bpcs) }
