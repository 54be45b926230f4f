package dataset

import (
	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

const maxTrigTerms = 16

// TrigTerm is one coefficient/angle-index pair in a phase-angle polynomial's
// nutation-precession correction sum (SPEC_FULL §4.5b).
type TrigTerm struct {
	Coefficient float64
	AngleIndex  uint8
}

// PhaseAnglePolynomial is the optional pole-RA / pole-Dec / prime-meridian
// polynomial: constant + rate*d + quadratic*d^2, plus a trigonometric
// nutation-precession correction sum. Present is false when the body
// carries no such polynomial (SPEC_FULL §4.5b).
type PhaseAnglePolynomial struct {
	Present    bool
	Constant   float64
	Rate       float64
	Quadratic  float64
	TrigTerms  []TrigTerm
}

// NutationPrecessionAngle is one (constant, rate) row of a body system's
// nutation-precession angle table, in degrees and degrees/century — the
// table PhaseAnglePolynomial.TrigTerms[i].AngleIndex indexes into.
type NutationPrecessionAngle struct {
	Constant float64
	Rate     float64
}

// Ellipsoid is the optional tri-axial radius triple (km).
type Ellipsoid struct {
	Present bool
	RadiusA float64
	RadiusB float64
	RadiusC float64
}

// PlanetaryConstants is one body's orientation and gravitational record
// (SPEC_FULL §4.5b), grounded on the teacher's coord/frames.go constant
// rotation matrices generalized into polynomial-plus-correction form.
type PlanetaryConstants struct {
	ObjectID            int32
	ParentOrientationID int32
	GM                  float64
	Ellipsoid           Ellipsoid
	PoleRA              PhaseAnglePolynomial
	PoleDec             PhaseAnglePolynomial
	PrimeMeridian       PhaseAnglePolynomial
	LongAxisPresent     bool
	LongAxis            float64
	NutPrecAngles       []NutationPrecessionAngle
}

func encodePhaseAngle(buf []byte, p PhaseAnglePolynomial) []byte {
	if !p.Present {
		buf = append(buf, 0)
		return buf
	}
	buf = append(buf, 1)
	buf = bytesview.AppendF64(buf, p.Constant, wireEndian)
	buf = bytesview.AppendF64(buf, p.Rate, wireEndian)
	buf = bytesview.AppendF64(buf, p.Quadratic, wireEndian)
	buf = append(buf, byte(len(p.TrigTerms)))
	for _, term := range p.TrigTerms {
		buf = bytesview.AppendF64(buf, term.Coefficient, wireEndian)
		buf = append(buf, term.AngleIndex)
	}
	return buf
}

func decodePhaseAngle(v bytesview.View, off int) (PhaseAnglePolynomial, int, error) {
	if off+1 > v.Len() {
		return PhaseAnglePolynomial{}, off, anerr.New(anerr.FamilyDecoding, anerr.KindInaccessible,
			"planetary constants: truncated phase-angle presence flag")
	}
	present := v.Bytes()[off] != 0
	off++
	if !present {
		return PhaseAnglePolynomial{}, off, nil
	}
	constant, err := v.F64(off)
	if err != nil {
		return PhaseAnglePolynomial{}, off, err
	}
	off += 8
	rate, err := v.F64(off)
	if err != nil {
		return PhaseAnglePolynomial{}, off, err
	}
	off += 8
	quad, err := v.F64(off)
	if err != nil {
		return PhaseAnglePolynomial{}, off, err
	}
	off += 8
	if off+1 > v.Len() {
		return PhaseAnglePolynomial{}, off, anerr.New(anerr.FamilyDecoding, anerr.KindInaccessible,
			"planetary constants: truncated trig-term count")
	}
	count := int(v.Bytes()[off])
	off++
	if count > maxTrigTerms {
		return PhaseAnglePolynomial{}, off, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"planetary constants: trig-term count %d exceeds max %d", count, maxTrigTerms)
	}
	terms := make([]TrigTerm, count)
	for i := 0; i < count; i++ {
		coeff, err := v.F64(off)
		if err != nil {
			return PhaseAnglePolynomial{}, off, err
		}
		off += 8
		if off+1 > v.Len() {
			return PhaseAnglePolynomial{}, off, anerr.New(anerr.FamilyDecoding, anerr.KindInaccessible,
				"planetary constants: truncated trig-term angle index")
		}
		terms[i] = TrigTerm{Coefficient: coeff, AngleIndex: v.Bytes()[off]}
		off++
	}
	return PhaseAnglePolynomial{Present: true, Constant: constant, Rate: rate, Quadratic: quad, TrigTerms: terms}, off, nil
}

// encodePlanetaryConstants implements the SPEC_FULL §4.5b field order.
func encodePlanetaryConstants(p PlanetaryConstants) []byte {
	var buf []byte
	buf = bytesview.AppendI32(buf, p.ObjectID, wireEndian)
	buf = bytesview.AppendI32(buf, p.ParentOrientationID, wireEndian)
	buf = bytesview.AppendF64(buf, p.GM, wireEndian)

	if p.Ellipsoid.Present {
		buf = append(buf, 1)
		buf = bytesview.AppendF64(buf, p.Ellipsoid.RadiusA, wireEndian)
		buf = bytesview.AppendF64(buf, p.Ellipsoid.RadiusB, wireEndian)
		buf = bytesview.AppendF64(buf, p.Ellipsoid.RadiusC, wireEndian)
	} else {
		buf = append(buf, 0)
	}

	buf = encodePhaseAngle(buf, p.PoleRA)
	buf = encodePhaseAngle(buf, p.PoleDec)
	buf = encodePhaseAngle(buf, p.PrimeMeridian)

	if p.LongAxisPresent {
		buf = append(buf, 1)
		buf = bytesview.AppendF64(buf, p.LongAxis, wireEndian)
	} else {
		buf = append(buf, 0)
	}

	buf = bytesview.AppendU32(buf, uint32(len(p.NutPrecAngles)), wireEndian)
	for _, a := range p.NutPrecAngles {
		buf = bytesview.AppendF64(buf, a.Constant, wireEndian)
		buf = bytesview.AppendF64(buf, a.Rate, wireEndian)
	}
	return buf
}

// decodePlanetaryConstants is encodePlanetaryConstants's inverse.
func decodePlanetaryConstants(data []byte) (PlanetaryConstants, error) {
	v := bytesview.New(data, wireEndian)
	objectID, err := v.I32(0)
	if err != nil {
		return PlanetaryConstants{}, err
	}
	parentID, err := v.I32(4)
	if err != nil {
		return PlanetaryConstants{}, err
	}
	gm, err := v.F64(8)
	if err != nil {
		return PlanetaryConstants{}, err
	}
	off := 16

	if off+1 > v.Len() {
		return PlanetaryConstants{}, anerr.New(anerr.FamilyDecoding, anerr.KindInaccessible,
			"planetary constants: truncated ellipsoid presence flag")
	}
	var ell Ellipsoid
	ellPresent := v.Bytes()[off] != 0
	off++
	if ellPresent {
		a, err := v.F64(off)
		if err != nil {
			return PlanetaryConstants{}, err
		}
		b, err := v.F64(off + 8)
		if err != nil {
			return PlanetaryConstants{}, err
		}
		c, err := v.F64(off + 16)
		if err != nil {
			return PlanetaryConstants{}, err
		}
		ell = Ellipsoid{Present: true, RadiusA: a, RadiusB: b, RadiusC: c}
		off += 24
	}

	poleRA, off, err := decodePhaseAngle(v, off)
	if err != nil {
		return PlanetaryConstants{}, err
	}
	poleDec, off, err := decodePhaseAngle(v, off)
	if err != nil {
		return PlanetaryConstants{}, err
	}
	primeMeridian, off, err := decodePhaseAngle(v, off)
	if err != nil {
		return PlanetaryConstants{}, err
	}

	if off+1 > v.Len() {
		return PlanetaryConstants{}, anerr.New(anerr.FamilyDecoding, anerr.KindInaccessible,
			"planetary constants: truncated long-axis presence flag")
	}
	longAxisPresent := v.Bytes()[off] != 0
	off++
	var longAxis float64
	if longAxisPresent {
		longAxis, err = v.F64(off)
		if err != nil {
			return PlanetaryConstants{}, err
		}
		off += 8
	}

	count, err := v.U32(off)
	if err != nil {
		return PlanetaryConstants{}, err
	}
	off += 4
	angles := make([]NutationPrecessionAngle, count)
	for i := 0; i < int(count); i++ {
		c, err := v.F64(off)
		if err != nil {
			return PlanetaryConstants{}, err
		}
		r, err := v.F64(off + 8)
		if err != nil {
			return PlanetaryConstants{}, err
		}
		angles[i] = NutationPrecessionAngle{Constant: c, Rate: r}
		off += 16
	}

	return PlanetaryConstants{
		ObjectID:            objectID,
		ParentOrientationID: parentID,
		GM:                  gm,
		Ellipsoid:           ell,
		PoleRA:              poleRA,
		PoleDec:             poleDec,
		PrimeMeridian:       primeMeridian,
		LongAxisPresent:     longAxisPresent,
		LongAxis:            longAxis,
		NutPrecAngles:       angles,
	}, nil
}

// PlanetaryConstantsSet is an in-memory, dual id/name-keyed container of
// PlanetaryConstants records — Almanac's "planetary dataset" of spec.md §3.
type PlanetaryConstantsSet struct {
	order   []int32
	byID    map[int32]PlanetaryConstants
	names   map[int32]string
	byName  map[string]int32
}

// NewPlanetaryConstantsSet returns an empty, mutable set.
func NewPlanetaryConstantsSet() *PlanetaryConstantsSet {
	return &PlanetaryConstantsSet{
		byID:   make(map[int32]PlanetaryConstants),
		names:  make(map[int32]string),
		byName: make(map[string]int32),
	}
}

// SetByID inserts or replaces the record for id, keyed additionally by name.
func (s *PlanetaryConstantsSet) SetByID(id int32, name string, rec PlanetaryConstants) {
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	} else if oldName, ok := s.names[id]; ok {
		delete(s.byName, oldName)
	}
	rec.ObjectID = id
	s.byID[id] = rec
	s.names[id] = name
	s.byName[name] = id
}

// GetByID looks up a record by its object id.
func (s *PlanetaryConstantsSet) GetByID(id int32) (PlanetaryConstants, error) {
	rec, ok := s.byID[id]
	if !ok {
		return PlanetaryConstants{}, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownID,
			"planetary constants: no record with id %d", id)
	}
	return rec, nil
}

// GetByName looks up a record by its assigned name.
func (s *PlanetaryConstantsSet) GetByName(name string) (PlanetaryConstants, error) {
	id, ok := s.byName[name]
	if !ok {
		return PlanetaryConstants{}, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownName,
			"planetary constants: no record named %q", name)
	}
	return s.byID[id], nil
}

// SetByName is SetByID with the name resolved to whatever id the set
// currently has it bound to; it errors if the name is unknown.
func (s *PlanetaryConstantsSet) SetByName(name string, rec PlanetaryConstants) error {
	id, ok := s.byName[name]
	if !ok {
		return anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownName,
			"planetary constants: no record named %q", name)
	}
	s.SetByID(id, name, rec)
	return nil
}

// RmByID removes the record with the given id, if any.
func (s *PlanetaryConstantsSet) RmByID(id int32) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	if name, ok := s.names[id]; ok {
		delete(s.byName, name)
		delete(s.names, id)
	}
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// RmByName removes the record currently bound to name, if any.
func (s *PlanetaryConstantsSet) RmByName(name string) {
	if id, ok := s.byName[name]; ok {
		s.RmByID(id)
	}
}

// ReID rebinds the record at oldID to newID, keeping its name.
func (s *PlanetaryConstantsSet) ReID(oldID, newID int32) error {
	rec, ok := s.byID[oldID]
	if !ok {
		return anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownID, "planetary constants: no record with id %d", oldID)
	}
	name := s.names[oldID]
	s.RmByID(oldID)
	s.SetByID(newID, name, rec)
	return nil
}

// Rename rebinds the record named oldName to newName, keeping its id.
func (s *PlanetaryConstantsSet) Rename(oldName, newName string) error {
	id, ok := s.byName[oldName]
	if !ok {
		return anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownName, "planetary constants: no record named %q", oldName)
	}
	rec := s.byID[id]
	s.SetByID(id, newName, rec)
	return nil
}

// Len returns the number of records currently stored.
func (s *PlanetaryConstantsSet) Len() int { return len(s.order) }

// Encode serializes the set per SPEC_FULL §4.5a/§4.5b.
func (s *PlanetaryConstantsSet) Encode() []byte {
	recs := make([]record, len(s.order))
	for i, id := range s.order {
		recs[i] = record{id: id, name: s.names[id], bytes: encodePlanetaryConstants(s.byID[id])}
	}
	return encodeContainer(CurrentVersion, recs)
}

// DecodePlanetaryConstantsSet parses a container previously written by
// Encode, rejecting a major-version mismatch against CurrentVersion.
func DecodePlanetaryConstantsSet(data []byte) (*PlanetaryConstantsSet, error) {
	c, err := decodeContainer(data, CurrentVersion.Major)
	if err != nil {
		return nil, err
	}
	s := NewPlanetaryConstantsSet()
	for id, idx := range c.idIndex {
		rec, err := decodePlanetaryConstants(c.recordRefs[idx])
		if err != nil {
			return nil, anerr.Wrap(anerr.FamilyDecoding, anerr.KindObscure, err, "planetary constants: decoding record")
		}
		var name string
		for n, nIdx := range c.nameIndex {
			if nIdx == idx {
				name = n
				break
			}
		}
		s.SetByID(id, name, rec)
	}
	return s, nil
}
