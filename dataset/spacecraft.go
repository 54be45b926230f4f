package dataset

import (
	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

const (
	scFlagMass uint8 = 1 << iota
	scFlagSRP
	scFlagDrag
	scFlagInertia
)

// Inertia is a spacecraft's inertia tensor, kg*m^2 (SPEC_FULL §4.5,
// grounded on original_source's spacecraft Inertia record).
type Inertia struct {
	Ixx, Iyy, Izz float64
	Ixy, Ixz, Iyz float64
}

// SRP is solar-radiation-pressure data: the area exposed and its
// reflectivity coefficient.
type SRP struct {
	AreaM2             float64
	CoeffReflectivity  float64
}

// Drag is atmospheric drag data: the area exposed and its drag coefficient.
type Drag struct {
	AreaM2    float64
	CoeffDrag float64
}

// SpacecraftConstants mirrors the data a CCSDS Orbit/Attitude Parameter
// Message carries: mass plus optional SRP, drag, and inertia blocks, each
// independently present or absent (SPEC_FULL §4.5, grounded on
// original_source/anise/src/structure/spacecraft/mod.rs's SpacecraftData).
type SpacecraftConstants struct {
	MassKgPresent bool
	MassKg        float64
	SRPPresent    bool
	SRPData       SRP
	DragPresent   bool
	DragData      Drag
	InertiaPresent bool
	InertiaData    Inertia
}

func encodeSpacecraftConstants(s SpacecraftConstants) []byte {
	var flags uint8
	if s.MassKgPresent {
		flags |= scFlagMass
	}
	if s.SRPPresent {
		flags |= scFlagSRP
	}
	if s.DragPresent {
		flags |= scFlagDrag
	}
	if s.InertiaPresent {
		flags |= scFlagInertia
	}

	buf := []byte{flags}
	if s.MassKgPresent {
		buf = bytesview.AppendF64(buf, s.MassKg, wireEndian)
	}
	if s.SRPPresent {
		buf = bytesview.AppendF64(buf, s.SRPData.AreaM2, wireEndian)
		buf = bytesview.AppendF64(buf, s.SRPData.CoeffReflectivity, wireEndian)
	}
	if s.DragPresent {
		buf = bytesview.AppendF64(buf, s.DragData.AreaM2, wireEndian)
		buf = bytesview.AppendF64(buf, s.DragData.CoeffDrag, wireEndian)
	}
	if s.InertiaPresent {
		i := s.InertiaData
		for _, v := range [6]float64{i.Ixx, i.Iyy, i.Izz, i.Ixy, i.Ixz, i.Iyz} {
			buf = bytesview.AppendF64(buf, v, wireEndian)
		}
	}
	return buf
}

func decodeSpacecraftConstants(data []byte) (SpacecraftConstants, error) {
	if len(data) < 1 {
		return SpacecraftConstants{}, anerr.New(anerr.FamilyDecoding, anerr.KindInaccessible,
			"spacecraft constants: empty record")
	}
	v := bytesview.New(data, wireEndian)
	flags := data[0]
	off := 1
	var s SpacecraftConstants

	if flags&scFlagMass != 0 {
		mass, err := v.F64(off)
		if err != nil {
			return SpacecraftConstants{}, err
		}
		s.MassKgPresent = true
		s.MassKg = mass
		off += 8
	}
	if flags&scFlagSRP != 0 {
		area, err := v.F64(off)
		if err != nil {
			return SpacecraftConstants{}, err
		}
		coeff, err := v.F64(off + 8)
		if err != nil {
			return SpacecraftConstants{}, err
		}
		s.SRPPresent = true
		s.SRPData = SRP{AreaM2: area, CoeffReflectivity: coeff}
		off += 16
	}
	if flags&scFlagDrag != 0 {
		area, err := v.F64(off)
		if err != nil {
			return SpacecraftConstants{}, err
		}
		coeff, err := v.F64(off + 8)
		if err != nil {
			return SpacecraftConstants{}, err
		}
		s.DragPresent = true
		s.DragData = Drag{AreaM2: area, CoeffDrag: coeff}
		off += 16
	}
	if flags&scFlagInertia != 0 {
		vals := make([]float64, 6)
		for i := range vals {
			val, err := v.F64(off)
			if err != nil {
				return SpacecraftConstants{}, err
			}
			vals[i] = val
			off += 8
		}
		s.InertiaPresent = true
		s.InertiaData = Inertia{Ixx: vals[0], Iyy: vals[1], Izz: vals[2], Ixy: vals[3], Ixz: vals[4], Iyz: vals[5]}
	}
	return s, nil
}

// SpacecraftConstantsSet is an in-memory, dual id/name-keyed container of
// SpacecraftConstants records.
type SpacecraftConstantsSet struct {
	order  []int32
	byID   map[int32]SpacecraftConstants
	names  map[int32]string
	byName map[string]int32
}

// NewSpacecraftConstantsSet returns an empty, mutable set.
func NewSpacecraftConstantsSet() *SpacecraftConstantsSet {
	return &SpacecraftConstantsSet{
		byID:   make(map[int32]SpacecraftConstants),
		names:  make(map[int32]string),
		byName: make(map[string]int32),
	}
}

// SetByID inserts or replaces the record for id, keyed additionally by name.
func (s *SpacecraftConstantsSet) SetByID(id int32, name string, rec SpacecraftConstants) {
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	} else if oldName, ok := s.names[id]; ok {
		delete(s.byName, oldName)
	}
	s.byID[id] = rec
	s.names[id] = name
	s.byName[name] = id
}

// GetByID looks up a record by spacecraft id.
func (s *SpacecraftConstantsSet) GetByID(id int32) (SpacecraftConstants, error) {
	rec, ok := s.byID[id]
	if !ok {
		return SpacecraftConstants{}, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownID,
			"spacecraft constants: no record with id %d", id)
	}
	return rec, nil
}

// GetByName looks up a record by its assigned name.
func (s *SpacecraftConstantsSet) GetByName(name string) (SpacecraftConstants, error) {
	id, ok := s.byName[name]
	if !ok {
		return SpacecraftConstants{}, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownName,
			"spacecraft constants: no record named %q", name)
	}
	return s.byID[id], nil
}

// RmByID removes the record with the given id, if any.
func (s *SpacecraftConstantsSet) RmByID(id int32) {
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
func (s *SpacecraftConstantsSet) RmByName(name string) {
	if id, ok := s.byName[name]; ok {
		s.RmByID(id)
	}
}

// ReID rebinds the record at oldID to newID, keeping its name.
func (s *SpacecraftConstantsSet) ReID(oldID, newID int32) error {
	rec, ok := s.byID[oldID]
	if !ok {
		return anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownID, "spacecraft constants: no record with id %d", oldID)
	}
	name := s.names[oldID]
	s.RmByID(oldID)
	s.SetByID(newID, name, rec)
	return nil
}

// Rename rebinds the record named oldName to newName, keeping its id.
func (s *SpacecraftConstantsSet) Rename(oldName, newName string) error {
	id, ok := s.byName[oldName]
	if !ok {
		return anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownName, "spacecraft constants: no record named %q", oldName)
	}
	rec := s.byID[id]
	s.SetByID(id, newName, rec)
	return nil
}

// Len returns the number of records currently stored.
func (s *SpacecraftConstantsSet) Len() int { return len(s.order) }

// Encode serializes the set using the same §4.5a container as
// PlanetaryConstantsSet.
func (s *SpacecraftConstantsSet) Encode() []byte {
	recs := make([]record, len(s.order))
	for i, id := range s.order {
		recs[i] = record{id: id, name: s.names[id], bytes: encodeSpacecraftConstants(s.byID[id])}
	}
	return encodeContainer(CurrentVersion, recs)
}

// DecodeSpacecraftConstantsSet parses a container previously written by
// Encode.
func DecodeSpacecraftConstantsSet(data []byte) (*SpacecraftConstantsSet, error) {
	c, err := decodeContainer(data, CurrentVersion.Major)
	if err != nil {
		return nil, err
	}
	s := NewSpacecraftConstantsSet()
	for id, idx := range c.idIndex {
		rec, err := decodeSpacecraftConstants(c.recordRefs[idx])
		if err != nil {
			return nil, anerr.Wrap(anerr.FamilyDecoding, anerr.KindObscure, err, "spacecraft constants: decoding record")
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
