package dataset

import (
	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

// EulerParameters is a unit quaternion (q0 scalar, q1..q3 vector) expressing
// a fixed attitude offset, CSPICE's "Euler parameter" representation of a
// rotation.
type EulerParameters struct {
	Q0, Q1, Q2, Q3 float64
}

// EulerParameterSet is one body-fixed or instrument attitude record: a
// constant orientation (and its angular velocity, for propagation) relative
// to a reference frame at a reference epoch.
type EulerParameterSet struct {
	FrameID           int32
	ReferenceFrameID  int32
	Epoch             float64
	Params            EulerParameters
	AngularVelocityRadS [3]float64
}

func encodeEulerParameterSet(e EulerParameterSet) []byte {
	var buf []byte
	buf = bytesview.AppendI32(buf, e.FrameID, wireEndian)
	buf = bytesview.AppendI32(buf, e.ReferenceFrameID, wireEndian)
	buf = bytesview.AppendF64(buf, e.Epoch, wireEndian)
	buf = bytesview.AppendF64(buf, e.Params.Q0, wireEndian)
	buf = bytesview.AppendF64(buf, e.Params.Q1, wireEndian)
	buf = bytesview.AppendF64(buf, e.Params.Q2, wireEndian)
	buf = bytesview.AppendF64(buf, e.Params.Q3, wireEndian)
	buf = bytesview.AppendF64(buf, e.AngularVelocityRadS[0], wireEndian)
	buf = bytesview.AppendF64(buf, e.AngularVelocityRadS[1], wireEndian)
	buf = bytesview.AppendF64(buf, e.AngularVelocityRadS[2], wireEndian)
	return buf
}

func decodeEulerParameterSet(data []byte) (EulerParameterSet, error) {
	v := bytesview.New(data, wireEndian)
	frameID, err := v.I32(0)
	if err != nil {
		return EulerParameterSet{}, err
	}
	refFrameID, err := v.I32(4)
	if err != nil {
		return EulerParameterSet{}, err
	}
	vals := make([]float64, 8)
	for i := range vals {
		val, err := v.F64(8 + i*8)
		if err != nil {
			return EulerParameterSet{}, err
		}
		vals[i] = val
	}
	return EulerParameterSet{
		FrameID:          frameID,
		ReferenceFrameID: refFrameID,
		Epoch:            vals[0],
		Params:           EulerParameters{Q0: vals[1], Q1: vals[2], Q2: vals[3], Q3: vals[4]},
		AngularVelocityRadS: [3]float64{vals[5], vals[6], vals[7]},
	}, nil
}

// EulerParameterSetContainer is an in-memory, dual id/name-keyed container
// of EulerParameterSet records.
type EulerParameterSetContainer struct {
	order  []int32
	byID   map[int32]EulerParameterSet
	names  map[int32]string
	byName map[string]int32
}

// NewEulerParameterSetContainer returns an empty, mutable container.
func NewEulerParameterSetContainer() *EulerParameterSetContainer {
	return &EulerParameterSetContainer{
		byID:   make(map[int32]EulerParameterSet),
		names:  make(map[int32]string),
		byName: make(map[string]int32),
	}
}

// SetByID inserts or replaces the record for id, keyed additionally by name.
func (s *EulerParameterSetContainer) SetByID(id int32, name string, rec EulerParameterSet) {
	if _, exists := s.byID[id]; !exists {
		s.order = append(s.order, id)
	} else if oldName, ok := s.names[id]; ok {
		delete(s.byName, oldName)
	}
	s.byID[id] = rec
	s.names[id] = name
	s.byName[name] = id
}

// GetByID looks up a record by frame id.
func (s *EulerParameterSetContainer) GetByID(id int32) (EulerParameterSet, error) {
	rec, ok := s.byID[id]
	if !ok {
		return EulerParameterSet{}, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownID,
			"euler parameter set: no record with id %d", id)
	}
	return rec, nil
}

// GetByName looks up a record by its assigned name.
func (s *EulerParameterSetContainer) GetByName(name string) (EulerParameterSet, error) {
	id, ok := s.byName[name]
	if !ok {
		return EulerParameterSet{}, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownName,
			"euler parameter set: no record named %q", name)
	}
	return s.byID[id], nil
}

// RmByID removes the record with the given id, if any.
func (s *EulerParameterSetContainer) RmByID(id int32) {
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
func (s *EulerParameterSetContainer) RmByName(name string) {
	if id, ok := s.byName[name]; ok {
		s.RmByID(id)
	}
}

// Len returns the number of records currently stored.
func (s *EulerParameterSetContainer) Len() int { return len(s.order) }

// Encode serializes the container using the same §4.5a wrapper as
// PlanetaryConstantsSet.
func (s *EulerParameterSetContainer) Encode() []byte {
	recs := make([]record, len(s.order))
	for i, id := range s.order {
		recs[i] = record{id: id, name: s.names[id], bytes: encodeEulerParameterSet(s.byID[id])}
	}
	return encodeContainer(CurrentVersion, recs)
}

// DecodeEulerParameterSetContainer parses a container previously written by
// Encode.
func DecodeEulerParameterSetContainer(data []byte) (*EulerParameterSetContainer, error) {
	c, err := decodeContainer(data, CurrentVersion.Major)
	if err != nil {
		return nil, err
	}
	s := NewEulerParameterSetContainer()
	for id, idx := range c.idIndex {
		rec, err := decodeEulerParameterSet(c.recordRefs[idx])
		if err != nil {
			return nil, anerr.Wrap(anerr.FamilyDecoding, anerr.KindObscure, err, "euler parameter set: decoding record")
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
