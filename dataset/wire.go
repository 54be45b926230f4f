// Package dataset implements the structured, self-describing, dual
// id/name-keyed container format used for planetary constants, spacecraft
// constants, and Euler parameter sets (spec.md §4.5, concretized in
// SPEC_FULL.md §4.5a/§4.5b). It is grounded on the teacher's DAF summary/name
// pairing idea (two parallel indices over one payload) generalized from
// DAF's fixed-width name records to a length-prefixed id+name table, and on
// daf's CRC32 integrity check (daf.File.CRC) applied here to the payload
// section instead of the whole file.
package dataset

import (
	"hash/crc32"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

// Version is the semantic version stamped into every encoded container.
// Readers reject a major-version mismatch before decoding anything else.
type Version struct {
	Major, Minor, Patch uint32
}

// CurrentVersion is the version this package writes.
var CurrentVersion = Version{Major: 1, Minor: 0, Patch: 0}

const wireEndian = bytesview.Little

// record is one payload entry: its id/name keys and its encoded bytes.
type record struct {
	id    int32
	name  string
	bytes []byte
}

// encodeContainer writes the SPEC_FULL §4.5a layout: version, count, id
// table, name table, payload CRC32, then length-prefixed payload records.
func encodeContainer(version Version, recs []record) []byte {
	var buf []byte
	buf = bytesview.AppendU32(buf, version.Major, wireEndian)
	buf = bytesview.AppendU32(buf, version.Minor, wireEndian)
	buf = bytesview.AppendU32(buf, version.Patch, wireEndian)
	buf = bytesview.AppendU32(buf, uint32(len(recs)), wireEndian)

	for i, r := range recs {
		buf = bytesview.AppendI32(buf, r.id, wireEndian)
		buf = bytesview.AppendU32(buf, uint32(i), wireEndian)
	}
	for i, r := range recs {
		buf = bytesview.AppendU16(buf, uint16(len(r.name)), wireEndian)
		buf = append(buf, r.name...)
		buf = bytesview.AppendU32(buf, uint32(i), wireEndian)
	}

	var payload []byte
	for _, r := range recs {
		payload = bytesview.AppendU32(payload, uint32(len(r.bytes)), wireEndian)
		payload = append(payload, r.bytes...)
	}
	buf = bytesview.AppendU32(buf, crc32.ChecksumIEEE(payload), wireEndian)
	buf = append(buf, payload...)
	return buf
}

// decodedContainer is the parsed form of encodeContainer's output, before
// the caller decodes each payload record into its concrete type.
type decodedContainer struct {
	version    Version
	idIndex    map[int32]int
	nameIndex  map[string]int
	recordRefs [][]byte
}

// decodeContainer parses the SPEC_FULL §4.5a layout and verifies the payload
// CRC32, rejecting a major-version mismatch first.
func decodeContainer(data []byte, wantMajor uint32) (decodedContainer, error) {
	v := bytesview.New(data, wireEndian)
	major, err := v.U32(0)
	if err != nil {
		return decodedContainer{}, anerr.Wrap(anerr.FamilyDecoding, anerr.KindInaccessible, err, "dataset: reading version")
	}
	if major != wantMajor {
		return decodedContainer{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindAniseVersion,
			"dataset: major version %d does not match expected %d", major, wantMajor)
	}
	minor, err := v.U32(4)
	if err != nil {
		return decodedContainer{}, err
	}
	patch, err := v.U32(8)
	if err != nil {
		return decodedContainer{}, err
	}
	n, err := v.U32(12)
	if err != nil {
		return decodedContainer{}, err
	}
	numRecords := int(n)

	off := 16
	idIndex := make(map[int32]int, numRecords)
	for i := 0; i < numRecords; i++ {
		id, err := v.I32(off)
		if err != nil {
			return decodedContainer{}, err
		}
		idx, err := v.U32(off + 4)
		if err != nil {
			return decodedContainer{}, err
		}
		idIndex[id] = int(idx)
		off += 8
	}

	nameIndex := make(map[string]int, numRecords)
	for n := 0; n < numRecords; n++ {
		nameLen, err := v.U16(off)
		if err != nil {
			return decodedContainer{}, err
		}
		off += 2
		name, err := v.ASCII(off, int(nameLen))
		if err != nil {
			return decodedContainer{}, err
		}
		off += int(nameLen)
		idx, err := v.U32(off)
		if err != nil {
			return decodedContainer{}, err
		}
		off += 4
		nameIndex[name] = int(idx)
	}

	wantCRC, err := v.U32(off)
	if err != nil {
		return decodedContainer{}, err
	}
	off += 4

	payloadStart := off
	recordRefs := make([][]byte, numRecords)
	for i := 0; i < numRecords; i++ {
		length, err := v.U32(off)
		if err != nil {
			return decodedContainer{}, err
		}
		off += 4
		rec, err := v.Slice(off, off+int(length))
		if err != nil {
			return decodedContainer{}, err
		}
		recordRefs[i] = rec.Bytes()
		off += int(length)
	}

	gotCRC := crc32.ChecksumIEEE(data[payloadStart:off])
	if gotCRC != wantCRC {
		return decodedContainer{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindChecksumInvalid,
			"dataset: payload CRC32 %08x does not match stored %08x", gotCRC, wantCRC)
	}

	return decodedContainer{
		version:    Version{Major: major, Minor: minor, Patch: patch},
		idIndex:    idIndex,
		nameIndex:  nameIndex,
		recordRefs: recordRefs,
	}, nil
}

func (d decodedContainer) byID(id int32) ([]byte, error) {
	idx, ok := d.idIndex[id]
	if !ok {
		return nil, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownID, "dataset: no record with id %d", id)
	}
	return d.recordRefs[idx], nil
}

func (d decodedContainer) byName(name string) ([]byte, error) {
	idx, ok := d.nameIndex[name]
	if !ok {
		return nil, anerr.Newf(anerr.FamilyLookup, anerr.KindUnknownName, "dataset: no record named %q", name)
	}
	return d.recordRefs[idx], nil
}
