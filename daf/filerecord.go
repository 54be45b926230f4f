// Package daf decodes and mutates NAIF Double Precision Array Files: the
// binary container family underlying both SPK (ephemerides) and BPC
// (binary orientation) kernels. Parsing is in-place over a byte view;
// Open memory-maps the file for zero-copy evaluation, generalizing the
// teacher's spk.Open (which read the whole file into a []byte with
// encoding/binary calls) into a tagged-variant-dispatched, mutation-aware
// structure.
package daf

import (
	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

const (
	// RecordLen is the fixed size, in bytes, of every DAF record.
	RecordLen = 1024
)

// SPKMagic and BPCMagic are the two locidw strings this module recognizes.
const (
	SPKMagic = "DAF/SPK "
	BPCMagic = "DAF/PCK "
)

// ftpValidationString is the canonical 28-byte FTP corruption-detection
// string every well-formed DAF file carries at offset 700 (spec.md §6.1).
var ftpValidationString = []byte{
	'F', 'T', 'P', 'S', 'T', 'R', ':', 0x0D,
	':', 0x0A, ':', 0x0D, 0x0A, ':', 0x0D, 0x00,
	':', 0x81, ':', 0x10, 0xCE, ':', 'E', 'N', 'D', 'F', 'T', 'P',
}

// FileRecord is the decoded 1024-byte header every DAF file begins with.
type FileRecord struct {
	Magic        string
	ND           int
	NI           int
	InternalName string
	Forward      int
	Backward     int
	FreeAddr     int
	Endian       bytesview.Endian
	Kind         Kind
}

// Kind distinguishes the two DAF variants this module understands. Models
// the source's dynamic SPK-or-BPC dispatch as a plain sum type plus the
// Summary interface (see summary.go), rather than inheritance.
type Kind int

const (
	KindSPK Kind = iota
	KindBPC
)

// SummarySize returns the byte size of one packed summary tuple: ND
// doubles plus NI integers, rounded up to a multiple of 8 bytes.
func (fr FileRecord) SummarySize() int {
	raw := 8*fr.ND + 4*fr.NI
	if raw%8 != 0 {
		raw += 4
	}
	return raw
}

// ParseFileRecord decodes the first 1024 bytes of a DAF file.
func ParseFileRecord(raw []byte) (FileRecord, error) {
	if len(raw) < RecordLen {
		return FileRecord{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindInaccessible,
			"file record needs %d bytes, got %d", RecordLen, len(raw))
	}

	magic := string(raw[0:8])
	var kind Kind
	switch magic {
	case SPKMagic:
		kind = KindSPK
	case BPCMagic:
		kind = KindBPC
	default:
		return FileRecord{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindWrongMagic,
			"unrecognized DAF magic %q", magic)
	}

	endMarker := string(raw[88:96])
	var endian bytesview.Endian
	switch endMarker {
	case "LTL-IEEE":
		endian = bytesview.Little
	case "BIG-IEEE":
		endian = bytesview.Big
	default:
		return FileRecord{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindWrongEndian,
			"unrecognized endian marker %q", endMarker)
	}

	v := bytesview.New(raw, endian)

	nd32, err := v.I32(8)
	if err != nil {
		return FileRecord{}, err
	}
	ni32, err := v.I32(12)
	if err != nil {
		return FileRecord{}, err
	}
	name, err := v.ASCII(16, 60)
	if err != nil {
		return FileRecord{}, err
	}
	fwd, err := v.I32(76)
	if err != nil {
		return FileRecord{}, err
	}
	bwd, err := v.I32(80)
	if err != nil {
		return FileRecord{}, err
	}
	free, err := v.I32(84)
	if err != nil {
		return FileRecord{}, err
	}

	for i, b := range ftpValidationString {
		if raw[700+i] != b {
			return FileRecord{}, anerr.New(anerr.FamilyDecoding, anerr.KindFtpCorrupted,
				"FTP validation string mismatch")
		}
	}

	return FileRecord{
		Magic:        magic,
		ND:           int(nd32),
		NI:           int(ni32),
		InternalName: name,
		Forward:      int(fwd),
		Backward:     int(bwd),
		FreeAddr:     int(free),
		Endian:       endian,
		Kind:         kind,
	}, nil
}

// EncodeFileRecord re-serializes fr into a fresh 1024-byte record, used by
// MutableFile.Persist.
func EncodeFileRecord(fr FileRecord) []byte {
	buf := make([]byte, RecordLen)
	copy(buf[0:8], fr.Magic)
	bytesview.PutI32(buf, 8, int32(fr.ND), fr.Endian)
	bytesview.PutI32(buf, 12, int32(fr.NI), fr.Endian)
	bytesview.PutASCII(buf, 16, 60, fr.InternalName)
	bytesview.PutI32(buf, 76, int32(fr.Forward), fr.Endian)
	bytesview.PutI32(buf, 80, int32(fr.Backward), fr.Endian)
	bytesview.PutI32(buf, 84, int32(fr.FreeAddr), fr.Endian)
	if fr.Endian == bytesview.Big {
		copy(buf[88:96], "BIG-IEEE")
	} else {
		copy(buf[88:96], "LTL-IEEE")
	}
	copy(buf[700:728], ftpValidationString)
	return buf
}
