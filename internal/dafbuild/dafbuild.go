// Package dafbuild assembles minimal, single-page synthetic DAF byte blobs
// for package tests that need real DAF bytes to parse (daf, ephemeris,
// orientation, almanac) but have no binary kernel fixture to load — the
// retrieval pack ships no .bsp/.bpc files, matching interp_test.go's
// approach of constructing synthetic segments in-test rather than against
// a fixture.
package dafbuild

import (
	"github.com/goastro/anise/bytesview"
	"github.com/goastro/anise/daf"
)

// Entry is one summary/payload pair to embed in a synthetic test DAF. Ints
// is deferred as a function because the (start_idx, end_idx) address pair
// is computed by Build once every entry's payload length is known.
type Entry struct {
	Name    string
	StartET float64
	EndET   float64
	Data    []float64
	Ints    func(startIdx, endIdx int32) []int32
}

// Build assembles a single-page DAF (one summary record, one name record,
// payload records immediately after) with the given magic/ND/NI/endianness.
func Build(magic string, nd, ni int, endian bytesview.Endian, entries []Entry) []byte {
	summarySize := 8*nd + 4*ni
	if summarySize%8 != 0 {
		summarySize += 4
	}

	const recordLen = daf.RecordLen
	dataStartRecord := 4 // 1: file record, 2: summary record, 3: name record
	dataStartWord := (dataStartRecord-1)*(recordLen/8) + 1

	type placed struct {
		entry    Entry
		startIdx int
		endIdx   int
	}
	placements := make([]placed, len(entries))
	word := dataStartWord
	for i, e := range entries {
		n := len(e.Data)
		placements[i] = placed{entry: e, startIdx: word, endIdx: word + n - 1}
		word += n
	}
	freeAddr := word

	totalWords := word - dataStartWord
	totalRecords := dataStartRecord - 1 + (totalWords+recordLen/8-1)/(recordLen/8)
	if totalRecords < dataStartRecord {
		totalRecords = dataStartRecord
	}
	out := make([]byte, totalRecords*recordLen)

	endianMarker := "LTL-IEEE"
	if endian == bytesview.Big {
		endianMarker = "BIG-IEEE"
	}
	copy(out[0:8], magic)
	bytesview.PutI32(out, 8, int32(nd), endian)
	bytesview.PutI32(out, 12, int32(ni), endian)
	bytesview.PutASCII(out, 16, 60, "TEST")
	bytesview.PutI32(out, 76, 2, endian) // forward: summary record 2
	bytesview.PutI32(out, 80, 2, endian) // backward: only one summary record
	bytesview.PutI32(out, 84, int32(freeAddr), endian)
	copy(out[88:96], endianMarker)
	copy(out[700:728], []byte{
		'F', 'T', 'P', 'S', 'T', 'R', ':', 0x0D,
		':', 0x0A, ':', 0x0D, 0x0A, ':', 0x0D, 0x00,
		':', 0x81, ':', 0x10, 0xCE, ':', 'E', 'N', 'D', 'F', 'T', 'P',
	})

	summaryRecOff := (2 - 1) * recordLen
	nameRecOff := (3 - 1) * recordLen
	bytesview.PutF64(out, summaryRecOff+0, 0, endian) // next
	bytesview.PutF64(out, summaryRecOff+8, 0, endian) // prev
	bytesview.PutF64(out, summaryRecOff+16, float64(len(entries)), endian)

	pos := summaryRecOff + 24
	for i, p := range placements {
		bytesview.PutF64(out, pos, p.entry.StartET, endian)
		bytesview.PutF64(out, pos+8, p.entry.EndET, endian)
		ints := p.entry.Ints(int32(p.startIdx), int32(p.endIdx))
		intOff := pos + nd*8
		for j, v := range ints {
			bytesview.PutI32(out, intOff+j*4, v, endian)
		}
		bytesview.PutASCII(out, nameRecOff+i*summarySize, summarySize, p.entry.Name)
		pos += summarySize
	}

	for _, p := range placements {
		off := (p.startIdx - 1) * 8
		for j, v := range p.entry.Data {
			bytesview.PutF64(out, off+j*8, v, endian)
		}
	}

	return out
}
