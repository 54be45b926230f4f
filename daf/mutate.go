package daf

import (
	"hash/crc32"

	"github.com/spf13/afero"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

// mutableEntry is one segment as tracked by a MutableFile: the immutable
// identity fields from its original Summary (target/center/frame/type for
// SPK, frame/inertial/type/pad for BPC) plus the fields spec.md §4.4 allows
// editing — name, start/end epoch, and payload — held as plain Go values
// rather than raw-buffer offsets. Persist re-encodes the whole file from
// this list instead of patching the original bytes in place: the output is
// a freshly laid-out DAF (summary/name pages from record 2, payloads packed
// right after them), not a byte copy of the source file.
type mutableEntry struct {
	original Summary
	name     string
	startET  float64
	endET    float64
	data     []float64
	deleted  bool
}

// MutableFile is a linear, non-thread-safe owner of a DAF's logical
// content, built from an already-parsed File. It is never shared across
// threads (spec.md §5).
type MutableFile struct {
	record  FileRecord
	entries []*mutableEntry
}

// NewMutable builds a MutableFile from an already-opened, immutable File.
func NewMutable(f *File) *MutableFile {
	entries := make([]*mutableEntry, len(f.Segments))
	for i, seg := range f.Segments {
		data := make([]float64, len(seg.Data))
		copy(data, seg.Data)
		entries[i] = &mutableEntry{
			original: seg.Summary,
			name:     seg.Summary.Name(),
			startET:  seg.Summary.StartET(),
			endET:    seg.Summary.EndET(),
			data:     data,
		}
	}
	return &MutableFile{record: f.Record, entries: entries}
}

// NumSegments returns the number of live (non-deleted) segments.
func (m *MutableFile) NumSegments() int {
	n := 0
	for _, e := range m.entries {
		if !e.deleted {
			n++
		}
	}
	return n
}

func (m *MutableFile) liveEntry(i int) (*mutableEntry, error) {
	if i < 0 || i >= len(m.entries) {
		return nil, anerr.Newf(anerr.FamilyLookup, anerr.KindInvalidIndex, "segment index %d out of range", i)
	}
	e := m.entries[i]
	if e.deleted {
		return nil, anerr.Newf(anerr.FamilyLookup, anerr.KindInvalidIndex, "segment %d already deleted", i)
	}
	return e, nil
}

// Rename overwrites segment i's name, space-padded/truncated on persist to
// the file's fixed name-slot width.
func (m *MutableFile) Rename(i int, newName string) error {
	e, err := m.liveEntry(i)
	if err != nil {
		return err
	}
	e.name = newName
	return nil
}

// ReplacePayload overwrites segment i's payload. The new payload's length
// must equal the existing one's; size-changing replacement is future work
// (spec.md §4.4).
func (m *MutableFile) ReplacePayload(i int, newData []float64) error {
	e, err := m.liveEntry(i)
	if err != nil {
		return err
	}
	if len(newData) != len(e.data) {
		return anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
			"replacement payload length %d does not match existing length %d", len(newData), len(e.data))
	}
	cp := make([]float64, len(newData))
	copy(cp, newData)
	e.data = cp
	return nil
}

// UpdateSummaryTimes rewrites segment i's start/end ET.
func (m *MutableFile) UpdateSummaryTimes(i int, startET, endET float64) error {
	e, err := m.liveEntry(i)
	if err != nil {
		return err
	}
	e.startET = startET
	e.endET = endET
	return nil
}

// Delete marks segment i for removal. On Persist, the summary/name record
// chain is compacted, the payload region is dropped, and every later
// segment's start/end address is shifted down by the removed payload
// length (spec.md §4.4).
func (m *MutableFile) Delete(i int) error {
	e, err := m.liveEntry(i)
	if err != nil {
		return err
	}
	e.deleted = true
	return nil
}

// Persist re-encodes the full DAF (file record, summary/name record chain,
// coalesced payload region) and writes it to path via fs, returning the
// CRC32 of the bytes written.
func (m *MutableFile) Persist(fs afero.Fs, path string) (uint32, error) {
	data, err := m.encode()
	if err != nil {
		return 0, err
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return 0, anerr.Wrap(anerr.FamilyIO, anerr.KindIOFailure, err, "persisting DAF file")
	}
	return crc32.ChecksumIEEE(data), nil
}

// Bytes re-encodes the full DAF into memory without writing it, useful for
// round-trip tests.
func (m *MutableFile) Bytes() ([]byte, error) {
	return m.encode()
}

func (m *MutableFile) encode() ([]byte, error) {
	live := make([]*mutableEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if !e.deleted {
			live = append(live, e)
		}
	}

	summarySize := m.record.SummarySize()
	maxPerRecord := (RecordLen - 24) / summarySize
	if maxPerRecord < 1 {
		maxPerRecord = 1
	}

	nPages := (len(live) + maxPerRecord - 1) / maxPerRecord
	if nPages == 0 {
		nPages = 1 // still emit an (empty) summary/name record pair, matching a fresh DAF
	}

	// Each page occupies one summary record followed by one name record,
	// starting at record index 2 (record 1 is the file record).
	firstSummaryRecord := 2

	// Compute payload addresses (1-based double words) in segment order,
	// immediately after the last name record's data area.
	dataStartRecord := firstSummaryRecord + 2*nPages
	dataStartWord := (dataStartRecord-1)*RecordLen/8 + 1

	type placed struct {
		entry       *mutableEntry
		startIdx    int
		endIdx      int
	}
	placements := make([]placed, len(live))
	word := dataStartWord
	for i, e := range live {
		n := len(e.data)
		placements[i] = placed{entry: e, startIdx: word, endIdx: word + n - 1}
		word += n
	}
	freeAddr := word

	totalRecords := dataStartRecord - 1 + (word-dataStartWord+RecordLen/8-1)/(RecordLen/8)
	out := make([]byte, totalRecords*RecordLen)

	// File record (patched below once freeAddr is known; forward/backward
	// point at the first/last summary record).
	fr := m.record
	fr.Forward = firstSummaryRecord
	fr.Backward = firstSummaryRecord + 2*(nPages-1)
	fr.FreeAddr = freeAddr
	copy(out[0:RecordLen], EncodeFileRecord(fr))

	for page := 0; page < nPages; page++ {
		lo := page * maxPerRecord
		hi := lo + maxPerRecord
		if hi > len(placements) {
			hi = len(placements)
		}
		pageEntries := placements[lo:hi]

		summaryRecOff := (firstSummaryRecord - 1 + 2*page) * RecordLen
		nameRecOff := summaryRecOff + RecordLen

		var next, prev float64
		if page < nPages-1 {
			next = float64(firstSummaryRecord + 2*(page+1))
		}
		if page > 0 {
			prev = float64(firstSummaryRecord + 2*(page-1))
		}
		bytesview.PutF64(out, summaryRecOff+0, next, m.record.Endian)
		bytesview.PutF64(out, summaryRecOff+8, prev, m.record.Endian)
		bytesview.PutF64(out, summaryRecOff+16, float64(len(pageEntries)), m.record.Endian)

		pos := summaryRecOff + 24
		for i, p := range pageEntries {
			if err := encodeSummaryInto(out, pos, m.record, p.entry, p.startIdx, p.endIdx); err != nil {
				return nil, err
			}
			bytesview.PutASCII(out, nameRecOff+i*summarySize, summarySize, p.entry.name)
			pos += summarySize
		}
	}

	for _, p := range placements {
		off := (p.startIdx - 1) * 8
		for j, val := range p.entry.data {
			bytesview.PutF64(out, off+j*8, val, m.record.Endian)
		}
	}

	return out, nil
}

func encodeSummaryInto(buf []byte, off int, fr FileRecord, e *mutableEntry, startIdx, endIdx int) error {
	bytesview.PutF64(buf, off, e.startET, fr.Endian)
	bytesview.PutF64(buf, off+8, e.endET, fr.Endian)
	intOff := off + fr.ND*8

	switch s := e.original.(type) {
	case SPKSummary:
		bytesview.PutI32(buf, intOff, s.TargetID, fr.Endian)
		bytesview.PutI32(buf, intOff+4, s.CenterID, fr.Endian)
		bytesview.PutI32(buf, intOff+8, s.FrameID, fr.Endian)
		bytesview.PutI32(buf, intOff+12, s.Type, fr.Endian)
		bytesview.PutI32(buf, intOff+16, int32(startIdx), fr.Endian)
		bytesview.PutI32(buf, intOff+20, int32(endIdx), fr.Endian)
	case BPCSummary:
		bytesview.PutI32(buf, intOff, s.FrameID, fr.Endian)
		bytesview.PutI32(buf, intOff+4, s.InertialFrameID, fr.Endian)
		bytesview.PutI32(buf, intOff+8, s.Type, fr.Endian)
		bytesview.PutI32(buf, intOff+12, int32(startIdx), fr.Endian)
		bytesview.PutI32(buf, intOff+16, int32(endIdx), fr.Endian)
		bytesview.PutI32(buf, intOff+20, s.Pad, fr.Endian)
	default:
		return anerr.New(anerr.FamilyDecoding, anerr.KindObscure, "unknown summary type during encode")
	}
	return nil
}
