package daf

import (
	"hash/crc32"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

// Segment pairs a decoded Summary with the doubles of its payload. Data is
// decoded once at parse time into its own []float64 (a copy of the file's
// bytes, not a view into them).
type Segment struct {
	Summary Summary
	Data    []float64
}

// File is an immutable, parsed DAF. Open memory-maps the file and parses
// the header and summaries directly from that mapping; each Segment's Data
// is decoded into a separate []float64 at parse time, so evaluation reads
// those copies rather than the mapped bytes.
type File struct {
	Record   FileRecord
	Segments []Segment
	raw      []byte
	mapping  mmap.MMap // non-nil only when backed by Open (vs OpenBytes)
	crc      uint32
	log      zerolog.Logger
}

// Option configures Open/OpenBytes.
type Option func(*openOptions)

type openOptions struct {
	logger zerolog.Logger
}

// WithLogger attaches a zerolog.Logger for load diagnostics. The default
// is a no-op logger — evaluation never logs regardless of this setting.
func WithLogger(l zerolog.Logger) Option {
	return func(o *openOptions) { o.logger = l }
}

func resolveOptions(opts []Option) openOptions {
	o := openOptions{logger: zerolog.Nop()}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// Open memory-maps path and parses it as a DAF file.
func Open(path string, opts ...Option) (*File, error) {
	o := resolveOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, anerr.Wrap(anerr.FamilyIO, "", err, "opening DAF file")
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, anerr.Wrap(anerr.FamilyIO, "", err, "mmap DAF file")
	}

	file, err := parse([]byte(m), o)
	if err != nil {
		m.Unmap()
		return nil, err
	}
	file.mapping = m
	o.logger.Debug().Str("path", path).Int("segments", len(file.Segments)).Uint32("crc32", file.crc).Msg("daf: loaded")
	return file, nil
}

// OpenBytes parses an in-memory DAF byte blob without memory-mapping,
// useful for embedded test fixtures or bytes obtained from afero.
func OpenBytes(data []byte, opts ...Option) (*File, error) {
	o := resolveOptions(opts)
	return parse(data, o)
}

// OpenVerify is Open plus a CRC32 check against a caller-supplied expected
// value (spec.md §3 invariant 4). Returns Integrity{ChecksumInvalid} on a
// mismatch.
func OpenVerify(path string, want uint32, opts ...Option) (*File, error) {
	file, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if file.crc != want {
		file.Close()
		return nil, anerr.Newf(anerr.FamilyIntegrity, anerr.KindChecksumInvalid,
			"DAF checksum mismatch: expected %#x, computed %#x", want, file.crc)
	}
	return file, nil
}

// Close releases the underlying memory mapping, if any.
func (f *File) Close() error {
	if f.mapping != nil {
		return f.mapping.Unmap()
	}
	return nil
}

// CRC returns the CRC32 (IEEE) checksum computed over the full byte range
// at load time (C10).
func (f *File) CRC() uint32 { return f.crc }

func parse(data []byte, o openOptions) (*File, error) {
	fr, err := ParseFileRecord(data)
	if err != nil {
		return nil, err
	}

	v := bytesview.New(data, fr.Endian)
	summarySize := fr.SummarySize()

	var segments []Segment
	recNum := fr.Forward
	seen := map[int]bool{}
	for recNum != 0 {
		if seen[recNum] {
			return nil, anerr.New(anerr.FamilyIntegrity, anerr.KindInvalidValue, "summary record chain is cyclic")
		}
		seen[recNum] = true

		recOff := (recNum - 1) * RecordLen
		recView, err := v.Slice(recOff, recOff+RecordLen)
		if err != nil {
			return nil, err
		}
		hdr, err := parseSummaryRecordHeader(recView)
		if err != nil {
			return nil, err
		}

		nameOff := recOff + RecordLen
		nameView, err := v.Slice(nameOff, nameOff+RecordLen)
		if err != nil {
			return nil, err
		}

		pos := 24
		for i := 0; i < hdr.N; i++ {
			name, err := nameView.ASCII(i*summarySize, summarySize)
			if err != nil {
				return nil, err
			}
			summary, err := decodeSummary(recView, pos, fr, name)
			if err != nil {
				return nil, err
			}
			if summary.IsEmpty() {
				pos += summarySize
				continue
			}
			if !IsSupportedDataType(summary.DataType()) {
				return nil, anerr.Newf(anerr.FamilyDecoding, anerr.KindUnsupportedType,
					"unsupported DAF data type %d", summary.DataType())
			}

			startByte := (summary.StartIdx() - 1) * 8
			if summary.StartIdx() < 1 || summary.StartIdx() > summary.EndIdx() {
				return nil, anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
					"segment %q has invalid address range [%d,%d]", summary.Name(), summary.StartIdx(), summary.EndIdx())
			}
			payload, err := v.F64Slice(startByte, summary.EndIdx()-summary.StartIdx()+1)
			if err != nil {
				return nil, err
			}

			segments = append(segments, Segment{Summary: summary, Data: payload})
			pos += summarySize
		}

		if hdr.Next == 0 {
			break
		}
		recNum = hdr.Next
	}

	crc := crc32.ChecksumIEEE(data)

	return &File{
		Record:   fr,
		Segments: segments,
		raw:      data,
		crc:      crc,
		log:      o.logger,
	}, nil
}

// Raw exposes the file's full backing byte range, read-only.
func (f *File) Raw() []byte { return f.raw }

// wrapErr is a tiny helper kept local to this package so the mmap/afero
// IO boundary consistently produces anerr.Error values.
func wrapErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return anerr.Wrap(anerr.FamilyIO, "", errors.WithStack(err), msg)
}
