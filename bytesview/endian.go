// Package bytesview provides bounds-checked, endian-aware decoding of the
// fixed-width integers and doubles every other package in this module reads
// out of DAF/ANISE byte buffers. No other package touches a raw []byte
// directly for these primitive types.
package bytesview

import (
	"encoding/binary"
	"math"

	"github.com/goastro/anise/anerr"
)

// Endian selects the byte order a DAF file declares in its file record.
type Endian int

const (
	Little Endian = iota
	Big
)

// ByteOrder returns the stdlib binary.ByteOrder matching e.
func (e Endian) ByteOrder() binary.ByteOrder {
	if e == Big {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// View is a read-only window over a byte slice, decoded under a fixed
// endianness. Slice and Bytes share the backing array and the scalar
// decoders read from it directly; F64Slice returns a newly allocated
// []float64 and ASCII a newly allocated string.
type View struct {
	data []byte
	end  Endian
}

// New wraps data for decoding under the given endianness. data is not
// copied; callers must keep it alive and must not mutate it concurrently
// with decoding.
func New(data []byte, end Endian) View {
	return View{data: data, end: end}
}

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v.data) }

// Bytes returns the raw backing slice. Callers must treat it as read-only.
func (v View) Bytes() []byte { return v.data }

func (v View) checkBounds(start, end int) error {
	if start < 0 || end < start || end > len(v.data) {
		return anerr.Newf(anerr.FamilyDecoding, anerr.KindInaccessible,
			"byte range [%d:%d) out of bounds for size %d", start, end, len(v.data))
	}
	return nil
}

// Slice returns the sub-range [start, end) as its own View sharing the
// backing array.
func (v View) Slice(start, end int) (View, error) {
	if err := v.checkBounds(start, end); err != nil {
		return View{}, err
	}
	return View{data: v.data[start:end], end: v.end}, nil
}

// I32 decodes a signed 32-bit integer starting at byte offset off.
func (v View) I32(off int) (int32, error) {
	if err := v.checkBounds(off, off+4); err != nil {
		return 0, err
	}
	return int32(v.end.ByteOrder().Uint32(v.data[off : off+4])), nil
}

// U32 decodes an unsigned 32-bit integer starting at byte offset off.
func (v View) U32(off int) (uint32, error) {
	if err := v.checkBounds(off, off+4); err != nil {
		return 0, err
	}
	return v.end.ByteOrder().Uint32(v.data[off : off+4]), nil
}

// U16 decodes an unsigned 16-bit integer starting at byte offset off.
func (v View) U16(off int) (uint16, error) {
	if err := v.checkBounds(off, off+2); err != nil {
		return 0, err
	}
	return v.end.ByteOrder().Uint16(v.data[off : off+2]), nil
}

// F64 decodes an IEEE-754 double starting at byte offset off.
func (v View) F64(off int) (float64, error) {
	if err := v.checkBounds(off, off+8); err != nil {
		return 0, err
	}
	bits := v.end.ByteOrder().Uint64(v.data[off : off+8])
	return math.Float64frombits(bits), nil
}

// F64Slice decodes n consecutive doubles starting at byte offset off.
func (v View) F64Slice(off, n int) ([]float64, error) {
	if err := v.checkBounds(off, off+n*8); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	bo := v.end.ByteOrder()
	for i := 0; i < n; i++ {
		bits := bo.Uint64(v.data[off+i*8 : off+i*8+8])
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

// ASCII returns the n bytes starting at off as a string, trimming trailing
// spaces and NULs (DAF name-record convention).
func (v View) ASCII(off, n int) (string, error) {
	if err := v.checkBounds(off, off+n); err != nil {
		return "", err
	}
	raw := v.data[off : off+n]
	end := len(raw)
	for end > 0 && (raw[end-1] == ' ' || raw[end-1] == 0) {
		end--
	}
	return string(raw[:end]), nil
}

// PutF64 encodes a double at byte offset off within a mutable buffer. It is
// the caller's responsibility to ensure buf was obtained from an owned,
// writable byte slice (mutation is never performed on a zero-copy mmap
// view).
func PutF64(buf []byte, off int, val float64, end Endian) {
	end.ByteOrder().PutUint64(buf[off:off+8], math.Float64bits(val))
}

// PutI32 encodes a signed 32-bit integer at byte offset off.
func PutI32(buf []byte, off int, val int32, end Endian) {
	end.ByteOrder().PutUint32(buf[off:off+4], uint32(val))
}

// PutU32 encodes an unsigned 32-bit integer at byte offset off.
func PutU32(buf []byte, off int, val uint32, end Endian) {
	end.ByteOrder().PutUint32(buf[off:off+4], val)
}

// PutU16 encodes an unsigned 16-bit integer at byte offset off.
func PutU16(buf []byte, off int, val uint16, end Endian) {
	end.ByteOrder().PutUint16(buf[off:off+2], val)
}

// AppendU32 appends a little-role-agnostic-but-endian-tagged u32 to buf,
// growing it, and returns the new slice — used by encoders that build a
// byte stream incrementally rather than into a pre-sized array.
func AppendU32(buf []byte, val uint32, end Endian) []byte {
	var tmp [4]byte
	end.ByteOrder().PutUint32(tmp[:], val)
	return append(buf, tmp[:]...)
}

// AppendI32 is AppendU32 for a signed value.
func AppendI32(buf []byte, val int32, end Endian) []byte {
	return AppendU32(buf, uint32(val), end)
}

// AppendU16 is AppendU32 for a 16-bit value.
func AppendU16(buf []byte, val uint16, end Endian) []byte {
	var tmp [2]byte
	end.ByteOrder().PutUint16(tmp[:], val)
	return append(buf, tmp[:]...)
}

// AppendF64 is AppendU32 for an IEEE-754 double.
func AppendF64(buf []byte, val float64, end Endian) []byte {
	var tmp [8]byte
	end.ByteOrder().PutUint64(tmp[:], math.Float64bits(val))
	return append(buf, tmp[:]...)
}

// PutASCII writes s into buf[off:off+n], space-padding or truncating to fit.
func PutASCII(buf []byte, off, n int, s string) {
	for i := 0; i < n; i++ {
		if i < len(s) {
			buf[off+i] = s[i]
		} else {
			buf[off+i] = ' '
		}
	}
}
