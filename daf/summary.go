package daf

import (
	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
)

// Summary is implemented by both SPKSummary and BPCSummary, letting
// downstream code (interp, ephemeris, orientation) be generic over which
// DAF variant produced a segment, instead of branching on Kind everywhere.
type Summary interface {
	StartET() float64
	EndET() float64
	DataType() int
	StartIdx() int
	EndIdx() int
	IsEmpty() bool
	Name() string
}

// SPKSummary is the (target, center, frame, type, start, end) tuple an SPK
// summary record decodes to.
type SPKSummary struct {
	StartETs, EndETs           float64
	TargetID, CenterID, FrameID int32
	Type                       int32
	StartIdxV, EndIdxV         int32
	NameV                      string
}

func (s SPKSummary) StartET() float64 { return s.StartETs }
func (s SPKSummary) EndET() float64   { return s.EndETs }
func (s SPKSummary) DataType() int    { return int(s.Type) }
func (s SPKSummary) StartIdx() int    { return int(s.StartIdxV) }
func (s SPKSummary) EndIdx() int      { return int(s.EndIdxV) }
func (s SPKSummary) Name() string     { return s.NameV }
func (s SPKSummary) IsEmpty() bool    { return s.TargetID == 0 && s.CenterID == 0 }

// BPCSummary is the (frame, inertial_frame, type, start, end) tuple a BPC
// summary record decodes to, with a trailing pad integer.
type BPCSummary struct {
	StartETs, EndETs           float64
	FrameID, InertialFrameID   int32
	Type                       int32
	StartIdxV, EndIdxV         int32
	Pad                        int32
	NameV                      string
}

func (s BPCSummary) StartET() float64 { return s.StartETs }
func (s BPCSummary) EndET() float64   { return s.EndETs }
func (s BPCSummary) DataType() int    { return int(s.Type) }
func (s BPCSummary) StartIdx() int    { return int(s.StartIdxV) }
func (s BPCSummary) EndIdx() int      { return int(s.EndIdxV) }
func (s BPCSummary) Name() string     { return s.NameV }
func (s BPCSummary) IsEmpty() bool    { return s.FrameID == 0 && s.InertialFrameID == 0 }

// IsSupportedDataType reports whether dtype is one of the six segment
// types this module's interp package can evaluate.
func IsSupportedDataType(dtype int) bool {
	switch dtype {
	case 2, 3, 8, 9, 12, 13:
		return true
	default:
		return false
	}
}

// summaryRecordHeader is the 24-byte header (next, prev, n as doubles)
// every summary record begins with.
type summaryRecordHeader struct {
	Next, Prev int
	N          int
}

func parseSummaryRecordHeader(v bytesview.View) (summaryRecordHeader, error) {
	next, err := v.F64(0)
	if err != nil {
		return summaryRecordHeader{}, err
	}
	prev, err := v.F64(8)
	if err != nil {
		return summaryRecordHeader{}, err
	}
	n, err := v.F64(16)
	if err != nil {
		return summaryRecordHeader{}, err
	}
	return summaryRecordHeader{Next: int(next), Prev: int(prev), N: int(n)}, nil
}

// decodeSummary decodes one packed (ND doubles, NI ints) tuple at byte
// offset off within a summary record, given the file's Kind, and pairs it
// with the name read from the corresponding name record slot.
func decodeSummary(v bytesview.View, off int, fr FileRecord, name string) (Summary, error) {
	doubles, err := v.F64Slice(off, fr.ND)
	if err != nil {
		return nil, err
	}
	intOff := off + fr.ND*8
	ints := make([]int32, fr.NI)
	for i := 0; i < fr.NI; i++ {
		iv, err := v.I32(intOff + i*4)
		if err != nil {
			return nil, err
		}
		ints[i] = iv
	}

	switch fr.Kind {
	case KindSPK:
		if len(doubles) < 2 || len(ints) < 6 {
			return nil, anerr.New(anerr.FamilyDecoding, anerr.KindObscure, "malformed SPK summary")
		}
		return SPKSummary{
			StartETs: doubles[0], EndETs: doubles[1],
			TargetID: ints[0], CenterID: ints[1], FrameID: ints[2],
			Type: ints[3], StartIdxV: ints[4], EndIdxV: ints[5],
			NameV: name,
		}, nil
	case KindBPC:
		if len(doubles) < 2 || len(ints) < 6 {
			return nil, anerr.New(anerr.FamilyDecoding, anerr.KindObscure, "malformed BPC summary")
		}
		return BPCSummary{
			StartETs: doubles[0], EndETs: doubles[1],
			FrameID: ints[0], InertialFrameID: ints[1],
			Type: ints[2], StartIdxV: ints[3], EndIdxV: ints[4], Pad: ints[5],
			NameV: name,
		}, nil
	default:
		return nil, anerr.New(anerr.FamilyDecoding, anerr.KindObscure, "unknown DAF kind")
	}
}
