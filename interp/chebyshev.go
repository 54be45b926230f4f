package interp

import "github.com/goastro/anise/anerr"

// ChebyshevT2Set is the Type 2 Chebyshev position payload: r fixed-size
// records of [midpoint_et, radius_s, x_coeffs…, y_coeffs…, z_coeffs…]
// trailed by [init_et, interval_s, rsize, n_records] (spec.md §3 table).
// Grounded on original_source/anise/.../chebyshev.rs Type2ChebyshevSet.
type ChebyshevT2Set struct {
	InitET     float64
	IntervalS  float64
	Rsize      int
	NumRecords int
	RecordData []float64 // segment data minus the trailing 4 doubles
}

// NewChebyshevT2 decodes a Type 2 segment's raw doubles.
func NewChebyshevT2(segment []float64) (ChebyshevT2Set, error) {
	const name = "Chebyshev Type 2"
	n := len(segment)
	if n < 5 {
		return ChebyshevT2Set{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s needs at least 5 doubles, got %d", name, n)
	}
	initET := segment[n-4]
	if !isFinite(initET) {
		return ChebyshevT2Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
			"%s: init epoch is not finite", name)
	}
	intervalS := segment[n-3]
	if !isFinite(intervalS) {
		return ChebyshevT2Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
			"%s: interval length is not finite", name)
	}
	if intervalS <= 0 {
		return ChebyshevT2Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
			"%s: interval length %.6g must be > 0", name, intervalS)
	}
	rsize := int(segment[n-2])
	if rsize < 5 {
		return ChebyshevT2Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
			"%s: rsize %d must be >= 5", name, rsize)
	}
	numRecords := int(segment[n-1])
	return ChebyshevT2Set{
		InitET:     initET,
		IntervalS:  intervalS,
		Rsize:      rsize,
		NumRecords: numRecords,
		RecordData: segment[:n-4],
	}, nil
}

// Degree returns the polynomial degree encoded by Rsize.
func (c ChebyshevT2Set) Degree() int { return (c.Rsize-2)/3 - 1 }

// NthRecord returns the raw doubles of record n (0-based).
func (c ChebyshevT2Set) NthRecord(n int) ([]float64, error) {
	start, end := n*c.Rsize, (n+1)*c.Rsize
	if start < 0 || end > len(c.RecordData) {
		return nil, anerr.Newf(anerr.FamilyDecoding, anerr.KindInaccessible,
			"Chebyshev Type 2 record [%d:%d) out of bounds for %d doubles", start, end, len(c.RecordData))
	}
	return c.RecordData[start:end], nil
}

// Evaluate implements spec.md §4.3.1 steps 1-6.
func (c ChebyshevT2Set) Evaluate(t, startET, endET float64) (pos, vel [3]float64, err error) {
	if err = checkRange(t, startET, endET); err != nil {
		return
	}
	radiusS := c.IntervalS / 2
	idx := splineIndex(t, startET, c.IntervalS, c.NumRecords)
	record, err := c.NthRecord(idx - 1)
	if err != nil {
		return
	}

	midpoint := record[0]
	numCoeffs := c.Degree() + 1
	xCoeffs := record[2 : 2+numCoeffs]
	yCoeffs := record[2+numCoeffs : 2+2*numCoeffs]
	zCoeffs := record[2+2*numCoeffs : 2+3*numCoeffs]

	s := (t - midpoint) / radiusS
	pos[0], vel[0] = chebyshevEval(xCoeffs, s, radiusS)
	pos[1], vel[1] = chebyshevEval(yCoeffs, s, radiusS)
	pos[2], vel[2] = chebyshevEval(zCoeffs, s, radiusS)
	return
}

// CheckIntegrity verifies every record double is finite (spec.md §4.3.5).
func (c ChebyshevT2Set) CheckIntegrity() error {
	for _, v := range c.RecordData {
		if !isFinite(v) {
			return anerr.New(anerr.FamilyIntegrity, anerr.KindSubNormal,
				"Chebyshev Type 2 record contains a non-finite value")
		}
	}
	return nil
}

// Truncate returns the subset of c covering [newStart, newEnd], recomputing
// InitET from the surviving first record's midpoint minus half the
// interval (spec.md §4.3.4). Only implemented for Types 2 and 3.
func (c ChebyshevT2Set) Truncate(newStart, newEnd float64) (ChebyshevT2Set, error) {
	firstIdx := splineIndex(newStart, c.InitET, c.IntervalS, c.NumRecords) - 1
	lastIdx := splineIndex(newEnd, c.InitET, c.IntervalS, c.NumRecords) - 1
	if firstIdx < 0 || lastIdx >= c.NumRecords || firstIdx > lastIdx {
		return ChebyshevT2Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
			"truncation range [%.3f,%.3f] covers no surviving record", newStart, newEnd)
	}
	first, err := c.NthRecord(firstIdx)
	if err != nil {
		return ChebyshevT2Set{}, err
	}
	return ChebyshevT2Set{
		InitET:     first[0] - c.IntervalS/2,
		IntervalS:  c.IntervalS,
		Rsize:      c.Rsize,
		NumRecords: lastIdx - firstIdx + 1,
		RecordData: c.RecordData[firstIdx*c.Rsize : (lastIdx+1)*c.Rsize],
	}, nil
}

// ChebyshevT3Set is the Type 3 Chebyshev position+velocity payload: same
// outer shape as Type 2 but six coefficient blocks per record (position
// X/Y/Z then velocity VX/VY/VZ). The velocity block is evaluated
// independently, not as the derivative of the position block (spec.md
// §4.3.2). Grounded on chebyshev3.rs Type3ChebyshevSet.
type ChebyshevT3Set struct {
	InitET     float64
	IntervalS  float64
	Rsize      int
	NumRecords int
	RecordData []float64
}

// NewChebyshevT3 decodes a Type 3 segment's raw doubles.
func NewChebyshevT3(segment []float64) (ChebyshevT3Set, error) {
	const name = "Chebyshev Type 3"
	n := len(segment)
	if n < 5 {
		return ChebyshevT3Set{}, anerr.Newf(anerr.FamilyDecoding, anerr.KindObscure,
			"%s needs at least 5 doubles, got %d", name, n)
	}
	initET := segment[n-4]
	if !isFinite(initET) {
		return ChebyshevT3Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
			"%s: init epoch is not finite", name)
	}
	intervalS := segment[n-3]
	if !isFinite(intervalS) {
		return ChebyshevT3Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindSubNormal,
			"%s: interval length is not finite", name)
	}
	if intervalS <= 0 {
		return ChebyshevT3Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
			"%s: interval length %.6g must be > 0", name, intervalS)
	}
	rsize := int(segment[n-2])
	if rsize < 5 {
		return ChebyshevT3Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
			"%s: rsize %d must be >= 5", name, rsize)
	}
	numRecords := int(segment[n-1])
	return ChebyshevT3Set{
		InitET:     initET,
		IntervalS:  intervalS,
		Rsize:      rsize,
		NumRecords: numRecords,
		RecordData: segment[:n-4],
	}, nil
}

// Degree returns the polynomial degree encoded by Rsize.
func (c ChebyshevT3Set) Degree() int { return (c.Rsize-2)/6 - 1 }

// NthRecord returns the raw doubles of record n (0-based).
func (c ChebyshevT3Set) NthRecord(n int) ([]float64, error) {
	start, end := n*c.Rsize, (n+1)*c.Rsize
	if start < 0 || end > len(c.RecordData) {
		return nil, anerr.Newf(anerr.FamilyDecoding, anerr.KindInaccessible,
			"Chebyshev Type 3 record [%d:%d) out of bounds for %d doubles", start, end, len(c.RecordData))
	}
	return c.RecordData[start:end], nil
}

// Evaluate implements spec.md §4.3.2.
func (c ChebyshevT3Set) Evaluate(t, startET, endET float64) (pos, vel [3]float64, err error) {
	if err = checkRange(t, startET, endET); err != nil {
		return
	}
	radiusS := c.IntervalS / 2
	idx := splineIndex(t, startET, c.IntervalS, c.NumRecords)
	record, err := c.NthRecord(idx - 1)
	if err != nil {
		return
	}

	midpoint := record[0]
	numCoeffs := c.Degree() + 1
	block := func(i int) []float64 {
		lo := 2 + i*numCoeffs
		return record[lo : lo+numCoeffs]
	}

	s := (t - midpoint) / radiusS
	pos[0] = chebyshevValue(block(0), s)
	pos[1] = chebyshevValue(block(1), s)
	pos[2] = chebyshevValue(block(2), s)
	vel[0] = chebyshevValue(block(3), s)
	vel[1] = chebyshevValue(block(4), s)
	vel[2] = chebyshevValue(block(5), s)
	return
}

// CheckIntegrity verifies every record double is finite.
func (c ChebyshevT3Set) CheckIntegrity() error {
	for _, v := range c.RecordData {
		if !isFinite(v) {
			return anerr.New(anerr.FamilyIntegrity, anerr.KindSubNormal,
				"Chebyshev Type 3 record contains a non-finite value")
		}
	}
	return nil
}

// Truncate is Type 2's Truncate, specialized for the six-block layout.
func (c ChebyshevT3Set) Truncate(newStart, newEnd float64) (ChebyshevT3Set, error) {
	firstIdx := splineIndex(newStart, c.InitET, c.IntervalS, c.NumRecords) - 1
	lastIdx := splineIndex(newEnd, c.InitET, c.IntervalS, c.NumRecords) - 1
	if firstIdx < 0 || lastIdx >= c.NumRecords || firstIdx > lastIdx {
		return ChebyshevT3Set{}, anerr.Newf(anerr.FamilyIntegrity, anerr.KindInvalidValue,
			"truncation range [%.3f,%.3f] covers no surviving record", newStart, newEnd)
	}
	first, err := c.NthRecord(firstIdx)
	if err != nil {
		return ChebyshevT3Set{}, err
	}
	return ChebyshevT3Set{
		InitET:     first[0] - c.IntervalS/2,
		IntervalS:  c.IntervalS,
		Rsize:      c.Rsize,
		NumRecords: lastIdx - firstIdx + 1,
		RecordData: c.RecordData[firstIdx*c.Rsize : (lastIdx+1)*c.Rsize],
	}, nil
}
