package daf_test

import (
	"testing"

	"github.com/goastro/anise/anerr"
	"github.com/goastro/anise/bytesview"
	"github.com/goastro/anise/daf"
	"github.com/goastro/anise/internal/dafbuild"
)

func oneSegmentSPK() []byte {
	return dafbuild.Build(daf.SPKMagic, 2, 6, bytesview.Little, []dafbuild.Entry{
		{
			Name:    "EARTH",
			StartET: -1000, EndET: 1000,
			Data: []float64{
				0, 500, // midpoint, radius
				1,  // x coeff (degree 0)
				2,  // y coeff
				3,  // z coeff
				0, 1000, 5, 1, // init_et, interval_s, rsize, n_records
			},
			Ints: func(s, e int32) []int32 { return []int32{399, 3, 1, 2, s, e} },
		},
	})
}

func TestOpenBytesParsesFileRecordAndSummary(t *testing.T) {
	data := oneSegmentSPK()
	f, err := daf.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if f.Record.Magic != daf.SPKMagic {
		t.Fatalf("magic = %q", f.Record.Magic)
	}
	if f.Record.Kind != daf.KindSPK {
		t.Fatalf("kind = %v, want KindSPK", f.Record.Kind)
	}
	if len(f.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(f.Segments))
	}
	sum, ok := f.Segments[0].Summary.(daf.SPKSummary)
	if !ok {
		t.Fatalf("summary type = %T, want SPKSummary", f.Segments[0].Summary)
	}
	if sum.TargetID != 399 || sum.CenterID != 3 {
		t.Fatalf("target/center = %d/%d, want 399/3", sum.TargetID, sum.CenterID)
	}
	if sum.Name() != "EARTH" {
		t.Fatalf("name = %q, want EARTH", sum.Name())
	}
	if sum.StartET() != -1000 || sum.EndET() != 1000 {
		t.Fatalf("start/end et = %v/%v", sum.StartET(), sum.EndET())
	}
	if len(f.Segments[0].Data) != 9 {
		t.Fatalf("payload length = %d, want 9", len(f.Segments[0].Data))
	}
}

func TestOpenBytesWrongMagic(t *testing.T) {
	data := oneSegmentSPK()
	copy(data[0:8], "GARBAGE!")
	_, err := daf.OpenBytes(data)
	if err == nil {
		t.Fatal("expected error for wrong magic")
	}
	ae, ok := err.(*anerr.Error)
	if !ok || ae.Kind() != anerr.KindWrongMagic {
		t.Fatalf("err = %v, want Decoding/WrongMagic", err)
	}
}

func TestOpenBytesUnsupportedDataType(t *testing.T) {
	data := dafbuild.Build(daf.SPKMagic, 2, 6, bytesview.Little, []dafbuild.Entry{
		{
			Name: "BADTYPE", StartET: 0, EndET: 1,
			Data: []float64{1, 2, 3},
			Ints: func(s, e int32) []int32 { return []int32{399, 3, 1, 99, s, e} },
		},
	})
	_, err := daf.OpenBytes(data)
	if err == nil {
		t.Fatal("expected UnsupportedDataType error")
	}
	ae, ok := err.(*anerr.Error)
	if !ok || ae.Kind() != anerr.KindUnsupportedType {
		t.Fatalf("err = %v, want Decoding/UnsupportedDataType", err)
	}
}

func TestMutableRenameAndRoundTrip(t *testing.T) {
	data := oneSegmentSPK()
	f, err := daf.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	mut := daf.NewMutable(f)
	if err := mut.Rename(0, "MOON"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	out, err := mut.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	f2, err := daf.OpenBytes(out)
	if err != nil {
		t.Fatalf("re-parsing persisted bytes: %v", err)
	}
	if len(f2.Segments) != 1 {
		t.Fatalf("segments after round-trip = %d, want 1", len(f2.Segments))
	}
	if f2.Segments[0].Summary.Name() != "MOON" {
		t.Fatalf("name after rename = %q, want MOON", f2.Segments[0].Summary.Name())
	}
	sum2 := f2.Segments[0].Summary.(daf.SPKSummary)
	if sum2.TargetID != 399 || sum2.CenterID != 3 {
		t.Fatalf("identity fields changed across round-trip: target=%d center=%d", sum2.TargetID, sum2.CenterID)
	}
	if len(f2.Segments[0].Data) != len(f.Segments[0].Data) {
		t.Fatalf("payload length changed across round-trip: %d vs %d", len(f2.Segments[0].Data), len(f.Segments[0].Data))
	}
}

func TestMutableDelete(t *testing.T) {
	data := dafbuild.Build(daf.SPKMagic, 2, 6, bytesview.Little, []dafbuild.Entry{
		{
			Name: "A", StartET: 0, EndET: 1,
			Data: []float64{1, 2, 3},
			Ints: func(s, e int32) []int32 { return []int32{1, 0, 1, 2, s, e} },
		},
		{
			Name: "B", StartET: 0, EndET: 1,
			Data: []float64{4, 5},
			Ints: func(s, e int32) []int32 { return []int32{2, 0, 1, 2, s, e} },
		},
	})
	f, err := daf.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	mut := daf.NewMutable(f)
	if err := mut.Delete(0); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if mut.NumSegments() != 1 {
		t.Fatalf("NumSegments after delete = %d, want 1", mut.NumSegments())
	}
	out, err := mut.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	f2, err := daf.OpenBytes(out)
	if err != nil {
		t.Fatalf("re-parsing persisted bytes: %v", err)
	}
	if len(f2.Segments) != 1 || f2.Segments[0].Summary.Name() != "B" {
		t.Fatalf("segments after delete = %v, want only B", f2.Segments)
	}
}

func TestCRCStableAcrossIdenticalParse(t *testing.T) {
	data := oneSegmentSPK()
	f1, err := daf.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	f2, err := daf.OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	if f1.CRC() != f2.CRC() {
		t.Fatalf("CRC not stable: %#x vs %#x", f1.CRC(), f2.CRC())
	}
}
