package interp

import (
	"math"
	"testing"
)

func buildChebyshevT2(t *testing.T, midpoints []float64, radiusS float64, coeffsPerAxis [][3][]float64) []float64 {
	t.Helper()
	degree := len(coeffsPerAxis[0][0]) - 1
	rsize := 3*(degree+1) + 2
	var data []float64
	for i, mid := range midpoints {
		data = append(data, mid, radiusS)
		for axis := 0; axis < 3; axis++ {
			data = append(data, coeffsPerAxis[i][axis]...)
		}
	}
	if len(data) != len(midpoints)*rsize {
		t.Fatalf("test setup: record size mismatch")
	}
	initET := midpoints[0] - radiusS
	intervalS := radiusS * 2
	data = append(data, initET, intervalS, float64(rsize), float64(len(midpoints)))
	return data
}

func TestChebyshevT2ConstantCoefficients(t *testing.T) {
	// A single record with only the c0 coefficient set reproduces a constant
	// position and zero velocity everywhere inside the window.
	coeffs := [][3][]float64{{{5.0, 0}, {-3.0, 0}, {1.5, 0}}}
	data := buildChebyshevT2(t, []float64{1000.0}, 500.0, coeffs)

	set, err := NewChebyshevT2(data)
	if err != nil {
		t.Fatalf("NewChebyshevT2: %v", err)
	}
	if set.Degree() != 1 {
		t.Fatalf("degree = %d, want 1", set.Degree())
	}

	pos, vel, err := set.Evaluate(1000.0, 500.0, 1500.0)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	want := [3]float64{5.0, -3.0, 1.5}
	for i := range want {
		if math.Abs(pos[i]-want[i]) > 1e-12 {
			t.Errorf("pos[%d] = %v, want %v", i, pos[i], want[i])
		}
		if math.Abs(vel[i]) > 1e-12 {
			t.Errorf("vel[%d] = %v, want 0", i, vel[i])
		}
	}

	if err := set.CheckIntegrity(); err != nil {
		t.Errorf("CheckIntegrity: %v", err)
	}
}

func TestChebyshevT2OutOfRange(t *testing.T) {
	coeffs := [][3][]float64{{{1, 0}, {1, 0}, {1, 0}}}
	data := buildChebyshevT2(t, []float64{1000.0}, 500.0, coeffs)
	set, err := NewChebyshevT2(data)
	if err != nil {
		t.Fatalf("NewChebyshevT2: %v", err)
	}

	if _, _, err := set.Evaluate(500.0-10, 500.0, 1500.0); err == nil {
		t.Fatalf("expected NoInterpolationData below start")
	}
	if _, _, err := set.Evaluate(1500.0+10, 500.0, 1500.0); err == nil {
		t.Fatalf("expected NoInterpolationData above end")
	}
	// 1ns slack must still succeed.
	if _, _, err := set.Evaluate(500.0-1e-10, 500.0, 1500.0); err != nil {
		t.Errorf("expected slack to absorb sub-ns rounding, got %v", err)
	}
}

func TestChebyshevT2Linear(t *testing.T) {
	// c0 + c1*s with s=(t-mid)/radius must reproduce a linear ramp exactly
	// and its constant derivative = c1/radius.
	coeffs := [][3][]float64{{{0, 10.0}, {0, 0}, {0, 0}}}
	data := buildChebyshevT2(t, []float64{1000.0}, 100.0, coeffs)
	set, err := NewChebyshevT2(data)
	if err != nil {
		t.Fatalf("NewChebyshevT2: %v", err)
	}
	pos, vel, err := set.Evaluate(1050.0, 900.0, 1100.0)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	wantPos := 10.0 * 0.5 // s=0.5
	if math.Abs(pos[0]-wantPos) > 1e-12 {
		t.Errorf("pos[0] = %v, want %v", pos[0], wantPos)
	}
	wantVel := 10.0 / 100.0
	if math.Abs(vel[0]-wantVel) > 1e-12 {
		t.Errorf("vel[0] = %v, want %v", vel[0], wantVel)
	}
}

func TestChebyshevT2Truncate(t *testing.T) {
	coeffs := [][3][]float64{
		{{1, 0}, {1, 0}, {1, 0}},
		{{2, 0}, {2, 0}, {2, 0}},
		{{3, 0}, {3, 0}, {3, 0}},
	}
	data := buildChebyshevT2(t, []float64{500, 1500, 2500}, 500.0, coeffs)
	set, err := NewChebyshevT2(data)
	if err != nil {
		t.Fatalf("NewChebyshevT2: %v", err)
	}
	trunc, err := set.Truncate(1200.0, 1800.0)
	if err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if trunc.NumRecords != 1 {
		t.Fatalf("NumRecords = %d, want 1", trunc.NumRecords)
	}
	pos, _, err := trunc.Evaluate(1500.0, trunc.InitET, trunc.InitET+trunc.IntervalS)
	if err != nil {
		t.Fatalf("Evaluate on truncated set: %v", err)
	}
	if math.Abs(pos[0]-2.0) > 1e-12 {
		t.Errorf("pos[0] = %v, want 2.0", pos[0])
	}
}

func buildHermiteEven(initET, stepS float64, nodes [][6]float64, degree int) []float64 {
	var data []float64
	for _, n := range nodes {
		data = append(data, n[:]...)
	}
	data = append(data, initET, stepS, float64(degree), float64(len(nodes)))
	return data
}

func TestHermiteMatchesCubicExactly(t *testing.T) {
	// f(t) = t^3, f'(t) = 3t^2. Two nodes with value+derivative define a
	// cubic Hermite that must reproduce f and f' exactly in between.
	f := func(x float64) float64 { return x * x * x }
	fp := func(x float64) float64 { return 3 * x * x }

	x0, x1 := 0.0, 10.0
	nodes := [][6]float64{
		{f(x0), 0, 0, fp(x0), 0, 0},
		{f(x1), 0, 0, fp(x1), 0, 0},
	}
	data := buildHermiteEven(x0, x1-x0, nodes, 1)
	set, err := NewHermiteType12(data)
	if err != nil {
		t.Fatalf("NewHermiteType12: %v", err)
	}

	for _, mid := range []float64{2.0, 5.0, 8.0} {
		pos, vel, err := set.Evaluate(mid, x0, x1)
		if err != nil {
			t.Fatalf("Evaluate(%v): %v", mid, err)
		}
		if math.Abs(pos[0]-f(mid)) > 1e-6 {
			t.Errorf("pos at %v = %v, want %v", mid, pos[0], f(mid))
		}
		if math.Abs(vel[0]-fp(mid)) > 1e-6 {
			t.Errorf("vel at %v = %v, want %v", mid, vel[0], fp(mid))
		}
	}
}

func buildLagrangeEven(initET, stepS float64, nodes [][6]float64, degree int) []float64 {
	var data []float64
	for _, n := range nodes {
		data = append(data, n[:]...)
	}
	data = append(data, initET, stepS, float64(degree), float64(len(nodes)))
	return data
}

func TestLagrangeMatchesQuadraticAtNodes(t *testing.T) {
	f := func(x float64) float64 { return 2*x*x + 3*x + 1 }
	xs := []float64{0, 10, 20}
	var nodes [][6]float64
	for _, x := range xs {
		nodes = append(nodes, [6]float64{f(x), 0, 0, 0, 0, 0})
	}
	data := buildLagrangeEven(xs[0], 10.0, nodes, 2)
	set, err := NewLagrangeType8(data)
	if err != nil {
		t.Fatalf("NewLagrangeType8: %v", err)
	}

	for _, x := range []float64{0, 5, 10, 15, 20} {
		pos, _, err := set.Evaluate(x, xs[0], xs[len(xs)-1])
		if err != nil {
			t.Fatalf("Evaluate(%v): %v", x, err)
		}
		if math.Abs(pos[0]-f(x)) > 1e-9 {
			t.Errorf("pos at %v = %v, want %v", x, pos[0], f(x))
		}
	}
}
