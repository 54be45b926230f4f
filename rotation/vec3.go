// Package rotation supplies the 3-vector algebra and 3x3 direction-cosine
// matrix machinery shared by the ephemeris and orientation resolvers:
// elementary R1/R2/R3 rotations, DCM composition with time-derivative
// propagation, and transpose. Generalized from the teacher's coord/vec3.go
// helpers and coord/frames.go hand-built constant matrices into parametric
// builders usable at arbitrary epochs.
package rotation

import "math"

// Vec3 is a plain Cartesian 3-vector (position, velocity, or any other
// 3-component quantity).
type Vec3 [3]float64

func Add(a, b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func Sub(a, b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func Scale(s float64, a Vec3) Vec3 { return Vec3{s * a[0], s * a[1], s * a[2]} }
func Dot(a, b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func Norm(a Vec3) float64   { return math.Sqrt(Dot(a, a)) }
func Neg(a Vec3) Vec3       { return Vec3{-a[0], -a[1], -a[2]} }

// Cross returns the cross product a x b.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Mat3 is a 3x3 matrix in row-major order.
type Mat3 [3][3]float64

// Identity3 is the 3x3 identity matrix.
var Identity3 = Mat3{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Apply returns m * v.
func Apply(m Mat3, v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// MatMul returns a * b.
func MatMul(a, b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

// MatAdd returns a + b element-wise.
func MatAdd(a, b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = a[i][j] + b[i][j]
		}
	}
	return out
}

// MatT returns the transpose of m.
func MatT(m Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

// FrobeniusNorm returns the Frobenius norm of m.
func FrobeniusNorm(m Mat3) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += m[i][j] * m[i][j]
		}
	}
	return math.Sqrt(sum)
}

// R1 is the elementary rotation about the X axis by angle (radians).
func R1(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{1, 0, 0},
		{0, c, s},
		{0, -s, c},
	}
}

// R2 is the elementary rotation about the Y axis by angle (radians).
func R2(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{c, 0, -s},
		{0, 1, 0},
		{s, 0, c},
	}
}

// R3 is the elementary rotation about the Z axis by angle (radians).
func R3(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{c, s, 0},
		{-s, c, 0},
		{0, 0, 1},
	}
}

// DR1 is the derivative of R1(angle) with respect to time, given the
// angle's rate of change (rad/s): d/dt R1(angle(t)).
func DR1(angle, rate float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{0, 0, 0},
		{0, -s * rate, c * rate},
		{0, -c * rate, -s * rate},
	}
}

// DR3 is the derivative of R3(angle) with respect to time, given the
// angle's rate of change (rad/s): d/dt R3(angle(t)).
func DR3(angle, rate float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{
		{-s * rate, c * rate, 0},
		{-c * rate, -s * rate, 0},
		{0, 0, 0},
	}
}
