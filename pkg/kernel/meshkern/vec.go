package meshkern

import "math"

// Vec3 is a 3D vector in mm.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns the normalized vector, or the zero vector if v is
// shorter than 1e-12.
func (v Vec3) Unit() Vec3 {
	l := v.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates between v and o at parameter t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return v.Add(o.Sub(v).Scale(t))
}

func (v Vec3) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// matrix3 is a row-major 3x3 rotation matrix.
type matrix3 [3][3]float64

func (m matrix3) apply(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

func (m matrix3) mul(o matrix3) matrix3 {
	var r matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				r[i][j] += m[i][k] * o[k][j]
			}
		}
	}
	return r
}

// eulerMatrix builds the combined rotation Rz·Ry·Rx from Euler angles
// in degrees, matching the transform order used across the kernel
// backends.
func eulerMatrix(xDeg, yDeg, zDeg float64) matrix3 {
	xr := xDeg * math.Pi / 180
	yr := yDeg * math.Pi / 180
	zr := zDeg * math.Pi / 180

	sx, cx := math.Sincos(xr)
	sy, cy := math.Sincos(yr)
	sz, cz := math.Sincos(zr)

	rx := matrix3{{1, 0, 0}, {0, cx, -sx}, {0, sx, cx}}
	ry := matrix3{{cy, 0, sy}, {0, 1, 0}, {-sy, 0, cy}}
	rz := matrix3{{cz, -sz, 0}, {sz, cz, 0}, {0, 0, 1}}
	return rz.mul(ry).mul(rx)
}
