// Package mat provides the 3x3 matrices used to evaluate baked transforms
// and corner pins as 2D homogeneous mappings.
package mat

import (
	"errors"
	"math"
)

// ErrSingular is returned when a matrix or quadrilateral has no inverse.
var ErrSingular = errors.New("mat: singular matrix")

// Mat3 is a 3x3 matrix stored row-major, acting on column vectors (x, y, 1).
type Mat3 [9]float64

func Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

func Translate(x, y float64) Mat3 {
	return Mat3{1, 0, x, 0, 1, y, 0, 0, 1}
}

func Scale(x, y float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, 1}
}

// Rotate returns a counter-clockwise rotation by deg degrees.
func Rotate(deg float64) Mat3 {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Mat3{c, -s, 0, s, c, 0, 0, 0, 1}
}

// Mul returns a × b.
func Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return m
}

// Chain returns ms[0] × ms[1] × ... .
func Chain(ms ...Mat3) Mat3 {
	out := Identity()
	for _, m := range ms {
		out = Mul(out, m)
	}
	return out
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Inverse returns the inverse of m, or ErrSingular.
func (m Mat3) Inverse() (Mat3, error) {
	d := m.Det()
	if d == 0 || math.IsNaN(d) {
		return Mat3{}, ErrSingular
	}
	invD := 1.0 / d
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * invD,
		(m[2]*m[7] - m[1]*m[8]) * invD,
		(m[1]*m[5] - m[2]*m[4]) * invD,
		(m[5]*m[6] - m[3]*m[8]) * invD,
		(m[0]*m[8] - m[2]*m[6]) * invD,
		(m[2]*m[3] - m[0]*m[5]) * invD,
		(m[3]*m[7] - m[4]*m[6]) * invD,
		(m[1]*m[6] - m[0]*m[7]) * invD,
		(m[0]*m[4] - m[1]*m[3]) * invD,
	}, nil
}

// Apply maps the point (x, y) through m, dividing by the homogeneous coordinate.
func (m Mat3) Apply(x, y float64) (float64, float64) {
	w := m[6]*x + m[7]*y + m[8]
	return (m[0]*x + m[1]*y + m[2]) / w, (m[3]*x + m[4]*y + m[5]) / w
}

// Normalized scales m so that m[8] == 1. Matrices with m[8] == 0 are returned as is.
func (m Mat3) Normalized() Mat3 {
	if m[8] == 0 {
		return m
	}
	inv := 1 / m[8]
	for i := range m {
		m[i] *= inv
	}
	return m
}

// ApproxEqual reports whether every element of a and b differs by at most eps.
func ApproxEqual(a, b Mat3, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
