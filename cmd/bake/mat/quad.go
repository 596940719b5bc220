package mat

// Quad is four corners given as x0, y0, x1, y1, x2, y2, x3, y3.
type Quad [8]float64

// SquareToQuad computes the perspective transform mapping the unit square
// (0,0), (1,0), (1,1), (0,1) onto q.
func SquareToQuad(q Quad) (Mat3, error) {
	x0, y0, x1, y1, x2, y2, x3, y3 := q[0], q[1], q[2], q[3], q[4], q[5], q[6], q[7]
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// affine
		m := Mat3{
			x1 - x0, x2 - x1, x0,
			y1 - y0, y2 - y1, y0,
			0, 0, 1,
		}
		if m.Det() == 0 {
			return Mat3{}, ErrSingular
		}
		return m, nil
	}
	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	denominator := dx1*dy2 - dx2*dy1
	if denominator == 0 {
		return Mat3{}, ErrSingular
	}
	g := (dx3*dy2 - dx2*dy3) / denominator
	h := (dx1*dy3 - dx3*dy1) / denominator
	m := Mat3{
		x1 - x0 + g*x1, x3 - x0 + h*x3, x0,
		y1 - y0 + g*y1, y3 - y0 + h*y3, y0,
		g, h, 1,
	}
	if m.Det() == 0 {
		return Mat3{}, ErrSingular
	}
	return m, nil
}

// QuadToQuad computes the perspective transform mapping corner i of from onto
// corner i of to.
func QuadToQuad(from, to Quad) (Mat3, error) {
	sToFrom, err := SquareToQuad(from)
	if err != nil {
		return Mat3{}, err
	}
	fromToS, err := sToFrom.Inverse()
	if err != nil {
		return Mat3{}, err
	}
	sToTo, err := SquareToQuad(to)
	if err != nil {
		return Mat3{}, err
	}
	return Mul(sToTo, fromToS).Normalized(), nil
}
