package cornerpin

import (
	"fmt"
	"strconv"

	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/mat"
)

// CornerPinBakeError reports a bake that was not handed four valid ordered points.
type CornerPinBakeError struct {
	Indices []int
	Reason  string
}

func (e *CornerPinBakeError) Error() string {
	return fmt.Sprintf("corner pin bake: %s (indices %v)", e.Reason, e.Indices)
}

// CornerPin is a baked four corner mapping. To[i] follows the i-th ordered
// track, From[i] is To[i] looked up at the reference frame.
type CornerPin struct {
	To        [Corners]*anim.Channel
	From      [Corners]*anim.Channel
	Tracks    [Corners]int
	Reference *anim.Reference
}

// Bake builds a corner pin from four ordered points. Nothing is returned on
// failure.
func Bake(src PointSource, ordered []int, ref *anim.Reference) (*CornerPin, error) {
	if len(ordered) != Corners {
		return nil, &CornerPinBakeError{Indices: ordered, Reason: "need exactly " + strconv.Itoa(Corners) + " ordered tracks"}
	}
	for _, i := range ordered {
		if i < 0 || i >= src.NumPoints() {
			return nil, &CornerPinBakeError{Indices: ordered, Reason: fmt.Sprintf("track %d does not exist", i)}
		}
	}

	cp := &CornerPin{Reference: ref}
	rf := float64(ref.Frame())
	for k, i := range ordered {
		p := src.Point(i)
		n := strconv.Itoa(k + 1)
		to := anim.NewChannel("to"+n, 2, 0)
		from := anim.NewChannel("from"+n, 2, 0)

		if err := anim.TransferAll(p, to); err != nil {
			return nil, &CornerPinBakeError{Indices: ordered, Reason: err.Error()}
		}
		for comp := 0; comp < 2; comp++ {
			from.SetConstant(p.ValueAt(rf, comp), comp)
			e := anim.RelativeExpression{Kind: anim.ValueAtReference, Reference: ref, Source: to}
			if err := from.BindExpression(e, comp); err != nil {
				return nil, &CornerPinBakeError{Indices: ordered, Reason: err.Error()}
			}
		}
		cp.To[k], cp.From[k], cp.Tracks[k] = to, from, i
	}
	return cp, nil
}

func quad(cs [Corners]*anim.Channel, t float64) mat.Quad {
	var q mat.Quad
	for k, c := range cs {
		q[2*k], q[2*k+1] = c.Eval(t, 0), c.Eval(t, 1)
	}
	return q
}

// FromQuad returns the from corners at t.
func (cp *CornerPin) FromQuad(t float64) mat.Quad {
	return quad(cp.From, t)
}

// ToQuad returns the to corners at t.
func (cp *CornerPin) ToQuad(t float64) mat.Quad {
	return quad(cp.To, t)
}

// Homography returns the perspective transform taking the from corners onto
// the to corners at t. It is the identity at the reference frame.
func (cp *CornerPin) Homography(t float64) (mat.Mat3, error) {
	h, err := mat.QuadToQuad(cp.FromQuad(t), cp.ToQuad(t))
	if err != nil {
		return mat.Mat3{}, fmt.Errorf("corner pin at frame %g: %w", t, err)
	}
	return h, nil
}
