// Package rigid bakes 2D similarity transforms: it copies translate, rotate,
// scale and center channels between transforms, inverts them between the
// match-move and stabilize representations and binds them to a reference frame.
package rigid

import (
	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/mat"
)

const (
	Translate = "translate"
	Rotate    = "rotate"
	Scale     = "scale"
	Center    = "center"
)

// State is the translate/rotate/scale/center channel set of a transform.
// Stabilize is true when the channels describe the inverse (stabilizing) motion.
type State struct {
	Translate *anim.Channel
	Rotate    *anim.Channel
	Scale     *anim.Channel
	Center    *anim.Channel
	Stabilize bool
}

// NewState returns an identity transform.
func NewState() *State {
	return &State{
		Translate: anim.NewChannel(Translate, 2, 0),
		Rotate:    anim.NewChannel(Rotate, 1, 0),
		Scale:     anim.NewChannel(Scale, 2, 1),
		Center:    anim.NewChannel(Center, 2, 0),
	}
}

// Channels returns the channels in bake order.
func (s *State) Channels() []*anim.Channel {
	return []*anim.Channel{s.Translate, s.Rotate, s.Scale, s.Center}
}

// Channel returns the channel with the given name, or nil.
func (s *State) Channel(name string) *anim.Channel {
	for _, c := range s.Channels() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	return &State{
		Translate: s.Translate.Clone(),
		Rotate:    s.Rotate.Clone(),
		Scale:     s.Scale.Clone(),
		Center:    s.Center.Clone(),
		Stabilize: s.Stabilize,
	}
}

// Copy transfers every channel of src into dst. The polarity of src is carried over.
func Copy(src, dst *State) error {
	srcs, dsts := src.Channels(), dst.Channels()
	for i := range srcs {
		if err := anim.TransferAll(srcs[i], dsts[i]); err != nil {
			return err
		}
	}
	dst.Stabilize = src.Stabilize
	return nil
}

// Matrix returns the effective transform at t, T(c+t)·R·S·T(-c), evaluated
// through any bound expressions. Rotation is in degrees.
func (s *State) Matrix(t float64) mat.Mat3 {
	tx, ty := s.Translate.Eval(t, 0), s.Translate.Eval(t, 1)
	cx, cy := s.Center.Eval(t, 0), s.Center.Eval(t, 1)
	return mat.Chain(
		mat.Translate(cx+tx, cy+ty),
		mat.Rotate(s.Rotate.Eval(t, 0)),
		mat.Scale(s.Scale.Eval(t, 0), s.Scale.Eval(t, 1)),
		mat.Translate(-cx, -cy),
	)
}
