// Package bakery turns a source tracker into a baked node: a match-move or
// stabilize transform, a roto layer transform or a corner pin.
package bakery

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/cornerpin"
	"motionbake/cmd/bake/rigid"
	"motionbake/cmd/bake/tracker"
)

const (
	ClassTransform = "Transform"
	ClassRoto      = "Roto"
	ClassRotoPaint = "RotoPaint"
	ClassCornerPin = "CornerPin2D"

	Label = "reference frame: [value " + anim.ReferenceParam + "]"
)

// Options configures a bake.
type Options struct {
	Mode Mode
	// ReferenceFrame overrides the tracker's reference frame when set.
	ReferenceFrame *int
	// Selected are the track indices picked for a corner pin.
	Selected []int
	// MarkAll asks the host to compute every track before baking. It does not
	// change the bake itself.
	MarkAll bool
	// RotoNode is ClassRoto or ClassRotoPaint, ClassRotoPaint when empty.
	RotoNode   string
	ColorRange [2]float64
	Rand       *rand.Rand
	Log        logrus.FieldLogger
}

// Layer is a named layer of a roto node carrying its own transform.
type Layer struct {
	Name      string
	Transform *rigid.State
}

// RotoShape is the layer stack of a roto node.
type RotoShape struct {
	Layers []*Layer
}

// Result is a freshly baked node. Exactly one of Transform, Roto and
// CornerPin is set.
type Result struct {
	Class     string
	Name      string
	Label     string
	Mode      Mode
	Color     uint32
	Reference *anim.Reference
	// Inverted is true when the tracker transform was inverted on the way.
	Inverted  bool
	Transform *rigid.State
	Roto      *RotoShape
	CornerPin *cornerpin.CornerPin
}

// Bake bakes tr according to opts. tr is only read. On error no Result is returned.
func Bake(tr *tracker.Tracker, opts Options) (*Result, error) {
	if len(tr.Tracks) == 0 {
		return nil, &NoTracksError{Tracker: tr.Name}
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithFields(logrus.Fields{"tracker": tr.Name, "mode": opts.Mode})
	if opts.MarkAll {
		log.Debug("all tracks marked for computation")
	}

	frame := tr.ReferenceFrame
	if opts.ReferenceFrame != nil {
		frame = *opts.ReferenceFrame
	}
	res := &Result{
		Mode:      opts.Mode,
		Label:     Label,
		Reference: anim.NewReference(frame),
		Color:     colorFor(tr, opts),
	}

	var err error
	switch opts.Mode {
	case Matchmove, Stabilize:
		res.Class = ClassTransform
		res.Name = fmt.Sprintf("%s_%s_", tr.Name, opts.Mode)
		res.Transform, res.Inverted, err = bakeTransform(tr, res.Reference, opts.Mode == Stabilize)
	case Roto:
		res.Class = opts.RotoNode
		if res.Class == "" {
			res.Class = ClassRotoPaint
		}
		if res.Class != ClassRoto && res.Class != ClassRotoPaint {
			return nil, fmt.Errorf("roto node must be %s or %s, got %q", ClassRoto, ClassRotoPaint, res.Class)
		}
		res.Name = fmt.Sprintf("%s_from_%s_", res.Class, tr.Name)
		res.Roto, err = bakeRoto(tr, res.Reference)
	case CornerPin:
		res.Class = ClassCornerPin
		res.Name = fmt.Sprintf("%s_cornerpin_", tr.Name)
		if len(opts.Selected) > cornerpin.Corners {
			log.Warnf("%d tracks selected, using the first %d", len(opts.Selected), cornerpin.Corners)
		}
		res.CornerPin, err = bakeCornerPin(tr, opts.Selected, res.Reference)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{"node": res.Name, "reference_frame": frame, "inverted": res.Inverted}).Info("baked")
	return res, nil
}

func colorFor(tr *tracker.Tracker, opts Options) uint32 {
	if tr.Color != 0 {
		return tr.Color
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	lo, hi := opts.ColorRange[0], opts.ColorRange[1]
	if lo == 0 && hi == 0 {
		lo, hi = DefaultColorRange[0], DefaultColorRange[1]
	}
	return GenerateColor(rng, lo, hi)
}

// sourceTransform returns the tracker's transform, solving it from the
// tracks when the tracker carries none.
func sourceTransform(tr *tracker.Tracker, ref *anim.Reference) (*rigid.State, error) {
	if tr.Transform != nil {
		return tr.Transform, nil
	}
	return tracker.Solve(tr, ref.Frame())
}

func bakeTransform(tr *tracker.Tracker, ref *anim.Reference, stabilize bool) (*rigid.State, bool, error) {
	src, err := sourceTransform(tr, ref)
	if err != nil {
		return nil, false, err
	}
	dst := rigid.NewState()
	if err := rigid.Copy(src, dst); err != nil {
		return nil, false, err
	}
	inverted, err := rigid.InvertIfNeeded(dst, stabilize)
	if err != nil {
		return nil, false, err
	}
	if err := rigid.Normalize(dst, ref, dst.Present()); err != nil {
		return nil, false, err
	}
	return dst, inverted, nil
}

func bakeRoto(tr *tracker.Tracker, ref *anim.Reference) (*RotoShape, error) {
	src, err := sourceTransform(tr, ref)
	if err != nil {
		return nil, err
	}
	layer := &Layer{Name: tr.Name, Transform: rigid.NewState()}
	if err := rigid.Copy(src, layer.Transform); err != nil {
		return nil, err
	}
	if err := rigid.Normalize(layer.Transform, ref, layer.Transform.Present()); err != nil {
		return nil, err
	}
	return &RotoShape{Layers: []*Layer{layer}}, nil
}

func bakeCornerPin(tr *tracker.Tracker, selected []int, ref *anim.Reference) (*cornerpin.CornerPin, error) {
	indices, err := cornerpin.Select(selected, tr.NumPoints())
	if err != nil {
		return nil, err
	}
	ordered, err := cornerpin.Order(tr, indices, float64(ref.Frame()))
	if err != nil {
		return nil, err
	}
	return cornerpin.Bake(tr, ordered, ref)
}
