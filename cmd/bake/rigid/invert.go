package rigid

import (
	"fmt"

	"motionbake/cmd/bake/anim"
)

// DegenerateScaleError reports a zero scale value, which has no inverse.
type DegenerateScaleError struct {
	Component int
	Time      float64
	Static    bool
}

func (e *DegenerateScaleError) Error() string {
	axis := "xy"[e.Component : e.Component+1]
	if e.Static {
		return fmt.Sprintf("degenerate scale: %s is 0", axis)
	}
	return fmt.Sprintf("degenerate scale: %s is 0 at frame %g", axis, e.Time)
}

// NeedsInversion reports whether a transform of polarity src must be inverted
// to serve as polarity dest.
func NeedsInversion(srcStabilize, destStabilize bool) bool {
	return srcStabilize != destStabilize
}

// InvertIfNeeded rewrites s into its algebraic inverse when its polarity
// differs from destStabilize, and reports whether it did. Every component is
// rewritten at its own key times (or as a constant when static):
//
//	center'    = center + translate
//	scale'     = 1 / scale
//	translate' = -translate
//	rotate'    = -rotate
//
// A zero scale is rejected before anything is modified.
func InvertIfNeeded(s *State, destStabilize bool) (bool, error) {
	if !NeedsInversion(s.Stabilize, destStabilize) {
		return false, nil
	}
	if err := checkScale(s.Scale); err != nil {
		return false, err
	}

	// center reads translate before it is negated
	translate := s.Translate.Clone()

	for comp := 0; comp < 2; comp++ {
		shiftCenter(s.Center, translate, comp)
		mapComponent(s.Scale, comp, func(v float64) float64 { return 1 / v })
		mapComponent(s.Translate, comp, negate)
	}
	mapComponent(s.Rotate, 0, negate)

	s.Stabilize = destStabilize
	return true, nil
}

func negate(v float64) float64 {
	return -v
}

func checkScale(scale *anim.Channel) error {
	for comp := 0; comp < scale.Components(); comp++ {
		if !scale.IsAnimated(comp) {
			if scale.Value(comp) == 0 {
				return &DegenerateScaleError{Component: comp, Static: true}
			}
			continue
		}
		for _, k := range scale.Keys(comp) {
			if k.Value == 0 {
				return &DegenerateScaleError{Component: comp, Time: k.Time}
			}
		}
	}
	return nil
}

func mapComponent(c *anim.Channel, comp int, f func(float64) float64) {
	if !c.IsAnimated(comp) {
		c.SetConstant(f(c.Value(comp)), comp)
		return
	}
	for _, k := range c.Keys(comp) {
		c.SetValueAt(f(k.Value), k.Time, comp)
	}
}

func shiftCenter(center, translate *anim.Channel, comp int) {
	switch {
	case center.IsAnimated(comp):
		for _, k := range center.Keys(comp) {
			center.SetValueAt(k.Value+translate.ValueAt(k.Time, comp), k.Time, comp)
		}
	case translate.IsAnimated(comp):
		c := center.Value(comp)
		center.SetAnimated(comp)
		for _, k := range translate.Keys(comp) {
			center.SetValueAt(c+k.Value, k.Time, comp)
		}
	default:
		center.SetConstant(center.Value(comp)+translate.Value(comp), comp)
	}
}
