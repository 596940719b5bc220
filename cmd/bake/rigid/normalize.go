package rigid

import "motionbake/cmd/bake/anim"

// Slot names one component of one channel.
type Slot struct {
	Channel   string
	Component int
}

// ChannelSet is a set of channel components.
type ChannelSet map[Slot]bool

func (cs ChannelSet) Has(channel string, comp int) bool {
	return cs[Slot{Channel: channel, Component: comp}]
}

// Present returns the animated components of s.
func (s *State) Present() ChannelSet {
	cs := make(ChannelSet)
	for _, c := range s.Channels() {
		for comp := 0; comp < c.Components(); comp++ {
			if c.IsAnimated(comp) {
				cs[Slot{Channel: c.Name, Component: comp}] = true
			}
		}
	}
	return cs
}

// ExprKindFor returns the relative expression used for a channel: scale is
// normalized around 1, everything else around 0.
func ExprKindFor(channel string) anim.ExprKind {
	if channel == Scale {
		return anim.SubtractAtReferencePlusOne
	}
	return anim.SubtractAtReference
}

// Normalize binds every animated component listed in present to its value
// relative to the reference frame, so the transform is the identity at ref.
// Static components are left alone.
func Normalize(s *State, ref *anim.Reference, present ChannelSet) error {
	for _, c := range s.Channels() {
		for comp := 0; comp < c.Components(); comp++ {
			if !present.Has(c.Name, comp) || !c.IsAnimated(comp) {
				continue
			}
			e := anim.RelativeExpression{Kind: ExprKindFor(c.Name), Reference: ref}
			if err := c.BindExpression(e, comp); err != nil {
				return err
			}
		}
	}
	return nil
}
