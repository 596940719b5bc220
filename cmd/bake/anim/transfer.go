package anim

import "fmt"

// IncompatibleChannelError reports a transfer between channels whose component
// counts differ, or a component index outside the channel.
type IncompatibleChannelError struct {
	Source           string
	Dest             string
	SourceComponents int
	DestComponents   int
	Component        int
}

func (e *IncompatibleChannelError) Error() string {
	if e.SourceComponents != e.DestComponents {
		return fmt.Sprintf("incompatible channels: %s has %d components, %s has %d",
			e.Source, e.SourceComponents, e.Dest, e.DestComponents)
	}
	return fmt.Sprintf("incompatible channels: component %d out of range for %s (%d components)",
		e.Component, e.Dest, e.DestComponents)
}

// Transfer copies component comp of src into dst. Animated components are
// copied key by key at their exact times; static ones as a constant.
// Re-running it against a matching destination leaves it unchanged.
func Transfer(src ChannelSource, dst ChannelSink, comp int) error {
	sn, dn := src.Components(), dst.Components()
	if sn != dn || comp < 0 || comp >= sn {
		return &IncompatibleChannelError{
			Source:           src.ChannelName(),
			Dest:             dst.ChannelName(),
			SourceComponents: sn,
			DestComponents:   dn,
			Component:        comp,
		}
	}

	if !src.IsAnimated(comp) {
		dst.SetConstant(src.Value(comp), comp)
		return nil
	}

	dst.SetAnimated(comp)
	for i := 0; i < src.NumKeys(comp); i++ {
		t := src.KeyTime(i, comp)
		dst.SetValueAt(src.ValueAt(t, comp), t, comp)
	}
	return nil
}

// TransferAll copies every component of src into dst.
func TransferAll(src ChannelSource, dst ChannelSink) error {
	for comp := 0; comp < src.Components(); comp++ {
		if err := Transfer(src, dst, comp); err != nil {
			return err
		}
	}
	return nil
}
