package anim

import "fmt"

// ReferenceParam is the name of the reference frame parameter expressions refer to.
const ReferenceParam = "tr_reference_frame"

// Reference is the live reference frame parameter of a baked node.
// Expressions keep a pointer to it, so SetFrame re-targets all of them.
type Reference struct {
	frame int
}

func NewReference(frame int) *Reference {
	return &Reference{frame: frame}
}

func (r *Reference) Frame() int {
	return r.frame
}

func (r *Reference) SetFrame(frame int) {
	r.frame = frame
}

type ExprKind int

const (
	// SubtractAtReference evaluates to curve(t) - curve(ref).
	SubtractAtReference ExprKind = iota
	// SubtractAtReferencePlusOne evaluates to curve(t) - curve(ref) + 1.
	SubtractAtReferencePlusOne
	// ValueAtReference evaluates to source(ref).
	ValueAtReference
)

func (k ExprKind) String() string {
	switch k {
	case SubtractAtReference:
		return "subtract-at-reference"
	case SubtractAtReferencePlusOne:
		return "subtract-at-reference-plus-one"
	case ValueAtReference:
		return "value-at-reference"
	}
	return fmt.Sprintf("ExprKind(%d)", int(k))
}

// RelativeExpression is a formula bound to a channel component and a reference
// frame parameter. It is evaluated on demand, never baked into keys.
type RelativeExpression struct {
	Kind      ExprKind
	Reference *Reference
	// Source is the channel read by ValueAtReference. Unused by the other kinds,
	// which read the channel the expression is bound to.
	Source *Channel
}

func (e RelativeExpression) eval(self *Channel, t float64, comp int) float64 {
	ref := float64(e.Reference.Frame())
	switch e.Kind {
	case SubtractAtReference:
		return self.ValueAt(t, comp) - self.ValueAt(ref, comp)
	case SubtractAtReferencePlusOne:
		return self.ValueAt(t, comp) - self.ValueAt(ref, comp) + 1
	case ValueAtReference:
		return e.Source.ValueAt(ref, comp)
	}
	return self.ValueAt(t, comp)
}

// String renders the expression as a host formula.
func (e RelativeExpression) String() string {
	switch e.Kind {
	case SubtractAtReference:
		return "curve - curve(" + ReferenceParam + ")"
	case SubtractAtReferencePlusOne:
		return "curve - curve(" + ReferenceParam + ") + 1"
	case ValueAtReference:
		name := "curve"
		if e.Source != nil {
			name = e.Source.Name
		}
		return name + "(" + ReferenceParam + ")"
	}
	return ""
}
