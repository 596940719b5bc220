// Package anim holds the animation channels a bake reads from and writes to,
// the keyframe transfer between them and the relative expressions bound to
// baked curves.
package anim

import "fmt"

// ChannelSource is the read side of a channel.
type ChannelSource interface {
	ChannelName() string
	Components() int
	IsAnimated(comp int) bool
	Value(comp int) float64
	NumKeys(comp int) int
	KeyTime(i, comp int) float64
	ValueAt(t float64, comp int) float64
}

// ChannelSink is the write side of a channel.
type ChannelSink interface {
	ChannelName() string
	Components() int
	SetConstant(v float64, comp int)
	SetAnimated(comp int)
	SetValueAt(v, t float64, comp int)
	BindExpression(e RelativeExpression, comp int) error
}

type component struct {
	animated bool
	constant float64
	curve    Curve
	expr     *RelativeExpression
}

// Channel is a named animation parameter with one or two components.
// Each component is either static (a constant) or animated (a curve).
type Channel struct {
	Name  string
	comps []component
}

var (
	_ ChannelSource = (*Channel)(nil)
	_ ChannelSink   = (*Channel)(nil)
)

// NewChannel returns a static channel with n components set to v.
func NewChannel(name string, n int, v float64) *Channel {
	if n < 1 || n > 2 {
		panic(fmt.Sprintf("anim: channel %s: unsupported component count %d", name, n))
	}
	c := &Channel{Name: name, comps: make([]component, n)}
	for i := range c.comps {
		c.comps[i].constant = v
	}
	return c
}

func (c *Channel) ChannelName() string {
	return c.Name
}

func (c *Channel) Components() int {
	return len(c.comps)
}

// IsAnimated reports whether comp is animated and holds at least one key.
func (c *Channel) IsAnimated(comp int) bool {
	cp := &c.comps[comp]
	return cp.animated && cp.curve.Len() > 0
}

// Value returns the constant value of a static component.
func (c *Channel) Value(comp int) float64 {
	return c.comps[comp].constant
}

func (c *Channel) NumKeys(comp int) int {
	return c.comps[comp].curve.Len()
}

func (c *Channel) KeyTime(i, comp int) float64 {
	return c.comps[comp].curve.Key(i).Time
}

// Keys returns a copy of the keys of comp.
func (c *Channel) Keys(comp int) []Key {
	return c.comps[comp].curve.Keys()
}

// KeyTimes returns the key times of comp.
func (c *Channel) KeyTimes(comp int) []float64 {
	return c.comps[comp].curve.Times()
}

// ValueAt returns the raw value of comp at t, ignoring any bound expression.
func (c *Channel) ValueAt(t float64, comp int) float64 {
	if c.IsAnimated(comp) {
		return c.comps[comp].curve.Evaluate(t)
	}
	return c.comps[comp].constant
}

// SetConstant makes comp static, dropping its keys and expression.
func (c *Channel) SetConstant(v float64, comp int) {
	c.comps[comp] = component{constant: v}
}

func (c *Channel) SetAnimated(comp int) {
	c.comps[comp].animated = true
}

// SetValueAt sets a key at t. A key already at t is overwritten.
func (c *Channel) SetValueAt(v, t float64, comp int) {
	cp := &c.comps[comp]
	cp.animated = true
	cp.curve.SetValueAt(t, v)
}

// BindExpression attaches e to comp. Evaluation through Eval applies it from then on.
func (c *Channel) BindExpression(e RelativeExpression, comp int) error {
	if comp < 0 || comp >= len(c.comps) {
		return &IncompatibleChannelError{Source: c.Name, Dest: c.Name, SourceComponents: len(c.comps), DestComponents: len(c.comps), Component: comp}
	}
	if e.Reference == nil {
		return fmt.Errorf("anim: bind %s: expression has no reference frame", c.Name)
	}
	if e.Kind == ValueAtReference {
		if e.Source == nil {
			return fmt.Errorf("anim: bind %s: expression has no source channel", c.Name)
		}
		if e.Source.Components() != len(c.comps) {
			return &IncompatibleChannelError{Source: e.Source.Name, Dest: c.Name, SourceComponents: e.Source.Components(), DestComponents: len(c.comps), Component: comp}
		}
	}
	c.comps[comp].expr = &e
	return nil
}

// Expression returns the expression bound to comp, if any.
func (c *Channel) Expression(comp int) (RelativeExpression, bool) {
	e := c.comps[comp].expr
	if e == nil {
		return RelativeExpression{}, false
	}
	return *e, true
}

// Eval returns the effective value of comp at t: the bound expression when
// there is one, the raw value otherwise.
func (c *Channel) Eval(t float64, comp int) float64 {
	e := c.comps[comp].expr
	if e == nil {
		return c.ValueAt(t, comp)
	}
	return e.eval(c, t, comp)
}

// Clone returns a deep copy of the channel. Bound expressions are shared by value.
func (c *Channel) Clone() *Channel {
	out := &Channel{Name: c.Name, comps: make([]component, len(c.comps))}
	for i, cp := range c.comps {
		out.comps[i] = component{
			animated: cp.animated,
			constant: cp.constant,
			curve:    cp.curve.clone(),
		}
		if cp.expr != nil {
			e := *cp.expr
			out.comps[i].expr = &e
		}
	}
	return out
}
