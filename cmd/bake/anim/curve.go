package anim

import "sort"

// Key is a single (time, value) sample of an animation curve.
type Key struct {
	Time  float64
	Value float64
}

// Curve is an ordered list of keys, strictly increasing in time.
type Curve struct {
	keys []Key
}

// search returns the index of the first key with time >= t.
func (c *Curve) search(t float64) int {
	return sort.Search(len(c.keys), func(i int) bool {
		return c.keys[i].Time >= t
	})
}

// SetValueAt adds a key at t, replacing the value of an existing key at the same time.
func (c *Curve) SetValueAt(t, v float64) {
	i := c.search(t)
	if i < len(c.keys) && c.keys[i].Time == t {
		c.keys[i].Value = v
		return
	}
	c.keys = append(c.keys, Key{})
	copy(c.keys[i+1:], c.keys[i:])
	c.keys[i] = Key{Time: t, Value: v}
}

func (c *Curve) Len() int {
	return len(c.keys)
}

func (c *Curve) Key(i int) Key {
	return c.keys[i]
}

// Keys returns a copy of the keys in time order.
func (c *Curve) Keys() []Key {
	out := make([]Key, len(c.keys))
	copy(out, c.keys)
	return out
}

// Times returns the key times in order.
func (c *Curve) Times() []float64 {
	out := make([]float64, len(c.keys))
	for i, k := range c.keys {
		out[i] = k.Time
	}
	return out
}

// Evaluate returns the curve value at t. Values are exact at key times,
// linearly interpolated between keys and held constant past either end.
// An empty curve evaluates to 0.
func (c *Curve) Evaluate(t float64) float64 {
	n := len(c.keys)
	if n == 0 {
		return 0
	}
	i := c.search(t)
	if i < n && c.keys[i].Time == t {
		return c.keys[i].Value
	}
	if i == 0 {
		return c.keys[0].Value
	}
	if i == n {
		return c.keys[n-1].Value
	}
	a, b := c.keys[i-1], c.keys[i]
	f := (t - a.Time) / (b.Time - a.Time)
	return a.Value + (b.Value-a.Value)*f
}

func (c *Curve) clone() Curve {
	return Curve{keys: c.Keys()}
}
