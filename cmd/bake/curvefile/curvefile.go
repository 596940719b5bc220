// Package curvefile reads and writes animation curves as CSV, one row per key
// or per static component.
package curvefile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"

	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/bakery"
	"motionbake/cmd/bake/rigid"
)

// Row is one key of a curve, or the value of a static component when Frame is nil.
type Row struct {
	Node       string   `csv:"node"`
	Channel    string   `csv:"channel"`
	Component  int      `csv:"component"`
	Frame      *float64 `csv:"frame"`
	Value      float64  `csv:"value"`
	Expression string   `csv:"expression,omitempty"`
}

func channelRows(node string, c *anim.Channel) []Row {
	var rows []Row
	for comp := 0; comp < c.Components(); comp++ {
		var expr string
		if e, ok := c.Expression(comp); ok {
			expr = e.String()
		}
		if !c.IsAnimated(comp) {
			rows = append(rows, Row{Node: node, Channel: c.Name, Component: comp, Value: c.Value(comp), Expression: expr})
			continue
		}
		for _, k := range c.Keys(comp) {
			frame := k.Time
			rows = append(rows, Row{Node: node, Channel: c.Name, Component: comp, Frame: &frame, Value: k.Value, Expression: expr})
		}
	}
	return rows
}

// Rows flattens a baked node into rows. The first row holds the reference frame.
func Rows(res *bakery.Result) []Row {
	rows := []Row{{Node: res.Name, Channel: anim.ReferenceParam, Value: float64(res.Reference.Frame())}}
	switch {
	case res.Transform != nil:
		for _, c := range res.Transform.Channels() {
			rows = append(rows, channelRows(res.Name, c)...)
		}
	case res.Roto != nil:
		for _, l := range res.Roto.Layers {
			for _, c := range l.Transform.Channels() {
				rows = append(rows, channelRows(res.Name+"/"+l.Name, c)...)
			}
		}
	case res.CornerPin != nil:
		for _, c := range res.CornerPin.To {
			rows = append(rows, channelRows(res.Name, c)...)
		}
		for _, c := range res.CornerPin.From {
			rows = append(rows, channelRows(res.Name, c)...)
		}
	}
	return rows
}

// Write writes rows as CSV with a header.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(Row{}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read reads rows written by Write.
func Read(r io.Reader) ([]Row, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("curvefile: read header: %w", err)
	}
	var rows []Row
	for line := 2; ; line++ {
		var row Row
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("curvefile: line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ErrMixedComponent reports a component given both as a constant and as keys.
var ErrMixedComponent = errors.New("component has both static and keyed rows")

// ReadState reads a transform from r. Rows for other channels, such as the
// reference frame, are skipped. Expressions are ignored: the raw curves are read.
// A component is either static (one row without a frame) or keyed, never both.
func ReadState(r io.Reader, stabilize bool) (*rigid.State, error) {
	rows, err := Read(r)
	if err != nil {
		return nil, err
	}
	s := rigid.NewState()
	s.Stabilize = stabilize
	keyed := make(map[rigid.Slot]bool)
	for i, row := range rows {
		c := s.Channel(row.Channel)
		if c == nil {
			continue
		}
		if row.Component < 0 || row.Component >= c.Components() {
			return nil, fmt.Errorf("curvefile: row %d: %w", i+1, &anim.IncompatibleChannelError{
				Source:           row.Channel,
				Dest:             c.Name,
				SourceComponents: c.Components(),
				DestComponents:   c.Components(),
				Component:        row.Component,
			})
		}
		slot := rigid.Slot{Channel: c.Name, Component: row.Component}
		if was, seen := keyed[slot]; seen && (!was || row.Frame == nil) {
			return nil, fmt.Errorf("curvefile: row %d: %s[%d]: %w", i+1, c.Name, row.Component, ErrMixedComponent)
		}
		keyed[slot] = row.Frame != nil
		if row.Frame == nil {
			c.SetConstant(row.Value, row.Component)
			continue
		}
		c.SetValueAt(row.Value, *row.Frame, row.Component)
	}
	return s, nil
}
