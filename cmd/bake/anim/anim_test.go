package anim

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCurveSetValueAtKeepsOrder(t *testing.T) {
	var c Curve
	c.SetValueAt(10, 1)
	c.SetValueAt(-2.5, 2)
	c.SetValueAt(4, 3)
	c.SetValueAt(10, 4)

	want := []Key{{-2.5, 2}, {4, 3}, {10, 4}}
	if diff := cmp.Diff(want, c.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestCurveEvaluate(t *testing.T) {
	var c Curve
	c.SetValueAt(0, 0)
	c.SetValueAt(10, 20)

	tests := []struct {
		t    float64
		want float64
	}{
		{-5, 0},
		{0, 0},
		{2.5, 5},
		{10, 20},
		{42, 20},
	}
	for _, tt := range tests {
		if got := c.Evaluate(tt.t); got != tt.want {
			t.Errorf("Evaluate(%v): Expected %v, got %v", tt.t, tt.want, got)
		}
	}

	var empty Curve
	if got := empty.Evaluate(3); got != 0 {
		t.Errorf("Expected empty curve to evaluate to 0, got %v", got)
	}
}

func TestTransferKeyframeFidelity(t *testing.T) {
	src := NewChannel("translate", 2, 0)
	keys := []Key{{1, 5.123456789}, {2.5, -3.75}, {7, 1e-9}, {100, 12345.678}}
	for _, k := range keys {
		src.SetValueAt(k.Value, k.Time, 0)
		src.SetValueAt(-k.Value, k.Time, 1)
	}
	dst := NewChannel("translate", 2, 0)

	if err := TransferAll(src, dst); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, k := range keys {
		if got := dst.ValueAt(k.Time, 0); got != k.Value {
			t.Errorf("x at %v: Expected %v, got %v", k.Time, k.Value, got)
		}
		if got := dst.ValueAt(k.Time, 1); got != -k.Value {
			t.Errorf("y at %v: Expected %v, got %v", k.Time, -k.Value, got)
		}
	}
	if diff := cmp.Diff(keys, dst.Keys(0)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestTransferIsIdempotent(t *testing.T) {
	src := NewChannel("rotate", 1, 0)
	src.SetValueAt(1, 0, 0)
	src.SetValueAt(2, 5, 0)
	dst := NewChannel("rotate", 1, 0)

	for i := 0; i < 3; i++ {
		if err := Transfer(src, dst, 0); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	if n := dst.NumKeys(0); n != 2 {
		t.Errorf("Expected 2 keys, got %d", n)
	}
}

func TestTransferStatic(t *testing.T) {
	src := NewChannel("scale", 2, 1)
	src.SetConstant(2.5, 1)
	dst := NewChannel("scale", 2, 0)
	dst.SetValueAt(9, 3, 1)

	if err := TransferAll(src, dst); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if dst.IsAnimated(1) {
		t.Errorf("Expected static destination component")
	}
	if got := dst.Value(0); got != 1 {
		t.Errorf("Expected 1, got %v", got)
	}
	if got := dst.Value(1); got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
}

func TestTransferIncompatible(t *testing.T) {
	src := NewChannel("translate", 2, 0)
	dst := NewChannel("rotate", 1, 0)

	err := Transfer(src, dst, 0)
	var ice *IncompatibleChannelError
	if !errors.As(err, &ice) {
		t.Fatalf("Expected IncompatibleChannelError, got %v", err)
	}
	if ice.SourceComponents != 2 || ice.DestComponents != 1 {
		t.Errorf("Expected 2 -> 1 components, got %d -> %d", ice.SourceComponents, ice.DestComponents)
	}

	err = Transfer(dst, NewChannel("rotate", 1, 0), 1)
	if !errors.As(err, &ice) {
		t.Fatalf("Expected IncompatibleChannelError for out of range component, got %v", err)
	}
}

func TestRelativeExpressionIsLive(t *testing.T) {
	ref := NewReference(1)
	c := NewChannel("translate", 1, 0)
	c.SetValueAt(5, 1, 0)
	c.SetValueAt(15, 10, 0)
	if err := c.BindExpression(RelativeExpression{Kind: SubtractAtReference, Reference: ref}, 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if got := c.Eval(1, 0); got != 0 {
		t.Errorf("Expected 0 at reference, got %v", got)
	}
	if got := c.Eval(10, 0); got != 10 {
		t.Errorf("Expected 10, got %v", got)
	}

	ref.SetFrame(10)
	if got := c.Eval(1, 0); got != -10 {
		t.Errorf("Expected -10 after moving reference, got %v", got)
	}

	c.SetValueAt(25, 10, 0)
	if got := c.Eval(1, 0); got != -20 {
		t.Errorf("Expected -20 after editing curve, got %v", got)
	}
	if got := c.ValueAt(1, 0); got != 5 {
		t.Errorf("Expected raw value 5, got %v", got)
	}
}

func TestValueAtReferenceExpression(t *testing.T) {
	ref := NewReference(0)
	to := NewChannel("to1", 2, 0)
	to.SetValueAt(3, 0, 0)
	to.SetValueAt(7, 4, 0)
	from := NewChannel("from1", 2, 0)

	e := RelativeExpression{Kind: ValueAtReference, Reference: ref, Source: to}
	if err := from.BindExpression(e, 0); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := from.Eval(99, 0); got != 3 {
		t.Errorf("Expected 3, got %v", got)
	}
	ref.SetFrame(4)
	if got := from.Eval(0, 0); got != 7 {
		t.Errorf("Expected 7, got %v", got)
	}
	if s := e.String(); s != "to1(tr_reference_frame)" {
		t.Errorf("Expected to1(tr_reference_frame), got %s", s)
	}

	bad := RelativeExpression{Kind: ValueAtReference, Reference: ref, Source: NewChannel("rotate", 1, 0)}
	var ice *IncompatibleChannelError
	if err := from.BindExpression(bad, 0); !errors.As(err, &ice) {
		t.Errorf("Expected IncompatibleChannelError, got %v", err)
	}
}

func TestExpressionStrings(t *testing.T) {
	ref := NewReference(0)
	tests := map[ExprKind]string{
		SubtractAtReference:        "curve - curve(tr_reference_frame)",
		SubtractAtReferencePlusOne: "curve - curve(tr_reference_frame) + 1",
	}
	for kind, want := range tests {
		e := RelativeExpression{Kind: kind, Reference: ref}
		if got := e.String(); got != want {
			t.Errorf("%v: Expected %q, got %q", kind, want, got)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := NewChannel("center", 2, 0)
	c.SetValueAt(1, 0, 0)
	d := c.Clone()
	d.SetValueAt(2, 0, 0)
	if got := c.ValueAt(0, 0); got != 1 {
		t.Errorf("Expected original untouched, got %v", got)
	}
}
