package curvefile

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/bakery"
	"motionbake/cmd/bake/rigid"
	"motionbake/cmd/bake/tracker"
)

func bake(t *testing.T, mode bakery.Mode) *bakery.Result {
	t.Helper()
	src := rigid.NewState()
	src.Translate.SetValueAt(5, 1, 0)
	src.Translate.SetValueAt(15, 10, 0)
	src.Rotate.SetValueAt(2, 1, 0)

	tr := &tracker.Tracker{Name: "Tracker1", ReferenceFrame: 1, Transform: src}
	for _, n := range []string{"a", "b", "c", "d"} {
		tr.Tracks = append(tr.Tracks, tracker.NewTrack(n))
	}
	for i, xy := range [][2]float64{{0, 0}, {4, 0}, {4, 4}, {0, 4}} {
		tr.Tracks[i].Position.SetValueAt(xy[0], 1, 0)
		tr.Tracks[i].Position.SetValueAt(xy[1], 1, 1)
	}

	l := logrus.New()
	l.SetOutput(io.Discard)
	res, err := bakery.Bake(tr, bakery.Options{Mode: mode, Rand: rand.New(rand.NewSource(1)), Log: l})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return res
}

func TestRowsOfTransform(t *testing.T) {
	res := bake(t, bakery.Stabilize)
	rows := Rows(res)

	if rows[0].Channel != anim.ReferenceParam || rows[0].Value != 1 || rows[0].Frame != nil {
		t.Errorf("Expected the reference frame row first, got %+v", rows[0])
	}
	var translateX []Row
	for _, r := range rows {
		if r.Channel == rigid.Translate && r.Component == 0 {
			translateX = append(translateX, r)
		}
	}
	if len(translateX) != 2 {
		t.Fatalf("Expected 2 translate x rows, got %d", len(translateX))
	}
	if translateX[1].Value != -15 || *translateX[1].Frame != 10 {
		t.Errorf("Expected -15 at frame 10, got %v at %v", translateX[1].Value, *translateX[1].Frame)
	}
	if translateX[0].Expression != "curve - curve(tr_reference_frame)" {
		t.Errorf("Expected relative expression, got %q", translateX[0].Expression)
	}
}

func TestWriteReadState(t *testing.T) {
	res := bake(t, bakery.Matchmove)
	var buf bytes.Buffer
	if err := Write(&buf, Rows(res)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	s, err := ReadState(&buf, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, c := range res.Transform.Channels() {
		got := s.Channel(c.Name)
		for comp := 0; comp < c.Components(); comp++ {
			if diff := cmp.Diff(c.Keys(comp), got.Keys(comp)); diff != "" {
				t.Errorf("%s[%d] mismatch (-want +got):\n%s", c.Name, comp, diff)
			}
			if c.Value(comp) != got.Value(comp) {
				t.Errorf("%s[%d]: Expected constant %v, got %v", c.Name, comp, c.Value(comp), got.Value(comp))
			}
		}
	}
}

func TestRowsOfCornerPin(t *testing.T) {
	res := bake(t, bakery.CornerPin)
	rows := Rows(res)

	var from1 []Row
	for _, r := range rows {
		if r.Channel == "from1" {
			from1 = append(from1, r)
		}
	}
	if len(from1) != 2 {
		t.Fatalf("Expected 2 static from1 rows, got %d", len(from1))
	}
	if from1[0].Frame != nil || from1[0].Expression != "to1(tr_reference_frame)" {
		t.Errorf("Expected a static from1 bound to to1, got %+v", from1[0])
	}
}

func TestReadStateBadComponent(t *testing.T) {
	in := "node,channel,component,frame,value,expression\nn,rotate,1,3,9,\n"
	_, err := ReadState(strings.NewReader(in), false)
	var ice *anim.IncompatibleChannelError
	if !errors.As(err, &ice) {
		t.Errorf("Expected IncompatibleChannelError, got %v", err)
	}
}

func TestReadStateMixedComponent(t *testing.T) {
	tests := map[string]string{
		"static after keys": "node,channel,component,frame,value,expression\nn,translate,0,1,4,\nn,translate,0,,7,\n",
		"keys after static": "node,channel,component,frame,value,expression\nn,translate,0,,7,\nn,translate,0,1,4,\n",
		"two statics":       "node,channel,component,frame,value,expression\nn,scale,1,,2,\nn,scale,1,,3,\n",
	}
	for name, in := range tests {
		if _, err := ReadState(strings.NewReader(in), false); !errors.Is(err, ErrMixedComponent) {
			t.Errorf("%s: Expected ErrMixedComponent, got %v", name, err)
		}
	}

	ok := "node,channel,component,frame,value,expression\nn,translate,0,1,4,\nn,translate,1,,7,\nn,translate,0,2,5,\n"
	s, err := ReadState(strings.NewReader(ok), false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.Translate.NumKeys(0) != 2 || s.Translate.IsAnimated(1) || s.Translate.Value(1) != 7 {
		t.Errorf("Expected keyed x and static y=7, got %d keys, y=%v", s.Translate.NumKeys(0), s.Translate.Value(1))
	}
}
