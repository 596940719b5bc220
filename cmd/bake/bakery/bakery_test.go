package bakery

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"

	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/cornerpin"
	"motionbake/cmd/bake/rigid"
	"motionbake/cmd/bake/tracker"
)

func quietLog() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func squareTracker() *tracker.Tracker {
	corners := [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	tr := &tracker.Tracker{Name: "Tracker1"}
	for i, c := range corners {
		t := tracker.NewTrack(fmt.Sprintf("track%d", i+1))
		t.T = true
		for f := 0; f < 3; f++ {
			ft := float64(f)
			t.Position.SetValueAt(c[0]+ft, ft, 0)
			t.Position.SetValueAt(c[1]-ft, ft, 1)
		}
		tr.Tracks = append(tr.Tracks, t)
	}
	return tr
}

func options(mode Mode) Options {
	return Options{Mode: mode, Rand: rand.New(rand.NewSource(1)), Log: quietLog()}
}

func TestCornerPinSquare(t *testing.T) {
	tr := squareTracker()
	res, err := Bake(tr, options(CornerPin))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Class != ClassCornerPin || res.Name != "Tracker1_cornerpin_" {
		t.Errorf("Expected CornerPin2D Tracker1_cornerpin_, got %s %s", res.Class, res.Name)
	}
	cp := res.CornerPin
	if diff := cmp.Diff([cornerpin.Corners]int{0, 1, 2, 3}, cp.Tracks); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	for i := 0; i < cornerpin.Corners; i++ {
		for comp := 0; comp < 2; comp++ {
			if to, from := cp.To[i].Eval(0, comp), cp.From[i].Eval(0, comp); to != from {
				t.Errorf("corner %d[%d]: Expected to == from at 0, got %v and %v", i, comp, to, from)
			}
		}
	}
}

func TestStabilizeScenario(t *testing.T) {
	src := rigid.NewState()
	src.Translate.SetValueAt(5.0, 1, 0)
	src.Translate.SetValueAt(15.0, 10, 0)
	tr := squareTracker()
	tr.Transform = src
	tr.ReferenceFrame = 1

	res, err := Bake(tr, options(Stabilize))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !res.Inverted {
		t.Errorf("Expected the matchmove source to be inverted")
	}
	want := []anim.Key{{Time: 1, Value: -5}, {Time: 10, Value: -15}}
	if diff := cmp.Diff(want, res.Transform.Translate.Keys(0)); diff != "" {
		t.Errorf("translate keys mismatch (-want +got):\n%s", diff)
	}
	if got := res.Transform.Translate.Eval(1, 0); got != 0 {
		t.Errorf("Expected 0 at the reference frame, got %v", got)
	}
	if res.Name != "Tracker1_stabilize_" || res.Class != ClassTransform {
		t.Errorf("Expected Transform Tracker1_stabilize_, got %s %s", res.Class, res.Name)
	}
	if diff := cmp.Diff([]anim.Key{{Time: 1, Value: 5}, {Time: 10, Value: 15}}, src.Translate.Keys(0)); diff != "" {
		t.Errorf("source transform was modified (-want +got):\n%s", diff)
	}
}

func TestMatchmoveFromStabilizeSource(t *testing.T) {
	src := rigid.NewState()
	src.Stabilize = true
	src.Rotate.SetValueAt(10, 0, 0)
	src.Rotate.SetValueAt(20, 5, 0)
	tr := squareTracker()
	tr.Transform = src

	res, err := Bake(tr, options(Matchmove))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !res.Inverted {
		t.Errorf("Expected inversion of a stabilize source")
	}
	if got := res.Transform.Rotate.ValueAt(5, 0); got != -20 {
		t.Errorf("Expected rotate -20, got %v", got)
	}
}

func TestReferenceFrameOverride(t *testing.T) {
	tr := squareTracker()
	ref := 2
	opts := options(Matchmove)
	opts.ReferenceFrame = &ref

	res, err := Bake(tr, opts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Reference.Frame() != 2 {
		t.Errorf("Expected reference frame 2, got %d", res.Reference.Frame())
	}
	for comp := 0; comp < 2; comp++ {
		if got := res.Transform.Translate.Eval(2, comp); got != 0 {
			t.Errorf("Expected translate[%d] 0 at the reference frame, got %v", comp, got)
		}
	}
	if got := res.Transform.Translate.Eval(0, 0); got != -2 {
		t.Errorf("Expected translate x -2 at frame 0, got %v", got)
	}
}

func TestRoto(t *testing.T) {
	tr := squareTracker()
	res, err := Bake(tr, options(Roto))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Class != ClassRotoPaint || res.Name != "RotoPaint_from_Tracker1_" {
		t.Errorf("Expected RotoPaint RotoPaint_from_Tracker1_, got %s %s", res.Class, res.Name)
	}
	if len(res.Roto.Layers) != 1 || res.Roto.Layers[0].Name != "Tracker1" {
		t.Fatalf("Expected one layer named Tracker1, got %+v", res.Roto.Layers)
	}
	lt := res.Roto.Layers[0].Transform
	if _, ok := lt.Translate.Expression(0); !ok {
		t.Errorf("Expected the layer translate to be normalized")
	}

	opts := options(Roto)
	opts.RotoNode = "Paint"
	if _, err := Bake(tr, opts); err == nil {
		t.Errorf("Expected an error for an unknown roto node")
	}
}

func TestNoTracks(t *testing.T) {
	_, err := Bake(&tracker.Tracker{Name: "Empty"}, options(Matchmove))
	if KindOf(err) != KindNoTracks {
		t.Errorf("Expected NoTracks, got %v (%v)", KindOf(err), err)
	}
}

func TestErrorKinds(t *testing.T) {
	tr := squareTracker()
	tr.Tracks = tr.Tracks[:3]
	res, err := Bake(tr, options(CornerPin))
	if KindOf(err) != KindInsufficientTracks || res != nil {
		t.Errorf("Expected InsufficientTracks and no result, got %v %v", KindOf(err), res)
	}

	tr = squareTracker()
	tr.Transform = rigid.NewState()
	tr.Transform.Scale.SetValueAt(0, 3, 0)
	res, err = Bake(tr, options(Stabilize))
	if KindOf(err) != KindDegenerateScale || res != nil {
		t.Errorf("Expected DegenerateScale and no result, got %v %v", KindOf(err), res)
	}

	wrapped := fmt.Errorf("bake: %w", &cornerpin.CornerPinBakeError{Reason: "x"})
	if KindOf(wrapped) != KindCornerPinBake {
		t.Errorf("Expected CornerPinBake, got %v", KindOf(wrapped))
	}
	if KindOf(&anim.IncompatibleChannelError{}) != KindIncompatibleChannel {
		t.Errorf("Expected IncompatibleChannel")
	}
	if KindOf(errors.New("boom")) != KindUnknown {
		t.Errorf("Expected Unknown")
	}
}

func TestUnknownMode(t *testing.T) {
	if _, err := Bake(squareTracker(), options("warp")); err == nil {
		t.Errorf("Expected an error for an unknown mode")
	}
	if m, err := ParseMode(" CPIN "); err != nil || m != CornerPin {
		t.Errorf("Expected cpin, got %v %v", m, err)
	}
}

func TestColor(t *testing.T) {
	tr := squareTracker()
	tr.Color = 0x336699ff
	res, err := Bake(tr, options(Matchmove))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Color != 0x336699ff {
		t.Errorf("Expected the tracker colour to be reused, got %#x", res.Color)
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		c := UnpackColor(GenerateColor(rng, 0.1, 0.8))
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0.09 || v > 0.81 {
				t.Fatalf("Expected channel within [0.1, 0.8], got %v", v)
			}
		}
	}
	a := GenerateColor(rand.New(rand.NewSource(3)), 0.1, 0.8)
	b := GenerateColor(rand.New(rand.NewSource(3)), 0.1, 0.8)
	if a != b || a&0xff != 0xff {
		t.Errorf("Expected deterministic opaque colours, got %#x and %#x", a, b)
	}
}
