package tracker

import (
	"errors"
	"math"
	"sort"

	"motionbake/cmd/bake/rigid"
)

var (
	ErrNoTranslateTracks = errors.New("tracker: no track is enabled for translate")
	ErrDegenerateTracks  = errors.New("tracker: rotate/scale tracks coincide at the reference frame")
)

type point struct {
	X, Y float64
}

// similarity returns the rotation (degrees) and scale that carry the segment
// base onto the segment target.
func similarity(base, target [2]point) (angle, scale float64) {
	baseDist := math.Hypot(base[1].X-base[0].X, base[1].Y-base[0].Y)
	targetDist := math.Hypot(target[1].X-target[0].X, target[1].Y-target[0].Y)

	baseAngle := math.Atan2(base[1].Y-base[0].Y, base[1].X-base[0].X)
	targetAngle := math.Atan2(target[1].Y-target[0].Y, target[1].X-target[0].X)
	angle = (targetAngle - baseAngle) * 180 / math.Pi

	scale = targetDist / baseDist
	return angle, scale
}

// unwrap shifts angle by whole turns so it is within 180 degrees of prev.
func unwrap(angle, prev float64) float64 {
	for angle-prev > 180 {
		angle -= 360
	}
	for angle-prev < -180 {
		angle += 360
	}
	return angle
}

func mergeTimes(lists ...[]float64) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, l := range lists {
		for _, t := range l {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Float64s(out)
	return out
}

func (tr *Tracker) position(i int, t float64) point {
	p := tr.Tracks[i].Position
	return point{p.ValueAt(t, 0), p.ValueAt(t, 1)}
}

func (tr *Tracker) centroid(indices []int, t float64) point {
	var c point
	for _, i := range indices {
		p := tr.position(i, t)
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(indices))
	return point{c.X / n, c.Y / n}
}

// Solve derives a match-move transform from the tracks, relative to frame ref:
// center is the centroid of the translate tracks at ref and translate follows
// that centroid. When at least two tracks are enabled for rotate or scale, the
// first two drive rotate and scale through the segment joining them.
func Solve(tr *Tracker, ref int) (*rigid.State, error) {
	var tIdx, rsIdx []int
	for i, t := range tr.Tracks {
		if t.T {
			tIdx = append(tIdx, i)
		}
		if t.R || t.S {
			rsIdx = append(rsIdx, i)
		}
	}
	if len(tIdx) == 0 {
		return nil, ErrNoTranslateTracks
	}

	s := rigid.NewState()
	rf := float64(ref)

	var lists [][]float64
	for _, i := range tIdx {
		p := tr.Tracks[i].Position
		lists = append(lists, p.KeyTimes(0), p.KeyTimes(1))
	}
	c0 := tr.centroid(tIdx, rf)
	s.Center.SetConstant(c0.X, 0)
	s.Center.SetConstant(c0.Y, 1)
	for _, t := range mergeTimes(lists...) {
		c := tr.centroid(tIdx, t)
		s.Translate.SetValueAt(c.X-c0.X, t, 0)
		s.Translate.SetValueAt(c.Y-c0.Y, t, 1)
	}

	if len(rsIdx) < 2 {
		return s, nil
	}
	a, b := rsIdx[0], rsIdx[1]
	base := [2]point{tr.position(a, rf), tr.position(b, rf)}
	if base[0] == base[1] {
		return nil, ErrDegenerateTracks
	}
	doRotate := tr.Tracks[a].R || tr.Tracks[b].R
	doScale := tr.Tracks[a].S || tr.Tracks[b].S

	pa, pb := tr.Tracks[a].Position, tr.Tracks[b].Position
	prev := 0.0
	for _, t := range mergeTimes(pa.KeyTimes(0), pa.KeyTimes(1), pb.KeyTimes(0), pb.KeyTimes(1)) {
		angle, scale := similarity(base, [2]point{tr.position(a, t), tr.position(b, t)})
		if doRotate {
			angle = unwrap(angle, prev)
			prev = angle
			s.Rotate.SetValueAt(angle, t, 0)
		}
		if doScale {
			s.Scale.SetValueAt(scale, t, 0)
			s.Scale.SetValueAt(scale, t, 1)
		}
	}
	return s, nil
}
