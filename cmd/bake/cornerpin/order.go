// Package cornerpin bakes four tracked points into a corner pin: the points
// are put in convex winding order, their trajectories become the "to" corners
// and the "from" corners are bound to the "to" corners at the reference frame.
package cornerpin

import (
	"fmt"
	"math"
	"sort"

	"motionbake/cmd/bake/anim"
)

// Corners is the number of corners of a corner pin.
const Corners = 4

// PointSource provides tracked point trajectories by index.
type PointSource interface {
	NumPoints() int
	// Point returns a two component (x, y) channel.
	Point(i int) *anim.Channel
}

// InsufficientTracksError reports that a corner pin cannot get four usable points.
type InsufficientTracksError struct {
	Available int
	// Invalid is the offending selected index, or -1.
	Invalid int
}

func (e *InsufficientTracksError) Error() string {
	if e.Invalid >= 0 {
		return fmt.Sprintf("insufficient tracks: index %d is not a distinct one of the %d tracks", e.Invalid, e.Available)
	}
	return fmt.Sprintf("insufficient tracks: corner pin needs %d tracks, got %d", Corners, e.Available)
}

// Select picks the four tracks of a corner pin from an explicit selection.
// Exactly four selected tracks are used as given. With fewer selected, the
// first four tracks by index are used and the selection is ignored. With more,
// the first four selected. The tracks used must be distinct and in range.
func Select(selected []int, total int) ([]int, error) {
	if total < Corners {
		return nil, &InsufficientTracksError{Available: total, Invalid: -1}
	}
	if len(selected) < Corners {
		return []int{0, 1, 2, 3}, nil
	}
	out := make([]int, Corners)
	copy(out, selected)
	seen := make(map[int]bool)
	for _, i := range out {
		if i < 0 || i >= total || seen[i] {
			return nil, &InsufficientTracksError{Available: total, Invalid: i}
		}
		seen[i] = true
	}
	return out, nil
}

// Order sorts indices by the polar angle of their points around the centroid
// at frame ref, giving a consistent convex winding whatever the input order.
// The winding direction depends on the image coordinate convention.
func Order(src PointSource, indices []int, ref float64) ([]int, error) {
	if len(indices) != Corners {
		return nil, &InsufficientTracksError{Available: len(indices), Invalid: -1}
	}
	var xs, ys [Corners]float64
	var cx, cy float64
	for k, i := range indices {
		if i < 0 || i >= src.NumPoints() {
			return nil, &InsufficientTracksError{Available: src.NumPoints(), Invalid: i}
		}
		p := src.Point(i)
		xs[k], ys[k] = p.ValueAt(ref, 0), p.ValueAt(ref, 1)
		cx += xs[k]
		cy += ys[k]
	}
	cx /= Corners
	cy /= Corners

	type polar struct {
		index int
		angle float64
	}
	ps := make([]polar, Corners)
	for k, i := range indices {
		ps[k] = polar{index: i, angle: math.Atan2(ys[k]-cy, xs[k]-cx) + math.Pi}
	}
	sort.SliceStable(ps, func(a, b int) bool {
		return ps[a].angle < ps[b].angle
	})

	out := make([]int, Corners)
	for k, p := range ps {
		out[k] = p.index
	}
	return out, nil
}
