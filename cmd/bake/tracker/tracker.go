// Package tracker models the source tracker a bake reads from: its tracked
// points, their flattened per-frame table and the transform solved from them.
package tracker

import (
	"errors"
	"fmt"

	"motionbake/cmd/bake/anim"
	"motionbake/cmd/bake/rigid"
)

// Column layout of one track inside a flattened table row.
const (
	ColumnsPerTrack = 31

	ColX = 2
	ColY = 3
	ColT = 6
	ColR = 7
	ColS = 8
)

var ErrColumn = errors.New("tracker: column has no curve")

// Track is one tracked point. Position has two components, x and y, which may
// be keyed at different times.
type Track struct {
	Name     string
	Position *anim.Channel
	// T, R and S mark the track as contributing to translate, rotate and scale.
	T, R, S bool
}

func NewTrack(name string) Track {
	return Track{Name: name, Position: anim.NewChannel(name, 2, 0)}
}

// Tracker is the read-only source of a bake.
type Tracker struct {
	Name           string
	Tracks         []Track
	ReferenceFrame int
	// Transform is the tracker's own solved transform. When nil, bakes derive
	// one from the tracks with Solve.
	Transform *rigid.State
	// Color is the colour group shared by every node baked from the tracker, 0 when unset.
	Color uint32
}

// TrackNames returns the track names in index order.
func (tr *Tracker) TrackNames() []string {
	names := make([]string, len(tr.Tracks))
	for i, t := range tr.Tracks {
		names[i] = t.Name
	}
	return names
}

// NumPoints returns the number of tracked points.
func (tr *Tracker) NumPoints() int {
	return len(tr.Tracks)
}

// Point returns the position channel of track i.
func (tr *Tracker) Point(i int) *anim.Channel {
	return tr.Tracks[i].Position
}

func (tr *Tracker) track(i int) (*Track, error) {
	if i < 0 || i >= len(tr.Tracks) {
		return nil, fmt.Errorf("tracker %s: no track %d (%d tracks)", tr.Name, i, len(tr.Tracks))
	}
	return &tr.Tracks[i], nil
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Sample returns column offset of track i at frame.
func (tr *Tracker) Sample(i, offset int, frame float64) (float64, error) {
	t, err := tr.track(i)
	if err != nil {
		return 0, err
	}
	switch offset {
	case ColX:
		return t.Position.ValueAt(frame, 0), nil
	case ColY:
		return t.Position.ValueAt(frame, 1), nil
	case ColT:
		return flag(t.T), nil
	case ColR:
		return flag(t.R), nil
	case ColS:
		return flag(t.S), nil
	}
	return 0, fmt.Errorf("tracker %s: track %d offset %d: %w", tr.Name, i, offset, ErrColumn)
}

// KeyTimes returns the key times of the x or y column of track i.
func (tr *Tracker) KeyTimes(i, offset int) ([]float64, error) {
	t, err := tr.track(i)
	if err != nil {
		return nil, err
	}
	switch offset {
	case ColX:
		return t.Position.KeyTimes(0), nil
	case ColY:
		return t.Position.KeyTimes(1), nil
	}
	return nil, fmt.Errorf("tracker %s: track %d offset %d: %w", tr.Name, i, offset, ErrColumn)
}

// Row returns the flattened table row at frame, ColumnsPerTrack values per track.
// Columns this package does not model are 0.
func (tr *Tracker) Row(frame float64) []float64 {
	row := make([]float64, ColumnsPerTrack*len(tr.Tracks))
	for i, t := range tr.Tracks {
		base := i * ColumnsPerTrack
		row[base+ColX] = t.Position.ValueAt(frame, 0)
		row[base+ColY] = t.Position.ValueAt(frame, 1)
		row[base+ColT] = flag(t.T)
		row[base+ColR] = flag(t.R)
		row[base+ColS] = flag(t.S)
	}
	return row
}
