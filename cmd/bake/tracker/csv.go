package tracker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jszwec/csvutil"
)

// CsvSample is one row of a track file: the position of a track at a frame.
type CsvSample struct {
	Track string  `csv:"track"`
	Frame float64 `csv:"frame"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	T     bool    `csv:"t,omitempty"`
	R     bool    `csv:"r,omitempty"`
	S     bool    `csv:"s,omitempty"`
}

// ReadCSV reads tracks from r. Tracks keep the order of their first row and
// their T/R/S flags are set when any of their rows sets them.
func ReadCSV(r io.Reader) ([]Track, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("tracker: read header: %w", err)
	}

	var tracks []Track
	index := make(map[string]int)
	for line := 2; ; line++ {
		var s CsvSample
		if err := dec.Decode(&s); err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("tracker: line %d: %w", line, err)
		}
		if s.Track == "" {
			return nil, fmt.Errorf("tracker: line %d: empty track name", line)
		}

		i, ok := index[s.Track]
		if !ok {
			i = len(tracks)
			index[s.Track] = i
			tracks = append(tracks, NewTrack(s.Track))
		}
		t := &tracks[i]
		t.Position.SetValueAt(s.X, s.Frame, 0)
		t.Position.SetValueAt(s.Y, s.Frame, 1)
		t.T = t.T || s.T
		t.R = t.R || s.R
		t.S = t.S || s.S
	}
	return tracks, nil
}

// WriteCSV writes tracks in the format ReadCSV reads.
func WriteCSV(w io.Writer, tracks []Track) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(CsvSample{}); err != nil {
		return err
	}
	for _, t := range tracks {
		for _, f := range mergeTimes(t.Position.KeyTimes(0), t.Position.KeyTimes(1)) {
			err := enc.Encode(CsvSample{
				Track: t.Name,
				Frame: f,
				X:     t.Position.ValueAt(f, 0),
				Y:     t.Position.ValueAt(f, 1),
				T:     t.T,
				R:     t.R,
				S:     t.S,
			})
			if err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
