package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Knobs are the tracker settings kept between bakes in a YAML file next to
// the track file.
type Knobs struct {
	// ColorGroup is shared by every node baked from the tracker, 0 when unset.
	ColorGroup uint32 `yaml:"color_group"`
}

// KnobsPath returns the knobs file of a track file: Tracker1.csv keeps its
// knobs in Tracker1.tracker.yaml.
func KnobsPath(tracksFile string) string {
	return strings.TrimSuffix(tracksFile, filepath.Ext(tracksFile)) + ".tracker.yaml"
}

// LoadKnobs reads the knobs at path. A missing file gives zero knobs.
func LoadKnobs(path string) (Knobs, error) {
	var k Knobs
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return k, nil
	}
	if err != nil {
		return k, fmt.Errorf("tracker: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &k); err != nil {
		return k, fmt.Errorf("tracker: parse %s: %w", path, err)
	}
	return k, nil
}

func SaveKnobs(path string, k Knobs) error {
	data, err := yaml.Marshal(k)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("tracker: write %s: %w", path, err)
	}
	return nil
}
