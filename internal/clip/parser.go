package clip

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNoFrames is returned when a clip file parses but contains no frames.
var ErrNoFrames = errors.New("clip has no frames")

// ParseClipFile parses a clip file from disk.
//
// Example:
//
//	c, err := clip.ParseClipFile("actions/greet.json")
//	if err != nil {
//	    log.Printf("skip clip: %v", err)
//	}
func ParseClipFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip file '%s': %w", path, err)
	}
	return parse(path, data)
}

// ParseClipFS parses a clip file through an fs.FS.
func ParseClipFS(fsys fs.FS, path string) (*File, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip file '%s': %w", path, err)
	}
	return parse(path, data)
}

// ParseClip parses clip JSON held in memory. name is only used in errors.
func ParseClip(name string, data []byte) (*File, error) {
	return parse(name, data)
}

func parse(name string, data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from '%s': %w", name, err)
	}
	if len(f.Frames) == 0 {
		return &f, fmt.Errorf("'%s': %w", name, ErrNoFrames)
	}
	// null "joints" decodes to a nil map; normalise so callers can write into it
	for i := range f.Frames {
		if f.Frames[i].Joints == nil {
			f.Frames[i].Joints = Pose{}
		}
	}
	return &f, nil
}
