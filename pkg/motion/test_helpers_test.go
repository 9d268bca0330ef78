package motion

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/decker502/shadowpuppet/internal/clip"
)

const floatTolerance = 1e-6

// linearClip 构造一个根关节从 from 线性移动到 to 的片段
func linearClip(n int, fromX, fromY, toX, toY float64, width, height int) clip.File {
	f := clip.File{
		VideoInfo: clip.VideoInfo{FPS: 30, TotalFrames: n, Resolution: []int{height, width}},
	}
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		px := fromX + (toX-fromX)*t
		py := fromY + (toY-fromY)*t
		f.Frames = append(f.Frames, clip.Frame{
			FrameNumber: i,
			Timestamp:   float64(i) / 30,
			Joints: clip.Pose{
				clip.JointPelvis:    {X: px, Y: py, Confidence: 1},
				clip.JointUpperNeck: {X: px, Y: py - 60, Confidence: 1},
				clip.JointHeadTop:   {X: px, Y: py - 100, Confidence: 1},
			},
		})
	}
	return f
}

func mustJSON(t *testing.T, f clip.File) []byte {
	t.Helper()
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal clip: %v", err)
	}
	return data
}

func fixtureFS(t *testing.T, clips map[string]clip.File) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for path, f := range clips {
		fsys[path] = &fstest.MapFile{Data: mustJSON(t, f)}
	}
	return fsys
}

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= floatTolerance
}
