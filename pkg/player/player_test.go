package player

import (
	"encoding/json"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/motion"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/smartystreets/goconvey/convey"
)

// linearClip 根关节从 from 线性移动到 to
func linearClip(n int, fromX, fromY, toX, toY float64, width, height int) clip.File {
	f := clip.File{VideoInfo: clip.VideoInfo{FPS: 45, TotalFrames: n, Resolution: []int{height, width}}}
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		x := fromX + (toX-fromX)*t
		y := fromY + (toY-fromY)*t
		f.Frames = append(f.Frames, clip.Frame{
			FrameNumber: i,
			Joints: clip.Pose{
				clip.JointPelvis:    {X: x, Y: y},
				clip.JointUpperNeck: {X: x, Y: y - 60},
			},
		})
	}
	return f
}

// recordingLoader 记录最近一次加载的路径
type recordingLoader struct {
	inner *motion.Loader
	paths []string
}

func (l *recordingLoader) Load(paths []string) *motion.Sequence {
	l.paths = paths
	return l.inner.Load(paths)
}

type fixture struct {
	player *Player
	loader *recordingLoader
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	clips := map[string]clip.File{
		// 居中后从 (400,300) 走到 (440,330)
		"actions/idle.json": linearClip(10, 100, 100, 140, 130, 800, 600),
		// 居中后从 (50,50) 走到 (60,50)
		"actions/greet.json": linearClip(5, 10, 10, 20, 10, 100, 100),
		"actions/dance.json": linearClip(3, 0, 0, 0, 0, 100, 100),
	}
	// 最后一帧丢失根关节
	drift := linearClip(3, 10, 10, 30, 10, 100, 100)
	delete(drift.Frames[2].Joints, clip.JointPelvis)
	clips["actions/drift.json"] = drift

	fsys := fstest.MapFS{}
	for path, f := range clips {
		data, err := json.Marshal(f)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		fsys[path] = &fstest.MapFile{Data: data}
	}
	fsys["actions/broken.json"] = &fstest.MapFile{Data: []byte(`{"frames": [`)}

	base := motion.NewFSLoader(fsys, motion.Corrections{})
	loader := &recordingLoader{inner: base}
	resolver := NewResolver("actions", map[string]string{
		"拱手礼": "greet",
		"跳舞":  "dance",
		"坏掉":  "broken",
		"漂移":  "drift",
	}).WithExists(func(path string) bool {
		_, ok := fsys[path]
		return ok
	})

	idle := base.Load([]string{"actions/idle.json"})
	p, err := New(idle, loader, resolver)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return fixture{player: p, loader: loader}
}

func rootOf(f Frame) mgl64.Vec2 {
	j := f.Joints[clip.RootJoint]
	return mgl64.Vec2{j.X, j.Y}
}

func TestNew_EmptyIdle(t *testing.T) {
	_, err := New(&motion.Sequence{}, nil, nil)
	if !errors.Is(err, ErrEmptyIdle) {
		t.Errorf("Expected ErrEmptyIdle, got %v", err)
	}
	_, err = New(nil, nil, nil)
	if !errors.Is(err, ErrEmptyIdle) {
		t.Errorf("Expected ErrEmptyIdle for nil sequence, got %v", err)
	}
}

func TestPlayer_Scenarios(t *testing.T) {
	convey.Convey("Given a player looping a 10-frame idle clip", t, func() {
		fx := newFixture(t)
		p := fx.player

		convey.So(p.State(), convey.ShouldEqual, StateIdle)
		convey.So(p.Anchor(), convey.ShouldResemble, mgl64.Vec2{400, 300})

		convey.Convey("idle frames are rendered with zero offset and wrap around", func() {
			var last Frame
			for i := 0; i < 10; i++ {
				last = p.Tick()
			}
			convey.So(last.Index, convey.ShouldEqual, 9)
			convey.So(rootOf(last), convey.ShouldResemble, mgl64.Vec2{440, 330})
			convey.So(p.Anchor(), convey.ShouldResemble, mgl64.Vec2{440, 330})
			convey.So(p.Tick().Index, convey.ShouldEqual, 0)
		})

		convey.Convey("a greet request after idle frame 9 starts at the anchor", func() {
			for i := 0; i < 10; i++ {
				p.Tick()
			}
			reply, outcome := p.Request(Request{ID: "r1", Actions: []string{"拱手礼"}, Reply: "你好"})
			convey.So(outcome, convey.ShouldEqual, OutcomeStarted)
			convey.So(reply, convey.ShouldEqual, "你好")
			convey.So(p.State(), convey.ShouldEqual, StateAction)
			convey.So(p.actionOffset, convey.ShouldResemble, mgl64.Vec2{390, 280})

			first := p.Tick()
			convey.So(first.State, convey.ShouldEqual, StateAction)
			convey.So(rootOf(first), convey.ShouldResemble, mgl64.Vec2{440, 330})

			convey.Convey("requests are refused while the action plays", func() {
				_, outcome := p.Request(Request{Actions: []string{"跳舞"}})
				convey.So(outcome, convey.ShouldEqual, OutcomeBusy)
			})

			convey.Convey("idle resumes where the action ended", func() {
				for i := 0; i < 4; i++ {
					p.Tick()
				}
				convey.So(p.State(), convey.ShouldEqual, StateIdle)
				convey.So(p.Anchor(), convey.ShouldResemble, mgl64.Vec2{450, 330})

				next := p.Tick()
				convey.So(next.State, convey.ShouldEqual, StateIdle)
				convey.So(next.Index, convey.ShouldEqual, 0)
				convey.So(rootOf(next), convey.ShouldResemble, mgl64.Vec2{450, 330})
			})
		})

		convey.Convey("an action whose last frame lacks the root ends at its start", func() {
			for i := 0; i < 10; i++ {
				p.Tick()
			}
			_, outcome := p.Request(Request{Actions: []string{"漂移"}})
			convey.So(outcome, convey.ShouldEqual, OutcomeStarted)

			p.Tick()
			convey.So(rootOf(p.Tick()), convey.ShouldResemble, mgl64.Vec2{450, 330})
			p.Tick()
			convey.So(p.State(), convey.ShouldEqual, StateIdle)
			convey.So(p.Anchor(), convey.ShouldResemble, mgl64.Vec2{440, 330})
		})

		convey.Convey("rewinding steps back through the idle loop", func() {
			for i := 0; i < 3; i++ {
				p.Tick()
			}
			p.Rewind(2)
			convey.So(p.Tick().Index, convey.ShouldEqual, 1)

			p.Rewind(4)
			convey.So(p.Tick().Index, convey.ShouldEqual, 8)
		})

		convey.Convey("unknown actions keep the player idle", func() {
			before := p.Anchor()
			reply, outcome := p.Request(Request{Actions: []string{"飞行"}, Reply: "好的"})
			convey.So(outcome, convey.ShouldEqual, OutcomeUnknownAction)
			convey.So(reply, convey.ShouldEqual, ReplyUnknownAction)
			convey.So(p.State(), convey.ShouldEqual, StateIdle)
			convey.So(p.Anchor(), convey.ShouldResemble, before)
		})

		convey.Convey("an empty action list shows the reply but stays idle", func() {
			reply, outcome := p.Request(Request{Reply: "嗯"})
			convey.So(outcome, convey.ShouldEqual, OutcomeUnknownAction)
			convey.So(reply, convey.ShouldEqual, "嗯")
		})

		convey.Convey("a clip that cannot be loaded replies that it cannot move", func() {
			reply, outcome := p.Request(Request{Actions: []string{"坏掉"}})
			convey.So(outcome, convey.ShouldEqual, OutcomeEmptyAction)
			convey.So(reply, convey.ShouldEqual, ReplyCannotMove)
			convey.So(p.State(), convey.ShouldEqual, StateIdle)
		})

		convey.Convey("at most three clips are stitched", func() {
			_, outcome := p.Request(Request{Actions: []string{"拱手礼", "跳舞", "greet", "dance", "拱手礼"}})
			convey.So(outcome, convey.ShouldEqual, OutcomeStarted)
			convey.So(len(fx.loader.paths), convey.ShouldEqual, 3)
			convey.So(p.action.Len(), convey.ShouldEqual, 5+3+5)
		})
	})
}
