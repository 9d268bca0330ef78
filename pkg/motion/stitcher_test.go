package motion

import (
	"testing"

	"github.com/decker502/shadowpuppet/internal/clip"
)

// TestAlignTo_Continuity 测试拼接点根关节连续
func TestAlignTo_Continuity(t *testing.T) {
	tests := []struct {
		name string
		a, b clip.File
	}{
		{"forward then back", linearClip(5, 10, 10, 60, 20, 800, 600), linearClip(4, 300, 300, 250, 310, 800, 600)},
		{"single frames", linearClip(1, 1.5, 2.5, 1.5, 2.5, 800, 600), linearClip(1, -7.25, 1e4, 0, 0, 800, 600)},
		{"fractional", linearClip(3, 0.1, 0.2, 0.3, 0.7, 800, 600), linearClip(6, 123.456, 789.012, 0, 0, 800, 600)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a.Frames, tt.b.Frames
			if !AlignTo(a[len(a)-1], b) {
				t.Fatalf("expected alignment to succeed")
			}
			last, _ := a[len(a)-1].Root()
			first, _ := b[0].Root()
			if !near(last.X, first.X) || !near(last.Y, first.Y) {
				t.Errorf("expected first(B).pelvis == last(A).pelvis, got (%v,%v) vs (%v,%v)", first.X, first.Y, last.X, last.Y)
			}
		})
	}
}

// TestAlignTo_RigidTranslation 测试非根关节随根关节刚性平移
func TestAlignTo_RigidTranslation(t *testing.T) {
	a := linearClip(3, 0, 0, 20, 0, 800, 600).Frames
	b := linearClip(3, 100, 100, 130, 100, 800, 600).Frames
	before := b[1].Clone()

	AlignTo(a[len(a)-1], b)

	dx := b[1].Joints[clip.JointPelvis].X - before.Joints[clip.JointPelvis].X
	dy := b[1].Joints[clip.JointPelvis].Y - before.Joints[clip.JointPelvis].Y
	for name, j := range before.Joints {
		got := b[1].Joints[name]
		if !near(got.X-j.X, dx) || !near(got.Y-j.Y, dy) {
			t.Errorf("joint %s: expected shift (%v,%v), got (%v,%v)", name, dx, dy, got.X-j.X, got.Y-j.Y)
		}
	}
	if dx != -80 || dy != -100 {
		t.Errorf("expected shift (-80,-100), got (%v,%v)", dx, dy)
	}
}

// TestAlignTo_MissingRoot 测试缺少根关节时不修改
func TestAlignTo_MissingRoot(t *testing.T) {
	a := linearClip(2, 0, 0, 10, 0, 800, 600).Frames
	b := linearClip(2, 50, 50, 60, 50, 800, 600).Frames
	delete(b[0].Joints, clip.JointPelvis)

	if AlignTo(a[len(a)-1], b) {
		t.Fatalf("expected alignment to be skipped")
	}
	if got := b[1].Joints[clip.JointPelvis].X; got != 60 {
		t.Errorf("expected untouched pelvis.x=60, got %v", got)
	}

	if AlignTo(clip.Frame{Joints: clip.Pose{}}, linearClip(1, 0, 0, 0, 0, 1, 1).Frames) {
		t.Errorf("expected false when previous frame lacks root")
	}
	if AlignTo(a[0], nil) {
		t.Errorf("expected false for empty next clip")
	}
}

// TestCenterOnCanvas_Idempotent 测试居中是纯函数
func TestCenterOnCanvas_Idempotent(t *testing.T) {
	frames := linearClip(4, 100, 100, 140, 130, 800, 600).Frames

	if !CenterOnCanvas(frames, 800, 600) {
		t.Fatalf("expected centering to succeed")
	}
	first := frames[0].Clone()
	if p := first.Joints[clip.JointPelvis]; p.X != 400 || p.Y != 300 {
		t.Errorf("expected pelvis (400,300), got (%v,%v)", p.X, p.Y)
	}

	CenterOnCanvas(frames, 800, 600)
	for name, j := range first.Joints {
		if got := frames[0].Joints[name]; got != j {
			t.Errorf("joint %s moved on second centering: %+v -> %+v", name, j, got)
		}
	}
}

// TestCenterOffset_OddCanvas 测试奇数画布取整数一半
func TestCenterOffset_OddCanvas(t *testing.T) {
	frames := linearClip(1, 0, 0, 0, 0, 801, 601).Frames
	dx, dy, ok := CenterOffset(frames, 801, 601)
	if !ok || dx != 400 || dy != 300 {
		t.Errorf("expected (400,300,true), got (%v,%v,%v)", dx, dy, ok)
	}
	if _, _, ok := CenterOffset(nil, 10, 10); ok {
		t.Errorf("expected ok=false for no frames")
	}
}

func TestTranslate(t *testing.T) {
	frames := linearClip(2, 1, 1, 2, 2, 10, 10).Frames
	Translate(frames, 3, -1)
	if p := frames[1].Joints[clip.JointPelvis]; p.X != 5 || p.Y != 1 {
		t.Errorf("expected pelvis (5,1), got (%v,%v)", p.X, p.Y)
	}
	if p := frames[1].Joints[clip.JointHeadTop]; p.Y != 2-100-1 {
		t.Errorf("expected head_top.y %v, got %v", 2-100-1.0, p.Y)
	}
}
