package systems

import (
	"errors"
	"testing"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/skeleton"
	"github.com/go-gl/mathgl/mgl64"
)

type fakeSaver struct {
	saved map[string]mgl64.Vec2
	err   error
}

func (f *fakeSaver) Save(pivots map[string]mgl64.Vec2) error {
	if f.err != nil {
		return f.err
	}
	f.saved = pivots
	return nil
}

func editorPlacements(t *testing.T, table *skeleton.BoneTable) []skeleton.Placement {
	t.Helper()
	pose := clip.Pose{
		clip.JointPelvis:       {X: 400, Y: 300},
		clip.JointUpperNeck:    {X: 400, Y: 240},
		clip.JointLeftShoulder: {X: 420, Y: 245},
		clip.JointLeftElbow:    {X: 440, Y: 290},
	}
	canvas := skeleton.Canvas{Width: 800, Height: 600, Scale: 1}
	return skeleton.Layout(pose, pose, table, canvas)
}

func TestPivotEditor_SelectRequiresActive(t *testing.T) {
	table := testBoneTable(t)
	s := NewPivotEditorSystem(table, nil)
	placements := editorPlacements(t, table)

	if s.SelectAt(400, 240, placements) {
		t.Fatalf("Expected selection to be ignored outside edit mode")
	}

	s.Toggle()
	tests := []struct {
		name   string
		x, y   float64
		want   string
		picked bool
	}{
		{"Exact anchor", 400, 240, "body", true},
		{"Within radius", 425, 240, "left_elbow", true},
		{"Too far", 460, 240, "left_elbow", false},
	}
	for _, tt := range tests {
		got := s.SelectAt(tt.x, tt.y, placements)
		if got != tt.picked || s.Selected() != tt.want {
			t.Errorf("%s: expected (%v,%q), got (%v,%q)", tt.name, tt.picked, tt.want, got, s.Selected())
		}
	}

	s.Toggle()
	if s.Selected() != "" {
		t.Errorf("Expected selection cleared on exit, got %q", s.Selected())
	}
}

func TestPivotEditor_NudgeAndTable(t *testing.T) {
	table := testBoneTable(t)
	s := NewPivotEditorSystem(table, nil)

	if s.Nudge(1, 0) {
		t.Fatalf("Expected nudge without selection to fail")
	}

	s.Toggle()
	s.SelectAt(400, 240, editorPlacements(t, table))
	s.Nudge(1, 0)
	s.Nudge(0, 10)
	s.Nudge(-10, 0)

	want := mgl64.Vec2{11, 10}
	if p, _ := s.Pivot("body"); p != want {
		t.Errorf("Expected body pivot %v, got %v", want, p)
	}

	edited := s.Table()
	if b, _ := edited.Bone("body"); b.Pivot != want {
		t.Errorf("Expected edited table pivot %v, got %v", want, b.Pivot)
	}
	if b, _ := table.Bone("body"); b.Pivot != (mgl64.Vec2{20, 0}) {
		t.Errorf("Expected source table untouched, got %v", b.Pivot)
	}
	if s.Table() != edited {
		t.Errorf("Expected table to be reused when nothing changed")
	}
}

func TestPivotEditor_Save(t *testing.T) {
	table := testBoneTable(t)
	saver := &fakeSaver{}
	s := NewPivotEditorSystem(table, saver)
	s.Toggle()
	s.SelectAt(420, 245, editorPlacements(t, table))
	s.Nudge(0, 1)

	if err := s.Save(); err != nil {
		t.Fatalf("Unexpected save error: %v", err)
	}
	if len(saver.saved) != 2 {
		t.Fatalf("Expected 2 saved pivots, got %d", len(saver.saved))
	}
	if p := saver.saved["left_elbow"]; p != (mgl64.Vec2{5, 5}) {
		t.Errorf("Expected left_elbow (5,5), got %v", p)
	}

	saver.err = errors.New("disk full")
	if err := s.Save(); err == nil {
		t.Errorf("Expected save error to propagate")
	}

	if err := NewPivotEditorSystem(table, nil).Save(); err != nil {
		t.Errorf("Expected nil store save to be a no-op, got %v", err)
	}
}

func TestPivotEditor_Pause(t *testing.T) {
	s := NewPivotEditorSystem(testBoneTable(t), nil)
	if s.Paused() {
		t.Fatalf("Expected editor to start unpaused")
	}
	s.TogglePause()
	if !s.Paused() {
		t.Errorf("Expected paused after toggle")
	}
}
