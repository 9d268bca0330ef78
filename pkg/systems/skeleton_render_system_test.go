package systems

import (
	"math"
	"testing"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/motion"
	"github.com/decker502/shadowpuppet/pkg/skeleton"
)

func testBoneTable(t *testing.T) *skeleton.BoneTable {
	t.Helper()
	defs := []skeleton.BoneDef{
		{Name: "body", Start: clip.JointUpperNeck, End: clip.JointPelvis, DrawOrder: 3},
		{Name: "left_elbow", Start: clip.JointLeftShoulder, End: clip.JointLeftElbow, DrawOrder: 1, Pivot: []float64{5, 4}},
	}
	table, err := skeleton.NewBoneTable(defs, map[string]skeleton.Size{
		"body":       {W: 40, H: 100},
		"left_elbow": {W: 12, H: 50},
	})
	if err != nil {
		t.Fatalf("NewBoneTable: %v", err)
	}
	return table
}

// TestPlacementGeoM_PivotOnAnchor 验证 GeoM 把精灵枢轴变换到锚点
func TestPlacementGeoM_PivotOnAnchor(t *testing.T) {
	table := testBoneTable(t)
	canvas := skeleton.Canvas{Width: 800, Height: 600, Scale: skeleton.DefaultScale, StageOffsetY: skeleton.DefaultStageOffsetY}

	baseline := clip.Pose{
		clip.JointPelvis:       {X: 400, Y: 300},
		clip.JointUpperNeck:    {X: 400, Y: 240},
		clip.JointLeftShoulder: {X: 420, Y: 245},
		clip.JointLeftElbow:    {X: 440, Y: 290},
	}
	frames := []clip.Pose{
		baseline,
		{
			clip.JointPelvis:       {X: 380, Y: 310},
			clip.JointUpperNeck:    {X: 410, Y: 250},
			clip.JointLeftShoulder: {X: 430, Y: 255},
			clip.JointLeftElbow:    {X: 400, Y: 220},
		},
	}

	for i, joints := range frames {
		placements := skeleton.Layout(joints, baseline, table, canvas)
		if len(placements) != 2 {
			t.Fatalf("frame %d: expected 2 placements, got %d", i, len(placements))
		}
		for _, p := range placements {
			g := PlacementGeoM(p)
			x, y := g.Apply(p.Bone.Pivot.X(), p.Bone.Pivot.Y())
			if math.Abs(x-p.Anchor.X()) > 1e-6 || math.Abs(y-p.Anchor.Y()) > 1e-6 {
				t.Errorf("frame %d %s: expected pivot at (%.3f,%.3f), got (%.3f,%.3f)",
					i, p.Bone.Name, p.Anchor.X(), p.Anchor.Y(), x, y)
			}
		}
	}
}

// TestPlacementGeoM_Unrotated 0° 时精灵只做缩放和平移
func TestPlacementGeoM_Unrotated(t *testing.T) {
	table := testBoneTable(t)
	canvas := skeleton.Canvas{Width: 800, Height: 600, Scale: 1, StageOffsetY: 0}
	pose := clip.Pose{
		clip.JointUpperNeck: {X: 400, Y: 240},
		clip.JointPelvis:    {X: 400, Y: 300},
	}

	placements := skeleton.Layout(pose, pose, table, canvas)
	if len(placements) != 1 {
		t.Fatalf("Expected only body placement, got %d", len(placements))
	}
	g := PlacementGeoM(placements[0])
	x, y := g.Apply(0, 0)
	// 默认枢轴 (20, 0) 落在 upper_neck
	if math.Abs(x-380) > 1e-9 || math.Abs(y-240) > 1e-9 {
		t.Errorf("Expected top-left (380,240), got (%v,%v)", x, y)
	}
}

func TestSegmentLabel(t *testing.T) {
	seq := &motion.Sequence{
		Frames: make([]clip.Frame, 8),
		Segments: []motion.Segment{
			{Path: "actions/idle.json", Start: 0, End: 5},
			{Path: "actions/wave.json", Start: 5, End: 8},
		},
	}

	tests := []struct {
		index int
		want  string
		ok    bool
	}{
		{0, "JSON: actions/idle.json, Frame: 1/5", true},
		{4, "JSON: actions/idle.json, Frame: 5/5", true},
		{5, "JSON: actions/wave.json, Frame: 1/3", true},
		{7, "JSON: actions/wave.json, Frame: 3/3", true},
		{8, "", false},
	}
	for _, tt := range tests {
		got, ok := SegmentLabel(seq, tt.index)
		if ok != tt.ok || got != tt.want {
			t.Errorf("index %d: expected (%q,%v), got (%q,%v)", tt.index, tt.want, tt.ok, got, ok)
		}
	}

	if _, ok := SegmentLabel(nil, 0); ok {
		t.Errorf("Expected no label for nil sequence")
	}
}
