package skeleton

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func defaultSizes() map[string]Size {
	sizes := make(map[string]Size)
	for _, d := range DefaultBoneDefs() {
		sizes[d.Name] = Size{W: 41, H: 80}
	}
	return sizes
}

func TestNewBoneTable_DrawOrder(t *testing.T) {
	table, err := NewBoneTable(DefaultBoneDefs(), defaultSizes())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if table.Len() != 10 {
		t.Fatalf("Expected 10 bones, got %d", table.Len())
	}

	expected := []string{
		"right_hip", "left_hip", "left_elbow",
		"head", "left_wrist",
		"body", "right_knee", "left_knee",
		"right_elbow", "right_wrist",
	}
	for i, b := range table.Bones() {
		if b.Name != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], b.Name)
		}
	}
}

func TestNewBoneTable_Pivots(t *testing.T) {
	defs := DefaultBoneDefs()
	defs[0].Pivot = []float64{7, 9}

	table, err := NewBoneTable(defs, defaultSizes())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	body, _ := table.Bone("body")
	if body.Pivot != (mgl64.Vec2{7, 9}) {
		t.Errorf("Expected pinned pivot (7,9), got %v", body.Pivot)
	}

	// 41 像素宽，整数一半
	head, _ := table.Bone("head")
	if head.Pivot != (mgl64.Vec2{20, 0}) {
		t.Errorf("Expected default pivot (20,0), got %v", head.Pivot)
	}
	if head.Offset != (mgl64.Vec2{-5, -60}) {
		t.Errorf("Expected head offset (-5,-60), got %v", head.Offset)
	}
}

func TestNewBoneTable_MissingSprite(t *testing.T) {
	sizes := defaultSizes()
	delete(sizes, "head")
	table, err := NewBoneTable(DefaultBoneDefs(), sizes)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := table.Bone("head"); ok {
		t.Errorf("Expected head to be left out")
	}
	if table.Len() != 9 {
		t.Errorf("Expected 9 bones, got %d", table.Len())
	}
}

func TestValidateBoneDefs(t *testing.T) {
	tests := []struct {
		name        string
		defs        []BoneDef
		expectError string
	}{
		{"missing name", []BoneDef{{Start: "a", End: "b"}}, "missing 'name'"},
		{"duplicate", []BoneDef{{Name: "x", Start: "a", End: "b"}, {Name: "x", Start: "a", End: "b"}}, "duplicate bone"},
		{"missing joint", []BoneDef{{Name: "x", Start: "a"}}, "needs both"},
		{"self loop", []BoneDef{{Name: "x", Start: "a", End: "a"}}, "to itself"},
		{"bad offset", []BoneDef{{Name: "x", Start: "a", End: "b", Offset: []float64{1}}}, "offset must have 2 values"},
		{"bad pivot", []BoneDef{{Name: "x", Start: "a", End: "b", Pivot: []float64{1, 2, 3}}}, "pivot must have 2 values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBoneDefs(tt.defs)
			if err == nil || !strings.Contains(err.Error(), tt.expectError) {
				t.Errorf("Expected error containing %q, got %v", tt.expectError, err)
			}
		})
	}

	if err := ValidateBoneDefs(DefaultBoneDefs()); err != nil {
		t.Errorf("Expected default bones to validate, got %v", err)
	}
}

func TestWithPivots_DoesNotMutate(t *testing.T) {
	table, _ := NewBoneTable(DefaultBoneDefs(), defaultSizes())
	edited := table.WithPivots(map[string]mgl64.Vec2{"body": {1, 2}, "tail": {3, 4}})

	body, _ := edited.Bone("body")
	if body.Pivot != (mgl64.Vec2{1, 2}) {
		t.Errorf("Expected edited pivot (1,2), got %v", body.Pivot)
	}
	orig, _ := table.Bone("body")
	if orig.Pivot != (mgl64.Vec2{20, 0}) {
		t.Errorf("Expected original table untouched, got %v", orig.Pivot)
	}
	if edited.Len() != table.Len() {
		t.Errorf("Expected same bone count, got %d vs %d", edited.Len(), table.Len())
	}
}
