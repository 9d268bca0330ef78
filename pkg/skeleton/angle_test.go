package skeleton

import (
	"math"
	"testing"
)

func TestBoneAngle(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		expected       float64
	}{
		// x 相同时只有 y1 > y2（末端在上方）得到 180，其余情况都是 0
		{"equal x, y1 < y2 (pointing down) is 0", 100, 100, 100, 200, 0},
		{"equal x, y1 > y2 (pointing up) is 180 not 0", 100, 200, 100, 100, 180},
		{"equal x, y1 == y2 (coincident) is 0", 50, 50, 50, 50, 0},
		{"horizontal right", 100, 100, 200, 100, 0},
		{"horizontal left", 200, 100, 100, 100, 0},
		{"down-right 45", 0, 0, 10, 10, 315},
		{"down-left 45", 10, 0, 0, 10, 45},
		{"up-right 45", 0, 10, 10, 0, 180 + 45},
		{"up-left 45", 10, 10, 0, 0, 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoneAngle(tt.x1, tt.y1, tt.x2, tt.y2)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestBoneAngle_Range(t *testing.T) {
	points := []float64{-30, -1, 0, 2.5, 17, 90}
	for _, x1 := range points {
		for _, y1 := range points {
			for _, x2 := range points {
				for _, y2 := range points {
					a := BoneAngle(x1, y1, x2, y2)
					if a < 0 || a >= 360 {
						t.Fatalf("BoneAngle(%v,%v,%v,%v)=%v outside [0,360)", x1, y1, x2, y2, a)
					}
				}
			}
		}
	}
}
