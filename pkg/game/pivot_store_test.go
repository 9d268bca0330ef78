package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/quasilyte/gdata/v2"
)

func newTestGdata(t *testing.T, app string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv("XDG_DATA_HOME", tempDir)

	m, err := gdata.Open(gdata.Config{AppName: app})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

// TestPivotStore_Persistent 测试枢轴保存后由新的存储实例读回
func TestPivotStore_Persistent(t *testing.T) {
	m := newTestGdata(t, "test_pivots")

	ps := NewPivotStore(m)
	if !ps.Persistent() {
		t.Fatal("Expected persistent store")
	}
	if got := ps.Load([]string{"body", "head"}); len(got) != 0 {
		t.Errorf("Expected no saved pivots, got %v", got)
	}

	if err := ps.Save(map[string]mgl64.Vec2{"body": {21, 3}, "head": {15.5, 40}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewPivotStore(m)
	got := reloaded.Load([]string{"body", "head", "left_wrist"})
	if len(got) != 2 {
		t.Fatalf("Expected 2 pivots, got %v", got)
	}
	if got["body"] != (mgl64.Vec2{21, 3}) {
		t.Errorf("Expected body pivot (21,3), got %v", got["body"])
	}
	if got["head"] != (mgl64.Vec2{15.5, 40}) {
		t.Errorf("Expected head pivot (15.5,40), got %v", got["head"])
	}
}

// TestPivotStore_Degraded 测试没有 gdata 时的仅内存模式
func TestPivotStore_Degraded(t *testing.T) {
	ps := NewPivotStore(nil)
	if ps.Persistent() {
		t.Error("Expected degraded store")
	}
	if err := ps.Save(map[string]mgl64.Vec2{"body": {1, 2}}); err != nil {
		t.Fatalf("Expected no error in degraded mode, got %v", err)
	}
	got := ps.Load([]string{"body", "head"})
	if len(got) != 1 || got["body"] != (mgl64.Vec2{1, 2}) {
		t.Errorf("Expected in-memory pivot, got %v", got)
	}
}
