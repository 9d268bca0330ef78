package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/config"
)

func TestPreflight(t *testing.T) {
	table := &config.ActionTable{
		IdleAction: "空闲",
		ClipDir:    "actions",
		Actions: []config.ActionEntry{
			{Name: "空闲", Clip: "idle"},
			{Name: "跳舞", Clip: "dance"},
			{Name: "坏掉", Clip: "broken"},
			{Name: "没有", Clip: ""},
		},
	}

	var calls int32
	parse := func(path string) (*clip.File, error) {
		atomic.AddInt32(&calls, 1)
		switch path {
		case "actions/idle.json":
			return &clip.File{Frames: make([]clip.Frame, 120)}, nil
		case "actions/dance.json":
			return &clip.File{Frames: make([]clip.Frame, 30)}, nil
		default:
			return nil, errors.New("failed to parse JSON")
		}
	}

	results, err := Preflight(context.Background(), table, "actions", parse, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 parse calls, got %d", calls)
	}
	if len(results) != 4 {
		t.Fatalf("Expected 4 results, got %d", len(results))
	}

	if results[0].Frames != 120 || results[0].Err != nil {
		t.Errorf("Expected idle ok with 120 frames, got %+v", results[0])
	}
	if results[1].Path != "actions/dance.json" || results[1].Frames != 30 {
		t.Errorf("Expected dance ok with 30 frames, got %+v", results[1])
	}
	if results[2].Err == nil {
		t.Errorf("Expected broken clip to fail")
	}
	if results[3].Err == nil || results[3].Path != "" {
		t.Errorf("Expected action without clip to fail without a path, got %+v", results[3])
	}

	var buf bytes.Buffer
	if failed := PrintPreflight(&buf, results); failed != 2 {
		t.Errorf("Expected 2 failures, got %d", failed)
	}
	if !strings.Contains(buf.String(), "共 4 个动作，2 个失败") {
		t.Errorf("Unexpected summary:\n%s", buf.String())
	}
}

func TestPreflight_Cancelled(t *testing.T) {
	table := &config.ActionTable{Actions: []config.ActionEntry{{Name: "空闲", Clip: "idle"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Preflight(ctx, table, "actions", func(string) (*clip.File, error) {
		return &clip.File{}, nil
	}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
