package systems

import (
	"image"
	"testing"
)

func TestTextInput_ToggleSubmits(t *testing.T) {
	s := NewTextInputSystem(nil)

	if _, ok := s.Toggle(); ok || !s.Typing() {
		t.Fatalf("Expected first Tab to activate without submitting")
	}
	s.Insert("  跳个舞吧 ")
	got, ok := s.Toggle()
	if !ok || got != "跳个舞吧" {
		t.Errorf("Expected trimmed submission %q, got %q (ok=%v)", "跳个舞吧", got, ok)
	}
	if s.Typing() || s.Text() != "" {
		t.Errorf("Expected input closed and cleared, typing=%v text=%q", s.Typing(), s.Text())
	}
}

func TestTextInput_BlankNotSubmitted(t *testing.T) {
	s := NewTextInputSystem(nil)
	s.Activate()
	s.Insert("   ")
	if _, ok := s.Toggle(); ok {
		t.Errorf("Expected blank input not to be submitted")
	}
	if s.Typing() {
		t.Errorf("Expected input closed after toggle")
	}

	s.Activate()
	if _, ok := s.Submit(); ok {
		t.Errorf("Expected empty Enter not to be submitted")
	}
}

func TestTextInput_EditOperations(t *testing.T) {
	s := NewTextInputSystem(nil)

	s.Insert("ignored")
	if s.Text() != "" {
		t.Fatalf("Expected insert ignored while inactive, got %q", s.Text())
	}

	s.Activate()
	s.Insert("你好\t啊\n")
	if s.Text() != "你好啊" {
		t.Errorf("Expected control characters dropped, got %q", s.Text())
	}
	s.Backspace()
	if s.Text() != "你好" {
		t.Errorf("Expected backspace to remove one rune, got %q", s.Text())
	}
	s.Backspace()
	s.Backspace()
	s.Backspace()
	if s.Text() != "" {
		t.Errorf("Expected empty text, got %q", s.Text())
	}

	s.Insert("挥手")
	s.Cancel()
	if s.Typing() || s.Text() != "" {
		t.Errorf("Expected Escape to discard input, typing=%v text=%q", s.Typing(), s.Text())
	}
}

func TestTextInput_ActivateClears(t *testing.T) {
	s := NewTextInputSystem(nil)
	s.Activate()
	s.Insert("半句")
	s.Deactivate()
	if s.Text() != "半句" {
		t.Errorf("Expected deactivate to keep text, got %q", s.Text())
	}
	s.Activate()
	if s.Text() != "" {
		t.Errorf("Expected activate to clear text, got %q", s.Text())
	}
}

func TestInputBoxRect(t *testing.T) {
	tests := []struct {
		w, h int
		want image.Rectangle
	}{
		{800, 600, image.Rect(60, 545, 610, 590)},
		{500, 400, image.Rect(25, 345, 345, 390)},
	}
	for _, tt := range tests {
		if got := InputBoxRect(tt.w, tt.h); got != tt.want {
			t.Errorf("%dx%d: expected %v, got %v", tt.w, tt.h, tt.want, got)
		}
	}
}
