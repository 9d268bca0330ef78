package systems

import (
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/decker502/shadowpuppet/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// InputHint 输入框未激活且为空时的提示
const InputHint = "点击或按Tab输入问题..."

// 输入框布局
const (
	inputBoxHeight    = 45
	inputBoxMaxWidth  = 550
	inputBoxMarginX   = 180
	inputBoxBottom    = 10
	inputButtonSpace  = 130 // 右侧留给模式按钮
	inputTextOffsetX  = 15
	cursorBlinkPeriod = 0.5 // 光标闪烁间隔（秒）
)

var (
	inputFillColor   = color.RGBA{R: 240, G: 217, B: 181, A: 200}
	inputBorderColor = color.RGBA{R: 180, G: 80, B: 60, A: 255}
	inputTextColor   = color.RGBA{R: 50, G: 20, B: 10, A: 255}
	inputHintColor   = color.RGBA{R: 100, G: 80, B: 60, A: 180}
	cursorColor      = color.RGBA{R: 100, G: 10, B: 10, A: 255}
)

// InputBoxRect 计算输入框位置：底部居中（连同右侧的模式按钮），宽度不超过 550
func InputBoxRect(screenW, screenH int) image.Rectangle {
	w := screenW - inputBoxMarginX
	if w > inputBoxMaxWidth {
		w = inputBoxMaxWidth
	}
	if w < 0 {
		w = 0
	}
	x := (screenW - w - inputButtonSpace) / 2
	y := screenH - inputBoxHeight - inputBoxBottom
	return image.Rect(x, y, x+w, y+inputBoxHeight)
}

// TextInputSystem 文本输入系统
// 处理输入框的激活、键盘输入、光标闪烁，提交时返回输入的文本
type TextInputSystem struct {
	face *text.GoTextFace

	typing bool
	text   []rune

	cursorBlinkTimer float64
	cursorVisible    bool
}

// NewTextInputSystem 创建文本输入系统
func NewTextInputSystem(face *text.GoTextFace) *TextInputSystem {
	return &TextInputSystem{face: face}
}

// Typing 输入框是否处于激活状态
func (s *TextInputSystem) Typing() bool {
	return s.typing
}

// Text 当前输入内容
func (s *TextInputSystem) Text() string {
	return string(s.text)
}

// Activate 激活输入框并清空内容
func (s *TextInputSystem) Activate() {
	if s.typing {
		return
	}
	s.typing = true
	s.text = s.text[:0]
	s.resetCursor()
	log.Printf("[TextInputSystem] 输入框已激活")
}

// Deactivate 取消激活，不提交
func (s *TextInputSystem) Deactivate() {
	s.typing = false
}

// Toggle 切换激活状态（Tab）
// 从激活切换到未激活时，非空内容会被提交
//
// 返回：
//   - string: 提交的文本（已去除首尾空白）
//   - bool: 是否有提交
func (s *TextInputSystem) Toggle() (string, bool) {
	if !s.typing {
		s.Activate()
		return "", false
	}
	return s.Submit()
}

// Submit 提交当前内容（回车），输入框随即取消激活
func (s *TextInputSystem) Submit() (string, bool) {
	if !s.typing {
		return "", false
	}
	submitted := strings.TrimSpace(string(s.text))
	s.typing = false
	s.text = s.text[:0]
	if submitted == "" {
		return "", false
	}
	log.Printf("[TextInputSystem] 提交文本: %s", submitted)
	return submitted, true
}

// Cancel 放弃当前输入（Esc）
func (s *TextInputSystem) Cancel() {
	if !s.typing {
		return
	}
	s.typing = false
	s.text = s.text[:0]
	log.Printf("[TextInputSystem] 取消输入")
}

// Insert 追加文本，未激活时忽略
func (s *TextInputSystem) Insert(str string) {
	if !s.typing || str == "" {
		return
	}
	for _, r := range str {
		// 控制字符由按键处理
		if r < 0x20 || r == 0x7f {
			continue
		}
		s.text = append(s.text, r)
	}
	s.resetCursor()
}

// Backspace 删除最后一个字符
func (s *TextInputSystem) Backspace() {
	if !s.typing || len(s.text) == 0 {
		return
	}
	s.text = s.text[:len(s.text)-1]
	s.resetCursor()
}

func (s *TextInputSystem) resetCursor() {
	s.cursorBlinkTimer = 0
	s.cursorVisible = true
}

// Update 处理本帧输入
//
// 参数：
//   - deltaTime: 帧间隔（秒）
//   - screenW/screenH: 屏幕尺寸，用于判断鼠标是否点中输入框
//
// 返回：
//   - string, bool: 本帧提交的文本
func (s *TextInputSystem) Update(deltaTime float64, screenW, screenH int) (string, bool) {
	if pressed, mx, my := utils.IsPointerJustPressed(); pressed {
		if image.Pt(mx, my).In(InputBoxRect(screenW, screenH)) {
			s.Activate()
		} else if s.typing {
			s.Deactivate()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		return s.Toggle()
	}
	if !s.typing {
		return "", false
	}

	s.cursorBlinkTimer += deltaTime
	if s.cursorBlinkTimer >= cursorBlinkPeriod {
		s.cursorBlinkTimer = 0
		s.cursorVisible = !s.cursorVisible
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		return s.Submit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		s.Cancel()
		return "", false
	}

	if runes := ebiten.AppendInputChars(nil); len(runes) > 0 {
		s.Insert(string(runes))
	}

	// 按住连续删除
	if utils.IsKeyRepeated(ebiten.KeyBackspace) {
		s.Backspace()
	}
	return "", false
}

// Draw 绘制输入框
func (s *TextInputSystem) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	r := InputBoxRect(bounds.Dx(), bounds.Dy())
	x, y := float32(r.Min.X), float32(r.Min.Y)
	w, h := float32(r.Dx()), float32(r.Dy())
	vector.DrawFilledRect(screen, x, y, w, h, inputFillColor, true)
	vector.StrokeRect(screen, x, y, w, h, 2, inputBorderColor, true)

	lineH := labelHeight(s.face)
	tx := float64(r.Min.X + inputTextOffsetX)
	ty := float64(r.Min.Y) + (float64(r.Dy())-lineH)/2

	switch {
	case s.typing:
		content := string(s.text)
		drawLabel(screen, s.face, content, tx, ty, inputTextColor)
		if s.cursorVisible {
			cx := float32(tx + measureLabel(s.face, content) + 1)
			vector.StrokeLine(screen, cx, float32(ty), cx, float32(ty+lineH), 2, cursorColor, true)
		}
	case len(s.text) == 0:
		drawLabel(screen, s.face, InputHint, tx, ty, inputHintColor)
	}
}
