package systems

import (
	"errors"
	"image"
	"image/color"
	"log"

	"github.com/decker502/shadowpuppet/internal/audio"
	"github.com/decker502/shadowpuppet/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// InputMode 输入模式
type InputMode int

const (
	ModeText InputMode = iota
	ModeVoice
)

// 提示文本
const (
	VoiceUnavailable = "语音识别不可用"
	VoiceNoAudio     = "未录到声音"
)

// 模式按钮布局
const (
	modeButtonGap        = 10
	modeButtonWidth      = 110
	recIndicatorOffsetX  = 150
	recIndicatorRadius   = 7
	recStatusTextOffsetX = 12
)

var (
	modeButtonColor      = color.RGBA{R: 100, G: 10, B: 10, A: 255}
	modeButtonVoiceColor = color.RGBA{R: 217, G: 164, B: 91, A: 255}
	modeButtonTextColor  = color.RGBA{R: 245, G: 245, B: 240, A: 255}
	recActiveColor       = color.RGBA{R: 0, G: 180, B: 0, A: 255}
	recIdleColor         = color.RGBA{R: 120, G: 120, B: 120, A: 255}
)

// Recorder 录音器，*audio.Recorder 实现了该接口
type Recorder interface {
	Start() error
	Stop() ([]int16, error)
	Recording() bool
}

// ModeButtonRect 模式按钮紧贴输入框右侧
func ModeButtonRect(screenW, screenH int) image.Rectangle {
	box := InputBoxRect(screenW, screenH)
	x := box.Max.X + modeButtonGap
	y := box.Min.Y + 5
	return image.Rect(x, y, x+modeButtonWidth, y+inputBoxHeight-10)
}

// VoiceInputSystem 文字/语音模式切换和录音控制
//
// 点击模式按钮切换模式；语音模式下按空格开始/停止录音。
// 停止录音（包括切回文字模式时自动停止）得到的采样由 Update 返回。
type VoiceInputSystem struct {
	face     *text.GoTextFace
	recorder Recorder // 没有可用的录音设备时为 nil
	notify   func(string)
	mode     InputMode
}

// NewVoiceInputSystem 创建语音输入系统
// notify 用于显示录音相关的提示，可为 nil
func NewVoiceInputSystem(face *text.GoTextFace, recorder Recorder, notify func(string)) *VoiceInputSystem {
	if notify == nil {
		notify = func(string) {}
	}
	return &VoiceInputSystem{face: face, recorder: recorder, notify: notify}
}

// Mode 当前输入模式
func (s *VoiceInputSystem) Mode() InputMode {
	return s.mode
}

// Recording 是否正在录音
func (s *VoiceInputSystem) Recording() bool {
	return s.recorder != nil && s.recorder.Recording()
}

// ToggleMode 切换输入模式，清除右上角的识别文本
//
// 返回：
//   - []int16, bool: 从语音模式切回时正在录音，录到的采样
func (s *VoiceInputSystem) ToggleMode() ([]int16, bool) {
	s.notify("")
	if s.mode == ModeText {
		s.mode = ModeVoice
		log.Printf("[VoiceInputSystem] 切换到 -> 语音模式")
		return nil, false
	}
	s.mode = ModeText
	log.Printf("[VoiceInputSystem] 切换到 -> 文字模式")
	if s.Recording() {
		return s.ToggleRecording()
	}
	return nil, false
}

// ToggleRecording 开始或停止录音
//
// 返回：
//   - []int16, bool: 停止录音且录到了声音时返回采样
func (s *VoiceInputSystem) ToggleRecording() ([]int16, bool) {
	if s.recorder == nil {
		log.Printf("[VoiceInputSystem] 没有可用的录音设备")
		s.notify(VoiceUnavailable)
		return nil, false
	}

	if !s.recorder.Recording() {
		if err := s.recorder.Start(); err != nil {
			log.Printf("[VoiceInputSystem] 无法启动录音: %v", err)
			s.notify(VoiceUnavailable)
		}
		return nil, false
	}

	samples, err := s.recorder.Stop()
	switch {
	case errors.Is(err, audio.ErrNoAudio):
		log.Printf("[VoiceInputSystem] 未录制到有效音频数据")
		s.notify(VoiceNoAudio)
		return nil, false
	case err != nil:
		log.Printf("[VoiceInputSystem] 停止录音失败: %v", err)
		return nil, false
	}
	return samples, true
}

// Update 处理模式按钮和空格键
func (s *VoiceInputSystem) Update(screenW, screenH int) ([]int16, bool) {
	if pressed, mx, my := utils.IsPointerJustPressed(); pressed {
		if image.Pt(mx, my).In(ModeButtonRect(screenW, screenH)) {
			return s.ToggleMode()
		}
	}
	if s.mode == ModeVoice && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		return s.ToggleRecording()
	}
	return nil, false
}

// Draw 绘制模式按钮和录音状态
func (s *VoiceInputSystem) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	r := ModeButtonRect(bounds.Dx(), bounds.Dy())

	fill := modeButtonColor
	label := "文字模式"
	if s.mode == ModeVoice {
		fill = modeButtonVoiceColor
		label = "语音模式"
	}
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), fill, true)

	lx := float64(r.Min.X) + (float64(r.Dx())-measureLabel(s.face, label))/2
	ly := float64(r.Min.Y) + (float64(r.Dy())-labelHeight(s.face))/2
	drawLabel(screen, s.face, label, lx, ly, modeButtonTextColor)

	if s.mode != ModeVoice {
		return
	}
	c, status := recIdleColor, "按 '空格' 开始录音"
	if s.Recording() {
		c, status = recActiveColor, "录音中..."
	}
	cx := float32(r.Min.X + recIndicatorOffsetX)
	cy := float32(r.Min.Y + r.Dy()/2)
	vector.DrawFilledCircle(screen, cx, cy, recIndicatorRadius, c, true)
	drawLabel(screen, s.face, status, float64(cx)+recStatusTextOffsetX, float64(cy)-10, c)
}
