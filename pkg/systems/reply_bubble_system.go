package systems

import (
	"image/color"
	"math"
	"sync"

	"github.com/decker502/shadowpuppet/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 回复气泡布局参数
const (
	BubbleMaxTextRatio = 0.65 // 文本最大宽度占屏幕宽度的比例
	BubblePaddingX     = 20.0
	BubblePaddingY     = 15.0
	BubbleLineSpacing  = 6.0
	BubbleMinWidth     = 150.0
	BubbleMinHeight    = 50.0
	BubbleMarginX      = 40.0 // 气泡最大宽度 = 屏幕宽度 - BubbleMarginX
	BubbleMaxHeightDiv = 2.5  // 气泡最大高度 = 屏幕高度 / BubbleMaxHeightDiv
	BubbleTop          = 20.0

	// TranscriptSeconds 识别结果在右上角停留的秒数
	TranscriptSeconds = 4
)

var (
	bubbleFillColor   = color.RGBA{R: 245, G: 225, B: 190, A: 220}
	bubbleBorderColor = color.RGBA{R: 180, G: 80, B: 60, A: 255}
	bubbleTextColor   = color.RGBA{R: 50, G: 20, B: 10, A: 255}
	transcriptColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// BubbleLayout 回复气泡的位置、尺寸和换行结果
type BubbleLayout struct {
	X, Y          float64
	Width, Height float64
	Lines         []string
	LineHeight    float64
}

// LayoutBubble 计算回复气泡布局
//
// 文本按屏幕宽度的 65% 换行；气泡宽度限制在 [150, 屏宽-40]，
// 高度限制在 [50, 屏高/2.5]，水平居中，距顶部 20 像素。
//
// 参数：
//   - replyText: 回复文本
//   - measure: 文本宽度测量函数
//   - lineHeight: 单行高度
//   - screenW/screenH: 屏幕尺寸
func LayoutBubble(replyText string, measure func(string) float64, lineHeight float64, screenW, screenH int) BubbleLayout {
	w, h := float64(screenW), float64(screenH)
	lines := utils.WrapTextFunc(replyText, measure, w*BubbleMaxTextRatio)

	maxLine := 0.0
	for _, line := range lines {
		maxLine = math.Max(maxLine, measure(line))
	}
	textHeight := float64(len(lines))*lineHeight + math.Max(0, float64(len(lines)-1))*BubbleLineSpacing

	width := math.Min(math.Max(maxLine+2*BubblePaddingX, BubbleMinWidth), w-BubbleMarginX)
	height := math.Min(math.Max(textHeight+2*BubblePaddingY, BubbleMinHeight), h/BubbleMaxHeightDiv)

	return BubbleLayout{
		X:          math.Floor((w - width) / 2),
		Y:          BubbleTop,
		Width:      width,
		Height:     height,
		Lines:      lines,
		LineHeight: lineHeight,
	}
}

// ReplyBubbleSystem 显示数字人的文字回复和语音识别结果
//
// Show/Dismiss/Update/Draw 在主循环中调用；ShowTranscript 可以在任意协程调用
type ReplyBubbleSystem struct {
	mu sync.Mutex

	face *text.GoTextFace
	fps  int

	reply     string
	visible   bool
	fading    bool
	fadeTimer int

	transcript      string
	transcriptTimer int
}

// NewReplyBubbleSystem 创建回复气泡系统
// face 为 nil 时退回 ebitenutil 的调试字体
func NewReplyBubbleSystem(face *text.GoTextFace, fps int) *ReplyBubbleSystem {
	if fps <= 0 {
		fps = 30
	}
	return &ReplyBubbleSystem{face: face, fps: fps}
}

// FadeDuration 淡出所需的帧数（三分之一秒）
func (s *ReplyBubbleSystem) FadeDuration() int {
	if d := s.fps / 3; d > 0 {
		return d
	}
	return 1
}

// Show 显示回复，空文本不显示
func (s *ReplyBubbleSystem) Show(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if reply == "" {
		return
	}
	s.reply = reply
	s.visible = true
	s.fading = false
	s.fadeTimer = s.FadeDuration()
}

// Dismiss 开始淡出当前回复
func (s *ReplyBubbleSystem) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible {
		s.fading = true
	}
}

// ShowTranscript 在右上角显示 "识别: <text>"
func (s *ReplyBubbleSystem) ShowTranscript(transcript string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = transcript
	s.transcriptTimer = s.fps * TranscriptSeconds
}

// Reply 当前显示的回复，不可见时为空
func (s *ReplyBubbleSystem) Reply() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.visible {
		return ""
	}
	return s.reply
}

// Alpha 气泡不透明度比例 [0, 1]
func (s *ReplyBubbleSystem) Alpha() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alphaLocked()
}

func (s *ReplyBubbleSystem) alphaLocked() float64 {
	if !s.visible {
		return 0
	}
	return math.Min(1, float64(s.fadeTimer)/float64(s.FadeDuration()))
}

// Transcript 当前显示的识别文本，计时结束后为空
func (s *ReplyBubbleSystem) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transcriptTimer <= 0 {
		return ""
	}
	return s.transcript
}

// Update 推进淡出和识别文本计时
func (s *ReplyBubbleSystem) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visible && s.fading {
		s.fadeTimer--
		if s.fadeTimer <= 0 {
			s.visible = false
			s.fading = false
			s.reply = ""
		}
	}
	if s.transcriptTimer > 0 {
		s.transcriptTimer--
	}
}

// Draw 绘制回复气泡和识别文本
func (s *ReplyBubbleSystem) Draw(screen *ebiten.Image) {
	s.mu.Lock()
	reply, alpha, fading := s.reply, s.alphaLocked(), s.fading
	transcript := ""
	if s.transcriptTimer > 0 && s.transcript != "" {
		transcript = "识别: " + s.transcript
	}
	s.mu.Unlock()

	bounds := screen.Bounds()
	if alpha > 0 && reply != "" {
		layout := LayoutBubble(reply, s.measure, s.lineHeight(), bounds.Dx(), bounds.Dy())
		s.drawBox(screen, layout, alpha)
		// 淡出过程中只画背景
		if !fading {
			s.drawLines(screen, layout)
		}
	}

	if transcript != "" {
		x := float64(bounds.Dx()) - 15 - s.measure(transcript)
		s.drawText(screen, transcript, x, 15, transcriptColor)
	}
}

func (s *ReplyBubbleSystem) drawBox(screen *ebiten.Image, l BubbleLayout, alpha float64) {
	fill := bubbleFillColor
	fill.A = uint8(float64(fill.A) * alpha)
	border := bubbleBorderColor
	border.A = uint8(float64(border.A) * alpha)

	x, y, w, h := float32(l.X), float32(l.Y), float32(l.Width), float32(l.Height)
	vector.DrawFilledRect(screen, x, y, w, h, fill, true)
	vector.StrokeRect(screen, x, y, w, h, 2, border, true)
}

func (s *ReplyBubbleSystem) drawLines(screen *ebiten.Image, l BubbleLayout) {
	y := l.Y + BubblePaddingY
	for _, line := range l.Lines {
		// 气泡高度有上限，放不下的行不画
		if y+l.LineHeight > l.Y+l.Height {
			break
		}
		s.drawText(screen, line, l.X+BubblePaddingX, y, bubbleTextColor)
		y += l.LineHeight + BubbleLineSpacing
	}
}

func (s *ReplyBubbleSystem) drawText(screen *ebiten.Image, str string, x, y float64, c color.Color) {
	drawLabel(screen, s.face, str, x, y, c)
}

func (s *ReplyBubbleSystem) measure(str string) float64 {
	return measureLabel(s.face, str)
}

func (s *ReplyBubbleSystem) lineHeight() float64 {
	return labelHeight(s.face)
}
