package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// 没有加载字体时使用 ebitenutil 调试字体的近似尺寸
const (
	debugGlyphWidth = 6
	debugLineHeight = 16
)

// drawLabel 绘制一行文本，face 为 nil 时使用调试字体（忽略颜色）
func drawLabel(screen *ebiten.Image, face *text.GoTextFace, str string, x, y float64, c color.Color) {
	if face == nil {
		ebitenutil.DebugPrintAt(screen, str, int(x), int(y))
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, str, face, op)
}

// measureLabel 测量文本宽度
func measureLabel(face *text.GoTextFace, str string) float64 {
	if face == nil {
		return float64(len([]rune(str)) * debugGlyphWidth)
	}
	w, _ := text.Measure(str, face, 0)
	return w
}

// labelHeight 单行文本高度
func labelHeight(face *text.GoTextFace) float64 {
	if face == nil {
		return debugLineHeight
	}
	m := face.Metrics()
	return m.HAscent + m.HDescent
}
