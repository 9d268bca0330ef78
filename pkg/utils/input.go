// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// 按住按键时的重复节奏（帧）
const (
	keyRepeatDelay    = 30
	keyRepeatInterval = 3
)

// IsPointerJustPressed 检查是否刚刚按下指针（触摸或鼠标）
// 返回是否按下以及按下位置，触摸优先
func IsPointerJustPressed() (bool, int, int) {
	touchIDs := inpututil.AppendJustPressedTouchIDs(nil)
	if len(touchIDs) > 0 {
		x, y := ebiten.TouchPosition(touchIDs[0])
		return true, x, y
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}
	return false, 0, 0
}

// IsKeyRepeated 按键刚按下或按住足够久时返回 true
// 第1帧立即响应，之后每隔3帧响应一次
func IsKeyRepeated(key ebiten.Key) bool {
	return ShouldRepeat(inpututil.KeyPressDuration(key))
}

// ShouldRepeat 按住 d 帧时是否应触发一次
func ShouldRepeat(d int) bool {
	return d == 1 || (d >= keyRepeatDelay && d%keyRepeatInterval == 0)
}
