package motion

import "github.com/decker502/shadowpuppet/internal/clip"

// Translate 将所有帧的所有关节整体平移 (dx, dy)
func Translate(frames []clip.Frame, dx, dy float64) {
	for i := range frames {
		joints := frames[i].Joints
		for name, j := range joints {
			j.X += dx
			j.Y += dy
			joints[name] = j
		}
	}
}

// CenterOffset 计算把首帧根关节移到画布中心所需的位移
//
// 画布中心取整数一半 (width/2, height/2)。
// 首帧缺少根关节时 ok 为 false。
func CenterOffset(frames []clip.Frame, width, height int) (dx, dy float64, ok bool) {
	if len(frames) == 0 {
		return 0, 0, false
	}
	root, ok := frames[0].Root()
	if !ok {
		return 0, 0, false
	}
	return float64(width/2) - root.X, float64(height/2) - root.Y, true
}

// CenterOnCanvas 将片段平移到画布中心
//
// 居中只取决于首帧根关节与画布尺寸，对已居中的片段再次调用位移为 0。
//
// 返回：
//   - ok: 首帧缺少根关节时为 false，此时不做任何修改
func CenterOnCanvas(frames []clip.Frame, width, height int) bool {
	dx, dy, ok := CenterOffset(frames, width, height)
	if !ok {
		return false
	}
	Translate(frames, dx, dy)
	return true
}

// AlignOffset 计算拼接位移：上一段末帧根关节 - 本段首帧根关节
func AlignOffset(prevLast clip.Frame, next []clip.Frame) (dx, dy float64, ok bool) {
	if len(next) == 0 {
		return 0, 0, false
	}
	last, okLast := prevLast.Root()
	first, okFirst := next[0].Root()
	if !okLast || !okFirst {
		return 0, 0, false
	}
	return last.X - first.X, last.Y - first.Y, true
}

// AlignTo 平移 next 使其首帧根关节与 prevLast 的根关节重合
//
// 所有关节共享同一刚性平移，肢体比例保持采集原样。
// 任一端缺少根关节时返回 false，next 不被修改。
func AlignTo(prevLast clip.Frame, next []clip.Frame) bool {
	dx, dy, ok := AlignOffset(prevLast, next)
	if !ok {
		return false
	}
	Translate(next, dx, dy)
	return true
}
