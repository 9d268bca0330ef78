package motion

import "github.com/decker502/shadowpuppet/internal/clip"

// Segment 记录拼接序列中某个源片段占据的帧范围 [Start, End)
type Segment struct {
	Path  string
	Start int
	End   int
}

// Len 返回片段帧数
func (s Segment) Len() int {
	return s.End - s.Start
}

// Sequence 拼接后的连续帧序列
type Sequence struct {
	// Frames 拼接后的帧（已修正、居中、对齐）
	Frames []clip.Frame

	// Baseline 首个片段居中后首帧的关节位置，作为蒙皮参考
	Baseline clip.Pose

	// Width/Height 最后处理的片段声明的画布尺寸
	Width  int
	Height int

	// Segments 每个源片段的帧范围，用于调试标签
	Segments []Segment
}

// Len 返回帧数
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Empty 序列是否没有任何帧
func (s *Sequence) Empty() bool {
	return s.Len() == 0
}

// BaselineRoot 返回基线根关节位置
func (s *Sequence) BaselineRoot() (clip.Joint, bool) {
	if s == nil {
		return clip.Joint{}, false
	}
	j, ok := s.Baseline[clip.RootJoint]
	return j, ok
}

// Center 返回画布中心（整数一半）
func (s *Sequence) Center() (float64, float64) {
	return float64(s.Width / 2), float64(s.Height / 2)
}

// SegmentAt 返回包含第 idx 帧的源片段，以及该帧在片段内的序号（从 0 开始）
func (s *Sequence) SegmentAt(idx int) (Segment, int, bool) {
	if s == nil {
		return Segment{}, 0, false
	}
	for _, seg := range s.Segments {
		if idx >= seg.Start && idx < seg.End {
			return seg, idx - seg.Start, true
		}
	}
	return Segment{}, 0, false
}
