package main

import (
	"fmt"
	"io"
	"math"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/motion"
)

// Seam 两个相邻片段的拼接点
type Seam struct {
	From, To string

	// RootDelta 拼接点两侧根关节的位移，对齐成功时为 0
	RootDelta float64

	// MaxJointJump 两侧共有关节中位移最大的那个
	MaxJoint     string
	MaxJointJump float64

	// Aligned 两侧都有根关节
	Aligned bool
}

// Report 拼接序列的连续性报告
type Report struct {
	Frames        int
	Width, Height int
	Baseline      clip.Joint
	HasBaseline   bool
	Segments      []motion.Segment
	Seams         []Seam

	// MissingRoot 没有根关节的帧数
	MissingRoot int
}

// BuildReport 统计序列的片段范围和各拼接点的连续性
func BuildReport(seq *motion.Sequence) Report {
	r := Report{
		Frames:   seq.Len(),
		Width:    seq.Width,
		Height:   seq.Height,
		Segments: seq.Segments,
	}
	r.Baseline, r.HasBaseline = seq.BaselineRoot()

	for _, f := range seq.Frames {
		if _, ok := f.Root(); !ok {
			r.MissingRoot++
		}
	}

	for i := 1; i < len(seq.Segments); i++ {
		prev, next := seq.Segments[i-1], seq.Segments[i]
		if prev.Len() == 0 || next.Len() == 0 {
			continue
		}
		r.Seams = append(r.Seams, measureSeam(prev.Path, next.Path, seq.Frames[prev.End-1], seq.Frames[next.Start]))
	}
	return r
}

func measureSeam(from, to string, last, first clip.Frame) Seam {
	s := Seam{From: from, To: to}

	a, okA := last.Root()
	b, okB := first.Root()
	if okA && okB {
		s.Aligned = true
		s.RootDelta = math.Hypot(b.X-a.X, b.Y-a.Y)
	}

	for name, j := range first.Joints {
		p, ok := last.Joints[name]
		if !ok {
			continue
		}
		if d := math.Hypot(j.X-p.X, j.Y-p.Y); d > s.MaxJointJump {
			s.MaxJoint, s.MaxJointJump = name, d
		}
	}
	return s
}

// Print 以文本形式输出报告
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "帧数: %d, 画布: %dx%d\n", r.Frames, r.Width, r.Height)
	if r.HasBaseline {
		fmt.Fprintf(w, "基线 %s: (%.1f, %.1f)\n", clip.RootJoint, r.Baseline.X, r.Baseline.Y)
	} else {
		fmt.Fprintf(w, "基线: 无 %s\n", clip.RootJoint)
	}
	if r.MissingRoot > 0 {
		fmt.Fprintf(w, "⚠️  %d 帧缺少 %s\n", r.MissingRoot, clip.RootJoint)
	}

	fmt.Fprintln(w, "片段:")
	for _, seg := range r.Segments {
		fmt.Fprintf(w, "  [%4d, %4d) %4d 帧  %s\n", seg.Start, seg.End, seg.Len(), seg.Path)
	}

	if len(r.Seams) == 0 {
		return
	}
	fmt.Fprintln(w, "拼接点:")
	for _, s := range r.Seams {
		if !s.Aligned {
			fmt.Fprintf(w, "  ✗ %s -> %s: 缺少 %s，未对齐\n", s.From, s.To, clip.RootJoint)
			continue
		}
		fmt.Fprintf(w, "  ✓ %s -> %s: 根关节偏差 %.3f, 最大关节跳变 %.1f (%s)\n",
			s.From, s.To, s.RootDelta, s.MaxJointJump, s.MaxJoint)
	}
}
