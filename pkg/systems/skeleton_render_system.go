package systems

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/decker502/shadowpuppet/internal/clip"
	"github.com/decker502/shadowpuppet/pkg/motion"
	"github.com/decker502/shadowpuppet/pkg/skeleton"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试叠加层颜色
var (
	pivotMarkerColor = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	jointMarkerColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	selectedColor    = color.RGBA{R: 255, G: 215, B: 0, A: 255}
)

// DebugOptions 骨骼渲染的调试开关
type DebugOptions struct {
	// Pivots 在每个骨骼的锚点处画青色圆点和骨骼名
	Pivots bool

	// Joints 在每个关节处画红色圆点和关节名（未映射的原始坐标）
	Joints bool

	// Label 左上角显示当前片段路径和片段内帧号
	Label bool
}

// SkeletonRenderSystem 按骨骼表把精灵贴到当前帧的关节上
type SkeletonRenderSystem struct {
	table   *skeleton.BoneTable
	sprites map[string]*ebiten.Image
	canvas  skeleton.Canvas
	debug   DebugOptions

	// selected 枢轴编辑器选中的骨骼，用不同颜色标出
	selected string

	lastPlacements []skeleton.Placement
	warned         map[string]bool
}

// NewSkeletonRenderSystem 创建骨骼渲染系统
//
// 参数：
//   - table: 骨骼表，已按绘制顺序排序
//   - sprites: 骨骼名 -> 精灵图
//   - canvas: 画布尺寸和全局缩放
func NewSkeletonRenderSystem(table *skeleton.BoneTable, sprites map[string]*ebiten.Image, canvas skeleton.Canvas) *SkeletonRenderSystem {
	return &SkeletonRenderSystem{
		table:   table,
		sprites: sprites,
		canvas:  canvas,
		warned:  make(map[string]bool),
	}
}

// SetDebug 设置调试叠加层
func (s *SkeletonRenderSystem) SetDebug(opts DebugOptions) {
	s.debug = opts
}

// SetTable 替换骨骼表（枢轴编辑后调用）
func (s *SkeletonRenderSystem) SetTable(table *skeleton.BoneTable) {
	s.table = table
}

// SetSelected 标记选中的骨骼，空字符串取消
func (s *SkeletonRenderSystem) SetSelected(name string) {
	s.selected = name
}

// Canvas 返回画布设置
func (s *SkeletonRenderSystem) Canvas() skeleton.Canvas {
	return s.canvas
}

// Placements 返回最近一次 Draw 计算出的骨骼位置
func (s *SkeletonRenderSystem) Placements() []skeleton.Placement {
	return s.lastPlacements
}

// Draw 绘制一帧
//
// 参数：
//   - screen: 绘制目标
//   - joints: 当前帧关节（已含全局偏移）
//   - baseline: 蒙皮参考基线
//   - seq/index: 当前帧所属序列及序号，仅用于调试标签，可为 nil
func (s *SkeletonRenderSystem) Draw(screen *ebiten.Image, joints, baseline clip.Pose, seq *motion.Sequence, index int) {
	if s.debug.Label {
		s.drawSegmentLabel(screen, seq, index)
	}

	placements := skeleton.Layout(joints, baseline, s.table, s.canvas)
	s.lastPlacements = placements

	for _, p := range placements {
		img, ok := s.sprites[p.Bone.Name]
		if !ok || img == nil {
			if !s.warned[p.Bone.Name] {
				s.warned[p.Bone.Name] = true
				log.Printf("[SkeletonRenderSystem] 骨骼 %s 没有精灵图，跳过", p.Bone.Name)
			}
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = PlacementGeoM(p)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)

		if s.debug.Pivots || p.Bone.Name == s.selected {
			s.drawPivotMarker(screen, p)
		}
	}

	if s.debug.Joints {
		s.drawJoints(screen, joints)
	}
}

// PlacementGeoM 把一个骨骼的布局结果转换为 GeoM
// 精灵先绕自身中心旋转，再移到旋转后包围盒内，缩放后平移到包围盒左上角
func PlacementGeoM(p skeleton.Placement) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-p.Bone.Size.W/2, -p.Bone.Size.H/2)
	g.Rotate(mgl64.DegToRad(p.Angle))
	g.Translate(p.BoundW/2, p.BoundH/2)
	g.Scale(p.Scale, p.Scale)
	g.Translate(p.Position.X(), p.Position.Y())
	return g
}

func (s *SkeletonRenderSystem) drawPivotMarker(screen *ebiten.Image, p skeleton.Placement) {
	c := pivotMarkerColor
	if p.Bone.Name == s.selected {
		c = selectedColor
	}
	x, y := float32(int(p.Anchor.X())), float32(int(p.Anchor.Y()))
	vector.DrawFilledCircle(screen, x, y, 5, c, true)
	ebitenutil.DebugPrintAt(screen, p.Bone.Name, int(x)+6, int(y)-6)
}

func (s *SkeletonRenderSystem) drawJoints(screen *ebiten.Image, joints clip.Pose) {
	for name, j := range joints {
		x, y := int(j.X), int(j.Y)
		vector.DrawFilledCircle(screen, float32(x), float32(y), 4, jointMarkerColor, true)
		ebitenutil.DebugPrintAt(screen, name, x+6, y-6)
	}
}

func (s *SkeletonRenderSystem) drawSegmentLabel(screen *ebiten.Image, seq *motion.Sequence, index int) {
	label, ok := SegmentLabel(seq, index)
	if !ok {
		return
	}
	ebitenutil.DebugPrintAt(screen, label, 10, 10)
}

// SegmentLabel 返回调试标签文本，如 "JSON: actions/idle.json, Frame: 3/120"
// 帧号从 1 开始，分母为该片段的帧数
func SegmentLabel(seq *motion.Sequence, index int) (string, bool) {
	seg, local, ok := seq.SegmentAt(index)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("JSON: %s, Frame: %d/%d", filepath.ToSlash(seg.Path), local+1, seg.Len()), true
}
