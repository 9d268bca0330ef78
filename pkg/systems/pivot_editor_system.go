package systems

import (
	"log"
	"math"

	"github.com/decker502/shadowpuppet/pkg/skeleton"
	"github.com/decker502/shadowpuppet/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PickRadius 鼠标点击与锚点的最大距离（每个轴）
const PickRadius = 10.0

// PivotSaver 保存枢轴，*game.PivotStore 实现了该接口
type PivotSaver interface {
	Save(pivots map[string]mgl64.Vec2) error
}

// PivotEditorSystem 枢轴编辑器
//
// 按 1 进入/退出编辑模式；点击锚点附近选中骨骼，方向键移动枢轴（Shift 每次 10 像素），
// S 保存。空格暂停播放，暂停且没有选中骨骼时左右方向键逐帧步进。
type PivotEditorSystem struct {
	table *skeleton.BoneTable
	store PivotSaver

	pivots   map[string]mgl64.Vec2
	active   bool
	selected string
	paused   bool
	dirty    bool
}

// NewPivotEditorSystem 创建枢轴编辑器
// store 可为 nil，此时 Save 只记录日志
func NewPivotEditorSystem(table *skeleton.BoneTable, store PivotSaver) *PivotEditorSystem {
	return &PivotEditorSystem{
		table:  table,
		store:  store,
		pivots: table.Pivots(),
	}
}

// Active 是否处于编辑模式
func (s *PivotEditorSystem) Active() bool {
	return s.active
}

// Toggle 进入或退出编辑模式，退出时取消选中
func (s *PivotEditorSystem) Toggle() {
	s.active = !s.active
	if !s.active {
		s.selected = ""
		log.Printf("[PivotEditor] 退出 Pivot 编辑模式")
		return
	}
	log.Printf("[PivotEditor] 进入 Pivot 编辑模式 (使用方向键调整)")
}

// Selected 选中的骨骼名
func (s *PivotEditorSystem) Selected() string {
	return s.selected
}

// Paused 播放是否暂停
func (s *PivotEditorSystem) Paused() bool {
	return s.paused
}

// TogglePause 暂停或继续播放
func (s *PivotEditorSystem) TogglePause() {
	s.paused = !s.paused
}

// SelectAt 选中锚点离 (x, y) 最近的骨骼（两个轴的距离都小于 PickRadius）
//
// 参数：
//   - placements: 最近一帧的骨骼布局
//
// 返回：
//   - bool: 是否选中
func (s *PivotEditorSystem) SelectAt(x, y float64, placements []skeleton.Placement) bool {
	if !s.active {
		return false
	}
	best, bestDist := "", math.Inf(1)
	for _, p := range placements {
		dx, dy := math.Abs(p.Anchor.X()-x), math.Abs(p.Anchor.Y()-y)
		if dx >= PickRadius || dy >= PickRadius {
			continue
		}
		if d := dx*dx + dy*dy; d < bestDist {
			best, bestDist = p.Bone.Name, d
		}
	}
	if best == "" {
		return false
	}
	s.selected = best
	log.Printf("[PivotEditor] 选中部件: %s", best)
	return true
}

// Nudge 移动选中骨骼的枢轴
func (s *PivotEditorSystem) Nudge(dx, dy float64) bool {
	if !s.active || s.selected == "" {
		return false
	}
	p, ok := s.pivots[s.selected]
	if !ok {
		return false
	}
	s.pivots[s.selected] = p.Add(mgl64.Vec2{dx, dy})
	s.dirty = true
	return true
}

// Pivot 返回骨骼当前的枢轴
func (s *PivotEditorSystem) Pivot(name string) (mgl64.Vec2, bool) {
	p, ok := s.pivots[name]
	return p, ok
}

// Table 返回应用了编辑结果的骨骼表
func (s *PivotEditorSystem) Table() *skeleton.BoneTable {
	if s.dirty {
		s.table = s.table.WithPivots(s.pivots)
		s.dirty = false
	}
	return s.table
}

// Save 保存所有骨骼的枢轴
func (s *PivotEditorSystem) Save() error {
	if s.store == nil {
		log.Printf("[PivotEditor] 没有可用的存储，未保存")
		return nil
	}
	out := make(map[string]mgl64.Vec2, len(s.pivots))
	for name, p := range s.pivots {
		out[name] = p
	}
	if err := s.store.Save(out); err != nil {
		return err
	}
	log.Printf("[PivotEditor] 已保存 %d 个 pivot", len(out))
	return nil
}

// Update 处理本帧按键和鼠标
//
// 返回：
//   - int: 暂停时请求的帧步进（-1、0 或 1）
func (s *PivotEditorSystem) Update(placements []skeleton.Placement) int {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		s.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		s.TogglePause()
	}
	if s.active && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := s.Save(); err != nil {
			log.Printf("[PivotEditor] 保存失败: %v", err)
		}
	}
	if pressed, mx, my := utils.IsPointerJustPressed(); pressed && s.active {
		s.SelectAt(float64(mx), float64(my), placements)
	}

	dx, dy := arrowDelta()
	if dx == 0 && dy == 0 {
		return 0
	}
	if s.active && s.selected != "" {
		step := 1.0
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			step = 10
		}
		s.Nudge(float64(dx)*step, float64(dy)*step)
		return 0
	}
	if s.paused {
		return dx
	}
	return 0
}

// arrowDelta 本帧刚按下的方向键
func arrowDelta() (dx, dy int) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		dx = -1
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		dx = 1
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		dy = -1
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		dy = 1
	}
	return dx, dy
}
