package game

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// pivotObject gdata 对象名，每个骨骼一个属性
const pivotObject = "pivots"

// pivotRecord 持久化的枢轴坐标（精灵图像素）
type pivotRecord struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PivotStore 枢轴编辑结果的持久化
// 以骨骼名为属性名保存在 gdata 中；gdataManager 为 nil 时退化为仅内存保存
type PivotStore struct {
	gdataManager *gdata.Manager
	memory       map[string]mgl64.Vec2
}

// NewPivotStore 创建枢轴存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
func NewPivotStore(gdataManager *gdata.Manager) *PivotStore {
	if gdataManager == nil {
		log.Printf("[PivotStore] Warning: no persistent storage, pivot edits are kept in memory only")
	}
	return &PivotStore{
		gdataManager: gdataManager,
		memory:       make(map[string]mgl64.Vec2),
	}
}

// Persistent 是否真正持久化
func (ps *PivotStore) Persistent() bool {
	return ps.gdataManager != nil
}

// Load 读取已保存的枢轴
//
// 没有保存过的骨骼不会出现在结果中；单个骨骼读取失败记录警告后跳过。
//
// 参数：
//   - bones: 要读取的骨骼名
func (ps *PivotStore) Load(bones []string) map[string]mgl64.Vec2 {
	out := make(map[string]mgl64.Vec2)
	for _, name := range bones {
		if p, ok := ps.memory[name]; ok {
			out[name] = p
			continue
		}
		if ps.gdataManager == nil || !ps.gdataManager.ObjectPropExists(pivotObject, name) {
			continue
		}
		p, err := ps.loadOne(name)
		if err != nil {
			log.Printf("[PivotStore] Warning: %v", err)
			continue
		}
		out[name] = p
	}
	if len(out) > 0 {
		log.Printf("[PivotStore] Loaded %d saved pivots", len(out))
	}
	return out
}

func (ps *PivotStore) loadOne(name string) (mgl64.Vec2, error) {
	data, err := ps.gdataManager.LoadObjectProp(pivotObject, name)
	if err != nil {
		return mgl64.Vec2{}, fmt.Errorf("failed to load pivot %s: %w", name, err)
	}
	var rec pivotRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return mgl64.Vec2{}, fmt.Errorf("failed to unmarshal pivot %s: %w", name, err)
	}
	return mgl64.Vec2{rec.X, rec.Y}, nil
}

// Save 保存所有枢轴
//
// 降级模式下只更新内存，不报错
func (ps *PivotStore) Save(pivots map[string]mgl64.Vec2) error {
	for name, p := range pivots {
		ps.memory[name] = p
		if ps.gdataManager == nil {
			continue
		}
		data, err := yaml.Marshal(pivotRecord{X: p.X(), Y: p.Y()})
		if err != nil {
			return fmt.Errorf("failed to marshal pivot %s: %w", name, err)
		}
		if err := ps.gdataManager.SaveObjectProp(pivotObject, name, data); err != nil {
			return fmt.Errorf("failed to save pivot %s: %w", name, err)
		}
	}
	log.Printf("[PivotStore] Saved %d pivots", len(pivots))
	return nil
}
