package config

import (
	"fmt"
	"os"

	"github.com/decker502/shadowpuppet/pkg/embedded"
	"github.com/decker502/shadowpuppet/pkg/skeleton"
	"gopkg.in/yaml.v3"
)

// 嵌入的默认表
const (
	DefaultSkeletonTablePath = "data/skeleton.yaml"
	DefaultActionTablePath   = "data/actions.yaml"
)

// SkeletonTable 骨骼表文件的顶层结构
type SkeletonTable struct {
	Bones []skeleton.BoneDef `yaml:"bones"`
}

// ActionEntry 动作表中的一项
type ActionEntry struct {
	// Name 对话系统使用的动作名，如 "拱手礼"
	Name string `yaml:"name"`
	// Clip 片段文件名（不含 .json 后缀）
	Clip string `yaml:"clip"`
}

// ActionTable 动作表文件的顶层结构
type ActionTable struct {
	// IdleAction 空闲循环使用的动作名，为空时依次尝试 "空闲"、"常态"
	IdleAction string `yaml:"idle_action"`

	// DefaultAction 对话系统没有给出可解析动作时使用
	DefaultAction string `yaml:"default_action"`

	ClipDir string        `yaml:"clip_dir"`
	Actions []ActionEntry `yaml:"actions"`
}

// readTable 读取表文件：path 为空时读取嵌入的默认表，否则从磁盘读取
func readTable(path, fallback string) ([]byte, string, error) {
	if path == "" {
		data, err := embedded.ReadFile(fallback)
		if err != nil {
			return nil, fallback, fmt.Errorf("无法读取配置文件 %s: %w", fallback, err)
		}
		return data, fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}
	return data, path, nil
}

// LoadSkeletonTable 加载并校验骨骼表
func LoadSkeletonTable(path string) (*SkeletonTable, error) {
	data, name, err := readTable(path, DefaultSkeletonTablePath)
	if err != nil {
		return nil, err
	}
	return ParseSkeletonTable(name, data)
}

// ParseSkeletonTable 解析骨骼表
func ParseSkeletonTable(name string, data []byte) (*SkeletonTable, error) {
	var table SkeletonTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", name, err)
	}
	if len(table.Bones) == 0 {
		return nil, fmt.Errorf("骨骼表 %s 没有定义任何骨骼", name)
	}
	for i, b := range table.Bones {
		if b.Sprite == "" {
			return nil, fmt.Errorf("骨骼表 %s: bone #%d (%s) is missing 'sprite'", name, i, b.Name)
		}
	}
	if err := skeleton.ValidateBoneDefs(table.Bones); err != nil {
		return nil, fmt.Errorf("骨骼表 %s: %w", name, err)
	}
	return &table, nil
}

// LoadActionTable 加载并校验动作表
func LoadActionTable(path string) (*ActionTable, error) {
	data, name, err := readTable(path, DefaultActionTablePath)
	if err != nil {
		return nil, err
	}
	return ParseActionTable(name, data)
}

// ParseActionTable 解析动作表
func ParseActionTable(name string, data []byte) (*ActionTable, error) {
	var table ActionTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("无法解析配置文件 %s: %w", name, err)
	}
	if table.ClipDir == "" {
		table.ClipDir = "actions"
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("动作表 %s: %w", name, err)
	}
	return &table, nil
}

// Validate 校验动作表，并补全空闲动作
func (t *ActionTable) Validate() error {
	seen := make(map[string]bool, len(t.Actions))
	for i, a := range t.Actions {
		if a.Name == "" {
			return fmt.Errorf("action #%d is missing 'name'", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate action '%s'", a.Name)
		}
		seen[a.Name] = true
	}

	if t.IdleAction == "" {
		for _, candidate := range []string{"空闲", "常态"} {
			if t.Clip(candidate) != "" {
				t.IdleAction = candidate
				break
			}
		}
	}
	if t.IdleAction == "" || t.Clip(t.IdleAction) == "" {
		return fmt.Errorf("未定义有效的 '空闲' 或 '常态' 动作")
	}
	if t.DefaultAction != "" && t.Clip(t.DefaultAction) == "" {
		return fmt.Errorf("default_action '%s' is not a defined action", t.DefaultAction)
	}
	return nil
}

// Clip 返回动作名对应的片段文件名，未定义时返回空字符串
func (t *ActionTable) Clip(name string) string {
	for _, a := range t.Actions {
		if a.Name == name {
			return a.Clip
		}
	}
	return ""
}

// Map 返回 动作名 -> 片段文件名，忽略没有片段的动作
func (t *ActionTable) Map() map[string]string {
	m := make(map[string]string, len(t.Actions))
	for _, a := range t.Actions {
		if a.Clip != "" {
			m[a.Name] = a.Clip
		}
	}
	return m
}

// DialogueActions 对话系统可以选择的动作名（按表中顺序，不含空闲动作）
func (t *ActionTable) DialogueActions() []string {
	names := make([]string, 0, len(t.Actions))
	for _, a := range t.Actions {
		if a.Clip == "" || a.Name == t.IdleAction {
			continue
		}
		names = append(names, a.Name)
	}
	return names
}

// FallbackAction 对话失败时使用的动作名
func (t *ActionTable) FallbackAction() string {
	if t.DefaultAction != "" {
		return t.DefaultAction
	}
	return t.IdleAction
}
