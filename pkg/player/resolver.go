// Package player 实现皮影人的动画播放状态机
//
// 播放器在两个状态间切换：空闲循环（idle）和一次性动作（action）。
// 动作请求由对话系统异步产生，经单槽邮箱交给每帧调用的播放器；
// 播放器维护根关节的屏幕锚点，保证动作与空闲之间衔接时人物不跳变。
package player

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

// MaxActions 一次请求最多拼接的动作数
const MaxActions = 3

// Resolver 把对话系统给出的动作名解析为片段文件路径
type Resolver struct {
	clipDir string
	table   map[string]string
	exists  func(path string) bool
}

// NewResolver 创建解析器
//
// 参数：
//   - clipDir: 片段目录，如 "actions"
//   - table: 动作名 -> 片段文件名（不含 .json 后缀）
func NewResolver(clipDir string, table map[string]string) *Resolver {
	return &Resolver{
		clipDir: clipDir,
		table:   table,
		exists:  fileExists,
	}
}

// WithExists 替换文件存在性检查（用于嵌入资源或测试）
func (r *Resolver) WithExists(exists func(path string) bool) *Resolver {
	return &Resolver{clipDir: r.clipDir, table: r.table, exists: exists}
}

// Resolve 依次解析动作名，返回最多 MaxActions 个存在的片段路径
//
// 规则：
//  1. 去掉首尾空白和引号
//  2. 以 .json 结尾：直接作为路径
//  3. 含目录：补上 .json 后缀
//  4. <clipDir>/<name>.json 存在则使用
//  5. 否则在动作表中查找映射名
//
// 无法解析或文件不存在的名字记录警告后忽略。
func (r *Resolver) Resolve(names []string) []string {
	var paths []string
	for _, raw := range names {
		if len(paths) >= MaxActions {
			log.Printf("[Resolver] 超过 %d 个动作，忽略其余动作", MaxActions)
			break
		}
		if path, ok := r.resolveOne(raw); ok {
			paths = append(paths, path)
		}
	}
	return paths
}

// Path returns the clip path of a table entry without checking it exists.
func (r *Resolver) Path(clipName string) string {
	return filepath.ToSlash(filepath.Join(r.clipDir, clipName+".json"))
}

func (r *Resolver) resolveOne(raw string) (string, bool) {
	name := strings.Trim(strings.TrimSpace(raw), `'"`)
	if name == "" {
		return "", false
	}

	var candidate string
	switch {
	case strings.EqualFold(filepath.Ext(name), ".json"):
		candidate = name
	case filepath.Dir(name) != ".":
		candidate = strings.TrimSuffix(name, filepath.Ext(name)) + ".json"
	default:
		direct := r.Path(name)
		if r.exists(direct) {
			return direct, true
		}
		mapped, ok := r.table[name]
		if !ok || mapped == "" {
			log.Printf("[Resolver] 警告: 动作 '%s' 既不是有效文件名也不是映射名", name)
			return "", false
		}
		candidate = r.Path(mapped)
	}

	if !r.exists(candidate) {
		log.Printf("[Resolver] 警告: 动作 '%s' 对应的文件不存在: %s", name, candidate)
		return "", false
	}
	return candidate, true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
