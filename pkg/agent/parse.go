package agent

import (
	"log"
	"regexp"
	"strings"
)

var (
	styleTagPattern = regexp.MustCompile(`(?s)</?STYLE>.*`)
	bracketPattern  = regexp.MustCompile(`\[([^\]]+?)\]`)
)

// ExtractReply 取文本阶段输出中第一个 STYLE 标签之前的部分作为回复
//
// 文本阶段的输出格式为 "回复</STYLE>情景理解</STYLE>"。
func ExtractReply(raw string) string {
	return strings.TrimSpace(styleTagPattern.ReplaceAllString(raw, ""))
}

// ParseActions 解析动作阶段的输出 "动作：[a][b]"
//
// 只保留 known 中存在的动作名（忽略大小写和首尾空白），最多 MaxActions 个。
// 输出中完全没有方括号时返回 [fallback]；有方括号但都无效时返回空列表。
func ParseActions(raw string, known []string, fallback string) []string {
	matches := bracketPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		log.Printf("[Agent] 动作格式解析失败: %q", raw)
		return []string{fallback}
	}

	index := make(map[string]string, len(known))
	for _, name := range known {
		index[normalizeAction(name)] = name
	}

	found := make([]string, 0, MaxActions)
	for _, m := range matches {
		name, ok := index[normalizeAction(m[1])]
		if !ok {
			log.Printf("[Agent] 忽略无效动作: %s", m[1])
			continue
		}
		found = append(found, name)
		if len(found) == MaxActions {
			break
		}
	}
	return found
}

func normalizeAction(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
