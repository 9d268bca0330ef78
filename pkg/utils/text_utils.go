package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
func WrapText(textStr string, font *text.GoTextFace, maxWidth float64) []string {
	if font == nil {
		return []string{textStr}
	}
	return WrapTextFunc(textStr, func(s string) float64 {
		return measureTextWidth(s, font)
	}, maxWidth)
}

// WrapTextFunc 使用给定的测量函数换行
//
// 换行规则:
//   - 按字符累加，超宽时断行（中文没有空格，逐字断行）
//   - 单个字符就超宽时强制独占一行
//   - 显式的换行符总是断行
func WrapTextFunc(textStr string, measure func(string) float64, maxWidth float64) []string {
	if textStr == "" || measure == nil || maxWidth <= 0 {
		return []string{textStr}
	}

	var lines []string
	for _, paragraph := range strings.Split(textStr, "\n") {
		lines = append(lines, wrapParagraph(paragraph, measure, maxWidth)...)
	}
	return lines
}

func wrapParagraph(textStr string, measure func(string) float64, maxWidth float64) []string {
	// 如果文本宽度小于最大宽度，直接返回
	if measure(textStr) <= maxWidth {
		return []string{textStr}
	}

	var lines []string
	currentLine := ""

	for len(textStr) > 0 {
		r, size := utf8.DecodeRuneInString(textStr)
		char := string(r)
		textStr = textStr[size:]

		testLine := currentLine + char
		if measure(testLine) <= maxWidth {
			currentLine = testLine
			continue
		}

		if currentLine == "" {
			lines = append(lines, char)
			continue
		}
		lines = append(lines, strings.TrimSpace(currentLine))
		currentLine = char
	}

	if currentLine != "" {
		lines = append(lines, strings.TrimSpace(currentLine))
	}
	return lines
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font *text.GoTextFace) float64 {
	if textStr == "" || font == nil {
		return 0
	}
	width, _ := text.Measure(textStr, font, 0)
	return width
}
