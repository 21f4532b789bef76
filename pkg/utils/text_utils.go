package utils

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rivo/uniseg"
)

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - measure: 测量一段文本宽度（像素）
//   - maxWidth: 最大宽度（像素）
//
// 换行规则:
//   - 在 Unicode 允许的断行位置断行（空格后、中日韩字符之间）
//   - 换行符强制断行
//   - 单个片段超过最大宽度时按字素簇强制断行
func WrapText(textStr string, measure func(string) float64, maxWidth float64) []string {
	if textStr == "" || measure == nil || maxWidth <= 0 {
		return []string{textStr}
	}

	var lines []string
	current := ""
	state := -1
	rest := textStr

	for len(rest) > 0 {
		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)

		content := strings.TrimRight(segment, "\r\n")
		candidate := current + content
		if measure(strings.TrimRight(candidate, " ")) <= maxWidth {
			current = candidate
		} else {
			if strings.TrimSpace(current) != "" {
				lines = append(lines, strings.TrimRight(current, " "))
			}
			current = ""
			// 片段本身超宽：按字素簇拆开
			for _, g := range splitGraphemes(content) {
				if current != "" && g != " " && measure(current+g) > maxWidth {
					lines = append(lines, current)
					current = ""
				}
				current += g
			}
		}

		if mustBreak && len(rest) > 0 {
			lines = append(lines, strings.TrimRight(current, " "))
			current = ""
		}
	}

	if strings.TrimSpace(current) != "" || len(lines) == 0 {
		lines = append(lines, strings.TrimRight(current, " "))
	}
	return lines
}

// WrapTextFace 使用字体测量宽度的 WrapText
func WrapTextFace(textStr string, font text.Face, maxWidth float64) []string {
	return WrapText(textStr, func(s string) float64 {
		return measureTextWidth(s, font)
	}, maxWidth)
}

// measureTextWidth 测量文本宽度
func measureTextWidth(textStr string, font text.Face) float64 {
	if textStr == "" || font == nil {
		return 0
	}

	width, _ := text.Measure(textStr, font, 0)
	return width
}

func splitGraphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}
