package utils

import (
	"reflect"
	"testing"

	"github.com/rivo/uniseg"
)

// fixedWidth 每个字素簇宽 10 像素
func fixedWidth(s string) float64 {
	return float64(uniseg.GraphemeClusterCount(s) * 10)
}

// TestWrapText 测试文本换行功能
func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth float64
		want     []string
	}{
		{
			name:     "短文本不换行",
			input:    "short",
			maxWidth: 100,
			want:     []string{"short"},
		},
		{
			name:     "在空格处断行",
			input:    "the dragon wakes",
			maxWidth: 100,
			want:     []string{"the dragon", "wakes"},
		},
		{
			name:     "长单词强制断行",
			input:    "abcdefghijkl",
			maxWidth: 50,
			want:     []string{"abcde", "fghij", "kl"},
		},
		{
			name:     "换行符强制断行",
			input:    "one\ntwo",
			maxWidth: 100,
			want:     []string{"one", "two"},
		},
		{
			name:     "中文字符之间可断行",
			input:    "龙与卷轴的故事",
			maxWidth: 40,
			want:     []string{"龙与卷轴", "的故事"},
		},
		{
			name:     "空文本",
			input:    "",
			maxWidth: 100,
			want:     []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.input, fixedWidth, tt.maxWidth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WrapText(%q, %.0f) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

// TestWrapTextLinesFit 每一行都不超过最大宽度（单个字素超宽除外）
func TestWrapTextLinesFit(t *testing.T) {
	input := "Welcome, traveler. The scrolls you carry will feed the dragon's hoard."
	for _, width := range []float64{30, 80, 150, 400} {
		for _, line := range WrapText(input, fixedWidth, width) {
			if fixedWidth(line) > width {
				t.Errorf("width %.0f: line %q is %.0f wide", width, line, fixedWidth(line))
			}
		}
	}
}
