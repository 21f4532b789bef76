package main

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/decker502/questhud/pkg/scenes"
)

func TestLintFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name       string
		path       string
		hooks      []string
		wantOK     bool
		wantErrors int
	}{
		{
			name:   "默认故事",
			path:   "../../data/story.yaml",
			hooks:  scenes.KnownHooks,
			wantOK: true,
		},
		{
			name: "多个问题一次列出",
			path: write("bad.yaml", `
speakers:
  - glyph: "🧚"
    gender: fairy
sections:
  - title: A
    script:
      - speaker: "👻"
        text: boo
        hook: nope
`),
			hooks:      scenes.KnownHooks,
			wantErrors: 3,
		},
		{
			name: "不校验钩子",
			path: write("hooks.yaml", `
sections:
  - title: A
    script:
      - text: hi
        hook: custom
`),
			wantOK: true,
		},
		{
			name:       "文件不存在",
			path:       filepath.Join(dir, "missing.yaml"),
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			ok := lintFile(zap.New(core), tt.path, tt.hooks)
			if ok != tt.wantOK {
				t.Fatalf("lintFile = %v, want %v", ok, tt.wantOK)
			}
			if got := logs.FilterLevelExact(zapcore.ErrorLevel).Len(); got != tt.wantErrors {
				t.Errorf("error entries = %d, want %d", got, tt.wantErrors)
			}
		})
	}
}
