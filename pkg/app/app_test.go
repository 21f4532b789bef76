package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/embedded"
)

const defaultStoryFile = "../../data/story.yaml"

// TestDefaultStoryValid 默认故事配置能通过场景钩子校验
func TestDefaultStoryValid(t *testing.T) {
	a := &App{cfg: Config{AppConfig: config.AppConfig{StoryPath: defaultStoryFile}}}
	story, err := a.loadStory()
	if err != nil {
		t.Fatalf("loadStory: %v", err)
	}
	if len(story.Sections) < 2 {
		t.Errorf("sections = %d", len(story.Sections))
	}
	if story.Sections[0].ID != "sec-the-gate" {
		t.Errorf("first section id = %q", story.Sections[0].ID)
	}
}

func TestLoadStorySources(t *testing.T) {
	data, err := os.ReadFile(defaultStoryFile)
	if err != nil {
		t.Fatal(err)
	}
	embedded.Init(fstest.MapFS{EmbeddedStoryPath: {Data: data}})
	defer embedded.Init(nil)

	badPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(badPath, []byte("sections:\n  - title: X\n    script:\n      - text: hi\n        hook: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		storyPath string
		wantErr   error
	}{
		{name: "嵌入的默认故事", storyPath: ""},
		{name: "外部文件", storyPath: defaultStoryFile},
		{name: "未知钩子", storyPath: badPath, wantErr: config.ErrInvalidStory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &App{cfg: Config{AppConfig: config.AppConfig{StoryPath: tt.storyPath}}}
			_, err := a.loadStory()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("loadStory: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
