package game

import (
	"testing"
	"testing/fstest"
)

func TestResourceManagerLoadFont(t *testing.T) {
	rm := NewResourceManager(fstest.MapFS{
		"fonts/broken.ttf": &fstest.MapFile{Data: []byte("not a font")},
	})

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "内置字体", path: "", wantErr: false},
		{name: "文件不存在", path: "fonts/missing.ttf", wantErr: true},
		{name: "文件损坏", path: "fonts/broken.ttf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face, err := rm.LoadFont(tt.path, 18)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFont(%q) err = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if !tt.wantErr && face.Size != 18 {
				t.Errorf("face size = %v", face.Size)
			}
		})
	}
}

// TestResourceManagerCachesFaces 同一 (path, size) 返回同一 face
func TestResourceManagerCachesFaces(t *testing.T) {
	rm := NewResourceManager(nil)
	a, err := rm.LoadFont("", 20)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := rm.LoadFont("", 20)
	c, _ := rm.LoadFont("", 14)
	if a != b {
		t.Error("same size should hit the cache")
	}
	if a == c || a.Source != c.Source {
		t.Error("different sizes should share the source but not the face")
	}
	if f := rm.MustLoadFont("fonts/missing.ttf", 12); f == nil || f.Size != 12 {
		t.Error("MustLoadFont should fall back to the built-in font")
	}
}
