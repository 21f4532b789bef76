package embedded

import (
	"errors"
	"testing"
	"testing/fstest"
)

func TestNotInitialized(t *testing.T) {
	Init(nil)

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false")
	}
	if _, err := ReadFile("data/story.yaml"); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ReadFile err = %v", err)
	}
	if Exists("data/story.yaml") {
		t.Error("Exists should be false before Init()")
	}
}

func TestReadFile(t *testing.T) {
	Init(fstest.MapFS{
		"data/story.yaml": {Data: []byte("title: x\n")},
	})
	defer Init(nil)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{name: "正常路径", path: "data/story.yaml", want: "title: x\n"},
		{name: "./ 前缀", path: "./data/story.yaml", want: "title: x\n"},
		{name: "未知前缀", path: "assets/story.yaml", wantErr: true},
		{name: "不存在", path: "data/missing.yaml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if string(data) != tt.want {
				t.Errorf("data = %q", data)
			}
		})
	}

	if !Exists("data/story.yaml") || Exists("data/missing.yaml") {
		t.Error("Exists mismatch")
	}
}
