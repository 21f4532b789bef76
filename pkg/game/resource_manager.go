package game

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ResourceManager 字体资源管理
//
// 字体来源：
//   - path 为空：内置 Go Regular 字体
//   - 其他：从 fsys（嵌入的 data 目录或外部目录）读取 TTF/OTF
//
// 同一字体源只解析一次；同一 (path, size) 只创建一个 face。
type ResourceManager struct {
	fsys        fs.FS
	sourceCache map[string]*text.GoTextFaceSource
	faceCache   map[string]*text.GoTextFace
}

// NewResourceManager 创建资源管理器，fsys 可为 nil（只能使用内置字体）
func NewResourceManager(fsys fs.FS) *ResourceManager {
	return &ResourceManager{
		fsys:        fsys,
		sourceCache: make(map[string]*text.GoTextFaceSource),
		faceCache:   make(map[string]*text.GoTextFace),
	}
}

// LoadFont 加载字体并缓存
//
// 参数：
//   - path: 字体文件路径（相对 fsys），为空时使用内置字体
//   - size: 字号
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if face, ok := rm.faceCache[cacheKey]; ok {
		return face, nil
	}

	source, err := rm.loadSource(path)
	if err != nil {
		return nil, err
	}

	face := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.faceCache[cacheKey] = face
	return face, nil
}

// MustLoadFont 加载字体，失败时回退到内置字体
func (rm *ResourceManager) MustLoadFont(path string, size float64) *text.GoTextFace {
	face, err := rm.LoadFont(path, size)
	if err == nil {
		return face
	}
	face, err = rm.LoadFont("", size)
	if err != nil {
		panic(fmt.Sprintf("built-in font unusable: %v", err))
	}
	return face
}

func (rm *ResourceManager) loadSource(path string) (*text.GoTextFaceSource, error) {
	if source, ok := rm.sourceCache[path]; ok {
		return source, nil
	}

	var data []byte
	if path == "" {
		data = goregular.TTF
	} else {
		if rm.fsys == nil {
			return nil, fmt.Errorf("no filesystem to load font %s", path)
		}
		var err error
		data, err = fs.ReadFile(rm.fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %q: %w", path, err)
	}
	rm.sourceCache[path] = source
	return source, nil
}
