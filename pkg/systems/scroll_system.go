package systems

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/questhud/pkg/config"
)

// ScrollSystem 页面视口滚动
//
// 实现 game.ScrollSource。滚动偏移限制在 [0, pageHeight - viewportHeight]，
// 偏移变化时通知监听者（ScrollTracker.OnScroll）。
type ScrollSystem struct {
	offset    float64
	maxOffset float64
	listeners []func()
}

// NewScrollSystem 创建滚动系统
func NewScrollSystem(pageHeight, viewportHeight float64) *ScrollSystem {
	return &ScrollSystem{maxOffset: math.Max(0, pageHeight-viewportHeight)}
}

// ScrollOffset 当前滚动偏移（文档坐标）
func (s *ScrollSystem) ScrollOffset() float64 {
	return s.offset
}

// MaxOffset 最大滚动偏移
func (s *ScrollSystem) MaxOffset() float64 {
	return s.maxOffset
}

// OnScroll 注册滚动监听
func (s *ScrollSystem) OnScroll(listener func()) {
	if listener != nil {
		s.listeners = append(s.listeners, listener)
	}
}

// ScrollTo 滚动到指定偏移，返回偏移是否变化
func (s *ScrollSystem) ScrollTo(y float64) bool {
	y = math.Max(0, math.Min(s.maxOffset, y))
	if y == s.offset {
		return false
	}
	s.offset = y
	for _, l := range s.listeners {
		l()
	}
	return true
}

// ScrollBy 相对滚动
func (s *ScrollSystem) ScrollBy(dy float64) bool {
	return s.ScrollTo(s.offset + dy)
}

// Update 处理滚轮和按键
// keys 为 false 时忽略方向键（文本框获得焦点时）
func (s *ScrollSystem) Update(deltaTime float64, keys bool) {
	_, wy := ebiten.Wheel()
	if wy != 0 {
		s.ScrollBy(-wy * config.ScrollWheelStep)
	}

	if !keys {
		return
	}
	if repeatKey(ebiten.KeyArrowDown) {
		s.ScrollBy(config.ScrollKeyStep)
	}
	if repeatKey(ebiten.KeyArrowUp) {
		s.ScrollBy(-config.ScrollKeyStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		s.ScrollBy(config.WindowHeight * 0.9)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		s.ScrollBy(-config.WindowHeight * 0.9)
	}
}

// repeatKey 第1帧立即响应，按住 30 帧后每 3 帧响应一次
func repeatKey(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%3 == 0)
}
