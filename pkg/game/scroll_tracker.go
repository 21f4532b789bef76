package game

import (
	"log"
	"math"

	"github.com/decker502/questhud/pkg/utils"
)

// ScrollSource 视口滚动源
type ScrollSource interface {
	// ScrollOffset 返回当前滚动偏移（文档坐标，像素）
	ScrollOffset() float64
}

// SectionAnchor 章节锚点：ID + 文档坐标中的顶部偏移
type SectionAnchor struct {
	ID  string
	Top float64
}

// SectionChangeListener 当前章节变化回调
type SectionChangeListener func(sectionID string)

// ScrollTracker 章节位置追踪器
//
// 职责：
//   - 把连续的滚动偏移映射为离散的"当前章节"
//   - 滚动事件按帧合并：一帧内多次滚动只重新计算一次
//   - 当前章节变化时通知监听者（每次变化恰好一次）
//
// 选择规则：
//
//	|章节顶部偏移 - 滚动偏移| 最小的章节；距离相同时取文档顺序靠前的章节
type ScrollTracker struct {
	source    ScrollSource
	sections  []SectionAnchor
	current   string
	listeners []SectionChangeListener
	task      *utils.FrameTask
}

// NewScrollTracker 创建追踪器
//
// 参数：
//   - source: 滚动源
//   - sections: 章节锚点（文档顺序），启动时确定，之后不变
//   - scheduler: 帧调度器，用于合并滚动事件
//
// 初始当前章节：第二个章节（第一个通常是全屏的入口遮罩），
// 只有一个章节时取第一个，没有章节时为空
func NewScrollTracker(source ScrollSource, sections []SectionAnchor, scheduler *utils.FrameScheduler) *ScrollTracker {
	t := &ScrollTracker{
		source:   source,
		sections: append([]SectionAnchor(nil), sections...),
	}

	switch {
	case len(t.sections) >= 2:
		t.current = t.sections[1].ID
	case len(t.sections) == 1:
		t.current = t.sections[0].ID
	}

	if scheduler != nil {
		t.task = scheduler.NewTask(t.Recompute)
	}
	return t
}

// CurrentSection 返回当前章节 ID
func (t *ScrollTracker) CurrentSection() string {
	return t.current
}

// Sections 返回章节锚点副本
func (t *ScrollTracker) Sections() []SectionAnchor {
	return append([]SectionAnchor(nil), t.sections...)
}

// OnChange 注册章节变化监听
func (t *ScrollTracker) OnChange(listener SectionChangeListener) {
	if listener != nil {
		t.listeners = append(t.listeners, listener)
	}
}

// OnScroll 处理滚动事件：推迟到下一帧重新计算
func (t *ScrollTracker) OnScroll() {
	if t.task == nil {
		t.Recompute()
		return
	}
	t.task.Request()
}

// Recompute 立即重新计算当前章节，变化时通知监听者
func (t *ScrollTracker) Recompute() {
	if len(t.sections) == 0 || t.source == nil {
		return
	}

	best := NearestSection(t.sections, t.source.ScrollOffset())
	if best == "" || best == t.current {
		return
	}

	prev := t.current
	t.current = best
	log.Printf("[ScrollTracker] Section changed: %s → %s", prev, best)

	for _, l := range t.listeners {
		l(best)
	}
}

// NearestSection 返回顶部偏移最接近 offset 的章节 ID
// 距离相同时取先出现的章节；没有章节时返回空字符串
func NearestSection(sections []SectionAnchor, offset float64) string {
	best := ""
	bestDist := math.Inf(1)
	for _, s := range sections {
		d := math.Abs(s.Top - offset)
		if d < bestDist {
			bestDist = d
			best = s.ID
		}
	}
	return best
}
