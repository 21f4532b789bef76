package game

import (
	"log"
	"strconv"
	"strings"

	"github.com/decker502/questhud/pkg/utils"
)

// ControlCensus 可计数表单控件统计
type ControlCensus interface {
	// CountControls 返回当前可计数控件数量
	// 可计数：未禁用、非只读的文本类 input / select / textarea，
	// 排除 hidden/button/file/image/reset/submit 类型的 input
	CountControls() int
}

// DeltaRenderer 增减量浮字渲染
type DeltaRenderer interface {
	// ShowDelta 显示一次带符号的变化量（非 0）
	ShowDelta(delta int)
}

// HPCounter HP 计数器
//
// 显示值 = baseCount（实时统计的控件数，不持久化）
//
//	+ hiddenCount（会话内持久化的隐藏增量，永不为负）
//
// 职责：
//   - Recompute / RequestRecompute：重新统计 baseCount（后者按帧合并）
//   - AddHidden / RemoveHidden：修改 hiddenCount 并持久化，渲染增减浮字
//   - 值变化时通知监听者（HUD 数字刷新）
type HPCounter struct {
	store     SessionStore
	census    ControlCensus
	deltas    DeltaRenderer
	task      *utils.FrameTask
	listeners []func(value int)

	baseCount   int
	hiddenCount int
}

// NewHPCounter 创建 HP 计数器
//
// 参数：
//   - store: 会话存储，可为 nil（降级：hiddenCount 从 0 开始且不持久化）
//   - census: 控件统计
//   - deltas: 浮字渲染，可为 nil（降级：无动画）
//   - scheduler: 帧调度器，用于合并重新统计请求
func NewHPCounter(store SessionStore, census ControlCensus, deltas DeltaRenderer, scheduler *utils.FrameScheduler) *HPCounter {
	c := &HPCounter{
		store:  store,
		census: census,
		deltas: deltas,
	}
	c.hiddenCount = c.loadHidden()
	if scheduler != nil {
		c.task = scheduler.NewTask(c.Recompute)
	}
	return c
}

// loadHidden 读取持久化的隐藏增量，非数字或负数按 0 处理
func (c *HPCounter) loadHidden() int {
	if c.store == nil {
		return 0
	}
	raw, ok := c.store.Get(HPHiddenKey)
	if !ok {
		return 0
	}
	return parseHiddenCount(raw)
}

func parseHiddenCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("[HPCounter] Malformed %s value %q, treating as 0", HPHiddenKey, raw)
		return 0
	}
	return max(0, n)
}

// OnChange 注册显示值变化监听
func (c *HPCounter) OnChange(listener func(value int)) {
	if listener != nil {
		c.listeners = append(c.listeners, listener)
	}
}

func (c *HPCounter) notify() {
	v := c.DisplayValue()
	for _, l := range c.listeners {
		l(v)
	}
}

// Recompute 立即重新统计可计数控件
func (c *HPCounter) Recompute() {
	if c.census != nil {
		c.baseCount = c.census.CountControls()
	}
	c.notify()
}

// RequestRecompute 请求在下一帧重新统计（同帧多次请求合并）
func (c *HPCounter) RequestRecompute() {
	if c.task == nil {
		c.Recompute()
		return
	}
	c.task.Request()
}

// DisplayValue 返回显示值 baseCount + hiddenCount
func (c *HPCounter) DisplayValue() int {
	return c.baseCount + c.hiddenCount
}

// BaseCount 返回控件统计值
func (c *HPCounter) BaseCount() int {
	return c.baseCount
}

// HiddenCount 返回隐藏增量
func (c *HPCounter) HiddenCount() int {
	return c.hiddenCount
}

// AddHidden 增加隐藏增量（n < 1 按 1 处理）
func (c *HPCounter) AddHidden(n int) {
	c.setHidden(c.hiddenCount + max(1, n))
}

// RemoveHidden 减少隐藏增量（n < 1 按 1 处理），结果不低于 0
func (c *HPCounter) RemoveHidden(n int) {
	c.setHidden(max(0, c.hiddenCount-max(1, n)))
}

func (c *HPCounter) setHidden(next int) {
	old := c.hiddenCount
	c.hiddenCount = next

	if c.store != nil {
		if err := c.store.Set(HPHiddenKey, strconv.Itoa(next)); err != nil {
			log.Printf("[HPCounter] Warning: %v", err)
		}
	}

	c.notify()

	// 显示钳制后的实际变化量；未变化时不显示
	if delta := next - old; delta != 0 && c.deltas != nil {
		c.deltas.ShowDelta(delta)
	}
}

// FormatDelta 格式化增减量："+3" / "−2"（使用数学减号 U+2212）
func FormatDelta(delta int) string {
	if delta >= 0 {
		return "+" + strconv.Itoa(delta)
	}
	return "−" + strconv.Itoa(-delta)
}
