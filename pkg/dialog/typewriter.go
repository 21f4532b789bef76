package dialog

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// Typewriter 逐字显示效果
//
// 按字素簇（grapheme cluster）推进，组合字符和 emoji 不会被拆开。
// Reveal 立即显示第一个字素，之后每 interval 推进 step 个字素；
// 快进模式下 step 为 fastStep。
//
// 由 Update(dt) 驱动，只在主循环中使用。
type Typewriter struct {
	interval time.Duration
	step     int
	fastStep int

	graphemes []string
	cursor    int
	elapsed   time.Duration
	active    bool
	fast      bool

	onTick     func(visible string)
	onComplete func()
}

// NewTypewriter 创建打字机
//
// 参数：
//   - interval: 两次推进之间的间隔（<= 0 时使用 22ms）
//   - fastStep: 快进模式每次推进的字素数（< 1 时按 1 处理）
func NewTypewriter(interval time.Duration, fastStep int) *Typewriter {
	if interval <= 0 {
		interval = 22 * time.Millisecond
	}
	return &Typewriter{
		interval: interval,
		step:     1,
		fastStep: max(1, fastStep),
	}
}

// SplitGraphemes 把文本拆分为字素簇
func SplitGraphemes(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Reveal 开始逐字显示 text，取消上一次未完成的显示（不回调 onComplete）
//
// 第一个字素立即显示；空文本立即完成。
// onTick 在每次可见文本变化时调用，onComplete 在自然显示完毕时调用一次。
func (t *Typewriter) Reveal(text string, onTick func(visible string), onComplete func()) {
	t.graphemes = SplitGraphemes(text)
	t.cursor = 0
	t.elapsed = 0
	t.active = true
	t.onTick = onTick
	t.onComplete = onComplete
	t.tick()
}

// SetFast 设置快进模式
func (t *Typewriter) SetFast(fast bool) {
	t.fast = fast
}

// Fast 是否处于快进模式
func (t *Typewriter) Fast() bool {
	return t.fast
}

// Update 推进时间
func (t *Typewriter) Update(dt time.Duration) {
	if !t.active {
		return
	}
	t.elapsed += dt
	for t.active && t.elapsed >= t.interval {
		t.elapsed -= t.interval
		t.tick()
	}
}

func (t *Typewriter) tick() {
	step := t.step
	if t.fast {
		step = t.fastStep
	}
	t.cursor = min(len(t.graphemes), t.cursor+step)

	if t.onTick != nil {
		t.onTick(t.Visible())
	}

	if t.cursor >= len(t.graphemes) {
		t.active = false
		done := t.onComplete
		t.onComplete = nil
		if done != nil {
			done()
		}
	}
}

// Finish 立即显示全部文本并停止（不回调 onComplete）
func (t *Typewriter) Finish() {
	if len(t.graphemes) == 0 && !t.active {
		return
	}
	t.cursor = len(t.graphemes)
	t.active = false
	t.onComplete = nil
	if t.onTick != nil {
		t.onTick(t.Visible())
	}
}

// Stop 停止显示，保持当前可见文本（不回调任何函数）
func (t *Typewriter) Stop() {
	t.active = false
	t.onTick = nil
	t.onComplete = nil
}

// Active 是否正在显示
func (t *Typewriter) Active() bool {
	return t.active
}

// Visible 返回当前可见文本
func (t *Typewriter) Visible() string {
	return strings.Join(t.graphemes[:t.cursor], "")
}

// Full 返回完整文本
func (t *Typewriter) Full() string {
	return strings.Join(t.graphemes, "")
}
