package utils

// FrameScheduler 帧合并调度器
//
// 作用:
//
//	把"下一帧再执行"的请求合并：同一任务在一帧内无论被请求多少次，
//	下一帧只执行一次；没有请求的帧不执行任何工作。
//
// 使用场景:
//  1. ScrollTracker 把高频滚动事件合并为每帧最多一次重新计算
//  2. HPCounter 把 DOM 变更/输入事件合并为每帧最多一次重新统计
//
// 注意事项:
//   - 单线程使用：只能在游戏主循环（Update）中调用
//   - RunFrame 执行期间新提交的请求会推迟到下一帧
type FrameScheduler struct {
	pending []*FrameTask
}

// FrameTask 可合并的帧任务
type FrameTask struct {
	scheduler *FrameScheduler
	fn        func()
	queued    bool
}

// NewFrameScheduler 创建帧调度器
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// NewTask 注册一个可合并任务
//
// 参数：
//   - fn: 下一帧要执行的函数
//
// 返回：
//   - *FrameTask: 任务句柄，通过 Request() 请求执行
func (s *FrameScheduler) NewTask(fn func()) *FrameTask {
	return &FrameTask{scheduler: s, fn: fn}
}

// Request 请求在下一帧执行任务（已排队时忽略）
func (t *FrameTask) Request() {
	if t == nil || t.queued || t.scheduler == nil {
		return
	}
	t.queued = true
	t.scheduler.pending = append(t.scheduler.pending, t)
}

// Pending 返回任务是否已排队等待下一帧
func (t *FrameTask) Pending() bool {
	return t != nil && t.queued
}

// RunFrame 执行本帧所有已排队任务
// 每个 Update tick 调用一次，相当于浏览器的 requestAnimationFrame 回调点
func (s *FrameScheduler) RunFrame() int {
	if len(s.pending) == 0 {
		return 0
	}

	batch := s.pending
	s.pending = nil

	for _, t := range batch {
		t.queued = false
		if t.fn != nil {
			t.fn()
		}
	}
	return len(batch)
}
