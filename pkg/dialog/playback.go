package dialog

// State 播放状态
type State int

const (
	// StateIdle 没有脚本在播放
	StateIdle State = iota
	// StateLineActive 当前行正在打字和/或朗读
	StateLineActive
	// StateLineSettled 打字和朗读都已结束，再次推进会进入下一行
	StateLineSettled
	// StateClosed 脚本播放完毕或被强制关闭
	StateClosed
)

// String 返回 State 的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLineActive:
		return "LineActive"
	case StateLineSettled:
		return "LineSettled"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// EventKind 状态机输入事件
type EventKind int

const (
	// EventStart 开始播放（ScriptLen 为脚本行数）
	EventStart EventKind = iota
	// EventAdvance 用户推进（点击 / Enter / → / 空格按下）
	EventAdvance
	// EventRevealDone 打字自然结束
	EventRevealDone
	// EventSpeechDone 朗读结束（自然结束或出错，两者等价）
	EventSpeechDone
	// EventSpeechUnavailable 没有语音能力，本行只做文字显示
	EventSpeechUnavailable
	// EventFastOn 按下快进键
	EventFastOn
	// EventFastOff 松开快进键
	EventFastOff
	// EventClose 强制关闭
	EventClose
)

// Event 状态机事件
type Event struct {
	Kind      EventKind
	ScriptLen int // 仅 EventStart 使用
}

// Effect 状态转换产生的副作用，由 Sequencer 执行
type Effect int

const (
	// EffectOpen 显示对话框
	EffectOpen Effect = iota
	// EffectActivateLine 激活 LineIndex 行：先执行钩子，再开始打字和朗读
	EffectActivateLine
	// EffectCompleteReveal 立即显示整行文本
	EffectCompleteReveal
	// EffectCancelSpeech 停止当前朗读
	EffectCancelSpeech
	// EffectTeardown 停止打字和朗读并隐藏对话框
	EffectTeardown
)

// Playback 播放状态快照（值类型，Transition 不修改输入）
type Playback struct {
	State     State
	ScriptLen int
	LineIndex int // 开始前为 -1，播完时等于 ScriptLen
	Typing    bool
	Speaking  bool
	Fast      bool
	SkipArmed bool // 本行朗读已结束（或被跳过），再推进即进入下一行
}

// NewPlayback 返回空闲状态
func NewPlayback() Playback {
	return Playback{State: StateIdle, LineIndex: -1}
}

// Active 是否有脚本正在播放
func (p Playback) Active() bool {
	return p.State == StateLineActive || p.State == StateLineSettled
}

// Transition 状态转换函数：给定当前状态和事件，返回新状态和需要执行的副作用
// 纯函数，不访问任何外部状态
func Transition(p Playback, ev Event) (Playback, []Effect) {
	switch ev.Kind {
	case EventStart:
		if ev.ScriptLen <= 0 {
			return p, nil
		}
		next := Playback{ScriptLen: ev.ScriptLen, LineIndex: -1, Fast: p.Fast}
		next, effects := advanceLine(next)
		return next, append([]Effect{EffectOpen}, effects...)

	case EventAdvance:
		if !p.Active() {
			return p, nil
		}
		switch {
		case p.Typing:
			// 跳过打字效果：显示整行、停止朗读，停留在本行
			p.Typing = false
			p.Speaking = false
			p.SkipArmed = true
			return settle(p), []Effect{EffectCompleteReveal, EffectCancelSpeech}
		case p.Speaking:
			p.Speaking = false
			p.SkipArmed = true
			return settle(p), []Effect{EffectCancelSpeech}
		default:
			return advanceLine(p)
		}

	case EventRevealDone:
		if !p.Active() || !p.Typing {
			return p, nil
		}
		p.Typing = false
		return settle(p), nil

	case EventSpeechDone:
		if !p.Active() || !p.Speaking {
			return p, nil
		}
		p.Speaking = false
		p.SkipArmed = true
		return settle(p), nil

	case EventSpeechUnavailable:
		if !p.Active() || !p.Speaking {
			return p, nil
		}
		p.Speaking = false
		return settle(p), nil

	case EventFastOn:
		p.Fast = true
		return p, nil

	case EventFastOff:
		p.Fast = false
		return p, nil

	case EventClose:
		if !p.Active() {
			return p, nil
		}
		return closed(p), []Effect{EffectTeardown}
	}

	return p, nil
}

// advanceLine 前进到下一行；越过最后一行时关闭
func advanceLine(p Playback) (Playback, []Effect) {
	p.LineIndex++
	p.SkipArmed = false
	if p.LineIndex >= p.ScriptLen {
		return closed(p), []Effect{EffectTeardown}
	}
	p.Typing = true
	p.Speaking = true
	p.State = StateLineActive
	return p, []Effect{EffectActivateLine}
}

func closed(p Playback) Playback {
	p.State = StateClosed
	p.LineIndex = p.ScriptLen
	p.Typing = false
	p.Speaking = false
	p.SkipArmed = false
	p.Fast = false
	return p
}

// settle 根据打字/朗读标志重新推导子状态
func settle(p Playback) Playback {
	if p.Typing || p.Speaking {
		p.State = StateLineActive
	} else {
		p.State = StateLineSettled
	}
	return p
}
