package dialog

import (
	"log"
	"time"
)

// Gate 章节自动播放闸门（由 game.SessionGate 实现）
type Gate interface {
	ShouldAutoplay(sectionID string) bool
	MarkPlayed(sectionID string)
	ForcePlay(sectionID string) bool
}

// View 对话框渲染所需的快照
type View struct {
	Open        bool
	SectionID   string
	Speaker     string
	VisibleText string
	LineIndex   int
	LineCount   int
	Typing      bool
	Speaking    bool
	Fast        bool
}

// Sequencer 对话播放器
//
// 职责：
//   - 通过 Gate 决定章节是否自动播放
//   - 把用户输入、打字完成、朗读完成转换为 Transition 事件
//   - 执行状态机产生的副作用（钩子、打字、朗读、关闭）
//
// 同一时刻最多播放一个脚本；播放新脚本会替换当前脚本。
type Sequencer struct {
	library    Library
	gate       Gate
	typewriter *Typewriter
	speech     *SpeechCoordinator
	textData   func() map[string]string

	playback  Playback
	sectionID string
	script    Script
	visible   string
	serial    uint64 // 每次激活行时递增，用于识别重入

	closeListeners []func(sectionID string)
}

// NewSequencer 创建播放器
//
// 参数：
//   - library: 脚本库
//   - gate: 自动播放闸门
//   - typewriter: 打字机
//   - speech: 语音协调器（可使用 NewSpeechCoordinator(nil, nil) 表示无语音）
func NewSequencer(library Library, gate Gate, typewriter *Typewriter, speech *SpeechCoordinator) *Sequencer {
	if speech == nil {
		speech = NewSpeechCoordinator(nil, nil)
	}
	return &Sequencer{
		library:    library,
		gate:       gate,
		typewriter: typewriter,
		speech:     speech,
		playback:   NewPlayback(),
	}
}

// SetTextData 设置行文本模板的数据来源
func (s *Sequencer) SetTextData(fn func() map[string]string) {
	s.textData = fn
}

// OnClose 注册关闭监听
func (s *Sequencer) OnClose(listener func(sectionID string)) {
	if listener != nil {
		s.closeListeners = append(s.closeListeners, listener)
	}
}

// Play 播放章节脚本
//
// force 为 false 时受闸门约束：本会话已播放过的章节不再播放。
// 没有脚本或脚本为空的章节什么也不做，也不会被标记。
// 返回是否开始了播放。
func (s *Sequencer) Play(sectionID string, force bool) bool {
	script := s.library[sectionID]
	if len(script) == 0 {
		return false
	}

	if force {
		s.gate.ForcePlay(sectionID)
	} else {
		if !s.gate.ShouldAutoplay(sectionID) {
			return false
		}
		s.gate.MarkPlayed(sectionID)
	}

	if s.playback.Active() {
		log.Printf("[Sequencer] Replacing script %s with %s", s.sectionID, sectionID)
		s.apply(Event{Kind: EventClose})
	}

	log.Printf("[Sequencer] Playing section %s (%d lines, force=%v)", sectionID, len(script), force)
	s.sectionID = sectionID
	s.script = script
	s.apply(Event{Kind: EventStart, ScriptLen: len(script)})
	return true
}

// Advance 用户推进：跳过打字 / 跳过朗读 / 进入下一行
func (s *Sequencer) Advance() {
	s.apply(Event{Kind: EventAdvance})
}

// SetFast 设置快进键状态
func (s *Sequencer) SetFast(fast bool) {
	if fast {
		s.apply(Event{Kind: EventFastOn})
	} else {
		s.apply(Event{Kind: EventFastOff})
	}
	s.typewriter.SetFast(s.playback.Fast)
}

// Close 强制关闭当前脚本
func (s *Sequencer) Close() {
	s.apply(Event{Kind: EventClose})
}

// Update 每帧调用：推进打字机并分发朗读完成通知
func (s *Sequencer) Update(dt time.Duration) {
	s.speech.Poll()
	if s.playback.Active() {
		s.typewriter.Update(dt)
	}
}

// IsOpen 对话框是否显示
func (s *Sequencer) IsOpen() bool {
	return s.playback.Active()
}

// Playback 返回当前状态快照
func (s *Sequencer) Playback() Playback {
	return s.playback
}

// View 返回渲染快照
func (s *Sequencer) View() View {
	v := View{
		Open:      s.playback.Active(),
		SectionID: s.sectionID,
		LineIndex: s.playback.LineIndex,
		LineCount: s.playback.ScriptLen,
		Typing:    s.playback.Typing,
		Speaking:  s.playback.Speaking,
		Fast:      s.playback.Fast,
	}
	if line, ok := s.currentLine(); ok {
		v.Speaker = line.Speaker
		v.VisibleText = s.visible
	}
	return v
}

func (s *Sequencer) currentLine() (Line, bool) {
	i := s.playback.LineIndex
	if !s.playback.Active() || i < 0 || i >= len(s.script) {
		return Line{}, false
	}
	return s.script[i], true
}

// apply 执行一次状态转换并处理副作用
func (s *Sequencer) apply(ev Event) {
	next, effects := Transition(s.playback, ev)
	s.playback = next
	for _, eff := range effects {
		s.perform(eff)
	}
}

func (s *Sequencer) perform(eff Effect) {
	switch eff {
	case EffectOpen:
		s.visible = ""

	case EffectActivateLine:
		s.activateLine()

	case EffectCompleteReveal:
		s.typewriter.Finish()

	case EffectCancelSpeech:
		s.speech.Cancel()

	case EffectTeardown:
		s.typewriter.Stop()
		s.speech.Cancel()
		s.visible = ""
		section := s.sectionID
		log.Printf("[Sequencer] Closed section %s", section)
		for _, l := range s.closeListeners {
			l(section)
		}
	}
}

// activateLine 钩子 → 渲染文本 → 打字 + 朗读
func (s *Sequencer) activateLine() {
	idx := s.playback.LineIndex
	line := s.script[idx]
	s.serial++
	serial := s.serial

	runHook(line)

	// 钩子可能重入（关闭对话框或播放其他章节），此时放弃本行
	if serial != s.serial || !s.playback.Active() || s.playback.LineIndex != idx {
		return
	}

	var data map[string]string
	if s.textData != nil {
		data = s.textData()
	}
	text := RenderLineText(line.Text, data)

	s.visible = ""
	current := func() bool { return serial == s.serial && s.playback.LineIndex == idx }
	started := s.speech.Speak(text, line.Voices, line.Speaker, func() {
		if current() {
			s.apply(Event{Kind: EventSpeechDone})
		}
	})
	if !started {
		s.apply(Event{Kind: EventSpeechUnavailable})
	}

	s.typewriter.SetFast(s.playback.Fast)
	s.typewriter.Reveal(text,
		func(visible string) { s.visible = visible },
		func() {
			if current() {
				s.apply(Event{Kind: EventRevealDone})
			}
		},
	)
}
