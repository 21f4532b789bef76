package dialog

import (
	"reflect"
	"testing"
)

func run(p Playback, kinds ...EventKind) Playback {
	for _, k := range kinds {
		p, _ = Transition(p, Event{Kind: k})
	}
	return p
}

func TestTransition(t *testing.T) {
	started, startEffects := Transition(NewPlayback(), Event{Kind: EventStart, ScriptLen: 2})

	tests := []struct {
		name        string
		from        Playback
		event       Event
		wantState   State
		wantIndex   int
		wantEffects []Effect
		check       func(t *testing.T, p Playback)
	}{
		{
			name:        "空脚本不启动",
			from:        NewPlayback(),
			event:       Event{Kind: EventStart, ScriptLen: 0},
			wantState:   StateIdle,
			wantIndex:   -1,
			wantEffects: nil,
		},
		{
			name:        "打字中推进：完成显示并停止朗读，停留本行",
			from:        started,
			event:       Event{Kind: EventAdvance},
			wantState:   StateLineSettled,
			wantIndex:   0,
			wantEffects: []Effect{EffectCompleteReveal, EffectCancelSpeech},
			check: func(t *testing.T, p Playback) {
				if !p.SkipArmed {
					t.Error("skip should be armed")
				}
			},
		},
		{
			name:        "朗读中推进：停止朗读，停留本行",
			from:        run(started, EventRevealDone),
			event:       Event{Kind: EventAdvance},
			wantState:   StateLineSettled,
			wantIndex:   0,
			wantEffects: []Effect{EffectCancelSpeech},
		},
		{
			name:        "已结束推进：进入下一行",
			from:        run(started, EventRevealDone, EventSpeechDone),
			event:       Event{Kind: EventAdvance},
			wantState:   StateLineActive,
			wantIndex:   1,
			wantEffects: []Effect{EffectActivateLine},
			check: func(t *testing.T, p Playback) {
				if !p.Typing || !p.Speaking || p.SkipArmed {
					t.Errorf("new line flags wrong: %+v", p)
				}
			},
		},
		{
			name:        "最后一行推进：关闭",
			from:        run(started, EventRevealDone, EventSpeechDone, EventAdvance, EventRevealDone, EventSpeechDone),
			event:       Event{Kind: EventAdvance},
			wantState:   StateClosed,
			wantIndex:   2,
			wantEffects: []Effect{EffectTeardown},
		},
		{
			name:        "关闭后推进无效果",
			from:        run(started, EventClose),
			event:       Event{Kind: EventAdvance},
			wantState:   StateClosed,
			wantIndex:   2,
			wantEffects: nil,
		},
		{
			name:      "朗读完成武装跳过",
			from:      started,
			event:     Event{Kind: EventSpeechDone},
			wantState: StateLineActive,
			wantIndex: 0,
			check: func(t *testing.T, p Playback) {
				if !p.SkipArmed || p.Speaking || !p.Typing {
					t.Errorf("flags wrong: %+v", p)
				}
			},
		},
		{
			name:      "无语音能力不武装跳过",
			from:      started,
			event:     Event{Kind: EventSpeechUnavailable},
			wantState: StateLineActive,
			wantIndex: 0,
			check: func(t *testing.T, p Playback) {
				if p.SkipArmed || p.Speaking {
					t.Errorf("flags wrong: %+v", p)
				}
			},
		},
		{
			name:        "强制关闭",
			from:        started,
			event:       Event{Kind: EventClose},
			wantState:   StateClosed,
			wantIndex:   2,
			wantEffects: []Effect{EffectTeardown},
		},
		{
			name:        "快进标志保持到下一行",
			from:        run(started, EventFastOn, EventRevealDone, EventSpeechDone),
			event:       Event{Kind: EventAdvance},
			wantState:   StateLineActive,
			wantIndex:   1,
			wantEffects: []Effect{EffectActivateLine},
			check: func(t *testing.T, p Playback) {
				if !p.Fast {
					t.Error("fast flag lost")
				}
			},
		},
		{
			name:      "空闲时朗读完成被忽略",
			from:      NewPlayback(),
			event:     Event{Kind: EventSpeechDone},
			wantState: StateIdle,
			wantIndex: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, effects := Transition(tt.from, tt.event)
			if got.State != tt.wantState {
				t.Errorf("state = %v, want %v", got.State, tt.wantState)
			}
			if got.LineIndex != tt.wantIndex {
				t.Errorf("line index = %d, want %d", got.LineIndex, tt.wantIndex)
			}
			if !reflect.DeepEqual(effects, tt.wantEffects) {
				t.Errorf("effects = %v, want %v", effects, tt.wantEffects)
			}
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}

	if want := []Effect{EffectOpen, EffectActivateLine}; !reflect.DeepEqual(startEffects, want) {
		t.Errorf("start effects = %v, want %v", startEffects, want)
	}
}

// TestTransitionDoesNotMutateInput Transition 是纯函数
func TestTransitionDoesNotMutateInput(t *testing.T) {
	p, _ := Transition(NewPlayback(), Event{Kind: EventStart, ScriptLen: 3})
	before := p
	Transition(p, Event{Kind: EventAdvance})
	Transition(p, Event{Kind: EventClose})
	if p != before {
		t.Errorf("input mutated: %+v → %+v", before, p)
	}
}

// TestLineIndexStaysInRange 任意事件序列下行号都在 [-1, ScriptLen]
func TestLineIndexStaysInRange(t *testing.T) {
	kinds := []EventKind{EventAdvance, EventRevealDone, EventSpeechDone, EventFastOn, EventAdvance, EventFastOff, EventSpeechUnavailable}
	p, _ := Transition(NewPlayback(), Event{Kind: EventStart, ScriptLen: 3})
	for i := 0; i < 40; i++ {
		p, _ = Transition(p, Event{Kind: kinds[i%len(kinds)]})
		if p.LineIndex < -1 || p.LineIndex > p.ScriptLen {
			t.Fatalf("step %d: line index %d out of range", i, p.LineIndex)
		}
	}
	if p.State != StateClosed {
		t.Errorf("expected script to be exhausted, state = %v", p.State)
	}
}
