package dialog

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeCall 一次 Speak 调用；向 finish 发送结果即结束朗读
type fakeCall struct {
	utterance Utterance
	finish    chan error
}

type fakeEngine struct {
	voices []Voice
	calls  chan *fakeCall
}

func newFakeEngine(voices ...string) *fakeEngine {
	e := &fakeEngine{calls: make(chan *fakeCall, 16)}
	for _, name := range voices {
		e.voices = append(e.voices, Voice{Name: name})
	}
	return e
}

func (e *fakeEngine) Voices() []Voice { return e.voices }

func (e *fakeEngine) Speak(ctx context.Context, u Utterance) error {
	c := &fakeCall{utterance: u, finish: make(chan error, 1)}
	e.calls <- c
	select {
	case err := <-c.finish:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *fakeEngine) nextCall(t *testing.T) *fakeCall {
	t.Helper()
	select {
	case c := <-e.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("engine was never asked to speak")
		return nil
	}
}

// pollUntil 反复 Poll 直到 cond 成立
func pollUntil(t *testing.T, c *SpeechCoordinator, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.Poll()
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestSelectVoice(t *testing.T) {
	voices := []Voice{
		{Name: "Microsoft Zira"},
		{Name: "Google UK English Female"},
		{Name: "Google UK English Male"},
		{Name: "Samantha"},
		{Name: "Daniel"},
	}

	tests := []struct {
		name   string
		voices []Voice
		prefs  []string
		gender Gender
		want   string
	}{
		{name: "偏好精确匹配（忽略大小写）", voices: voices, prefs: []string{"samantha"}, gender: GenderMale, want: "Samantha"},
		{name: "偏好按顺序回退", voices: voices, prefs: []string{"Karen", "DANIEL", "Samantha"}, gender: GenderFemale, want: "Daniel"},
		{name: "偏好不做子串匹配", voices: voices, prefs: []string{"Sam"}, gender: GenderOther, want: "Google UK English Male"},
		{name: "女声规则", voices: voices, gender: GenderFemale, want: "Google UK English Female"},
		{name: "男声规则不误匹配 Female", voices: voices, gender: GenderMale, want: "Google UK English Male"},
		{name: "其他性别按男声规则", voices: []Voice{{Name: "Victoria"}, {Name: "Fred"}}, gender: GenderOther, want: "Fred"},
		{name: "规则无匹配取第一个", voices: []Voice{{Name: "Zira"}, {Name: "Kyoko"}}, gender: GenderMale, want: "Zira"},
		{name: "没有声音", voices: nil, prefs: []string{"Daniel"}, gender: GenderMale, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectVoice(tt.voices, tt.prefs, tt.gender)
			name := ""
			if got != nil {
				name = got.Name
			}
			if name != tt.want {
				t.Errorf("SelectVoice = %q, want %q", name, tt.want)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	tests := map[string]Gender{
		"female": GenderFemale,
		" Male ": GenderMale,
		"dragon": GenderOther,
		"":       GenderOther,
		"FEMALE": GenderFemale,
	}
	for in, want := range tests {
		if got := ParseGender(in); got != want {
			t.Errorf("ParseGender(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestSpeechCompletion 自然结束和出错都会回调一次
func TestSpeechCompletion(t *testing.T) {
	for _, result := range []error{nil, errors.New("synth crashed")} {
		engine := newFakeEngine("Daniel")
		c := NewSpeechCoordinator(engine, nil)

		done := 0
		if !c.Speak("hello", nil, "🐉", func() { done++ }) {
			t.Fatal("Speak returned false with an engine")
		}
		if !c.Speaking() {
			t.Error("should be speaking")
		}

		call := engine.nextCall(t)
		if call.utterance.Voice == nil || call.utterance.Voice.Name != "Daniel" {
			t.Errorf("voice = %+v", call.utterance.Voice)
		}
		call.finish <- result

		pollUntil(t, c, func() bool { return done > 0 })
		if c.Speaking() {
			t.Error("still speaking after completion")
		}
		c.Poll()
		if done != 1 {
			t.Errorf("onDone called %d times", done)
		}
	}
}

// TestSpeechCancelSuppressesCallback 取消后不回调；新朗读取代旧朗读
func TestSpeechCancelSuppressesCallback(t *testing.T) {
	engine := newFakeEngine()
	c := NewSpeechCoordinator(engine, nil)

	first, second := 0, 0
	c.Speak("one", nil, "", func() { first++ })
	call1 := engine.nextCall(t)

	c.Speak("two", nil, "", func() { second++ })
	call2 := engine.nextCall(t)

	// 第一条在取消后才"结束"
	call1.finish <- nil
	call2.finish <- nil

	pollUntil(t, c, func() bool { return second > 0 })
	if first != 0 {
		t.Errorf("cancelled utterance called back %d times", first)
	}

	c.Speak("three", nil, "", func() { first++ })
	engine.nextCall(t)
	c.Cancel()
	time.Sleep(5 * time.Millisecond)
	c.Poll()
	if first != 0 || c.Speaking() {
		t.Errorf("cancel did not suppress: first=%d speaking=%v", first, c.Speaking())
	}
}

// TestSpeechUnavailable 无引擎时为空操作
func TestSpeechUnavailable(t *testing.T) {
	c := NewSpeechCoordinator(nil, nil)
	called := false
	if c.Speak("hello", []string{"Daniel"}, "🧚", func() { called = true }) {
		t.Error("Speak should report unavailable")
	}
	c.Poll()
	c.Cancel()
	if called || c.Speaking() || c.Available() {
		t.Error("no-engine coordinator should be inert")
	}
}

// TestSpeechUsesSpeakerGender 偏好缺失时按说话人性别挑选
func TestSpeechUsesSpeakerGender(t *testing.T) {
	engine := newFakeEngine("Alex", "Victoria")
	genders := func(glyph string) Gender {
		if glyph == "🧚" {
			return GenderFemale
		}
		return GenderMale
	}
	c := NewSpeechCoordinator(engine, genders)

	c.Speak("hi", nil, "🧚", nil)
	if got := engine.nextCall(t).utterance.Voice.Name; got != "Victoria" {
		t.Errorf("fairy voice = %q", got)
	}
	c.Speak("hi", nil, "🧙", nil)
	if got := engine.nextCall(t).utterance.Voice.Name; got != "Alex" {
		t.Errorf("wizard voice = %q", got)
	}
	c.Cancel()
}
