package dialog

import (
	"context"
	"log"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Gender 说话人声音倾向
type Gender int

const (
	// GenderOther 未指定，按男声规则挑选
	GenderOther Gender = iota
	// GenderFemale 女声
	GenderFemale
	// GenderMale 男声
	GenderMale
)

// ParseGender 解析配置中的性别字符串（female / male / 其他）
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female":
		return GenderFemale
	case "male":
		return GenderMale
	default:
		return GenderOther
	}
}

// Voice 一个可用的合成声音
type Voice struct {
	Name string
	Lang string
}

// Utterance 一次朗读请求
type Utterance struct {
	Text  string
	Voice *Voice // nil 表示引擎默认声音
}

// Engine 语音合成引擎
type Engine interface {
	// Voices 返回当前已知的声音列表（可能在加载完成前为空）
	Voices() []Voice
	// Speak 朗读并阻塞到结束；ctx 取消时应尽快返回
	Speak(ctx context.Context, u Utterance) error
}

var (
	femaleVoicePattern = regexp.MustCompile(`(?i)female|susan|sara|victoria|samantha|zoe|amy|emma`)
	maleVoicePattern   = regexp.MustCompile(`(?i)\bmale\b|daniel|brian|alex|matthew|mike|john|fred`)
)

// SelectVoice 选择声音
//
// 优先级：
//  1. 偏好列表中第一个与某个声音名称（忽略大小写）完全相同的
//  2. 性别规则：女声按 femaleVoicePattern，其他按 maleVoicePattern
//  3. 第一个可用声音
//
// 没有可用声音时返回 nil
func SelectVoice(voices []Voice, preferences []string, gender Gender) *Voice {
	if len(voices) == 0 {
		return nil
	}

	fold := cases.Fold()
	for _, pref := range preferences {
		want := fold.String(strings.TrimSpace(pref))
		if want == "" {
			continue
		}
		for i := range voices {
			if fold.String(voices[i].Name) == want {
				return &voices[i]
			}
		}
	}

	pattern := maleVoicePattern
	if gender == GenderFemale {
		pattern = femaleVoicePattern
	}
	for i := range voices {
		if pattern.MatchString(voices[i].Name) {
			return &voices[i]
		}
	}

	return &voices[0]
}

type speechResult struct {
	generation uint64
	err        error
}

// SpeechCoordinator 语音协调器
//
// 职责：
//   - 同一时刻最多一条朗读：新的朗读请求先取消旧的
//   - 被取消的朗读不会触发完成回调
//   - 引擎在后台 goroutine 中运行，完成通知由 Poll 在主循环中分发
type SpeechCoordinator struct {
	engine  Engine
	genders GenderLookup

	generation uint64
	cancel     context.CancelFunc
	speaking   bool
	onDone     func()
	results    chan speechResult
}

// NewSpeechCoordinator 创建语音协调器
//
// 参数：
//   - engine: 语音引擎，可为 nil（降级：只显示文字）
//   - genders: 说话人性别查询，可为 nil
func NewSpeechCoordinator(engine Engine, genders GenderLookup) *SpeechCoordinator {
	return &SpeechCoordinator{
		engine:  engine,
		genders: genders,
		results: make(chan speechResult, 1),
	}
}

// Available 是否具备语音能力
func (c *SpeechCoordinator) Available() bool {
	return c.engine != nil
}

// Speaking 是否正在朗读
func (c *SpeechCoordinator) Speaking() bool {
	return c.speaking
}

// Speak 取消当前朗读后朗读 text
//
// 返回 false 表示没有语音能力，onDone 不会被调用。
// 返回 true 时，朗读结束（自然结束或出错）后 onDone 在 Poll 中被调用一次；
// 若在此之前被 Cancel 或新的 Speak 取代，则不会调用。
func (c *SpeechCoordinator) Speak(text string, preferences []string, speaker string, onDone func()) bool {
	c.Cancel()
	if c.engine == nil {
		return false
	}

	gender := GenderOther
	if c.genders != nil {
		gender = c.genders(speaker)
	}
	voice := SelectVoice(c.engine.Voices(), preferences, gender)

	c.generation++
	gen := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.speaking = true
	c.onDone = onDone

	u := Utterance{Text: text, Voice: voice}
	engine := c.engine
	results := c.results
	go func() {
		err := engine.Speak(ctx, u)
		select {
		case results <- speechResult{generation: gen, err: err}:
		case <-ctx.Done():
		}
	}()
	return true
}

// Cancel 停止当前朗读，不触发完成回调
func (c *SpeechCoordinator) Cancel() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.speaking = false
	c.onDone = nil
}

// Poll 分发已完成的朗读通知（每帧调用）
func (c *SpeechCoordinator) Poll() {
	for {
		select {
		case r := <-c.results:
			if r.generation != c.generation || !c.speaking {
				continue
			}
			if r.err != nil {
				log.Printf("[Speech] Utterance failed: %v", r.err)
			}
			if c.cancel != nil {
				c.cancel()
				c.cancel = nil
			}
			c.speaking = false
			done := c.onDone
			c.onDone = nil
			if done != nil {
				done()
			}
		default:
			return
		}
	}
}
