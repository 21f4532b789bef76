// Package dialog 实现章节对话的播放引擎
//
// 组成：
//   - Script / Line：按章节索引的只读对话脚本
//   - Playback + Transition：纯函数状态机（Idle → LineActive → LineSettled → Closed）
//   - Typewriter：逐字显示
//   - SpeechCoordinator：语音合成协调（选择声音、保证同一时刻最多一条语音）
//   - Sequencer：把上述部件按状态机的副作用串联起来
//
// 所有类型只在游戏主循环中使用；语音引擎在后台 goroutine 中运行，
// 其完成通知通过 SpeechCoordinator.Poll 回到主循环。
package dialog

import (
	"bytes"
	"log"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/decker502/questhud/pkg/config"
)

// Hook 对话行激活时执行的副作用
// 返回错误或发生 panic 都会被吞掉，不影响播放
type Hook func() error

// HookRegistry 钩子名称 → 钩子实现
type HookRegistry map[string]Hook

// Names 返回已注册的钩子名称（用于配置校验）
func (r HookRegistry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	return names
}

// Line 一行对话
type Line struct {
	Speaker  string   // 说话人 glyph
	Voices   []string // 语音偏好（按优先级回退）
	Text     string   // 文本模板
	HookName string   // 钩子名称（仅用于日志）
	Hook     Hook     // 行激活时调用一次，可为 nil
}

// Script 一个章节的有序对话
type Script []Line

// Library 章节 ID → 脚本
type Library map[string]Script

// BuildLibrary 根据故事配置构建脚本库
//
// 参数：
//   - story: 已校验的故事配置
//   - hooks: 钩子注册表；配置中引用了未注册的钩子时该行没有钩子
//
// 行未指定语音偏好时使用说话人的默认偏好
func BuildLibrary(story *config.StoryConfig, hooks HookRegistry) Library {
	lib := make(Library, len(story.Sections))
	for _, sec := range story.Sections {
		if len(sec.Script) == 0 {
			continue
		}
		script := make(Script, 0, len(sec.Script))
		for _, lc := range sec.Script {
			line := Line{
				Speaker:  lc.Speaker,
				Voices:   lc.Voices,
				Text:     lc.Text,
				HookName: lc.Hook,
			}
			if len(line.Voices) == 0 {
				if sp, ok := story.Speaker(lc.Speaker); ok {
					line.Voices = sp.Voices
				}
			}
			if lc.Hook != "" {
				if h, ok := hooks[lc.Hook]; ok {
					line.Hook = h
				} else {
					log.Printf("[Dialog] Warning: section %s references unknown hook %q", sec.ID, lc.Hook)
				}
			}
			script = append(script, line)
		}
		lib[sec.ID] = script
	}
	return lib
}

// GenderLookup 根据说话人 glyph 返回声音性别倾向
type GenderLookup func(glyph string) Gender

// SpeakerGenders 根据故事配置构建 GenderLookup
func SpeakerGenders(story *config.StoryConfig) GenderLookup {
	genders := make(map[string]Gender, len(story.Speakers))
	for _, sp := range story.Speakers {
		genders[sp.Glyph] = ParseGender(sp.Gender)
	}
	return func(glyph string) Gender {
		return genders[glyph]
	}
}

// RenderLineText 渲染行文本模板
//
// 模板数据是控件名 → 当前值；可使用 slim-sprig 函数，
// 例如 `{{ .alias | default "Traveler" }}`。解析或执行失败时返回原文。
func RenderLineText(text string, data map[string]string) string {
	if !strings.Contains(text, "{{") {
		return text
	}

	tmpl, err := template.New("line").Funcs(sprig.FuncMap()).Option("missingkey=zero").Parse(text)
	if err != nil {
		log.Printf("[Dialog] Warning: bad line template %q: %v", text, err)
		return text
	}

	if data == nil {
		data = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("[Dialog] Warning: line template failed: %v", err)
		return text
	}
	return buf.String()
}

// runHook 执行钩子，吞掉错误和 panic
func runHook(line Line) {
	if line.Hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Dialog] Hook %q panicked: %v (ignored)", line.HookName, r)
		}
	}()
	if err := line.Hook(); err != nil {
		log.Printf("[Dialog] Hook %q failed: %v (ignored)", line.HookName, err)
	}
}
