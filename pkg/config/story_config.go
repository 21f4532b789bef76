package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// StoryConfig 故事页面配置数据结构
// 定义页面的章节（Section）、说话人表和每个章节的对话脚本
type StoryConfig struct {
	Title    string          `yaml:"title"`    // 页面标题
	Speakers []SpeakerConfig `yaml:"speakers"` // 说话人表（按 glyph 索引）
	Sections []SectionConfig `yaml:"sections"` // 章节列表（文档顺序）
}

// SpeakerConfig 说话人配置
type SpeakerConfig struct {
	Glyph  string   `yaml:"glyph"`  // 说话人标识符号，如 "🧙‍♂️"
	Name   string   `yaml:"name"`   // 显示名称（字体无法渲染 emoji 时使用）
	Gender string   `yaml:"gender"` // "female" / "male" / "other"，用于语音启发式匹配
	Voices []string `yaml:"voices"` // 默认语音偏好列表（按优先级）
}

// SectionConfig 单个章节配置
type SectionConfig struct {
	ID       string          `yaml:"id"`       // 章节ID，为空时由标题生成 "sec-<slug>"
	Title    string          `yaml:"title"`    // 章节标题
	Height   float64         `yaml:"height"`   // 章节高度（像素），默认 DefaultSectionHeight
	Body     []string        `yaml:"body"`     // 正文段落
	Controls []ControlConfig `yaml:"controls"` // 表单控件
	Slots    []SlotConfig    `yaml:"slots"`    // 卷轴槽位
	Script   []LineConfig    `yaml:"script"`   // 进入该章节时播放的对话
}

// ControlConfig 表单控件配置
type ControlConfig struct {
	Name     string   `yaml:"name"`     // 控件名称（同页面唯一，也是文本模板里的变量名）
	Label    string   `yaml:"label"`    // 显示标签
	Kind     string   `yaml:"kind"`     // "input" / "select" / "textarea"，默认 "input"
	Type     string   `yaml:"type"`     // input 类型，如 "text" / "checkbox" / "submit"，默认 "text"
	Options  []string `yaml:"options"`  // select 的候选项
	Value    string   `yaml:"value"`    // 初始值
	Disabled bool     `yaml:"disabled"` // 初始禁用
	ReadOnly bool     `yaml:"readonly"` // 只读
	Enables  []string `yaml:"enables"`  // checkbox 勾选后解除禁用的控件名
}

// SlotConfig 卷轴槽位配置
type SlotConfig struct {
	Name   string `yaml:"name"`   // 槽位名称
	Filled bool   `yaml:"filled"` // 初始是否已放入卷轴
}

// LineConfig 一行对话配置
type LineConfig struct {
	Speaker string   `yaml:"speaker"` // 说话人 glyph
	Text    string   `yaml:"text"`    // 文本（text/template 语法，可引用控件值）
	Voices  []string `yaml:"voices"`  // 语音偏好（为空时使用说话人默认值）
	Hook    string   `yaml:"hook"`    // 行激活时触发的钩子名称（可选）
}

// 控件类型常量
const (
	ControlKindInput    = "input"
	ControlKindSelect   = "select"
	ControlKindTextarea = "textarea"
)

// ErrInvalidStory 故事配置校验失败
var ErrInvalidStory = errors.New("invalid story config")

// LoadStoryConfig 从YAML文件加载故事配置
// 参数：
//
//	filepath - 配置文件路径
//	knownHooks - 允许的钩子名称（nil 表示不校验钩子）
//
// 返回：
//
//	*StoryConfig - 解析并补全默认值后的配置
//	error - 文件读取、解析或校验失败
func LoadStoryConfig(filepath string, knownHooks []string) (*StoryConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read story config file %s: %w", filepath, err)
	}

	story, err := ParseStoryConfig(data, knownHooks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return story, nil
}

// ParseStoryConfig 从内存数据解析故事配置（用于嵌入资源）
func ParseStoryConfig(data []byte, knownHooks []string) (*StoryConfig, error) {
	var story StoryConfig
	if err := yaml.Unmarshal(data, &story); err != nil {
		return nil, fmt.Errorf("failed to parse story config YAML: %w", err)
	}

	story.applyDefaults()

	if err := story.Validate(knownHooks); err != nil {
		return nil, err
	}
	return &story, nil
}

// applyDefaults 补全缺省字段
func (c *StoryConfig) applyDefaults() {
	for i := range c.Sections {
		sec := &c.Sections[i]
		if sec.ID == "" && sec.Title != "" {
			sec.ID = "sec-" + slug.Make(sec.Title)
		}
		if sec.Height == 0 {
			sec.Height = DefaultSectionHeight
		}
		for j := range sec.Controls {
			ctl := &sec.Controls[j]
			if ctl.Kind == "" {
				ctl.Kind = ControlKindInput
			}
			if ctl.Kind == ControlKindInput && ctl.Type == "" {
				ctl.Type = "text"
			}
			ctl.Type = strings.ToLower(ctl.Type)
		}
	}

	for i := range c.Speakers {
		if c.Speakers[i].Gender == "" {
			c.Speakers[i].Gender = "other"
		}
	}
}

// Validate 校验配置完整性，收集所有问题后一次返回
func (c *StoryConfig) Validate(knownHooks []string) error {
	var err error

	hooks := make(map[string]bool, len(knownHooks))
	for _, h := range knownHooks {
		hooks[h] = true
	}

	speakers := make(map[string]bool, len(c.Speakers))
	for i, sp := range c.Speakers {
		if sp.Glyph == "" {
			err = multierr.Append(err, fmt.Errorf("speakers[%d]: glyph is required", i))
			continue
		}
		if speakers[sp.Glyph] {
			err = multierr.Append(err, fmt.Errorf("speakers[%d]: duplicate glyph %q", i, sp.Glyph))
		}
		speakers[sp.Glyph] = true

		switch sp.Gender {
		case "female", "male", "other":
		default:
			err = multierr.Append(err, fmt.Errorf("speakers[%d]: gender must be one of female, male, other, got %q", i, sp.Gender))
		}
	}

	if len(c.Sections) == 0 {
		err = multierr.Append(err, fmt.Errorf("at least one section is required"))
	}

	sectionIDs := make(map[string]bool, len(c.Sections))
	controlNames := make(map[string]bool)
	var enables []string

	for i, sec := range c.Sections {
		if sec.ID == "" {
			err = multierr.Append(err, fmt.Errorf("sections[%d]: id or title is required", i))
		} else if sectionIDs[sec.ID] {
			err = multierr.Append(err, fmt.Errorf("sections[%d]: duplicate id %q", i, sec.ID))
		}
		sectionIDs[sec.ID] = true

		if sec.Height < 0 {
			err = multierr.Append(err, fmt.Errorf("section %s: height cannot be negative", sec.ID))
		}

		for j, ctl := range sec.Controls {
			if ctl.Name == "" {
				err = multierr.Append(err, fmt.Errorf("section %s, control %d: name is required", sec.ID, j))
				continue
			}
			if controlNames[ctl.Name] {
				err = multierr.Append(err, fmt.Errorf("section %s: duplicate control name %q", sec.ID, ctl.Name))
			}
			controlNames[ctl.Name] = true

			switch ctl.Kind {
			case ControlKindInput, ControlKindTextarea:
			case ControlKindSelect:
				if len(ctl.Options) == 0 {
					err = multierr.Append(err, fmt.Errorf("section %s, control %s: select needs options", sec.ID, ctl.Name))
				}
			default:
				err = multierr.Append(err, fmt.Errorf("section %s, control %s: unknown kind %q", sec.ID, ctl.Name, ctl.Kind))
			}
			enables = append(enables, ctl.Enables...)
		}

		for j, line := range sec.Script {
			if strings.TrimSpace(line.Text) == "" {
				err = multierr.Append(err, fmt.Errorf("section %s, line %d: text is required", sec.ID, j))
			}
			if line.Speaker != "" && !speakers[line.Speaker] {
				err = multierr.Append(err, fmt.Errorf("section %s, line %d: unknown speaker %q", sec.ID, j, line.Speaker))
			}
			if line.Hook != "" && knownHooks != nil && !hooks[line.Hook] {
				err = multierr.Append(err, fmt.Errorf("section %s, line %d: unknown hook %q", sec.ID, j, line.Hook))
			}
		}
	}

	for _, name := range enables {
		if !controlNames[name] {
			err = multierr.Append(err, fmt.Errorf("enables: unknown control %q", name))
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStory, err)
	}
	return nil
}

// Speaker 按 glyph 查找说话人
func (c *StoryConfig) Speaker(glyph string) (SpeakerConfig, bool) {
	for _, sp := range c.Speakers {
		if sp.Glyph == glyph {
			return sp, true
		}
	}
	return SpeakerConfig{}, false
}

// Section 按 ID 查找章节
func (c *StoryConfig) Section(id string) (*SectionConfig, bool) {
	for i := range c.Sections {
		if c.Sections[i].ID == id {
			return &c.Sections[i], true
		}
	}
	return nil, false
}

// PageHeight 返回所有章节叠加后的页面总高度
func (c *StoryConfig) PageHeight() float64 {
	h := PageMarginTop
	for _, sec := range c.Sections {
		h += sec.Height
	}
	return h
}
