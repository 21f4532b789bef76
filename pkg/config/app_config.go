package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用启动配置
// 来源优先级：环境变量 > 外部 YAML 文件 > 嵌入的 data/app.yaml > DefaultAppConfig
type AppConfig struct {
	// AppName gdata 存储使用的应用名（决定存储目录）
	AppName string `yaml:"appName" env:"QUESTHUD_APP_NAME"`
	// Verbose 启用详细日志输出
	Verbose bool `yaml:"verbose" env:"QUESTHUD_VERBOSE"`
	// StoryPath 外部故事配置文件，为空时使用嵌入的 data/story.yaml
	StoryPath string `yaml:"story" env:"QUESTHUD_STORY"`

	Speech SpeechConfig `yaml:"speech" envPrefix:"QUESTHUD_TTS_"`
	Remote RemoteConfig `yaml:"remote" envPrefix:"QUESTHUD_REMOTE_"`
}

// SpeechConfig 文本转语音配置
type SpeechConfig struct {
	// Enabled 为 false 时完全不发声（仅文字显示）
	Enabled bool `yaml:"enabled" env:"ENABLED"`
	// Command 外部 TTS 命令，如 "espeak-ng" 或 "say"
	Command string `yaml:"command" env:"COMMAND"`
	// Format 语音列表输出格式："espeak" 或 "say"
	Format string `yaml:"format" env:"FORMAT"`
}

// RemoteConfig 远程控制（WebSocket）配置
type RemoteConfig struct {
	// Addr 监听地址，如 "127.0.0.1:7788"；为空时不启动
	Addr string `yaml:"addr" env:"ADDR"`
}

// DefaultAppConfig 返回默认配置
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		AppName: "questhud",
		Speech: SpeechConfig{
			Enabled: true,
			Command: "espeak-ng",
			Format:  "espeak",
		},
	}
}

// ParseAppConfig 在默认配置基础上叠加 YAML 数据
func ParseAppConfig(data []byte) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := cfg.Merge(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge 把 YAML 数据叠加到已有配置上，未提及的字段保持原值
func (c *AppConfig) Merge(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse app config YAML: %w", err)
	}
	return nil
}

// LoadAppConfig 从文件加载配置
func LoadAppConfig(filepath string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := cfg.MergeFile(filepath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile 把配置文件叠加到已有配置上
func (c *AppConfig) MergeFile(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("failed to read app config file %s: %w", filepath, err)
	}
	if err := c.Merge(data); err != nil {
		return fmt.Errorf("%s: %w", filepath, err)
	}
	return nil
}

// ApplyEnv 用环境变量覆盖配置（未设置的变量保持原值）
func ApplyEnv(cfg *AppConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
