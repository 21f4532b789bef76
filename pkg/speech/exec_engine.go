// Package speech 通过外部命令（espeak-ng / macOS say）实现 dialog.Engine
package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"

	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/dialog"
)

// 语音列表输出格式
const (
	FormatEspeak = "espeak"
	FormatSay    = "say"
)

// ErrUnsupportedFormat 未知的语音列表格式
var ErrUnsupportedFormat = errors.New("unsupported speech command format")

// ExecEngine 外部命令语音引擎
//
// 每次 Speak 启动一个子进程并等待其退出；ctx 取消时子进程被杀死。
// 声音列表在第一次调用 Voices 时于后台加载，加载完成前返回空列表
// （此时使用命令的默认声音）。
type ExecEngine struct {
	command string
	format  string

	loadOnce sync.Once
	mu       sync.RWMutex
	voices   []dialog.Voice
}

// NewExecEngine 创建引擎
// 命令不在 PATH 中或格式未知时返回错误
func NewExecEngine(command, format string) (*ExecEngine, error) {
	if format != FormatEspeak && format != FormatSay {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("speech command %q not available: %w", command, err)
	}
	return &ExecEngine{command: path, format: format}, nil
}

// Open 根据配置创建 dialog.Engine
// 禁用或不可用时返回 nil（对话降级为仅文字）
func Open(cfg config.SpeechConfig) dialog.Engine {
	if !cfg.Enabled {
		log.Printf("[Speech] Disabled by config")
		return nil
	}
	engine, err := NewExecEngine(cfg.Command, cfg.Format)
	if err != nil {
		log.Printf("[Speech] Warning: %v, falling back to text only", err)
		return nil
	}
	log.Printf("[Speech] Using %s (%s)", engine.command, engine.format)
	return engine
}

// Voices 返回已加载的声音列表
func (e *ExecEngine) Voices() []dialog.Voice {
	e.loadOnce.Do(func() { go e.loadVoices() })

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.voices
}

func (e *ExecEngine) loadVoices() {
	out, err := exec.Command(e.command, e.listArgs()...).Output()
	if err != nil {
		log.Printf("[Speech] Warning: failed to list voices: %v", err)
		return
	}

	var voices []dialog.Voice
	if e.format == FormatSay {
		voices = ParseSayVoices(bytes.NewReader(out))
	} else {
		voices = ParseEspeakVoices(bytes.NewReader(out))
	}
	log.Printf("[Speech] Loaded %d voices", len(voices))

	e.mu.Lock()
	e.voices = voices
	e.mu.Unlock()
}

func (e *ExecEngine) listArgs() []string {
	if e.format == FormatSay {
		return []string{"-v", "?"}
	}
	return []string{"--voices"}
}

// Speak 朗读并等待结束
func (e *ExecEngine) Speak(ctx context.Context, u dialog.Utterance) error {
	args := make([]string, 0, 3)
	if u.Voice != nil && u.Voice.Name != "" {
		args = append(args, "-v", u.Voice.Name)
	}
	args = append(args, u.Text)

	cmd := exec.CommandContext(ctx, e.command, args...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("speech command failed: %w", err)
	}
	return nil
}

// ParseEspeakVoices 解析 `espeak-ng --voices` 的输出
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  af              --/M      Afrikaans          gmw/af
func ParseEspeakVoices(r io.Reader) []dialog.Voice {
	var voices []dialog.Voice
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, dialog.Voice{Name: fields[3], Lang: fields[1]})
	}
	return voices
}

// ParseSayVoices 解析 `say -v ?` 的输出
//
//	Alex                en_US    # Most people recognize me by my voice.
//	Bad News            en_US    # The light you see at the end of the tunnel...
func ParseSayVoices(r io.Reader) []dialog.Voice {
	var voices []dialog.Voice
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		lang := fields[len(fields)-1]
		name := strings.Join(fields[:len(fields)-1], " ")
		voices = append(voices, dialog.Voice{Name: name, Lang: lang})
	}
	return voices
}
