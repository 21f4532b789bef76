// storylint 校验故事页面 YAML 配置
//
// 用法：
//
//	storylint [--debug] story.yaml [more.yaml ...]
//
// 所有问题一次性列出；任何文件校验失败时退出码为 1。
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/scenes"
)

// errLintFailed 至少一个文件未通过校验
var errLintFailed = errors.New("story lint failed")

func main() {
	cmd := &cli.Command{
		Name:      "storylint",
		Usage:     "validate story page configuration files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "print per-section layout and script details"},
			&cli.BoolFlag{Name: "no-hooks", Usage: "do not check line hooks against the hooks the page provides"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), level))
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("no story files given")
	}
	log := newLogger(cmd.Bool("debug"))
	defer func() { _ = log.Sync() }()

	hooks := scenes.KnownHooks
	if cmd.Bool("no-hooks") {
		hooks = nil
	}

	failed := 0
	for _, path := range cmd.Args().Slice() {
		if !lintFile(log, path, hooks) {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errLintFailed, failed, cmd.NArg())
	}
	return nil
}

// lintFile 校验单个文件，逐条记录问题，返回是否通过
func lintFile(log *zap.Logger, path string, hooks []string) bool {
	log = log.With(zap.String("file", path))

	story, err := config.LoadStoryConfig(path, hooks)
	if err != nil {
		for _, issue := range multierr.Errors(err) {
			log.Error("invalid story", zap.Error(issue))
		}
		return false
	}

	top := config.PageMarginTop
	lines := 0
	for _, sec := range story.Sections {
		log.Debug("section",
			zap.String("id", sec.ID),
			zap.Float64("top", top),
			zap.Float64("height", sec.Height),
			zap.Int("controls", len(sec.Controls)),
			zap.Int("slots", len(sec.Slots)),
			zap.Int("lines", len(sec.Script)),
		)
		top += sec.Height
		lines += len(sec.Script)
	}
	log.Info("ok",
		zap.String("title", story.Title),
		zap.Int("sections", len(story.Sections)),
		zap.Int("lines", lines),
		zap.Float64("pageHeight", story.PageHeight()),
	)
	return true
}
