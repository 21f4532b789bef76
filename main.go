package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"github.com/decker502/questhud/pkg/app"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/embedded"
)

const embeddedAppConfig = "data/app.yaml"

func main() {
	embedded.Init(dataFS)

	cmd := &cli.Command{
		Name:  "questhud",
		Usage: "scrolling quest page with an HP counter and a character dialog overlay",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML) on top of the embedded defaults"},
			&cli.StringFlag{Name: "story", Aliases: []string{"s"}, Usage: "load the story page from `FILE` instead of the embedded one"},
			&cli.StringFlag{Name: "session", Usage: "reuse session `ID` (played dialogs and hidden scrolls survive restarts)"},
			&cli.StringFlag{Name: "remote", Usage: "serve the remote control websocket on `ADDR`"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable verbose logging"},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if cmd.IsSet("story") {
		cfg.StoryPath = cmd.String("story")
	}
	if cmd.IsSet("remote") {
		cfg.Remote.Addr = cmd.String("remote")
	}
	if cmd.Bool("verbose") {
		cfg.Verbose = true
	}

	application, err := app.NewApp(app.Config{
		AppConfig: *cfg,
		SessionID: cmd.String("session"),
	})
	if err != nil {
		return fmt.Errorf("应用初始化失败: %w", err)
	}

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("QuestHUD")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(application)
	// 指定了 --session 时保留会话，否则正常退出即结束会话
	clean := runErr == nil && !cmd.IsSet("session")
	if err := application.Close(clean); err != nil {
		log.Printf("[Main] Close: %v", err)
	}
	return runErr
}

// loadConfig 配置分层：嵌入的 data/app.yaml → --config 文件 → 环境变量
func loadConfig(path string) (*config.AppConfig, error) {
	data, err := embedded.ReadFile(embeddedAppConfig)
	if err != nil {
		return nil, fmt.Errorf("读取嵌入配置失败: %w", err)
	}
	cfg, err := config.ParseAppConfig(data)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
