// Package app 提供应用的核心包装器
//
// 该包把启动流程从 main 包提取出来：加载故事配置、打开会话存储、
// 启动语音和远程控制，并用场景管理器驱动故事场景。
package app

import (
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/multierr"

	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/embedded"
	"github.com/decker502/questhud/pkg/game"
	"github.com/decker502/questhud/pkg/remote"
	"github.com/decker502/questhud/pkg/scenes"
	"github.com/decker502/questhud/pkg/speech"
)

// EmbeddedStoryPath 嵌入的默认故事配置
const EmbeddedStoryPath = "data/story.yaml"

// Config 定义应用启动配置
type Config struct {
	config.AppConfig
	// SessionID 会话 ID，同一会话内的对话播放记录和隐藏卷轴计数共享
	SessionID string
}

// App 实现 ebiten.Game 接口
type App struct {
	cfg          Config
	sceneManager *game.SceneManager
	store        game.SessionStore
	remote       *remote.Server

	pendingWindowSizeReset   bool
	windowSizeResetCountdown int
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源
// （使用外部故事文件时可以不初始化）。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if cfg.SessionID == "" {
		cfg.SessionID = game.NewSessionID()
	}

	a := &App{cfg: cfg}

	// 启动前先校验一次故事配置，失败时直接退出
	if _, err := a.loadStory(); err != nil {
		return nil, err
	}

	a.store = game.OpenSessionStore(cfg.AppName, cfg.SessionID)
	engine := speech.Open(cfg.Speech)

	var fontFS fs.FS
	if embedded.IsInitialized() {
		if sub, err := fs.Sub(embedded.FS(), "data"); err == nil {
			fontFS = sub
		}
	}
	resources := game.NewResourceManager(fontFS)

	if cfg.Remote.Addr != "" {
		server := remote.NewServer()
		if err := server.Start(cfg.Remote.Addr); err != nil {
			return nil, fmt.Errorf("远程控制启动失败: %w", err)
		}
		log.Printf("[App] Remote control listening on %s", server.Addr())
		a.remote = server
	}

	a.sceneManager = game.NewSceneManager()
	a.sceneManager.SetSceneFactory(func() (game.Scene, error) {
		story, err := a.loadStory()
		if err != nil {
			return nil, err
		}
		deps := scenes.StorySceneDeps{
			Story:     story,
			Store:     a.store,
			Speech:    engine,
			Resources: resources,
		}
		if a.remote != nil {
			deps.Remote = a.remote
		}
		return scenes.NewStoryScene(deps)
	})
	if err := a.sceneManager.Reload(); err != nil {
		_ = a.Close(false)
		return nil, err
	}

	log.Printf("[App] Session %s started", cfg.SessionID)
	return a, nil
}

// loadStory 加载故事配置：外部文件优先，否则使用嵌入的默认故事
func (a *App) loadStory() (*config.StoryConfig, error) {
	if a.cfg.StoryPath != "" {
		story, err := config.LoadStoryConfig(a.cfg.StoryPath, scenes.KnownHooks)
		if err != nil {
			return nil, fmt.Errorf("故事配置加载失败: %w", err)
		}
		return story, nil
	}

	data, err := embedded.ReadFile(EmbeddedStoryPath)
	if err != nil {
		return nil, fmt.Errorf("读取嵌入故事配置失败: %w", err)
	}
	story, err := config.ParseStoryConfig(data, scenes.KnownHooks)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EmbeddedStoryPath, err)
	}
	return story, nil
}

// Update 更新逻辑，每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F5 重新加载页面（会话存储保持不变）
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		if err := a.sceneManager.Reload(); err != nil {
			log.Printf("[App] Reload failed: %v", err)
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			// 退出全屏后等待几帧再恢复窗口大小
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 全屏时用黑色 letterbox 并线性缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// SessionID 返回当前会话 ID
func (a *App) SessionID() string {
	return a.cfg.SessionID
}

// Close 释放场景、关闭远程控制
// clean 为 true（正常退出，相当于关闭浏览器标签页）时清空会话存储
func (a *App) Close(clean bool) error {
	var err error
	if a.sceneManager != nil {
		a.sceneManager.Dispose()
	}
	if a.remote != nil {
		err = multierr.Append(err, a.remote.Close())
	}
	if clean && a.store != nil {
		err = multierr.Append(err, a.store.Clear())
	}
	return err
}
