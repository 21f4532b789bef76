package scenes

import (
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/dialog"
	"github.com/decker502/questhud/pkg/ecs"
	"github.com/decker502/questhud/pkg/entities"
	"github.com/decker502/questhud/pkg/game"
	"github.com/decker502/questhud/pkg/remote"
	"github.com/decker502/questhud/pkg/systems"
	"github.com/decker502/questhud/pkg/utils"
)

// HookEmphasizeHP 行钩子：播放 HP 强调动画
const HookEmphasizeHP = "emphasize_hp"

// KnownHooks 场景提供的钩子名称（用于故事配置校验）
var KnownHooks = []string{HookEmphasizeHP}

// RemoteChannel 远程控制通道（由 remote.Server 实现）
type RemoteChannel interface {
	Commands() <-chan remote.Command
	Broadcast(ev remote.Event)
}

// StorySceneDeps 故事场景依赖
type StorySceneDeps struct {
	Story     *config.StoryConfig
	Store     game.SessionStore     // 会话存储，重新加载时保持不变
	Speech    dialog.Engine         // 可为 nil（仅文字）
	Resources *game.ResourceManager // 字体
	Remote    RemoteChannel         // 可为 nil
}

// StoryScene 故事页面场景
//
// 组装页面实体和所有系统：
//   - 滚动 → ScrollTracker（按帧合并）→ 章节变化 → 自动播放对话
//   - 控件变更 → HPCounter（按帧合并）→ HUD 数字
//   - 卷轴槽位 → HPCounter 隐藏增量 → 浮字
type StoryScene struct {
	story     *config.StoryConfig
	em        *ecs.EntityManager
	scheduler *utils.FrameScheduler
	remote    RemoteChannel

	census    *systems.ControlCensusSystem
	hp        *game.HPCounter
	hud       *systems.HUDSystem
	deltas    *systems.HPDeltaSystem
	lifetime  *systems.LifetimeSystem
	slots     *systems.SlotWatchSystem
	scroll    *systems.ScrollSystem
	tracker   *game.ScrollTracker
	gate      *game.SessionGate
	sequencer *dialog.Sequencer

	textInput    *systems.TextInputSystem
	pageInput    *systems.PageInputSystem
	dialogInput  *systems.DialogInputSystem
	pageRender   *systems.PageRenderSystem
	dialogRender *systems.DialogRenderSystem
}

// NewStoryScene 创建故事场景并执行启动流程
func NewStoryScene(deps StorySceneDeps) (*StoryScene, error) {
	if deps.Story == nil {
		return nil, fmt.Errorf("story scene: story config is required")
	}
	if deps.Store == nil {
		deps.Store = game.NewMemorySessionStore()
	}
	if deps.Resources == nil {
		deps.Resources = game.NewResourceManager(nil)
	}

	s := &StoryScene{
		story:     deps.Story,
		em:        ecs.NewEntityManager(),
		scheduler: utils.NewFrameScheduler(),
		remote:    deps.Remote,
	}

	rm := deps.Resources
	titleFont := rm.MustLoadFont("", 30)
	bodyFont := rm.MustLoadFont("", 18)
	hintFont := rm.MustLoadFont("", 14)
	dialogFont := rm.MustLoadFont("", config.DialogFontSize)
	numberFont := rm.MustLoadFont("", 26)

	// 1. HUD 与 HP
	s.hud = systems.NewHUDSystem(s.em, hintFont, numberFont)
	s.deltas = systems.NewHPDeltaSystem(s.em, bodyFont)
	s.lifetime = systems.NewLifetimeSystem(s.em)
	s.census = systems.NewControlCensusSystem(s.em)
	s.hp = game.NewHPCounter(deps.Store, s.census, s.deltas, s.scheduler)
	s.hp.OnChange(s.onHPChange)
	s.census.Watch(s.hp.RequestRecompute)

	// 2. 页面实体
	anchors := entities.NewStoryPage(s.em, s.story)
	s.slots = systems.NewSlotWatchSystem(s.em, s.hp)

	// 3. 滚动与章节
	s.scroll = systems.NewScrollSystem(s.story.PageHeight(), config.WindowHeight)
	s.tracker = game.NewScrollTracker(s.scroll, anchors, s.scheduler)
	s.scroll.OnScroll(s.tracker.OnScroll)

	// 4. 对话
	s.gate = game.NewSessionGate(deps.Store)
	hooks := dialog.HookRegistry{
		HookEmphasizeHP: func() error {
			s.hud.Emphasize()
			return nil
		},
	}
	library := dialog.BuildLibrary(s.story, hooks)
	speech := dialog.NewSpeechCoordinator(deps.Speech, dialog.SpeakerGenders(s.story))
	typewriter := dialog.NewTypewriter(config.TypewriterTickInterval, config.TypewriterFastStep)
	s.sequencer = dialog.NewSequencer(library, s.gate, typewriter, speech)
	s.sequencer.SetTextData(s.census.Values)
	s.tracker.OnChange(s.onSectionChange)

	// 5. 输入与渲染
	s.textInput = systems.NewTextInputSystem(s.em)
	s.textInput.OnInput(s.onControlInput)
	s.pageInput = systems.NewPageInputSystem(s.em, s.census, s.textInput, s.scroll)
	s.pageInput.OnInput(s.onControlInput)
	s.dialogInput = systems.NewDialogInputSystem(s.sequencer)
	s.pageRender = systems.NewPageRenderSystem(s.em, s.scroll, titleFont, bodyFont)
	s.dialogRender = systems.NewDialogRenderSystem(s.sequencer, s.speakerName, bodyFont, dialogFont, hintFont)

	s.start()
	return s, nil
}

// start 启动流程：统计控件 → 计算当前章节 → 自动播放当前章节
func (s *StoryScene) start() {
	s.hp.Recompute()
	s.tracker.Recompute()

	current := s.tracker.CurrentSection()
	log.Printf("[StoryScene] Started at section %q, HP %d", current, s.hp.DisplayValue())
	s.sequencer.Play(current, false)
}

func (s *StoryScene) onHPChange(value int) {
	s.hud.SetValue(value)
	if s.remote != nil {
		s.remote.Broadcast(remote.HPChanged(value))
	}
}

func (s *StoryScene) onSectionChange(sectionID string) {
	if s.remote != nil {
		s.remote.Broadcast(remote.SectionChanged(sectionID))
	}
	s.sequencer.Play(sectionID, false)
}

// onControlInput 控件输入事件：可计数控件的输入请求重新统计
func (s *StoryScene) onControlInput(id ecs.EntityID) {
	ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.em, id)
	if ok && systems.IsCountable(ctrl) {
		s.hp.RequestRecompute()
	}
}

func (s *StoryScene) speakerName(glyph string) string {
	if sp, ok := s.story.Speaker(glyph); ok && sp.Name != "" {
		return sp.Name
	}
	return glyph
}

// Replay 强制重播章节对话，sectionID 为空时重播当前章节
func (s *StoryScene) Replay(sectionID string) bool {
	if sectionID == "" {
		sectionID = s.tracker.CurrentSection()
	}
	log.Printf("[StoryScene] Replay %s", sectionID)
	return s.sequencer.Play(sectionID, true)
}

// CurrentSection 当前章节
func (s *StoryScene) CurrentSection() string {
	return s.tracker.CurrentSection()
}

// HP 当前显示的 HP
func (s *StoryScene) HP() int {
	return s.hp.DisplayValue()
}

// Update 更新场景
//
// 顺序：
//  1. 执行上一帧合并的任务（章节重新计算、HP 重新统计）
//  2. 远程命令
//  3. 输入（对话框打开时页面不接收输入）
//  4. 对话、槽位、动画
//  5. 清理到期实体
func (s *StoryScene) Update(deltaTime float64) {
	s.beginFrame()
	s.handleInput(deltaTime)
	s.endFrame(deltaTime)
}

func (s *StoryScene) beginFrame() {
	s.scheduler.RunFrame()
	s.pollRemote()
}

func (s *StoryScene) handleInput(deltaTime float64) {
	if s.dialogInput.Update(deltaTime) {
		return
	}

	pointer := utils.GetInputState(0)
	if pointer.JustPressed {
		if s.hud.HitReplay(pointer.X, pointer.Y) {
			s.Replay("")
		} else {
			s.pageInput.HandleClick(float64(pointer.X), float64(pointer.Y))
		}
	}

	s.textInput.Update(deltaTime)
	_, _, typing := s.textInput.Focused()
	s.scroll.Update(deltaTime, !typing)
}

func (s *StoryScene) endFrame(deltaTime float64) {
	s.sequencer.Update(time.Duration(deltaTime * float64(time.Second)))
	s.slots.Update(deltaTime)
	s.hud.Update(deltaTime)
	s.deltas.Update(deltaTime)
	s.lifetime.Update(deltaTime)
	s.em.RemoveMarkedEntities()
}

// pollRemote 非阻塞地执行所有待处理的远程命令
func (s *StoryScene) pollRemote() {
	if s.remote == nil {
		return
	}
	for {
		select {
		case cmd := <-s.remote.Commands():
			s.handleCommand(cmd)
		default:
			return
		}
	}
}

func (s *StoryScene) handleCommand(cmd remote.Command) {
	log.Printf("[StoryScene] Remote command %s", cmd.Type)
	switch cmd.Type {
	case remote.CommandReplay:
		s.Replay(cmd.Section)
	case remote.CommandPulse:
		s.hud.Emphasize()
	case remote.CommandScroll:
		s.scroll.ScrollTo(cmd.Offset)
	}
}

// Draw 渲染：页面 → HUD → 浮字 → 对话框
func (s *StoryScene) Draw(screen *ebiten.Image) {
	s.pageRender.Draw(screen)
	s.hud.Draw(screen)
	s.deltas.Draw(screen)
	s.dialogRender.Draw(screen)
}

// Dispose 关闭对话（取消朗读）
func (s *StoryScene) Dispose() {
	s.sequencer.Close()
}
