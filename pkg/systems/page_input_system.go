package systems

import (
	"log"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/ecs"
	"github.com/decker502/questhud/pkg/game"
	"github.com/decker502/questhud/pkg/utils"
)

// PageInputSystem 页面点击处理
//
// 点击坐标先换算为文档坐标，再命中测试可点击实体：
//   - 文本控件：获得焦点
//   - checkbox：切换勾选（同步 Enables 列表中控件的禁用状态）
//   - select：切换到下一个选项
//   - 卷轴槽位：放入/取出卷轴
//   - 空白处：取消焦点
type PageInputSystem struct {
	entityManager *ecs.EntityManager
	census        *ControlCensusSystem
	textInput     *TextInputSystem
	scroll        game.ScrollSource
	onInput       func(id ecs.EntityID)
}

// NewPageInputSystem 创建页面点击系统
func NewPageInputSystem(em *ecs.EntityManager, census *ControlCensusSystem, textInput *TextInputSystem, scroll game.ScrollSource) *PageInputSystem {
	return &PageInputSystem{
		entityManager: em,
		census:        census,
		textInput:     textInput,
		scroll:        scroll,
	}
}

// OnInput 设置输入事件监听（checkbox / select 的值变化）
func (s *PageInputSystem) OnInput(fn func(id ecs.EntityID)) {
	s.onInput = fn
}

// HandleClick 处理一次点击（屏幕坐标）
func (s *PageInputSystem) HandleClick(screenX, screenY float64) {
	docY := screenY
	if s.scroll != nil {
		docY += s.scroll.ScrollOffset()
	}

	id, ok := s.hitTest(screenX, docY)
	if !ok {
		s.textInput.Focus(0)
		return
	}

	if ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.entityManager, id); ok {
		s.clickControl(id, ctrl)
		return
	}

	if ecs.HasComponent[*components.SlotComponent](s.entityManager, id) {
		s.textInput.Focus(0)
		ToggleSlot(s.entityManager, id)
	}
}

func (s *PageInputSystem) clickControl(id ecs.EntityID, ctrl *components.FormControlComponent) {
	if ctrl.Disabled {
		return
	}

	switch {
	case IsTextEntry(ctrl):
		s.textInput.Focus(id)

	case ctrl.Type == "checkbox" || ctrl.Type == "radio":
		s.textInput.Focus(0)
		s.census.SetChecked(id, !ctrl.Checked)
		log.Printf("[PageInputSystem] %s checked=%v", ctrl.Name, ctrl.Checked)
		s.fireInput(id)

	case len(ctrl.Options) > 0 && !ctrl.ReadOnly:
		s.textInput.Focus(0)
		ctrl.OptionIndex = (ctrl.OptionIndex + 1) % len(ctrl.Options)
		ctrl.Value = ctrl.Options[ctrl.OptionIndex]
		s.entityManager.NotifyAttributeChanged(id, components.AttrValue)
		s.fireInput(id)

	default:
		s.textInput.Focus(0)
	}
}

func (s *PageInputSystem) fireInput(id ecs.EntityID) {
	if s.onInput != nil {
		s.onInput(id)
	}
}

// hitTest 返回文档坐标处的可点击实体（后创建的优先）
func (s *PageInputSystem) hitTest(x, y float64) (ecs.EntityID, bool) {
	entities := ecs.GetEntitiesWith2[*components.ClickableComponent, *components.PositionComponent](s.entityManager)
	for i := len(entities) - 1; i >= 0; i-- {
		id := entities[i]
		click, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !click.IsEnabled {
			continue
		}
		if utils.PointInRect(x, y, pos.X, pos.Y, click.Width, click.Height) {
			return id, true
		}
	}
	return 0, false
}
