package systems

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
)

// textMaxLength 文本控件最大字符数
const textMaxLength = 64

// TextInputSystem 文本输入系统
// 处理获得焦点的文本类控件的键盘输入和光标闪烁
//
// 每次内容变化触发一次"输入事件"：通知监听者（HPCounter.RequestRecompute）
type TextInputSystem struct {
	entityManager *ecs.EntityManager
	onInput       func(id ecs.EntityID)
}

// NewTextInputSystem 创建文本输入系统
func NewTextInputSystem(em *ecs.EntityManager) *TextInputSystem {
	return &TextInputSystem{
		entityManager: em,
	}
}

// OnInput 设置输入事件监听
func (s *TextInputSystem) OnInput(fn func(id ecs.EntityID)) {
	s.onInput = fn
}

// IsTextEntry 控件是否接受键盘文本输入
func IsTextEntry(c *components.FormControlComponent) bool {
	if c.Kind == config.ControlKindTextarea {
		return true
	}
	if c.Kind != config.ControlKindInput {
		return false
	}
	switch c.Type {
	case "", "text", "search", "url", "tel", "email", "password", "number":
		return true
	default:
		return false
	}
}

// Focused 返回获得焦点的控件
func (s *TextInputSystem) Focused() (ecs.EntityID, *components.FormControlComponent, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.FormControlComponent](s.entityManager) {
		ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.entityManager, id)
		if ok && ctrl.Focused {
			return id, ctrl, true
		}
	}
	return 0, nil, false
}

// Focus 把焦点移到 id（id 为 0 时取消所有焦点）
func (s *TextInputSystem) Focus(id ecs.EntityID) {
	for _, other := range ecs.GetEntitiesWith1[*components.FormControlComponent](s.entityManager) {
		ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.entityManager, other)
		if !ok {
			continue
		}
		focus := other == id && IsTextEntry(ctrl) && !ctrl.Disabled && !ctrl.ReadOnly
		if focus && !ctrl.Focused {
			ctrl.CursorPosition = len([]rune(ctrl.Value))
			ctrl.CursorVisible = true
			ctrl.CursorBlinkTimer = 0
		}
		ctrl.Focused = focus
	}
}

// Update 更新文本输入系统
func (s *TextInputSystem) Update(deltaTime float64) {
	id, ctrl, ok := s.Focused()
	if !ok {
		return
	}

	// 焦点控件被禁用后失去焦点
	if ctrl.Disabled || ctrl.ReadOnly {
		ctrl.Focused = false
		return
	}

	s.updateCursorBlink(ctrl, deltaTime)

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ctrl.Focused = false
		return
	}

	changed := false
	if runes := ebiten.AppendInputChars(nil); len(runes) > 0 {
		changed = InsertText(ctrl, string(runes)) || changed
	}
	if repeatKey(ebiten.KeyBackspace) {
		changed = DeleteBefore(ctrl) || changed
	}
	if repeatKey(ebiten.KeyDelete) {
		changed = DeleteAfter(ctrl) || changed
	}
	if repeatKey(ebiten.KeyArrowLeft) && ctrl.CursorPosition > 0 {
		ctrl.CursorPosition--
	}
	if repeatKey(ebiten.KeyArrowRight) && ctrl.CursorPosition < len([]rune(ctrl.Value)) {
		ctrl.CursorPosition++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		ctrl.CursorPosition = 0
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		ctrl.CursorPosition = len([]rune(ctrl.Value))
	}

	if changed {
		ctrl.CursorBlinkTimer = 0
		ctrl.CursorVisible = true
		s.entityManager.NotifyAttributeChanged(id, components.AttrValue)
		if s.onInput != nil {
			s.onInput(id)
		}
	}
}

// updateCursorBlink 更新光标闪烁状态
func (s *TextInputSystem) updateCursorBlink(ctrl *components.FormControlComponent, deltaTime float64) {
	const blinkInterval = 0.5

	ctrl.CursorBlinkTimer += deltaTime
	if ctrl.CursorBlinkTimer >= blinkInterval {
		ctrl.CursorBlinkTimer = 0
		ctrl.CursorVisible = !ctrl.CursorVisible
	}
}

// InsertText 在光标位置插入文本，返回内容是否变化
func InsertText(ctrl *components.FormControlComponent, s string) bool {
	insert := []rune(s)
	filtered := insert[:0]
	for _, r := range insert {
		if r >= ' ' && r != 0x7f {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return false
	}

	runes := []rune(ctrl.Value)
	if len(runes)+len(filtered) > textMaxLength {
		log.Printf("[TextInputSystem] %s reached max length (%d)", ctrl.Name, textMaxLength)
		return false
	}

	pos := min(max(0, ctrl.CursorPosition), len(runes))
	result := make([]rune, 0, len(runes)+len(filtered))
	result = append(result, runes[:pos]...)
	result = append(result, filtered...)
	result = append(result, runes[pos:]...)

	ctrl.Value = string(result)
	ctrl.CursorPosition = pos + len(filtered)
	return true
}

// DeleteBefore 删除光标前的字符（退格）
func DeleteBefore(ctrl *components.FormControlComponent) bool {
	runes := []rune(ctrl.Value)
	pos := min(ctrl.CursorPosition, len(runes))
	if pos <= 0 {
		return false
	}
	ctrl.Value = string(append(runes[:pos-1:pos-1], runes[pos:]...))
	ctrl.CursorPosition = pos - 1
	return true
}

// DeleteAfter 删除光标后的字符（Delete 键）
func DeleteAfter(ctrl *components.FormControlComponent) bool {
	runes := []rune(ctrl.Value)
	pos := max(0, ctrl.CursorPosition)
	if pos >= len(runes) {
		return false
	}
	ctrl.Value = string(append(runes[:pos:pos], runes[pos+1:]...))
	return true
}
