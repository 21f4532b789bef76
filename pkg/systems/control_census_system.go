package systems

import (
	"strings"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
)

// ignoredInputTypes 不计入 HP 的 input 类型
var ignoredInputTypes = map[string]bool{
	"hidden": true,
	"button": true,
	"file":   true,
	"image":  true,
	"reset":  true,
	"submit": true,
}

// IsCountable 判断控件是否计入 HP
// 未禁用、非只读的 textarea / select / input（排除 ignoredInputTypes）
func IsCountable(c *components.FormControlComponent) bool {
	if c == nil || c.Disabled || c.ReadOnly {
		return false
	}
	switch c.Kind {
	case config.ControlKindTextarea, config.ControlKindSelect:
		return true
	case config.ControlKindInput:
		ty := strings.ToLower(c.Type)
		if ty == "" {
			ty = "text"
		}
		return !ignoredInputTypes[ty]
	default:
		return false
	}
}

// ControlCensusSystem 表单控件统计
//
// 职责：
//   - 统计可计数控件（实现 game.ControlCensus）
//   - 观察实体变更：结构变更或 disabled/readonly/type 属性变更时通知监听者
//   - 提供控件查询、取值（行文本模板数据）和属性修改
type ControlCensusSystem struct {
	entityManager *ecs.EntityManager
}

// NewControlCensusSystem 创建控件统计系统
func NewControlCensusSystem(em *ecs.EntityManager) *ControlCensusSystem {
	return &ControlCensusSystem{entityManager: em}
}

// CountControls 返回当前可计数控件数量
func (s *ControlCensusSystem) CountControls() int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.FormControlComponent](s.entityManager) {
		ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.entityManager, id)
		if ok && IsCountable(ctrl) {
			count++
		}
	}
	return count
}

// Watch 注册变更监听
// 监听者通常是 HPCounter.RequestRecompute（按帧合并）
func (s *ControlCensusSystem) Watch(onChange func()) {
	if onChange == nil {
		return
	}
	s.entityManager.Observe(func(m ecs.Mutation) {
		switch m.Kind {
		case ecs.MutationChildList:
			onChange()
		case ecs.MutationAttributes:
			switch m.Attribute {
			case components.AttrDisabled, components.AttrReadOnly, components.AttrType:
				onChange()
			}
		}
	})
}

// Control 按名称查找控件
func (s *ControlCensusSystem) Control(name string) (ecs.EntityID, *components.FormControlComponent, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.FormControlComponent](s.entityManager) {
		ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.entityManager, id)
		if ok && ctrl.Name == name {
			return id, ctrl, true
		}
	}
	return 0, nil, false
}

// SetDisabled 修改控件禁用状态并发出属性变更通知
func (s *ControlCensusSystem) SetDisabled(name string, disabled bool) bool {
	id, ctrl, ok := s.Control(name)
	if !ok {
		return false
	}
	if ctrl.Disabled == disabled {
		return true
	}
	ctrl.Disabled = disabled
	s.entityManager.NotifyAttributeChanged(id, components.AttrDisabled)
	return true
}

// SetChecked 勾选/取消 checkbox，并同步它控制的其他控件
func (s *ControlCensusSystem) SetChecked(id ecs.EntityID, checked bool) {
	ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.entityManager, id)
	if !ok || ctrl.Disabled {
		return
	}
	ctrl.Checked = checked
	if checked {
		ctrl.Value = "on"
	} else {
		ctrl.Value = ""
	}
	s.entityManager.NotifyAttributeChanged(id, components.AttrChecked)

	for _, name := range ctrl.Enables {
		s.SetDisabled(name, !checked)
	}
}

// Values 返回 控件名 → 当前值（禁用控件也包含在内）
func (s *ControlCensusSystem) Values() map[string]string {
	values := make(map[string]string)
	for _, id := range ecs.GetEntitiesWith1[*components.FormControlComponent](s.entityManager) {
		ctrl, ok := ecs.GetComponent[*components.FormControlComponent](s.entityManager, id)
		if !ok || ctrl.Name == "" {
			continue
		}
		values[ctrl.Name] = strings.TrimSpace(ctrl.Value)
	}
	return values
}
