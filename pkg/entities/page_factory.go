package entities

import (
	"log"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
	"github.com/decker502/questhud/pkg/game"
)

// 章节内布局
const (
	sectionBottomPadding = 40.0
	slotGap              = 16.0
)

// NewStoryPage 按故事配置创建页面实体
//
// 每个章节创建一个 SectionComponent 实体，其控件和卷轴槽位
// 从章节底部向上排列（槽位一行在最下方，控件按顺序在其上方）。
//
// 返回：
//   - 章节锚点（文档顺序），用于 ScrollTracker
func NewStoryPage(em *ecs.EntityManager, story *config.StoryConfig) []game.SectionAnchor {
	anchors := make([]game.SectionAnchor, 0, len(story.Sections))
	top := config.PageMarginTop

	for i, sec := range story.Sections {
		id := em.CreateEntity()
		ecs.AddComponent(em, id, &components.SectionComponent{
			ID:     sec.ID,
			Title:  sec.Title,
			Body:   sec.Body,
			Index:  i,
			Top:    top,
			Height: sec.Height,
		})
		anchors = append(anchors, game.SectionAnchor{ID: sec.ID, Top: top})

		bottom := top + sec.Height - sectionBottomPadding
		if len(sec.Slots) > 0 {
			slotY := bottom - config.SlotSize
			for j, slot := range sec.Slots {
				NewSlot(em, sec.ID, slot, config.PageContentX+float64(j)*(config.SlotSize+slotGap), slotY)
			}
			bottom = slotY - slotGap
		}

		controlTop := bottom - float64(len(sec.Controls))*config.ControlSpacing
		for j, ctl := range sec.Controls {
			NewFormControl(em, sec.ID, ctl, config.PageContentX+config.ControlLabelWidth, controlTop+float64(j)*config.ControlSpacing)
		}

		top += sec.Height
	}

	log.Printf("[PageFactory] Created %d sections (page height %.0f)", len(anchors), top)
	return anchors
}

// NewFormControl 创建表单控件实体（文档坐标）
func NewFormControl(em *ecs.EntityManager, sectionID string, ctl config.ControlConfig, x, y float64) ecs.EntityID {
	ctrl := &components.FormControlComponent{
		SectionID: sectionID,
		Name:      ctl.Name,
		Label:     ctl.Label,
		Kind:      ctl.Kind,
		Type:      ctl.Type,
		Value:     ctl.Value,
		Options:   ctl.Options,
		Disabled:  ctl.Disabled,
		ReadOnly:  ctl.ReadOnly,
		Enables:   ctl.Enables,
	}

	switch {
	case ctl.Kind == config.ControlKindSelect && len(ctl.Options) > 0:
		ctrl.OptionIndex = 0
		for k, opt := range ctl.Options {
			if opt == ctl.Value {
				ctrl.OptionIndex = k
			}
		}
		ctrl.Value = ctl.Options[ctrl.OptionIndex]
	case ctl.Type == "checkbox" || ctl.Type == "radio":
		ctrl.Checked = ctl.Value == "on" || ctl.Value == "true"
		if ctrl.Checked {
			ctrl.Value = "on"
		} else {
			ctrl.Value = ""
		}
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, ctrl)
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.ClickableComponent{
		Width:     config.ControlWidth(ctl.Type),
		Height:    config.ControlHeight,
		IsEnabled: true,
	})
	return id
}

// NewSlot 创建卷轴槽位实体（文档坐标）
// 初始状态写入 WasFilled，启动时不产生 HP 增减
func NewSlot(em *ecs.EntityManager, sectionID string, slot config.SlotConfig, x, y float64) ecs.EntityID {
	items := 0
	if slot.Filled {
		items = 1
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.SlotComponent{
		SectionID: sectionID,
		Name:      slot.Name,
		Items:     items,
		WasFilled: slot.Filled,
	})
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.ClickableComponent{
		Width:     config.SlotSize,
		Height:    config.SlotSize,
		IsEnabled: true,
	})
	return id
}
