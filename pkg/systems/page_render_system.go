package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
	"github.com/decker502/questhud/pkg/game"
	"github.com/decker502/questhud/pkg/utils"
)

var (
	pageBackground    = color.RGBA{18, 16, 30, 255}
	sectionStripe     = color.RGBA{34, 30, 56, 255}
	sectionTitleColor = color.RGBA{250, 204, 21, 255}
	bodyTextColor     = color.RGBA{220, 220, 230, 255}
	labelColor        = color.RGBA{170, 170, 190, 255}
	controlFill       = color.RGBA{40, 36, 64, 255}
	controlBorder     = color.RGBA{110, 100, 160, 255}
	controlFocus      = color.RGBA{250, 204, 21, 255}
	controlDisabled   = color.RGBA{60, 60, 70, 255}
	controlValueColor = color.RGBA{240, 240, 240, 255}
	slotEmpty         = color.RGBA{70, 60, 40, 255}
	slotFilled        = color.RGBA{214, 170, 90, 255}
)

const bodyLineHeight = 26.0

// PageRenderSystem 页面渲染系统
//
// 按滚动偏移把章节、表单控件和卷轴槽位从文档坐标绘制到屏幕。
// 视口外的实体不绘制。
type PageRenderSystem struct {
	entityManager *ecs.EntityManager
	scroll        game.ScrollSource
	titleFont     *text.GoTextFace
	bodyFont      *text.GoTextFace
}

// NewPageRenderSystem 创建页面渲染系统
func NewPageRenderSystem(em *ecs.EntityManager, scroll game.ScrollSource, titleFont, bodyFont *text.GoTextFace) *PageRenderSystem {
	return &PageRenderSystem{
		entityManager: em,
		scroll:        scroll,
		titleFont:     titleFont,
		bodyFont:      bodyFont,
	}
}

// Draw 渲染页面
func (s *PageRenderSystem) Draw(screen *ebiten.Image) {
	screen.Fill(pageBackground)

	offset := s.scroll.ScrollOffset()
	s.drawSections(screen, offset)
	s.drawControls(screen, offset)
	s.drawSlots(screen, offset)
}

// visible 文档区间 [top, top+height) 是否与视口相交
func visible(top, height, offset float64) bool {
	return top+height > offset && top < offset+config.WindowHeight
}

func (s *PageRenderSystem) drawSections(screen *ebiten.Image, offset float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.SectionComponent](s.entityManager) {
		sec, _ := ecs.GetComponent[*components.SectionComponent](s.entityManager, id)
		if !visible(sec.Top, sec.Height, offset) {
			continue
		}
		y := sec.Top - offset

		if sec.Index%2 == 1 {
			vector.DrawFilledRect(screen, 0, float32(y), config.WindowWidth, float32(sec.Height), sectionStripe, false)
		}

		if s.titleFont != nil && sec.Title != "" {
			op := &text.DrawOptions{}
			op.GeoM.Translate(config.PageContentX, y+48)
			op.ColorScale.ScaleWithColor(sectionTitleColor)
			text.Draw(screen, sec.Title, s.titleFont, op)
		}

		if s.bodyFont == nil {
			continue
		}
		lineY := y + 100
		for _, paragraph := range sec.Body {
			for _, line := range utils.WrapTextFace(paragraph, s.bodyFont, config.PageContentWidth) {
				op := &text.DrawOptions{}
				op.GeoM.Translate(config.PageContentX, lineY)
				op.ColorScale.ScaleWithColor(bodyTextColor)
				text.Draw(screen, line, s.bodyFont, op)
				lineY += bodyLineHeight
			}
			lineY += bodyLineHeight / 2
		}
	}
}

func (s *PageRenderSystem) drawControls(screen *ebiten.Image, offset float64) {
	entities := ecs.GetEntitiesWith2[*components.FormControlComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		ctrl, _ := ecs.GetComponent[*components.FormControlComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !visible(pos.Y, config.ControlHeight, offset) {
			continue
		}
		x, y := pos.X, pos.Y-offset

		if s.bodyFont != nil && ctrl.Label != "" {
			op := &text.DrawOptions{}
			op.GeoM.Translate(config.PageContentX, y+6)
			op.ColorScale.ScaleWithColor(labelColor)
			text.Draw(screen, ctrl.Label, s.bodyFont, op)
		}

		fill := controlFill
		if ctrl.Disabled || ctrl.ReadOnly {
			fill = controlDisabled
		}
		border := controlBorder
		if ctrl.Focused {
			border = controlFocus
		}

		if ctrl.Type == "checkbox" || ctrl.Type == "radio" {
			size := float32(config.ControlWidth(ctrl.Type))
			vector.DrawFilledRect(screen, float32(x), float32(y+4), size, size, fill, false)
			vector.StrokeRect(screen, float32(x), float32(y+4), size, size, 2, border, false)
			if ctrl.Checked {
				vector.DrawFilledRect(screen, float32(x)+6, float32(y+10), size-12, size-12, controlFocus, false)
			}
			continue
		}

		w := float32(config.ControlWidth(ctrl.Type))
		vector.DrawFilledRect(screen, float32(x), float32(y), w, config.ControlHeight, fill, false)
		vector.StrokeRect(screen, float32(x), float32(y), w, config.ControlHeight, 1.5, border, false)

		if s.bodyFont == nil {
			continue
		}
		value := ctrl.Value
		if ctrl.Type == "password" {
			value = maskPassword(value)
		}
		if len(ctrl.Options) > 0 {
			value += "  ▾"
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+10, y+6)
		op.ColorScale.ScaleWithColor(controlValueColor)
		text.Draw(screen, value, s.bodyFont, op)

		if ctrl.Focused && ctrl.CursorVisible {
			runes := []rune(value)
			pos := min(max(0, ctrl.CursorPosition), len(runes))
			cx := x + 10 + text.Advance(string(runes[:pos]), s.bodyFont)
			vector.StrokeLine(screen, float32(cx), float32(y+6), float32(cx), float32(y+config.ControlHeight-6), 1.5, controlValueColor, false)
		}
	}
}

func (s *PageRenderSystem) drawSlots(screen *ebiten.Image, offset float64) {
	entities := ecs.GetEntitiesWith2[*components.SlotComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		slot, _ := ecs.GetComponent[*components.SlotComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
		if !visible(pos.Y, config.SlotSize, offset) {
			continue
		}
		x, y := float32(pos.X), float32(pos.Y-offset)

		vector.DrawFilledRect(screen, x, y, config.SlotSize, config.SlotSize, slotEmpty, false)
		vector.StrokeRect(screen, x, y, config.SlotSize, config.SlotSize, 2, controlBorder, false)
		if slot.Items > 0 {
			// 卷轴
			vector.DrawFilledRect(screen, x+10, y+14, config.SlotSize-20, config.SlotSize-28, slotFilled, false)
			vector.DrawFilledCircle(screen, x+10, y+config.SlotSize/2, 6, slotFilled, true)
			vector.DrawFilledCircle(screen, x+config.SlotSize-10, y+config.SlotSize/2, 6, slotFilled, true)
		}
	}
}

func maskPassword(v string) string {
	runes := []rune(v)
	for i := range runes {
		runes[i] = '•'
	}
	return string(runes)
}
