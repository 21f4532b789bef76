package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
	"github.com/decker502/questhud/pkg/game"
	"github.com/decker502/questhud/pkg/utils"
)

var (
	deltaAddColor = color.RGBA{110, 231, 140, 255}
	deltaSubColor = color.RGBA{248, 113, 113, 255}
)

// HPDeltaSystem HP 增减浮字
//
// 实现 game.DeltaRenderer：每次 ShowDelta 创建一个浮字实体，
// 浮字在 HUD 数字下方出现、上升并淡出，LifetimeSystem 在动画结束后移除它。
type HPDeltaSystem struct {
	entityManager *ecs.EntityManager
	font          *text.GoTextFace
}

// NewHPDeltaSystem 创建浮字系统
func NewHPDeltaSystem(em *ecs.EntityManager, font *text.GoTextFace) *HPDeltaSystem {
	return &HPDeltaSystem{entityManager: em, font: font}
}

// ShowDelta 创建浮字实体（delta 为 0 时不创建）
func (s *HPDeltaSystem) ShowDelta(delta int) {
	if delta == 0 {
		return
	}
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.HPDeltaComponent{
		Delta: delta,
		Text:  game.FormatDelta(delta),
	})
	ecs.AddComponent(s.entityManager, id, &components.PositionComponent{
		X: config.HUDX + config.HUDWidth - 70,
		Y: config.HUDY + config.HUDHeight + 6,
	})
	ecs.AddComponent(s.entityManager, id, &components.LifetimeComponent{
		MaxLifetime: config.HPDeltaDuration,
	})
}

// Update 推进浮字动画
func (s *HPDeltaSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.HPDeltaComponent](s.entityManager) {
		d, ok := ecs.GetComponent[*components.HPDeltaComponent](s.entityManager, id)
		if !ok {
			continue
		}
		d.Elapsed += deltaTime
	}
}

// DeltaOffset 返回浮字在 elapsed 秒时的上升距离和透明度
func DeltaOffset(elapsed float64) (rise, alpha float64) {
	p := utils.Clamp01(elapsed / config.HPDeltaDuration)
	rise = utils.Lerp(0, config.HPDeltaRise, utils.EaseOutCubic(p))
	alpha = 1 - utils.EaseInQuad(p)
	return rise, alpha
}

// Draw 绘制所有浮字
func (s *HPDeltaSystem) Draw(screen *ebiten.Image) {
	if s.font == nil {
		return
	}
	entities := ecs.GetEntitiesWith2[*components.HPDeltaComponent, *components.PositionComponent](s.entityManager)
	for _, id := range entities {
		d, _ := ecs.GetComponent[*components.HPDeltaComponent](s.entityManager, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)

		rise, alpha := DeltaOffset(d.Elapsed)
		clr := deltaAddColor
		if d.Delta < 0 {
			clr = deltaSubColor
		}

		op := &text.DrawOptions{}
		op.GeoM.Translate(pos.X, pos.Y-rise)
		op.ColorScale.ScaleWithColor(clr)
		op.ColorScale.ScaleAlpha(float32(alpha))
		text.Draw(screen, d.Text, s.font, op)
	}
}
