package systems

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
)

var (
	hudBackground  = color.RGBA{20, 18, 32, 220}
	hudDragonColor = color.RGBA{74, 222, 128, 255}
	hudScrollColor = color.RGBA{250, 204, 21, 255}
	hudNumberColor = color.RGBA{255, 255, 255, 255}
	hudFlashColor  = color.RGBA{255, 236, 150, 255}
	hudDimColor    = color.RGBA{140, 140, 160, 255}
)

// 重播按钮（HUD 右侧）
const (
	replayButtonSize = 28.0
	replayButtonX    = config.HUDX + config.HUDWidth - replayButtonSize - 8
	replayButtonY    = config.HUDY + (config.HUDHeight-replayButtonSize)/2
)

// HUDSystem HP 面板
//
// 职责：
//   - 显示 HP 数字（SetValue 由 HPCounter.OnChange 驱动）
//   - Emphasize：三段强调动画（龙 → 卷轴 → 闪光）
//   - 重播按钮的点击检测
type HUDSystem struct {
	entityManager *ecs.EntityManager
	hudEntity     ecs.EntityID
	labelFont     *text.GoTextFace
	numberFont    *text.GoTextFace
}

// NewHUDSystem 创建 HUD 系统及其实体
func NewHUDSystem(em *ecs.EntityManager, labelFont, numberFont *text.GoTextFace) *HUDSystem {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.HUDComponent{})
	ecs.AddComponent(em, id, &components.PositionComponent{X: config.HUDX, Y: config.HUDY})
	return &HUDSystem{
		entityManager: em,
		hudEntity:     id,
		labelFont:     labelFont,
		numberFont:    numberFont,
	}
}

func (s *HUDSystem) hud() *components.HUDComponent {
	h, _ := ecs.GetComponent[*components.HUDComponent](s.entityManager, s.hudEntity)
	return h
}

// SetValue 更新显示值
func (s *HUDSystem) SetValue(v int) {
	if h := s.hud(); h != nil {
		h.Value = v
	}
}

// Value 返回当前显示值
func (s *HUDSystem) Value() int {
	if h := s.hud(); h != nil {
		return h.Value
	}
	return 0
}

// Emphasize 播放强调动画；动画进行中再次调用会从头开始
func (s *HUDSystem) Emphasize() {
	h := s.hud()
	if h == nil {
		return
	}
	log.Printf("[HUDSystem] Emphasize HP")
	h.Pulsing = true
	h.PulseElapsed = 0
	h.Stage = components.HUDPulseDragon
}

// Stage 返回当前动画阶段
func (s *HUDSystem) Stage() components.HUDPulseStage {
	if h := s.hud(); h != nil {
		return h.Stage
	}
	return components.HUDPulseIdle
}

// PulseStageAt 返回动画开始 elapsed 秒后的阶段
func PulseStageAt(elapsed float64) components.HUDPulseStage {
	switch {
	case elapsed < 0:
		return components.HUDPulseIdle
	case elapsed < config.HUDPulseDragonEnd.Seconds():
		return components.HUDPulseDragon
	case elapsed < config.HUDPulseScrollEnd.Seconds():
		return components.HUDPulseScroll
	case elapsed < config.HUDPulseFlashEnd.Seconds():
		return components.HUDPulseFlash
	default:
		return components.HUDPulseIdle
	}
}

// Update 推进强调动画
func (s *HUDSystem) Update(deltaTime float64) {
	h := s.hud()
	if h == nil || !h.Pulsing {
		return
	}
	h.PulseElapsed += deltaTime
	h.Stage = PulseStageAt(h.PulseElapsed)
	if h.Stage == components.HUDPulseIdle {
		h.Pulsing = false
	}
}

// HitReplay 判断屏幕坐标是否落在重播按钮上
func (s *HUDSystem) HitReplay(x, y int) bool {
	px, py := float64(x), float64(y)
	return px >= replayButtonX && px < replayButtonX+replayButtonSize &&
		py >= replayButtonY && py < replayButtonY+replayButtonSize
}

// Draw 绘制 HP 面板
func (s *HUDSystem) Draw(screen *ebiten.Image) {
	h := s.hud()
	if h == nil {
		return
	}

	x, y := float32(config.HUDX), float32(config.HUDY)
	vector.DrawFilledRect(screen, x, y, config.HUDWidth, config.HUDHeight, hudBackground, false)

	// 龙、卷轴两个图标用色块表示；当前阶段的图标放大高亮
	dragonScale, scrollScale := float32(1), float32(1)
	dragonColor, scrollColor := color.Color(hudDimColor), color.Color(hudDimColor)
	switch h.Stage {
	case components.HUDPulseDragon:
		dragonScale, dragonColor = 1.4, hudDragonColor
	case components.HUDPulseScroll:
		scrollScale, scrollColor = 1.4, hudScrollColor
	}
	cy := y + config.HUDHeight/2
	vector.DrawFilledCircle(screen, x+22, cy, 9*dragonScale, dragonColor, true)
	vector.DrawFilledRect(screen, x+84-7*scrollScale, cy-9*scrollScale, 14*scrollScale, 18*scrollScale, scrollColor, false)

	if s.labelFont != nil {
		op := &text.DrawOptions{}
		op.LayoutOptions.SecondaryAlign = text.AlignCenter
		op.GeoM.Translate(float64(x)+38, float64(cy))
		op.ColorScale.ScaleWithColor(hudDimColor)
		text.Draw(screen, "HP", s.labelFont, op)
	}

	if s.numberFont != nil {
		clr := color.Color(hudNumberColor)
		if h.Stage == components.HUDPulseFlash {
			clr = hudFlashColor
		}
		op := &text.DrawOptions{}
		op.LayoutOptions.SecondaryAlign = text.AlignCenter
		op.GeoM.Translate(float64(x)+104, float64(cy))
		op.ColorScale.ScaleWithColor(clr)
		text.Draw(screen, fmt.Sprintf("%d", h.Value), s.numberFont, op)
	}

	// 重播按钮 ▶
	bx, by := float32(replayButtonX), float32(replayButtonY)
	vector.StrokeRect(screen, bx, by, replayButtonSize, replayButtonSize, 1.5, hudDimColor, false)
	vector.StrokeLine(screen, bx+10, by+7, bx+21, by+14, 2, hudNumberColor, true)
	vector.StrokeLine(screen, bx+21, by+14, bx+10, by+21, 2, hudNumberColor, true)
	vector.StrokeLine(screen, bx+10, by+21, bx+10, by+7, 2, hudNumberColor, true)
}
