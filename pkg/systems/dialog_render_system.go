package systems

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/dialog"
	"github.com/decker502/questhud/pkg/utils"
)

// DialogViewSource 对话框快照来源（由 dialog.Sequencer 实现）
type DialogViewSource interface {
	View() dialog.View
}

var (
	dialogBackdrop   = color.RGBA{0, 0, 0, 110}
	dialogBoxColor   = color.RGBA{28, 25, 45, 240}
	dialogBorder     = color.RGBA{250, 204, 21, 255}
	dialogNameColor  = color.RGBA{250, 204, 21, 255}
	dialogTextColor  = color.RGBA{240, 240, 240, 255}
	dialogHintColor  = color.RGBA{150, 150, 170, 255}
	dialogSpeakColor = color.RGBA{110, 231, 140, 255}
)

const dialogLineHeight = 28.0

// DialogRenderSystem 对话框渲染系统
//
// 职责：
//   - 渲染半透明遮罩和对话框背景
//   - 渲染说话人名称、逐字显示的文本（自动换行）
//   - 渲染朗读指示和操作提示
type DialogRenderSystem struct {
	source      DialogViewSource
	speakerName func(glyph string) string
	nameFont    *text.GoTextFace
	messageFont *text.GoTextFace
	hintFont    *text.GoTextFace
}

// NewDialogRenderSystem 创建对话框渲染系统
// speakerName 把说话人 glyph 转为显示名称（字体无法渲染 emoji）
func NewDialogRenderSystem(source DialogViewSource, speakerName func(string) string, nameFont, messageFont, hintFont *text.GoTextFace) *DialogRenderSystem {
	return &DialogRenderSystem{
		source:      source,
		speakerName: speakerName,
		nameFont:    nameFont,
		messageFont: messageFont,
		hintFont:    hintFont,
	}
}

// Draw 渲染对话框（未打开时不绘制）
func (s *DialogRenderSystem) Draw(screen *ebiten.Image) {
	v := s.source.View()
	if !v.Open {
		return
	}

	vector.DrawFilledRect(screen, 0, 0, config.WindowWidth, config.WindowHeight, dialogBackdrop, false)

	x, y, w, h := DialogBoxRect()
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), dialogBoxColor, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 2, dialogBorder, false)

	padding := 18.0

	// 1. 说话人
	name := v.Speaker
	if s.speakerName != nil {
		name = s.speakerName(v.Speaker)
	}
	if name != "" && s.nameFont != nil {
		op := &text.DrawOptions{}
		op.GeoM.Translate(x+padding, y+padding-4)
		op.ColorScale.ScaleWithColor(dialogNameColor)
		text.Draw(screen, name, s.nameFont, op)
	}

	// 2. 朗读指示
	if v.Speaking {
		vector.DrawFilledCircle(screen, float32(x+w-padding), float32(y+padding+6), 5, dialogSpeakColor, true)
	}

	// 3. 正文
	if s.messageFont != nil {
		lines := utils.WrapTextFace(v.VisibleText, s.messageFont, w-2*padding)
		for i, line := range lines {
			op := &text.DrawOptions{}
			op.GeoM.Translate(x+padding, y+padding+26+float64(i)*dialogLineHeight)
			op.ColorScale.ScaleWithColor(dialogTextColor)
			text.Draw(screen, line, s.messageFont, op)
		}
	}

	// 4. 提示
	if s.hintFont != nil {
		op := &text.DrawOptions{}
		op.LayoutOptions.PrimaryAlign = text.AlignEnd
		op.GeoM.Translate(x+w-padding, y+h-padding-10)
		op.ColorScale.ScaleWithColor(dialogHintColor)
		text.Draw(screen, config.DialogHint, s.hintFont, op)
	}
}
