package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/utils"
)

// DialogController 对话控制（由 dialog.Sequencer 实现）
type DialogController interface {
	IsOpen() bool
	Advance()
	SetFast(fast bool)
}

// DialogInput 一帧内与对话相关的输入
type DialogInput struct {
	AdvancePressed bool // Enter / → 刚按下
	FastPressed    bool // 空格刚按下
	FastReleased   bool // 空格刚松开
	Clicked        bool // 鼠标/触摸刚按下
	X, Y           int  // 点击位置（屏幕坐标）
}

// DialogInputSystem 对话输入系统
//
// 键位（仅在对话框显示时生效）：
//   - Enter / →：推进
//   - 空格按下：开启快进并推进；空格松开：恢复正常速度（任何时候都生效）
//   - 点击对话框：推进
type DialogInputSystem struct {
	dialog DialogController
}

// NewDialogInputSystem 创建对话输入系统
func NewDialogInputSystem(dialog DialogController) *DialogInputSystem {
	return &DialogInputSystem{dialog: dialog}
}

// Update 读取键盘和指针输入
// 返回 true 表示输入已被对话框消费（页面不应再处理本帧点击）
func (s *DialogInputSystem) Update(deltaTime float64) bool {
	pointer := utils.GetInputState(0)
	in := DialogInput{
		AdvancePressed: inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) ||
			inpututil.IsKeyJustPressed(ebiten.KeyArrowRight),
		FastPressed:  inpututil.IsKeyJustPressed(ebiten.KeySpace),
		FastReleased: inpututil.IsKeyJustReleased(ebiten.KeySpace),
		Clicked:      pointer.JustPressed,
		X:            pointer.X,
		Y:            pointer.Y,
	}
	return s.HandleInput(in)
}

// HandleInput 处理一帧输入
func (s *DialogInputSystem) HandleInput(in DialogInput) bool {
	if in.FastReleased {
		s.dialog.SetFast(false)
	}
	if !s.dialog.IsOpen() {
		return false
	}

	consumed := false
	if in.AdvancePressed {
		s.dialog.Advance()
		consumed = true
	}
	if in.FastPressed {
		s.dialog.SetFast(true)
		s.dialog.Advance()
		consumed = true
	}
	if in.Clicked && s.dialog.IsOpen() && InDialogBox(float64(in.X), float64(in.Y)) {
		s.dialog.Advance()
		consumed = true
	}
	return consumed || s.dialog.IsOpen()
}

// DialogBoxRect 返回对话框的屏幕矩形
func DialogBoxRect() (x, y, w, h float64) {
	x = config.DialogBoxMargin
	w = config.WindowWidth - 2*config.DialogBoxMargin
	h = config.DialogBoxHeight
	y = config.WindowHeight - config.DialogBoxMargin - h
	return x, y, w, h
}

// InDialogBox 判断屏幕坐标是否在对话框内
func InDialogBox(px, py float64) bool {
	x, y, w, h := DialogBoxRect()
	return utils.PointInRect(px, py, x, y, w, h)
}
