package config

import "time"

// 布局配置常量
// 本文件定义了故事页面的窗口、章节、对话框和 HUD 的布局参数

// Window Configuration (窗口配置)
const (
	// WindowWidth 是逻辑屏幕宽度（像素）
	WindowWidth = 960

	// WindowHeight 是逻辑屏幕高度（像素），也是视口高度
	WindowHeight = 640
)

// Page Configuration (页面配置)
// 所有章节坐标使用"文档坐标系"（相对于页面顶部，不随滚动变化）
const (
	// PageMarginTop 第一个章节之前的留白（文档坐标）
	// 为 0 时第一个章节的顶部偏移就是 0
	PageMarginTop = 0.0

	// DefaultSectionHeight 未配置高度时的章节高度，等于一屏
	DefaultSectionHeight = float64(WindowHeight)

	// PageContentX 正文左边距
	PageContentX = 80.0

	// PageContentWidth 正文宽度
	PageContentWidth = 800.0

	// ScrollWheelStep 鼠标滚轮一格对应的滚动像素
	ScrollWheelStep = 48.0

	// ScrollKeyStep 方向键一次滚动的像素
	ScrollKeyStep = 32.0

	// ControlHeight 表单控件高度
	ControlHeight = 32.0

	// ControlLabelWidth 控件标签列宽度，控件本体从 PageContentX+ControlLabelWidth 开始
	ControlLabelWidth = 180.0

	// ControlBoxWidth 文本框 / 下拉框宽度
	ControlBoxWidth = 320.0

	// ControlButtonWidth 按钮宽度
	ControlButtonWidth = 140.0

	// ControlSpacing 表单控件纵向间距
	ControlSpacing = 44.0

	// SlotSize 卷轴槽位边长
	SlotSize = 56.0
)

// Dialog Configuration (对话框配置)
const (
	// TypewriterTickInterval 打字机基础 tick 间隔
	// 普通速度每 tick 1 个字符，按住快进键每 tick 2 个字符
	TypewriterTickInterval = 22 * time.Millisecond

	// TypewriterFastStep 快进时每 tick 前进的字符数
	TypewriterFastStep = 2

	// DialogBoxHeight 对话框高度
	DialogBoxHeight = 150.0

	// DialogBoxMargin 对话框距屏幕边缘的距离
	DialogBoxMargin = 24.0

	// DialogFontSize 对话文本字号
	DialogFontSize = 20.0

	// DialogHint 对话框底部的操作提示
	DialogHint = "Enter/→ next • hold Space = 2× • press once to skip current line"
)

// HUD Configuration (HP 面板配置)
const (
	// HUDX, HUDY HP 面板位置（屏幕坐标）
	HUDX = WindowWidth - 260.0
	HUDY = 14.0

	// HUDWidth, HUDHeight HP 面板尺寸
	HUDWidth  = 240.0
	HUDHeight = 44.0

	// HUDPulseDragonEnd 强调动画第一阶段（龙）结束时间
	HUDPulseDragonEnd = 180 * time.Millisecond

	// HUDPulseScrollEnd 强调动画第二阶段（卷轴）结束时间
	HUDPulseScrollEnd = 360 * time.Millisecond

	// HUDPulseFlashEnd 强调动画第三阶段（闪光）结束时间
	HUDPulseFlashEnd = 760 * time.Millisecond

	// HPDeltaDuration 增减量浮字动画时长（秒），结束后自动移除
	HPDeltaDuration = 0.9

	// HPDeltaRise 浮字动画上升距离（像素）
	HPDeltaRise = 48.0
)

// ControlWidth 按 input 类型返回控件宽度（也是可点击区域宽度）
func ControlWidth(controlType string) float64 {
	switch controlType {
	case "checkbox", "radio":
		return ControlHeight - 8
	case "submit", "button", "reset":
		return ControlButtonWidth
	default:
		return ControlBoxWidth
	}
}
