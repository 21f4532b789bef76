package components

// HUDPulseStage HP 强调动画阶段
type HUDPulseStage int

const (
	// HUDPulseIdle 无动画
	HUDPulseIdle HUDPulseStage = iota
	// HUDPulseDragon 第一段：龙图标高亮
	HUDPulseDragon
	// HUDPulseScroll 第二段：卷轴图标高亮
	HUDPulseScroll
	// HUDPulseFlash 第三段：数字闪烁
	HUDPulseFlash
)

// String 返回 HUDPulseStage 的字符串表示
func (s HUDPulseStage) String() string {
	switch s {
	case HUDPulseIdle:
		return "Idle"
	case HUDPulseDragon:
		return "Dragon"
	case HUDPulseScroll:
		return "Scroll"
	case HUDPulseFlash:
		return "Flash"
	default:
		return "Unknown"
	}
}

// HUDComponent HP 面板
type HUDComponent struct {
	Value int // 当前显示值

	Pulsing      bool    // 是否正在播放强调动画
	PulseElapsed float64 // 动画已播放时间（秒）
	Stage        HUDPulseStage

	ReplayHovered bool // 重播按钮悬停
}
