package components

// HPDeltaComponent HP 增减浮字
// 由 HPDeltaSystem 创建，随 LifetimeComponent 到期自动移除
type HPDeltaComponent struct {
	Delta   int     // 带符号的变化量（非 0）
	Text    string  // 显示文本，如 "+3" / "−2"
	Elapsed float64 // 已显示时间（秒）
}
