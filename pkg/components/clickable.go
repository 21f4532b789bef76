package components

// ClickableComponent 可点击区域（从 PositionComponent 开始的矩形）
// 用于表单控件聚焦、复选框切换和卷轴槽位放入/取出
type ClickableComponent struct {
	Width     float64 // 宽度(像素)
	Height    float64 // 高度(像素)
	IsEnabled bool    // 是否响应点击（禁用控件不响应）
}
