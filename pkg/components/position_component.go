package components

// PositionComponent 位置组件
// 页面元素使用文档坐标（随滚动移动），HUD 元素使用屏幕坐标
type PositionComponent struct {
	X, Y float64
}
