package components

// LifetimeComponent 限时实体
// 到期后由 LifetimeSystem 销毁（HP 浮字等一次性效果）
type LifetimeComponent struct {
	MaxLifetime     float64 // 最大生命周期(秒)
	CurrentLifetime float64 // 当前已存在时间(秒)
	IsExpired       bool    // 是否已过期
}
