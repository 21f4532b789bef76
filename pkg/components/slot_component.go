package components

// SlotComponent 卷轴槽位
// Items > 0 表示槽位已放入卷轴；WasFilled 是 SlotWatchSystem 上次观察到的状态
type SlotComponent struct {
	SectionID string
	Name      string
	Items     int
	WasFilled bool
}
