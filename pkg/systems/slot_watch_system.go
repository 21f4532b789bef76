package systems

import (
	"log"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/ecs"
)

// HiddenAdjuster 隐藏 HP 增量调整（由 game.HPCounter 实现）
type HiddenAdjuster interface {
	AddHidden(n int)
	RemoveHidden(n int)
}

// SlotWatchSystem 卷轴槽位观察系统
//
// 每帧比较槽位的当前状态和上次观察到的状态：
//   - 空 → 有卷轴：AddHidden(1)
//   - 有卷轴 → 空：RemoveHidden(1)
//
// 槽位的初始状态由页面工厂写入 WasFilled，启动时不产生增减。
type SlotWatchSystem struct {
	entityManager *ecs.EntityManager
	hp            HiddenAdjuster
}

// NewSlotWatchSystem 创建槽位观察系统
func NewSlotWatchSystem(em *ecs.EntityManager, hp HiddenAdjuster) *SlotWatchSystem {
	return &SlotWatchSystem{entityManager: em, hp: hp}
}

// Update 检查所有槽位的状态变化
func (s *SlotWatchSystem) Update(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.SlotComponent](s.entityManager) {
		slot, ok := ecs.GetComponent[*components.SlotComponent](s.entityManager, id)
		if !ok {
			continue
		}

		filled := slot.Items > 0
		if filled == slot.WasFilled {
			continue
		}
		slot.WasFilled = filled

		if filled {
			log.Printf("[SlotWatchSystem] Slot %s filled", slot.Name)
			s.hp.AddHidden(1)
		} else {
			log.Printf("[SlotWatchSystem] Slot %s emptied", slot.Name)
			s.hp.RemoveHidden(1)
		}
	}
}

// ToggleSlot 放入/取出卷轴
func ToggleSlot(em *ecs.EntityManager, id ecs.EntityID) {
	slot, ok := ecs.GetComponent[*components.SlotComponent](em, id)
	if !ok {
		return
	}
	if slot.Items > 0 {
		slot.Items = 0
	} else {
		slot.Items = 1
	}
}
