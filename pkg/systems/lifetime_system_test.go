package systems

import (
	"testing"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/ecs"
)

func TestLifetimeUpdate(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxLifetime: 0.9})

	system.Update(0.5)

	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if lifetime.CurrentLifetime != 0.5 {
		t.Errorf("Expected CurrentLifetime=0.5, got %f", lifetime.CurrentLifetime)
	}
	if lifetime.IsExpired {
		t.Error("Entity should not be expired yet")
	}
}

func TestLifetimeExpiration(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewLifetimeSystem(em)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxLifetime: 0.9})

	system.Update(0.5)
	system.Update(0.5)

	lifetime, _ := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if !lifetime.IsExpired {
		t.Fatal("Entity should be expired")
	}

	// 到期实体只标记一次
	system.Update(0.5)
	if lifetime.CurrentLifetime != 1.0 {
		t.Errorf("expired entity kept ageing: %f", lifetime.CurrentLifetime)
	}

	em.RemoveMarkedEntities()
	if em.EntityExists(id) {
		t.Error("Expired entity should be removed")
	}
}
