package systems

import (
	"math"
	"testing"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
)

func TestShowDelta(t *testing.T) {
	em := ecs.NewEntityManager()
	deltas := NewHPDeltaSystem(em, nil)
	lifetime := NewLifetimeSystem(em)

	deltas.ShowDelta(0)
	if n := len(ecs.GetEntitiesWith1[*components.HPDeltaComponent](em)); n != 0 {
		t.Fatalf("zero delta created %d entities", n)
	}

	deltas.ShowDelta(2)
	deltas.ShowDelta(-1)
	ids := ecs.GetEntitiesWith1[*components.HPDeltaComponent](em)
	if len(ids) != 2 {
		t.Fatalf("entities = %d, want 2", len(ids))
	}
	texts := map[string]bool{}
	for _, id := range ids {
		d, _ := ecs.GetComponent[*components.HPDeltaComponent](em, id)
		texts[d.Text] = true
	}
	if !texts["+2"] || !texts["−1"] {
		t.Errorf("delta texts = %v", texts)
	}

	// 动画结束后被移除
	for i := 0; i < 60; i++ {
		deltas.Update(1.0 / 60)
		lifetime.Update(1.0 / 60)
		em.RemoveMarkedEntities()
	}
	if n := len(ecs.GetEntitiesWith1[*components.HPDeltaComponent](em)); n != 0 {
		t.Errorf("%d delta entities left after %.1fs", n, config.HPDeltaDuration)
	}
}

func TestDeltaOffset(t *testing.T) {
	rise, alpha := DeltaOffset(0)
	if rise != 0 || alpha != 1 {
		t.Errorf("start: rise=%v alpha=%v", rise, alpha)
	}

	rise, alpha = DeltaOffset(config.HPDeltaDuration)
	if math.Abs(rise-config.HPDeltaRise) > 1e-9 || alpha != 0 {
		t.Errorf("end: rise=%v alpha=%v", rise, alpha)
	}

	r1, a1 := DeltaOffset(0.3)
	r2, a2 := DeltaOffset(0.6)
	if !(r1 < r2) || !(a1 > a2) {
		t.Errorf("not monotonic: (%v,%v) (%v,%v)", r1, a1, r2, a2)
	}
}
