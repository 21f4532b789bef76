package game

import (
	"testing"

	"github.com/decker502/questhud/pkg/utils"
)

type fakeCensus struct {
	count int
	calls int
}

func (f *fakeCensus) CountControls() int {
	f.calls++
	return f.count
}

type recordingDeltas struct {
	deltas []int
}

func (r *recordingDeltas) ShowDelta(delta int) { r.deltas = append(r.deltas, delta) }

// TestHPAddScenario addHidden(3) 后 addHidden(2)：显示值 +5，浮字 "+3" "+2"
func TestHPAddScenario(t *testing.T) {
	census := &fakeCensus{count: 4}
	deltas := &recordingDeltas{}
	hp := NewHPCounter(NewMemorySessionStore(), census, deltas, nil)
	hp.Recompute()

	before := hp.DisplayValue()
	hp.AddHidden(3)
	hp.AddHidden(2)

	if got := hp.DisplayValue() - before; got != 5 {
		t.Errorf("display delta = %d, want 5", got)
	}
	if len(deltas.deltas) != 2 || deltas.deltas[0] != 3 || deltas.deltas[1] != 2 {
		t.Errorf("deltas = %v, want [3 2]", deltas.deltas)
	}
	if got := FormatDelta(deltas.deltas[0]); got != "+3" {
		t.Errorf("FormatDelta(3) = %q", got)
	}
}

// TestHPAddRemoveRoundTrip addHidden(n) 后 removeHidden(n) 恢复原值
func TestHPAddRemoveRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 7, 40} {
		hp := NewHPCounter(NewMemorySessionStore(), &fakeCensus{count: 3}, nil, nil)
		hp.Recompute()
		hp.AddHidden(2)

		hidden, display := hp.HiddenCount(), hp.DisplayValue()
		hp.AddHidden(n)
		hp.RemoveHidden(n)

		if hp.HiddenCount() != hidden || hp.DisplayValue() != display {
			t.Errorf("n=%d: hidden %d→%d, display %d→%d", n, hidden, hp.HiddenCount(), display, hp.DisplayValue())
		}
	}
}

// TestHPNeverNegative removeHidden 不会让 hiddenCount 小于 0，浮字显示钳制后的变化
func TestHPNeverNegative(t *testing.T) {
	deltas := &recordingDeltas{}
	hp := NewHPCounter(NewMemorySessionStore(), &fakeCensus{}, deltas, nil)

	hp.AddHidden(2)
	hp.RemoveHidden(10)
	if hp.HiddenCount() != 0 {
		t.Errorf("HiddenCount = %d, want 0", hp.HiddenCount())
	}

	hp.RemoveHidden(1) // 已经为 0，不再显示浮字
	want := []int{2, -2}
	if len(deltas.deltas) != len(want) || deltas.deltas[0] != want[0] || deltas.deltas[1] != want[1] {
		t.Errorf("deltas = %v, want %v", deltas.deltas, want)
	}
}

// TestHPMinimumStep n < 1 按 1 处理
func TestHPMinimumStep(t *testing.T) {
	hp := NewHPCounter(nil, &fakeCensus{}, nil, nil)
	hp.AddHidden(0)
	hp.AddHidden(-5)
	if hp.HiddenCount() != 2 {
		t.Errorf("HiddenCount = %d, want 2", hp.HiddenCount())
	}
	hp.RemoveHidden(0)
	if hp.HiddenCount() != 1 {
		t.Errorf("HiddenCount = %d, want 1", hp.HiddenCount())
	}
}

// TestHPPersistence hiddenCount 持久化并在重新加载后恢复
func TestHPPersistence(t *testing.T) {
	store := NewMemorySessionStore()
	hp := NewHPCounter(store, &fakeCensus{}, nil, nil)
	hp.AddHidden(4)

	if v, _ := store.Get(HPHiddenKey); v != "4" {
		t.Errorf("stored value = %q, want 4", v)
	}

	reloaded := NewHPCounter(store, &fakeCensus{}, nil, nil)
	if reloaded.HiddenCount() != 4 {
		t.Errorf("reloaded HiddenCount = %d, want 4", reloaded.HiddenCount())
	}
}

// TestHPMalformedPersistedValue 非数字或负数的存储值按 0 处理
func TestHPMalformedPersistedValue(t *testing.T) {
	for _, raw := range []string{"abc", "", "-3", "1.5"} {
		store := NewMemorySessionStore()
		_ = store.Set(HPHiddenKey, raw)
		hp := NewHPCounter(store, &fakeCensus{}, nil, nil)
		if hp.HiddenCount() != 0 {
			t.Errorf("raw %q: HiddenCount = %d, want 0", raw, hp.HiddenCount())
		}
	}
}

// TestHPRecomputeCoalesced 同一帧多次请求只统计一次
func TestHPRecomputeCoalesced(t *testing.T) {
	census := &fakeCensus{count: 6}
	sched := utils.NewFrameScheduler()
	hp := NewHPCounter(nil, census, nil, sched)

	var values []int
	hp.OnChange(func(v int) { values = append(values, v) })

	hp.RequestRecompute()
	hp.RequestRecompute()
	hp.RequestRecompute()

	if census.calls != 0 {
		t.Fatalf("census should not run before the frame")
	}
	sched.RunFrame()

	if census.calls != 1 {
		t.Errorf("census calls = %d, want 1", census.calls)
	}
	if hp.BaseCount() != 6 || len(values) != 1 || values[0] != 6 {
		t.Errorf("base = %d, values = %v", hp.BaseCount(), values)
	}
}
