package game

import "testing"

// TestShouldAutoplayOncePerSession 同一会话内每个章节只自动播放一次
func TestShouldAutoplayOncePerSession(t *testing.T) {
	gate := NewSessionGate(NewMemorySessionStore())

	for _, id := range []string{"sec-intro", "sec-rules", "sec-grid"} {
		if !gate.ShouldAutoplay(id) {
			t.Errorf("ShouldAutoplay(%s) before MarkPlayed = false, want true", id)
		}
		gate.MarkPlayed(id)
		if gate.ShouldAutoplay(id) {
			t.Errorf("ShouldAutoplay(%s) after MarkPlayed = true, want false", id)
		}
	}
}

// TestForcePlayDoesNotClearFlag 强制播放绕过检查但不清除标记
func TestForcePlayDoesNotClearFlag(t *testing.T) {
	store := NewMemorySessionStore()
	gate := NewSessionGate(store)

	gate.MarkPlayed("sec-intro")
	if !gate.ForcePlay("sec-intro") {
		t.Fatal("ForcePlay should always allow playback")
	}
	if gate.ShouldAutoplay("sec-intro") {
		t.Error("flag should stay set after ForcePlay")
	}

	// 未标记时 ForcePlay 顺带标记
	gate.ForcePlay("sec-what")
	if gate.ShouldAutoplay("sec-what") {
		t.Error("ForcePlay on fresh section should mark it")
	}
}

// TestGateSurvivesReload 场景重建（重新加载）后标记仍在，新会话为空
func TestGateSurvivesReload(t *testing.T) {
	store := NewMemorySessionStore()
	NewSessionGate(store).MarkPlayed("sec-intro")

	reloaded := NewSessionGate(store)
	if reloaded.ShouldAutoplay("sec-intro") {
		t.Error("flag should survive reload within session")
	}

	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if !NewSessionGate(store).ShouldAutoplay("sec-intro") {
		t.Error("new session should start with an empty gate")
	}
}

func TestGateKeyFormat(t *testing.T) {
	store := NewMemorySessionStore()
	NewSessionGate(store).MarkPlayed("sec-gate")

	if v, ok := store.Get("dlg_ran_sec-gate"); !ok || v != "1" {
		t.Errorf("store[dlg_ran_sec-gate] = %q, %v", v, ok)
	}
}

func TestGateEmptySection(t *testing.T) {
	gate := NewSessionGate(NewMemorySessionStore())
	if gate.ShouldAutoplay("") {
		t.Error("empty section id should never autoplay")
	}
}
