package game

import (
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene 记录调用的测试场景
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	disposed     int
	deltaTime    float64
}

func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

func (m *MockScene) Dispose() {
	m.disposed++
}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm.GetCurrentScene() != nil {
		t.Error("Expected no scene initially")
	}
	// 没有场景时 Update/Draw 为空操作
	sm.Update(0.016)
	sm.Draw(nil)
}

func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)
	if !mockScene.updateCalled || mockScene.deltaTime != 0.016 {
		t.Errorf("Update not forwarded: %+v", mockScene)
	}
}

// TestSceneManagerSwitchDisposes 替换场景时释放旧场景，重复切换到同一场景不释放
func TestSceneManagerSwitchDisposes(t *testing.T) {
	sm := NewSceneManager()
	first, second := &MockScene{}, &MockScene{}

	sm.SwitchTo(first)
	sm.SwitchTo(first)
	if first.disposed != 0 {
		t.Errorf("same scene disposed %d times", first.disposed)
	}

	sm.SwitchTo(second)
	if first.disposed != 1 || sm.GetCurrentScene() != second {
		t.Errorf("first disposed=%d", first.disposed)
	}

	sm.Dispose()
	if second.disposed != 1 || sm.GetCurrentScene() != nil {
		t.Errorf("second disposed=%d", second.disposed)
	}
}

func TestSceneManagerReload(t *testing.T) {
	sm := NewSceneManager()
	if err := sm.Reload(); err == nil {
		t.Error("Reload without factory should fail")
	}

	builds := 0
	fail := false
	sm.SetSceneFactory(func() (Scene, error) {
		if fail {
			return nil, errors.New("bad story")
		}
		builds++
		return &MockScene{}, nil
	})

	if err := sm.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	current := sm.GetCurrentScene()

	fail = true
	if err := sm.Reload(); err == nil {
		t.Error("failed factory should return an error")
	}
	if sm.GetCurrentScene() != current || builds != 1 {
		t.Error("failed reload should keep the current scene")
	}
}
