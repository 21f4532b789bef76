package game

import "log"

// 会话存储键
const (
	// dialogPlayedKeyPrefix 章节自动播放标记键前缀，完整键为 "dlg_ran_<sectionID>"
	dialogPlayedKeyPrefix = "dlg_ran_"
	dialogPlayedValue     = "1"

	// HPHiddenKey 隐藏 HP 增量的存储键
	HPHiddenKey = "hp_hidden_scrolls"
)

// SessionGate 章节自动播放闸门
//
// 职责：
//   - 记录每个章节在本会话内是否已经自动播放过
//   - 标记单调：一旦标记，本会话内不会被清除
//   - 强制重播绕过检查，但不清除标记
type SessionGate struct {
	store SessionStore
}

// NewSessionGate 创建闸门
func NewSessionGate(store SessionStore) *SessionGate {
	return &SessionGate{store: store}
}

// DialogPlayedKey 返回章节的标记键
func DialogPlayedKey(sectionID string) string {
	return dialogPlayedKeyPrefix + sectionID
}

// ShouldAutoplay 章节本会话内尚未播放过时返回 true
func (g *SessionGate) ShouldAutoplay(sectionID string) bool {
	if sectionID == "" {
		return false
	}
	v, ok := g.store.Get(DialogPlayedKey(sectionID))
	return !ok || v != dialogPlayedValue
}

// MarkPlayed 记录章节已播放（幂等）
func (g *SessionGate) MarkPlayed(sectionID string) {
	if sectionID == "" {
		return
	}
	if v, ok := g.store.Get(DialogPlayedKey(sectionID)); ok && v == dialogPlayedValue {
		return
	}
	if err := g.store.Set(DialogPlayedKey(sectionID), dialogPlayedValue); err != nil {
		log.Printf("[SessionGate] Warning: %v", err)
	}
}

// ForcePlay 绕过闸门检查，始终返回 true
// 尚未标记时顺带标记；已标记时不重复写入，也不清除
func (g *SessionGate) ForcePlay(sectionID string) bool {
	g.MarkPlayed(sectionID)
	return true
}
