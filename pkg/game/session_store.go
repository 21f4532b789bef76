package game

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
)

// SessionStore 会话级键值存储
//
// 语义与浏览器 sessionStorage 一致：
//   - 同一会话内"重新加载页面"（重建场景）后数据仍在
//   - 会话结束（程序正常退出）时调用 Clear() 清空
//
// 注意：所有方法只在游戏主循环中调用，不需要加锁
type SessionStore interface {
	// Get 读取键值，不存在时返回 ("", false)
	Get(key string) (string, bool)
	// Set 写入键值
	Set(key, value string) error
	// Delete 删除键
	Delete(key string) error
	// Clear 结束会话，删除本会话的全部数据
	Clear() error
}

// NewSessionID 生成新的会话 ID
func NewSessionID() string {
	return uuid.NewString()
}

// MemorySessionStore 纯内存会话存储
// 用于测试，以及 gdata 不可用时的降级模式
type MemorySessionStore struct {
	values map[string]string
}

// NewMemorySessionStore 创建内存会话存储
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{values: make(map[string]string)}
}

func (s *MemorySessionStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *MemorySessionStore) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *MemorySessionStore) Delete(key string) error {
	delete(s.values, key)
	return nil
}

func (s *MemorySessionStore) Clear() error {
	s.values = make(map[string]string)
	return nil
}

// GdataSessionStore 基于 gdata 的会话存储
//
// 存储布局：
//   - object: "session_<sessionID>"
//   - property: 业务键（如 "dlg_ran_sec-intro"、"hp_hidden_scrolls"）
//
// 写入采用写穿缓存：内存缓存总是更新，持久化失败只记录日志，
// 保证"存储不可写"时本次运行仍然可用
type GdataSessionStore struct {
	gdataManager *gdata.Manager
	sessionID    string
	cache        map[string]string
}

// NewGdataSessionStore 创建 gdata 会话存储
//
// 参数：
//   - gdataManager: gdata 管理器，不能为 nil（nil 时请使用 MemorySessionStore）
//   - sessionID: 会话 ID；恢复旧会话时传入旧 ID
func NewGdataSessionStore(gdataManager *gdata.Manager, sessionID string) *GdataSessionStore {
	return &GdataSessionStore{
		gdataManager: gdataManager,
		sessionID:    sessionID,
		cache:        make(map[string]string),
	}
}

// OpenSessionStore 打开会话存储，gdata 初始化失败时降级为内存存储
//
// 参数：
//   - appName: gdata 应用名
//   - sessionID: 会话 ID
//
// 返回：
//   - SessionStore: 可用的会话存储（不会为 nil）
func OpenSessionStore(appName, sessionID string) SessionStore {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[SessionStore] Warning: gdata unavailable (%v), falling back to memory store", err)
		return NewMemorySessionStore()
	}
	log.Printf("[SessionStore] Opened gdata store app=%s session=%s", appName, sessionID)
	return NewGdataSessionStore(manager, sessionID)
}

// SessionID 返回会话 ID
func (s *GdataSessionStore) SessionID() string {
	return s.sessionID
}

func (s *GdataSessionStore) objectKey() string {
	return "session_" + s.sessionID
}

func (s *GdataSessionStore) Get(key string) (string, bool) {
	if v, ok := s.cache[key]; ok {
		return v, true
	}

	if !s.gdataManager.ObjectPropExists(s.objectKey(), key) {
		return "", false
	}

	data, err := s.gdataManager.LoadObjectProp(s.objectKey(), key)
	if err != nil {
		log.Printf("[SessionStore] Warning: failed to load %s: %v", key, err)
		return "", false
	}

	v := string(data)
	s.cache[key] = v
	return v, true
}

func (s *GdataSessionStore) Set(key, value string) error {
	s.cache[key] = value
	if err := s.gdataManager.SaveObjectProp(s.objectKey(), key, []byte(value)); err != nil {
		return fmt.Errorf("failed to save session key %s: %w", key, err)
	}
	return nil
}

func (s *GdataSessionStore) Delete(key string) error {
	delete(s.cache, key)
	if !s.gdataManager.ObjectPropExists(s.objectKey(), key) {
		return nil
	}
	if err := s.gdataManager.DeleteObjectProp(s.objectKey(), key); err != nil {
		return fmt.Errorf("failed to delete session key %s: %w", key, err)
	}
	return nil
}

func (s *GdataSessionStore) Clear() error {
	s.cache = make(map[string]string)
	if err := s.gdataManager.DeleteObject(s.objectKey()); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", s.sessionID, err)
	}
	log.Printf("[SessionStore] Session %s cleared", s.sessionID)
	return nil
}
