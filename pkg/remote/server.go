// Package remote 提供故事页面的 WebSocket 远程控制通道
//
// 入站命令（JSON 信封 {"type": ..., "payload": ...}）：
//   - replay  {"section": "sec-x"}   强制重播章节对话（section 为空时重播当前章节）
//   - pulse                          播放 HP 强调动画
//   - scroll  {"offset": 1200}       滚动到文档偏移
//
// 出站事件：
//   - sectionchange {"section": "sec-x"}
//   - hp            {"hp": 7}
//
// 网络 goroutine 只负责收发；命令经 Commands() 通道交给游戏主循环执行。
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// 命令类型
const (
	CommandReplay = "replay"
	CommandPulse  = "pulse"
	CommandScroll = "scroll"
)

// 事件类型
const (
	EventSectionChange = "sectionchange"
	EventHP            = "hp"
)

const (
	commandBuffer = 32
	clientBuffer  = 16
	writeTimeout  = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Command 一条已解析的远程命令
type Command struct {
	Type    string
	Section string
	Offset  float64
}

type commandPayload struct {
	Section string   `json:"section"`
	Offset  *float64 `json:"offset"`
}

// Event 推送给所有客户端的事件
type Event struct {
	Type    string `json:"type"`
	Section string `json:"section,omitempty"`
	HP      *int   `json:"hp,omitempty"`
}

// SectionChanged 构造章节变化事件
func SectionChanged(sectionID string) Event {
	return Event{Type: EventSectionChange, Section: sectionID}
}

// HPChanged 构造 HP 变化事件
func HPChanged(value int) Event {
	return Event{Type: EventHP, HP: &value}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server WebSocket 控制服务器
type Server struct {
	commands chan Command

	mu      sync.Mutex
	clients map[*client]struct{}

	httpServer *http.Server
	listener   net.Listener
}

// NewServer 创建服务器（不监听，可直接作为 http.Handler 使用）
func NewServer() *Server {
	return &Server{
		commands: make(chan Command, commandBuffer),
		clients:  make(map[*client]struct{}),
	}
}

// Start 在 addr 上监听并在后台提供服务
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[Remote] Serve error: %v", err)
		}
	}()
	log.Printf("[Remote] Listening on %s", ln.Addr())
	return nil
}

// Addr 返回实际监听地址（未启动时为空）
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Commands 返回命令通道（由主循环非阻塞读取）
func (s *Server) Commands() <-chan Command {
	return s.commands
}

// Broadcast 向所有客户端推送事件；发送缓冲已满的客户端丢弃本条事件
func (s *Server) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Remote] marshal event: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("[Remote] Client send buffer full, dropping %s", ev.Type)
		}
	}
}

// Close 关闭监听和所有连接
func (s *Server) Close() error {
	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}

	s.mu.Lock()
	for c := range s.clients {
		c.conn.Close()
	}
	s.mu.Unlock()
	return err
}

// ServeHTTP 升级为 WebSocket 并处理该连接
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Remote] upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	log.Printf("[Remote] Client connected: %s", conn.RemoteAddr())

	ctx, cancel := context.WithCancel(r.Context())
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		conn.Close()
		log.Printf("[Remote] Client disconnected: %s", conn.RemoteAddr())
	}()

	go s.writeLoop(ctx, c)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			log.Printf("[Remote] Unsupported message type %d", msgType)
			continue
		}

		cmd, err := ParseCommand(data)
		if err != nil {
			log.Printf("[Remote] %v", err)
			continue
		}

		select {
		case s.commands <- cmd:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *client) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[Remote] write: %v", err)
				return
			}
		}
	}
}

// ParseCommand 解析入站 JSON 信封
func ParseCommand(data []byte) (Command, error) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return Command{}, fmt.Errorf("remote: bad message: %w", err)
	}

	var payload commandPayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return Command{}, fmt.Errorf("remote: bad %s payload: %w", msg.Type, err)
		}
	}

	cmd := Command{Type: msg.Type, Section: payload.Section}
	switch msg.Type {
	case CommandReplay, CommandPulse:
	case CommandScroll:
		if payload.Offset == nil {
			return Command{}, fmt.Errorf("remote: scroll needs an offset")
		}
		cmd.Offset = *payload.Offset
	default:
		return Command{}, fmt.Errorf("remote: unknown command %q", msg.Type)
	}
	return cmd, nil
}
