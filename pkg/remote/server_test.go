package remote

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Command
		wantErr bool
	}{
		{name: "重播指定章节", data: `{"type":"replay","payload":{"section":"sec-intro"}}`, want: Command{Type: CommandReplay, Section: "sec-intro"}},
		{name: "重播当前章节", data: `{"type":"replay"}`, want: Command{Type: CommandReplay}},
		{name: "强调", data: `{"type":"pulse"}`, want: Command{Type: CommandPulse}},
		{name: "滚动", data: `{"type":"scroll","payload":{"offset":1200}}`, want: Command{Type: CommandScroll, Offset: 1200}},
		{name: "滚动缺少偏移", data: `{"type":"scroll","payload":{}}`, wantErr: true},
		{name: "未知命令", data: `{"type":"explode"}`, wantErr: true},
		{name: "非 JSON", data: `replay`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommand([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseCommand = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestServerRoundTrip 客户端命令进入通道，广播事件到达客户端
func TestServerRoundTrip(t *testing.T) {
	s := NewServer()
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pulse"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case cmd := <-s.Commands():
		if cmd.Type != CommandPulse {
			t.Errorf("command = %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("command not received")
	}

	// 等待服务端登记客户端后再广播
	deadline := time.Now().Add(2 * time.Second)
	for {
		s.mu.Lock()
		n := len(s.clients)
		s.mu.Unlock()
		if n == 1 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.Broadcast(HPChanged(7))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != EventHP || ev.HP == nil || *ev.HP != 7 {
		t.Errorf("event = %s", data)
	}
}

func TestHPChangedZero(t *testing.T) {
	data, _ := json.Marshal(HPChanged(0))
	if string(data) != `{"type":"hp","hp":0}` {
		t.Errorf("zero hp event = %s", data)
	}
}
