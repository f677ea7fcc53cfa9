package ws

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// startSocketServer поднимает сервер, который принимает апгрейд и держит
// сокет открытым до дисконнекта клиента. Возвращает функцию dial.
func startSocketServer(t *testing.T) func() *websocket.Conn {
	t.Helper()

	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	return func() *websocket.Conn {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		return conn
	}
}

func TestWsConn_CloseConcurrent(t *testing.T) {
	dial := startSocketServer(t)

	for i := 0; i < 200; i++ {
		c := newWsConn(dial(), "u1", 8)

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = c.Close()
			}()
		}
		wg.Wait()

		if err := c.Send(Message{Type: TypeMessageCreated}); !errors.Is(err, errConnClosed) {
			t.Fatalf("Send after close: got %v, want %v", err, errConnClosed)
		}
	}
}

func TestWsConn_SendQueueFull(t *testing.T) {
	// Send не трогает сокет, достаточно wsConn без подключения
	c := newWsConn(nil, "u1", 2)

	for i := 0; i < 2; i++ {
		if err := c.Send(Message{Type: TypeMessageCreated}); err != nil {
			t.Fatalf("Send #%d: %v", i, err)
		}
	}

	if err := c.Send(Message{Type: TypeMessageCreated}); !errors.Is(err, errConnSlow) {
		t.Fatalf("Send over full queue: got %v, want %v", err, errConnSlow)
	}
	// повторный Send тоже не блокирует и не растит очередь
	if err := c.Send(Message{Type: TypeMessageCreated}); !errors.Is(err, errConnSlow) {
		t.Fatalf("repeated Send: got %v, want %v", err, errConnSlow)
	}
	if got := len(c.out); got != 2 {
		t.Fatalf("queue len = %d, want 2", got)
	}
}
