package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/gorilla/websocket"
)

// MessageSender — отправка сообщения через сокет идёт тем же путём
// validate -> persist -> broadcast, что и REST.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID, authorID, text string) (*domain.Message, error)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	msgSvc   MessageSender

	pingEvery time.Duration
	sendBuf   int
}

func NewServer(hub *Hub, msgSvc MessageSender) *Server {
	return &Server{
		hub:    hub,
		msgSvc: msgSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		pingEvery: 15 * time.Second,
		sendBuf:   64,
	}
}

// WS endpoint: GET /ws?access_token=...&user_id=...
// Подписки на чаты клиент объявляет кадрами subscribe/unsubscribe;
// после реконнекта их нужно объявить заново.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	accessToken := strings.TrimSpace(q.Get("access_token"))
	userID := strings.TrimSpace(q.Get("user_id"))
	if accessToken == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту при ошибке
		slog.Warn("ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, userID, s.sendBuf)

	// каждое подключение слушает лобби с момента установления
	s.hub.Subscribe(c, LobbyChatID)

	go s.writeLoop(r.Context(), c)
	s.readLoop(r.Context(), c)

	// дисконнект: синхронный разбор всех подписок
	s.hub.Drop(c)
	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "user", userID, "err", err)
	}
}

func (s *Server) readLoop(ctx context.Context, c *wsConn) {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(1 << 20)
	c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case TypeSubscribe:
			var p SubscribePayload
			if decode(msg.Payload, &p) == nil && p.ChatID != "" {
				s.hub.Subscribe(c, p.ChatID)
			}
		case TypeUnsubscribe:
			var p SubscribePayload
			if decode(msg.Payload, &p) == nil && p.ChatID != "" {
				s.hub.Unsubscribe(c, p.ChatID)
			}
		case TypeChat:
			var p ChatSendPayload
			if decode(msg.Payload, &p) != nil || p.ChatID == "" {
				continue
			}
			// рассылку подписчикам делает оркестратор после записи
			if _, err := s.msgSvc.SendMessage(ctx, p.ChatID, c.userID, p.Text); err != nil {
				slog.Warn("ws chat send failed", "chat", p.ChatID, "user", c.userID, "err", err)
			}
		default:
			// ignore
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.out:
			c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		}
	}
}

// --- helpers ---

func decode(payload interface{}, dst interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, dst)
}

var (
	errConnClosed = errors.New("connection closed")
	errConnSlow   = errors.New("send queue full")
)

// wsConn — очередь исходящих кадров поверх gorilla-сокета. Send кладёт кадр
// в буфер и не блокирует; заполненный буфер значит потерю кадра для этого
// подключения, остальные подписчики не страдают.
type wsConn struct {
	conn      *websocket.Conn
	userID    string
	out       chan Message
	closed    chan struct{}
	closeOnce sync.Once
}

func newWsConn(c *websocket.Conn, userID string, buf int) *wsConn {
	if buf <= 0 {
		buf = 64
	}
	return &wsConn{
		conn:   c,
		userID: userID,
		out:    make(chan Message, buf),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}

	select {
	case c.out <- msg:
		return nil
	default:
		return errConnSlow
	}
}

// Close могут звать одновременно readLoop, writeLoop и HandleWS.
func (c *wsConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })

	return c.conn.Close()
}

func (c *wsConn) UserID() string { return c.userID }
