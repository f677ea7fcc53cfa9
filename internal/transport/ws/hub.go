package ws

import (
	"log/slog"
	"sync"
)

// Conn — транспортная ручка живого подключения. Send обязан не блокировать:
// медленный получатель теряет события, но не задерживает остальных.
type Conn interface {
	Send(msg Message) error
	Close() error
	UserID() string
}

// группа подписчиков одного чата; собственный мьютекс сериализует
// рассылки по этому чату, не задевая другие чаты
type group struct {
	mu    sync.Mutex
	conns map[Conn]struct{}
}

// Hub — реестр подписок: прямой индекс conn -> чаты и обратный чат -> conns.
// Оба индекса мутируются под одним замком, расхождение между ними невозможно.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]*group
	conns  map[Conn]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		groups: make(map[string]*group),
		conns:  make(map[Conn]map[string]struct{}),
	}
}

// Subscribe — идемпотентно.
func (h *Hub) Subscribe(c Conn, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[c]
	if !ok {
		set = make(map[string]struct{})
		h.conns[c] = set
	}
	set[chatID] = struct{}{}

	g, ok := h.groups[chatID]
	if !ok {
		g = &group{conns: make(map[Conn]struct{})}
		h.groups[chatID] = g
	}
	g.mu.Lock()
	g.conns[c] = struct{}{}
	g.mu.Unlock()
}

// Unsubscribe — идемпотентно.
func (h *Hub) Unsubscribe(c Conn, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(c, chatID)
}

// Drop убирает подключение из всех групп; вызывается на дисконнекте.
func (h *Hub) Drop(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for chatID := range h.conns[c] {
		h.dropFromGroupLocked(c, chatID)
	}
	delete(h.conns, c)
}

// DropChat — принудительная отписка всех подключений чата (чат удалён).
// Подписки на лобби и другие чаты не затрагиваются.
func (h *Hub) DropChat(chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.groups[chatID]
	if !ok {
		return
	}
	g.mu.Lock()
	for c := range g.conns {
		if set, ok := h.conns[c]; ok {
			delete(set, chatID)
		}
	}
	g.conns = make(map[Conn]struct{})
	g.mu.Unlock()
	delete(h.groups, chatID)
}

// Broadcast доставляет событие всем текущим подписчикам чата ровно один раз.
// Замок группы держится на время постановки в очереди: события одного чата
// приходят каждому подписчику в порядке вызовов Broadcast.
func (h *Hub) Broadcast(chatID string, msg Message) {
	h.mu.RLock()
	g, ok := h.groups[chatID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for c := range g.conns {
		if err := c.Send(msg); err != nil {
			// доставка best-effort: залогировать и забыть
			slog.Debug("ws broadcast drop", "chat", chatID, "user", c.UserID(), "err", err)
		}
	}
}

// NumSubscribers — размер группы чата.
func (h *Hub) NumSubscribers(chatID string) int {
	h.mu.RLock()
	g, ok := h.groups[chatID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}

// Subscribed — состоит ли подключение в группе чата.
func (h *Hub) Subscribed(c Conn, chatID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[c][chatID]
	return ok
}

func (h *Hub) unsubscribeLocked(c Conn, chatID string) {
	if set, ok := h.conns[c]; ok {
		delete(set, chatID)
	}
	h.dropFromGroupLocked(c, chatID)
}

func (h *Hub) dropFromGroupLocked(c Conn, chatID string) {
	g, ok := h.groups[chatID]
	if !ok {
		return
	}
	g.mu.Lock()
	delete(g.conns, c)
	empty := len(g.conns) == 0
	g.mu.Unlock()
	if empty {
		delete(h.groups, chatID)
	}
}
