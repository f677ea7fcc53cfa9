package service

import (
	"context"
	"sync"
	"time"

	"github.com/cwrk-planet/chat-service/internal/domain"

	"github.com/google/uuid"
)

// memDB — общее in-memory состояние всех фейковых store.
// Все операции под одним мьютексом: вставка с проверкой имени атомарна,
// как уникальный индекс в настоящем хранилище.
type memDB struct {
	mu sync.Mutex

	users       map[string]domain.User
	usersByName map[string]string
	chats       map[string]domain.Chat
	chatsByName map[string]string
	members     map[string]map[string]domain.Membership // chatID -> userID
	messages    map[string][]domain.Message

	clock time.Time
}

func newMemDB() *memDB {
	return &memDB{
		users:       make(map[string]domain.User),
		usersByName: make(map[string]string),
		chats:       make(map[string]domain.Chat),
		chatsByName: make(map[string]string),
		members:     make(map[string]map[string]domain.Membership),
		messages:    make(map[string][]domain.Message),
		clock:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick — строго возрастающие метки времени
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Millisecond)
	return db.clock
}

type fakeUserStore struct{ db *memDB }
type fakeChatStore struct{ db *memDB }
type fakeMemberStore struct{ db *memDB }
type fakeMessageStore struct{ db *memDB }

func (s fakeUserStore) Create(_ context.Context, name string) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.usersByName[name]; ok {
		return nil, domain.ErrUserNameTaken
	}
	u := domain.User{ID: uuid.NewString(), Name: name, CreatedAt: s.db.tick()}
	s.db.users[u.ID] = u
	s.db.usersByName[name] = u.ID
	return &u, nil
}

func (s fakeUserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s fakeUserStore) GetByName(_ context.Context, name string) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	id, ok := s.db.usersByName[name]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.db.users[id]
	return &u, nil
}

func (s fakeUserStore) List(_ context.Context) ([]domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := make([]domain.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		out = append(out, u)
	}
	return out, nil
}

func (s fakeChatStore) CreateWithOwner(_ context.Context, name, ownerID string) (*domain.Chat, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.chatsByName[name]; ok {
		return nil, domain.ErrChatNameTaken
	}
	c := domain.Chat{ID: uuid.NewString(), Name: name, OwnerID: ownerID, CreatedAt: s.db.tick()}
	s.db.chats[c.ID] = c
	s.db.chatsByName[name] = c.ID
	s.db.members[c.ID] = map[string]domain.Membership{
		ownerID: {ChatID: c.ID, UserID: ownerID, JoinedAt: c.CreatedAt},
	}
	return &c, nil
}

func (s fakeChatStore) GetByID(_ context.Context, id string) (*domain.Chat, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.chats[id]
	if !ok {
		return nil, domain.ErrChatNotFound
	}
	return &c, nil
}

func (s fakeChatStore) GetByName(_ context.Context, name string) (*domain.Chat, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	id, ok := s.db.chatsByName[name]
	if !ok {
		return nil, domain.ErrChatNotFound
	}
	c := s.db.chats[id]
	return &c, nil
}

func (s fakeChatStore) ListWithMemberCounts(_ context.Context) ([]domain.ChatSummary, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	out := make([]domain.ChatSummary, 0, len(s.db.chats))
	for id, c := range s.db.chats {
		out = append(out, domain.ChatSummary{
			ID:      c.ID,
			Name:    c.Name,
			OwnerID: c.OwnerID,
			Members: int64(len(s.db.members[id])),
		})
	}
	return out, nil
}

func (s fakeChatStore) Rename(_ context.Context, id, newName string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.chats[id]
	if !ok {
		return domain.ErrChatNotFound
	}
	if other, ok := s.db.chatsByName[newName]; ok && other != id {
		return domain.ErrChatNameTaken
	}
	delete(s.db.chatsByName, c.Name)
	c.Name = newName
	s.db.chats[id] = c
	s.db.chatsByName[newName] = id
	return nil
}

func (s fakeChatStore) Delete(_ context.Context, id string) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	c, ok := s.db.chats[id]
	if !ok {
		return domain.ErrChatNotFound
	}
	// каскад: сообщения, членства, чат
	delete(s.db.messages, id)
	delete(s.db.members, id)
	delete(s.db.chatsByName, c.Name)
	delete(s.db.chats, id)
	return nil
}

func (s fakeMemberStore) Add(_ context.Context, chatID, userID string) (*domain.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	set, ok := s.db.members[chatID]
	if !ok {
		set = make(map[string]domain.Membership)
		s.db.members[chatID] = set
	}
	if _, ok := set[userID]; ok {
		return nil, domain.ErrAlreadyMember
	}
	m := domain.Membership{ChatID: chatID, UserID: userID, JoinedAt: s.db.tick()}
	set[userID] = m
	return &m, nil
}

func (s fakeMemberStore) Exists(_ context.Context, chatID, userID string) (bool, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	_, ok := s.db.members[chatID][userID]
	return ok, nil
}

func (s fakeMemberStore) ListByChat(_ context.Context, chatID string) ([]domain.Membership, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	set := s.db.members[chatID]
	out := make([]domain.Membership, 0, len(set))
	for _, m := range set {
		out = append(out, m)
	}
	return out, nil
}

func (s fakeMessageStore) Append(_ context.Context, chatID, authorID, text string) (*domain.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	m := domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		AuthorID:  authorID,
		Text:      text,
		CreatedAt: s.db.tick(),
	}
	s.db.messages[chatID] = append(s.db.messages[chatID], m)
	return &m, nil
}

func (s fakeMessageStore) ListByChat(_ context.Context, chatID string, limit int) ([]domain.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	msgs := s.db.messages[chatID]
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

// recNotifier — записывает уведомления оркестратора.
type recNotifier struct {
	mu     sync.Mutex
	events []recEvent
}

type recEvent struct {
	Kind   string
	ChatID string
	Arg    string // userID / newName / text — по смыслу события
}

func (n *recNotifier) record(kind, chatID, arg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recEvent{Kind: kind, ChatID: chatID, Arg: arg})
}

func (n *recNotifier) MessageCreated(chatID string, m *domain.Message) {
	n.record("message_created", chatID, m.Text)
}
func (n *recNotifier) MemberAdded(chatID, userID string) { n.record("member_added", chatID, userID) }
func (n *recNotifier) ChatRenamed(chatID, newName string) {
	n.record("chat_renamed", chatID, newName)
}
func (n *recNotifier) ChatDeleted(chatID string)     { n.record("chat_deleted", chatID, "") }
func (n *recNotifier) ChatCreated(chat *domain.Chat) { n.record("chat_created", chat.ID, chat.Name) }

func (n *recNotifier) all() []recEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]recEvent, len(n.events))
	copy(out, n.events)
	return out
}

// окружение тестов сервисного слоя
type testEnv struct {
	db       *memDB
	users    fakeUserStore
	chats    fakeChatStore
	members  fakeMemberStore
	messages fakeMessageStore
	notifier *recNotifier

	userSvc *UserService
	chatSvc *ChatService
	msgSvc  *MessageService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	env := &testEnv{
		db:       db,
		users:    fakeUserStore{db: db},
		chats:    fakeChatStore{db: db},
		members:  fakeMemberStore{db: db},
		messages: fakeMessageStore{db: db},
		notifier: &recNotifier{},
	}
	env.userSvc = NewUserService(env.users)
	env.chatSvc = NewChatService(env.chats, env.members, env.users, env.notifier)
	env.msgSvc = NewMessageService(env.messages, env.chats, env.users, env.members, env.notifier)
	return env
}

func (e *testEnv) mustUser(name string) *domain.User {
	u, err := e.users.Create(context.Background(), name)
	if err != nil {
		panic(err)
	}
	return u
}
