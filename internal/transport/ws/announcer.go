package ws

import "github.com/cwrk-planet/chat-service/internal/domain"

// Announcer переводит события оркестратора в кадры хаба (service.Notifier).
// Все методы fire-and-forget: к моменту вызова мутация уже зафиксирована.
type Announcer struct {
	hub *Hub
}

func NewAnnouncer(hub *Hub) *Announcer {
	return &Announcer{hub: hub}
}

func (a *Announcer) MessageCreated(chatID string, m *domain.Message) {
	a.hub.Broadcast(chatID, Message{
		Type: TypeMessageCreated,
		Payload: MessageCreatedPayload{
			ChatID:    m.ChatID,
			MessageID: m.ID,
			AuthorID:  m.AuthorID,
			Text:      m.Text,
			TSUnix:    m.CreatedAt.Unix(),
		},
	})
}

func (a *Announcer) MemberAdded(chatID, userID string) {
	a.hub.Broadcast(chatID, Message{
		Type:    TypeMemberAdded,
		Payload: MemberAddedPayload{ChatID: chatID, UserID: userID},
	})
}

func (a *Announcer) ChatRenamed(chatID, newName string) {
	a.hub.Broadcast(chatID, Message{
		Type:    TypeChatRenamed,
		Payload: ChatRenamedPayload{ChatID: chatID, NewName: newName},
	})
}

// ChatDeleted — уведомить текущих подписчиков и зачистить группу чата.
func (a *Announcer) ChatDeleted(chatID string) {
	a.hub.Broadcast(chatID, Message{
		Type:    TypeChatDeleted,
		Payload: ChatDeletedPayload{ChatID: chatID},
	})
	a.hub.DropChat(chatID)
}

// ChatCreated — у нового чата подписчиков ещё нет, анонс уходит в лобби.
func (a *Announcer) ChatCreated(chat *domain.Chat) {
	a.hub.Broadcast(LobbyChatID, Message{
		Type:    TypeChatCreated,
		Payload: ChatCreatedPayload{ChatID: chat.ID, Name: chat.Name, CreatorID: chat.OwnerID},
	})
}
