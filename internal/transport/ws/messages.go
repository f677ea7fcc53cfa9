package ws

// Лобби — фиксированная группа, в которую попадает каждое подключение;
// туда уходят анонсы новых чатов.
const LobbyChatID = "lobby"

// События, которые рассылает сервер
const (
	TypeMessageCreated = "message_created"
	TypeMemberAdded    = "member_added"
	TypeChatRenamed    = "chat_renamed"
	TypeChatDeleted    = "chat_deleted"
	TypeChatCreated    = "chat_created"
)

// Кадры, которые присылает клиент
const (
	TypeSubscribe   = "subscribe"   // интерес к событиям чата
	TypeUnsubscribe = "unsubscribe" // отказ от событий чата
	TypeChat        = "chat"        // отправка сообщения через сокет
)

type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type MessageCreatedPayload struct {
	ChatID    string `json:"chat_id"`
	MessageID string `json:"message_id"`
	AuthorID  string `json:"author_id"`
	Text      string `json:"text"`
	TSUnix    int64  `json:"ts_unix"`
}

type MemberAddedPayload struct {
	ChatID string `json:"chat_id"`
	UserID string `json:"user_id"`
}

type ChatRenamedPayload struct {
	ChatID  string `json:"chat_id"`
	NewName string `json:"new_name"`
}

type ChatDeletedPayload struct {
	ChatID string `json:"chat_id"`
}

type ChatCreatedPayload struct {
	ChatID    string `json:"chat_id"`
	Name      string `json:"name"`
	CreatorID string `json:"creator_id"`
}

type SubscribePayload struct {
	ChatID string `json:"chat_id"`
}

type ChatSendPayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}
