package service

import "github.com/cwrk-planet/chat-service/internal/domain"

// Notifier — уведомления живым подписчикам чата. Реализация (ws hub)
// обязана быть неблокирующей: доставка best-effort, ошибки не всплывают
// обратно в оркестратор — мутация к этому моменту уже зафиксирована.
type Notifier interface {
	MessageCreated(chatID string, msg *domain.Message)
	MemberAdded(chatID, userID string)
	ChatRenamed(chatID, newName string)
	ChatDeleted(chatID string)
	ChatCreated(chat *domain.Chat)
}

// NopNotifier — для тестов и конфигураций без live-подписчиков.
type NopNotifier struct{}

func (NopNotifier) MessageCreated(string, *domain.Message) {}
func (NopNotifier) MemberAdded(string, string)             {}
func (NopNotifier) ChatRenamed(string, string)             {}
func (NopNotifier) ChatDeleted(string)                     {}
func (NopNotifier) ChatCreated(*domain.Chat)               {}

