package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateUserRequest struct {
	Name string `json:"name" validate:"required,min=1,max=64"`
}

type UserItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UsersListResponse struct {
	Items []UserItem `json:"items"`
}

type CreateChatRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

type ChatItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSummaryItem struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
	Members int64  `json:"members"`
}

type ChatsListResponse struct {
	Items []ChatSummaryItem `json:"items"`
}

type RenameChatRequest struct {
	NewName string `json:"new_name" validate:"required,min=1,max=128"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type MemberItem struct {
	UserID   string    `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

type MembersResponse struct {
	Items []MemberItem `json:"items"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type MessageItem struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type MessagesResponse struct {
	Items []MessageItem `json:"items"`
}
