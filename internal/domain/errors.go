package domain

import "errors"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrChatNotFound  = errors.New("chat not found")
	ErrUserNameTaken = errors.New("user name already taken")
	ErrChatNameTaken = errors.New("chat name already taken")
	ErrAlreadyMember = errors.New("user already a member of the chat")
	ErrNotMember     = errors.New("user is not a member of the chat")
	ErrNotOwner      = errors.New("only the chat owner may do this")
)
