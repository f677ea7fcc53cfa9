package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cwrk-planet/chat-service/internal/domain"
	"github.com/cwrk-planet/chat-service/internal/service"
	httpmw "github.com/cwrk-planet/chat-service/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type Handler struct {
	userSvc *service.UserService
	chatSvc *service.ChatService
	msgSvc  *service.MessageService

	validate *validator.Validate
}

func NewHandler(user *service.UserService, chat *service.ChatService, msg *service.MessageService) *Handler {
	return &Handler{
		userSvc:  user,
		chatSvc:  chat,
		msgSvc:   msg,
		validate: validator.New(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// маппинг доменных ошибок на статусы: conflict / not-found / forbidden / internal
func respondErr(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrChatNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUserNameTaken),
		errors.Is(err, domain.ErrChatNameTaken),
		errors.Is(err, domain.ErrAlreadyMember):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrNotMember):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("handler."+op+":", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func (h *Handler) decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	u, err := h.userSvc.CreateUser(r.Context(), req.Name)
	if err != nil {
		respondErr(w, "CreateUser", err)
		return
	}

	writeJSON(w, http.StatusCreated, UserItem{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt})
}

// GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userSvc.ListUsers(r.Context())
	if err != nil {
		respondErr(w, "ListUsers", err)
		return
	}

	writeJSON(w, http.StatusOK, UsersListResponse{
		Items: lo.Map(users, func(u domain.User, _ int) UserItem {
			return UserItem{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
		}),
	})
}

// GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.userSvc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, "GetUser", err)
		return
	}

	writeJSON(w, http.StatusOK, UserItem{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt})
}

// POST /chats
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	creatorID := httpmw.UserIDFromCtx(r.Context())
	chat, err := h.chatSvc.CreateChat(r.Context(), creatorID, req.Name)
	if err != nil {
		respondErr(w, "CreateChat", err)
		return
	}

	writeJSON(w, http.StatusCreated, ChatItem{
		ID:        chat.ID,
		Name:      chat.Name,
		OwnerID:   chat.OwnerID,
		CreatedAt: chat.CreatedAt,
	})
}

// GET /chats
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chatSvc.ListChats(r.Context())
	if err != nil {
		respondErr(w, "ListChats", err)
		return
	}

	writeJSON(w, http.StatusOK, ChatsListResponse{
		Items: lo.Map(chats, func(c domain.ChatSummary, _ int) ChatSummaryItem {
			return ChatSummaryItem{ID: c.ID, Name: c.Name, OwnerID: c.OwnerID, Members: c.Members}
		}),
	})
}

// GET /chats/{id}
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chatSvc.GetChat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, "GetChat", err)
		return
	}

	writeJSON(w, http.StatusOK, ChatItem{
		ID:        chat.ID,
		Name:      chat.Name,
		OwnerID:   chat.OwnerID,
		CreatedAt: chat.CreatedAt,
	})
}

// POST /chats/{id}/rename
func (h *Handler) RenameChat(w http.ResponseWriter, r *http.Request) {
	var req RenameChatRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	chatID := chi.URLParam(r, "id")
	requesterID := httpmw.UserIDFromCtx(r.Context())
	if err := h.chatSvc.RenameChat(r.Context(), requesterID, chatID, req.NewName); err != nil {
		respondErr(w, "RenameChat", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

// DELETE /chats/{id}
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	requesterID := httpmw.UserIDFromCtx(r.Context())
	if err := h.chatSvc.DeleteChat(r.Context(), requesterID, chatID); err != nil {
		respondErr(w, "DeleteChat", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// POST /chats/{id}/members
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	chatID := chi.URLParam(r, "id")
	if err := h.chatSvc.AddMember(r.Context(), chatID, req.UserID); err != nil {
		respondErr(w, "AddMember", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// GET /chats/{id}/members
func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.chatSvc.GetMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, "GetMembers", err)
		return
	}

	writeJSON(w, http.StatusOK, MembersResponse{
		Items: lo.Map(members, func(m domain.Membership, _ int) MemberItem {
			return MemberItem{UserID: m.UserID, JoinedAt: m.JoinedAt}
		}),
	})
}

// POST /chats/{id}/messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !h.decodeValid(w, r, &req) {
		return
	}

	chatID := chi.URLParam(r, "id")
	authorID := httpmw.UserIDFromCtx(r.Context())
	msg, err := h.msgSvc.SendMessage(r.Context(), chatID, authorID, req.Text)
	if err != nil {
		respondErr(w, "SendMessage", err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageItem{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		AuthorID:  msg.AuthorID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	})
}

// GET /chats/{id}/messages?limit=
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	msgs, err := h.msgSvc.GetMessages(r.Context(), chatID, limit)
	if err != nil {
		respondErr(w, "GetMessages", err)
		return
	}

	writeJSON(w, http.StatusOK, MessagesResponse{
		Items: lo.Map(msgs, func(m domain.Message, _ int) MessageItem {
			return MessageItem{
				ID:        m.ID,
				ChatID:    m.ChatID,
				AuthorID:  m.AuthorID,
				Text:      m.Text,
				CreatedAt: m.CreatedAt,
			}
		}),
	})
}
