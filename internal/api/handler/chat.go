package handler

import (
	"net/http"

	"github.com/mcoot/nickchat/internal/api/request"
	"github.com/mcoot/nickchat/internal/api/response"
	"github.com/mcoot/nickchat/internal/metrics"
	"github.com/mcoot/nickchat/internal/services/chat"
)

// ChatHandler handles chat log endpoints
type ChatHandler struct {
	chatService *chat.Service
	metrics     *metrics.Metrics
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service, m *metrics.Metrics) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		metrics:     m,
	}
}

// List handles GET /chat/messages
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chatService.ListRecent(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ChatMessagesFromModel(msgs))
}

// Post handles POST /chat/message
func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req request.PostMessageRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	msg, err := h.chatService.PostMessage(r.Context(), req.Nick, req.MessageText)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.MessagePosted()

	response.JSON(w, http.StatusCreated, response.PostMessageResponse{
		Message:   "Message posted successfully",
		MessageID: int64(msg.ID),
	})
}
