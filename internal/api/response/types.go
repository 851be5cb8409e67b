package response

import (
	"time"

	"github.com/mcoot/nickchat/internal/model"
)

// HealthResponse is returned by GET /
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// NickResponse is returned when reading a player's nick
type NickResponse struct {
	Nick string `json:"nick"`
}

// MessageResponse is a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// ExistsResponse is returned by the nick availability check
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// ChatMessage represents a chat message in API responses
type ChatMessage struct {
	MessageID   int64     `json:"message_id"`
	Nick        string    `json:"nick"`
	MessageText string    `json:"message_text"`
	Timestamp   time.Time `json:"timestamp"`
}

// ChatMessageFromModel converts a model.ChatMessage to a response ChatMessage
func ChatMessageFromModel(m model.ChatMessage) ChatMessage {
	return ChatMessage{
		MessageID:   int64(m.ID),
		Nick:        m.Nick,
		MessageText: m.Text,
		Timestamp:   m.Timestamp.UTC(),
	}
}

// ChatMessagesFromModel converts a slice, never returning nil so the body
// is always a JSON array
func ChatMessagesFromModel(msgs []model.ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ChatMessageFromModel(m))
	}
	return out
}

// PostMessageResponse is returned after a chat message is stored
type PostMessageResponse struct {
	Message   string `json:"message"`
	MessageID int64  `json:"message_id"`
}

// DeletePlayerResponse is returned by the admin player delete
type DeletePlayerResponse struct {
	Message      string `json:"message"`
	AuthID       string `json:"auth_id"`
	DeletedCount int64  `json:"deleted_count"`
}

// DeleteRangeResponse is returned by the admin chat range delete
type DeleteRangeResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}
