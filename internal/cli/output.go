package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		_, _ = fmt.Fprintf(o.w, "Status: %s\nStorage: %s\n", v.Status, v.Storage)
	case NickResult:
		_, _ = fmt.Fprintf(o.w, "Nick: %s\n", v.Nick)
	case ExistsResult:
		o.printExists(v)
	case MessageResult:
		_, _ = fmt.Fprintln(o.w, v.Message)
	case []ChatMessage:
		o.printChat(v)
	case PostResult:
		_, _ = fmt.Fprintf(o.w, "Message posted (id %d)\n", v.MessageID)
	case DeletePlayerResult:
		_, _ = fmt.Fprintf(o.w, "Deleted player %s (%d)\n", v.AuthID, v.DeletedCount)
	case DeleteRangeResult:
		_, _ = fmt.Fprintf(o.w, "Deleted %d message(s)\n", v.DeletedCount)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

// NickResult response type
type NickResult struct {
	Nick string `json:"nick"`
}

// ExistsResult response type
type ExistsResult struct {
	Exists bool `json:"exists"`
}

// MessageResult is a plain confirmation
type MessageResult struct {
	Message string `json:"message"`
}

// ChatMessage response type
type ChatMessage struct {
	MessageID   int64     `json:"message_id"`
	Nick        string    `json:"nick"`
	MessageText string    `json:"message_text"`
	Timestamp   time.Time `json:"timestamp"`
}

// PostResult response type
type PostResult struct {
	Message   string `json:"message"`
	MessageID int64  `json:"message_id"`
}

// DeletePlayerResult response type
type DeletePlayerResult struct {
	Message      string `json:"message"`
	AuthID       string `json:"auth_id"`
	DeletedCount int64  `json:"deleted_count"`
}

// DeleteRangeResult response type
type DeleteRangeResult struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

func (o *Output) printExists(e ExistsResult) {
	if e.Exists {
		_, _ = fmt.Fprintln(o.w, "Taken")
		return
	}
	_, _ = fmt.Fprintln(o.w, "Available")
}

func (o *Output) printChat(msgs []ChatMessage) {
	if len(msgs) == 0 {
		_, _ = fmt.Fprintln(o.w, "No messages")
		return
	}
	for _, m := range msgs {
		_, _ = fmt.Fprintf(o.w, "[%d] %s <%s> %s\n",
			m.MessageID, m.Timestamp.UTC().Format(time.RFC3339), m.Nick, m.MessageText)
	}
}
