package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MessageID identifies a chat message. IDs increase with insertion order
// and are never reused, even after deletion.
type MessageID int64

// ChatMessage is one entry of the public chat log. Nick is a snapshot of
// the sender's name at posting time and is not linked to a PlayerNick.
type ChatMessage struct {
	ID        MessageID
	Nick      string
	Text      string
	Timestamp time.Time
}

// MessageRange is an inclusive range of message IDs
type MessageRange struct {
	Start MessageID
	End   MessageID
}

// ParseMessageRange parses both bounds and checks Start <= End.
// Equal bounds are valid and select a single message.
func ParseMessageRange(start, end string) (MessageRange, error) {
	s, err := parseMessageID("start_id", start)
	if err != nil {
		return MessageRange{}, err
	}
	e, err := parseMessageID("end_id", end)
	if err != nil {
		return MessageRange{}, err
	}
	if s > e {
		return MessageRange{}, fmt.Errorf("%w: start_id must be less than or equal to end_id", ErrInvalidRange)
	}
	return MessageRange{Start: s, End: e}, nil
}

func parseMessageID(field, raw string) (MessageID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidRange, field)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidRange, field)
	}
	return MessageID(v), nil
}
