package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// ErrInvalidBody is returned when a request body is not valid JSON
var ErrInvalidBody = errors.New("invalid JSON body")

// SetNickRequest is the request body for setting a player's nick
type SetNickRequest struct {
	Nick string `json:"nick"`
}

// PostMessageRequest is the request body for posting a chat message
type PostMessageRequest struct {
	Nick        string `json:"nick"`
	MessageText string `json:"message_text"`
}

// DeleteRangeRequest is the request body for deleting a range of messages
type DeleteRangeRequest struct {
	StartID MessageIDParam `json:"start_id"`
	EndID   MessageIDParam `json:"end_id"`
}

// MessageIDParam accepts a JSON integer or a numeric string. Parsing and
// range checks happen in the admin service; this only normalizes to text.
type MessageIDParam string

// UnmarshalJSON implements json.Unmarshaler
func (p *MessageIDParam) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = MessageIDParam(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("message id must be an integer or numeric string")
	}
	*p = MessageIDParam(n.String())
	return nil
}

// Decode reads a JSON body into v. An empty body leaves v at its zero
// value so the caller's own required-field checks report what is missing.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	default:
		return ErrInvalidBody
	}
}

// QueryParam returns a trimmed query parameter
func QueryParam(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}
