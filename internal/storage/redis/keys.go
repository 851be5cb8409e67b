package redis

import "fmt"

// keys derives every Redis key from the configured prefix
type keys struct {
	prefix string
}

// playerNicks is the HASH of auth_id -> nickRecord
func (k keys) playerNicks() string {
	return fmt.Sprintf("%s:player_nicks", k.prefix)
}

// messageSeq is the counter that hands out message IDs. It is never
// decremented, so IDs are not reused after deletion.
func (k keys) messageSeq() string {
	return fmt.Sprintf("%s:chat:seq", k.prefix)
}

// messages is the HASH of message_id -> messageRecord
func (k keys) messages() string {
	return fmt.Sprintf("%s:chat:messages", k.prefix)
}

// messageIDs is the ZSET of message IDs scored by the ID itself
func (k keys) messageIDs() string {
	return fmt.Sprintf("%s:chat:ids", k.prefix)
}
