package model

import "time"

// AuthID is the opaque external identity of a player. It is supplied by
// the game client and never generated here.
type AuthID string

// PlayerNick is the display name currently held by a player
type PlayerNick struct {
	AuthID    AuthID
	Nick      string
	UpdatedAt time.Time
}

// NickEqualFold reports whether two nicks match ignoring the case of ASCII
// letters. Other characters must match exactly, the same rule SQLite's
// NOCASE collation applies, so every backend answers existence checks alike.
func NickEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
