package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrNickRequired   = errors.New("missing 'nick' in JSON body")
	ErrNameRequired   = errors.New("missing 'name' query parameter")

	// Chat errors
	ErrMessageFieldsRequired = errors.New("missing 'nick' or 'message_text' in JSON body")
	ErrInvalidRange          = errors.New("invalid message id range")
)
