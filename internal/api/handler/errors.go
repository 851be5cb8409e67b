package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/nickchat/internal/api/apierr"
	"github.com/mcoot/nickchat/internal/api/request"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	if errors.Is(err, request.ErrInvalidBody) {
		err = apierr.NewInvalidRequestError("Invalid JSON body")
	}
	apierr.WriteError(w, err)
}
