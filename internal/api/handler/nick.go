package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nickchat/internal/api/request"
	"github.com/mcoot/nickchat/internal/api/response"
	"github.com/mcoot/nickchat/internal/metrics"
	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/services/nick"
)

// NickHandler handles player nick endpoints
type NickHandler struct {
	nickService *nick.Service
	metrics     *metrics.Metrics
}

// NewNickHandler creates a new nick handler
func NewNickHandler(nickService *nick.Service, m *metrics.Metrics) *NickHandler {
	return &NickHandler{
		nickService: nickService,
		metrics:     m,
	}
}

// Get handles GET /player/{auth_id}/nick
func (h *NickHandler) Get(w http.ResponseWriter, r *http.Request) {
	authID := model.AuthID(mux.Vars(r)["auth_id"])

	n, err := h.nickService.GetNick(r.Context(), authID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.NickResponse{Nick: n})
}

// Set handles POST /player/{auth_id}/nick
func (h *NickHandler) Set(w http.ResponseWriter, r *http.Request) {
	authID := model.AuthID(mux.Vars(r)["auth_id"])

	var req request.SetNickRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.nickService.SetNick(r.Context(), authID, req.Nick); err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.NickUpdated()

	response.JSON(w, http.StatusOK, response.MessageResponse{Message: "Nick updated successfully"})
}

// Check handles GET /nicks/check?name=X
func (h *NickHandler) Check(w http.ResponseWriter, r *http.Request) {
	exists, err := h.nickService.NickExists(r.Context(), request.QueryParam(r, "name"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ExistsResponse{Exists: exists})
}
