package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/nickchat/internal/api/request"
	"github.com/mcoot/nickchat/internal/api/response"
	"github.com/mcoot/nickchat/internal/metrics"
	"github.com/mcoot/nickchat/internal/model"
	"github.com/mcoot/nickchat/internal/services/admin"
)

// AdminHandler handles privileged deletion endpoints
type AdminHandler struct {
	adminService *admin.Service
	metrics      *metrics.Metrics
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service, m *metrics.Metrics) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		metrics:      m,
	}
}

// DeletePlayer handles DELETE /admin/player/{auth_id}
func (h *AdminHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	authID := mux.Vars(r)["auth_id"]

	n, err := h.adminService.DeletePlayer(r.Context(), model.AuthID(authID))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.PlayersDeleted(n)

	response.JSON(w, http.StatusOK, response.DeletePlayerResponse{
		Message:      "Player deleted successfully",
		AuthID:       authID,
		DeletedCount: n,
	})
}

// DeleteChatRange handles POST /admin/chat/delete_range
func (h *AdminHandler) DeleteChatRange(w http.ResponseWriter, r *http.Request) {
	var req request.DeleteRangeRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	n, err := h.adminService.DeleteChatRange(r.Context(), string(req.StartID), string(req.EndID))
	if err != nil {
		WriteError(w, err)
		return
	}
	h.metrics.MessagesDeleted(n)

	response.JSON(w, http.StatusOK, response.DeleteRangeResponse{
		Message:      "Chat messages deleted successfully",
		DeletedCount: n,
	})
}
