// handlers/queue_handler.go
package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"waitlist-system/models"
	"waitlist-system/services"
)

// QueueHandler serves the public customer surface: web registration, the
// position page and self-cancel.
type QueueHandler struct {
	app      *pocketbase.PocketBase
	waitlist *services.WaitlistService
}

func NewQueueHandler(app *pocketbase.PocketBase, waitlist *services.WaitlistService) *QueueHandler {
	return &QueueHandler{
		app:      app,
		waitlist: waitlist,
	}
}

type registerRequest struct {
	Adults         int    `json:"adults"`
	Children       int    `json:"children"`
	Infants        int    `json:"infants"`
	SeatPreference string `json:"seat_preference"`
}

// Register - web registration from the customer's phone
func (h *QueueHandler) Register(e *core.RequestEvent) error {
	var req registerRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	guest, err := h.waitlist.Register(
		e.Request.Context(),
		models.OriginWeb,
		models.PartySize{Adults: req.Adults, Children: req.Children, Infants: req.Infants},
		models.SeatPreference(req.SeatPreference),
	)
	if err != nil {
		return toAPIError(err)
	}

	position, _, _ := h.waitlist.Position(e.Request.Context(), guest.DisplayID)

	return e.JSON(http.StatusOK, map[string]any{
		"display_id":   guest.DisplayID,
		"position":     position,
		"cancel_token": guest.CancelToken,
		"channel":      "guest-" + guest.DisplayID,
	})
}

// Position - the "N parties ahead" view for a waiting customer
func (h *QueueHandler) Position(e *core.RequestEvent) error {
	displayID := e.Request.PathValue("displayId")
	if displayID == "" {
		return apis.NewBadRequestError("Display ID required", nil)
	}

	position, guest, err := h.waitlist.Position(e.Request.Context(), displayID)
	if err != nil {
		return toAPIError(err)
	}

	board, err := h.waitlist.Board(e.Request.Context())
	if err != nil {
		return toAPIError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"display_id":           guest.DisplayID,
		"position":             position,
		"parties_ahead":        position - 1,
		"status":               guest.Status,
		"average_wait_minutes": board.AverageWaitMinutes,
	})
}

// Cancel - the customer abandons their own ticket
func (h *QueueHandler) Cancel(e *core.RequestEvent) error {
	var req struct {
		DisplayID   string `json:"display_id"`
		CancelToken string `json:"cancel_token"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}
	if req.DisplayID == "" || req.CancelToken == "" {
		return apis.NewBadRequestError("Display ID and cancel token required", nil)
	}

	if err := h.waitlist.CancelOwn(e.Request.Context(), req.DisplayID, req.CancelToken); err != nil {
		return toAPIError(err)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Ticket cancelled"})
}

// Board - public waiting board, counts only
func (h *QueueHandler) Board(e *core.RequestEvent) error {
	board, err := h.waitlist.Board(e.Request.Context())
	if err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, board)
}
