package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"waitlist-system/models"
	"waitlist-system/services"
)

// ShopHandler serves the in-shop kiosk: walk-in registration and the
// counter's arrival check-in. Routes carry the kiosk passcode middleware.
type ShopHandler struct {
	app      *pocketbase.PocketBase
	waitlist *services.WaitlistService
}

func NewShopHandler(app *pocketbase.PocketBase, waitlist *services.WaitlistService) *ShopHandler {
	return &ShopHandler{
		app:      app,
		waitlist: waitlist,
	}
}

// Register - walk-in registration at the kiosk, prints a paper ticket
func (h *ShopHandler) Register(e *core.RequestEvent) error {
	var req registerRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	guest, err := h.waitlist.Register(
		e.Request.Context(),
		models.OriginShop,
		models.PartySize{Adults: req.Adults, Children: req.Children, Infants: req.Infants},
		models.SeatPreference(req.SeatPreference),
	)
	if err != nil {
		return toAPIError(err)
	}

	position, _, _ := h.waitlist.Position(e.Request.Context(), guest.DisplayID)

	return e.JSON(http.StatusOK, map[string]any{
		"display_id": guest.DisplayID,
		"position":   position,
	})
}

// Arrived - the party showed up at the counter
func (h *ShopHandler) Arrived(e *core.RequestEvent) error {
	displayID := e.Request.PathValue("displayId")
	if displayID == "" {
		return apis.NewBadRequestError("Display ID required", nil)
	}

	if err := h.waitlist.MarkArrived(e.Request.Context(), displayID); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Arrival recorded"})
}

// Queue - the full active queue for the counter display
func (h *ShopHandler) Queue(e *core.RequestEvent) error {
	snapshot, err := h.waitlist.Snapshot(e.Request.Context())
	if err != nil {
		return toAPIError(err)
	}

	// The counter display shows the queue but has no business with tokens.
	queue := make([]models.Guest, len(snapshot.ActiveQueue))
	for i, g := range snapshot.ActiveQueue {
		g.CancelToken = ""
		queue[i] = g
	}

	return e.JSON(http.StatusOK, map[string]any{
		"queue":     queue,
		"accepting": snapshot.Accepting,
	})
}
