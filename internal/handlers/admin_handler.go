package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"waitlist-system/models"
	"waitlist-system/services"
)

// AdminHandler serves the staff dashboard: calling, arrival/absence marking,
// completion, force removal, the accepting gate and the stats reset.
type AdminHandler struct {
	app      *pocketbase.PocketBase
	waitlist *services.WaitlistService
	archiver *services.PBArchiver
}

func NewAdminHandler(app *pocketbase.PocketBase, waitlist *services.WaitlistService, archiver *services.PBArchiver) *AdminHandler {
	return &AdminHandler{
		app:      app,
		waitlist: waitlist,
		archiver: archiver,
	}
}

func requireAdmin(e *core.RequestEvent) error {
	if e.Auth == nil || (!e.Auth.IsSuperuser() && e.Auth.Collection().Name != "admins") {
		return apis.NewUnauthorizedError("Admin access required", nil)
	}
	return nil
}

func (h *AdminHandler) displayID(e *core.RequestEvent) (string, error) {
	id := e.Request.PathValue("displayId")
	if id == "" {
		return "", apis.NewBadRequestError("Display ID required", nil)
	}
	return id, nil
}

// Call - announce a guest (plays the chime on their device)
func (h *AdminHandler) Call(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}
	id, err := h.displayID(e)
	if err != nil {
		return err
	}
	if err := h.waitlist.MarkCalling(e.Request.Context(), id); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Guest called"})
}

// Arrived - staff-side arrival marking
func (h *AdminHandler) Arrived(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}
	id, err := h.displayID(e)
	if err != nil {
		return err
	}
	if err := h.waitlist.MarkArrived(e.Request.Context(), id); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Arrival recorded"})
}

// Absent - guest did not respond to the call; keeps their position
func (h *AdminHandler) Absent(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}
	id, err := h.displayID(e)
	if err != nil {
		return err
	}
	if err := h.waitlist.MarkAbsent(e.Request.Context(), id); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Guest marked absent"})
}

// Complete - party seated; updates the day's stats and frees the slot
func (h *AdminHandler) Complete(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}
	id, err := h.displayID(e)
	if err != nil {
		return err
	}
	if err := h.waitlist.Complete(e.Request.Context(), id); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Guest completed"})
}

// Remove - force removal, no stats effect
func (h *AdminHandler) Remove(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}
	id, err := h.displayID(e)
	if err != nil {
		return err
	}
	if err := h.waitlist.Remove(e.Request.Context(), id); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Guest removed"})
}

// SetAccepting - open or pause new registrations
func (h *AdminHandler) SetAccepting(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}

	var req struct {
		Accepting bool `json:"accepting"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request", err)
	}

	if err := h.waitlist.SetAccepting(e.Request.Context(), req.Accepting); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"accepting": req.Accepting})
}

// ResetStats - zero the day's counters and clear the queue. The dashboard
// asks "are you sure?" before calling this; the operation itself does not.
func (h *AdminHandler) ResetStats(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}
	if err := h.waitlist.ResetStats(e.Request.Context()); err != nil {
		return toAPIError(err)
	}
	return e.JSON(http.StatusOK, map[string]any{"message": "Stats reset"})
}

// Dashboard - full snapshot plus recent archived days
func (h *AdminHandler) Dashboard(e *core.RequestEvent) error {
	if err := requireAdmin(e); err != nil {
		return err
	}

	snapshot, err := h.waitlist.Snapshot(e.Request.Context())
	if err != nil {
		return toAPIError(err)
	}

	counts := map[models.GuestStatus]int{}
	for i := range snapshot.ActiveQueue {
		counts[snapshot.ActiveQueue[i].Status]++
	}

	queue := make([]models.Guest, len(snapshot.ActiveQueue))
	for i, g := range snapshot.ActiveQueue {
		g.CancelToken = ""
		queue[i] = g
	}

	history := []services.DailyStatsRow{}
	if h.archiver != nil {
		if rows, err := h.archiver.RecentDailyStats(7); err == nil {
			history = rows
		}
	}

	return e.JSON(http.StatusOK, map[string]any{
		"business_day":  snapshot.BusinessDay,
		"accepting":     snapshot.Accepting,
		"stats":         snapshot.Stats,
		"next_sequence": snapshot.NextSequence,
		"queue":         queue,
		"counts": map[string]int{
			"waiting": counts[models.StatusWaiting],
			"calling": counts[models.StatusCalling],
			"arrived": counts[models.StatusArrived],
			"absent":  counts[models.StatusAbsent],
		},
		"history": history,
	})
}
