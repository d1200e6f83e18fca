package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"waitlist-system/config"
	"waitlist-system/internal/status"
	"waitlist-system/models"
	"waitlist-system/monitoring"
	"waitlist-system/utils"
)

const businessDayLayout = "2006-01-02"

// WaitlistService owns the day's QueueState. It is the single writer: every
// mutation takes the mutex, is applied against the current committed state,
// is persisted through the store, and only then is broadcast. Customer, shop
// and admin surfaces call the named operations below and never hold a
// writable copy of the state.
type WaitlistService struct {
	mu    sync.Mutex
	state *models.QueueState

	store    StateStore
	notifier Notifier
	archiver Archiver
	config   *config.Config

	location *time.Location
	now      func() time.Time

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewWaitlistService(store StateStore, notifier Notifier, archiver Archiver, cfg *config.Config) (*WaitlistService, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	s := &WaitlistService{
		store:    store,
		notifier: notifier,
		archiver: archiver,
		config:   cfg,
		location: location,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	if err := s.restoreState(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// restoreState loads the committed snapshot so a restart does not lose the
// queue, then applies the rollover check in case the stored state belongs to
// a previous business day.
func (s *WaitlistService) restoreState(ctx context.Context) error {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrPersistenceUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if stored == nil {
		s.state = models.NewQueueState(s.businessDay())
		log.Printf("No stored waitlist state, starting fresh for %s", s.state.BusinessDay)
		return s.persistLocked(ctx)
	}

	s.state = stored
	log.Printf("Restored waitlist state: %d active, day %s", len(stored.ActiveQueue), stored.BusinessDay)
	return s.rolloverLocked(ctx)
}

func (s *WaitlistService) businessDay() string {
	return s.now().In(s.location).Format(businessDayLayout)
}

// rolloverLocked resets the state once the calendar date in the configured
// timezone moves past the stored business day. The outgoing day's stats are
// archived first so the reset does not erase them.
func (s *WaitlistService) rolloverLocked(ctx context.Context) error {
	today := s.businessDay()
	if s.state.BusinessDay == today {
		return nil
	}

	if s.archiver != nil && s.state.Stats.TotalRegisteredToday > 0 {
		logArchiveErr("daily stats", s.archiver.ArchiveDailyStats(s.state.BusinessDay, s.state.Stats))
	}

	log.Printf("Business day rollover: %s -> %s (%d guests dropped)",
		s.state.BusinessDay, today, len(s.state.ActiveQueue))

	s.state = models.NewQueueState(today)
	return s.persistLocked(ctx)
}

func (s *WaitlistService) persistLocked(ctx context.Context) error {
	if err := s.store.Save(ctx, s.state); err != nil {
		return fmt.Errorf("%w: %v", status.ErrPersistenceUnavailable, err)
	}
	return nil
}

// mutate runs fn against the current state under the writer lock. If fn or
// the save fails the previous state is kept, so failed operations are
// invisible to observers.
func (s *WaitlistService) mutate(ctx context.Context, fn func(state *models.QueueState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rolloverLocked(ctx); err != nil {
		return err
	}

	prev := s.state
	working := s.state.Clone()
	if err := fn(working); err != nil {
		return err
	}

	s.state = working
	if err := s.persistLocked(ctx); err != nil {
		s.state = prev
		return err
	}
	return nil
}

// Register appends a new party to the end of the queue. Fails when the
// accepting gate is closed or the party has no adult; neither failure
// consumes a sequence number.
func (s *WaitlistService) Register(ctx context.Context, origin models.OriginType, party models.PartySize, pref models.SeatPreference) (models.Guest, error) {
	if !origin.Valid() {
		return models.Guest{}, fmt.Errorf("unknown origin type %q", origin)
	}
	if !party.Valid() {
		return models.Guest{}, status.ErrInvalidPartySize
	}
	if !pref.Valid() {
		return models.Guest{}, status.ErrInvalidSeatPreference
	}

	token, err := utils.GenerateCode(16)
	if err != nil {
		return models.Guest{}, fmt.Errorf("generate cancel token: %w", err)
	}

	var guest models.Guest
	err = s.mutate(ctx, func(state *models.QueueState) error {
		if !state.Accepting {
			return status.ErrRegistrationClosed
		}

		guest = models.Guest{
			DisplayID:    nextDisplayID(state, origin),
			Origin:       origin,
			Adults:       party.Adults,
			Children:     party.Children,
			Infants:      party.Infants,
			Pref:         pref,
			Status:       models.StatusWaiting,
			RegisteredAt: s.now(),
			CancelToken:  token,
		}
		state.ActiveQueue = append(state.ActiveQueue, guest)
		state.Stats.TotalRegisteredToday++
		return nil
	})
	if err != nil {
		monitoring.TrackOperation("register", "error")
		return models.Guest{}, err
	}
	monitoring.TrackOperation("register", "success")

	s.notifier.GuestEvent(guest.DisplayID, "registered", map[string]any{
		"position": s.positionQuiet(guest.DisplayID),
	})
	s.notifyBoard()
	return guest, nil
}

// MarkCalling announces a guest. Only a waiting guest can be called; a
// second call on the same guest fails, which protects against double-clicks
// from two admin screens.
func (s *WaitlistService) MarkCalling(ctx context.Context, displayID string) error {
	if err := s.transition(ctx, displayID, models.StatusCalling, models.StatusWaiting); err != nil {
		return err
	}
	s.notifier.GuestEvent(displayID, "calling", map[string]any{
		"message": "Your table is ready, please come to the counter",
	})
	s.notifyBoard()
	return nil
}

// MarkArrived records that the party checked in at the counter.
func (s *WaitlistService) MarkArrived(ctx context.Context, displayID string) error {
	if err := s.transition(ctx, displayID, models.StatusArrived, models.StatusWaiting, models.StatusCalling); err != nil {
		return err
	}
	s.notifier.GuestEvent(displayID, "arrived", nil)
	s.notifyBoard()
	return nil
}

// MarkAbsent flags a guest who did not respond to a call. The guest keeps
// its queue position until completed or removed.
func (s *WaitlistService) MarkAbsent(ctx context.Context, displayID string) error {
	if err := s.transition(ctx, displayID, models.StatusAbsent, models.StatusWaiting, models.StatusCalling); err != nil {
		return err
	}
	s.notifier.GuestEvent(displayID, "absent", nil)
	s.notifyBoard()
	return nil
}

func (s *WaitlistService) transition(ctx context.Context, displayID string, to models.GuestStatus, allowedFrom ...models.GuestStatus) error {
	stamp := s.now()
	return s.mutate(ctx, func(state *models.QueueState) error {
		idx := state.IndexOf(displayID)
		if idx < 0 {
			return status.ErrGuestNotFound
		}

		guest := &state.ActiveQueue[idx]
		allowed := false
		for _, from := range allowedFrom {
			if guest.Status == from {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: %s -> %s", status.ErrInvalidTransition, guest.Status, to)
		}

		guest.Status = to
		switch to {
		case models.StatusCalling:
			if guest.CalledAt == nil {
				guest.CalledAt = &stamp
			}
		case models.StatusArrived:
			if guest.ArrivedAt == nil {
				guest.ArrivedAt = &stamp
			}
		case models.StatusAbsent:
			if guest.AbsentAt == nil {
				guest.AbsentAt = &stamp
			}
		}
		return nil
	})
}

// Complete seats the party: the guest leaves the active queue and its wait
// feeds the day's running average. Allowed from every active status.
func (s *WaitlistService) Complete(ctx context.Context, displayID string) error {
	var archived models.Guest
	var waited int

	err := s.mutate(ctx, func(state *models.QueueState) error {
		idx := state.IndexOf(displayID)
		if idx < 0 {
			return status.ErrGuestNotFound
		}

		archived = state.ActiveQueue[idx]
		waited = waitMinutes(archived.RegisteredAt, s.now())
		applyCompletion(&state.Stats, waited)
		state.ActiveQueue = append(state.ActiveQueue[:idx], state.ActiveQueue[idx+1:]...)
		return nil
	})
	if err != nil {
		monitoring.TrackOperation("complete", "error")
		return err
	}
	monitoring.TrackOperation("complete", "success")
	monitoring.ObserveWait(waited)

	if s.archiver != nil {
		logArchiveErr("guest", s.archiver.ArchiveGuest(archived, OutcomeCompleted, waited))
	}
	s.notifier.GuestEvent(displayID, "completed", map[string]any{"waited_minutes": waited})
	s.notifyBoard()
	return nil
}

// Remove force-drops a guest without touching the stats. Admin correction
// path, not the normal flow.
func (s *WaitlistService) Remove(ctx context.Context, displayID string) error {
	return s.removeGuest(ctx, displayID, OutcomeRemoved, "")
}

// CancelOwn lets a web guest abandon its own ticket. The token issued at
// registration is the only authorization; no stats are affected.
func (s *WaitlistService) CancelOwn(ctx context.Context, displayID, token string) error {
	return s.removeGuest(ctx, displayID, OutcomeCancelled, token)
}

func (s *WaitlistService) removeGuest(ctx context.Context, displayID, outcome, token string) error {
	var removed models.Guest

	err := s.mutate(ctx, func(state *models.QueueState) error {
		idx := state.IndexOf(displayID)
		if idx < 0 {
			return status.ErrGuestNotFound
		}
		if outcome == OutcomeCancelled {
			guest := state.ActiveQueue[idx]
			if guest.CancelToken == "" || guest.CancelToken != token {
				return status.ErrInvalidCancelToken
			}
		}

		removed = state.ActiveQueue[idx]
		state.ActiveQueue = append(state.ActiveQueue[:idx], state.ActiveQueue[idx+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	if s.archiver != nil {
		logArchiveErr("guest", s.archiver.ArchiveGuest(removed, outcome, 0))
	}
	s.notifier.GuestEvent(displayID, outcome, nil)
	s.notifyBoard()
	return nil
}

// SetAccepting flips the registration gate. Guests already queued are not
// affected.
func (s *WaitlistService) SetAccepting(ctx context.Context, accepting bool) error {
	err := s.mutate(ctx, func(state *models.QueueState) error {
		state.Accepting = accepting
		return nil
	})
	if err != nil {
		return err
	}
	s.notifyBoard()
	return nil
}

// ResetStats zeroes the day's counters and clears the queue. Confirmation is
// the caller's concern; the operation itself is unconditional. The sequence
// counter keeps running so display ids stay unique for the rest of the day.
func (s *WaitlistService) ResetStats(ctx context.Context) error {
	var old models.Stats
	var day string

	err := s.mutate(ctx, func(state *models.QueueState) error {
		old = state.Stats
		day = state.BusinessDay
		state.Stats = models.Stats{}
		state.ActiveQueue = []models.Guest{}
		return nil
	})
	if err != nil {
		return err
	}

	if s.archiver != nil && old.TotalRegisteredToday > 0 {
		logArchiveErr("daily stats", s.archiver.ArchiveDailyStats(day, old))
	}
	s.notifyBoard()
	return nil
}

// Position returns the guest's 1-based place in the queue, insertion order.
func (s *WaitlistService) Position(ctx context.Context, displayID string) (int, models.Guest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rolloverLocked(ctx); err != nil {
		return 0, models.Guest{}, err
	}

	idx := s.state.IndexOf(displayID)
	if idx < 0 {
		return 0, models.Guest{}, status.ErrGuestNotFound
	}
	return idx + 1, s.state.ActiveQueue[idx], nil
}

// Snapshot returns a read-only copy of the current committed state.
func (s *WaitlistService) Snapshot(ctx context.Context) (*models.QueueState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.rolloverLocked(ctx); err != nil {
		return nil, err
	}
	return s.state.Clone(), nil
}

// Board returns the public waiting-board projection.
func (s *WaitlistService) Board(ctx context.Context) (models.BoardSummary, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return models.BoardSummary{}, err
	}
	return snapshot.Board(s.now()), nil
}

// positionQuiet is for notifications only; not-found maps to 0.
func (s *WaitlistService) positionQuiet(displayID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.state.IndexOf(displayID)
	if idx < 0 {
		return 0
	}
	return idx + 1
}

func (s *WaitlistService) notifyBoard() {
	s.mu.Lock()
	board := s.state.Board(s.now())
	s.mu.Unlock()
	s.notifier.BoardUpdate(board)
}

// StartBackground launches the rollover watcher and the periodic position
// push. One goroutine each, stopped by Shutdown.
func (s *WaitlistService) StartBackground() {
	s.wg.Add(1)
	go s.rolloverWatcher()

	s.wg.Add(1)
	go s.positionPusher()

	log.Printf("Started %d background goroutines", 2)
}

// rolloverWatcher makes the day reset happen even on an idle night: without
// it the first request of the morning would pay for the rollover.
func (s *WaitlistService) rolloverWatcher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.RolloverCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			s.mu.Lock()
			if err := s.rolloverLocked(ctx); err != nil {
				log.Printf("Rollover check failed: %v", err)
			}
			s.mu.Unlock()
			cancel()
		case <-s.stopChan:
			return
		}
	}
}

// positionPusher periodically re-broadcasts every waiting guest's position,
// so a customer page that missed an event still converges.
func (s *WaitlistService) positionPusher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PositionPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.pushAllPositions()
		case <-s.stopChan:
			return
		}
	}
}

func (s *WaitlistService) pushAllPositions() {
	s.mu.Lock()
	queue := make([]models.Guest, len(s.state.ActiveQueue))
	copy(queue, s.state.ActiveQueue)
	avg := s.state.Stats.AverageWaitMinutes
	s.mu.Unlock()

	for i, guest := range queue {
		s.notifier.GuestEvent(guest.DisplayID, "position", map[string]any{
			"position":             i + 1,
			"status":               string(guest.Status),
			"average_wait_minutes": avg,
		})
	}
}

// Shutdown stops the background goroutines and waits for them.
func (s *WaitlistService) Shutdown() {
	log.Println("Shutting down waitlist service...")
	close(s.stopChan)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("All goroutines stopped gracefully")
	case <-time.After(10 * time.Second):
		log.Println("Timeout waiting for goroutines to stop")
	}
}
