package services

import (
	"fmt"

	pubnub "github.com/pubnub/go"

	"waitlist-system/models"
)

const boardChannel = "waitlist-board"

// Notifier pushes committed changes to the customer, shop and admin
// surfaces. Publishing is fire-and-forget: a lost message only delays an
// observer until the next board push, it never affects the ledger.
type Notifier interface {
	GuestEvent(displayID, event string, payload map[string]any)
	BoardUpdate(board models.BoardSummary)
}

type PubNubNotifier struct {
	pubnub *pubnub.PubNub
}

func NewPubNubNotifier(pn *pubnub.PubNub) *PubNubNotifier {
	return &PubNubNotifier{pubnub: pn}
}

// GuestEvent publishes to the guest's private channel. The customer page
// subscribes to its own ticket channel and plays the call chime on "calling".
func (n *PubNubNotifier) GuestEvent(displayID, event string, payload map[string]any) {
	message := map[string]any{
		"type":       event,
		"display_id": displayID,
	}
	for k, v := range payload {
		message[k] = v
	}

	n.pubnub.Publish().
		Channel(fmt.Sprintf("guest-%s", displayID)).
		Message(message).
		Execute()
}

func (n *PubNubNotifier) BoardUpdate(board models.BoardSummary) {
	n.pubnub.Publish().
		Channel(boardChannel).
		Message(map[string]any{
			"type":                 "board_update",
			"waiting":              board.Waiting,
			"calling":              board.Calling,
			"accepting":            board.Accepting,
			"average_wait_minutes": board.AverageWaitMinutes,
		}).
		Execute()
}

// NoopNotifier is used when PubNub keys are not configured and in tests.
type NoopNotifier struct{}

func (NoopNotifier) GuestEvent(string, string, map[string]any) {}
func (NoopNotifier) BoardUpdate(models.BoardSummary)           {}
