package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginType(t *testing.T) {
	assert.Equal(t, "S", OriginShop.Prefix())
	assert.Equal(t, "W", OriginWeb.Prefix())

	assert.True(t, OriginShop.Valid())
	assert.True(t, OriginWeb.Valid())
	assert.False(t, OriginType("phone").Valid())
}

func TestSeatPreference_Valid(t *testing.T) {
	for _, pref := range []SeatPreference{SeatAnywhere, SeatCounter, SeatTable, SeatTatami} {
		assert.True(t, pref.Valid(), string(pref))
	}
	assert.False(t, SeatPreference("window").Valid())
	assert.False(t, SeatPreference("").Valid())
}

func TestPartySize_Valid(t *testing.T) {
	assert.True(t, PartySize{Adults: 1}.Valid())
	assert.True(t, PartySize{Adults: 2, Children: 3, Infants: 1}.Valid())

	assert.False(t, PartySize{Adults: 0, Children: 4}.Valid())
	assert.False(t, PartySize{Adults: 1, Children: -1}.Valid())
	assert.False(t, PartySize{Adults: 1, Infants: -2}.Valid())

	assert.Equal(t, 6, PartySize{Adults: 2, Children: 3, Infants: 1}.Total())
}

func TestQueueState_Clone(t *testing.T) {
	state := NewQueueState("2025-06-02")
	state.ActiveQueue = append(state.ActiveQueue, Guest{DisplayID: "W-1", Status: StatusWaiting})

	clone := state.Clone()
	clone.ActiveQueue[0].Status = StatusCalling
	clone.ActiveQueue = append(clone.ActiveQueue, Guest{DisplayID: "S-2"})

	// The original is untouched by edits to the clone.
	assert.Equal(t, StatusWaiting, state.ActiveQueue[0].Status)
	assert.Len(t, state.ActiveQueue, 1)
}

func TestQueueState_IndexOf(t *testing.T) {
	state := NewQueueState("2025-06-02")
	state.ActiveQueue = []Guest{{DisplayID: "W-1"}, {DisplayID: "S-2"}}

	assert.Equal(t, 0, state.IndexOf("W-1"))
	assert.Equal(t, 1, state.IndexOf("S-2"))
	assert.Equal(t, -1, state.IndexOf("W-9"))
}

func TestQueueState_Board(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	state := NewQueueState("2025-06-02")
	state.Stats.AverageWaitMinutes = 14
	state.ActiveQueue = []Guest{
		{DisplayID: "W-1", Status: StatusWaiting},
		{DisplayID: "S-2", Status: StatusCalling},
		{DisplayID: "W-3", Status: StatusWaiting},
		{DisplayID: "W-4", Status: StatusAbsent},
		{DisplayID: "W-5", Status: StatusArrived},
	}

	board := state.Board(now)
	assert.Equal(t, 2, board.Waiting)
	assert.Equal(t, 1, board.Calling)
	assert.True(t, board.Accepting)
	assert.Equal(t, 14, board.AverageWaitMinutes)
	assert.Equal(t, now, board.UpdatedAt)
}

func TestGuest_JSONOmitsUnsetTimestamps(t *testing.T) {
	guest := Guest{
		DisplayID:    "W-7",
		Origin:       OriginWeb,
		Adults:       2,
		Pref:         SeatTable,
		Status:       StatusWaiting,
		RegisteredAt: time.Now(),
	}

	data, err := json.Marshal(guest)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "called_at")
	assert.NotContains(t, string(data), "arrived_at")
	assert.NotContains(t, string(data), "absent_at")
	assert.NotContains(t, string(data), "cancel_token")
}
