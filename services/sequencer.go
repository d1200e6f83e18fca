package services

import (
	"fmt"

	"waitlist-system/models"
)

// nextDisplayID issues the next ticket number from the day's shared counter.
// Shop and web registrations draw from the same sequence, so S-3 and W-4 can
// never collide and the numeric suffix is strictly increasing within a day.
func nextDisplayID(state *models.QueueState, origin models.OriginType) string {
	id := fmt.Sprintf("%s-%d", origin.Prefix(), state.NextSequence)
	state.NextSequence++
	return id
}
