package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"waitlist-system/models"
)

func TestNextDisplayID(t *testing.T) {
	state := models.NewQueueState("2025-06-02")

	assert.Equal(t, "W-1", nextDisplayID(state, models.OriginWeb))
	assert.Equal(t, "S-2", nextDisplayID(state, models.OriginShop))
	assert.Equal(t, "S-3", nextDisplayID(state, models.OriginShop))
	assert.Equal(t, "W-4", nextDisplayID(state, models.OriginWeb))
	assert.Equal(t, 5, state.NextSequence)
}
