package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waitlist-system/models"
)

func TestRedisStateStore_SaveAndLoad(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisStateStore{Redis: db}
	ctx := context.Background()

	state := models.NewQueueState("2025-06-02")
	state.NextSequence = 5
	state.Stats = models.Stats{TotalRegisteredToday: 4, CompletedToday: 2, AverageWaitMinutes: 9}

	data, err := json.Marshal(state)
	require.NoError(t, err)

	mock.ExpectTxPipeline()
	mock.ExpectSet(stateKey, data, 0).SetVal("OK")
	mock.ExpectSet(dayKey, state.BusinessDay, 0).SetVal("OK")
	mock.ExpectTxPipelineExec()

	require.NoError(t, store.Save(ctx, state))

	mock.ExpectGet(stateKey).SetVal(string(data))
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, state.NextSequence, loaded.NextSequence)
	assert.Equal(t, state.Stats, loaded.Stats)
	assert.Equal(t, state.BusinessDay, loaded.BusinessDay)
	assert.NotNil(t, loaded.ActiveQueue)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStateStore_LoadEmpty(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisStateStore{Redis: db}

	mock.ExpectGet(stateKey).RedisNil()

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStateStore_LoadCorrupt(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := &RedisStateStore{Redis: db}

	mock.ExpectGet(stateKey).SetVal("{not json")

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}
