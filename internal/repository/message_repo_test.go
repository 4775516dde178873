package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datera/datera-backend/internal/repository"
)

func TestCreateAndListMessages(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threads := repository.NewThreadRepository(dbase)
	messages := repository.NewMessageRepository(dbase)

	thread, err := threads.GetOrCreate(ctx, 1, 2)
	require.NoError(t, err)

	for _, body := range []string{"hey", "how are you", "up for coffee?"} {
		_, err := messages.Create(ctx, thread.ID, 1, body)
		require.NoError(t, err)
	}

	list, token, err := messages.ListByThread(ctx, thread.ID, nil, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Nil(t, token)

	// newest first
	assert.Equal(t, "up for coffee?", list[0].Body)

	count, err := messages.CountByThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestListMessagesPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	threads := repository.NewThreadRepository(dbase)
	messages := repository.NewMessageRepository(dbase)

	thread, err := threads.GetOrCreate(ctx, 1, 2)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		_, err := messages.Create(ctx, thread.ID, 1, "msg")
		require.NoError(t, err)
	}

	page1, token, err := messages.ListByThread(ctx, thread.ID, nil, 5)
	require.NoError(t, err)
	assert.Len(t, page1, 5)
	require.NotNil(t, token)

	page2, token2, err := messages.ListByThread(ctx, thread.ID, token, 5)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Nil(t, token2)

	seen := map[uint64]bool{}
	for _, m := range append(page1, page2...) {
		assert.False(t, seen[m.ID], "message %d returned twice", m.ID)
		seen[m.ID] = true
	}
}
