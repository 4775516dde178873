package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/datera/datera-backend/internal/db"
	"github.com/datera/datera-backend/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&db.User{}, &db.Swipe{}, &db.Match{}, &db.Thread{}, &db.Message{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestUpsertOverwritesInPlace(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	// insert like
	require.NoError(t, repo.Upsert(ctx, 1, 2, true, "fire"))

	// overwrite with dislike
	require.NoError(t, repo.Upsert(ctx, 1, 2, false, ""))

	var count int64
	dbase.Model(&db.Swipe{}).Count(&count)
	assert.Equal(t, int64(1), count)

	swipe, err := repo.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, swipe.Liked)
	assert.Equal(t, "", swipe.Reaction)
}

func TestUpsertIdempotentLike(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, 1, 2, true, ""))
	require.NoError(t, repo.Upsert(ctx, 1, 2, true, ""))

	var count int64
	dbase.Model(&db.Swipe{}).Count(&count)
	assert.Equal(t, int64(1), count)

	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestHasLikedReflectsOverwrite(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, 1, 2, true, ""))
	liked, err := repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, repo.Upsert(ctx, 1, 2, false, ""))
	liked, err = repo.HasLiked(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestGetLikersExcludesPassed(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	// actors 1,2 liked target 99
	_ = repo.Upsert(ctx, 1, 99, true, "")
	_ = repo.Upsert(ctx, 2, 99, true, "")
	// target passed actor 2 → exclude
	_ = repo.Upsert(ctx, 99, 2, false, "")

	swipes, _, err := repo.GetLikers(ctx, 99, nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, uint64(1), swipes[0].ActorID)
}

func TestGetNewLikersExcludesReciprocated(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	// actor 1 liked 99, and 99 liked back → mutual, excluded
	_ = repo.Upsert(ctx, 1, 99, true, "")
	_ = repo.Upsert(ctx, 99, 1, true, "")

	// actor 2 liked 99, no reciprocation → included
	_ = repo.Upsert(ctx, 2, 99, true, "")

	swipes, _, err := repo.GetNewLikers(ctx, 99, nil, 10)
	require.NoError(t, err)
	require.Len(t, swipes, 1)
	assert.Equal(t, uint64(2), swipes[0].ActorID)
}

func TestGetNewLikersPagination(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	for actor := uint64(1); actor <= 7; actor++ {
		require.NoError(t, repo.Upsert(ctx, actor, 99, true, ""))
	}

	page1, token, err := repo.GetNewLikers(ctx, 99, nil, 5)
	require.NoError(t, err)
	assert.Len(t, page1, 5)
	require.NotNil(t, token)

	page2, token2, err := repo.GetNewLikers(ctx, 99, token, 5)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Nil(t, token2)

	// no overlap between pages
	seen := map[uint64]bool{}
	for _, s := range append(page1, page2...) {
		assert.False(t, seen[s.ActorID], "actor %d returned twice", s.ActorID)
		seen[s.ActorID] = true
	}
}

func TestCountLikers(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewSwipeRepository(dbase)

	_ = repo.Upsert(ctx, 1, 99, true, "")
	_ = repo.Upsert(ctx, 2, 99, true, "")
	_ = repo.Upsert(ctx, 3, 99, false, "")
	_ = repo.Upsert(ctx, 99, 2, false, "") // passed actor 2

	count, err := repo.CountLikers(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
