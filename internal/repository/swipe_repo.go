package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datera/datera-backend/internal/db"
	"github.com/datera/datera-backend/internal/utils/pagination"
)

// SwipeRepository provides data access for the swipe ledger.
// It encapsulates all queries related to likes/dislikes between users.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Upsert inserts or overwrites the swipe made by actor -> target.
//
// Behavior:
//   - If the (actor_id, target_id) pair exists → the row is updated with
//     the new liked/reaction values.
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures the overwrite guarantee; redundant identical
//     swipes are a no-op at the business level.
//
// Example:
//
//	repo.Upsert(ctx, 1, 2, true, "fire") // user 1 liked user 2
func (r *SwipeRepository) Upsert(
	ctx context.Context,
	actorID, targetID uint64,
	liked bool,
	reaction string,
) error {
	swipe := db.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Liked:    liked,
		Reaction: reaction,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"liked", "reaction", "updated_at"}),
		}).
		Create(&swipe).Error
}

// Get fetches the swipe for an ordered pair, if any.
func (r *SwipeRepository) Get(ctx context.Context, actorID, targetID uint64) (*db.Swipe, error) {
	var swipe db.Swipe
	err := r.db.WithContext(ctx).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		First(&swipe).Error
	if err != nil {
		return nil, err
	}
	return &swipe, nil
}

// HasLiked checks whether an actor has an active like on a target.
//
// Behavior:
//   - Returns true only if the current ledger row for (actor, target) has
//     liked = true; a later dislike overwrite makes this false again.
//   - This is the reciprocity lookup match detection runs after a like.
func (r *SwipeRepository) HasLiked(
	ctx context.Context,
	actorID, targetID uint64,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.actor_id = ? AND s.target_id = ? AND s.liked = ?", actorID, targetID, true).
		Count(&count).Error
	return count > 0, err
}

// GetLikers returns all users who liked the given target.
//
// Behavior:
//   - Only swipes where target_id = X and liked = true are returned.
//   - Excludes likers the target explicitly passed (liked = false back).
//   - Ordered by updated_at DESC, actor_id DESC.
//   - Supports cursor-based pagination via paginationToken.
func (r *SwipeRepository) GetLikers(
	ctx context.Context,
	targetID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	query := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.target_id = ? AND s.liked = ?", targetID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.actor_id = ?
				  AND s2.target_id = s.actor_id
				  AND s2.liked = ?
			)`, targetID, false)

	return r.pageLikers(query, paginationToken, limit)
}

// GetNewLikers returns users who liked the target but have not been liked back.
//
// This is the likes-inbox view: a pure read over the ledger. Mutual
// likers are excluded here because, by match detection, they are already
// a Match and belong on the matches screen instead.
func (r *SwipeRepository) GetNewLikers(
	ctx context.Context,
	targetID uint64,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	// subquery to exclude mutual likes
	subQuery := r.db.
		Table("swipes").
		Select("1").
		Where("actor_id = s.target_id AND target_id = s.actor_id AND liked = ?", true)

	query := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.target_id = ? AND s.liked = ? AND NOT EXISTS (?)", targetID, true, subQuery).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.actor_id = ?
				  AND s2.target_id = s.actor_id
				  AND s2.liked = ?
			)`, targetID, false)

	return r.pageLikers(query, paginationToken, limit)
}

// CountLikers returns how many users liked the given target.
//
// Used in conjunction with the Redis counter (DB is the fallback).
func (r *SwipeRepository) CountLikers(
	ctx context.Context,
	targetID uint64,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.target_id = ? AND s.liked = ?", targetID, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM swipes s2
				WHERE s2.actor_id = ?
				  AND s2.target_id = s.actor_id
				  AND s2.liked = ?
			)`, targetID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// pageLikers applies cursor ordering/limit to a likers query and builds
// the next-page token. Cursor.ID carries the last actor ID.
func (r *SwipeRepository) pageLikers(
	query *gorm.DB,
	paginationToken *string,
	limit int,
) ([]db.Swipe, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query = query.
		Order("s.updated_at DESC, s.actor_id DESC").
		Limit(limit + 1)

	if cursor.ID > 0 && cursor.UnixMs > 0 {
		ts := time.UnixMilli(cursor.UnixMs)
		query = query.Where(
			"(s.updated_at < ? OR (s.updated_at = ? AND s.actor_id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var swipes []db.Swipe
	if err := query.Find(&swipes).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(swipes) > limit {
		last := swipes[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:     last.ActorID,
			UnixMs: last.UpdatedAt.UnixMilli(),
		})
		nextToken = &token
		swipes = swipes[:limit]
	}

	return swipes, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
