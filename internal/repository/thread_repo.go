package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datera/datera-backend/internal/db"
	"github.com/datera/datera-backend/internal/utils/pair"
)

// ThreadRepository provides data access for conversation threads.
// One row exists per unordered user pair, stored canonically (a < b) and
// guarded by the unique index on (user_a_id, user_b_id).
type ThreadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new repository bound to the given DB connection.
func NewThreadRepository(database *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: database}
}

// GetOrCreate resolves both argument orders to the single thread row for
// the pair, creating it lazily on first contact.
//
// Concurrent first-contact from both sides races on the insert; the
// unique index is the authority and the loser falls back to reading the
// winning row.
func (r *ThreadRepository) GetOrCreate(ctx context.Context, xID, yID uint64) (*db.Thread, error) {
	a, b := pair.Canonicalize(xID, yID)

	thread := db.Thread{UserAID: a, UserBID: b}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&thread)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return &thread, nil
	}

	var existing db.Thread
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// GetByPair fetches the thread for an unordered pair without creating
// it. Returns gorm.ErrRecordNotFound when the pair has no thread yet.
func (r *ThreadRepository) GetByPair(ctx context.Context, xID, yID uint64) (*db.Thread, error) {
	a, b := pair.Canonicalize(xID, yID)

	var thread db.Thread
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// Get fetches a thread by ID.
func (r *ThreadRepository) Get(ctx context.Context, threadID uint64) (*db.Thread, error) {
	var thread db.Thread
	err := r.db.WithContext(ctx).First(&thread, threadID).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ConsumeFirstFree flips the free-message flag for one side of a thread,
// at most once ever.
//
// The update is conditional ("set true only where currently false") so
// two concurrent first-sends from the same side cannot both consume the
// quota: the first to commit wins and the loser sees consumed=false.
func (r *ThreadRepository) ConsumeFirstFree(ctx context.Context, threadID uint64, aSide bool) (bool, error) {
	column := "b_first_free_used"
	if aSide {
		column = "a_first_free_used"
	}

	result := r.db.WithContext(ctx).
		Model(&db.Thread{}).
		Where("id = ? AND "+column+" = ?", threadID, false).
		Update(column, true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
