package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datera/datera-backend/internal/db"
	"github.com/datera/datera-backend/internal/utils/pair"
)

// MatchRepository provides data access for mutual-like Match rows.
// All writes go through GetOrCreate so the canonical (low, high) ordering
// is enforced in exactly one place.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// GetOrCreate stores the match for an unordered pair exactly once.
//
// Behavior:
//   - Canonicalizes (x, y) to (low, high) before touching storage, so
//     opposite-order concurrent calls target the same row.
//   - Insert uses ON CONFLICT DO NOTHING backed by the composite PK; a
//     writer that loses the race re-reads the winning row instead of
//     failing.
//   - The returned bool reports whether this call created the row.
func (r *MatchRepository) GetOrCreate(ctx context.Context, xID, yID uint64) (*db.Match, bool, error) {
	a, b := pair.Canonicalize(xID, yID)

	match := db.Match{UserAID: a, UserBID: b}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&match)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected > 0 {
		return &match, true, nil
	}

	// Lost the race (or already matched): read the existing row once.
	var existing db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

// Get fetches the match for an unordered pair, if any.
func (r *MatchRepository) Get(ctx context.Context, xID, yID uint64) (*db.Match, error) {
	a, b := pair.Canonicalize(xID, yID)

	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// ListForUser returns every match the user participates in, newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	return matches, err
}

// Count returns the number of Match rows for an unordered pair (0 or 1).
// Test helper for the exactly-once guarantee.
func (r *MatchRepository) Count(ctx context.Context, xID, yID uint64) (int64, error) {
	a, b := pair.Canonicalize(xID, yID)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Count(&count).Error
	return count, err
}
