package db

import (
	"time"
)

// User table. The matching and messaging core only reads users: it checks
// existence and uses the auto-increment ID as the total order for
// canonical pair storage.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Active       bool   `gorm:"default:true"`
	LastLoginAt  time.Time
	Gender       string    `gorm:"size:16;not null"`
	Seeking      string    `gorm:"size:16"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Swipe records an actor's like/dislike decision on a target, with an
// optional reaction tag (emoji shortcode etc.).
//
// Composite PK: (ActorID, TargetID)
//   - Ensures a single row per ordered pair; a re-swipe overwrites
//     Liked/Reaction in place instead of inserting a second row.
//
// Indexes:
//   - idx_target_liked_updated_actor(target_id, liked, updated_at DESC, actor_id)
//     Optimizes "who likes me" listings with pagination.
//   - idx_actor_target_liked(actor_id, target_id, liked)
//     Optimizes O(1) reciprocity lookups for match detection.
type Swipe struct {
	ActorID   uint64    `gorm:"primaryKey;index:idx_actor_target_liked,priority:1"`
	TargetID  uint64    `gorm:"primaryKey;index:idx_target_liked_updated_actor,priority:1;index:idx_actor_target_liked,priority:2"`
	Liked     bool      `gorm:"not null;index:idx_target_liked_updated_actor,priority:2;index:idx_actor_target_liked,priority:3"`
	Reaction  string    `gorm:"size:16"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_target_liked_updated_actor,priority:3,sort:desc"`
}

// Match stores a mutual like exactly once per unordered pair.
// Invariant: UserAID < UserBID (canonical ordering); the composite PK on
// the ordered pair is what makes duplicate matches impossible even when
// both sides swipe right concurrently.
type Match struct {
	UserAID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	UserBID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Thread is the single conversation row per unordered user pair, created
// lazily on first send. Same canonical ordering as Match (UserAID <
// UserBID), enforced by the unique index. The two free-message flags are
// monotonic: they flip false→true at most once each, when the
// corresponding side sends its first message.
type Thread struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	UserAID        uint64    `gorm:"not null;uniqueIndex:uniq_thread_pair,priority:1"`
	UserBID        uint64    `gorm:"not null;uniqueIndex:uniq_thread_pair,priority:2"`
	AFirstFreeUsed bool      `gorm:"not null;default:false"`
	BFirstFreeUsed bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Message is immutable once created; rows only exist for sends the gate
// approved.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ThreadID  uint64    `gorm:"not null;index:idx_thread_created,priority:1"`
	SenderID  uint64    `gorm:"not null"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_thread_created,priority:2,sort:desc"`
}
