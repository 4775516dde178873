package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/datera/datera-backend/internal/utils/pair"
)

var seedReactions = []string{"", "", "", "fire", "wave", "heart"}

// SeedTestData resets the database and populates it with demo users,
// swipes, matches and a few gated conversations.
//
// Behavior:
//  1. Clears existing data in all core tables.
//  2. Creates 20 users (10 male, 10 female) with hashed passwords.
//  3. Generates ~200 swipes with ~70% likes; every 3rd pair is forced
//     mutual and gets a Match row plus a thread with a first message.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "threads", "matches", "swipes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	// Reset auto-increment sequences
	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"messages", "threads", "users"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('messages', 'threads', 'users')")
	}

	log.Println("Cleared existing data")

	// --- Seed Users (10 male, 10 female) ---
	for i := 1; i <= 20; i++ {
		username := fmt.Sprintf("user%d", i)
		email := fmt.Sprintf("user%d@example.com", i)

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		gender, seeking := "male", "female"
		if i > 10 {
			gender, seeking = "female", "male"
		}

		user := User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			Gender:       gender,
			Seeking:      seeking,
			Active:       true,
			LastLoginAt:  time.Now().Add(-time.Duration(r.Intn(500)) * time.Hour),
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Seed Swipes (~200) ---
	counter := 0
	for actorID := uint64(1); actorID <= 20; actorID++ {
		for j := 0; j < 12; j++ { // each user swipes on ~12 others
			targetID := uint64(r.Intn(20) + 1)
			if actorID == targetID {
				continue
			}

			var actor, target User
			if err := db.First(&actor, actorID).Error; err != nil {
				continue
			}
			if err := db.First(&target, targetID).Error; err != nil {
				continue
			}
			if actor.Gender == target.Gender {
				continue
			}

			// like probability 70%
			liked := r.Intn(100) < 70

			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				liked = true
				recip := Swipe{
					ActorID:  targetID,
					TargetID: actorID,
					Liked:    true,
				}
				db.Clauses(swipeUpsert()).Create(&recip)
			}

			swipe := Swipe{
				ActorID:  actorID,
				TargetID: targetID,
				Liked:    liked,
				Reaction: seedReactions[r.Intn(len(seedReactions))],
			}
			if err := db.Clauses(swipeUpsert()).Create(&swipe).Error; err != nil {
				return fmt.Errorf("failed to seed swipe: %w", err)
			}

			// derive the match + a gated conversation for mutual pairs
			if counter%3 == 0 {
				a, b := pair.Canonicalize(actorID, targetID)
				match := Match{UserAID: a, UserBID: b}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)

				thread := Thread{UserAID: a, UserBID: b}
				if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&thread).Error; err == nil {
					var row Thread
					if db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&row).Error == nil && !row.AFirstFreeUsed {
						db.Create(&Message{ThreadID: row.ID, SenderID: a, Body: "hey, we matched!"})
						db.Model(&Thread{}).
							Where("id = ? AND a_first_free_used = ?", row.ID, false).
							Update("a_first_free_used", true)
					}
				}
			}

			counter++
		}
	}

	return nil
}

func swipeUpsert() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"liked", "reaction", "updated_at"}),
	}
}
