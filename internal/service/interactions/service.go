package interactions

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/datera/datera-backend/internal/app"
	"github.com/datera/datera-backend/internal/db"
	svcErr "github.com/datera/datera-backend/internal/errors"
	"github.com/datera/datera-backend/internal/repository"
)

const maxReactionLen = 16

// Service implements the swipe/match business logic: the swipe ledger,
// match detection, and the likes-inbox read views, on top of the
// repository and cache layers.
type Service struct {
	appCtx    *app.AppContext
	swipeRepo *repository.SwipeRepository
	matchRepo *repository.MatchRepository
	userRepo  *repository.UserRepository
}

// NewService creates the interactions service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		swipeRepo: repository.NewSwipeRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		userRepo:  repository.NewUserRepository(appCtx.DB),
	}
}

// SwipeResult reports what a recorded swipe led to.
type SwipeResult struct {
	Mutual       bool `json:"mutual"`
	MatchCreated bool `json:"match_created"`
}

// Liker is one entry of a likes listing.
type Liker struct {
	ActorID       uint64 `json:"actor_user_id"`
	UnixTimestamp int64  `json:"unix_timestamp"`
}

// LikerPage is one page of a likes listing.
type LikerPage struct {
	Likers              []Liker `json:"likers"`
	NextPaginationToken *string `json:"next_pagination_token,omitempty"`
}

// MatchSummary is a match from one participant's point of view.
type MatchSummary struct {
	PartnerID uint64    `json:"partner_user_id"`
	MatchedAt time.Time `json:"matched_at"`
}

// RecordSwipe upserts the actor's decision on the target and, for likes,
// runs match detection in the same transaction as the upsert so a
// detected match can never be lost between the two steps.
//
// Behavior:
//   - Self-swipes are rejected before touching storage.
//   - Both users must exist.
//   - Re-swiping overwrites liked/reaction in place (ledger invariant).
//   - Maintains the Redis like counter (+1/-1) best-effort.
func (s *Service) RecordSwipe(ctx context.Context, actorID, targetID uint64, liked bool, reaction string) (*SwipeResult, error) {
	log := s.appCtx.Logger
	log.Debug("RecordSwipe called", "actor", actorID, "target", targetID, "liked", liked)

	if actorID == targetID {
		return nil, svcErr.InvalidOperation("cannot swipe on yourself")
	}
	if len(reaction) > maxReactionLen {
		return nil, svcErr.InvalidOperation("reaction too long")
	}
	for _, id := range []uint64{actorID, targetID} {
		exists, err := s.userRepo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, svcErr.NotFound("user does not exist")
		}
	}

	res := &SwipeResult{}
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swipes := repository.NewSwipeRepository(tx)
		if err := swipes.Upsert(ctx, actorID, targetID, liked, reaction); err != nil {
			return err
		}

		if !liked {
			return nil
		}

		reciprocal, err := swipes.HasLiked(ctx, targetID, actorID)
		if err != nil {
			return err
		}
		if reciprocal {
			_, created, err := repository.NewMatchRepository(tx).GetOrCreate(ctx, actorID, targetID)
			if err != nil {
				return err
			}
			res.Mutual = true
			res.MatchCreated = created
		}
		return nil
	})
	if err != nil {
		log.Error("RecordSwipe failed", "err", err)
		return nil, err
	}

	// update cache counter, TTL refreshed on write
	key := s.appCtx.RedisCache.KeyForLikeCount(targetID)
	if liked {
		_, _ = s.appCtx.RedisCache.Incr(ctx, key)
	} else {
		_, _ = s.appCtx.RedisCache.Decr(ctx, key)
	}
	_ = s.appCtx.RedisCache.Client.Expire(ctx, key, time.Hour).Err()

	if res.MatchCreated {
		log.Info("new match", "actor", actorID, "target", targetID)
	}

	return res, nil
}

// CheckAndCreateMatch recomputes reciprocity for a pair from the
// persisted ledger and get-or-creates the Match row.
//
// RecordSwipe already runs this inside the swipe's transaction; this
// entry point exists so a failed post-commit detection can be retried
// any number of times using only ledger state. Calling it repeatedly
// after reciprocity holds yields exactly one Match row; the bool reports
// whether this call created it.
func (s *Service) CheckAndCreateMatch(ctx context.Context, xID, yID uint64) (*MatchSummary, bool, error) {
	if xID == yID {
		return nil, false, svcErr.InvalidOperation("cannot match with yourself")
	}

	for _, dir := range [][2]uint64{{xID, yID}, {yID, xID}} {
		liked, err := s.swipeRepo.HasLiked(ctx, dir[0], dir[1])
		if err != nil {
			return nil, false, err
		}
		if !liked {
			return nil, false, nil
		}
	}

	match, created, err := s.matchRepo.GetOrCreate(ctx, xID, yID)
	if err != nil {
		return nil, false, err
	}

	partner := match.UserAID
	if partner == xID {
		partner = match.UserBID
	}
	return &MatchSummary{PartnerID: partner, MatchedAt: match.CreatedAt}, created, nil
}

// ListNewLikedYou returns users who liked the recipient but have not
// been liked back: the likes inbox. Pure read over the ledger,
// newest-first, cursor-paginated.
func (s *Service) ListNewLikedYou(ctx context.Context, userID uint64, paginationToken *string, limit int) (*LikerPage, error) {
	s.appCtx.Logger.Debug("ListNewLikedYou called", "recipient", userID)

	swipes, nextToken, err := s.swipeRepo.GetNewLikers(ctx, userID, paginationToken, limit)
	if err != nil {
		return nil, err
	}
	return likerPage(swipes, nextToken), nil
}

// ListLikedYou returns all users who liked the recipient, excluding
// those the recipient explicitly passed.
func (s *Service) ListLikedYou(ctx context.Context, userID uint64, paginationToken *string, limit int) (*LikerPage, error) {
	s.appCtx.Logger.Debug("ListLikedYou called", "recipient", userID)

	swipes, nextToken, err := s.swipeRepo.GetLikers(ctx, userID, paginationToken, limit)
	if err != nil {
		return nil, err
	}
	return likerPage(swipes, nextToken), nil
}

// CountLikedYou returns how many users liked the recipient.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID).
//  2. On cache miss, falls back to the DB count.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountLikedYou(ctx context.Context, userID uint64) (int64, error) {
	if n, ok, _ := s.appCtx.RedisCache.GetLikeCount(ctx, userID); ok {
		return n, nil
	}

	count, err := s.swipeRepo.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}

	_ = s.appCtx.RedisCache.UpdateLikeCount(ctx, userID, count)
	return count, nil
}

// ListMatches returns the user's matches newest-first, with the partner
// resolved from the canonical pair.
func (s *Service) ListMatches(ctx context.Context, userID uint64) ([]MatchSummary, error) {
	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]MatchSummary, 0, len(matches))
	for _, m := range matches {
		partner := m.UserAID
		if partner == userID {
			partner = m.UserBID
		}
		out = append(out, MatchSummary{PartnerID: partner, MatchedAt: m.CreatedAt})
	}
	return out, nil
}

func likerPage(swipes []db.Swipe, nextToken *string) *LikerPage {
	page := &LikerPage{Likers: make([]Liker, 0, len(swipes))}
	for _, s := range swipes {
		page.Likers = append(page.Likers, Liker{
			ActorID:       s.ActorID,
			UnixTimestamp: s.UpdatedAt.UnixMilli(),
		})
	}
	page.NextPaginationToken = nextToken
	return page
}
