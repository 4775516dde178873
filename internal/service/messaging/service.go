package messaging

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/datera/datera-backend/internal/app"
	"github.com/datera/datera-backend/internal/db"
	"github.com/datera/datera-backend/internal/entitlement"
	svcErr "github.com/datera/datera-backend/internal/errors"
	"github.com/datera/datera-backend/internal/repository"
	"github.com/datera/datera-backend/internal/utils/pair"
)

// Service implements pairwise messaging: thread registry, the
// first-free-message gate, and message persistence. Entitlement comes
// from an external oracle; the gate only consumes its boolean answer.
type Service struct {
	appCtx      *app.AppContext
	threadRepo  *repository.ThreadRepository
	messageRepo *repository.MessageRepository
	userRepo    *repository.UserRepository
	oracle      entitlement.Oracle
}

// NewService creates the messaging service with dependencies from
// AppContext and the configured entitlement oracle.
func NewService(appCtx *app.AppContext, oracle entitlement.Oracle) *Service {
	return &Service{
		appCtx:      appCtx,
		threadRepo:  repository.NewThreadRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
		oracle:      oracle,
	}
}

// MessagePage is one page of a thread's history.
type MessagePage struct {
	Messages            []db.Message `json:"messages"`
	NextPaginationToken *string      `json:"next_pagination_token,omitempty"`
}

// CanSend is the message gate: if the sender's side of the thread still
// has its free message, the send is allowed unconditionally; afterwards
// only entitled senders pass.
func CanSend(userID uint64, thread *db.Thread, entitled bool) bool {
	used := thread.BFirstFreeUsed
	if pair.IsA(userID, thread.UserAID) {
		used = thread.AFirstFreeUsed
	}
	if !used {
		return true
	}
	return entitled
}

// GetOrCreateThread resolves the canonical thread for a pair, creating
// it lazily. Both argument orders return the same row.
func (s *Service) GetOrCreateThread(ctx context.Context, xID, yID uint64) (*db.Thread, error) {
	if xID == yID {
		return nil, svcErr.InvalidOperation("cannot open a thread with yourself")
	}
	return s.threadRepo.GetOrCreate(ctx, xID, yID)
}

// SendMessage runs the full send flow: resolve the thread, ask the
// entitlement oracle, evaluate the gate, persist the message, and flip
// the sender's free flag if this send consumed it.
//
// Outcomes:
//   - self-message or empty body → ErrInvalidOperation
//   - unknown recipient → ErrNotFound
//   - quota spent and not entitled → ErrEntitlementRequired; nothing is
//     persisted and no flag changes
//
// The flag flip is a conditional update (true only where false); under a
// same-side race the first commit wins the free message and the loser's
// message still persists.
func (s *Service) SendMessage(ctx context.Context, senderID, recipientID uint64, body string) (*db.Message, error) {
	log := s.appCtx.Logger
	log.Debug("SendMessage called", "sender", senderID, "recipient", recipientID)

	if senderID == recipientID {
		return nil, svcErr.InvalidOperation("cannot message yourself")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, svcErr.InvalidOperation("message body required")
	}
	for _, id := range []uint64{senderID, recipientID} {
		exists, err := s.userRepo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, svcErr.NotFound("user does not exist")
		}
	}

	thread, err := s.threadRepo.GetOrCreate(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	entitled, err := s.oracle.IsEntitled(ctx, senderID)
	if err != nil {
		return nil, err
	}

	if !CanSend(senderID, thread, entitled) {
		log.Info("send blocked by paywall", "sender", senderID, "thread", thread.ID)
		return nil, svcErr.ErrEntitlementRequired
	}

	msg, err := s.messageRepo.Create(ctx, thread.ID, senderID, body)
	if err != nil {
		return nil, err
	}

	// Consume the free message only if it is what let this send through.
	aSide := pair.IsA(senderID, thread.UserAID)
	freeUsed := thread.BFirstFreeUsed
	if aSide {
		freeUsed = thread.AFirstFreeUsed
	}
	if !freeUsed {
		if _, err := s.threadRepo.ConsumeFirstFree(ctx, thread.ID, aSide); err != nil {
			log.Error("failed to consume free message flag", "thread", thread.ID, "err", err)
		}
	}

	return msg, nil
}

// ListMessages returns the thread history between the requester and the
// other user, newest-first, cursor-paginated. A pure read: a pair with
// no thread yet gets an empty page and no row is created.
func (s *Service) ListMessages(ctx context.Context, userID, otherID uint64, paginationToken *string, limit int) (*MessagePage, error) {
	if userID == otherID {
		return nil, svcErr.InvalidOperation("cannot list a thread with yourself")
	}
	for _, id := range []uint64{userID, otherID} {
		exists, err := s.userRepo.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, svcErr.NotFound("user does not exist")
		}
	}

	thread, err := s.threadRepo.GetByPair(ctx, userID, otherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &MessagePage{Messages: []db.Message{}}, nil
	}
	if err != nil {
		return nil, err
	}

	messages, nextToken, err := s.messageRepo.ListByThread(ctx, thread.ID, paginationToken, limit)
	if err != nil {
		return nil, err
	}
	return &MessagePage{Messages: messages, NextPaginationToken: nextToken}, nil
}
