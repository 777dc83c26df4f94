package service

import (
	"context"
	"time"

	"github.com/pairlink/pairlink-go/internal/model"
)

// UserStore persists users. repository.UserRepository and memstore.Users implement it.
type UserStore interface {
	CreateWithProfile(ctx context.Context, user *model.User, profile *model.Profile) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ProfileStore persists and searches profiles.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	Search(ctx context.Context, f model.SearchFilter, limit int) ([]model.SearchResult, error)
}

// MatchStore persists likes.
type MatchStore interface {
	Create(ctx context.Context, m *model.Match) error
	GetByID(ctx context.Context, id string) (*model.Match, error)
	GetByPair(ctx context.Context, senderID, receiverID string) (*model.Match, error)
	UpdateStatus(ctx context.Context, id string, status model.MatchStatus, at time.Time) (*model.Match, error)
	CountIncoming(ctx context.Context, receiverID string, statuses ...model.MatchStatus) (int, error)
	ListIncoming(ctx context.Context, receiverID string, status model.MatchStatus) ([]model.IncomingMatch, error)
}

// MessageStore persists direct messages.
type MessageStore interface {
	Create(ctx context.Context, m *model.Message) error
	ListInbox(ctx context.Context, receiverID string) ([]model.InboxMessage, error)
	ListConversation(ctx context.Context, userID, partnerID string) ([]model.Message, error)
}

// now is the clock used for every timestamp the services write.
var now = func() time.Time { return time.Now().UTC() }
