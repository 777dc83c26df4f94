package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pairlink/pairlink-go/internal/model"
	"github.com/pairlink/pairlink-go/internal/repository"
)

// AlreadyLikedMessage accompanies a like that existed before the request.
const AlreadyLikedMessage = "already liked"

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrReceiverNotFound = errors.New("receiver not found")
)

// MatchService handles the like flow: send, inbox and respond.
type MatchService struct {
	matches MatchStore
}

// NewMatchService creates a new MatchService.
func NewMatchService(matches MatchStore) *MatchService {
	return &MatchService{matches: matches}
}

// SendLike creates a pending like from senderID to the receiver, or returns
// the existing one with AlreadyLikedMessage.
func (s *MatchService) SendLike(ctx context.Context, senderID string, req model.SendLikeRequest) (model.SendLikeResponse, error) {
	req.ReceiverID = strings.TrimSpace(req.ReceiverID)
	if err := validateStruct(req); err != nil {
		return model.SendLikeResponse{}, err
	}
	if req.ReceiverID == senderID {
		return model.SendLikeResponse{}, invalid("cannot like yourself")
	}

	existing, err := s.matches.GetByPair(ctx, senderID, req.ReceiverID)
	if err == nil {
		return model.SendLikeResponse{Match: *existing, Message: AlreadyLikedMessage}, nil
	}
	if !errors.Is(err, repository.ErrMatchNotFound) {
		return model.SendLikeResponse{}, err
	}

	ts := now()
	m := &model.Match{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Status:     model.MatchPending,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}

	if err := s.matches.Create(ctx, m); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateMatch):
			// lost a race with a concurrent send for the same pair
			existing, getErr := s.matches.GetByPair(ctx, senderID, req.ReceiverID)
			if getErr != nil {
				return model.SendLikeResponse{}, getErr
			}
			return model.SendLikeResponse{Match: *existing, Message: AlreadyLikedMessage}, nil
		case errors.Is(err, repository.ErrUserNotFound):
			return model.SendLikeResponse{}, ErrReceiverNotFound
		}
		return model.SendLikeResponse{}, err
	}

	return model.SendLikeResponse{Match: *m}, nil
}

// Inbox returns the number of pending or accepted likes received by userID
// and the pending ones, newest first.
func (s *MatchService) Inbox(ctx context.Context, userID string) (model.LikeInboxResponse, error) {
	count, err := s.matches.CountIncoming(ctx, userID, model.MatchPending, model.MatchAccepted)
	if err != nil {
		return model.LikeInboxResponse{}, err
	}

	pending, err := s.matches.ListIncoming(ctx, userID, model.MatchPending)
	if err != nil {
		return model.LikeInboxResponse{}, err
	}
	if pending == nil {
		pending = []model.IncomingMatch{}
	}

	return model.LikeInboxResponse{Count: count, Matches: pending}, nil
}

// Respond accepts or rejects a like received by userID. Matches that do not
// exist and matches addressed to someone else both yield ErrMatchNotFound.
// Responding again to a resolved match re-applies the requested status.
func (s *MatchService) Respond(ctx context.Context, userID string, req model.RespondMatchRequest) (model.Match, error) {
	req.MatchID = strings.TrimSpace(req.MatchID)
	if err := validateStruct(req); err != nil {
		return model.Match{}, invalid("invalid request")
	}

	m, err := s.matches.GetByID(ctx, req.MatchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, err
	}
	if m.ReceiverID != userID {
		return model.Match{}, ErrMatchNotFound
	}

	status := model.MatchRejected
	if req.Action == model.ActionAccept {
		status = model.MatchAccepted
	}

	updated, err := s.matches.UpdateStatus(ctx, m.ID, status, now())
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, err
	}

	return *updated, nil
}
