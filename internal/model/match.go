package model

import "time"

// MatchStatus is the lifecycle state of a like.
type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
	MatchRejected MatchStatus = "rejected"
)

// Match actions accepted by the inbox respond endpoint.
const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Match is a directional like from sender to receiver.
type Match struct {
	ID         string      `json:"id"`
	SenderID   string      `json:"senderId"`
	ReceiverID string      `json:"receiverId"`
	Status     MatchStatus `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// IncomingMatch is a pending match enriched with its sender.
type IncomingMatch struct {
	Match
	Sender UserSummary `json:"sender"`
}

// SendLikeRequest represents a like send request.
type SendLikeRequest struct {
	ReceiverID string `json:"receiverId" validate:"required"`
}

// SendLikeResponse returns the match; Message is set when it already existed.
type SendLikeResponse struct {
	Match   Match  `json:"match"`
	Message string `json:"message,omitempty"`
}

// LikeInboxResponse is the received-likes summary.
type LikeInboxResponse struct {
	Count   int             `json:"count"`
	Matches []IncomingMatch `json:"matches"`
}

// RespondMatchRequest accepts or rejects a received like.
type RespondMatchRequest struct {
	MatchID string `json:"matchId" validate:"required"`
	Action  string `json:"action" validate:"required,oneof=accept reject"`
}

// MatchResponse wraps a single match.
type MatchResponse struct {
	Match Match `json:"match"`
}
