package model

import (
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

const (
	QuoteStatusAwaitingApproval QuoteStatus = "awaiting-approval"
	QuoteStatusAccepted         QuoteStatus = "accepted"
	QuoteStatusDeclined         QuoteStatus = "declined"
	QuoteStatusExpired          QuoteStatus = "expired"
)

type Quote struct {
	ID              uuid.UUID
	JobID           uuid.UUID
	PropertyAddress string
	ServiceType     ServiceType
	PreferredDate   time.Time
	QuoteAmount     float64
	DepositAmount   float64
	QuoteNotes      string
	Status          QuoteStatus
	DeclineReason   *string
	QuotedBy        uuid.UUID
	CreatedAt       time.Time
	ValidUntil      time.Time
}

func (q *Quote) Expired(now time.Time) bool {
	return q.Status == QuoteStatusAwaitingApproval && now.After(q.ValidUntil)
}
