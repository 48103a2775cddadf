package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotifyNewBid               NotificationType = "new_bid"
	NotifyBidAccepted          NotificationType = "bid_accepted"
	NotifyBidRejected          NotificationType = "bid_rejected"
	NotifyVerificationDecision NotificationType = "verification_decision"
	NotifyInvite               NotificationType = "invite"
)

// Notification is a derived, short-lived record of an event relevant to one
// user. It only links to the entities it mentions and never mutates them.
// Rows older than 30 days are removed by the background sweep.
type Notification struct {
	Id        uuid.UUID        `json:"id" db:"id"`
	UserId    uuid.UUID        `json:"userId" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Body      string           `json:"body" db:"body"`
	RelatedId uuid.UUID        `json:"relatedId" db:"related_id"`
	Read      bool             `json:"read" db:"read"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at"`
}

// controller model
type NotificationOutputModel struct {
	Id        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	RelatedId string `json:"relatedId"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}
