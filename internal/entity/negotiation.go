package entity

import (
	"time"

	"github.com/google/uuid"
)

type NegotiationStatus string

const (
	NegotiationPending   NegotiationStatus = "pending"
	NegotiationAccepted  NegotiationStatus = "accepted"
	NegotiationRejected  NegotiationStatus = "rejected"
	NegotiationCountered NegotiationStatus = "countered"
)

// NegotiationField is the closed set of bid fields that may be renegotiated.
// Unknown field names are rejected at the boundary.
type NegotiationField string

const (
	NegotiateAmount     NegotiationField = "amount"
	NegotiateTax        NegotiationField = "tax_percentage"
	NegotiateTimeline   NegotiationField = "timeline"
	NegotiateMilestones NegotiationField = "milestones"
)

func ValidNegotiationField(f NegotiationField) bool {
	switch f {
	case NegotiateAmount, NegotiateTax, NegotiateTimeline, NegotiateMilestones:
		return true
	default:
		return false
	}
}

// NegotiationEntry records one proposed change to one bid field. Entries are
// append-only; resolution flips the status and, on acceptance, the proposed
// value is written back onto the bid's live field.
type NegotiationEntry struct {
	Id    uuid.UUID        `json:"id" db:"id"`
	BidId uuid.UUID        `json:"bidId" db:"bid_id"`
	Field NegotiationField `json:"field" db:"field"`
	// values are JSON-encoded so each field keeps its own typed payload
	OldValue      string            `json:"oldValue" db:"old_value"`
	NewValue      string            `json:"newValue" db:"new_value"`
	ProposedBy    uuid.UUID         `json:"proposedBy" db:"proposed_by"`
	Status        NegotiationStatus `json:"status" db:"status"`
	FinalAccepted bool              `json:"finalAccepted" db:"final_accepted"`
	Notes         string            `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	ResolvedAt    *time.Time        `json:"resolvedAt,omitempty" db:"resolved_at"`
}
