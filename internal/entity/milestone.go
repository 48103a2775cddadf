package entity

import (
	"time"

	"github.com/google/uuid"
)

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestonePaid       MilestoneStatus = "paid"
)

func ValidMilestoneStatus(s MilestoneStatus) bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestonePaid:
		return true
	default:
		return false
	}
}

// Each milestone advances strictly pending -> in_progress -> completed -> paid.
// There is no ordering rule between milestones of the same bid.
var milestoneTransitions = map[MilestoneStatus]MilestoneStatus{
	MilestonePending:    MilestoneInProgress,
	MilestoneInProgress: MilestoneCompleted,
	MilestoneCompleted:  MilestonePaid,
}

func CanTransitionMilestone(from, to MilestoneStatus) bool {
	return milestoneTransitions[from] == to
}

// Milestone is a payable checkpoint of a bid's delivery plan. Once the bid is
// accepted the milestone list is the authoritative checkpoint list for the
// payment-release workflow; this model only records transitions, it never
// moves funds.
type Milestone struct {
	Id              uuid.UUID       `json:"id" db:"id"`
	BidId           uuid.UUID       `json:"bidId" db:"bid_id"`
	Position        int             `json:"position" db:"position"`
	Title           string          `json:"title" db:"title"`
	Amount          float64         `json:"amount" db:"amount"`
	DueDate         *time.Time      `json:"dueDate,omitempty" db:"due_date"`
	Status          MilestoneStatus `json:"status" db:"status"`
	CompletionProof []string        `json:"completionProof"`

	ClientApproved   bool       `json:"clientApproved" db:"client_approved"`
	ApprovedAt       *time.Time `json:"approvedAt,omitempty" db:"approved_at"`
	ApprovalComments string     `json:"approvalComments,omitempty" db:"approval_comments"`

	StartedAt   *time.Time `json:"startedAt,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" db:"completed_at"`
	PaidAt      *time.Time `json:"paidAt,omitempty" db:"paid_at"`
}
