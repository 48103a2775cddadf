package entity

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectPosted    ProjectStatus = "posted"
	ProjectBidding   ProjectStatus = "bidding"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectDraft, ProjectPosted, ProjectBidding, ProjectActive, ProjectCompleted, ProjectCancelled:
		return true
	default:
		return false
	}
}

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectDraft:   {ProjectPosted, ProjectCancelled},
	ProjectPosted:  {ProjectBidding, ProjectCancelled},
	ProjectBidding: {ProjectActive, ProjectCancelled},
	ProjectActive:  {ProjectCompleted, ProjectCancelled},
}

func CanTransitionProject(from, to ProjectStatus) bool {
	for _, next := range projectTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// db model. The standalone bid table is the single source of truth for bids;
// BidCount is a denormalized read cache bumped on bid creation.
type Project struct {
	Id           uuid.UUID     `json:"id" db:"id"`
	ClientId     uuid.UUID     `json:"clientId" db:"client_id"`
	Title        string        `json:"title" db:"title"`
	Description  string        `json:"description" db:"description"`
	BudgetMin    float64       `json:"budgetMin" db:"budget_min"`
	BudgetMax    float64       `json:"budgetMax" db:"budget_max"`
	Currency     string        `json:"currency" db:"currency"`
	TimelineDays int           `json:"timelineDays" db:"timeline_days"`
	Attachments  []string      `json:"attachments"`
	Status       ProjectStatus `json:"status" db:"status"`
	BidCount     int           `json:"bidCount" db:"bid_count"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateProjectInput struct {
	ClientId     string
	Title        string
	Description  string
	BudgetMin    float64
	BudgetMax    float64
	Currency     string
	TimelineDays int
	Attachments  []string
}

// controller model
type ProjectOutputModel struct {
	Id           string   `json:"id"`
	ClientId     string   `json:"clientId"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	BudgetMin    float64  `json:"budgetMin"`
	BudgetMax    float64  `json:"budgetMax"`
	Currency     string   `json:"currency"`
	TimelineDays int      `json:"timelineDays"`
	Attachments  []string `json:"attachments"`
	Status       string   `json:"status"`
	BidCount     int      `json:"bidCount"`
	CreatedAt    string   `json:"createdAt"`
}
