package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type BidStatus string

const (
	BidDraft       BidStatus = "draft"
	BidSubmitted   BidStatus = "submitted"
	BidUnderReview BidStatus = "under_review"
	BidAccepted    BidStatus = "accepted"
	BidRejected    BidStatus = "rejected"
	BidWithdrawn   BidStatus = "withdrawn"
	BidExpired     BidStatus = "expired"
)

func ValidBidStatus(s BidStatus) bool {
	switch s {
	case BidDraft, BidSubmitted, BidUnderReview, BidAccepted, BidRejected, BidWithdrawn, BidExpired:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further status transition is allowed.
func (s BidStatus) Terminal() bool {
	switch s {
	case BidAccepted, BidRejected, BidWithdrawn, BidExpired:
		return true
	default:
		return false
	}
}

var bidTransitions = map[BidStatus][]BidStatus{
	BidDraft:       {BidSubmitted, BidWithdrawn},
	BidSubmitted:   {BidUnderReview, BidAccepted, BidRejected, BidWithdrawn, BidExpired},
	BidUnderReview: {BidAccepted, BidRejected, BidWithdrawn, BidExpired},
}

// CanTransitionBid is the single transition table for the bid status machine.
// Every status mutation in the service layer goes through it.
func CanTransitionBid(from, to BidStatus) bool {
	for _, next := range bidTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type TimelineUnit string

const (
	UnitDays   TimelineUnit = "days"
	UnitWeeks  TimelineUnit = "weeks"
	UnitMonths TimelineUnit = "months"
)

func ValidTimelineUnit(u TimelineUnit) bool {
	switch u {
	case UnitDays, UnitWeeks, UnitMonths:
		return true
	default:
		return false
	}
}

type Timeline struct {
	Value     int          `json:"value" db:"timeline_value"`
	Unit      TimelineUnit `json:"unit" db:"timeline_unit"`
	StartDate *time.Time   `json:"startDate,omitempty" db:"timeline_start"`
	EndDate   *time.Time   `json:"endDate,omitempty" db:"timeline_end"`
}

// Days normalizes the timeline to days. Weeks count as 7 days and months
// as 30; this is an approximation, not a calendar computation.
func (t Timeline) Days() int {
	switch t.Unit {
	case UnitWeeks:
		return t.Value * 7
	case UnitMonths:
		return t.Value * 30
	default:
		return t.Value
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func ValidRiskLevel(l RiskLevel) bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

type Risk struct {
	Description string    `json:"description"`
	Probability RiskLevel `json:"probability"`
	Impact      RiskLevel `json:"impact"`
}

// StatusChange is one immutable entry of a bid's append-only audit log.
type StatusChange struct {
	Status    BidStatus `json:"status" db:"status"`
	ChangedAt time.Time `json:"changedAt" db:"changed_at"`
	ChangedBy uuid.UUID `json:"changedBy" db:"changed_by"`
	Notes     string    `json:"notes" db:"notes"`
}

// db model
type Bid struct {
	Id        uuid.UUID `json:"id" db:"id"`
	ProjectId uuid.UUID `json:"projectId" db:"project_id"`
	CompanyId uuid.UUID `json:"companyId" db:"company_id"`
	// denormalized from the project for listing queries
	ClientId uuid.UUID `json:"clientId" db:"client_id"`

	Amount        float64 `json:"amount" db:"amount"`
	Currency      string  `json:"currency" db:"currency"`
	TaxPercentage float64 `json:"taxPercentage" db:"tax_percentage"`
	TotalAmount   float64 `json:"totalAmount" db:"total_amount"`

	Proposal      string   `json:"proposal" db:"proposal"`
	Deliverables  []string `json:"deliverables"`
	TeamStructure string   `json:"teamStructure" db:"team_structure"`
	TechStack     []string `json:"techStack"`
	Assumptions   []string `json:"assumptions"`
	Risks         []Risk   `json:"risks"`
	Attachments   []string `json:"attachments"`

	Timeline       Timeline `json:"proposedTimeline"`
	TimelineInDays int      `json:"timelineInDays" db:"timeline_in_days"`

	Status        BidStatus      `json:"status" db:"status"`
	StatusHistory []StatusChange `json:"statusHistory"`

	Milestones   []Milestone        `json:"milestones"`
	Negotiations []NegotiationEntry `json:"negotiationHistory"`

	ExpiresAt      *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	AutoWithdrawAt *time.Time `json:"autoWithdrawAt,omitempty" db:"auto_withdraw_at"`

	IsInvited      bool       `json:"isInvited" db:"is_invited"`
	ViewedByClient bool       `json:"viewedByClient" db:"viewed_by_client"`
	ViewedAt       *time.Time `json:"viewedAt,omitempty" db:"viewed_at"`
	Shortlisted    bool       `json:"shortlisted" db:"shortlisted"`
	ShortlistedAt  *time.Time `json:"shortlistedAt,omitempty" db:"shortlisted_at"`

	RevisionCount int        `json:"revisionCount" db:"revision_count"`
	LastRevisedAt *time.Time `json:"lastRevisedAt,omitempty" db:"last_revised_at"`

	CreatedBy uuid.UUID `json:"createdBy" db:"created_by"`
	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// RoundMoney rounds a monetary value to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeFinancials applies the derivation rules that run on every write:
// the amount is always stored rounded to two decimals, the timeline is
// normalized to days, and the total is computed once, only while absent.
// A caller that changes amount or tax after the total was set must clear
// TotalAmount explicitly to force recomputation.
func (b *Bid) NormalizeFinancials() {
	b.Amount = RoundMoney(b.Amount)
	b.TimelineInDays = b.Timeline.Days()
	if b.TotalAmount == 0 {
		b.TotalAmount = RoundMoney(b.Amount * (1 + b.TaxPercentage/100))
	}
}

// IsExpired is a derived read-side view: true iff the expiry timestamp is set
// and in the past, regardless of the persisted status. The sweep materializes
// the transition later.
func (b *Bid) IsExpired(now time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}

// DueAutoWithdraw reports whether the auto-withdraw deadline has passed.
func (b *Bid) DueAutoWithdraw(now time.Time) bool {
	return b.AutoWithdrawAt != nil && b.AutoWithdrawAt.Before(now)
}

// service + repo input model
type CreateBidInput struct {
	ProjectId     string
	CompanyId     string
	Amount        float64
	Currency      string
	TaxPercentage float64
	Proposal      string
	Deliverables  []string
	TeamStructure string
	TechStack     []string
	Assumptions   []string
	Risks         []Risk
	Attachments   []string
	Timeline      Timeline
	Milestones    []MilestoneInput
	IsInvited     bool
}

// update input: TotalAmount is deliberately left alone on edits so an
// already-negotiated total never drifts silently; RecomputeTotal clears it
// so the derivation runs again.
type UpdateBidInput struct {
	Amount         float64
	TaxPercentage  float64
	RecomputeTotal bool
	Proposal       string
	Deliverables   []string
	TeamStructure  string
	TechStack      []string
	Assumptions    []string
	Risks          []Risk
	Attachments    []string
	Timeline       Timeline
}

type MilestoneInput struct {
	Title   string
	Amount  float64
	DueDate *time.Time
}

// controller model
type BidOutputModel struct {
	Id             string             `json:"id"`
	ProjectId      string             `json:"projectId"`
	CompanyId      string             `json:"companyId"`
	Amount         float64            `json:"amount"`
	Currency       string             `json:"currency"`
	TaxPercentage  float64            `json:"taxPercentage"`
	TotalAmount    float64            `json:"totalAmount"`
	Proposal       string             `json:"proposal"`
	Deliverables   []string           `json:"deliverables"`
	TeamStructure  string             `json:"teamStructure,omitempty"`
	TechStack      []string           `json:"techStack"`
	Assumptions    []string           `json:"assumptions"`
	Risks          []Risk             `json:"risks"`
	Attachments    []string           `json:"attachments"`
	Timeline       Timeline           `json:"proposedTimeline"`
	TimelineInDays int                `json:"timelineInDays"`
	Status         string             `json:"status"`
	StatusHistory  []StatusChange     `json:"statusHistory"`
	Milestones     []Milestone        `json:"milestones"`
	Negotiations   []NegotiationEntry `json:"negotiationHistory"`
	ExpiresAt      *time.Time         `json:"expiresAt,omitempty"`
	AutoWithdrawAt *time.Time         `json:"autoWithdrawAt,omitempty"`
	IsInvited      bool               `json:"isInvited"`
	Shortlisted    bool               `json:"shortlisted"`
	Expired        bool               `json:"isExpired"`
	Score          float64            `json:"score"`
	RevisionCount  int                `json:"revisionCount"`
	Version        int                `json:"version"`
	CreatedAt      string             `json:"createdAt"`
}

// listing model joined with the counterpart's summary fields
type BidListItem struct {
	Id            uuid.UUID `json:"id" db:"id"`
	ProjectId     uuid.UUID `json:"projectId" db:"project_id"`
	ProjectTitle  string    `json:"projectTitle" db:"project_title"`
	CompanyId     uuid.UUID `json:"companyId" db:"company_id"`
	CompanyName   string    `json:"companyName" db:"company_name"`
	CompanyRating float64   `json:"companyRating" db:"company_rating"`
	Amount        float64   `json:"amount" db:"amount"`
	Currency      string    `json:"currency" db:"currency"`
	TotalAmount   float64   `json:"totalAmount" db:"total_amount"`
	Status        BidStatus `json:"status" db:"status"`
	Shortlisted   bool      `json:"shortlisted" db:"shortlisted"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
