package entity

import (
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	VerificationPending     VerificationStatus = "pending"
	VerificationUnderReview VerificationStatus = "under_review"
	VerificationApproved    VerificationStatus = "approved"
	VerificationRejected    VerificationStatus = "rejected"
)

func ValidVerificationStatus(s VerificationStatus) bool {
	switch s {
	case VerificationPending, VerificationUnderReview, VerificationApproved, VerificationRejected:
		return true
	default:
		return false
	}
}

var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationPending:     {VerificationUnderReview},
	VerificationUnderReview: {VerificationApproved, VerificationRejected},
}

func CanTransitionVerification(from, to VerificationStatus) bool {
	for _, next := range verificationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// VerificationDocument is an admin-reviewed piece of evidence (registration
// certificate, tax id, portfolio link) attached to a company.
type VerificationDocument struct {
	Id         uuid.UUID `json:"id" db:"id"`
	CompanyId  uuid.UUID `json:"companyId" db:"company_id"`
	Kind       string    `json:"kind" db:"kind"`
	FileURL    string    `json:"fileUrl" db:"file_url"`
	UploadedAt time.Time `json:"uploadedAt" db:"uploaded_at"`
}

// db model
type Company struct {
	Id                uuid.UUID          `json:"id" db:"id"`
	OwnerId           uuid.UUID          `json:"ownerId" db:"owner_id"`
	Name              string             `json:"name" db:"name"`
	Description       string             `json:"description" db:"description"`
	Website           string             `json:"website" db:"website"`
	RatingAverage     float64            `json:"ratingAverage" db:"rating_average"`
	RatingCount       int                `json:"ratingCount" db:"rating_count"`
	VerificationState VerificationStatus `json:"verificationStatus" db:"verification_status"`
	VerificationNotes string             `json:"verificationNotes,omitempty" db:"verification_notes"`
	Documents         []VerificationDocument
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateCompanyInput struct {
	OwnerId     string
	Name        string
	Description string
	Website     string
}

// controller model
type CompanyOutputModel struct {
	Id                 string                 `json:"id"`
	OwnerId            string                 `json:"ownerId"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description"`
	Website            string                 `json:"website"`
	RatingAverage      float64                `json:"ratingAverage"`
	RatingCount        int                    `json:"ratingCount"`
	VerificationStatus string                 `json:"verificationStatus"`
	VerificationNotes  string                 `json:"verificationNotes,omitempty"`
	Documents          []VerificationDocument `json:"documents"`
	CreatedAt          string                 `json:"createdAt"`
}
