package service

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("unknown role")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrCompanyNotFound        = errors.New("company not found")
	ErrCompanyNotVerified     = errors.New("company is not verified, bids are not allowed")
	ErrVerificationTransition = errors.New("invalid verification status transition")
	ErrNotesRequired          = errors.New("rejecting a verification requires explanatory notes")
	ErrNoAccessToCompany      = errors.New("user doesn't have sufficient rights to access the company")

	ErrProjectNotFound   = errors.New("project not found")
	ErrProjectNotOpen    = errors.New("project is not open for bidding")
	ErrProjectTransition = errors.New("invalid project status transition")
	ErrNoAccessToProject = errors.New("user doesn't have sufficient rights to access the project")

	ErrBidNotFound      = errors.New("bid not found")
	ErrBidAlreadyExists = errors.New("the company already has a bid on this project")
	ErrBidConflict      = errors.New("bid was modified concurrently, re-fetch and retry")
	ErrBidTransition    = errors.New("invalid bid status transition")
	ErrNoAccessToBid    = errors.New("user doesn't have sufficient rights to access the bid")

	ErrInvalidAmount   = errors.New("amount must be non-negative")
	ErrInvalidTax      = errors.New("tax percentage must be between 0 and 100")
	ErrProposalLength  = errors.New("proposal must be between 100 and 5000 characters")
	ErrInvalidTimeline = errors.New("timeline unit must be days, weeks or months")
	ErrInvalidRisk     = errors.New("risk probability and impact must be low, medium or high")

	ErrNegotiationNotFound = errors.New("negotiation entry not found")
	ErrNegotiationResolved = errors.New("negotiation entry is already resolved")
	ErrFieldNotNegotiable  = errors.New("field is not negotiable")
	ErrOwnProposalDecision = errors.New("a proposal can't be resolved by its own proposer")
	ErrBidNotNegotiable    = errors.New("bid is not in a negotiable status")

	ErrMilestoneNotFound    = errors.New("milestone not found")
	ErrMilestoneTransition  = errors.New("invalid milestone status transition")
	ErrMilestoneNotApproved = errors.New("milestone needs client approval before payment")
	ErrBidNotAccepted       = errors.New("bid must be accepted before milestones progress")
)
