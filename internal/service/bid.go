package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo"
	"marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

const (
	bidExpiryWindow    = 30 * 24 * time.Hour
	autoWithdrawWindow = 60 * 24 * time.Hour

	defaultCurrency = "PKR"

	proposalMinLen = 100
	proposalMaxLen = 5000
)

type BidService struct {
	bidRepo     repo.Bid
	projectRepo repo.Project
	companyRepo repo.Company
	notifier    *Notifier
}

func NewBidService(repos *repo.Repositories, notifier *Notifier) *BidService {
	return &BidService{
		bidRepo:     repos.Bid,
		projectRepo: repos.Project,
		companyRepo: repos.Company,
		notifier:    notifier,
	}
}

func validateBidTerms(amount, tax float64, proposal string, timeline entity.Timeline, risks []entity.Risk) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	if tax < 0 || tax > 100 {
		return ErrInvalidTax
	}
	// characters, not bytes: Urdu text is multi-byte in UTF-8
	if n := utf8.RuneCountInString(proposal); n < proposalMinLen || n > proposalMaxLen {
		return ErrProposalLength
	}
	if !entity.ValidTimelineUnit(timeline.Unit) {
		return ErrInvalidTimeline
	}
	for _, r := range risks {
		if !entity.ValidRiskLevel(r.Probability) || !entity.ValidRiskLevel(r.Impact) {
			return ErrInvalidRisk
		}
	}

	return nil
}

func validateMilestones(milestones []entity.MilestoneInput) error {
	for _, m := range milestones {
		if m.Amount < 0 {
			return ErrInvalidAmount
		}
	}

	return nil
}

// isCompanySide reports whether the actor authored the bid.
func isCompanySide(bid *entity.Bid, actor entity.Actor) bool {
	return bid.CreatedBy == actor.UserId
}

// isClientSide reports whether the actor owns the project the bid targets.
func isClientSide(bid *entity.Bid, actor entity.Actor) bool {
	return bid.ClientId == actor.UserId
}

func isParty(bid *entity.Bid, actor entity.Actor) bool {
	return isCompanySide(bid, actor) || isClientSide(bid, actor)
}

func (s *BidService) CreateBid(ctx context.Context, actor entity.Actor, input *entity.CreateBidInput) (*entity.BidOutputModel, error) {
	if err := validateBidTerms(input.Amount, input.TaxPercentage, input.Proposal, input.Timeline, input.Risks); err != nil {
		return nil, err
	}
	if err := validateMilestones(input.Milestones); err != nil {
		return nil, err
	}

	company, err := s.companyRepo.GetCompanyById(ctx, input.CompanyId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	if company.OwnerId != actor.UserId {
		return nil, ErrNoAccessToCompany
	}

	if company.VerificationState != entity.VerificationApproved {
		return nil, ErrCompanyNotVerified
	}

	project, err := s.projectRepo.GetProjectById(ctx, input.ProjectId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if project.Status != entity.ProjectPosted && project.Status != entity.ProjectBidding {
		return nil, ErrProjectNotOpen
	}

	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	now := time.Now()
	bid := &entity.Bid{
		ProjectId:     project.Id,
		CompanyId:     company.Id,
		ClientId:      project.ClientId,
		Amount:        input.Amount,
		Currency:      currency,
		TaxPercentage: input.TaxPercentage,
		Proposal:      input.Proposal,
		Deliverables:  input.Deliverables,
		TeamStructure: input.TeamStructure,
		TechStack:     input.TechStack,
		Assumptions:   input.Assumptions,
		Risks:         input.Risks,
		Attachments:   input.Attachments,
		Timeline:      input.Timeline,
		Status:        entity.BidDraft,
		IsInvited:     input.IsInvited,
		CreatedBy:     actor.UserId,
		CreatedAt:     now,
	}
	bid.NormalizeFinancials()

	for _, m := range input.Milestones {
		bid.Milestones = append(bid.Milestones, entity.Milestone{
			Title:   m.Title,
			Amount:  entity.RoundMoney(m.Amount),
			DueDate: m.DueDate,
			Status:  entity.MilestonePending,
		})
	}

	bidId, err := s.bidRepo.CreateBid(ctx, bid)
	if err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrBidAlreadyExists
		}

		return nil, err
	}

	if err := s.projectRepo.IncrementBidCount(ctx, input.ProjectId); err != nil {
		return nil, err
	}

	if project.Status == entity.ProjectPosted {
		if err := s.projectRepo.UpdateProjectStatus(ctx, input.ProjectId, entity.ProjectBidding); err != nil {
			return nil, err
		}
	}

	s.notifier.Notify(ctx, project.ClientId, entity.NotifyNewBid,
		"bid.new",
		fmt.Sprintf("%s placed a bid on %q", company.Name, project.Title),
		bidId)

	return s.outputBid(ctx, bidId.String())
}

func (s *BidService) getBid(ctx context.Context, bidId string) (*entity.Bid, error) {
	bid, err := s.bidRepo.GetBidById(ctx, bidId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidNotFound
		}

		return nil, err
	}

	return bid, nil
}

// outputBid re-fetches a bid after a mutation and maps it with the company's
// current rating resolved for scoring.
func (s *BidService) outputBid(ctx context.Context, bidId string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	rating := 0.0
	if company, err := s.companyRepo.GetCompanyById(ctx, bid.CompanyId.String()); err == nil {
		rating = company.RatingAverage
	}

	return mapBid(bid, rating, time.Now()), nil
}

func (s *BidService) GetBidById(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isParty(bid, actor) && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToBid
	}

	if isClientSide(bid, actor) && !bid.ViewedByClient {
		if err := s.bidRepo.MarkViewed(ctx, bidId, time.Now()); err != nil {
			return nil, err
		}
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) EditBidTerms(ctx context.Context, actor entity.Actor, bidId string, input *entity.UpdateBidInput) (*entity.BidOutputModel, error) {
	if err := validateBidTerms(input.Amount, input.TaxPercentage, input.Proposal, input.Timeline, input.Risks); err != nil {
		return nil, err
	}

	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isCompanySide(bid, actor) {
		return nil, ErrNoAccessToBid
	}

	if bid.Status != entity.BidDraft && bid.Status != entity.BidSubmitted {
		return nil, ErrBidTransition
	}

	bid.Amount = input.Amount
	bid.TaxPercentage = input.TaxPercentage
	bid.Proposal = input.Proposal
	bid.Deliverables = input.Deliverables
	bid.TeamStructure = input.TeamStructure
	bid.TechStack = input.TechStack
	bid.Assumptions = input.Assumptions
	bid.Risks = input.Risks
	bid.Attachments = input.Attachments
	bid.Timeline = input.Timeline
	if input.RecomputeTotal {
		bid.TotalAmount = 0
	}
	bid.NormalizeFinancials()

	if err := s.bidRepo.UpdateBidTerms(ctx, bid); err != nil {
		if errors.Is(err, repo_errors.ErrStaleVersion) {
			return nil, ErrBidConflict
		}

		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

// transition applies one step of the status machine with the full audit
// discipline: table check, first-submit timer arming, optimistic-concurrency
// write, exactly one appended history entry.
func (s *BidService) transition(ctx context.Context, bid *entity.Bid, to entity.BidStatus, actor uuid.UUID, notes string) error {
	if !entity.CanTransitionBid(bid.Status, to) {
		return ErrBidTransition
	}

	now := time.Now()
	if to == entity.BidSubmitted && bid.ExpiresAt == nil {
		expires := now.Add(bidExpiryWindow)
		autoWithdraw := now.Add(autoWithdrawWindow)
		bid.ExpiresAt = &expires
		bid.AutoWithdrawAt = &autoWithdraw
	}

	change := entity.StatusChange{Status: to, ChangedAt: now, ChangedBy: actor, Notes: notes}
	if err := s.bidRepo.TransitionBid(ctx, bid, change); err != nil {
		if errors.Is(err, repo_errors.ErrStaleVersion) {
			return ErrBidConflict
		}

		return err
	}

	bid.Status = to

	return nil
}

func (s *BidService) SubmitBid(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isCompanySide(bid, actor) {
		return nil, ErrNoAccessToBid
	}

	if err := s.transition(ctx, bid, entity.BidSubmitted, actor.UserId, "bid submitted"); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) WithdrawBid(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isCompanySide(bid, actor) {
		return nil, ErrNoAccessToBid
	}

	if err := s.transition(ctx, bid, entity.BidWithdrawn, actor.UserId, "withdrawn by company"); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) MarkUnderReview(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isClientSide(bid, actor) && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToBid
	}

	if err := s.transition(ctx, bid, entity.BidUnderReview, actor.UserId, "client started review"); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) AcceptBid(ctx context.Context, actor entity.Actor, bidId string, notes string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isClientSide(bid, actor) && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToBid
	}

	if err := s.transition(ctx, bid, entity.BidAccepted, actor.UserId, notes); err != nil {
		return nil, err
	}

	if err := s.projectRepo.UpdateProjectStatus(ctx, bid.ProjectId.String(), entity.ProjectActive); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, bid.CreatedBy, entity.NotifyBidAccepted,
		"bid.accepted",
		"Your bid was accepted; milestones are now payment checkpoints",
		bid.Id)

	return s.outputBid(ctx, bidId)
}

func (s *BidService) RejectBid(ctx context.Context, actor entity.Actor, bidId string, notes string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isClientSide(bid, actor) && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToBid
	}

	if err := s.transition(ctx, bid, entity.BidRejected, actor.UserId, notes); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, bid.CreatedBy, entity.NotifyBidRejected,
		"bid.rejected", notes, bid.Id)

	return s.outputBid(ctx, bidId)
}

func (s *BidService) ShortlistBid(ctx context.Context, actor entity.Actor, bidId string, shortlisted bool) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isClientSide(bid, actor) && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToBid
	}

	if err := s.bidRepo.SetShortlisted(ctx, bidId, shortlisted, time.Now()); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func negotiable(status entity.BidStatus) bool {
	return status == entity.BidSubmitted || status == entity.BidUnderReview
}

// decodeNegotiationValue checks that the proposed value parses as the typed
// payload of its field and passes the same write-boundary validation as a
// direct edit would.
func decodeNegotiationValue(field entity.NegotiationField, raw json.RawMessage) error {
	switch field {
	case entity.NegotiateAmount:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 {
			return ErrInvalidAmount
		}
	case entity.NegotiateTax:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 || v > 100 {
			return ErrInvalidTax
		}
	case entity.NegotiateTimeline:
		var v entity.Timeline
		if err := json.Unmarshal(raw, &v); err != nil || !entity.ValidTimelineUnit(v.Unit) {
			return ErrInvalidTimeline
		}
	case entity.NegotiateMilestones:
		var v []entity.MilestoneInput
		if err := json.Unmarshal(raw, &v); err != nil {
			return ErrInvalidAmount
		}
		return validateMilestones(v)
	default:
		return ErrFieldNotNegotiable
	}

	return nil
}

// currentFieldValue snapshots the live value of a negotiable field as JSON so
// the entry carries an oldValue/newValue pair.
func currentFieldValue(bid *entity.Bid, field entity.NegotiationField) (string, error) {
	var v interface{}
	switch field {
	case entity.NegotiateAmount:
		v = bid.Amount
	case entity.NegotiateTax:
		v = bid.TaxPercentage
	case entity.NegotiateTimeline:
		v = bid.Timeline
	case entity.NegotiateMilestones:
		v = bid.Milestones
	default:
		return "", ErrFieldNotNegotiable
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func (s *BidService) ProposeNegotiation(ctx context.Context, actor entity.Actor, bidId string, field entity.NegotiationField, newValue json.RawMessage, notes string) (*entity.BidOutputModel, error) {
	if !entity.ValidNegotiationField(field) {
		return nil, ErrFieldNotNegotiable
	}
	if err := decodeNegotiationValue(field, newValue); err != nil {
		return nil, err
	}

	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	if !isParty(bid, actor) {
		return nil, ErrNoAccessToBid
	}

	if !negotiable(bid.Status) {
		return nil, ErrBidNotNegotiable
	}

	oldValue, err := currentFieldValue(bid, field)
	if err != nil {
		return nil, err
	}

	entry := &entity.NegotiationEntry{
		BidId:      bid.Id,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   string(newValue),
		ProposedBy: actor.UserId,
		Status:     entity.NegotiationPending,
		Notes:      notes,
	}

	if _, err := s.bidRepo.AddNegotiation(ctx, entry); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func findNegotiation(bid *entity.Bid, entryId string) (*entity.NegotiationEntry, error) {
	id, err := uuid.Parse(entryId)
	if err != nil {
		return nil, ErrNegotiationNotFound
	}

	for i := range bid.Negotiations {
		if bid.Negotiations[i].Id == id {
			return &bid.Negotiations[i], nil
		}
	}

	return nil, ErrNegotiationNotFound
}

func (s *BidService) resolvableEntry(bid *entity.Bid, actor entity.Actor, entryId string) (*entity.NegotiationEntry, error) {
	if !isParty(bid, actor) {
		return nil, ErrNoAccessToBid
	}

	// a proposal left pending when the bid reached a decision is dead; it
	// must never rewrite the terms of an accepted bid
	if !negotiable(bid.Status) {
		return nil, ErrBidNotNegotiable
	}

	entry, err := findNegotiation(bid, entryId)
	if err != nil {
		return nil, err
	}

	if entry.Status != entity.NegotiationPending {
		return nil, ErrNegotiationResolved
	}

	if entry.ProposedBy == actor.UserId {
		return nil, ErrOwnProposalDecision
	}

	return entry, nil
}

// applyNegotiationValue writes the accepted value onto the bid's live field.
// The total amount is deliberately not recomputed here; the parties accepted
// a concrete amount, and the once-only total derivation contract holds.
func applyNegotiationValue(bid *entity.Bid, entry *entity.NegotiationEntry) error {
	raw := []byte(entry.NewValue)
	switch entry.Field {
	case entity.NegotiateAmount:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		bid.Amount = entity.RoundMoney(v)
	case entity.NegotiateTax:
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		bid.TaxPercentage = v
	case entity.NegotiateTimeline:
		var v entity.Timeline
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		bid.Timeline = v
		bid.TimelineInDays = v.Days()
	case entity.NegotiateMilestones:
		var v []entity.MilestoneInput
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		milestones := make([]entity.Milestone, 0, len(v))
		for _, m := range v {
			milestones = append(milestones, entity.Milestone{
				Title:   m.Title,
				Amount:  entity.RoundMoney(m.Amount),
				DueDate: m.DueDate,
				Status:  entity.MilestonePending,
			})
		}
		bid.Milestones = milestones
	default:
		return ErrFieldNotNegotiable
	}

	return nil
}

func (s *BidService) AcceptNegotiation(ctx context.Context, actor entity.Actor, bidId, entryId string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	entry, err := s.resolvableEntry(bid, actor, entryId)
	if err != nil {
		return nil, err
	}

	if err := applyNegotiationValue(bid, entry); err != nil {
		return nil, err
	}

	if err := s.bidRepo.AcceptNegotiation(ctx, bid, entry.Id, time.Now()); err != nil {
		if errors.Is(err, repo_errors.ErrStaleVersion) {
			return nil, ErrBidConflict
		}
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrNegotiationNotFound
		}

		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) RejectNegotiation(ctx context.Context, actor entity.Actor, bidId, entryId string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	entry, err := s.resolvableEntry(bid, actor, entryId)
	if err != nil {
		return nil, err
	}

	if err := s.bidRepo.UpdateNegotiationStatus(ctx, entry.Id, entity.NegotiationRejected, time.Now()); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrNegotiationResolved
		}

		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

// CounterNegotiation closes the entry as countered and appends a fresh
// pending proposal for the same field from the countering party.
func (s *BidService) CounterNegotiation(ctx context.Context, actor entity.Actor, bidId, entryId string, newValue json.RawMessage, notes string) (*entity.BidOutputModel, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, err
	}

	entry, err := s.resolvableEntry(bid, actor, entryId)
	if err != nil {
		return nil, err
	}

	if err := decodeNegotiationValue(entry.Field, newValue); err != nil {
		return nil, err
	}

	if err := s.bidRepo.UpdateNegotiationStatus(ctx, entry.Id, entity.NegotiationCountered, time.Now()); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrNegotiationResolved
		}

		return nil, err
	}

	oldValue, err := currentFieldValue(bid, entry.Field)
	if err != nil {
		return nil, err
	}

	counter := &entity.NegotiationEntry{
		BidId:      bid.Id,
		Field:      entry.Field,
		OldValue:   oldValue,
		NewValue:   string(newValue),
		ProposedBy: actor.UserId,
		Status:     entity.NegotiationPending,
		Notes:      notes,
	}

	if _, err := s.bidRepo.AddNegotiation(ctx, counter); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func findMilestone(bid *entity.Bid, milestoneId string) (*entity.Milestone, error) {
	id, err := uuid.Parse(milestoneId)
	if err != nil {
		return nil, ErrMilestoneNotFound
	}

	for i := range bid.Milestones {
		if bid.Milestones[i].Id == id {
			return &bid.Milestones[i], nil
		}
	}

	return nil, ErrMilestoneNotFound
}

func (s *BidService) milestoneForUpdate(ctx context.Context, actor entity.Actor, bidId, milestoneId string, companySide bool) (*entity.Bid, *entity.Milestone, error) {
	bid, err := s.getBid(ctx, bidId)
	if err != nil {
		return nil, nil, err
	}

	if companySide {
		if !isCompanySide(bid, actor) {
			return nil, nil, ErrNoAccessToBid
		}
	} else if !isClientSide(bid, actor) && actor.Role != entity.RoleAdmin {
		return nil, nil, ErrNoAccessToBid
	}

	if bid.Status != entity.BidAccepted {
		return nil, nil, ErrBidNotAccepted
	}

	m, err := findMilestone(bid, milestoneId)
	if err != nil {
		return nil, nil, err
	}

	return bid, m, nil
}

func (s *BidService) StartMilestone(ctx context.Context, actor entity.Actor, bidId, milestoneId string) (*entity.BidOutputModel, error) {
	_, m, err := s.milestoneForUpdate(ctx, actor, bidId, milestoneId, true)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionMilestone(m.Status, entity.MilestoneInProgress) {
		return nil, ErrMilestoneTransition
	}

	now := time.Now()
	m.Status = entity.MilestoneInProgress
	m.StartedAt = &now

	if err := s.bidRepo.UpdateMilestone(ctx, m); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) CompleteMilestone(ctx context.Context, actor entity.Actor, bidId, milestoneId string, proof []string) (*entity.BidOutputModel, error) {
	_, m, err := s.milestoneForUpdate(ctx, actor, bidId, milestoneId, true)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionMilestone(m.Status, entity.MilestoneCompleted) {
		return nil, ErrMilestoneTransition
	}

	now := time.Now()
	m.Status = entity.MilestoneCompleted
	m.CompletedAt = &now
	m.CompletionProof = append(m.CompletionProof, proof...)

	if err := s.bidRepo.UpdateMilestone(ctx, m); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) ApproveMilestone(ctx context.Context, actor entity.Actor, bidId, milestoneId string, comments string) (*entity.BidOutputModel, error) {
	_, m, err := s.milestoneForUpdate(ctx, actor, bidId, milestoneId, false)
	if err != nil {
		return nil, err
	}

	if m.Status != entity.MilestoneCompleted {
		return nil, ErrMilestoneTransition
	}

	now := time.Now()
	m.ClientApproved = true
	m.ApprovedAt = &now
	m.ApprovalComments = comments

	if err := s.bidRepo.UpdateMilestone(ctx, m); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) MarkMilestonePaid(ctx context.Context, actor entity.Actor, bidId, milestoneId string) (*entity.BidOutputModel, error) {
	_, m, err := s.milestoneForUpdate(ctx, actor, bidId, milestoneId, false)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransitionMilestone(m.Status, entity.MilestonePaid) {
		return nil, ErrMilestoneTransition
	}

	if !m.ClientApproved {
		return nil, ErrMilestoneNotApproved
	}

	now := time.Now()
	m.Status = entity.MilestonePaid
	m.PaidAt = &now

	if err := s.bidRepo.UpdateMilestone(ctx, m); err != nil {
		return nil, err
	}

	return s.outputBid(ctx, bidId)
}

func (s *BidService) GetBidsForProject(ctx context.Context, actor entity.Actor, projectId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error) {
	project, err := s.projectRepo.GetProjectById(ctx, projectId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProjectNotFound
		}

		return nil, err
	}

	if project.ClientId != actor.UserId && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToProject
	}

	return s.bidRepo.GetBidsByProject(ctx, projectId, status, pg)
}

func (s *BidService) GetCompanyBids(ctx context.Context, actor entity.Actor, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error) {
	company, err := s.companyRepo.GetCompanyByOwnerId(ctx, actor.UserId.String())
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	return s.bidRepo.GetBidsByCompany(ctx, company.Id.String(), status, pg)
}

func (s *BidService) GetClientBids(ctx context.Context, actor entity.Actor, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error) {
	return s.bidRepo.GetBidsByClient(ctx, actor.UserId.String(), status, pg)
}
