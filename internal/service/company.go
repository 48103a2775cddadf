package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo"
	"marketplace-api/internal/repo/repo_errors"
)

type CompanyService struct {
	companyRepo repo.Company
	notifier    *Notifier
}

func NewCompanyService(repos *repo.Repositories, notifier *Notifier) *CompanyService {
	return &CompanyService{
		companyRepo: repos.Company,
		notifier:    notifier,
	}
}

func (s *CompanyService) CreateCompany(ctx context.Context, actor entity.Actor, input *entity.CreateCompanyInput) (*entity.CompanyOutputModel, error) {
	if actor.Role != entity.RoleCompany {
		return nil, ErrInvalidRole
	}

	input.OwnerId = actor.UserId.String()
	id, err := s.companyRepo.CreateCompany(ctx, input)
	if err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrNoAccessToCompany
		}

		return nil, err
	}

	created, err := s.companyRepo.GetCompanyById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapCompany(created), nil
}

func (s *CompanyService) GetCompanyById(ctx context.Context, companyId string) (*entity.CompanyOutputModel, error) {
	company, err := s.companyRepo.GetCompanyById(ctx, companyId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	return mapCompany(company), nil
}

func (s *CompanyService) SubmitDocument(ctx context.Context, actor entity.Actor, companyId, kind, fileURL string) (*entity.CompanyOutputModel, error) {
	company, err := s.companyRepo.GetCompanyById(ctx, companyId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	if company.OwnerId != actor.UserId && actor.Role != entity.RoleAdmin {
		return nil, ErrNoAccessToCompany
	}

	doc := &entity.VerificationDocument{
		CompanyId: company.Id,
		Kind:      kind,
		FileURL:   fileURL,
	}

	if _, err := s.companyRepo.AddDocument(ctx, doc); err != nil {
		return nil, err
	}

	// A rejected company resubmitting evidence goes back to the review queue.
	if company.VerificationState == entity.VerificationRejected {
		err = s.companyRepo.UpdateVerificationStatus(ctx, companyId, entity.VerificationPending, "")
		if err != nil {
			return nil, err
		}
	}

	updated, err := s.companyRepo.GetCompanyById(ctx, companyId)
	if err != nil {
		return nil, err
	}

	return mapCompany(updated), nil
}

func (s *CompanyService) StartVerificationReview(ctx context.Context, actor entity.Actor, companyId string) (*entity.CompanyOutputModel, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, ErrInvalidRole
	}

	return s.moveVerification(ctx, companyId, entity.VerificationUnderReview, "")
}

func (s *CompanyService) DecideVerification(ctx context.Context, actor entity.Actor, companyId string, approve bool, notes string) (*entity.CompanyOutputModel, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, ErrInvalidRole
	}

	target := entity.VerificationRejected
	if approve {
		target = entity.VerificationApproved
	} else if notes == "" {
		// the owner needs to know what to fix before resubmitting
		return nil, ErrNotesRequired
	}

	out, err := s.moveVerification(ctx, companyId, target, notes)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.GetCompanyById(ctx, companyId)
	if err != nil {
		return nil, err
	}

	titleKey := "verification.rejected"
	if approve {
		titleKey = "verification.approved"
	}
	s.notifier.Notify(ctx, company.OwnerId, entity.NotifyVerificationDecision,
		titleKey,
		fmt.Sprintf("Company %q is now %s", company.Name, company.VerificationState),
		company.Id)

	return out, nil
}

func (s *CompanyService) moveVerification(ctx context.Context, companyId string, to entity.VerificationStatus, notes string) (*entity.CompanyOutputModel, error) {
	company, err := s.companyRepo.GetCompanyById(ctx, companyId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}

		return nil, err
	}

	if !entity.CanTransitionVerification(company.VerificationState, to) {
		return nil, ErrVerificationTransition
	}

	if err := s.companyRepo.UpdateVerificationStatus(ctx, companyId, to, notes); err != nil {
		return nil, err
	}

	updated, err := s.companyRepo.GetCompanyById(ctx, companyId)
	if err != nil {
		return nil, err
	}

	return mapCompany(updated), nil
}

func (s *CompanyService) GetCompaniesAwaitingReview(ctx context.Context, actor entity.Actor, pg *entity.PaginationInput) ([]entity.CompanyOutputModel, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, ErrInvalidRole
	}

	companies, err := s.companyRepo.GetCompaniesByVerificationStatus(ctx, entity.VerificationPending, pg)
	if err != nil {
		return nil, err
	}

	return mapCompanies(companies), nil
}
