package service

import (
	"time"

	"marketplace-api/internal/entity"
)

func mapBid(b *entity.Bid, companyRating float64, now time.Time) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:             b.Id.String(),
		ProjectId:      b.ProjectId.String(),
		CompanyId:      b.CompanyId.String(),
		Amount:         b.Amount,
		Currency:       b.Currency,
		TaxPercentage:  b.TaxPercentage,
		TotalAmount:    b.TotalAmount,
		Proposal:       b.Proposal,
		Deliverables:   b.Deliverables,
		TeamStructure:  b.TeamStructure,
		TechStack:      b.TechStack,
		Assumptions:    b.Assumptions,
		Risks:          b.Risks,
		Attachments:    b.Attachments,
		Timeline:       b.Timeline,
		TimelineInDays: b.TimelineInDays,
		Status:         string(b.Status),
		StatusHistory:  b.StatusHistory,
		Milestones:     b.Milestones,
		Negotiations:   b.Negotiations,
		ExpiresAt:      b.ExpiresAt,
		AutoWithdrawAt: b.AutoWithdrawAt,
		IsInvited:      b.IsInvited,
		Shortlisted:    b.Shortlisted,
		Expired:        b.IsExpired(now),
		Score:          entity.CalculateScore(b.SnapshotForScore(companyRating)),
		RevisionCount:  b.RevisionCount,
		Version:        b.Version,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}

func mapProject(p *entity.Project) *entity.ProjectOutputModel {
	return &entity.ProjectOutputModel{
		Id:           p.Id.String(),
		ClientId:     p.ClientId.String(),
		Title:        p.Title,
		Description:  p.Description,
		BudgetMin:    p.BudgetMin,
		BudgetMax:    p.BudgetMax,
		Currency:     p.Currency,
		TimelineDays: p.TimelineDays,
		Attachments:  p.Attachments,
		Status:       string(p.Status),
		BidCount:     p.BidCount,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

func mapProjects(projects []entity.Project) []entity.ProjectOutputModel {
	s := make([]entity.ProjectOutputModel, 0)
	for _, p := range projects {
		s = append(s, *mapProject(&p))
	}

	return s
}

func mapCompany(c *entity.Company) *entity.CompanyOutputModel {
	return &entity.CompanyOutputModel{
		Id:                 c.Id.String(),
		OwnerId:            c.OwnerId.String(),
		Name:               c.Name,
		Description:        c.Description,
		Website:            c.Website,
		RatingAverage:      c.RatingAverage,
		RatingCount:        c.RatingCount,
		VerificationStatus: string(c.VerificationState),
		VerificationNotes:  c.VerificationNotes,
		Documents:          c.Documents,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
	}
}

func mapCompanies(companies []entity.Company) []entity.CompanyOutputModel {
	s := make([]entity.CompanyOutputModel, 0)
	for _, c := range companies {
		s = append(s, *mapCompany(&c))
	}

	return s
}

func mapUser(u *entity.User) *entity.UserOutputModel {
	return &entity.UserOutputModel{
		Id:        u.Id.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func mapNotification(n *entity.Notification) *entity.NotificationOutputModel {
	return &entity.NotificationOutputModel{
		Id:        n.Id.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Body:      n.Body,
		RelatedId: n.RelatedId.String(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}

func mapNotifications(notifications []entity.Notification) []entity.NotificationOutputModel {
	s := make([]entity.NotificationOutputModel, 0)
	for _, n := range notifications {
		s = append(s, *mapNotification(&n))
	}

	return s
}
