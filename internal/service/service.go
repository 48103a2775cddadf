package service

import (
	"context"
	"encoding/json"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Auth interface {
	Register(ctx context.Context, email, name, password string, role entity.Role) (*entity.UserOutputModel, error)
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (entity.Actor, error)
}

type Company interface {
	CreateCompany(ctx context.Context, actor entity.Actor, input *entity.CreateCompanyInput) (*entity.CompanyOutputModel, error)
	GetCompanyById(ctx context.Context, companyId string) (*entity.CompanyOutputModel, error)
	SubmitDocument(ctx context.Context, actor entity.Actor, companyId, kind, fileURL string) (*entity.CompanyOutputModel, error)

	StartVerificationReview(ctx context.Context, actor entity.Actor, companyId string) (*entity.CompanyOutputModel, error)
	DecideVerification(ctx context.Context, actor entity.Actor, companyId string, approve bool, notes string) (*entity.CompanyOutputModel, error)
	GetCompaniesAwaitingReview(ctx context.Context, actor entity.Actor, pg *entity.PaginationInput) ([]entity.CompanyOutputModel, error)
}

type Project interface {
	CreateProject(ctx context.Context, actor entity.Actor, input *entity.CreateProjectInput) (*entity.ProjectOutputModel, error)
	GetProjectById(ctx context.Context, projectId string) (*entity.ProjectOutputModel, error)
	PostProject(ctx context.Context, actor entity.Actor, projectId string) (*entity.ProjectOutputModel, error)
	CancelProject(ctx context.Context, actor entity.Actor, projectId string) (*entity.ProjectOutputModel, error)
	CompleteProject(ctx context.Context, actor entity.Actor, projectId string) (*entity.ProjectOutputModel, error)
	GetClientProjects(ctx context.Context, actor entity.Actor, pg *entity.PaginationInput) ([]entity.ProjectOutputModel, error)
	GetOpenProjects(ctx context.Context, pg *entity.PaginationInput) ([]entity.ProjectOutputModel, error)
}

type Bid interface {
	CreateBid(ctx context.Context, actor entity.Actor, input *entity.CreateBidInput) (*entity.BidOutputModel, error)
	GetBidById(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error)
	EditBidTerms(ctx context.Context, actor entity.Actor, bidId string, input *entity.UpdateBidInput) (*entity.BidOutputModel, error)

	SubmitBid(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error)
	WithdrawBid(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error)
	MarkUnderReview(ctx context.Context, actor entity.Actor, bidId string) (*entity.BidOutputModel, error)
	AcceptBid(ctx context.Context, actor entity.Actor, bidId string, notes string) (*entity.BidOutputModel, error)
	RejectBid(ctx context.Context, actor entity.Actor, bidId string, notes string) (*entity.BidOutputModel, error)
	ShortlistBid(ctx context.Context, actor entity.Actor, bidId string, shortlisted bool) (*entity.BidOutputModel, error)

	ProposeNegotiation(ctx context.Context, actor entity.Actor, bidId string, field entity.NegotiationField, newValue json.RawMessage, notes string) (*entity.BidOutputModel, error)
	AcceptNegotiation(ctx context.Context, actor entity.Actor, bidId, entryId string) (*entity.BidOutputModel, error)
	RejectNegotiation(ctx context.Context, actor entity.Actor, bidId, entryId string) (*entity.BidOutputModel, error)
	CounterNegotiation(ctx context.Context, actor entity.Actor, bidId, entryId string, newValue json.RawMessage, notes string) (*entity.BidOutputModel, error)

	StartMilestone(ctx context.Context, actor entity.Actor, bidId, milestoneId string) (*entity.BidOutputModel, error)
	CompleteMilestone(ctx context.Context, actor entity.Actor, bidId, milestoneId string, proof []string) (*entity.BidOutputModel, error)
	ApproveMilestone(ctx context.Context, actor entity.Actor, bidId, milestoneId string, comments string) (*entity.BidOutputModel, error)
	MarkMilestonePaid(ctx context.Context, actor entity.Actor, bidId, milestoneId string) (*entity.BidOutputModel, error)

	GetBidsForProject(ctx context.Context, actor entity.Actor, projectId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error)
	GetCompanyBids(ctx context.Context, actor entity.Actor, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error)
	GetClientBids(ctx context.Context, actor entity.Actor, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error)
}

type Notification interface {
	GetUserNotifications(ctx context.Context, actor entity.Actor, lang string, pg *entity.PaginationInput) ([]entity.NotificationOutputModel, error)
	MarkRead(ctx context.Context, actor entity.Actor, notificationId string) error
}

type Services struct {
	Diagnostics  Diagnostics
	Auth         Auth
	Company      Company
	Project      Project
	Bid          Bid
	Notification Notification
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
}

func NewServices(repos *repo.Repositories, authCfg AuthConfig) *Services {
	notifier := NewNotifier(repos)

	return &Services{
		Diagnostics:  NewDiagnosticsService(repos),
		Auth:         NewAuthService(repos, authCfg),
		Company:      NewCompanyService(repos, notifier),
		Project:      NewProjectService(repos),
		Bid:          NewBidService(repos, notifier),
		Notification: NewNotificationService(repos),
	}
}
