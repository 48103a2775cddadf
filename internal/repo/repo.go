package repo

import (
	"context"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo/pgdb"
	"marketplace-api/pkg/postgres"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping() error
}

type User interface {
	CreateUser(ctx context.Context, user *entity.User) (uuid.UUID, error)
	GetUserById(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

type Company interface {
	CreateCompany(ctx context.Context, input *entity.CreateCompanyInput) (uuid.UUID, error)
	GetCompanyById(ctx context.Context, id string) (*entity.Company, error)
	GetCompanyByOwnerId(ctx context.Context, ownerId string) (*entity.Company, error)
	UpdateVerificationStatus(ctx context.Context, id string, status entity.VerificationStatus, notes string) error
	AddDocument(ctx context.Context, doc *entity.VerificationDocument) (uuid.UUID, error)
	GetCompaniesByVerificationStatus(ctx context.Context, status entity.VerificationStatus, pg *entity.PaginationInput) ([]entity.Company, error)
}

type Project interface {
	CreateProject(ctx context.Context, input *entity.CreateProjectInput) (uuid.UUID, error)
	GetProjectById(ctx context.Context, id string) (*entity.Project, error)
	UpdateProjectStatus(ctx context.Context, id string, newStatus entity.ProjectStatus) error
	IncrementBidCount(ctx context.Context, id string) error
	GetClientProjects(ctx context.Context, clientId string, pg *entity.PaginationInput) ([]entity.Project, error)
	GetOpenProjects(ctx context.Context, pg *entity.PaginationInput) ([]entity.Project, error)
}

type Bid interface {
	CreateBid(ctx context.Context, bid *entity.Bid) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)

	// UpdateBidTerms and TransitionBid are optimistic-concurrency writes:
	// they match on the version the bid was read at and fail with
	// repo_errors.ErrStaleVersion when the row moved on.
	UpdateBidTerms(ctx context.Context, bid *entity.Bid) error
	TransitionBid(ctx context.Context, bid *entity.Bid, change entity.StatusChange) error

	MarkViewed(ctx context.Context, bidId string, at time.Time) error
	SetShortlisted(ctx context.Context, bidId string, shortlisted bool, at time.Time) error

	AddNegotiation(ctx context.Context, entry *entity.NegotiationEntry) (uuid.UUID, error)
	AcceptNegotiation(ctx context.Context, bid *entity.Bid, entryId uuid.UUID, now time.Time) error
	UpdateNegotiationStatus(ctx context.Context, entryId uuid.UUID, status entity.NegotiationStatus, now time.Time) error

	UpdateMilestone(ctx context.Context, m *entity.Milestone) error

	GetBidsByProject(ctx context.Context, projectId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error)
	GetBidsByCompany(ctx context.Context, companyId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error)
	GetBidsByClient(ctx context.Context, clientId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error)

	ListExpirable(ctx context.Context, now time.Time, limit int) ([]entity.Bid, error)
}

type Notification interface {
	CreateNotification(ctx context.Context, n *entity.Notification) (uuid.UUID, error)
	GetUserNotifications(ctx context.Context, userId string, pg *entity.PaginationInput) ([]entity.Notification, error)
	MarkNotificationRead(ctx context.Context, id string, userId string) error
	DeleteNotificationsOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Repositories struct {
	Diagnostics
	User
	Company
	Project
	Bid
	Notification
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics:  pgdb.NewDiagnosticsRepo(p),
		User:         pgdb.NewUserRepo(p),
		Company:      pgdb.NewCompanyRepo(p),
		Project:      pgdb.NewProjectRepo(p),
		Bid:          pgdb.NewBidRepo(p),
		Notification: pgdb.NewNotificationRepo(p),
	}
}
