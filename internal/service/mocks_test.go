package service

import (
	"context"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo"
	"marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

// in-memory stand-ins for the pgdb repositories

type stubUserRepo struct {
	users map[string]*entity.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*entity.User)}
}

func (r *stubUserRepo) CreateUser(_ context.Context, user *entity.User) (uuid.UUID, error) {
	if _, ok := r.users[user.Email]; ok {
		return uuid.Nil, repo_errors.ErrAlreadyExists
	}

	u := *user
	u.Id = uuid.New()
	u.CreatedAt = time.Now()
	r.users[u.Email] = &u

	return u.Id, nil
}

func (r *stubUserRepo) GetUserById(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Id.String() == id {
			copied := *u
			return &copied, nil
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *stubUserRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	copied := *u
	return &copied, nil
}

type stubCompanyRepo struct {
	company       *entity.Company
	statusUpdates []entity.VerificationStatus
}

func (r *stubCompanyRepo) CreateCompany(_ context.Context, input *entity.CreateCompanyInput) (uuid.UUID, error) {
	owner, _ := uuid.Parse(input.OwnerId)
	r.company = &entity.Company{
		Id:                uuid.New(),
		OwnerId:           owner,
		Name:              input.Name,
		Description:       input.Description,
		Website:           input.Website,
		VerificationState: entity.VerificationPending,
		CreatedAt:         time.Now(),
	}

	return r.company.Id, nil
}

func (r *stubCompanyRepo) GetCompanyById(_ context.Context, id string) (*entity.Company, error) {
	if r.company == nil || r.company.Id.String() != id {
		return nil, repo_errors.ErrNotFound
	}

	copied := *r.company
	return &copied, nil
}

func (r *stubCompanyRepo) GetCompanyByOwnerId(_ context.Context, ownerId string) (*entity.Company, error) {
	if r.company == nil || r.company.OwnerId.String() != ownerId {
		return nil, repo_errors.ErrNotFound
	}

	copied := *r.company
	return &copied, nil
}

func (r *stubCompanyRepo) UpdateVerificationStatus(_ context.Context, id string, status entity.VerificationStatus, notes string) error {
	if r.company == nil || r.company.Id.String() != id {
		return repo_errors.ErrNotFound
	}

	r.company.VerificationState = status
	r.company.VerificationNotes = notes
	r.statusUpdates = append(r.statusUpdates, status)

	return nil
}

func (r *stubCompanyRepo) AddDocument(_ context.Context, doc *entity.VerificationDocument) (uuid.UUID, error) {
	d := *doc
	d.Id = uuid.New()
	d.UploadedAt = time.Now()
	r.company.Documents = append(r.company.Documents, d)

	return d.Id, nil
}

func (r *stubCompanyRepo) GetCompaniesByVerificationStatus(_ context.Context, status entity.VerificationStatus, _ *entity.PaginationInput) ([]entity.Company, error) {
	if r.company != nil && r.company.VerificationState == status {
		return []entity.Company{*r.company}, nil
	}

	return []entity.Company{}, nil
}

type stubProjectRepo struct {
	project       *entity.Project
	statusUpdates []entity.ProjectStatus
}

func (r *stubProjectRepo) CreateProject(_ context.Context, input *entity.CreateProjectInput) (uuid.UUID, error) {
	clientId, _ := uuid.Parse(input.ClientId)
	r.project = &entity.Project{
		Id:           uuid.New(),
		ClientId:     clientId,
		Title:        input.Title,
		Description:  input.Description,
		BudgetMin:    input.BudgetMin,
		BudgetMax:    input.BudgetMax,
		Currency:     input.Currency,
		TimelineDays: input.TimelineDays,
		Attachments:  input.Attachments,
		Status:       entity.ProjectDraft,
		CreatedAt:    time.Now(),
	}

	return r.project.Id, nil
}

func (r *stubProjectRepo) GetProjectById(_ context.Context, id string) (*entity.Project, error) {
	if r.project == nil || r.project.Id.String() != id {
		return nil, repo_errors.ErrNotFound
	}

	copied := *r.project
	return &copied, nil
}

func (r *stubProjectRepo) UpdateProjectStatus(_ context.Context, id string, newStatus entity.ProjectStatus) error {
	if r.project == nil || r.project.Id.String() != id {
		return repo_errors.ErrNotFound
	}

	r.project.Status = newStatus
	r.statusUpdates = append(r.statusUpdates, newStatus)

	return nil
}

func (r *stubProjectRepo) IncrementBidCount(_ context.Context, id string) error {
	if r.project == nil || r.project.Id.String() != id {
		return repo_errors.ErrNotFound
	}

	r.project.BidCount++

	return nil
}

func (r *stubProjectRepo) GetClientProjects(_ context.Context, clientId string, _ *entity.PaginationInput) ([]entity.Project, error) {
	if r.project != nil && r.project.ClientId.String() == clientId {
		return []entity.Project{*r.project}, nil
	}

	return []entity.Project{}, nil
}

func (r *stubProjectRepo) GetOpenProjects(_ context.Context, _ *entity.PaginationInput) ([]entity.Project, error) {
	if r.project != nil &&
		(r.project.Status == entity.ProjectPosted || r.project.Status == entity.ProjectBidding) {
		return []entity.Project{*r.project}, nil
	}

	return []entity.Project{}, nil
}

type stubBidRepo struct {
	bid           *entity.Bid
	history       []entity.StatusChange
	expirable     []entity.Bid
	createErr     error
	transitionErr error
}

func (r *stubBidRepo) CreateBid(_ context.Context, bid *entity.Bid) (uuid.UUID, error) {
	if r.createErr != nil {
		return uuid.Nil, r.createErr
	}

	stored := *bid
	stored.Id = uuid.New()
	stored.Version = 1
	for i := range stored.Milestones {
		stored.Milestones[i].Id = uuid.New()
		stored.Milestones[i].BidId = stored.Id
		stored.Milestones[i].Position = i
	}
	r.bid = &stored
	r.history = append(r.history, entity.StatusChange{
		Status: stored.Status, ChangedAt: stored.CreatedAt, ChangedBy: stored.CreatedBy, Notes: "bid created",
	})

	return stored.Id, nil
}

func (r *stubBidRepo) GetBidById(_ context.Context, id string) (*entity.Bid, error) {
	if r.bid == nil || r.bid.Id.String() != id {
		return nil, repo_errors.ErrNotFound
	}

	copied := *r.bid
	copied.StatusHistory = append([]entity.StatusChange(nil), r.history...)
	copied.Milestones = append([]entity.Milestone(nil), r.bid.Milestones...)
	copied.Negotiations = append([]entity.NegotiationEntry(nil), r.bid.Negotiations...)

	return &copied, nil
}

func (r *stubBidRepo) UpdateBidTerms(_ context.Context, bid *entity.Bid) error {
	if r.bid == nil || r.bid.Version != bid.Version {
		return repo_errors.ErrStaleVersion
	}

	updated := *bid
	updated.Version++
	updated.RevisionCount++
	updated.Milestones = r.bid.Milestones
	updated.Negotiations = r.bid.Negotiations
	r.bid = &updated

	return nil
}

func (r *stubBidRepo) TransitionBid(_ context.Context, bid *entity.Bid, change entity.StatusChange) error {
	if r.transitionErr != nil {
		return r.transitionErr
	}
	if r.bid == nil || r.bid.Version != bid.Version {
		return repo_errors.ErrStaleVersion
	}

	r.bid.Status = change.Status
	r.bid.ExpiresAt = bid.ExpiresAt
	r.bid.AutoWithdrawAt = bid.AutoWithdrawAt
	r.bid.Version++
	r.history = append(r.history, change)

	return nil
}

func (r *stubBidRepo) MarkViewed(_ context.Context, bidId string, at time.Time) error {
	if r.bid == nil || r.bid.Id.String() != bidId {
		return repo_errors.ErrNotFound
	}

	r.bid.ViewedByClient = true
	r.bid.ViewedAt = &at

	return nil
}

func (r *stubBidRepo) SetShortlisted(_ context.Context, bidId string, shortlisted bool, at time.Time) error {
	if r.bid == nil || r.bid.Id.String() != bidId {
		return repo_errors.ErrNotFound
	}

	r.bid.Shortlisted = shortlisted
	if shortlisted {
		r.bid.ShortlistedAt = &at
	} else {
		r.bid.ShortlistedAt = nil
	}

	return nil
}

func (r *stubBidRepo) AddNegotiation(_ context.Context, entry *entity.NegotiationEntry) (uuid.UUID, error) {
	stored := *entry
	stored.Id = uuid.New()
	stored.CreatedAt = time.Now()
	r.bid.Negotiations = append(r.bid.Negotiations, stored)

	return stored.Id, nil
}

func (r *stubBidRepo) AcceptNegotiation(_ context.Context, bid *entity.Bid, entryId uuid.UUID, now time.Time) error {
	if r.bid == nil || r.bid.Version != bid.Version {
		return repo_errors.ErrStaleVersion
	}

	negotiations := r.bid.Negotiations
	updated := *bid
	updated.Version++
	updated.RevisionCount++
	updated.Negotiations = negotiations
	r.bid = &updated

	var field entity.NegotiationField
	for i := range r.bid.Negotiations {
		if r.bid.Negotiations[i].Id == entryId {
			field = r.bid.Negotiations[i].Field
			r.bid.Negotiations[i].Status = entity.NegotiationAccepted
			r.bid.Negotiations[i].FinalAccepted = true
			r.bid.Negotiations[i].ResolvedAt = &now
		}
	}
	for i := range r.bid.Negotiations {
		e := &r.bid.Negotiations[i]
		if e.Id != entryId && e.Field == field && e.Status == entity.NegotiationPending {
			e.Status = entity.NegotiationRejected
			e.ResolvedAt = &now
		}
	}

	return nil
}

func (r *stubBidRepo) UpdateNegotiationStatus(_ context.Context, entryId uuid.UUID, status entity.NegotiationStatus, now time.Time) error {
	for i := range r.bid.Negotiations {
		e := &r.bid.Negotiations[i]
		if e.Id == entryId && e.Status == entity.NegotiationPending {
			e.Status = status
			e.ResolvedAt = &now
			return nil
		}
	}

	return repo_errors.ErrNotFound
}

func (r *stubBidRepo) UpdateMilestone(_ context.Context, m *entity.Milestone) error {
	for i := range r.bid.Milestones {
		if r.bid.Milestones[i].Id == m.Id {
			r.bid.Milestones[i] = *m
			return nil
		}
	}

	return repo_errors.ErrNotFound
}

func (r *stubBidRepo) GetBidsByProject(_ context.Context, _ string, _ entity.BidStatus, _ *entity.PaginationInput) ([]entity.BidListItem, error) {
	return []entity.BidListItem{}, nil
}

func (r *stubBidRepo) GetBidsByCompany(_ context.Context, _ string, _ entity.BidStatus, _ *entity.PaginationInput) ([]entity.BidListItem, error) {
	return []entity.BidListItem{}, nil
}

func (r *stubBidRepo) GetBidsByClient(_ context.Context, _ string, _ entity.BidStatus, _ *entity.PaginationInput) ([]entity.BidListItem, error) {
	return []entity.BidListItem{}, nil
}

func (r *stubBidRepo) ListExpirable(_ context.Context, _ time.Time, _ int) ([]entity.Bid, error) {
	return r.expirable, nil
}

type stubNotificationRepo struct {
	created []entity.Notification
	cutoff  time.Time
}

func (r *stubNotificationRepo) CreateNotification(_ context.Context, n *entity.Notification) (uuid.UUID, error) {
	stored := *n
	stored.Id = uuid.New()
	stored.CreatedAt = time.Now()
	r.created = append(r.created, stored)

	return stored.Id, nil
}

func (r *stubNotificationRepo) GetUserNotifications(_ context.Context, userId string, _ *entity.PaginationInput) ([]entity.Notification, error) {
	out := make([]entity.Notification, 0)
	for _, n := range r.created {
		if n.UserId.String() == userId {
			out = append(out, n)
		}
	}

	return out, nil
}

func (r *stubNotificationRepo) MarkNotificationRead(_ context.Context, id string, userId string) error {
	for i := range r.created {
		if r.created[i].Id.String() == id && r.created[i].UserId.String() == userId {
			r.created[i].Read = true
			return nil
		}
	}

	return repo_errors.ErrNotFound
}

func (r *stubNotificationRepo) DeleteNotificationsOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return 0, nil
}

type stubDiagnostics struct{}

func (stubDiagnostics) Ping() error { return nil }

// testEnv wires stub repositories into real services around one client, one
// verified company and one posted project.
type testEnv struct {
	repos     *repo.Repositories
	bids      *stubBidRepo
	projects  *stubProjectRepo
	companies *stubCompanyRepo
	notes     *stubNotificationRepo

	client  entity.Actor
	owner   entity.Actor
	service *BidService
}

func newTestEnv() *testEnv {
	clientId := uuid.New()
	ownerId := uuid.New()

	companies := &stubCompanyRepo{company: &entity.Company{
		Id:                uuid.New(),
		OwnerId:           ownerId,
		Name:              "Systems Ltd",
		RatingAverage:     4.0,
		VerificationState: entity.VerificationApproved,
	}}
	projects := &stubProjectRepo{project: &entity.Project{
		Id:       uuid.New(),
		ClientId: clientId,
		Title:    "Mobile banking app",
		Status:   entity.ProjectPosted,
		Currency: "PKR",
	}}
	bids := &stubBidRepo{}
	notes := &stubNotificationRepo{}

	repos := &repo.Repositories{
		Diagnostics:  stubDiagnostics{},
		User:         newStubUserRepo(),
		Company:      companies,
		Project:      projects,
		Bid:          bids,
		Notification: notes,
	}

	return &testEnv{
		repos:     repos,
		bids:      bids,
		projects:  projects,
		companies: companies,
		notes:     notes,
		client:    entity.Actor{UserId: clientId, Role: entity.RoleClient},
		owner:     entity.Actor{UserId: ownerId, Role: entity.RoleCompany},
		service:   NewBidService(repos, NewNotifier(repos)),
	}
}

func (e *testEnv) createInput() *entity.CreateBidInput {
	proposal := make([]byte, 300)
	for i := range proposal {
		proposal[i] = 'a'
	}

	return &entity.CreateBidInput{
		ProjectId:     e.projects.project.Id.String(),
		CompanyId:     e.companies.company.Id.String(),
		Amount:        500000,
		TaxPercentage: 16,
		Proposal:      string(proposal),
		Timeline:      entity.Timeline{Value: 6, Unit: entity.UnitWeeks},
		Milestones: []entity.MilestoneInput{
			{Title: "Design", Amount: 100000},
			{Title: "Build", Amount: 300000},
			{Title: "Launch", Amount: 100000},
		},
	}
}
