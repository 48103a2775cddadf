package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo/repo_errors"
	"marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProjectRepo struct {
	*postgres.Postgres
}

func NewProjectRepo(pgdb *postgres.Postgres) *ProjectRepo {
	return &ProjectRepo{pgdb}
}

var projectColumns = []string{
	"id", "client_id", "title", "description", "budget_min", "budget_max",
	"currency", "timeline_days", "attachments", "status", "bid_count",
	"created_at", "updated_at",
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.Id, &p.ClientId, &p.Title, &p.Description, &p.BudgetMin, &p.BudgetMax,
		&p.Currency, &p.TimelineDays, pq.Array(&p.Attachments), &p.Status, &p.BidCount,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *ProjectRepo) CreateProject(ctx context.Context, input *entity.CreateProjectInput) (uuid.UUID, error) {
	clientId, err := uuid.Parse(input.ClientId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	createReq, args, _ := r.SqlBuilder.
		Insert("project").
		Columns("client_id", "title", "description", "budget_min", "budget_max",
			"currency", "timeline_days", "attachments", "status").
		Values(clientId, input.Title, input.Description, input.BudgetMin, input.BudgetMax,
			input.Currency, input.TimelineDays, pq.Array(input.Attachments), entity.ProjectDraft).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createReq, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *ProjectRepo) GetProjectById(ctx context.Context, id string) (*entity.Project, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getReq, args, _ := r.SqlBuilder.
		Select(projectColumns...).
		From("project").
		Where("id = ?", uuidForm).
		ToSql()

	project, err := scanProject(r.Database.QueryRowContext(ctx, getReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return project, nil
}

func (r *ProjectRepo) UpdateProjectStatus(ctx context.Context, id string, newStatus entity.ProjectStatus) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("project").
		Set("status", newStatus).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		ToSql()

	res, err := r.Database.ExecContext(ctx, updateReq, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *ProjectRepo) IncrementBidCount(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("project").
		Set("bid_count", squirrel.Expr("bid_count + 1")).
		Where("id = ?", uuidForm).
		ToSql()

	_, err = r.Database.ExecContext(ctx, updateReq, args...)

	return err
}

func (r *ProjectRepo) listProjects(ctx context.Context, query squirrel.SelectBuilder) ([]entity.Project, error) {
	listReq, args, _ := query.ToSql()

	rows, err := r.Database.QueryContext(ctx, listReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]entity.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return projects, err
		}
		projects = append(projects, *project)
	}

	return projects, rows.Err()
}

func (r *ProjectRepo) GetClientProjects(ctx context.Context, clientId string, pg *entity.PaginationInput) ([]entity.Project, error) {
	uuidForm, err := uuid.Parse(clientId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.listProjects(ctx, r.SqlBuilder.
		Select(projectColumns...).
		From("project").
		Where("client_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)))
}

func (r *ProjectRepo) GetOpenProjects(ctx context.Context, pg *entity.PaginationInput) ([]entity.Project, error) {
	return r.listProjects(ctx, r.SqlBuilder.
		Select(projectColumns...).
		From("project").
		Where(squirrel.Eq{"status": []entity.ProjectStatus{entity.ProjectPosted, entity.ProjectBidding}}).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)))
}
