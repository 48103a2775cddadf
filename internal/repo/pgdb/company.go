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
)

type CompanyRepo struct {
	*postgres.Postgres
}

func NewCompanyRepo(pgdb *postgres.Postgres) *CompanyRepo {
	return &CompanyRepo{pgdb}
}

var companyColumns = []string{
	"id", "owner_id", "name", "description", "website",
	"rating_average", "rating_count", "verification_status", "verification_notes",
	"created_at", "updated_at",
}

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(&c.Id, &c.OwnerId, &c.Name, &c.Description, &c.Website,
		&c.RatingAverage, &c.RatingCount, &c.VerificationState, &c.VerificationNotes,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *CompanyRepo) CreateCompany(ctx context.Context, input *entity.CreateCompanyInput) (uuid.UUID, error) {
	ownerId, err := uuid.Parse(input.OwnerId)
	if err != nil {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	createReq, args, _ := r.SqlBuilder.
		Insert("company").
		Columns("owner_id", "name", "description", "website", "verification_status").
		Values(ownerId, input.Name, input.Description, input.Website, entity.VerificationPending).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, createReq, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *CompanyRepo) getCompany(ctx context.Context, where string, arg interface{}) (*entity.Company, error) {
	getReq, args, _ := r.SqlBuilder.
		Select(companyColumns...).
		From("company").
		Where(where, arg).
		ToSql()

	company, err := scanCompany(r.Database.QueryRowContext(ctx, getReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if company.Documents, err = r.getDocuments(ctx, company.Id); err != nil {
		return nil, err
	}

	return company, nil
}

func (r *CompanyRepo) getDocuments(ctx context.Context, companyId uuid.UUID) ([]entity.VerificationDocument, error) {
	getReq, args, _ := r.SqlBuilder.
		Select("id", "company_id", "kind", "file_url", "uploaded_at").
		From("company_document").
		Where("company_id = ?", companyId).
		OrderBy("uploaded_at ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]entity.VerificationDocument, 0)
	for rows.Next() {
		var d entity.VerificationDocument
		if err := rows.Scan(&d.Id, &d.CompanyId, &d.Kind, &d.FileURL, &d.UploadedAt); err != nil {
			return docs, err
		}
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

func (r *CompanyRepo) GetCompanyById(ctx context.Context, id string) (*entity.Company, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.getCompany(ctx, "id = ?", uuidForm)
}

func (r *CompanyRepo) GetCompanyByOwnerId(ctx context.Context, ownerId string) (*entity.Company, error) {
	uuidForm, err := uuid.Parse(ownerId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.getCompany(ctx, "owner_id = ?", uuidForm)
}

func (r *CompanyRepo) UpdateVerificationStatus(ctx context.Context, id string, status entity.VerificationStatus, notes string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("company").
		Set("verification_status", status).
		Set("verification_notes", notes).
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

func (r *CompanyRepo) AddDocument(ctx context.Context, doc *entity.VerificationDocument) (uuid.UUID, error) {
	addReq, args, _ := r.SqlBuilder.
		Insert("company_document").
		Columns("company_id", "kind", "file_url").
		Values(doc.CompanyId, doc.Kind, doc.FileURL).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, addReq, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *CompanyRepo) GetCompaniesByVerificationStatus(ctx context.Context, status entity.VerificationStatus, pg *entity.PaginationInput) ([]entity.Company, error) {
	listReq, args, _ := r.SqlBuilder.
		Select(companyColumns...).
		From("company").
		Where("verification_status = ?", status).
		OrderBy("created_at ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]entity.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return companies, err
		}
		companies = append(companies, *company)
	}

	return companies, rows.Err()
}
