package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo/repo_errors"
	"marketplace-api/pkg/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

var bidColumns = []string{
	"bid.id", "bid.project_id", "bid.company_id", "bid.client_id",
	"bid.amount", "bid.currency", "bid.tax_percentage", "bid.total_amount",
	"bid.proposal", "bid.team_structure", "bid.deliverables", "bid.tech_stack",
	"bid.assumptions", "bid.attachments", "bid.risks",
	"bid.timeline_value", "bid.timeline_unit", "bid.timeline_start", "bid.timeline_end", "bid.timeline_in_days",
	"bid.status", "bid.expires_at", "bid.auto_withdraw_at",
	"bid.is_invited", "bid.viewed_by_client", "bid.viewed_at", "bid.shortlisted", "bid.shortlisted_at",
	"bid.revision_count", "bid.last_revised_at",
	"bid.created_by", "bid.version", "bid.created_at", "bid.updated_at",
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	var risks []byte

	err := row.Scan(
		&bid.Id, &bid.ProjectId, &bid.CompanyId, &bid.ClientId,
		&bid.Amount, &bid.Currency, &bid.TaxPercentage, &bid.TotalAmount,
		&bid.Proposal, &bid.TeamStructure,
		pq.Array(&bid.Deliverables), pq.Array(&bid.TechStack),
		pq.Array(&bid.Assumptions), pq.Array(&bid.Attachments), &risks,
		&bid.Timeline.Value, &bid.Timeline.Unit, &bid.Timeline.StartDate, &bid.Timeline.EndDate, &bid.TimelineInDays,
		&bid.Status, &bid.ExpiresAt, &bid.AutoWithdrawAt,
		&bid.IsInvited, &bid.ViewedByClient, &bid.ViewedAt, &bid.Shortlisted, &bid.ShortlistedAt,
		&bid.RevisionCount, &bid.LastRevisedAt,
		&bid.CreatedBy, &bid.Version, &bid.CreatedAt, &bid.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(risks) > 0 {
		if err := json.Unmarshal(risks, &bid.Risks); err != nil {
			return nil, err
		}
	}

	return &bid, nil
}

func (r *BidRepo) CreateBid(ctx context.Context, bid *entity.Bid) (uuid.UUID, error) {
	risks, err := json.Marshal(bid.Risks)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	createBidReq, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("project_id", "company_id", "client_id",
			"amount", "currency", "tax_percentage", "total_amount",
			"proposal", "team_structure", "deliverables", "tech_stack", "assumptions", "attachments", "risks",
			"timeline_value", "timeline_unit", "timeline_start", "timeline_end", "timeline_in_days",
			"status", "is_invited", "created_by", "version").
		Values(bid.ProjectId, bid.CompanyId, bid.ClientId,
			bid.Amount, bid.Currency, bid.TaxPercentage, bid.TotalAmount,
			bid.Proposal, bid.TeamStructure,
			pq.Array(bid.Deliverables), pq.Array(bid.TechStack),
			pq.Array(bid.Assumptions), pq.Array(bid.Attachments), risks,
			bid.Timeline.Value, bid.Timeline.Unit, bid.Timeline.StartDate, bid.Timeline.EndDate, bid.TimelineInDays,
			bid.Status, bid.IsInvited, bid.CreatedBy, 1).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var bidId uuid.UUID
	err = tx.QueryRow(createBidReq, args...).Scan(&bidId)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return uuid.Nil, repo_errors.ErrAlreadyExists
		}

		return uuid.Nil, err
	}

	for i, m := range bid.Milestones {
		createMilestoneReq, args, _ := r.SqlBuilder.
			Insert("bid_milestone").
			Columns("bid_id", "position", "title", "amount", "due_date", "status", "completion_proof").
			Values(bidId, i, m.Title, m.Amount, m.DueDate, entity.MilestonePending, pq.Array([]string{})).
			RunWith(tx).
			ToSql()

		if _, err = tx.Exec(createMilestoneReq, args...); err != nil {
			if e := tx.Rollback(); e != nil {
				return uuid.Nil, e
			}

			return uuid.Nil, err
		}
	}

	createHistoryReq, args, _ := r.SqlBuilder.
		Insert("bid_status_history").
		Columns("bid_id", "status", "changed_at", "changed_by", "notes").
		Values(bidId, bid.Status, bid.CreatedAt, bid.CreatedBy, "bid created").
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(createHistoryReq, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	getBidReq, args, _ := r.SqlBuilder.
		Select(bidColumns...).
		From("bid").
		Where("bid.id = ?", uuidForm).
		ToSql()

	bid, err := scanBid(r.Database.QueryRowContext(ctx, getBidReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if bid.Milestones, err = r.getMilestones(ctx, uuidForm); err != nil {
		return nil, err
	}

	if bid.Negotiations, err = r.getNegotiations(ctx, uuidForm); err != nil {
		return nil, err
	}

	if bid.StatusHistory, err = r.getStatusHistory(ctx, uuidForm); err != nil {
		return nil, err
	}

	return bid, nil
}

func (r *BidRepo) getMilestones(ctx context.Context, bidId uuid.UUID) ([]entity.Milestone, error) {
	getReq, args, _ := r.SqlBuilder.
		Select("id", "bid_id", "position", "title", "amount", "due_date", "status", "completion_proof",
			"client_approved", "approved_at", "approval_comments", "started_at", "completed_at", "paid_at").
		From("bid_milestone").
		Where("bid_id = ?", bidId).
		OrderBy("position ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	milestones := make([]entity.Milestone, 0)
	for rows.Next() {
		var m entity.Milestone
		if err := rows.Scan(&m.Id, &m.BidId, &m.Position, &m.Title, &m.Amount, &m.DueDate, &m.Status,
			pq.Array(&m.CompletionProof), &m.ClientApproved, &m.ApprovedAt, &m.ApprovalComments,
			&m.StartedAt, &m.CompletedAt, &m.PaidAt); err != nil {
			return milestones, err
		}
		milestones = append(milestones, m)
	}

	return milestones, rows.Err()
}

func (r *BidRepo) getNegotiations(ctx context.Context, bidId uuid.UUID) ([]entity.NegotiationEntry, error) {
	getReq, args, _ := r.SqlBuilder.
		Select("id", "bid_id", "field", "old_value", "new_value", "proposed_by",
			"status", "final_accepted", "notes", "created_at", "resolved_at").
		From("bid_negotiation").
		Where("bid_id = ?", bidId).
		OrderBy("created_at ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]entity.NegotiationEntry, 0)
	for rows.Next() {
		var n entity.NegotiationEntry
		if err := rows.Scan(&n.Id, &n.BidId, &n.Field, &n.OldValue, &n.NewValue, &n.ProposedBy,
			&n.Status, &n.FinalAccepted, &n.Notes, &n.CreatedAt, &n.ResolvedAt); err != nil {
			return entries, err
		}
		entries = append(entries, n)
	}

	return entries, rows.Err()
}

func (r *BidRepo) getStatusHistory(ctx context.Context, bidId uuid.UUID) ([]entity.StatusChange, error) {
	getReq, args, _ := r.SqlBuilder.
		Select("status", "changed_at", "changed_by", "notes").
		From("bid_status_history").
		Where("bid_id = ?", bidId).
		OrderBy("changed_at ASC, id ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, getReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]entity.StatusChange, 0)
	for rows.Next() {
		var c entity.StatusChange
		if err := rows.Scan(&c.Status, &c.ChangedAt, &c.ChangedBy, &c.Notes); err != nil {
			return history, err
		}
		history = append(history, c)
	}

	return history, rows.Err()
}

// bidTermsUpdate builds the shared optimistic-concurrency update of a bid's
// negotiable terms: matched on the version the caller read, bumping version
// and revision bookkeeping.
func (r *BidRepo) bidTermsUpdate(bid *entity.Bid, now time.Time) squirrel.UpdateBuilder {
	return r.SqlBuilder.
		Update("bid").
		Set("amount", bid.Amount).
		Set("tax_percentage", bid.TaxPercentage).
		Set("total_amount", bid.TotalAmount).
		Set("proposal", bid.Proposal).
		Set("team_structure", bid.TeamStructure).
		Set("deliverables", pq.Array(bid.Deliverables)).
		Set("tech_stack", pq.Array(bid.TechStack)).
		Set("assumptions", pq.Array(bid.Assumptions)).
		Set("attachments", pq.Array(bid.Attachments)).
		Set("timeline_value", bid.Timeline.Value).
		Set("timeline_unit", bid.Timeline.Unit).
		Set("timeline_start", bid.Timeline.StartDate).
		Set("timeline_end", bid.Timeline.EndDate).
		Set("timeline_in_days", bid.TimelineInDays).
		Set("revision_count", squirrel.Expr("revision_count + 1")).
		Set("last_revised_at", now).
		Set("updated_at", now).
		Set("version", squirrel.Expr("version + 1")).
		Where("id = ?", bid.Id).
		Where("version = ?", bid.Version)
}

func (r *BidRepo) UpdateBidTerms(ctx context.Context, bid *entity.Bid) error {
	updateReq, args, _ := r.bidTermsUpdate(bid, time.Now()).ToSql()

	res, err := r.Database.ExecContext(ctx, updateReq, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrStaleVersion
	}

	return nil
}

func (r *BidRepo) TransitionBid(ctx context.Context, bid *entity.Bid, change entity.StatusChange) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("bid").
		Set("status", change.Status).
		Set("expires_at", bid.ExpiresAt).
		Set("auto_withdraw_at", bid.AutoWithdrawAt).
		Set("updated_at", change.ChangedAt).
		Set("version", squirrel.Expr("version + 1")).
		Where("id = ?", bid.Id).
		Where("version = ?", bid.Version).
		RunWith(tx).
		ToSql()

	res, err := tx.Exec(updateReq, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrStaleVersion
	}

	appendHistoryReq, args, _ := r.SqlBuilder.
		Insert("bid_status_history").
		Columns("bid_id", "status", "changed_at", "changed_by", "notes").
		Values(bid.Id, change.Status, change.ChangedAt, change.ChangedBy, change.Notes).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(appendHistoryReq, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	return tx.Commit()
}

func (r *BidRepo) MarkViewed(ctx context.Context, bidId string, at time.Time) error {
	uuidForm, err := uuid.Parse(bidId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	updateReq, args, _ := r.SqlBuilder.
		Update("bid").
		Set("viewed_by_client", true).
		Set("viewed_at", at).
		Where("id = ?", uuidForm).
		Where("viewed_by_client = false").
		ToSql()

	_, err = r.Database.ExecContext(ctx, updateReq, args...)

	return err
}

func (r *BidRepo) SetShortlisted(ctx context.Context, bidId string, shortlisted bool, at time.Time) error {
	uuidForm, err := uuid.Parse(bidId)
	if err != nil {
		return repo_errors.ErrNotFound
	}

	update := r.SqlBuilder.
		Update("bid").
		Set("shortlisted", shortlisted).
		Where("id = ?", uuidForm)
	if shortlisted {
		update = update.Set("shortlisted_at", at)
	} else {
		update = update.Set("shortlisted_at", nil)
	}

	updateReq, args, _ := update.ToSql()
	_, err = r.Database.ExecContext(ctx, updateReq, args...)

	return err
}

func (r *BidRepo) AddNegotiation(ctx context.Context, entry *entity.NegotiationEntry) (uuid.UUID, error) {
	addReq, args, _ := r.SqlBuilder.
		Insert("bid_negotiation").
		Columns("bid_id", "field", "old_value", "new_value", "proposed_by", "status", "notes").
		Values(entry.BidId, entry.Field, entry.OldValue, entry.NewValue, entry.ProposedBy, entry.Status, entry.Notes).
		Suffix("RETURNING id").
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, addReq, args...).Scan(&id); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

// AcceptNegotiation applies an accepted proposal in one transaction: the
// bid's live terms move to the proposed value (optimistic-concurrency
// checked), the entry is marked accepted and finalAccepted, and other
// pending entries on the same field are auto-rejected.
func (r *BidRepo) AcceptNegotiation(ctx context.Context, bid *entity.Bid, entryId uuid.UUID, now time.Time) error {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	getFieldReq, args, _ := r.SqlBuilder.
		Select("field").
		From("bid_negotiation").
		Where("id = ?", entryId).
		Suffix("FOR UPDATE").
		RunWith(tx).
		ToSql()

	var field entity.NegotiationField
	if err = tx.QueryRow(getFieldReq, args...).Scan(&field); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	updateBidReq, args, _ := r.bidTermsUpdate(bid, now).RunWith(tx).ToSql()
	res, err := tx.Exec(updateBidReq, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrStaleVersion
	}

	if field == entity.NegotiateMilestones {
		deleteReq, args, _ := r.SqlBuilder.
			Delete("bid_milestone").
			Where("bid_id = ?", bid.Id).
			RunWith(tx).
			ToSql()

		if _, err = tx.Exec(deleteReq, args...); err != nil {
			if e := tx.Rollback(); e != nil {
				return e
			}

			return err
		}

		for i, m := range bid.Milestones {
			insertReq, args, _ := r.SqlBuilder.
				Insert("bid_milestone").
				Columns("bid_id", "position", "title", "amount", "due_date", "status", "completion_proof").
				Values(bid.Id, i, m.Title, m.Amount, m.DueDate, entity.MilestonePending, pq.Array([]string{})).
				RunWith(tx).
				ToSql()

			if _, err = tx.Exec(insertReq, args...); err != nil {
				if e := tx.Rollback(); e != nil {
					return e
				}

				return err
			}
		}
	}

	acceptReq, args, _ := r.SqlBuilder.
		Update("bid_negotiation").
		Set("status", entity.NegotiationAccepted).
		Set("final_accepted", true).
		Set("resolved_at", now).
		Where("id = ?", entryId).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(acceptReq, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	rejectSiblingsReq, args, _ := r.SqlBuilder.
		Update("bid_negotiation").
		Set("status", entity.NegotiationRejected).
		Set("resolved_at", now).
		Where("bid_id = ?", bid.Id).
		Where("field = ?", field).
		Where("status = ?", entity.NegotiationPending).
		Where("id <> ?", entryId).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(rejectSiblingsReq, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	return tx.Commit()
}

func (r *BidRepo) UpdateNegotiationStatus(ctx context.Context, entryId uuid.UUID, status entity.NegotiationStatus, now time.Time) error {
	updateReq, args, _ := r.SqlBuilder.
		Update("bid_negotiation").
		Set("status", status).
		Set("resolved_at", now).
		Where("id = ?", entryId).
		Where("status = ?", entity.NegotiationPending).
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

func (r *BidRepo) UpdateMilestone(ctx context.Context, m *entity.Milestone) error {
	updateReq, args, _ := r.SqlBuilder.
		Update("bid_milestone").
		Set("status", m.Status).
		Set("completion_proof", pq.Array(m.CompletionProof)).
		Set("client_approved", m.ClientApproved).
		Set("approved_at", m.ApprovedAt).
		Set("approval_comments", m.ApprovalComments).
		Set("started_at", m.StartedAt).
		Set("completed_at", m.CompletedAt).
		Set("paid_at", m.PaidAt).
		Where("id = ?", m.Id).
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

func (r *BidRepo) listBids(ctx context.Context, where squirrel.Eq, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error) {
	query := r.SqlBuilder.
		Select("bid.id", "bid.project_id", "project.title", "bid.company_id", "company.name", "company.rating_average",
			"bid.amount", "bid.currency", "bid.total_amount", "bid.status", "bid.shortlisted", "bid.created_at").
		From("bid").
		InnerJoin("project on project.id = bid.project_id").
		InnerJoin("company on company.id = bid.company_id").
		Where(where).
		OrderBy("bid.created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit))

	if status != "" {
		query = query.Where("bid.status = ?", status)
	}

	listReq, args, _ := query.ToSql()

	rows, err := r.Database.QueryContext(ctx, listReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entity.BidListItem, 0)
	for rows.Next() {
		var item entity.BidListItem
		if err := rows.Scan(&item.Id, &item.ProjectId, &item.ProjectTitle, &item.CompanyId, &item.CompanyName,
			&item.CompanyRating, &item.Amount, &item.Currency, &item.TotalAmount, &item.Status,
			&item.Shortlisted, &item.CreatedAt); err != nil {
			return items, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *BidRepo) GetBidsByProject(ctx context.Context, projectId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error) {
	uuidForm, err := uuid.Parse(projectId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.listBids(ctx, squirrel.Eq{"bid.project_id": uuidForm}, status, pg)
}

func (r *BidRepo) GetBidsByCompany(ctx context.Context, companyId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error) {
	uuidForm, err := uuid.Parse(companyId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.listBids(ctx, squirrel.Eq{"bid.company_id": uuidForm}, status, pg)
}

func (r *BidRepo) GetBidsByClient(ctx context.Context, clientId string, status entity.BidStatus, pg *entity.PaginationInput) ([]entity.BidListItem, error) {
	uuidForm, err := uuid.Parse(clientId)
	if err != nil {
		return nil, repo_errors.ErrNotFound
	}

	return r.listBids(ctx, squirrel.Eq{"bid.client_id": uuidForm}, status, pg)
}

// ListExpirable returns non-terminal bids whose expiry or auto-withdraw
// deadline has passed. Milestone and history sub-lists are not loaded; the
// sweep only needs the scalar row.
func (r *BidRepo) ListExpirable(ctx context.Context, now time.Time, limit int) ([]entity.Bid, error) {
	listReq, args, _ := r.SqlBuilder.
		Select(bidColumns...).
		From("bid").
		Where(squirrel.Eq{"bid.status": []entity.BidStatus{entity.BidSubmitted, entity.BidUnderReview}}).
		Where(squirrel.Or{
			squirrel.Lt{"bid.expires_at": now},
			squirrel.Lt{"bid.auto_withdraw_at": now},
		}).
		OrderBy("bid.expires_at ASC").
		Limit(uint64(limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, listReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}

	return bids, rows.Err()
}
