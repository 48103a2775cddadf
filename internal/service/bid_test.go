package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo/repo_errors"
)

func TestCreateBidDerivesFinancials(t *testing.T) {
	env := newTestEnv()

	out, err := env.service.CreateBid(context.Background(), env.owner, env.createInput())
	if err != nil {
		t.Fatalf("CreateBid: %v", err)
	}

	if out.TotalAmount != 580000 {
		t.Fatalf("totalAmount = %v, want 580000", out.TotalAmount)
	}
	if out.TimelineInDays != 42 {
		t.Fatalf("timelineInDays = %d, want 42", out.TimelineInDays)
	}
	if out.Status != string(entity.BidDraft) {
		t.Fatalf("status = %s, want draft", out.Status)
	}
	if out.Currency != "PKR" {
		t.Fatalf("currency = %s, want default PKR", out.Currency)
	}

	if env.projects.project.BidCount != 1 {
		t.Fatalf("bidCount = %d, want 1", env.projects.project.BidCount)
	}
	if env.projects.project.Status != entity.ProjectBidding {
		t.Fatalf("project status = %s, want bidding", env.projects.project.Status)
	}

	if len(env.notes.created) != 1 || env.notes.created[0].Title != "bid.new" {
		t.Fatalf("client should get one new-bid notification, got %+v", env.notes.created)
	}
	if env.notes.created[0].UserId != env.client.UserId {
		t.Fatal("new-bid notification should target the project's client")
	}
}

func TestCreateBidDuplicateConflict(t *testing.T) {
	env := newTestEnv()
	env.bids.createErr = repo_errors.ErrAlreadyExists

	_, err := env.service.CreateBid(context.Background(), env.owner, env.createInput())
	if !errors.Is(err, ErrBidAlreadyExists) {
		t.Fatalf("err = %v, want ErrBidAlreadyExists", err)
	}
}

func TestCreateBidRequiresVerifiedCompany(t *testing.T) {
	env := newTestEnv()
	env.companies.company.VerificationState = entity.VerificationPending

	_, err := env.service.CreateBid(context.Background(), env.owner, env.createInput())
	if !errors.Is(err, ErrCompanyNotVerified) {
		t.Fatalf("err = %v, want ErrCompanyNotVerified", err)
	}
}

func TestProposalLengthCountsCharacters(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// 60 Urdu characters are 120 bytes; still below the 100-character minimum
	input := env.createInput()
	input.Proposal = strings.Repeat("ب", 60)
	if _, err := env.service.CreateBid(ctx, env.owner, input); !errors.Is(err, ErrProposalLength) {
		t.Fatalf("err = %v, want ErrProposalLength", err)
	}

	// 2600 characters exceed 5000 bytes but sit well within the limit
	input = env.createInput()
	input.Proposal = strings.Repeat("ب", 2600)
	if _, err := env.service.CreateBid(ctx, env.owner, input); err != nil {
		t.Fatalf("CreateBid with long Urdu proposal: %v", err)
	}
}

func TestCreateBidRequiresOpenProject(t *testing.T) {
	env := newTestEnv()
	env.projects.project.Status = entity.ProjectCompleted

	_, err := env.service.CreateBid(context.Background(), env.owner, env.createInput())
	if !errors.Is(err, ErrProjectNotOpen) {
		t.Fatalf("err = %v, want ErrProjectNotOpen", err)
	}
}

func TestSubmitBidArmsTimers(t *testing.T) {
	env := newTestEnv()

	out, err := env.service.CreateBid(context.Background(), env.owner, env.createInput())
	if err != nil {
		t.Fatalf("CreateBid: %v", err)
	}

	before := time.Now()
	submitted, err := env.service.SubmitBid(context.Background(), env.owner, out.Id)
	if err != nil {
		t.Fatalf("SubmitBid: %v", err)
	}

	if submitted.ExpiresAt == nil || submitted.AutoWithdrawAt == nil {
		t.Fatal("first submit must arm expiry and auto-withdraw timers")
	}

	wantExpiry := before.Add(30 * 24 * time.Hour)
	if d := submitted.ExpiresAt.Sub(wantExpiry); d < -2*time.Second || d > 2*time.Second {
		t.Fatalf("expiresAt off by %v", d)
	}
	wantWithdraw := before.Add(60 * 24 * time.Hour)
	if d := submitted.AutoWithdrawAt.Sub(wantWithdraw); d < -2*time.Second || d > 2*time.Second {
		t.Fatalf("autoWithdrawAt off by %v", d)
	}

	// submitting again is not a legal transition
	if _, err := env.service.SubmitBid(context.Background(), env.owner, out.Id); !errors.Is(err, ErrBidTransition) {
		t.Fatalf("second submit: err = %v, want ErrBidTransition", err)
	}
}

func TestSubmitBidStaleVersionConflict(t *testing.T) {
	env := newTestEnv()

	out, err := env.service.CreateBid(context.Background(), env.owner, env.createInput())
	if err != nil {
		t.Fatalf("CreateBid: %v", err)
	}

	env.bids.transitionErr = repo_errors.ErrStaleVersion
	if _, err := env.service.SubmitBid(context.Background(), env.owner, out.Id); !errors.Is(err, ErrBidConflict) {
		t.Fatalf("err = %v, want ErrBidConflict", err)
	}
}

func TestStatusHistoryAppendsPerTransition(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	out, err := env.service.CreateBid(ctx, env.owner, env.createInput())
	if err != nil {
		t.Fatalf("CreateBid: %v", err)
	}
	if _, err := env.service.SubmitBid(ctx, env.owner, out.Id); err != nil {
		t.Fatalf("SubmitBid: %v", err)
	}
	accepted, err := env.service.AcceptBid(ctx, env.client, out.Id, "strong proposal")
	if err != nil {
		t.Fatalf("AcceptBid: %v", err)
	}

	want := []entity.BidStatus{entity.BidDraft, entity.BidSubmitted, entity.BidAccepted}
	if len(accepted.StatusHistory) != len(want) {
		t.Fatalf("history length = %d, want %d", len(accepted.StatusHistory), len(want))
	}
	for i, s := range want {
		if accepted.StatusHistory[i].Status != s {
			t.Fatalf("history[%d] = %s, want %s", i, accepted.StatusHistory[i].Status, s)
		}
	}
	if accepted.StatusHistory[2].Notes != "strong proposal" {
		t.Fatalf("decision notes not recorded: %q", accepted.StatusHistory[2].Notes)
	}
}

func TestAcceptBidActivatesProjectAndNotifies(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	out, _ := env.service.CreateBid(ctx, env.owner, env.createInput())
	if _, err := env.service.SubmitBid(ctx, env.owner, out.Id); err != nil {
		t.Fatalf("SubmitBid: %v", err)
	}
	if _, err := env.service.AcceptBid(ctx, env.client, out.Id, ""); err != nil {
		t.Fatalf("AcceptBid: %v", err)
	}

	if env.projects.project.Status != entity.ProjectActive {
		t.Fatalf("project status = %s, want active", env.projects.project.Status)
	}

	var found bool
	for _, n := range env.notes.created {
		if n.Title == "bid.accepted" && n.UserId == env.owner.UserId {
			found = true
		}
	}
	if !found {
		t.Fatal("company owner should be notified of acceptance")
	}
}

func TestAcceptBidDeniedForCompanySide(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	out, _ := env.service.CreateBid(ctx, env.owner, env.createInput())
	if _, err := env.service.SubmitBid(ctx, env.owner, out.Id); err != nil {
		t.Fatalf("SubmitBid: %v", err)
	}

	// only the project's client or an admin may decide
	if _, err := env.service.AcceptBid(ctx, env.owner, out.Id, ""); !errors.Is(err, ErrNoAccessToBid) {
		t.Fatalf("err = %v, want ErrNoAccessToBid", err)
	}
}

func TestGetBidMarksClientView(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	out, _ := env.service.CreateBid(ctx, env.owner, env.createInput())
	if _, err := env.service.GetBidById(ctx, env.client, out.Id); err != nil {
		t.Fatalf("GetBidById: %v", err)
	}

	if !env.bids.bid.ViewedByClient {
		t.Fatal("first client read should mark the bid viewed")
	}
}

func TestEditBidTotalRecompute(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	out, _ := env.service.CreateBid(ctx, env.owner, env.createInput())

	edit := &entity.UpdateBidInput{
		Amount:        400000,
		TaxPercentage: 16,
		Proposal:      out.Proposal,
		Timeline:      out.Timeline,
	}
	updated, err := env.service.EditBidTerms(ctx, env.owner, out.Id, edit)
	if err != nil {
		t.Fatalf("EditBidTerms: %v", err)
	}
	if updated.TotalAmount != 580000 {
		t.Fatalf("total silently recomputed to %v, want 580000", updated.TotalAmount)
	}

	edit.RecomputeTotal = true
	updated, err = env.service.EditBidTerms(ctx, env.owner, out.Id, edit)
	if err != nil {
		t.Fatalf("EditBidTerms recompute: %v", err)
	}
	if updated.TotalAmount != 464000 {
		t.Fatalf("total = %v, want recomputed 464000", updated.TotalAmount)
	}
	if updated.RevisionCount != 2 {
		t.Fatalf("revisionCount = %d, want 2", updated.RevisionCount)
	}
}

func submitBid(t *testing.T, env *testEnv) string {
	t.Helper()

	out, err := env.service.CreateBid(context.Background(), env.owner, env.createInput())
	if err != nil {
		t.Fatalf("CreateBid: %v", err)
	}
	if _, err := env.service.SubmitBid(context.Background(), env.owner, out.Id); err != nil {
		t.Fatalf("SubmitBid: %v", err)
	}

	return out.Id
}

func TestNegotiationAcceptAppliesAmount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bidId := submitBid(t, env)

	out, err := env.service.ProposeNegotiation(ctx, env.client, bidId, entity.NegotiateAmount, json.RawMessage("450000"), "budget cap")
	if err != nil {
		t.Fatalf("ProposeNegotiation: %v", err)
	}
	entryId := out.Negotiations[0].Id.String()

	if out.Negotiations[0].OldValue != "500000" {
		t.Fatalf("oldValue = %q, want live amount 500000", out.Negotiations[0].OldValue)
	}

	accepted, err := env.service.AcceptNegotiation(ctx, env.owner, bidId, entryId)
	if err != nil {
		t.Fatalf("AcceptNegotiation: %v", err)
	}

	if accepted.Amount != 450000 {
		t.Fatalf("amount = %v, want accepted 450000", accepted.Amount)
	}
	if accepted.TotalAmount != 580000 {
		t.Fatalf("total = %v, accepted amount must not silently rewrite it", accepted.TotalAmount)
	}
	entry := accepted.Negotiations[0]
	if entry.Status != entity.NegotiationAccepted || !entry.FinalAccepted {
		t.Fatalf("entry not finalized: %+v", entry)
	}
}

func TestNegotiationOwnProposalDecision(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bidId := submitBid(t, env)

	out, err := env.service.ProposeNegotiation(ctx, env.client, bidId, entity.NegotiateAmount, json.RawMessage("450000"), "")
	if err != nil {
		t.Fatalf("ProposeNegotiation: %v", err)
	}
	entryId := out.Negotiations[0].Id.String()

	if _, err := env.service.AcceptNegotiation(ctx, env.client, bidId, entryId); !errors.Is(err, ErrOwnProposalDecision) {
		t.Fatalf("err = %v, want ErrOwnProposalDecision", err)
	}
}

func TestNegotiationAcceptRejectsPendingSiblings(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bidId := submitBid(t, env)

	if _, err := env.service.ProposeNegotiation(ctx, env.client, bidId, entity.NegotiateAmount, json.RawMessage("450000"), ""); err != nil {
		t.Fatalf("first proposal: %v", err)
	}
	out, err := env.service.ProposeNegotiation(ctx, env.client, bidId, entity.NegotiateAmount, json.RawMessage("430000"), "")
	if err != nil {
		t.Fatalf("second proposal: %v", err)
	}

	secondId := out.Negotiations[1].Id.String()
	accepted, err := env.service.AcceptNegotiation(ctx, env.owner, bidId, secondId)
	if err != nil {
		t.Fatalf("AcceptNegotiation: %v", err)
	}

	if accepted.Negotiations[0].Status != entity.NegotiationRejected {
		t.Fatalf("sibling status = %s, want auto-rejected", accepted.Negotiations[0].Status)
	}
	if accepted.Negotiations[1].Status != entity.NegotiationAccepted {
		t.Fatalf("accepted entry status = %s", accepted.Negotiations[1].Status)
	}
	if accepted.Amount != 430000 {
		t.Fatalf("amount = %v, want 430000", accepted.Amount)
	}
}

func TestCounterNegotiation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bidId := submitBid(t, env)

	out, err := env.service.ProposeNegotiation(ctx, env.client, bidId, entity.NegotiateAmount, json.RawMessage("400000"), "")
	if err != nil {
		t.Fatalf("ProposeNegotiation: %v", err)
	}
	entryId := out.Negotiations[0].Id.String()

	countered, err := env.service.CounterNegotiation(ctx, env.owner, bidId, entryId, json.RawMessage("470000"), "meet in the middle")
	if err != nil {
		t.Fatalf("CounterNegotiation: %v", err)
	}

	if countered.Negotiations[0].Status != entity.NegotiationCountered {
		t.Fatalf("original entry = %s, want countered", countered.Negotiations[0].Status)
	}
	counter := countered.Negotiations[1]
	if counter.Status != entity.NegotiationPending || counter.ProposedBy != env.owner.UserId {
		t.Fatalf("counter entry wrong: %+v", counter)
	}

	final, err := env.service.AcceptNegotiation(ctx, env.client, bidId, counter.Id.String())
	if err != nil {
		t.Fatalf("accept counter: %v", err)
	}
	if final.Amount != 470000 {
		t.Fatalf("amount = %v, want countered 470000", final.Amount)
	}
}

func TestNegotiationTimelineRecomputesDays(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bidId := submitBid(t, env)

	newTimeline := json.RawMessage(`{"value":2,"unit":"months"}`)
	out, err := env.service.ProposeNegotiation(ctx, env.client, bidId, entity.NegotiateTimeline, newTimeline, "")
	if err != nil {
		t.Fatalf("ProposeNegotiation: %v", err)
	}

	accepted, err := env.service.AcceptNegotiation(ctx, env.owner, bidId, out.Negotiations[0].Id.String())
	if err != nil {
		t.Fatalf("AcceptNegotiation: %v", err)
	}
	if accepted.TimelineInDays != 60 {
		t.Fatalf("timelineInDays = %d, want 60", accepted.TimelineInDays)
	}
}

func TestNegotiationRejectsUnknownField(t *testing.T) {
	env := newTestEnv()
	bidId := submitBid(t, env)

	_, err := env.service.ProposeNegotiation(context.Background(), env.client, bidId,
		entity.NegotiationField("currency"), json.RawMessage(`"USD"`), "")
	if !errors.Is(err, ErrFieldNotNegotiable) {
		t.Fatalf("err = %v, want ErrFieldNotNegotiable", err)
	}
}

func TestStaleNegotiationCannotRewriteAcceptedBid(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bidId := submitBid(t, env)

	out, err := env.service.ProposeNegotiation(ctx, env.client, bidId, entity.NegotiateMilestones,
		json.RawMessage(`[{"Title":"Everything","Amount":500000}]`), "")
	if err != nil {
		t.Fatalf("ProposeNegotiation: %v", err)
	}
	entryId := out.Negotiations[0].Id.String()

	out, err = env.service.AcceptBid(ctx, env.client, bidId, "")
	if err != nil {
		t.Fatalf("AcceptBid: %v", err)
	}

	milestoneId := out.Milestones[0].Id.String()
	if _, err := env.service.StartMilestone(ctx, env.owner, bidId, milestoneId); err != nil {
		t.Fatalf("StartMilestone: %v", err)
	}
	if _, err := env.service.CompleteMilestone(ctx, env.owner, bidId, milestoneId, nil); err != nil {
		t.Fatalf("CompleteMilestone: %v", err)
	}
	if _, err := env.service.ApproveMilestone(ctx, env.client, bidId, milestoneId, ""); err != nil {
		t.Fatalf("ApproveMilestone: %v", err)
	}
	if _, err := env.service.MarkMilestonePaid(ctx, env.client, bidId, milestoneId); err != nil {
		t.Fatalf("MarkMilestonePaid: %v", err)
	}

	// the pending proposal died when the bid reached a decision
	if _, err := env.service.AcceptNegotiation(ctx, env.owner, bidId, entryId); !errors.Is(err, ErrBidNotNegotiable) {
		t.Fatalf("err = %v, want ErrBidNotNegotiable", err)
	}

	bid, _ := env.bids.GetBidById(ctx, bidId)
	if len(bid.Milestones) != 3 || bid.Milestones[0].Status != entity.MilestonePaid || bid.Milestones[0].PaidAt == nil {
		t.Fatalf("paid milestone record must survive: %+v", bid.Milestones[0])
	}
}

func TestNegotiationRequiresNegotiableStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	out, _ := env.service.CreateBid(ctx, env.owner, env.createInput())
	_, err := env.service.ProposeNegotiation(ctx, env.client, out.Id, entity.NegotiateAmount, json.RawMessage("1"), "")
	if !errors.Is(err, ErrBidNotNegotiable) {
		t.Fatalf("draft bid: err = %v, want ErrBidNotNegotiable", err)
	}
}

func acceptBid(t *testing.T, env *testEnv) *entity.BidOutputModel {
	t.Helper()

	bidId := submitBid(t, env)
	out, err := env.service.AcceptBid(context.Background(), env.client, bidId, "")
	if err != nil {
		t.Fatalf("AcceptBid: %v", err)
	}

	return out
}

func TestMilestoneLifecycle(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	out := acceptBid(t, env)
	milestoneId := out.Milestones[0].Id.String()

	if _, err := env.service.StartMilestone(ctx, env.owner, out.Id, milestoneId); err != nil {
		t.Fatalf("StartMilestone: %v", err)
	}
	if _, err := env.service.CompleteMilestone(ctx, env.owner, out.Id, milestoneId, []string{"https://repo/pr/42"}); err != nil {
		t.Fatalf("CompleteMilestone: %v", err)
	}
	if _, err := env.service.ApproveMilestone(ctx, env.client, out.Id, milestoneId, "looks good"); err != nil {
		t.Fatalf("ApproveMilestone: %v", err)
	}
	paid, err := env.service.MarkMilestonePaid(ctx, env.client, out.Id, milestoneId)
	if err != nil {
		t.Fatalf("MarkMilestonePaid: %v", err)
	}

	m := paid.Milestones[0]
	if m.Status != entity.MilestonePaid || m.PaidAt == nil || !m.ClientApproved {
		t.Fatalf("milestone not fully paid: %+v", m)
	}
	if len(m.CompletionProof) != 1 {
		t.Fatalf("completion proof lost: %+v", m.CompletionProof)
	}
}

func TestMilestonePaidRequiresApproval(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	out := acceptBid(t, env)
	milestoneId := out.Milestones[0].Id.String()

	if _, err := env.service.StartMilestone(ctx, env.owner, out.Id, milestoneId); err != nil {
		t.Fatalf("StartMilestone: %v", err)
	}
	if _, err := env.service.CompleteMilestone(ctx, env.owner, out.Id, milestoneId, nil); err != nil {
		t.Fatalf("CompleteMilestone: %v", err)
	}

	if _, err := env.service.MarkMilestonePaid(ctx, env.client, out.Id, milestoneId); !errors.Is(err, ErrMilestoneNotApproved) {
		t.Fatalf("err = %v, want ErrMilestoneNotApproved", err)
	}
}

func TestMilestoneCannotSkipSteps(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	out := acceptBid(t, env)
	milestoneId := out.Milestones[0].Id.String()

	if _, err := env.service.CompleteMilestone(ctx, env.owner, out.Id, milestoneId, nil); !errors.Is(err, ErrMilestoneTransition) {
		t.Fatalf("pending -> completed: err = %v, want ErrMilestoneTransition", err)
	}
}

func TestMilestoneOpsRequireAcceptedBid(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	bidId := submitBid(t, env)

	bid, _ := env.bids.GetBidById(ctx, bidId)
	milestoneId := bid.Milestones[0].Id.String()

	if _, err := env.service.StartMilestone(ctx, env.owner, bidId, milestoneId); !errors.Is(err, ErrBidNotAccepted) {
		t.Fatalf("err = %v, want ErrBidNotAccepted", err)
	}
}
