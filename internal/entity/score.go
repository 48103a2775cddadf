package entity

import "unicode/utf8"

// ScoreSnapshot is the read-only input to the bid scoring heuristic: the
// bid's own attributes plus its company's resolved average rating.
type ScoreSnapshot struct {
	CompanyRating  float64
	ProposalLength int
	MilestoneCount int
	HasAttachments bool
	IsInvited      bool
}

// SnapshotForScore extracts the scoring input from a bid. The company rating
// is resolved by the caller through the company directory.
func (b *Bid) SnapshotForScore(companyRating float64) ScoreSnapshot {
	return ScoreSnapshot{
		CompanyRating:  companyRating,
		ProposalLength: utf8.RuneCountInString(b.Proposal),
		MilestoneCount: len(b.Milestones),
		HasAttachments: len(b.Attachments) > 0,
		IsInvited:      b.IsInvited,
	}
}

// CalculateScore is the advisory ranking heuristic used when a client sorts
// competing bids. It is pure and deterministic: base 100, plus the company
// rating times ten, a proposal-length bonus, a milestone-plan bonus, an
// attachment bonus and an invitation bonus, clamped at 200. The result never
// feeds an authorization decision.
func CalculateScore(s ScoreSnapshot) float64 {
	score := 100.0

	score += s.CompanyRating * 10

	switch {
	case s.ProposalLength >= 100 && s.ProposalLength <= 500:
		score += 20
	case s.ProposalLength > 500 && s.ProposalLength <= 1000:
		score += 10
	}

	if s.MilestoneCount >= 3 {
		score += 15
	}

	if s.HasAttachments {
		score += 10
	}

	if s.IsInvited {
		score += 25
	}

	if score > 200 {
		score = 200
	}

	return score
}
