package entity

import (
	"testing"
	"time"
)

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.006, 10.01},
		{10.004, 10.0},
		{99.999, 100.0},
		{0, 0},
		{1234.5, 1234.5},
	}

	for _, c := range cases {
		if got := RoundMoney(c.in); got != c.want {
			t.Fatalf("RoundMoney(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeFinancialsComputesTotalOnce(t *testing.T) {
	b := &Bid{Amount: 100000.456, TaxPercentage: 16, Timeline: Timeline{Value: 2, Unit: UnitWeeks}}
	b.NormalizeFinancials()

	if b.Amount != 100000.46 {
		t.Fatalf("amount = %v, want 100000.46", b.Amount)
	}
	if b.TotalAmount != 116000.53 {
		t.Fatalf("total = %v, want 116000.53", b.TotalAmount)
	}
	if b.TimelineInDays != 14 {
		t.Fatalf("timelineInDays = %d, want 14", b.TimelineInDays)
	}

	// once set, a later tax change must not silently rewrite the total
	b.TaxPercentage = 0
	b.NormalizeFinancials()
	if b.TotalAmount != 116000.53 {
		t.Fatalf("total recomputed to %v, want unchanged 116000.53", b.TotalAmount)
	}

	// clearing the total forces the derivation to run again
	b.TotalAmount = 0
	b.NormalizeFinancials()
	if b.TotalAmount != 100000.46 {
		t.Fatalf("total = %v, want 100000.46 after recompute", b.TotalAmount)
	}
}

func TestTimelineDays(t *testing.T) {
	cases := []struct {
		timeline Timeline
		want     int
	}{
		{Timeline{Value: 10, Unit: UnitDays}, 10},
		{Timeline{Value: 3, Unit: UnitWeeks}, 21},
		{Timeline{Value: 2, Unit: UnitMonths}, 60},
	}

	for _, c := range cases {
		if got := c.timeline.Days(); got != c.want {
			t.Fatalf("Days(%d %s) = %d, want %d", c.timeline.Value, c.timeline.Unit, got, c.want)
		}
	}
}

func TestCanTransitionBid(t *testing.T) {
	allowed := []struct{ from, to BidStatus }{
		{BidDraft, BidSubmitted},
		{BidDraft, BidWithdrawn},
		{BidSubmitted, BidUnderReview},
		{BidSubmitted, BidAccepted},
		{BidSubmitted, BidExpired},
		{BidUnderReview, BidAccepted},
		{BidUnderReview, BidRejected},
		{BidUnderReview, BidWithdrawn},
	}
	for _, c := range allowed {
		if !CanTransitionBid(c.from, c.to) {
			t.Fatalf("%s -> %s should be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to BidStatus }{
		{BidDraft, BidAccepted},
		{BidDraft, BidUnderReview},
		{BidAccepted, BidRejected},
		{BidRejected, BidSubmitted},
		{BidWithdrawn, BidSubmitted},
		{BidExpired, BidUnderReview},
		{BidUnderReview, BidSubmitted},
	}
	for _, c := range denied {
		if CanTransitionBid(c.from, c.to) {
			t.Fatalf("%s -> %s should be denied", c.from, c.to)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range []BidStatus{BidAccepted, BidRejected, BidWithdrawn, BidExpired} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []BidStatus{BidDraft, BidSubmitted, BidUnderReview} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()

	b := &Bid{}
	if b.IsExpired(now) {
		t.Fatal("a bid without expiry must never read as expired")
	}

	past := now.Add(-time.Hour)
	b.ExpiresAt = &past
	if !b.IsExpired(now) {
		t.Fatal("past deadline should read as expired regardless of status")
	}

	future := now.Add(time.Hour)
	b.ExpiresAt = &future
	if b.IsExpired(now) {
		t.Fatal("future deadline should not read as expired")
	}
}

func TestDueAutoWithdraw(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)

	b := &Bid{}
	if b.DueAutoWithdraw(now) {
		t.Fatal("no deadline, no auto-withdraw")
	}

	b.AutoWithdrawAt = &past
	if !b.DueAutoWithdraw(now) {
		t.Fatal("past auto-withdraw deadline should be due")
	}
}
