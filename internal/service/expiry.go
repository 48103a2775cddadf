package service

import (
	"context"
	"errors"
	"log"
	"time"

	"marketplace-api/internal/entity"
	"marketplace-api/internal/repo"
	"marketplace-api/internal/repo/repo_errors"

	"github.com/google/uuid"
)

const (
	sweepBatchSize        = 200
	notificationRetention = 30 * 24 * time.Hour
)

// Sweeper materializes time-based bid transitions. Expiry is visible on reads
// as soon as the deadline passes; the sweep only persists the status so
// listings and history agree. It also prunes old notifications.
type Sweeper struct {
	bidRepo          repo.Bid
	notificationRepo repo.Notification
}

func NewSweeper(repos *repo.Repositories) *Sweeper {
	return &Sweeper{
		bidRepo:          repos.Bid,
		notificationRepo: repos.Notification,
	}
}

// Run loops until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx, time.Now())
		}
	}
}

// SweepOnce processes one batch of overdue bids. Each bid is written with an
// optimistic-concurrency check, so a user action racing the sweep wins and
// the sweep simply skips that bid.
func (s *Sweeper) SweepOnce(ctx context.Context, now time.Time) {
	bids, err := s.bidRepo.ListExpirable(ctx, now, sweepBatchSize)
	if err != nil {
		log.Printf("sweep: listing overdue bids: %v", err)
		return
	}

	for i := range bids {
		bid := &bids[i]

		target := entity.BidExpired
		notes := "bid expired"
		if bid.DueAutoWithdraw(now) {
			target = entity.BidWithdrawn
			notes = "auto-withdrawn after inactivity"
		}

		if !entity.CanTransitionBid(bid.Status, target) {
			continue
		}

		change := entity.StatusChange{
			Status:    target,
			ChangedAt: now,
			ChangedBy: uuid.Nil,
			Notes:     notes,
		}
		if err := s.bidRepo.TransitionBid(ctx, bid, change); err != nil {
			if errors.Is(err, repo_errors.ErrStaleVersion) {
				continue
			}
			log.Printf("sweep: bid %s: %v", bid.Id, err)
		}
	}

	deleted, err := s.notificationRepo.DeleteNotificationsOlderThan(ctx, now.Add(-notificationRetention))
	if err != nil {
		log.Printf("sweep: pruning notifications: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("sweep: pruned %d notifications", deleted)
	}
}
