package usecase

import (
	"context"
	"fmt"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/logging"
	"PolicyPal/internal/ports"
)

// Ledger applies votes. Per-user state, bill counters and demographic
// buckets change together in one transaction under the bill row lock.
type Ledger struct {
	store  ports.VoteStore
	bills  ports.BillCatalog
	logger *logging.Logger
}

func NewLedger(store ports.VoteStore, bills ports.BillCatalog, logger *logging.Logger) *Ledger {
	return &Ledger{store: store, bills: bills, logger: logger}
}

// CastVote moves the user's status on the bill to requested (VoteNone removes the vote).
func (l *Ledger) CastVote(ctx context.Context, userID, billID int64, requested domain.VoteStatus) (domain.VoteResult, error) {
	var result domain.VoteResult

	err := l.store.WithBill(ctx, billID, func(tx ports.VoteTx) error {
		user, err := tx.User(ctx, userID)
		if err != nil {
			return err
		}

		current, counted, err := tx.CurrentVote(ctx, userID)
		if err != nil {
			return err
		}

		transition, err := domain.PlanVote(current, requested)
		if err != nil {
			return err
		}

		bill := tx.Bill()
		record, err := tx.VoteRecord(ctx)
		if err != nil {
			return err
		}

		result = domain.VoteResult{
			BillID:       billID,
			Transition:   transition,
			Counters:     bill.Counters,
			Demographics: record,
		}
		if transition.Change == domain.ChangeNoop {
			return nil
		}

		now := user.Profile.Classify()
		if counted == (domain.Classification{}) {
			counted = now
		}
		record.Apply(transition, counted, now)
		counters := bill.Counters.Apply(transition)

		if err := tx.SaveVoteRecord(ctx, record); err != nil {
			return err
		}
		if err := tx.SaveCounters(ctx, counters); err != nil {
			return err
		}
		if transition.To == domain.VoteNone {
			err = tx.DeleteVote(ctx, userID)
		} else {
			err = tx.SaveVote(ctx, userID, transition.To, now)
		}
		if err != nil {
			return err
		}

		result.Counters = counters
		result.Demographics = record
		return nil
	})
	if err != nil {
		return domain.VoteResult{}, fmt.Errorf("cast vote on bill %d: %w", billID, err)
	}

	l.logger.Debug("vote applied", "bill_id", billID, "user_id", userID, "change", result.Transition.Change)
	return result, nil
}

// Demographics returns the bill's vote record, all-zero when nobody has voted.
func (l *Ledger) Demographics(ctx context.Context, billID int64) (domain.VoteRecord, error) {
	if _, err := l.bills.Get(ctx, billID); err != nil {
		return domain.VoteRecord{}, err
	}

	record, found, err := l.store.VoteRecord(ctx, billID)
	if err != nil {
		return domain.VoteRecord{}, err
	}
	if !found {
		return domain.NewVoteRecord(billID), nil
	}
	return record, nil
}

// UserVotes maps bill id to the user's current status.
func (l *Ledger) UserVotes(ctx context.Context, userID int64) (map[int64]domain.VoteStatus, error) {
	return l.store.UserVotes(ctx, userID)
}
