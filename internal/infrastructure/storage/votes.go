package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/ports"
)

// VoteStore keeps user votes, vote records and bill counters consistent.
type VoteStore struct {
	db *gorm.DB
}

var _ ports.VoteStore = (*VoteStore)(nil)

func NewVoteStore(db *gorm.DB) *VoteStore {
	return &VoteStore{db: db}
}

// WithBill runs fn in one transaction holding an exclusive lock on the bill row.
func (s *VoteStore) WithBill(ctx context.Context, billID int64, fn func(tx ports.VoteTx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bill billModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", billID).Take(&bill).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrBillNotFound
		}
		if err != nil {
			return fmt.Errorf("lock bill %d: %w", billID, err)
		}
		return fn(&voteTx{tx: tx, bill: bill.toDomain()})
	})
}

// VoteRecord returns the stored record; found is false when nobody has voted yet.
func (s *VoteStore) VoteRecord(ctx context.Context, billID int64) (domain.VoteRecord, bool, error) {
	var m voteRecordModel
	err := s.db.WithContext(ctx).Where("bill_id = ?", billID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.VoteRecord{}, false, nil
	}
	if err != nil {
		return domain.VoteRecord{}, false, fmt.Errorf("load vote record %d: %w", billID, err)
	}
	return m.toDomain(), true, nil
}

// UserVotes maps bill id to the user's current status.
func (s *VoteStore) UserVotes(ctx context.Context, userID int64) (map[int64]domain.VoteStatus, error) {
	var rows []userVoteModel
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load user votes: %w", err)
	}
	votes := make(map[int64]domain.VoteStatus, len(rows))
	for _, row := range rows {
		votes[row.BillID] = domain.VoteStatus(row.Status)
	}
	return votes, nil
}

// voteTx must only use tx; the outer handle may be waiting on the same connection.
type voteTx struct {
	tx   *gorm.DB
	bill domain.Bill
}

var _ ports.VoteTx = (*voteTx)(nil)

func (v *voteTx) Bill() domain.Bill { return v.bill }

func (v *voteTx) User(ctx context.Context, userID int64) (domain.User, error) {
	var m userModel
	err := v.tx.WithContext(ctx).Where("id = ?", userID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user %d: %w", userID, err)
	}
	return m.toDomain(), nil
}

func (v *voteTx) CurrentVote(ctx context.Context, userID int64) (domain.VoteStatus, domain.Classification, error) {
	var m userVoteModel
	err := v.tx.WithContext(ctx).Where("user_id = ? AND bill_id = ?", userID, v.bill.ID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.VoteNone, domain.Classification{}, nil
	}
	if err != nil {
		return domain.VoteNone, domain.Classification{}, fmt.Errorf("load vote: %w", err)
	}
	return domain.VoteStatus(m.Status), m.Classification.Data(), nil
}

func (v *voteTx) SaveVote(ctx context.Context, userID int64, status domain.VoteStatus, c domain.Classification) error {
	m := userVoteModel{
		UserID:         userID,
		BillID:         v.bill.ID,
		Status:         string(status),
		Classification: datatypes.NewJSONType(c),
	}
	err := v.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "bill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "classification", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("save vote: %w", err)
	}
	return nil
}

func (v *voteTx) DeleteVote(ctx context.Context, userID int64) error {
	err := v.tx.WithContext(ctx).Where("user_id = ? AND bill_id = ?", userID, v.bill.ID).Delete(&userVoteModel{}).Error
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

// VoteRecord returns the stored record or a zeroed one when none exists yet.
func (v *voteTx) VoteRecord(ctx context.Context) (domain.VoteRecord, error) {
	var m voteRecordModel
	err := v.tx.WithContext(ctx).Where("bill_id = ?", v.bill.ID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewVoteRecord(v.bill.ID), nil
	}
	if err != nil {
		return domain.VoteRecord{}, fmt.Errorf("load vote record: %w", err)
	}
	return m.toDomain(), nil
}

func (v *voteTx) SaveVoteRecord(ctx context.Context, rec domain.VoteRecord) error {
	m := voteRecordModel{
		BillID:   v.bill.ID,
		Upvote:   datatypes.NewJSONType(rec.Upvote),
		Downvote: datatypes.NewJSONType(rec.Downvote),
	}
	err := v.tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"upvote", "downvote", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return fmt.Errorf("save vote record: %w", err)
	}
	return nil
}

func (v *voteTx) SaveCounters(ctx context.Context, c domain.VoteCounters) error {
	err := v.tx.WithContext(ctx).Model(&billModel{}).Where("id = ?", v.bill.ID).Updates(map[string]any{
		"vote_count":     c.Votes,
		"upvote_count":   c.Upvotes,
		"downvote_count": c.Downvotes,
		"updated_at":     time.Now().UTC(),
	}).Error
	if err != nil {
		return fmt.Errorf("save counters: %w", err)
	}
	v.bill.Counters = c
	return nil
}
