package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"PolicyPal/internal/ports"
)

// JobLocks implements named run-locks as lease rows in job_locks. An expired
// lease can be taken over by the next caller.
type JobLocks struct {
	db *gorm.DB
}

var _ ports.RunLock = (*JobLocks)(nil)

func NewJobLocks(db *gorm.DB) *JobLocks {
	return &JobLocks{db: db}
}

// Acquire takes the lease for ttl. ok is false while another holder's lease is live.
func (l *JobLocks) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	holder := uuid.NewString()
	now := time.Now().UTC()
	lease := jobLockModel{Name: name, Holder: holder, ExpiresAt: now.Add(ttl)}

	res := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"holder":     holder,
			"expires_at": lease.ExpiresAt,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "job_locks.expires_at < ?", Vars: []any{now}},
		}},
	}).Create(&lease)
	if res.Error != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}

	release := func() {
		l.db.Where("name = ? AND holder = ?", name, holder).Delete(&jobLockModel{})
	}
	return release, true, nil
}
