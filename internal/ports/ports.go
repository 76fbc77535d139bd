package ports

import (
	"context"
	"time"

	"PolicyPal/internal/domain"
)

// BillSource pulls bill listings, details and text from the upstream API.
type BillSource interface {
	FetchBillPage(ctx context.Context, congress, offset, limit int) (domain.BillPage, error)
	FetchRecentBills(ctx context.Context, congress int, since time.Time) ([]domain.BillEntry, error)
	FetchBillDetail(ctx context.Context, url string) (domain.BillDetail, bool)
	FetchBillText(ctx context.Context, key domain.BillKey, fullText bool) string
}

// RateLimiter paces outbound requests.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// BillRepository persists bill content written by the reconciler.
type BillRepository interface {
	FindByKey(ctx context.Context, key domain.BillKey) (domain.Bill, bool, error)
	Insert(ctx context.Context, bill domain.Bill) (domain.Bill, error)
	UpdateContent(ctx context.Context, bill domain.Bill) error
}

// BillCatalog serves read-side queries over stored bills.
type BillCatalog interface {
	Get(ctx context.Context, id int64) (domain.Bill, error)
	List(ctx context.Context, q domain.ListQuery) (domain.BillList, error)
	Trending(ctx context.Context, limit int) ([]domain.Bill, error)
	Search(ctx context.Context, keyword string, limit int) ([]domain.Bill, error)
	Recent(ctx context.Context, limit int) ([]domain.Bill, error)
	Count(ctx context.Context) (int64, error)
}

// Summarizer produces an AI summary of bill text.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, text string) (string, error)
}

// TrackingRepository stores the batch ingestion cursor.
type TrackingRepository interface {
	Offset(ctx context.Context) (int, error)
	AdvanceOffset(ctx context.Context, by int) (int, error)
	ResetOffset(ctx context.Context) error
}

// VoteTx is the view of storage available while a bill row is locked.
type VoteTx interface {
	Bill() domain.Bill
	User(ctx context.Context, userID int64) (domain.User, error)
	CurrentVote(ctx context.Context, userID int64) (domain.VoteStatus, domain.Classification, error)
	SaveVote(ctx context.Context, userID int64, status domain.VoteStatus, c domain.Classification) error
	DeleteVote(ctx context.Context, userID int64) error
	VoteRecord(ctx context.Context) (domain.VoteRecord, error)
	SaveVoteRecord(ctx context.Context, rec domain.VoteRecord) error
	SaveCounters(ctx context.Context, c domain.VoteCounters) error
}

// VoteStore runs ledger mutations serialized per bill.
type VoteStore interface {
	WithBill(ctx context.Context, billID int64, fn func(tx VoteTx) error) error
	VoteRecord(ctx context.Context, billID int64) (domain.VoteRecord, bool, error)
	UserVotes(ctx context.Context, userID int64) (map[int64]domain.VoteStatus, error)
}

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByLogin(ctx context.Context, login string) (domain.User, error)
	UpdateProfile(ctx context.Context, id int64, profile domain.Profile) (domain.User, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints and verifies access tokens.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// RunLock guards a scheduled job against overlapping runs.
type RunLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// Notifier streams ingestion digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when jobs execute.
type Scheduler interface {
	Add(spec string, job func()) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
