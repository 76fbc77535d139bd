package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"PolicyPal/internal/domain"
)

type fakeSource struct {
	mu        sync.Mutex
	page      domain.BillPage
	pageErr   error
	recent    []domain.BillEntry
	since     time.Time
	details   map[string]domain.BillDetail
	previews  map[string]string
	fullTexts map[string]string
	pageCalls []int
}

func (f *fakeSource) FetchBillPage(_ context.Context, _, offset, _ int) (domain.BillPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, offset)
	return f.page, f.pageErr
}

func (f *fakeSource) FetchRecentBills(_ context.Context, _ int, since time.Time) ([]domain.BillEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = since
	return f.recent, nil
}

func (f *fakeSource) FetchBillDetail(_ context.Context, url string) (domain.BillDetail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[url]
	return d, ok
}

func (f *fakeSource) FetchBillText(_ context.Context, key domain.BillKey, fullText bool) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fullText {
		return f.fullTexts[key.String()]
	}
	return f.previews[key.String()]
}

type fakeBills struct {
	mu      sync.Mutex
	byKey   map[domain.BillKey]domain.Bill
	nextID  int64
	racer   *domain.Bill
	updates int
}

func newFakeBills() *fakeBills {
	return &fakeBills{byKey: map[domain.BillKey]domain.Bill{}}
}

func (f *fakeBills) FindByKey(_ context.Context, key domain.BillKey) (domain.Bill, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.byKey[key]
	return b, ok, nil
}

func (f *fakeBills) Insert(_ context.Context, bill domain.Bill) (domain.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.racer != nil {
		f.byKey[f.racer.Key] = *f.racer
		f.racer = nil
	}
	if _, ok := f.byKey[bill.Key]; ok {
		return domain.Bill{}, domain.ErrDuplicateBill
	}
	f.nextID++
	bill.ID = f.nextID
	f.byKey[bill.Key] = bill
	return bill, nil
}

// UpdateContent mirrors the storage semantics: summary is kept when present, counters untouched.
func (f *fakeBills) UpdateContent(_ context.Context, bill domain.Bill) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byKey[bill.Key]
	if !ok {
		return domain.ErrBillNotFound
	}
	f.updates++
	cur.Title = bill.Title
	cur.LatestAction = bill.LatestAction
	cur.LatestActionDate = bill.LatestActionDate
	cur.UpdateDate = bill.UpdateDate
	cur.TextPreview = bill.TextPreview
	if cur.AISummary == "" {
		cur.AISummary = bill.AISummary
	}
	f.byKey[bill.Key] = cur
	return nil
}

type fakeSummarizer struct {
	mu     sync.Mutex
	calls  int
	result string
	err    error
}

func (f *fakeSummarizer) Name() string { return "fake" }

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}

type fakeTracking struct {
	mu     sync.Mutex
	offset int
}

func (f *fakeTracking) Offset(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offset, nil
}

func (f *fakeTracking) AdvanceOffset(_ context.Context, by int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset += by
	return f.offset, nil
}

func (f *fakeTracking) ResetOffset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offset = 0
	return nil
}

type fakeLock struct {
	mu       sync.Mutex
	held     map[string]bool
	released int
}

func (f *fakeLock) Acquire(_ context.Context, name string, _ time.Duration) (func(), bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[name] {
		return nil, false, nil
	}
	f.held[name] = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, name)
		f.released++
	}, true, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) PublishDigest(_ context.Context, digest string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, digest)
	return nil
}

type fakeDriver struct {
	specs   []string
	jobs    []func()
	started bool
	stopped bool
}

func (f *fakeDriver) Add(spec string, job func()) error {
	if spec == "" {
		return errors.New("empty spec")
	}
	f.specs = append(f.specs, spec)
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeDriver) Start(context.Context) error {
	f.started = true
	return nil
}

func (f *fakeDriver) Stop(context.Context) error {
	f.stopped = true
	return nil
}

func entry(number, title string) domain.BillEntry {
	return domain.BillEntry{
		Congress:      118,
		Type:          "HR",
		Number:        number,
		Title:         title,
		OriginChamber: "House",
		UpdateDate:    "2024-05-02T10:00:00Z",
		URL:           "https://api.example/bill/118/hr/" + number,
		LatestAction:  domain.LatestAction{ActionDate: "2024-05-01", Text: "Introduced"},
		Raw:           []byte(`{"number":"` + number + `"}`),
	}
}
