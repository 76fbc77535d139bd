package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"PolicyPal/internal/domain"
	"PolicyPal/internal/logging"
)

func newTestIngestor(src *fakeSource, bills *fakeBills) *Ingestor {
	return NewIngestor(IngestorDeps{
		Source:          src,
		Reconciler:      newTestReconciler(src, bills, &fakeSummarizer{}),
		Logger:          logging.Nop(),
		CurrentCongress: 118,
		Now:             func() time.Time { return fixedNow },
	})
}

func TestBatchScrapeCountsOutcomes(t *testing.T) {
	t.Parallel()

	bills := newFakeBills()
	existing := domain.BillKey{Congress: 118, Type: "HR", Number: "2"}
	bills.byKey[existing] = domain.Bill{ID: 1, Key: existing}

	src := &fakeSource{page: domain.BillPage{
		Entries:   []domain.BillEntry{entry("1", "First"), entry("2", "Second"), entry("", "Broken")},
		Available: 1200,
	}}

	result, err := newTestIngestor(src, bills).BatchScrape(context.Background(), 118, 30, 3)
	if err != nil {
		t.Fatalf("BatchScrape error: %v", err)
	}
	if result.Fetched != 3 || result.Inserted != 1 || result.Updated != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Available != 1200 {
		t.Fatalf("available = %d", result.Available)
	}
	if len(result.Titles) != 1 || result.Titles[0] != "First" {
		t.Fatalf("titles = %v", result.Titles)
	}
}

func TestDailyUpdateUsesRollingWindow(t *testing.T) {
	t.Parallel()

	src := &fakeSource{recent: []domain.BillEntry{entry("5", "Fresh")}}
	bills := newFakeBills()

	result, err := newTestIngestor(src, bills).DailyUpdate(context.Background())
	if err != nil {
		t.Fatalf("DailyUpdate error: %v", err)
	}
	if result.Inserted != 1 {
		t.Fatalf("inserted = %d", result.Inserted)
	}
	if want := fixedNow.Add(-24 * time.Hour); !src.since.Equal(want) {
		t.Fatalf("since = %v, want %v", src.since, want)
	}
}

func TestBuildDigestMessage(t *testing.T) {
	t.Parallel()

	if msg := buildDigestMessage(domain.BatchResult{Updated: 4}); msg != "" {
		t.Fatalf("expected no digest without inserts, got %q", msg)
	}
	msg := buildDigestMessage(domain.BatchResult{Inserted: 2, Updated: 1, Titles: []string{"A", "B"}})
	if !strings.HasPrefix(msg, "2 new bills ingested") || !strings.Contains(msg, "- A\n") || !strings.Contains(msg, "- B\n") {
		t.Fatalf("unexpected digest: %q", msg)
	}
}

func newTestScheduler(src *fakeSource, tracking *fakeTracking, lock *fakeLock, notifier *fakeNotifier, driver *fakeDriver) *Scheduler {
	deps := SchedulerDeps{
		Ingestor: newTestIngestor(src, newFakeBills()),
		Tracking: tracking,
		Logger:   logging.Nop(),
		PageSize: 3,
		Congress: 118,
	}
	if driver != nil {
		deps.Driver = driver
	}
	if lock != nil {
		deps.Lock = lock
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	return NewScheduler(deps)
}

func TestRunBatchAdvancesOffset(t *testing.T) {
	t.Parallel()

	src := &fakeSource{page: domain.BillPage{Entries: []domain.BillEntry{entry("1", "One")}}}
	tracking := &fakeTracking{offset: 6}
	lock := &fakeLock{}
	s := newTestScheduler(src, tracking, lock, nil, nil)

	for i := 0; i < 2; i++ {
		ran, err := s.RunBatch(context.Background())
		if err != nil || !ran {
			t.Fatalf("run %d: ran=%v err=%v", i, ran, err)
		}
	}
	if tracking.offset != 12 {
		t.Fatalf("offset = %d, want 12", tracking.offset)
	}
	if len(src.pageCalls) != 2 || src.pageCalls[0] != 6 || src.pageCalls[1] != 9 {
		t.Fatalf("page offsets = %v", src.pageCalls)
	}
	if lock.released != 2 {
		t.Fatalf("lock released %d times", lock.released)
	}
}

func TestRunBatchKeepsOffsetOnListingFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{pageErr: errors.New("upstream 503")}
	tracking := &fakeTracking{offset: 9}
	s := newTestScheduler(src, tracking, &fakeLock{}, nil, nil)

	ran, err := s.RunBatch(context.Background())
	if !ran || err == nil {
		t.Fatalf("expected a failed run, got ran=%v err=%v", ran, err)
	}
	if tracking.offset != 9 {
		t.Fatalf("offset moved to %d", tracking.offset)
	}
}

func TestRunBatchSkipsWhileLocked(t *testing.T) {
	t.Parallel()

	src := &fakeSource{}
	tracking := &fakeTracking{}
	lock := &fakeLock{held: map[string]bool{"job:" + jobBatchScrape: true}}
	s := newTestScheduler(src, tracking, lock, nil, nil)

	ran, err := s.RunBatch(context.Background())
	if err != nil || ran {
		t.Fatalf("expected skip, got ran=%v err=%v", ran, err)
	}
	if len(src.pageCalls) != 0 || tracking.offset != 0 {
		t.Fatalf("locked run touched state: calls=%v offset=%d", src.pageCalls, tracking.offset)
	}
}

func TestRunDailyPublishesDigest(t *testing.T) {
	t.Parallel()

	src := &fakeSource{recent: []domain.BillEntry{entry("3", "Digest me")}}
	notifier := &fakeNotifier{}
	s := newTestScheduler(src, &fakeTracking{}, nil, notifier, nil)

	ran, err := s.RunDaily(context.Background())
	if err != nil || !ran {
		t.Fatalf("ran=%v err=%v", ran, err)
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "Digest me") {
		t.Fatalf("messages = %v", notifier.messages)
	}
}

func TestSchedulerStartRegistersJobs(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{}
	src := &fakeSource{}
	tracking := &fakeTracking{}
	s := newTestScheduler(src, tracking, nil, nil, driver)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if !driver.started || len(driver.jobs) != 2 {
		t.Fatalf("driver started=%v jobs=%d", driver.started, len(driver.jobs))
	}
	if driver.specs[0] != "@every 1m" || driver.specs[1] != "@every 24h" {
		t.Fatalf("specs = %v", driver.specs)
	}

	driver.jobs[0]()
	if tracking.offset != 3 {
		t.Fatalf("batch job did not advance offset: %d", tracking.offset)
	}

	if err := s.Stop(context.Background()); err != nil || !driver.stopped {
		t.Fatalf("Stop err=%v stopped=%v", err, driver.stopped)
	}
}
