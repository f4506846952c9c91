package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotelmgt/internal/activity/domain"
)

type stubMerger struct {
	mu    sync.Mutex
	calls []domain.FilterState
	err   error

	// Merges for slowDay block until release is closed; entered is signalled on entry.
	slowDay time.Time
	entered chan struct{}
	release chan struct{}
}

func (m *stubMerger) Merge(_ context.Context, f domain.FilterState) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, f)
	err := m.err
	m.mu.Unlock()

	if !m.slowDay.IsZero() && f.Date.Equal(m.slowDay) {
		m.entered <- struct{}{}
		<-m.release
	}
	if err != nil {
		return nil, err
	}
	mark := f.Date.Add(9 * time.Hour)
	return &Result{Filter: f, Date: f.Date, Watermark: domain.Watermark{LastActivityMax: &mark}}, nil
}

func (m *stubMerger) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

type stubChecker struct {
	mu      sync.Mutex
	changed bool
	err     error
	calls   int
	gotWM   domain.Watermark
}

func (c *stubChecker) HasNewData(_ context.Context, _ domain.FilterState, wm domain.Watermark) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.gotWM = wm
	return c.changed, c.err
}

func newSlowMerger(slow time.Time) *stubMerger {
	return &stubMerger{slowDay: slow, entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSession_ApplyStoresWatermark(t *testing.T) {
	merger := &stubMerger{}
	s := NewSession("s-1", domain.NewFilter(testDay, nil, nil), merger, &stubChecker{})
	next := testDay.AddDate(0, 0, 1)

	res, err := s.Apply(context.Background(), domain.NewFilter(next, nil, nil))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if s.Last() != res {
		t.Error("Last should be the applied result")
	}
	wm := s.Watermark()
	if wm.LastActivityMax == nil || !wm.LastActivityMax.Equal(next.Add(9*time.Hour)) {
		t.Errorf("Watermark = %+v, want the merge's watermark", wm)
	}
	if !s.Filter().Date.Equal(next) {
		t.Errorf("Filter date = %v, want %v", s.Filter().Date, next)
	}
}

func TestSession_ApplyInvalidFilter(t *testing.T) {
	merger := &stubMerger{}
	s := NewSession("s-1", domain.NewFilter(testDay, nil, nil), merger, &stubChecker{})

	if _, err := s.Apply(context.Background(), domain.FilterState{}); !errors.Is(err, domain.ErrFilterDateRequired) {
		t.Errorf("err = %v, want ErrFilterDateRequired", err)
	}
	if merger.callCount() != 0 {
		t.Error("invalid filter should not merge")
	}
	if !s.Filter().Date.Equal(testDay) {
		t.Error("invalid filter should not replace the current one")
	}
}

func TestSession_ApplyFailureClearsState(t *testing.T) {
	merger := &stubMerger{}
	s := NewSession("s-1", domain.NewFilter(testDay, nil, nil), merger, &stubChecker{})
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	merger.err = ErrSourceUnavailable
	if _, err := s.Apply(context.Background(), domain.NewFilter(testDay.AddDate(0, 0, 1), nil, nil)); !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
	if s.Last() != nil {
		t.Error("Last should be cleared after a failed filter change")
	}
	if wm := s.Watermark(); wm.LastActivityMax != nil || wm.LastPaymentMax != nil {
		t.Errorf("Watermark = %+v, want empty", wm)
	}
}

func TestSession_RefreshDroppedWhileMergeInFlight(t *testing.T) {
	merger := newSlowMerger(testDay)
	s := NewSession("s-1", domain.NewFilter(testDay, nil, nil), merger, &stubChecker{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Refresh(context.Background())
		done <- err
	}()
	<-merger.entered

	if _, err := s.Refresh(context.Background()); !errors.Is(err, ErrMergeInFlight) {
		t.Errorf("second Refresh err = %v, want ErrMergeInFlight", err)
	}
	close(merger.release)
	if err := <-done; err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	if merger.callCount() != 1 {
		t.Errorf("merges = %d, want 1", merger.callCount())
	}
}

func TestSession_FilterChangeSupersedesInFlightMerge(t *testing.T) {
	merger := newSlowMerger(testDay)
	s := NewSession("s-1", domain.NewFilter(testDay, nil, nil), merger, &stubChecker{})
	next := testDay.AddDate(0, 0, 1)

	refreshed := make(chan error, 1)
	go func() {
		_, err := s.Refresh(context.Background())
		refreshed <- err
	}()
	<-merger.entered

	type outcome struct {
		res *Result
		err error
	}
	applied := make(chan outcome, 1)
	go func() {
		res, err := s.Apply(context.Background(), domain.NewFilter(next, nil, nil))
		applied <- outcome{res, err}
	}()
	waitFor(t, func() bool { return s.Filter().Date.Equal(next) })
	close(merger.release)

	if err := <-refreshed; !errors.Is(err, ErrSuperseded) {
		t.Errorf("stale Refresh err = %v, want ErrSuperseded", err)
	}
	out := <-applied
	if out.err != nil {
		t.Fatalf("Apply: %v", out.err)
	}
	if !out.res.Date.Equal(next) || !s.Last().Date.Equal(next) {
		t.Errorf("result date = %v, want %v", out.res.Date, next)
	}
	if merger.callCount() != 2 {
		t.Errorf("merges = %d, want 2", merger.callCount())
	}
}

func TestSession_HasNewData(t *testing.T) {
	checker := &stubChecker{}
	s := NewSession("s-1", domain.NewFilter(testDay, nil, nil), &stubMerger{}, checker)

	changed, err := s.HasNewData(context.Background())
	if err != nil || !changed {
		t.Fatalf("before first merge: changed=%v err=%v, want true", changed, err)
	}
	if checker.calls != 0 {
		t.Error("checker should not run before the first merge")
	}

	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	changed, err = s.HasNewData(context.Background())
	if err != nil || changed {
		t.Fatalf("after merge: changed=%v err=%v, want false", changed, err)
	}
	if checker.gotWM.LastActivityMax == nil {
		t.Error("checker should receive the session watermark")
	}
}

func TestSession_Poll(t *testing.T) {
	boom := errors.New("db down")

	testCases := []struct {
		name        string
		changed     bool
		checkErr    error
		mergeErr    error
		wantChanged bool
		wantErr     error
		wantMerges  int
	}{
		{"nothing new", false, nil, nil, false, nil, 1},
		{"check fails", false, boom, nil, false, nil, 1},
		{"new data", true, nil, nil, true, nil, 2},
		{"merge fails", true, nil, boom, false, boom, 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			merger := &stubMerger{}
			checker := &stubChecker{changed: tc.changed, err: tc.checkErr}
			s := NewSession("s-1", domain.NewFilter(testDay, nil, nil), merger, checker)
			if _, err := s.Refresh(context.Background()); err != nil {
				t.Fatalf("Refresh: %v", err)
			}
			merger.err = tc.mergeErr

			res, changed, err := s.Poll(context.Background())
			if changed != tc.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tc.wantChanged)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantChanged && res == nil {
				t.Error("result should be set when changed")
			}
			if !tc.wantChanged && res != nil {
				t.Error("result should be nil when unchanged")
			}
			if merger.callCount() != tc.wantMerges {
				t.Errorf("merges = %d, want %d", merger.callCount(), tc.wantMerges)
			}
		})
	}
}

func TestIsSkippable(t *testing.T) {
	if !IsSkippable(ErrMergeInFlight) || !IsSkippable(ErrSuperseded) {
		t.Error("in-flight and superseded merges should be skippable")
	}
	if IsSkippable(ErrSourceUnavailable) || IsSkippable(nil) {
		t.Error("source failures and nil are not skippable")
	}
}
