package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"hotelmgt/internal/activity/domain"
)

func TestHasNewData(t *testing.T) {
	nine, ten := at(9, 0), at(10, 0)

	testCases := []struct {
		name        string
		activityMax *time.Time
		paymentMax  *time.Time
		wm          domain.Watermark
		want        bool
	}{
		{"no rows, no marks", nil, nil, domain.Watermark{}, false},
		{"rows, no marks", &nine, nil, domain.Watermark{}, true},
		{"unchanged", &nine, &ten, domain.Watermark{LastActivityMax: &nine, LastPaymentMax: &ten}, false},
		{"newer activity", &ten, &ten, domain.Watermark{LastActivityMax: &nine, LastPaymentMax: &ten}, true},
		{"newer payment", &nine, &ten, domain.Watermark{LastActivityMax: &nine, LastPaymentMax: &nine}, true},
		{"older than mark", &nine, nil, domain.Watermark{LastActivityMax: &ten}, false},
		{"rows removed", nil, nil, domain.Watermark{LastActivityMax: &nine}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			activities, payments := newSources()
			activities.max, payments.max = tc.activityMax, tc.paymentMax
			tracker := NewTracker(time.Second, nil, activities, payments)

			got, err := tracker.HasNewData(context.Background(), domain.NewFilter(testDay, nil, nil), tc.wm)
			if err != nil {
				t.Fatalf("HasNewData: %v", err)
			}
			if got != tc.want {
				t.Errorf("HasNewData = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHasNewData_AfterMergeIsMonotonic(t *testing.T) {
	activities, payments := newSources()
	activities.add(activityEvent(at(9, 0), "Login"))
	payments.add(paymentEvent(at(10, 15)))
	agg := NewAggregator(time.Second, nil, activities, payments)
	tracker := NewTracker(time.Second, nil, activities, payments)
	f := domain.NewFilter(testDay, nil, strPtr("payment"))

	res, err := agg.Merge(context.Background(), f)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	for i := 0; i < 3; i++ {
		changed, err := tracker.HasNewData(context.Background(), f, res.Watermark)
		if err != nil {
			t.Fatalf("HasNewData: %v", err)
		}
		if changed {
			t.Fatalf("check %d: unchanged data reported as new", i)
		}
	}

	// A new row of a type the filter hides still counts: the watermark is type-unaware.
	activities.add(activityEvent(at(11, 0), "Login"))
	changed, err := tracker.HasNewData(context.Background(), f, res.Watermark)
	if err != nil {
		t.Fatalf("HasNewData: %v", err)
	}
	if !changed {
		t.Error("newer activity row should be reported")
	}
}

func TestHasNewData_PassesScopeOnly(t *testing.T) {
	activities, payments := newSources()
	tracker := NewTracker(time.Second, nil, activities, payments)

	f := domain.NewFilter(testDay.Add(8*time.Hour), int64Ptr(9), strPtr("checkin"))
	if _, err := tracker.HasNewData(context.Background(), f, domain.Watermark{}); err != nil {
		t.Fatalf("HasNewData: %v", err)
	}
	q := payments.gotQuery
	if !q.Day.Equal(testDay) || q.EmployeeID == nil || *q.EmployeeID != 9 {
		t.Errorf("query = %+v, want day %v employee 9", q, testDay)
	}
}

func TestHasNewData_SourceError(t *testing.T) {
	activities, payments := newSources()
	boom := errors.New("timeout")
	activities.maxErr = boom
	metrics := NewMetrics(prometheus.NewRegistry())
	tracker := NewTracker(time.Second, metrics, activities, payments)

	changed, err := tracker.HasNewData(context.Background(), domain.NewFilter(testDay, nil, nil), domain.Watermark{})
	if changed {
		t.Error("changed should be false on error")
	}
	if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, boom) {
		t.Errorf("err = %v, want ErrSourceUnavailable wrapping cause", err)
	}
	if got := testutil.ToFloat64(metrics.stalenessChecks.WithLabelValues(resultError)); got != 1 {
		t.Errorf("error checks metric = %v, want 1", got)
	}
}

func TestHasNewData_MissingDate(t *testing.T) {
	tracker := NewTracker(time.Second, nil)
	if _, err := tracker.HasNewData(context.Background(), domain.FilterState{}, domain.Watermark{}); !errors.Is(err, domain.ErrFilterDateRequired) {
		t.Errorf("err = %v, want ErrFilterDateRequired", err)
	}
}
