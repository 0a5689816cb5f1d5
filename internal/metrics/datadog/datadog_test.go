package datadog

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
)

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []datadogV2.MetricPayload
}

func (f *fakeSubmitter) SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, body)
	return datadogV2.IntakePayloadAccepted{}, nil, nil
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func newTestBackend(t *testing.T, sub *fakeSubmitter) *Backend {
	t.Helper()
	b := New(context.Background(), Options{
		JobName: "test",
		now:     func() time.Time { return time.Unix(1700000000, 0) },
		// A ticker that never fires: tests drive Flush explicitly.
		newTicker: func(d time.Duration) *time.Ticker { return time.NewTicker(time.Hour) },
		submitter: sub,
	})
	return b
}

func TestFlushEmptySubmitsNothing(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)
	defer b.Close()

	if err := b.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sub.count() != 0 {
		t.Fatalf("payloads = %d, want 0", sub.count())
	}
}

func TestFlushSubmitsAndResets(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)
	defer b.Close()

	b.IncCounter("view.rows_built", 3)
	b.IncCounter("view.rows_built", 2)
	b.ObserveDuration("view.merge_project", 120*time.Millisecond)

	if err := b.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sub.count() != 1 {
		t.Fatalf("payloads = %d, want 1", sub.count())
	}

	series := sub.payloads[0].Series
	var counter *datadogV2.MetricSeries
	gauges := 0
	for i := range series {
		switch series[i].Metric {
		case "view.rows_built":
			counter = &series[i]
		case "view.merge_project.p50", "view.merge_project.p95", "view.merge_project.max":
			gauges++
		}
	}
	if counter == nil || *counter.Points[0].Value != 5 {
		t.Fatalf("counter series = %+v", counter)
	}
	if gauges != 3 {
		t.Fatalf("duration gauges = %d, want 3", gauges)
	}

	// Buffers reset: second flush has nothing.
	if err := b.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sub.count() != 1 {
		t.Fatalf("payloads after empty flush = %d", sub.count())
	}
}

func TestNegativeAndZeroValuesIgnored(t *testing.T) {
	sub := &fakeSubmitter{}
	b := newTestBackend(t, sub)
	defer b.Close()

	b.IncCounter("x", 0)
	b.IncCounter("x", -1)
	b.ObserveDuration("y", -time.Second)

	if err := b.Flush(context.Background()); err != nil {
		t.Fatal(err)
	}
	if sub.count() != 0 {
		t.Fatalf("payloads = %d, want 0", sub.count())
	}
}

func TestQuantile(t *testing.T) {
	vals := []float64{4, 1, 3, 2, 5}

	if q := quantile(vals, 0.5); q != 3 {
		t.Fatalf("p50 = %v", q)
	}
	if q := quantile(vals, 1.0); q != 5 {
		t.Fatalf("max = %v", q)
	}
	if q := quantile(nil, 0.5); q != 0 {
		t.Fatalf("empty = %v", q)
	}
}
