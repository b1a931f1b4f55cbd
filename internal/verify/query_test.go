package verify

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/gracobjo/efactura/internal/gateway"
	"github.com/gracobjo/efactura/internal/validation"
)

// fakeGateway scripts lookup outcomes and counts calls. Release, when set,
// lets the test decide when each call returns.
type fakeGateway struct {
	mu      sync.Mutex
	calls   int
	snaps   map[string]*gateway.Snapshot
	errs    map[string]error
	release map[string]chan struct{}
}

func (f *fakeGateway) Verify(ctx context.Context, id string) (*gateway.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	ch := f.release[id]
	f.mu.Unlock()

	if ch != nil {
		<-ch
	}
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	return f.snaps[id], nil
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// waitForCalls blocks until n gateway calls have started.
func (f *fakeGateway) waitForCalls(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < 10000; i++ {
		if f.callCount() >= n {
			return
		}
		runtime.Gosched()
	}
	t.Fatalf("gateway never reached %d calls", n)
}

func snapshotABC123() *gateway.Snapshot {
	return &gateway.Snapshot{
		Number: "F-001",
		Date:   "2024-01-01",
		Customer: gateway.SnapshotCustomer{
			Name:  "Juan Pérez",
			TaxID: "12345678A",
		},
		Total:        "100.00",
		Tax:          "21.00",
		TotalWithTax: "121.00",
	}
}

func TestEmptyIdentifierFailsLocally(t *testing.T) {
	gw := &fakeGateway{}
	q := NewQuery(gw)

	for _, id := range []string{"", "   ", "\t"} {
		_, err := q.Submit(context.Background(), id)
		var verr *validation.Error
		if !errors.As(err, &verr) {
			t.Fatalf("Submit(%q) error = %T, want *validation.Error", id, err)
		}
	}
	if gw.callCount() != 0 {
		t.Errorf("empty identifiers issued %d network calls", gw.callCount())
	}
	if q.Err() == "" {
		t.Error("local validation error not recorded on the model")
	}
}

func TestSuccessStoresSnapshotAndClearsError(t *testing.T) {
	gw := &fakeGateway{
		snaps: map[string]*gateway.Snapshot{"ABC123": snapshotABC123()},
		errs:  map[string]error{"BAD": &gateway.APIError{StatusCode: 404, Message: "Factura no encontrada"}},
	}
	q := NewQuery(gw)

	// First a failure, then a success: the error must be cleared.
	if _, err := q.Submit(context.Background(), "BAD"); err == nil {
		t.Fatal("expected lookup failure")
	}
	if q.Err() != "Factura no encontrada" {
		t.Errorf("error after failure = %q", q.Err())
	}

	snap, err := q.Submit(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if *snap != *snapshotABC123() {
		t.Errorf("snapshot = %+v", *snap)
	}
	if got, ok := q.Result(); !ok || *got != *snapshotABC123() {
		t.Errorf("model result = %+v, ok=%v", got, ok)
	}
	if q.Err() != "" {
		t.Errorf("error not cleared after success: %q", q.Err())
	}
}

func TestFailureClearsPriorResult(t *testing.T) {
	gw := &fakeGateway{
		snaps: map[string]*gateway.Snapshot{"ABC123": snapshotABC123()},
		errs:  map[string]error{"GONE": &gateway.APIError{StatusCode: 404, Message: "Factura no encontrada"}},
	}
	q := NewQuery(gw)

	if _, err := q.Submit(context.Background(), "ABC123"); err != nil {
		t.Fatal(err)
	}
	if _, err := q.Submit(context.Background(), "GONE"); err == nil {
		t.Fatal("expected failure")
	}
	if _, ok := q.Result(); ok {
		t.Error("stale result survived a failed query")
	}
	if q.Err() != "Factura no encontrada" {
		t.Errorf("error = %q", q.Err())
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	slowRelease := make(chan struct{})
	gw := &fakeGateway{
		snaps: map[string]*gateway.Snapshot{
			"SLOW": {Number: "F-OLD"},
			"FAST": {Number: "F-NEW"},
		},
		release: map[string]chan struct{}{"SLOW": slowRelease},
	}
	q := NewQuery(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Submit(context.Background(), "SLOW")
	}()
	gw.waitForCalls(t, 1)

	// The second submission supersedes the first while it is in flight.
	if _, err := q.Submit(context.Background(), "FAST"); err != nil {
		t.Fatal(err)
	}

	// Let the superseded request resolve out of order.
	close(slowRelease)
	wg.Wait()

	got, ok := q.Result()
	if !ok {
		t.Fatal("no result on the model")
	}
	if got.Number != "F-NEW" {
		t.Errorf("model kept stale response %q, want F-NEW", got.Number)
	}
}

func TestLocalValidationSupersedesInFlightLookup(t *testing.T) {
	slowRelease := make(chan struct{})
	gw := &fakeGateway{
		snaps:   map[string]*gateway.Snapshot{"SLOW": {Number: "F-OLD"}},
		release: map[string]chan struct{}{"SLOW": slowRelease},
	}
	q := NewQuery(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Submit(context.Background(), "SLOW")
	}()
	gw.waitForCalls(t, 1)

	// A whitespace identifier fails locally but is still the latest
	// submission; the in-flight lookup is superseded by it.
	if _, err := q.Submit(context.Background(), "   "); err == nil {
		t.Fatal("expected local validation failure")
	}

	close(slowRelease)
	wg.Wait()

	if _, ok := q.Result(); ok {
		t.Error("superseded lookup overwrote the local validation error with a result")
	}
	if q.Err() != "Por favor ingresa un ID de factura" {
		t.Errorf("error = %q, want the local validation message", q.Err())
	}
}

func TestStaleErrorDoesNotOverwriteFreshResult(t *testing.T) {
	slowRelease := make(chan struct{})
	gw := &fakeGateway{
		snaps: map[string]*gateway.Snapshot{"FAST": {Number: "F-NEW"}},
		errs:  map[string]error{"SLOW": &gateway.APIError{StatusCode: 500, Message: "Error interno"}},
		release: map[string]chan struct{}{
			"SLOW": slowRelease,
		},
	}
	q := NewQuery(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		q.Submit(context.Background(), "SLOW")
	}()
	gw.waitForCalls(t, 1)

	if _, err := q.Submit(context.Background(), "FAST"); err != nil {
		t.Fatal(err)
	}

	close(slowRelease)
	wg.Wait()

	if q.Err() != "" {
		t.Errorf("stale error overwrote fresh state: %q", q.Err())
	}
	if got, ok := q.Result(); !ok || got.Number != "F-NEW" {
		t.Errorf("result = %+v, ok=%v", got, ok)
	}
}
