// =============================================================================
// eFactura Client - Verification Query Model
// =============================================================================
//
// Holds one identifier lookup and the read-only snapshot it resolves to.
// Result and error are mutually exclusive; both are cleared when a new
// query begins.
//
// Concurrent queries are not coalesced: each Submit call is an independent
// request. The model must reflect the outcome of the LATEST request only,
// so every submission takes a monotonically increasing sequence number and
// responses carrying a superseded number are discarded instead of
// overwriting fresher state.
//
// =============================================================================

package verify

import (
	"context"
	"strings"
	"sync"

	"github.com/gracobjo/efactura/internal/gateway"
	"github.com/gracobjo/efactura/internal/validation"
)

// Gateway is the lookup operation the model depends on.
type Gateway interface {
	Verify(ctx context.Context, id string) (*gateway.Snapshot, error)
}

// Query is the verification request-state model.
type Query struct {
	mu      sync.Mutex
	gw      Gateway
	seq     uint64
	pending int
	result  *gateway.Snapshot
	errMsg  string
}

// NewQuery builds a query model against the given gateway.
func NewQuery(gw Gateway) *Query {
	return &Query{gw: gw}
}

// Submit validates the identifier and performs the lookup. An empty or
// whitespace identifier fails locally and issues no network call. The
// returned values belong to this submission; the model itself only keeps
// the outcome of the latest one.
func (q *Query) Submit(ctx context.Context, id string) (*gateway.Snapshot, error) {
	if strings.TrimSpace(id) == "" {
		err := &validation.Error{Field: "id", Message: "Por favor ingresa un ID de factura"}
		q.mu.Lock()
		// A local failure is still the latest submission: bump the
		// sequence so earlier in-flight lookups resolve as stale.
		q.seq++
		q.result = nil
		q.errMsg = err.Message
		q.mu.Unlock()
		return nil, err
	}

	q.mu.Lock()
	q.seq++
	mine := q.seq
	q.pending++
	// A new query clears both prior outcomes.
	q.result = nil
	q.errMsg = ""
	q.mu.Unlock()

	snap, err := q.gw.Verify(ctx, id)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if mine != q.seq {
		// A newer submission exists; this response is stale.
		return snap, err
	}
	if err != nil {
		q.result = nil
		q.errMsg = err.Error()
		return nil, err
	}
	q.result = snap
	q.errMsg = ""
	return snap, nil
}

// Result returns the snapshot of the latest completed query, if any.
func (q *Query) Result() (*gateway.Snapshot, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result, q.result != nil
}

// Err returns the error message of the latest completed query, or "".
func (q *Query) Err() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.errMsg
}

// InFlight reports whether any submission is still outstanding.
func (q *Query) InFlight() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending > 0
}
