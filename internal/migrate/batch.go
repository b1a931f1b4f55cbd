// =============================================================================
// eFactura Client - Migration Batch Model
// =============================================================================
//
// Converts previously issued PDF invoices into records the gateway
// recognizes. The model holds the current file selection and the results of
// the last submitted batch.
//
// STATE RULES:
//   - The selection is replaced wholesale on every SelectFiles call.
//   - Results are replaced wholesale from one gateway response, never
//     merged incrementally, and survive later SelectFiles calls.
//   - A successful submission clears the selection; a failed one leaves it
//     intact so the user can retry.
//   - A per-entry download failure is recorded on that entry, not
//     swallowed.
//
// =============================================================================

package migrate

import (
	"context"
	"fmt"
	"sync"

	"github.com/gracobjo/efactura/internal/gateway"
	"github.com/gracobjo/efactura/internal/validation"
	"github.com/gracobjo/efactura/pkg/fileutil"
)

// Gateway is the pair of operations the batch model depends on.
type Gateway interface {
	Migrate(ctx context.Context, paths []string) (*gateway.MigrationResponse, error)
	DownloadPDF(ctx context.Context, id string) ([]byte, error)
}

// Result is one migrated invoice plus the local state of its artifact.
type Result struct {
	gateway.MigratedInvoice

	// SavedPath is where the new PDF was stored, once downloaded.
	SavedPath string

	// DownloadErr records a failed artifact download for this entry.
	DownloadErr string
}

// Batch is the migration request-state model.
type Batch struct {
	mu       sync.Mutex
	gw       Gateway
	selected []string
	results  []Result
	message  string
}

// NewBatch builds a batch model against the given gateway.
func NewBatch(gw Gateway) *Batch {
	return &Batch{gw: gw}
}

// SelectFiles replaces the selection wholesale and clears any prior
// message. Earlier results are kept.
func (b *Batch) SelectFiles(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.selected = append([]string(nil), paths...)
	b.message = ""
}

// Selected returns the current file selection.
func (b *Batch) Selected() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.selected...)
}

// Results returns the entries of the last successful submission.
func (b *Batch) Results() []Result {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Result(nil), b.results...)
}

// Message returns the outcome message of the last submission attempt.
func (b *Batch) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

// Submit validates the selection and sends it to the gateway as one
// multipart batch. An empty selection and invalid files fail locally,
// before any network traffic.
func (b *Batch) Submit(ctx context.Context) (*gateway.MigrationResponse, error) {
	b.mu.Lock()
	paths := append([]string(nil), b.selected...)
	b.mu.Unlock()

	if len(paths) == 0 {
		err := &validation.Error{Field: "archivos", Message: "Por favor selecciona al menos un archivo PDF"}
		b.setMessage(err.Message)
		return nil, err
	}
	for _, path := range paths {
		if err := validation.ValidatePDFFile(path); err != nil {
			b.setMessage(err.Error())
			return nil, err
		}
	}

	resp, err := b.gw.Migrate(ctx, paths)
	if err != nil {
		// The selection stays; the user can correct and retry.
		b.setMessage(err.Error())
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.results = make([]Result, 0, len(resp.Migrated))
	for _, mi := range resp.Migrated {
		b.results = append(b.results, Result{MigratedInvoice: mi})
	}
	b.selected = nil
	b.message = resp.Message
	return resp, nil
}

// DownloadResult fetches the new PDF of one migrated invoice and saves it
// under destDir as factura_migrada_<id>.pdf. A failure is recorded on the
// entry and returned; it never touches the other entries.
func (b *Batch) DownloadResult(ctx context.Context, index int, destDir string) (string, error) {
	b.mu.Lock()
	if index < 0 || index >= len(b.results) {
		b.mu.Unlock()
		return "", fmt.Errorf("no migrated invoice at index %d", index)
	}
	id := b.results[index].NewInvoiceID.String()
	b.mu.Unlock()

	data, err := b.gw.DownloadPDF(ctx, id)
	if err != nil {
		b.setDownloadErr(index, err.Error())
		return "", err
	}

	name := fmt.Sprintf("factura_migrada_%s.pdf", id)
	path, err := fileutil.SaveArtifact(destDir, name, data)
	if err != nil {
		b.setDownloadErr(index, err.Error())
		return "", err
	}

	b.mu.Lock()
	b.results[index].SavedPath = path
	b.results[index].DownloadErr = ""
	b.mu.Unlock()
	return path, nil
}

func (b *Batch) setMessage(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = msg
}

func (b *Batch) setDownloadErr(index int, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index >= 0 && index < len(b.results) {
		b.results[index].DownloadErr = msg
	}
}
