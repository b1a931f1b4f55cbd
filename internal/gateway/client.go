// =============================================================================
// eFactura Client - API Gateway
// =============================================================================
//
// HTTP interface to the eFactura backend. The client is an explicitly
// constructed object injected into every component that talks to the
// gateway, so tests can point it at a fake server.
//
// OPERATIONS:
//   POST /factura           - create an invoice, returns the PDF artifact
//   GET  /verificar/{id}    - read-only snapshot of an issued invoice
//   POST /migrar-facturas   - multipart upload of legacy PDFs
//   GET  /factura/{id}/pdf  - PDF artifact of a migrated invoice
//
// ERROR CONTRACT:
//   Non-2xx responses carry a JSON body with a "message" field which is
//   surfaced to the user verbatim. When no structured message is available
//   (transport failure, malformed body) the caller-supplied fallback is
//   used instead. There are no retries and no client-side timeout unless
//   the injected http.Client carries one; every call takes a context so the
//   caller can cancel.
//
// =============================================================================

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gracobjo/efactura/internal/invoice"
)

// Fallback messages shown when the gateway gives no structured message.
const (
	fallbackCreate   = "Error al crear la factura"
	fallbackVerify   = "Error al verificar la factura"
	fallbackMigrate  = "Error al migrar las facturas"
	fallbackDownload = "Error al descargar el PDF"
)

// APIError is a gateway-reported failure: an HTTP status plus the message
// the backend attached to it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NotFound reports whether the error is a gateway 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Client talks to one eFactura gateway.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a client for the gateway at baseURL. A nil httpc gets a plain
// http.Client with no timeout; requests then wait indefinitely, which is
// the observed behavior of the original client.
func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// BaseURL returns the configured gateway address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Snapshot is the read-only invoice record returned by the verification
// endpoint. Amounts arrive pre-formatted by the gateway and are kept
// verbatim.
type Snapshot struct {
	Number       string           `json:"numero"`
	Date         string           `json:"fecha"`
	Customer     SnapshotCustomer `json:"cliente"`
	Total        string           `json:"total"`
	Tax          string           `json:"iva"`
	TotalWithTax string           `json:"total_con_iva"`
}

// SnapshotCustomer is the customer block of a verification snapshot.
type SnapshotCustomer struct {
	Name  string `json:"nombre"`
	TaxID string `json:"identificacion"`
}

// MigratedInvoice is one entry of a migration response.
type MigratedInvoice struct {
	SourceName    string      `json:"archivo_original"`
	NewInvoiceID  json.Number `json:"id_factura_nueva"`
	InvoiceNumber string      `json:"numero_factura"`
	Total         string      `json:"total"`
	PDFPath       string      `json:"pdf_nuevo"`
}

// MigrationResponse is the body of a successful migration call.
type MigrationResponse struct {
	Message  string            `json:"message"`
	Migrated []MigratedInvoice `json:"facturas_migradas"`
}

// CreateInvoice submits a draft payload and returns the generated PDF.
func (c *Client) CreateInvoice(ctx context.Context, p invoice.Payload) ([]byte, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/factura", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &APIError{Message: fallbackCreate}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp, fallbackCreate)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fallbackCreate}
	}
	return pdf, nil
}

// Verify fetches the snapshot of the invoice with the given identifier.
func (c *Client) Verify(ctx context.Context, id string) (*Snapshot, error) {
	endpoint := c.baseURL + "/verificar/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &APIError{Message: fallbackVerify}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp, fallbackVerify)
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, &APIError{Message: fallbackVerify}
	}
	return &snap, nil
}

// Migrate uploads the given PDF files as one multipart request under the
// repeated "files" field and returns the gateway's migration report.
func (c *Client) Migrate(ctx context.Context, paths []string) (*MigrationResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, path := range paths {
		if err := appendFilePart(mw, path); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/migrar-facturas", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &APIError{Message: fallbackMigrate}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp, fallbackMigrate)
	}

	var out MigrationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &APIError{Message: fallbackMigrate}
	}
	return &out, nil
}

// DownloadPDF fetches the PDF artifact of a previously migrated invoice.
func (c *Client) DownloadPDF(ctx context.Context, id string) ([]byte, error) {
	endpoint := c.baseURL + "/factura/" + url.PathEscape(id) + "/pdf"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &APIError{Message: fallbackDownload}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp, fallbackDownload)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fallbackDownload}
	}
	return pdf, nil
}

// appendFilePart streams one file into the multipart body.
func appendFilePart(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to add %s to upload: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return nil
}

// decodeError turns a non-2xx response into an APIError, preferring the
// gateway's own message over the fallback.
func decodeError(resp *http.Response, fallback string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: fallback}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		apiErr.Message = payload.Message
	}
	return apiErr
}
