package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gracobjo/efactura/internal/invoice"
)

func testDraft() *invoice.Draft {
	d := invoice.NewDraft()
	d.SetCustomerField(invoice.CustomerName, "Juan Pérez")
	d.SetCustomerField(invoice.CustomerAddr, "Calle Mayor 123")
	d.SetCustomerField(invoice.CustomerTaxID, "12345678A")
	d.SetItemDescription(0, "Consultoría")
	d.SetItemQuantity(0, 10)
	d.SetItemPrice(0, decimal.RequireFromString("50.00"))
	return d
}

func TestCreateInvoiceReturnsPDFBytes(t *testing.T) {
	pdf := []byte("%PDF-1.4 generated")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/factura" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}

		var body invoice.Payload
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if body.Customer.Name != "Juan Pérez" || len(body.Items) != 1 || body.Items[0].Price != 50 {
			t.Errorf("payload = %+v", body)
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	got, err := c.CreateInvoice(context.Background(), testDraft().Payload())
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if string(got) != string(pdf) {
		t.Errorf("pdf bytes = %q", got)
	}
}

func TestCreateInvoiceSurfacesGatewayMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Nombre del cliente requerido"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateInvoice(context.Background(), testDraft().Payload())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T, want *APIError", err)
	}
	if apiErr.Message != "Nombre del cliente requerido" {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestCreateInvoiceFallbackMessageOnUnstructuredError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.CreateInvoice(context.Background(), testDraft().Payload())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T, want *APIError", err)
	}
	if apiErr.Message != "Error al crear la factura" {
		t.Errorf("fallback message = %q", apiErr.Message)
	}
}

func TestVerifyDecodesSnapshotVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verificar/ABC123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"numero": "F-001",
			"fecha":  "2024-01-01",
			"cliente": map[string]string{
				"nombre":         "Juan Pérez",
				"identificacion": "12345678A",
			},
			"total":         "100.00",
			"iva":           "21.00",
			"total_con_iva": "121.00",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	snap, err := c.Verify(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	want := Snapshot{
		Number: "F-001",
		Date:   "2024-01-01",
		Customer: SnapshotCustomer{
			Name:  "Juan Pérez",
			TaxID: "12345678A",
		},
		Total:        "100.00",
		Tax:          "21.00",
		TotalWithTax: "121.00",
	}
	if *snap != want {
		t.Errorf("snapshot = %+v, want %+v", *snap, want)
	}
}

func TestVerifyNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Factura no encontrada"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Verify(context.Background(), "NOPE")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T, want *APIError", err)
	}
	if !apiErr.NotFound() {
		t.Errorf("NotFound() = false for status %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Factura no encontrada" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestVerifyTransportErrorGetsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, nil)
	_, err := c.Verify(context.Background(), "ABC123")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T, want *APIError", err)
	}
	if apiErr.Message != "Error al verificar la factura" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestMigrateUploadsEveryFileUnderRepeatedField(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"factura_a.pdf", "factura_b.pdf"} {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte("%PDF-1.4 "+name), 0o644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/migrar-facturas" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Fatalf("received %d files under %q, want 2", len(files), "files")
		}
		if files[0].Filename != "factura_a.pdf" || files[1].Filename != "factura_b.pdf" {
			t.Errorf("filenames = %s, %s", files[0].Filename, files[1].Filename)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"message": "Se migraron 2 facturas exitosamente",
			"facturas_migradas": []map[string]any{
				{"archivo_original": "factura_a.pdf", "id_factura_nueva": 7, "numero_factura": "FAC-20240101-AAAAAA", "total": "100,00 EUR"},
				{"archivo_original": "factura_b.pdf", "id_factura_nueva": 8, "numero_factura": "FAC-20240101-BBBBBB", "total": "250,00 EUR"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	out, err := c.Migrate(context.Background(), paths)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if len(out.Migrated) != 2 {
		t.Fatalf("migrated = %d entries, want 2", len(out.Migrated))
	}
	if out.Migrated[0].NewInvoiceID.String() != "7" {
		t.Errorf("first id = %s", out.Migrated[0].NewInvoiceID)
	}
	if out.Message != "Se migraron 2 facturas exitosamente" {
		t.Errorf("message = %q", out.Message)
	}
}

func TestDownloadPDF(t *testing.T) {
	pdf := []byte("%PDF-1.4 migrated")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/factura/7/pdf" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	got, err := c.DownloadPDF(context.Background(), "7")
	if err != nil {
		t.Fatalf("DownloadPDF: %v", err)
	}
	if string(got) != string(pdf) {
		t.Errorf("pdf = %q", got)
	}
}

func TestContextCancellationAbortsCall(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, nil)
	if _, err := c.Verify(ctx, "ABC123"); err == nil {
		t.Fatal("cancelled call returned no error")
	}
}
