package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gracobjo/efactura/internal/invoice"
)

func validCustomer() invoice.Customer {
	return invoice.Customer{
		Name:    "Juan Pérez",
		Address: "Calle Mayor 123, Madrid",
		TaxID:   "12345678A",
	}
}

func TestValidateCustomer(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*invoice.Customer)
		wantErr string
	}{
		{"valid", func(c *invoice.Customer) {}, ""},
		{"missing name", func(c *invoice.Customer) { c.Name = "  " }, "Nombre del cliente requerido"},
		{"missing address", func(c *invoice.Customer) { c.Address = "" }, "Dirección del cliente requerida"},
		{"missing tax id", func(c *invoice.Customer) { c.TaxID = "" }, "Identificación del cliente requerida"},
		{"short tax id", func(c *invoice.Customer) { c.TaxID = "1234" }, "Formato de identificación inválido"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCustomer()
			tc.mutate(&c)
			err := ValidateCustomer(c)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateItems(t *testing.T) {
	ok := invoice.LineItem{Description: "Consultoría", Quantity: 1, UnitPrice: decimal.NewFromInt(50)}

	cases := []struct {
		name    string
		items   []invoice.LineItem
		wantErr string
	}{
		{"valid", []invoice.LineItem{ok}, ""},
		{"zero price is valid", []invoice.LineItem{{Description: "Muestra", Quantity: 1}}, ""},
		{"empty list", nil, "Al menos un item es requerido"},
		{"blank description", []invoice.LineItem{{Description: " ", Quantity: 1}}, "Item 1: descripción requerida"},
		{"zero quantity", []invoice.LineItem{{Description: "x", Quantity: 0}}, "Item 1: cantidad debe ser un número positivo"},
		{"negative price", []invoice.LineItem{ok, {Description: "y", Quantity: 2, UnitPrice: decimal.NewFromInt(-1)}}, "Item 2: precio debe ser un número no negativo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateItems(tc.items)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.wantErr {
				t.Fatalf("error = %v, want %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateErrorCarriesField(t *testing.T) {
	err := ValidateCustomer(invoice.Customer{})
	var verr *Error
	if !asValidationError(err, &verr) {
		t.Fatalf("error %T is not a *validation.Error", err)
	}
	if verr.Field != "cliente.nombre" {
		t.Errorf("field = %q, want cliente.nombre", verr.Field)
	}
}

func asValidationError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}

func TestValidatePDFFile(t *testing.T) {
	dir := t.TempDir()

	pdf := filepath.Join(dir, "factura_2023.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}
	txt := filepath.Join(dir, "notas.txt")
	if err := os.WriteFile(txt, []byte("hola"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := ValidatePDFFile(pdf); err != nil {
		t.Errorf("valid pdf rejected: %v", err)
	}
	if err := ValidatePDFFile(strings.ToUpper(pdf)); err == nil {
		// Case-insensitive extension but the upper-cased path does not exist.
		t.Error("nonexistent file accepted")
	}
	if err := ValidatePDFFile(txt); err == nil || err.Error() != "Solo se permiten archivos PDF" {
		t.Errorf("non-pdf error = %v", err)
	}
	if err := ValidatePDFFile(""); err == nil {
		t.Error("empty path accepted")
	}
	if err := ValidatePDFFile(filepath.Join(dir, "ausente.pdf")); err == nil {
		t.Error("missing file accepted")
	}
}
