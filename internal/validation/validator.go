// =============================================================================
// eFactura Client - Validation Engine
// =============================================================================
//
// Client-side validation, applied before anything is sent to the gateway:
//   - Required customer fields (name, address, tax identification)
//   - Line item rules (description present, quantity >= 1, price >= 0)
//   - PDF upload checks for the migration flow (extension, size cap)
//
// Validation errors are local by definition: they are reported to the user
// next to the offending field and never reach the network. Messages are in
// Spanish because they are user-facing; they mirror the gateway's own
// validation wording so the user sees the same text regardless of which
// side rejects the input.
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gracobjo/efactura/internal/invoice"
)

// MaxPDFSize is the largest migration upload the gateway accepts (16 MiB).
const MaxPDFSize = 16 * 1024 * 1024

// minTaxIDLen is the shortest accepted fiscal identification.
const minTaxIDLen = 8

// Error is a local validation failure tied to one field.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func fieldErr(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidateCustomer checks the required customer fields.
func ValidateCustomer(c invoice.Customer) error {
	if strings.TrimSpace(c.Name) == "" {
		return fieldErr("cliente.nombre", "Nombre del cliente requerido")
	}
	if strings.TrimSpace(c.Address) == "" {
		return fieldErr("cliente.direccion", "Dirección del cliente requerida")
	}
	if strings.TrimSpace(c.TaxID) == "" {
		return fieldErr("cliente.identificacion", "Identificación del cliente requerida")
	}
	if len(strings.TrimSpace(c.TaxID)) < minTaxIDLen {
		return fieldErr("cliente.identificacion", "Formato de identificación inválido")
	}
	return nil
}

// ValidateItems checks every line item. Item numbering in messages is
// 1-based, matching what the user sees on screen.
func ValidateItems(items []invoice.LineItem) error {
	if len(items) == 0 {
		return fieldErr("items", "Al menos un item es requerido")
	}
	for i, it := range items {
		n := i + 1
		if strings.TrimSpace(it.Description) == "" {
			return fieldErr(fmt.Sprintf("items[%d].descripcion", i), "Item %d: descripción requerida", n)
		}
		if it.Quantity < 1 {
			return fieldErr(fmt.Sprintf("items[%d].cantidad", i), "Item %d: cantidad debe ser un número positivo", n)
		}
		if it.UnitPrice.IsNegative() {
			return fieldErr(fmt.Sprintf("items[%d].precio", i), "Item %d: precio debe ser un número no negativo", n)
		}
	}
	return nil
}

// ValidateDraft runs the full pre-submit validation of a draft.
func ValidateDraft(d *invoice.Draft) error {
	if err := ValidateCustomer(d.Customer); err != nil {
		return err
	}
	return ValidateItems(d.Items)
}

// ValidatePDFFile checks that a file selected for migration is an existing
// PDF within the size limit.
func ValidatePDFFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return fieldErr("archivo", "Nombre de archivo requerido")
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fieldErr("archivo", "Solo se permiten archivos PDF")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fieldErr("archivo", "No se puede leer el archivo: %s", filepath.Base(path))
	}
	if info.IsDir() {
		return fieldErr("archivo", "Solo se permiten archivos PDF")
	}
	if info.Size() > MaxPDFSize {
		return fieldErr("archivo", "El archivo es demasiado grande. Máximo: %dMB", MaxPDFSize/(1024*1024))
	}
	return nil
}
