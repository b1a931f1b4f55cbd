// =============================================================================
// eFactura Client - Main Entry Point
// =============================================================================
//
// Command-line client for the eFactura electronic-invoicing gateway.
//
// USAGE:
//   efactura crear     - Compose and submit a new invoice, save the PDF
//   efactura verificar - Look up an issued invoice by identifier
//   efactura migrar    - Bulk-migrate legacy PDF invoices
//   efactura ui        - Interactive terminal mode (tabbed views)
//   efactura version   - Display the application version
//
// ARCHITECTURE:
//   cmd/       : CLI command definitions (Cobra)
//   internal/  : Core models, gateway client and terminal UI
//   pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/gracobjo/efactura/cmd"
)

func main() {
	cmd.Execute()
}
