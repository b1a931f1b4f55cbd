// =============================================================================
// eFactura Client - Migrate Command
// =============================================================================
//
// Bulk-migrates legacy PDF invoices through the gateway. Files are given as
// arguments or discovered from a directory; all of them travel in a single
// multipart request. Each migrated invoice can then have its regenerated PDF
// downloaded, the originals archived, and the whole batch summarized in an
// XLSX report.
//
// COMMAND USAGE:
//   efactura migrar factura1.pdf factura2.pdf
//   efactura migrar --dir ./antiguas --download --report resumen.xlsx
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gracobjo/efactura/internal/migrate"
	"github.com/gracobjo/efactura/internal/report"
	"github.com/gracobjo/efactura/pkg/fileutil"
)

var (
	migrateDir string
	download   bool
	reportPath string
	noArchive  bool
)

var migrarCmd = &cobra.Command{
	Use:   "migrar [archivos...]",
	Short: "Migra facturas PDF antiguas al nuevo formato",
	Long: `Envía facturas PDF antiguas al gateway en un único lote y muestra el
resultado de cada una. Con --download descarga además el PDF regenerado de
cada factura migrada; con --report genera un resumen XLSX del lote.

Los archivos se indican como argumentos o se descubren con --dir. La
selección viaja completa: si algún archivo no es un PDF válido, el lote no
se envía.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrar(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(migrarCmd)

	migrarCmd.Flags().StringVar(&migrateDir, "dir", "", "Directorio del que descubrir archivos PDF")
	migrarCmd.Flags().BoolVar(&download, "download", false, "Descargar el PDF regenerado de cada factura migrada")
	migrarCmd.Flags().StringVar(&reportPath, "report", "", "Escribir un resumen XLSX del lote en esta ruta")
	migrarCmd.Flags().BoolVar(&noArchive, "no-archive", false, "No archivar los PDF originales tras migrar")
}

func runMigrar(cmd *cobra.Command, args []string) error {
	cfg, client, err := bootstrap()
	if err != nil {
		return err
	}

	paths := args
	if migrateDir != "" {
		discovered, err := fileutil.DiscoverPDFs(migrateDir)
		if err != nil {
			return err
		}
		paths = append(paths, discovered...)
	}

	batch := migrate.NewBatch(client)
	batch.SelectFiles(paths)

	fmt.Printf("Migrando %d archivo(s)...\n", len(paths))
	start := time.Now()

	resp, err := batch.Submit(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(resp.Message)
	fmt.Println()

	downloaded := 0
	failed := 0
	for i, r := range batch.Results() {
		fmt.Printf("  ✓ %s → %s (total %s)\n", r.SourceName, r.InvoiceNumber, r.Total)

		if download {
			path, err := batch.DownloadResult(cmd.Context(), i, cfg.DownloadDir)
			if err != nil {
				failed++
				fmt.Printf("    ✗ descarga fallida: %v\n", err)
				continue
			}
			downloaded++
			fmt.Printf("    ✓ PDF guardado en %s\n", path)
		}
	}

	if cfg.ArchiveOnSuccess && !noArchive {
		for _, path := range archivablePaths(paths, batch.Results()) {
			archived, err := fileutil.ArchiveFile(path, cfg.ArchiveDir)
			if err != nil {
				fmt.Printf("  ✗ no se pudo archivar %s: %v\n", path, err)
				continue
			}
			if verbose {
				fmt.Printf("  Archivado: %s\n", archived)
			}
		}
	}

	if reportPath != "" {
		if err := report.WriteMigrationXLSX(reportPath, batch.Results()); err != nil {
			return fmt.Errorf("error escribiendo el resumen: %w", err)
		}
		fmt.Printf("\nResumen XLSX: %s\n", reportPath)
	}

	skipped := len(paths) - len(batch.Results())
	if skipped > 0 {
		fmt.Printf("\n%d archivo(s) no migrados; permanecen en su ubicación original.\n", skipped)
	}

	elapsed := time.Since(start)
	fmt.Println()
	fmt.Println("=============================================")
	fmt.Printf("Facturas migradas: %d\n", len(batch.Results()))
	if download {
		fmt.Printf("PDF descargados:   %d\n", downloaded)
		if failed > 0 {
			fmt.Printf("Descargas fallidas: %d\n", failed)
		}
	}
	fmt.Printf("Tiempo total:      %s\n", elapsed.Round(time.Millisecond))
	fmt.Println("=============================================")
	return nil
}

// archivablePaths keeps only the inputs the gateway confirmed as migrated,
// matched by base name against the batch results. On partial success the
// gateway returns fewer entries than files sent; the unconfirmed files must
// stay where they are so the run can be repeated.
func archivablePaths(paths []string, results []migrate.Result) []string {
	migrated := make(map[string]bool, len(results))
	for _, r := range results {
		migrated[r.SourceName] = true
	}
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		if migrated[filepath.Base(path)] {
			out = append(out, path)
		}
	}
	return out
}
