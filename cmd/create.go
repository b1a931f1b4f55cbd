// =============================================================================
// eFactura Client - Create Command
// =============================================================================
//
// Composes an invoice draft from a YAML file, validates it locally, submits
// it to the gateway and saves the returned PDF artifact.
//
// COMMAND USAGE:
//   efactura crear --file borrador.yaml [--out factura.pdf]
//
// DRAFT FILE FORMAT:
//   cliente:
//     nombre: Juan Pérez García
//     direccion: Calle Mayor 123, 28001 Madrid
//     identificacion: 12345678A
//   items:
//     - descripcion: Desarrollo web
//       cantidad: 10
//       precio: 50.00
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gracobjo/efactura/internal/invoice"
	"github.com/gracobjo/efactura/internal/validation"
	"github.com/gracobjo/efactura/pkg/fileutil"
)

// draftFile is the on-disk draft format. Prices are plain YAML numbers and
// become decimals on load.
type draftFile struct {
	Customer invoice.Customer `yaml:"cliente"`
	Items    []struct {
		Description string  `yaml:"descripcion"`
		Quantity    int     `yaml:"cantidad"`
		Price       float64 `yaml:"precio"`
	} `yaml:"items"`
}

var (
	draftPath string
	outName   string
)

var crearCmd = &cobra.Command{
	Use:   "crear",
	Short: "Crea una nueva factura y descarga su PDF",
	Long: `Lee un borrador de factura en YAML, lo valida localmente, lo envía al
gateway y guarda el PDF generado. Si la validación o el gateway rechazan el
borrador, el fichero queda intacto para corregir y reintentar.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCrear(cmd)
	},
}

func init() {
	rootCmd.AddCommand(crearCmd)

	crearCmd.Flags().StringVar(&draftPath, "file", "", "Fichero YAML con el borrador de la factura")
	crearCmd.Flags().StringVar(&outName, "out", "factura.pdf", "Nombre del PDF descargado")
	crearCmd.MarkFlagRequired("file")
}

func runCrear(cmd *cobra.Command) error {
	cfg, client, err := bootstrap()
	if err != nil {
		return err
	}

	draft, err := loadDraft(draftPath)
	if err != nil {
		return err
	}

	if err := validation.ValidateDraft(draft); err != nil {
		return fmt.Errorf("borrador inválido: %w", err)
	}

	totals := draft.ComputeTotals()
	fmt.Printf("Subtotal:   %s €\n", totals.Subtotal.StringFixed(2))
	fmt.Printf("IVA (21%%):  %s €\n", totals.Tax.StringFixed(2))
	fmt.Printf("Total:      %s €\n", totals.Total.StringFixed(2))

	pdf, err := client.CreateInvoice(cmd.Context(), draft.Payload())
	if err != nil {
		return err
	}

	path, err := fileutil.SaveArtifact(cfg.DownloadDir, outName, pdf)
	if err != nil {
		return err
	}

	fmt.Printf("¡Factura creada exitosamente! PDF guardado en %s\n", path)
	return nil
}

// loadDraft reads a YAML draft file into the draft model.
func loadDraft(path string) (*invoice.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no se puede leer el borrador %s: %w", path, err)
	}

	var df draftFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("borrador %s mal formado: %w", path, err)
	}

	draft := invoice.NewDraft()
	draft.Customer = df.Customer
	for i, it := range df.Items {
		idx := i
		if i > 0 {
			idx = draft.AddItem()
		}
		draft.SetItemDescription(idx, it.Description)
		draft.SetItemQuantity(idx, it.Quantity)
		draft.SetItemPrice(idx, decimal.NewFromFloat(it.Price))
	}
	return draft, nil
}
