// =============================================================================
// eFactura Client - Verify Command
// =============================================================================
//
// Looks up an issued invoice by identifier and prints its fiscal snapshot.
//
// COMMAND USAGE:
//   efactura verificar <id>
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gracobjo/efactura/internal/verify"
)

var verificarCmd = &cobra.Command{
	Use:   "verificar <id>",
	Short: "Verifica una factura emitida por su identificador",
	Long: `Consulta al gateway por el identificador de una factura emitida y muestra
sus datos fiscales: número, fecha, cliente e importes. Los importes se muestran
tal y como los emite el gateway, sin reformatear.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerificar(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(verificarCmd)
}

func runVerificar(cmd *cobra.Command, id string) error {
	_, client, err := bootstrap()
	if err != nil {
		return err
	}

	query := verify.NewQuery(client)
	query.Submit(cmd.Context(), id)

	if msg := query.Err(); msg != "" {
		return errors.New(msg)
	}

	snap, ok := query.Result()
	if !ok {
		return errors.New("Error al verificar la factura")
	}

	fmt.Println("Información de la Factura")
	fmt.Println("-------------------------")
	fmt.Printf("Número:         %s\n", snap.Number)
	fmt.Printf("Fecha:          %s\n", snap.Date)
	fmt.Printf("Cliente:        %s\n", snap.Customer.Name)
	fmt.Printf("Identificación: %s\n", snap.Customer.TaxID)
	fmt.Printf("Total:          %s\n", snap.Total)
	fmt.Printf("IVA:            %s\n", snap.Tax)
	fmt.Printf("Total con IVA:  %s\n", snap.TotalWithTax)
	return nil
}
