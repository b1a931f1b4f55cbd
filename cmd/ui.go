// =============================================================================
// eFactura Client - Interactive UI Command
// =============================================================================
//
// Launches the tabbed terminal interface. All three operations (create,
// verify, migrate) are available without leaving the program.
//
// COMMAND USAGE:
//   efactura ui
//
// =============================================================================

package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gracobjo/efactura/internal/ui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Abre la interfaz interactiva de terminal",
	Long: `Abre una interfaz de terminal con pestañas para crear, verificar y migrar
facturas. Las flechas izquierda/derecha cambian de pestaña, Inicio/Fin saltan
a los extremos y Enter entra en el formulario de la pestaña activa.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, err := bootstrap()
		if err != nil {
			return err
		}

		program := tea.NewProgram(ui.New(cfg, client), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("error en la interfaz: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
