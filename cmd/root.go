// =============================================================================
// eFactura Client - Root Command
// =============================================================================
//
// Base command all subcommands attach to. It owns the global flags and the
// configuration bootstrap every command goes through.
//
// COBRA CLI STRUCTURE:
//   rootCmd (efactura)
//   ├── crearCmd     (efactura crear)
//   ├── verificarCmd (efactura verificar)
//   ├── migrarCmd    (efactura migrar)
//   ├── uiCmd        (efactura ui)
//   └── versionCmd   (efactura version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gracobjo/efactura/internal/config"
	"github.com/gracobjo/efactura/internal/gateway"
)

// cfgFile holds the path to the configuration file (--config).
var cfgFile string

// baseURL overrides the configured gateway address (--base-url).
var baseURL string

// verbose enables verbose output.
var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "efactura",
	Short: "eFactura - Cliente de facturación electrónica",
	Long: `eFactura es el cliente de línea de comandos del sistema de facturación
electrónica: crea facturas y descarga su PDF, verifica facturas emitidas por
identificador y migra facturas PDF antiguas al nuevo formato.

El gateway se configura mediante efactura.yaml, variables de entorno
(EFACTURA_API_URL) o el flag --base-url; por defecto se usa el gateway de
desarrollo local.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and runs it.
// Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Ruta del fichero de configuración (por defecto efactura.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&baseURL,
		"base-url",
		"",
		"URL base del gateway (sobrescribe configuración y entorno)",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Salida detallada",
	)
}

// bootstrap loads the configuration and builds the gateway client every
// command depends on. The client is constructed here, once, and passed
// down; nothing else holds gateway state.
func bootstrap() (*config.Config, *gateway.Client, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	client := gateway.New(cfg.BaseURL, cfg.HTTPClient())
	if verbose {
		fmt.Printf("Gateway: %s\n", client.BaseURL())
	}
	return cfg, client, nil
}
