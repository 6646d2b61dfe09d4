package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vietddude/bitcoin-adapter/internal/core/config"
	"github.com/vietddude/bitcoin-adapter/internal/core/network"
)

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List known networks and their configured UTXO backends",
	Run:   runNetworks,
}

func init() {
	rootCmd.AddCommand(networksCmd)
}

func runNetworks(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	backends := make(map[string]config.BackendConfig)
	for _, b := range cfg.UTXO.Backends {
		backends[b.Chain] = b
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "CHAIN\tNAME\tSYMBOL\tBACKEND\tDEFAULT")

	def := cfg.Network.Default
	if def == "" {
		def = network.Bitcoin.ID.String()
	}
	for _, n := range network.MainnetCatalog().All() {
		backend := "-"
		if b, ok := backends[n.ID.String()]; ok {
			backend = b.Kind
		}
		marker := ""
		if n.ID.String() == def {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", n.ID, n.Name, n.Symbol(), backend, marker)
	}
	_ = w.Flush()
}
