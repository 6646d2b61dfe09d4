package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/bitcoin-adapter/internal/adapter"
	"github.com/vietddude/bitcoin-adapter/internal/control"
)

var balanceChain string

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Query the balance of an address through the configured backends",
	Args:  cobra.ExactArgs(1),
	Run:   runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceChain, "chain", "", "CAIP-2 chain id (default is the configured default network)")
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	app, err := control.NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize adapter", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = app.Stop(context.Background())
	}()

	chain := balanceChain
	if chain == "" {
		chain = app.Adapter().DefaultNetwork().ID.String()
	}

	bal, err := app.Adapter().GetBalance(ctx, adapter.BalanceQuery{Address: args[0], ChainID: chain})
	if err != nil {
		slog.Error("Balance query failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("%s %s\n", bal.Balance, bal.Symbol)
}
