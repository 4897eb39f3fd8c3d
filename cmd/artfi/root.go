package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Artfi/internal/ledger"
)

// runFunc is a command body that runs against an opened data directory.
type runFunc func(a *App, cmd *cobra.Command, args []string) error

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "artfi",
		Short: "Artfi NFT and trophy ledger",
		Long: `artfi runs NFT and trophy operations against a local ledger.

Each command is one transaction signed by the key at --key. The first
"artfi init" makes that key the collection admin and first minter.`,
		SilenceUsage: true,
	}

	registerFlags(root.PersistentFlags())

	root.AddCommand(
		newWhoamiCmd(),
		newInitCmd(),
		newIssueMinterCmd(),
		newMintNFTCmd(),
		newMintBatchCmd(),
		newTransferNFTCmd(),
		newBurnNFTCmd(),
		newUpdateDescriptionCmd(),
		newTransferCapCmd(),
		newMintTrophyCmd(),
		newBurnTrophyCmd(),
		newTransferTrophyCmd(),
		newUpdateAttributeCmd(),
		newUpdateMetadataCmd(),
		newLookupCmd(),
		newEventsCmd(),
		newSnapshotCmd(),
	)

	return root
}

// withApp loads the configuration, opens the data directory, runs fn and
// closes everything.
func withApp(fn runFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Root().PersistentFlags())
		if err != nil {
			return err
		}

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(a, cmd, args)
	}
}

// newWhoamiCmd prints the sender address of the configured key.
func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the sender address",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), a.sender)
			return nil
		}),
	}
}

// parseRecipient parses a hex address, defaulting to the sender when empty.
func parseRecipient(a *App, s string) (ledger.Address, error) {
	if s == "" {
		return a.sender, nil
	}

	addr, err := ledger.ParseAddress(s)
	if err != nil {
		return ledger.Address{}, fmt.Errorf("parse recipient %q:\n%w", s, err)
	}

	return addr, nil
}

// parseID parses a hex object id argument.
func parseID(s string) (ledger.ObjectID, error) {
	id, err := ledger.ParseObjectID(s)
	if err != nil {
		return ledger.ObjectID{}, fmt.Errorf("parse object id %q:\n%w", s, err)
	}

	return id, nil
}
