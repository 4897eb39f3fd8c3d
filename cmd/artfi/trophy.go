package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Artfi/internal/capability"
	"Artfi/internal/ledger"
	"Artfi/internal/registry"
	"Artfi/internal/trophy"
)

// newMintTrophyCmd redeems an NFT's fraction for a trophy.
func newMintTrophyCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "mint-trophy <nft-id>",
		Short: "Redeem the fraction of an owned NFT for a trophy",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			source, err := parseID(args[0])
			if err != nil {
				return err
			}

			var minted *trophy.Trophy
			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				reg, err := registry.Default(tx)
				if err != nil {
					return err
				}

				minted, err = trophy.MintTrophy(tx, reg, source, url)
				return err
			})
			if err != nil {
				return fmt.Errorf("mint trophy:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "trophy %s\n", minted.ID)

			return nil
		}),
	}

	cmd.Flags().StringVar(&url, "url", "", "Trophy artwork URL")

	return cmd
}

// newBurnTrophyCmd burns a trophy and frees its fraction.
func newBurnTrophyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "burn-trophy <trophy-id>",
		Short: "Burn an owned trophy",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				reg, err := registry.Default(tx)
				if err != nil {
					return err
				}

				return trophy.BurnTrophy(tx, reg, id)
			})
			if err != nil {
				return fmt.Errorf("burn trophy:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "burned %s\n", id)

			return nil
		}),
	}
}

// newTransferTrophyCmd transfers a trophy held by the sender.
func newTransferTrophyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-trophy <trophy-id> <recipient>",
		Short: "Transfer an owned trophy",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			to, err := parseRecipient(a, args[1])
			if err != nil {
				return err
			}

			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				return trophy.TransferTrophy(tx, id, to)
			})
			if err != nil {
				return fmt.Errorf("transfer trophy:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "transferred %s to %s\n", id, to)

			return nil
		}),
	}
}

// newUpdateAttributeCmd sets a trophy's shipment status.
func newUpdateAttributeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-attribute <trophy-id> <shipment-status>",
		Short: "Set the shipment status of a trophy (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				admin, err := capability.FindAdmin(tx)
				if err != nil {
					return err
				}

				reg, err := registry.Default(tx)
				if err != nil {
					return err
				}

				return trophy.UpdateAttribute(tx, admin, reg, id, args[1])
			})
			if err != nil {
				return fmt.Errorf("update attribute:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s shipment status %q\n", id, args[1])

			return nil
		}),
	}
}

// newUpdateMetadataCmd sets the collection name and description.
func newUpdateMetadataCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update-metadata",
		Short: "Set the collection name and description (admin only)",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			var version uint64

			err := a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				admin, err := capability.FindAdmin(tx)
				if err != nil {
					return err
				}

				reg, err := registry.Default(tx)
				if err != nil {
					return err
				}

				if err := trophy.UpdateMetadata(tx, admin, reg.Display(), reg, name, description); err != nil {
					return err
				}

				d, err := tx.LoadDisplay(reg.Display())
				if err != nil {
					return err
				}
				version = d.Version

				return nil
			})
			if err != nil {
				return fmt.Errorf("update metadata:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "display version %d\n", version)

			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "New collection name")
	cmd.Flags().StringVar(&description, "description", "", "New collection description")
	cmd.MarkFlagRequired("name")

	return cmd
}

// newLookupCmd resolves a fraction or trophy id through the registry.
func newLookupCmd() *cobra.Command {
	var (
		fraction uint64
		objID    string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Query the registry by fraction id or trophy id",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			return a.ledger.View(func(tx *ledger.Tx) error {
				reg, err := registry.Default(tx)
				if err != nil {
					return err
				}

				switch {
				case all:
					entries, err := reg.Entries(tx)
					if err != nil {
						return err
					}

					for _, e := range entries {
						fmt.Fprintf(out, "%s fraction=%d status=%q\n", e.ObjectID, e.Attributes.FractionID, e.Attributes.ShipmentStatus)
					}

					return nil

				case objID != "":
					id, err := parseID(objID)
					if err != nil {
						return err
					}

					attrs, found, err := reg.LookupByID(tx, id)
					if err != nil {
						return err
					}

					if !found {
						fmt.Fprintln(out, "not registered")
						return nil
					}

					fmt.Fprintf(out, "fraction=%d status=%q\n", attrs.FractionID, attrs.ShipmentStatus)

					return nil

				default:
					id, found, err := reg.LookupByFraction(tx, fraction)
					if err != nil {
						return err
					}

					if !found {
						fmt.Fprintln(out, "not redeemed")
						return nil
					}

					fmt.Fprintf(out, "trophy %s\n", id)

					return nil
				}
			})
		}),
	}

	cmd.Flags().Uint64Var(&fraction, "fraction", 0, "Fraction id to resolve")
	cmd.Flags().StringVar(&objID, "id", "", "Trophy id to resolve")
	cmd.Flags().BoolVar(&all, "all", false, "List every registration")

	return cmd
}
