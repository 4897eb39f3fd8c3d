package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"Artfi/internal/capability"
	"Artfi/internal/ledger"
	"Artfi/internal/nft"
	"Artfi/internal/trophy"
)

// newInitCmd creates the trophy collection and the initial capabilities.
func newInitCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the collection, its display and the admin/minter capabilities",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			var col *trophy.Collection

			err := a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				var err error
				col, err = trophy.Init(tx, name, description)
				return err
			})
			if err != nil {
				return fmt.Errorf("init:\n%w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "registry %s\n", col.Registry.ID())
			fmt.Fprintf(out, "display  %s\n", col.Display.ID)
			fmt.Fprintf(out, "admin    %s\n", col.Admin.ID())
			fmt.Fprintf(out, "minter   %s\n", col.Minter.ID())

			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "Artfi Trophy", "Collection name")
	cmd.Flags().StringVar(&description, "description", "", "Collection description")

	return cmd
}

// newIssueMinterCmd issues a MinterCap to a recipient.
func newIssueMinterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issue-minter <recipient>",
		Short: "Issue a minter capability (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			recipient, err := parseRecipient(a, args[0])
			if err != nil {
				return err
			}

			var id ledger.ObjectID
			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				admin, err := capability.FindAdmin(tx)
				if err != nil {
					return err
				}

				m, err := capability.IssueMinter(tx, admin, recipient)
				if err != nil {
					return err
				}
				id = m.ID()

				return nil
			})
			if err != nil {
				return fmt.Errorf("issue minter:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "minter %s\n", id)

			return nil
		}),
	}
}

// royaltyFlags binds the three royalty shares.
func royaltyFlags(cmd *cobra.Command, r *nft.Royalty) {
	cmd.Flags().Uint64Var(&r.Artfi, "royalty-artfi", 0, "Platform share in basis points")
	cmd.Flags().Uint64Var(&r.Artist, "royalty-artist", 0, "Artist share in basis points")
	cmd.Flags().Uint64Var(&r.StakingContract, "royalty-staking", 0, "Staking contract share in basis points")
}

// newMintNFTCmd mints one NFT.
func newMintNFTCmd() *cobra.Command {
	var (
		name, description, url, recipient string
		fraction                          uint64
		royalty                           nft.Royalty
	)

	cmd := &cobra.Command{
		Use:   "mint-nft",
		Short: "Mint an NFT (minter only)",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			to, err := parseRecipient(a, recipient)
			if err != nil {
				return err
			}

			var minted *nft.NFT
			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				minter, err := capability.FindMinter(tx)
				if err != nil {
					return err
				}

				minted, err = nft.Mint(tx, minter, name, description, url, to, fraction, royalty)
				return err
			})
			if err != nil {
				return fmt.Errorf("mint nft:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "nft %s\n", minted.ID)

			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "NFT name")
	cmd.Flags().StringVar(&description, "description", "", "NFT description")
	cmd.Flags().StringVar(&url, "url", "", "Artwork URL")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient address (default: sender)")
	cmd.Flags().Uint64Var(&fraction, "fraction", 0, "Fraction id")
	royaltyFlags(cmd, &royalty)

	return cmd
}

// newMintBatchCmd mints several NFTs sharing one fraction and recipient.
func newMintBatchCmd() *cobra.Command {
	var (
		names, descriptions, urls []string
		recipient                 string
		fraction                  uint64
		royalty                   nft.Royalty
	)

	cmd := &cobra.Command{
		Use:   "mint-batch",
		Short: "Mint NFTs sharing one fraction and recipient (minter only)",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			to, err := parseRecipient(a, recipient)
			if err != nil {
				return err
			}

			royalties := make([]nft.Royalty, len(names))
			for i := range royalties {
				royalties[i] = royalty
			}

			var minted []*nft.NFT
			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				minter, err := capability.FindMinter(tx)
				if err != nil {
					return err
				}

				minted, err = nft.MintBatch(tx, minter, names, descriptions, urls, to, fraction, royalties)
				return err
			})
			if err != nil {
				return fmt.Errorf("mint batch:\n%w", err)
			}

			for _, n := range minted {
				fmt.Fprintf(cmd.OutOrStdout(), "nft %s\n", n.ID)
			}

			return nil
		}),
	}

	cmd.Flags().StringSliceVar(&names, "names", nil, "Comma-separated NFT names")
	cmd.Flags().StringSliceVar(&descriptions, "descriptions", nil, "Comma-separated descriptions, one per name")
	cmd.Flags().StringSliceVar(&urls, "urls", nil, "Comma-separated URLs, one per name")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient address (default: sender)")
	cmd.Flags().Uint64Var(&fraction, "fraction", 0, "Fraction id shared by every item")
	royaltyFlags(cmd, &royalty)

	return cmd
}

// newTransferNFTCmd transfers an NFT held by the sender.
func newTransferNFTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-nft <nft-id> <recipient>",
		Short: "Transfer an NFT",
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
				return nft.Transfer(tx, id, to)
			})
			if err != nil {
				return fmt.Errorf("transfer nft:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "transferred %s to %s\n", id, to)

			return nil
		}),
	}
}

// newBurnNFTCmd burns an NFT held by the sender.
func newBurnNFTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "burn-nft <nft-id>",
		Short: "Burn an owned NFT",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				return nft.Burn(tx, id)
			})
			if err != nil {
				return fmt.Errorf("burn nft:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "burned %s\n", id)

			return nil
		}),
	}
}

// newUpdateDescriptionCmd replaces the description of an owned NFT.
func newUpdateDescriptionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-description <nft-id> <description>",
		Short: "Set the description of an owned NFT",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				return nft.UpdateDescription(tx, id, args[1])
			})
			if err != nil {
				return fmt.Errorf("update description:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s description %q\n", id, args[1])

			return nil
		}),
	}
}

// newTransferCapCmd hands the sender's admin or minter capability to another key.
func newTransferCapCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "transfer-cap <admin|minter> <recipient>",
		Short:     "Transfer a capability; the sender loses that authority",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"admin", "minter"},
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			to, err := parseRecipient(a, args[1])
			if err != nil {
				return err
			}

			var id ledger.ObjectID
			err = a.ledger.Execute(a.sender, func(tx *ledger.Tx) error {
				switch args[0] {
				case "admin":
					c, err := capability.FindAdmin(tx)
					if err != nil {
						return err
					}
					id = c.ID()

					return capability.TransferAdmin(tx, c, to)

				case "minter":
					c, err := capability.FindMinter(tx)
					if err != nil {
						return err
					}
					id = c.ID()

					return capability.TransferMinter(tx, c, to)

				default:
					return fmt.Errorf("unknown capability %q, want admin or minter", args[0])
				}
			})
			if err != nil {
				return fmt.Errorf("transfer cap:\n%w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "transferred %s %s to %s\n", args[0], id, to)

			return nil
		}),
	}
}
