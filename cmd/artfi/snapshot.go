package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"Artfi/internal/snapshot"
)

// newEventsCmd prints journaled events.
func newEventsCmd() *cobra.Command {
	var since uint64

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print journaled events",
		Args:  cobra.NoArgs,
		RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
			if a.journal == nil {
				return fmt.Errorf("event journal is disabled")
			}

			evs, err := a.journal.Since(since)
			if err != nil {
				return fmt.Errorf("read journal:\n%w", err)
			}

			out := cmd.OutOrStdout()
			for _, ev := range evs {
				fmt.Fprintf(out, "%d.%d %s %s", ev.Sequence, ev.Index, ev.Kind, ev.ObjectID)
				for _, attr := range ev.Attrs {
					fmt.Fprintf(out, " %s=%s", attr.Key, attr.Value)
				}
				fmt.Fprintln(out)
			}

			return nil
		}),
	}

	cmd.Flags().Uint64Var(&since, "since", 0, "First transaction sequence to print")

	return cmd
}

// newSnapshotCmd groups snapshot export, import and inspect.
func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import the ledger state",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "export <file>",
			Short: "Write a compressed snapshot of the committed state",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
				data, info, err := snapshot.Create(a.ledger)
				if err != nil {
					return fmt.Errorf("create snapshot:\n%w", err)
				}

				if err := os.WriteFile(args[0], data, 0644); err != nil {
					return fmt.Errorf("write %s:\n%w", args[0], err)
				}

				printInfo(cmd, info)

				return nil
			}),
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Load a snapshot into an empty data directory",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(a *App, cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s:\n%w", args[0], err)
				}

				info, err := snapshot.Restore(a.ledger, data)
				if err != nil {
					return err
				}

				printInfo(cmd, info)

				return nil
			}),
		},
		&cobra.Command{
			Use:   "inspect <file>",
			Short: "Verify a snapshot file and print its header",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read %s:\n%w", args[0], err)
				}

				info, err := snapshot.Inspect(data)
				if err != nil {
					return err
				}

				printInfo(cmd, info)

				return nil
			},
		},
	)

	return cmd
}

// printInfo prints a snapshot header.
func printInfo(cmd *cobra.Command, info *snapshot.Info) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "version  %d\n", info.Version)
	fmt.Fprintf(out, "sequence %d\n", info.Sequence)
	fmt.Fprintf(out, "entries  %d\n", info.Entries)
	fmt.Fprintf(out, "checksum %s\n", hex.EncodeToString(info.Checksum[:]))
}
