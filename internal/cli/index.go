package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/krig/cargo-vendor/pkg/errors"
	"github.com/krig/cargo-vendor/pkg/registry"
)

// indexCommand creates the index command with its subcommands.
func (c *CLI) indexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect registry index files",
	}
	cmd.AddCommand(c.indexPathCommand())
	cmd.AddCommand(c.indexShowCommand())
	return cmd
}

func (c *CLI) indexPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <name>...",
		Short: "Print the index file path of crates",
		Example: `  cargo-vendor index path serde libc a
  # se/rd/serde
  # li/bc/libc
  # 1/a`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				p, err := registry.ShardPath(name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func (c *CLI) indexShowCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <dest> <name>",
		Short: "Print the index records of a crate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, name := args[0], args[1]
			recs, err := registry.ReadRecords(filepath.Join(dest, registry.IndexDir), name)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%s has no index entries for %s", dest, name)
			}

			w := cmd.OutOrStdout()
			for _, rec := range recs {
				if raw {
					line, err := registry.Encode(rec)
					if err != nil {
						return err
					}
					fmt.Fprintln(w, string(line))
					continue
				}
				printKeyValue(w, rec.Vers, fmt.Sprintf("%s · %d deps · %d features",
					shortID(rec.Cksum), len(rec.Deps), len(rec.Features)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "json", false, "print records as stored")

	return cmd
}
