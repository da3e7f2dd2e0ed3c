package cli

import (
	"github.com/spf13/cobra"

	"github.com/krig/cargo-vendor/pkg/errors"
	"github.com/krig/cargo-vendor/pkg/registry"
)

// verifyCommand creates the verify command.
func (c *CLI) verifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <dest>",
		Short: "Check every vendored archive against its index checksum",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			rep, err := registry.Verify(args[0])
			if err != nil {
				return err
			}
			prog.done("Verified registry")

			w := cmd.OutOrStdout()
			for _, p := range rep.Problems {
				printError(w, "%s %s: %s", p.Name, p.Version, p.Reason)
				printDetail(w, "%s", p.Path)
			}
			if !rep.OK() {
				return errors.New(errors.ErrCodeChecksumMismatch, "%d of %d archives failed verification", len(rep.Problems), rep.Checked)
			}
			printSuccess(w, "%d archives match the index", rep.Checked)
			return nil
		},
	}
}
