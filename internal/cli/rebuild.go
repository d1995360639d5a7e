package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc2kit/s2bank/internal/bank"
)

// RebuildOptions holds flags for the rebuild command.
type RebuildOptions struct {
	*RootOptions
	OutDir string
}

// RebuiltBank is one written bank file as rendered by the rebuild command.
type RebuiltBank struct {
	Player   string `json:"player"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Signed   bool   `json:"signed"`
	Verified *bool  `json:"verified,omitempty"` // nil for unsigned banks
}

// RebuildResult is the rebuild command payload.
type RebuildResult struct {
	Source string        `json:"source"`
	OutDir string        `json:"outDir"`
	Banks  []RebuiltBank `json:"banks"`
}

// NewRebuildCommand creates the rebuild command.
func NewRebuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RebuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rebuild <dump-file>",
		Short: "Write reconstructed banks as .SC2Bank files",
		Long: `Reconstruct bank documents and write each one as an .SC2Bank XML file
under <out>/<selfHandle>/<authorHandle>/<name>.SC2Bank, the layout the
game's Banks directory uses.

If any bank aborts during reconstruction, nothing is written.

Exit codes:
  0 - all banks written
  1 - reconstruction failed, no files written
  2 - command error (bad dump file, unwritable output directory)

Examples:
  s2bank rebuild game.json --out ./Banks
  s2bank rebuild game.json --out ./Banks --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", ".", "output directory for rebuilt banks")

	return cmd
}

func runRebuild(opts *RebuildOptions, cmd *cobra.Command, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sess, err := LoadSession(opts.RootOptions, cmd, path)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.JSONError(ErrCodeLoad, err.Error(), nil)
		} else {
			formatter.TextError(ErrCodeLoad, err.Error())
		}
		return err
	}

	verified, reconErrs := sess.VerifyAll()
	if len(reconErrs) > 0 {
		msg := fmt.Sprintf("reconstruction failed, nothing written: %v", reconErrs[0])
		if formatter.Format == "json" {
			_ = formatter.JSONError(ErrCodeReconstruct, msg, nil)
		} else {
			formatter.TextError(ErrCodeReconstruct, msg)
		}
		return NewExitError(ExitFailure, msg)
	}

	result := RebuildResult{Source: sess.Source, OutDir: opts.OutDir}
	for _, vb := range verified {
		handle := vb.Document.Owner.Handle
		written, err := bank.WriteFile(vb.Document, opts.OutDir, handle, handle)
		if err != nil {
			msg := fmt.Sprintf("write bank %q: %v", vb.Document.Name, err)
			if formatter.Format == "json" {
				_ = formatter.JSONError(ErrCodeWrite, msg, result)
			} else {
				formatter.TextError(ErrCodeWrite, msg)
			}
			return WrapExitError(ExitCommandError, "failed to write bank file", err)
		}

		rb := RebuiltBank{
			Player: vb.Document.Owner.Name,
			Name:   vb.Document.Name,
			Path:   written,
			Signed: vb.Document.Summary.Signed,
		}
		if vb.Document.Summary.Signed {
			ok := vb.Verification.OK()
			rb.Verified = &ok
			if !ok {
				sess.Log.Warn("bank signature mismatch",
					"bank", vb.Document.Name,
					"expected", vb.Verification.Expected,
					"computed", vb.Verification.Computed,
				)
			}
		}
		result.Banks = append(result.Banks, rb)
	}

	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	for _, b := range result.Banks {
		mark := " "
		if b.Verified != nil {
			if *b.Verified {
				mark = "✓"
			} else {
				mark = "✗"
			}
		}
		fmt.Fprintf(formatter.Writer, "%s %s (%s) -> %s\n", mark, b.Name, b.Player, b.Path)
	}
	fmt.Fprintf(formatter.Writer, "%d bank(s) written to %s\n", len(result.Banks), opts.OutDir)
	return nil
}
