package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// VerifyInfo is one bank's digest check as rendered by the verify command.
type VerifyInfo struct {
	Player   string `json:"player"`
	Name     string `json:"name"`
	Signed   bool   `json:"signed"`
	Expected string `json:"expected,omitempty"`
	Computed string `json:"computed"`
	OK       *bool  `json:"ok,omitempty"` // nil for unsigned banks
}

// VerifyResult is the verify command payload.
type VerifyResult struct {
	Source     string       `json:"source"`
	Banks      []VerifyInfo `json:"banks"`
	Mismatches int          `json:"mismatches"`
	Errors     []string     `json:"errors,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <dump-file>",
		Short: "Verify bank signatures",
		Long: `Recompute each reconstructed bank's canonical digest and compare it to
the signature recorded in the replay. Unsigned banks report their computed
digest without a comparison.

Exit codes:
  0 - all signed banks verified
  1 - signature mismatch or aborted banks
  2 - command error (bad dump file)

Examples:
  s2bank verify game.json
  s2bank verify game.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runVerify(opts *RootOptions, cmd *cobra.Command, path string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sess, err := LoadSession(opts, cmd, path)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.JSONError(ErrCodeLoad, err.Error(), nil)
		} else {
			formatter.TextError(ErrCodeLoad, err.Error())
		}
		return err
	}

	verified, reconErrs := sess.VerifyAll()

	result := VerifyResult{Source: sess.Source}
	for _, vb := range verified {
		info := VerifyInfo{
			Player:   vb.Document.Owner.Name,
			Name:     vb.Document.Name,
			Signed:   vb.Document.Summary.Signed,
			Expected: vb.Verification.Expected,
			Computed: vb.Verification.Computed,
		}
		if info.Signed {
			ok := vb.Verification.OK()
			info.OK = &ok
			if !ok {
				result.Mismatches++
			}
		}
		result.Banks = append(result.Banks, info)
	}
	for _, rerr := range reconErrs {
		result.Errors = append(result.Errors, rerr.Error())
	}

	failed := result.Mismatches > 0 || len(result.Errors) > 0

	if formatter.Format == "json" {
		if failed {
			_ = formatter.JSONError(ErrCodeVerify, verifyFailureMessage(result), result)
			return NewExitError(ExitFailure, verifyFailureMessage(result))
		}
		return formatter.JSON(result)
	}

	w := tabwriter.NewWriter(formatter.Writer, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tBANK\tSTATUS\tDIGEST")
	for _, b := range result.Banks {
		status := "unsigned"
		if b.OK != nil {
			if *b.OK {
				status = "ok"
			} else {
				status = "MISMATCH"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Player, b.Name, status, b.Computed)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, b := range result.Banks {
		if b.OK != nil && !*b.OK {
			fmt.Fprintf(formatter.Writer, "✗ %s: expected %s, computed %s\n",
				b.Name, b.Expected, b.Computed)
		}
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(formatter.Writer, "✗ %s\n", msg)
	}

	if failed {
		return NewExitError(ExitFailure, verifyFailureMessage(result))
	}
	return nil
}

func verifyFailureMessage(r VerifyResult) string {
	return fmt.Sprintf("verification failed: %d mismatch(es), %d aborted bank(s)",
		r.Mismatches, len(r.Errors))
}
