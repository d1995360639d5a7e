package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// BankInfo is one bank summary as rendered by the banks command.
type BankInfo struct {
	Player       string  `json:"player"`
	Name         string  `json:"name"`
	Sections     int     `json:"sections"`
	Keys         int     `json:"keys"`
	ContentBytes int64   `json:"contentBytes"`
	NetBytes     float64 `json:"netBytes"`
	Signed       bool    `json:"signed"`
}

// BanksResult is the banks command payload.
type BanksResult struct {
	Source string     `json:"source"`
	Build  int        `json:"build"`
	Banks  []BankInfo `json:"banks"`
	Errors []string   `json:"errors,omitempty"`
}

// NewBanksCommand creates the banks command.
func NewBanksCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "banks <dump-file>",
		Short: "Summarize reconstructed banks",
		Long: `Reconstruct bank documents from the replay's game events and print a
per-bank summary: owner, section and key counts, content size, and wire
size.

Exit codes:
  0 - all banks reconstructed
  1 - one or more banks aborted (unknown data kind)
  2 - command error (bad dump file)

Examples:
  s2bank banks game.json
  s2bank banks game.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBanks(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runBanks(opts *RootOptions, cmd *cobra.Command, path string) error {
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

	res := sess.Reconstruct()

	result := BanksResult{Source: sess.Source, Build: sess.Dump.Build}
	for _, doc := range res.Documents {
		result.Banks = append(result.Banks, BankInfo{
			Player:       doc.Owner.Name,
			Name:         doc.Name,
			Sections:     doc.Summary.Sections,
			Keys:         doc.Summary.Keys,
			ContentBytes: doc.Summary.ContentBytes,
			NetBytes:     doc.Summary.NetBytes(),
			Signed:       doc.Summary.Signed,
		})
	}
	for _, rerr := range res.Errors {
		result.Errors = append(result.Errors, rerr.Error())
	}

	if formatter.Format == "json" {
		if len(res.Errors) > 0 {
			_ = formatter.JSONError(ErrCodeReconstruct, result.Errors[0], result)
			return NewExitError(ExitFailure, fmt.Sprintf("%d bank(s) aborted", len(res.Errors)))
		}
		return formatter.JSON(result)
	}

	w := tabwriter.NewWriter(formatter.Writer, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tBANK\tSECTIONS\tKEYS\tCONTENT\tNET\tSIGNED")
	for _, b := range result.Banks {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%dB\t%.1fB\t%s\n",
			b.Player, b.Name, b.Sections, b.Keys, b.ContentBytes, b.NetBytes,
			yesNo(b.Signed))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(res.Errors) > 0 {
		fmt.Fprintln(formatter.Writer)
		for _, rerr := range res.Errors {
			fmt.Fprintf(formatter.Writer, "✗ %v\n", rerr)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d bank(s) aborted", len(res.Errors)))
	}
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
