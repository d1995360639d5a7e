package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sc2kit/s2bank/internal/store"
)

// CatalogOptions holds flags shared by the catalog subcommands.
type CatalogOptions struct {
	*RootOptions
	Database string
}

// NewCatalogCommand creates the catalog command family.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query and maintain the bank catalog",
		Long: `The catalog is a SQLite database of ingested replays, their participants,
and per-bank summaries with verification results. It answers questions a
single dump cannot, like how a map's save data evolved across replays.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite catalog database (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	cmd.AddCommand(newCatalogIngestCommand(opts))
	cmd.AddCommand(newCatalogListCommand(opts))
	cmd.AddCommand(newCatalogHistoryCommand(opts))

	return cmd
}

// openCatalog opens the catalog database, mapping failures to a command
// error with the formatter already informed.
func openCatalog(opts *CatalogOptions, formatter *OutputFormatter) (*store.Store, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.JSONError(ErrCodeCatalog, err.Error(), nil)
		} else {
			formatter.TextError(ErrCodeCatalog, err.Error())
		}
		return nil, WrapExitError(ExitCommandError, "failed to open catalog", err)
	}
	return st, nil
}

// CatalogIngestResult is the catalog ingest payload.
type CatalogIngestResult struct {
	ReplayID     string `json:"replayId"`
	Source       string `json:"source"`
	Participants int    `json:"participants"`
	Banks        int    `json:"banks"`
}

func newCatalogIngestCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <dump-file>",
		Short: "Ingest a replay into the catalog",
		Long: `Reconstruct and verify a replay's banks, then record the replay, its
participants, and the bank summaries. Each ingest gets its own id, so the
same dump can be cataloged more than once.

If any bank aborts during reconstruction, nothing is ingested.

Exit codes:
  0 - replay ingested
  1 - reconstruction failed, nothing ingested
  2 - command error (bad dump file, database error)

Examples:
  s2bank catalog ingest game.json --db ./s2bank.db
  s2bank catalog ingest game.json --db ./s2bank.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogIngest(opts, cmd, args[0])
		},
	}
}

func runCatalogIngest(opts *CatalogOptions, cmd *cobra.Command, path string) error {
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
		msg := fmt.Sprintf("reconstruction failed, nothing ingested: %v", reconErrs[0])
		if formatter.Format == "json" {
			_ = formatter.JSONError(ErrCodeReconstruct, msg, nil)
		} else {
			formatter.TextError(ErrCodeReconstruct, msg)
		}
		return NewExitError(ExitFailure, msg)
	}

	st, err := openCatalog(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	records := make([]store.BankRecord, 0, len(verified))
	for _, vb := range verified {
		records = append(records, store.BankRecord{
			Document:     vb.Document,
			Verification: vb.Verification,
		})
	}

	id, err := st.Ingest(context.Background(),
		sess.Source, sess.Dump.Build, sess.Dump.Title, sess.Dump.Region,
		sess.Directory.Participants(), records)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.JSONError(ErrCodeCatalog, err.Error(), nil)
		} else {
			formatter.TextError(ErrCodeCatalog, err.Error())
		}
		return WrapExitError(ExitCommandError, "failed to ingest replay", err)
	}

	result := CatalogIngestResult{
		ReplayID:     id,
		Source:       sess.Source,
		Participants: len(sess.Directory.Participants()),
		Banks:        len(records),
	}

	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Ingested %s as %s (%d participant(s), %d bank(s))\n",
		result.Source, result.ReplayID, result.Participants, result.Banks)
	return nil
}

// CatalogListResult is the catalog list payload.
type CatalogListResult struct {
	Replays []store.ReplayRow `json:"replays,omitempty"`
	Banks   []store.BankRow   `json:"banks,omitempty"`
}

func newCatalogListCommand(opts *CatalogOptions) *cobra.Command {
	var replayID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged replays or one replay's banks",
		Long: `List cataloged replays, newest ingest first. With --replay, list that
replay's banks instead.

Examples:
  s2bank catalog list --db ./s2bank.db
  s2bank catalog list --db ./s2bank.db --replay <id>
  s2bank catalog list --db ./s2bank.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(opts, cmd, replayID)
		},
	}

	cmd.Flags().StringVar(&replayID, "replay", "", "list banks of this replay instead of replays")

	return cmd
}

func runCatalogList(opts *CatalogOptions, cmd *cobra.Command, replayID string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openCatalog(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	if replayID != "" {
		banks, err := st.BanksForReplay(context.Background(), replayID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list banks", err)
		}
		if formatter.Format == "json" {
			return formatter.JSON(CatalogListResult{Banks: banks})
		}
		return renderBankRows(formatter, banks)
	}

	replays, err := st.ListReplays(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list replays", err)
	}

	if formatter.Format == "json" {
		return formatter.JSON(CatalogListResult{Replays: replays})
	}

	w := tabwriter.NewWriter(formatter.Writer, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPLAY\tSOURCE\tBUILD\tTITLE\tINGESTED")
	for _, r := range replays {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", r.ID, r.Source, r.Build, r.Title, r.IngestedAt)
	}
	return w.Flush()
}

// CatalogHistoryResult is the catalog history payload.
type CatalogHistoryResult struct {
	Bank    string          `json:"bank"`
	Entries []store.BankRow `json:"entries"`
}

func newCatalogHistoryCommand(opts *CatalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history <bank-name>",
		Short: "Trace a bank name across cataloged replays",
		Long: `Show every cataloged occurrence of a bank name, newest ingest first.
Useful for tracking how a map's save data grew or changed over time.

Examples:
  s2bank catalog history Save1 --db ./s2bank.db
  s2bank catalog history Save1 --db ./s2bank.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogHistory(opts, cmd, args[0])
		},
	}
}

func runCatalogHistory(opts *CatalogOptions, cmd *cobra.Command, bankName string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := openCatalog(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.BankHistory(context.Background(), bankName)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to query bank history", err)
	}

	if formatter.Format == "json" {
		return formatter.JSON(CatalogHistoryResult{Bank: bankName, Entries: entries})
	}

	return renderBankRows(formatter, entries)
}

func renderBankRows(formatter *OutputFormatter, rows []store.BankRow) error {
	w := tabwriter.NewWriter(formatter.Writer, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPLAY\tPLAYER\tBANK\tSECTIONS\tKEYS\tCONTENT\tSIGNED\tVERIFIED")
	for _, b := range rows {
		verified := "-"
		if b.Signed {
			verified = yesNo(b.ExpectedDigest != "" && b.ExpectedDigest == b.ComputedDigest)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%dB\t%s\t%s\n",
			b.ReplayID, b.Player, b.Name, b.Sections, b.Keys, b.ContentBytes,
			yesNo(b.Signed), verified)
	}
	return w.Flush()
}
