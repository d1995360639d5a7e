// Package cli implements the s2bank command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sc2kit/s2bank/internal/protocol"
)

// RootOptions holds the persistent flags shared by all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "text" | "json"
	Config  string // optional thresholds YAML
	Strict  bool   // fail on protocol mismatches instead of falling back
}

// ValidFormats lists the allowed --format values.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the s2bank root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "s2bank",
		Short: "Reconstruct and verify SC2Bank save data from replay dumps",
		Long: `s2bank rebuilds per-player SC2Bank save documents from decoded
StarCraft II replay dumps, verifies their signatures against the canonical
digest, and catalogs the results for cross-replay queries.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "protocol thresholds YAML file")
	cmd.PersistentFlags().BoolVar(&opts.Strict, "strict", false, "abort on protocol mismatches instead of falling back")

	cmd.AddCommand(NewPlayersCommand(opts))
	cmd.AddCommand(NewBanksCommand(opts))
	cmd.AddCommand(NewChatCommand(opts))
	cmd.AddCommand(NewRebuildCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))
	cmd.AddCommand(NewProtocolCommand(opts))

	return cmd
}

// Thresholds resolves the effective protocol cutoffs, applying the
// --config overrides when given.
func (o *RootOptions) Thresholds() (protocol.Thresholds, error) {
	if o.Config == "" {
		return protocol.DefaultThresholds(), nil
	}
	return protocol.LoadThresholds(o.Config)
}

// Logger builds the diagnostic logger for a command run. Warnings always
// surface; debug detail needs --verbose. Output goes to stderr so it never
// interleaves with JSON on stdout.
func (o *RootOptions) Logger(errWriter io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{Level: level}))
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
