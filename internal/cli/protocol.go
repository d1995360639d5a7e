package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sc2kit/s2bank/internal/protocol"
)

// ProtocolOptions holds flags for the protocol command.
type ProtocolOptions struct {
	*RootOptions
	KnownBuilds []int
}

// ProtocolResult is the protocol command payload.
type ProtocolResult struct {
	Build         int               `json:"build"`
	Features      protocol.Features `json:"features"`
	SelectedBuild *int              `json:"selectedBuild,omitempty"`
	Fallback      bool              `json:"fallback,omitempty"`
}

// NewProtocolCommand creates the protocol command.
func NewProtocolCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProtocolOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "protocol <build>",
		Short: "Inspect protocol capabilities for a build",
		Long: `Show the capability flags a build number resolves to, and optionally
which decoder build would be selected for it from a list of known builds.

Selection picks the exact build when known, otherwise the nearest known
build, shifted one step newer past the high-build cutoff. With --strict a
missing exact match is an error instead.

Examples:
  s2bank protocol 80949
  s2bank protocol 80940 --known 80871,80949,81009
  s2bank protocol 80940 --known 80871,80949 --strict`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProtocol(opts, cmd, args[0])
		},
	}

	cmd.Flags().IntSliceVar(&opts.KnownBuilds, "known", nil, "known decoder builds for fallback selection")

	return cmd
}

func runProtocol(opts *ProtocolOptions, cmd *cobra.Command, arg string) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	build, err := strconv.Atoi(arg)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid build number", err)
	}

	th, err := opts.Thresholds()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load thresholds config", err)
	}

	result := ProtocolResult{
		Build:    build,
		Features: th.Resolve(build),
	}

	if len(opts.KnownBuilds) > 0 {
		selected, fallback, err := th.SelectBuild(build, opts.KnownBuilds, opts.Strict)
		if err != nil {
			var unsupported *protocol.UnsupportedBuildError
			if errors.As(err, &unsupported) {
				if formatter.Format == "json" {
					_ = formatter.JSONError(ErrCodeProtocol, err.Error(), result)
				} else {
					formatter.TextError(ErrCodeProtocol, err.Error())
				}
				return WrapExitError(ExitCommandError, "no decoder for build", err)
			}
			return WrapExitError(ExitCommandError, "decoder selection failed", err)
		}
		result.SelectedBuild = &selected
		result.Fallback = fallback
	}

	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	f := result.Features
	fmt.Fprintf(formatter.Writer, "build %d\n", build)
	fmt.Fprintf(formatter.Writer, "  user-id origins:   %s\n", yesNo(f.UserIDDriven))
	fmt.Fprintf(formatter.Writer, "  working slots:     %s\n", yesNo(f.WorkingSlots))
	fmt.Fprintf(formatter.Writer, "  tracker stream:    %s\n", yesNo(f.TrackerPresent))
	fmt.Fprintf(formatter.Writer, "  tracker playerIds: %s\n", yesNo(f.TrackerPlayerID))
	if result.SelectedBuild != nil {
		if result.Fallback {
			fmt.Fprintf(formatter.Writer, "decoder: %d (fallback)\n", *result.SelectedBuild)
		} else {
			fmt.Fprintf(formatter.Writer, "decoder: %d (exact)\n", *result.SelectedBuild)
		}
	}
	return nil
}
