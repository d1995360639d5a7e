package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sc2kit/s2bank/internal/roster"
)

// PlayerInfo is one participant row as rendered by the players command.
type PlayerInfo struct {
	Index       int    `json:"index"`
	PlayerID    *int   `json:"playerId"`
	UserID      *int   `json:"userId"`
	WorkingSlot *int   `json:"workingSlot"`
	Control     string `json:"control"`
	Observe     string `json:"observe"`
	Name        string `json:"name"`
	Clan        string `json:"clan,omitempty"`
	Handle      string `json:"handle,omitempty"`
	Color       string `json:"color"`
}

// PlayersResult is the players command payload.
type PlayersResult struct {
	Source  string       `json:"source"`
	Build   int          `json:"build"`
	Players []PlayerInfo `json:"players"`
}

// NewPlayersCommand creates the players command.
func NewPlayersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players <dump-file>",
		Short: "List replay participants",
		Long: `List the replay's participants with their resolved identifiers.

Shows the 1-based player-list index, the competitive player id, the lobby
user id, the working slot, and display attributes. Identifiers that could
not be resolved render as "-".

Examples:
  s2bank players game.json
  s2bank players game.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayers(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runPlayers(opts *RootOptions, cmd *cobra.Command, path string) error {
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

	result := PlayersResult{
		Source: sess.Source,
		Build:  sess.Dump.Build,
	}
	for _, p := range sess.Directory.Participants() {
		result.Players = append(result.Players, PlayerInfo{
			Index:       p.Index,
			PlayerID:    p.PlayerID,
			UserID:      p.UserID,
			WorkingSlot: p.WorkingSlot,
			Control:     p.Control.String(),
			Observe:     p.Observe.String(),
			Name:        p.Name,
			Clan:        p.Clan,
			Handle:      p.Handle,
			Color:       roster.ColorName(p.Color),
		})
	}

	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	w := tabwriter.NewWriter(formatter.Writer, 2, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDX\tPID\tUID\tSLOT\tNAME\tCLAN\tCTRL\tHANDLE\tCOLOR")
	for _, p := range result.Players {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Index, orDash(p.PlayerID), orDash(p.UserID), orDash(p.WorkingSlot),
			p.Name, p.Clan, p.Control, p.Handle, p.Color)
	}
	return w.Flush()
}

// orDash renders an optional identifier, "-" when unresolved.
func orDash(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
