package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sc2kit/s2bank/internal/rep"
)

// loopsPerSecond is the game-loop rate at normal speed.
const loopsPerSecond = 16

// ChatLine is one chat message as rendered by the chat command.
type ChatLine struct {
	Time      string `json:"time"` // h:mm:ss game time
	Loop      int64  `json:"loop"`
	Speaker   string `json:"speaker"`
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
}

// ChatResult is the chat command payload.
type ChatResult struct {
	Source   string     `json:"source"`
	Messages []ChatLine `json:"messages"`
}

// NewChatCommand creates the chat command.
func NewChatCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <dump-file>",
		Short: "Print the replay's chat log",
		Long: `Print chat messages from the replay's message events with game time,
resolved speaker name, and recipient channel.

Examples:
  s2bank chat game.json
  s2bank chat game.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runChat(opts *RootOptions, cmd *cobra.Command, path string) error {
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

	result := ChatResult{Source: sess.Source}
	stream := rep.NewStream(sess.Dump.MessageEvents)
	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		chat, ok := ev.(*rep.ChatEvent)
		if !ok {
			continue
		}

		speaker := "?"
		if p := sess.Directory.ByOrigin(chat.Origin()); p != nil {
			speaker = p.Name
		}
		result.Messages = append(result.Messages, ChatLine{
			Time:      gameTime(chat.Loop()),
			Loop:      chat.Loop(),
			Speaker:   speaker,
			Recipient: rep.RecipientName(chat.Recipient),
			Text:      chat.Text,
		})
	}

	if formatter.Format == "json" {
		return formatter.JSON(result)
	}

	for _, m := range result.Messages {
		fmt.Fprintf(formatter.Writer, "[%s] [%s] %s: %s\n", m.Time, m.Recipient, m.Speaker, m.Text)
	}
	return nil
}

// gameTime formats a game-loop count as h:mm:ss at normal speed.
func gameTime(loop int64) string {
	secs := loop / loopsPerSecond
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
