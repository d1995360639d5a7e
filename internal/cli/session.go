package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sc2kit/s2bank/internal/bank"
	"github.com/sc2kit/s2bank/internal/protocol"
	"github.com/sc2kit/s2bank/internal/rep"
	"github.com/sc2kit/s2bank/internal/roster"
)

// Session is one loaded replay dump with its derived state: the resolved
// protocol capabilities and the participant directory. Every dump-reading
// command starts from a Session.
type Session struct {
	Source     string
	Dump       *rep.Dump
	Thresholds protocol.Thresholds
	Features   protocol.Features
	Directory  *roster.Directory
	Log        *slog.Logger
}

// LoadSession loads and validates the dump at path, resolves the build's
// capability flags, and builds the participant directory. The tracker
// stream's playerSetup prefix is consumed during directory construction.
func LoadSession(opts *RootOptions, cmd *cobra.Command, path string) (*Session, error) {
	th, err := opts.Thresholds()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load thresholds config", err)
	}

	dump, err := rep.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load replay dump", err)
	}

	log := opts.Logger(cmd.ErrOrStderr())
	feats := th.Resolve(dump.Build)

	var tracker *rep.Stream
	if feats.TrackerPresent {
		tracker = rep.NewStream(dump.TrackerEvents)
	}

	dir := roster.Build(dump.PlayerList, dump.LobbySlots, tracker, feats, log)

	log.Debug("replay dump loaded",
		"source", path,
		"build", dump.Build,
		"participants", len(dir.Participants()),
		"game_events", len(dump.GameEvents),
	)

	return &Session{
		Source:     path,
		Dump:       dump,
		Thresholds: th,
		Features:   feats,
		Directory:  dir,
		Log:        log,
	}, nil
}

// Reconstruct folds the game-event stream into bank documents.
func (s *Session) Reconstruct() *bank.Result {
	return bank.Reconstruct(rep.NewStream(s.Dump.GameEvents), s.Directory, s.Log)
}

// VerifiedBank pairs one reconstructed document with its digest check.
type VerifiedBank struct {
	Document     *bank.Document
	Verification bank.Verification
}

// VerifyAll reconstructs every bank and recomputes its digest. Author and
// self coincide here: a replay records each participant's own banks.
func (s *Session) VerifyAll() ([]VerifiedBank, []*bank.ReconstructError) {
	res := s.Reconstruct()
	out := make([]VerifiedBank, 0, len(res.Documents))
	for _, doc := range res.Documents {
		handle := doc.Owner.Handle
		out = append(out, VerifiedBank{
			Document:     doc,
			Verification: bank.Verify(doc, handle, handle),
		})
	}
	return out, res.Errors
}
