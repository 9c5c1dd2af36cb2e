package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/skilltree/internal/config"
	"github.com/abhisek/skilltree/internal/logging"
	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/store"
	"github.com/abhisek/skilltree/internal/tree"
	"github.com/abhisek/skilltree/internal/ui/theme"
)

// session is everything one command invocation works against.
type session struct {
	cfg   *config.Config
	logs  *logging.Result
	store *store.Store
	mgr   *tree.Manager
	notes *tree.Recorder
	out   io.Writer
}

// openSession loads config, opens the store and restores the tree. The TUI
// logs to a file under the data directory; other commands log to stderr.
func openSession(cmd *cobra.Command, tui bool) (*session, error) {
	cfg, err := config.LoadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if viper.GetBool(flagVerbose) {
		cfg.Log.Level = "debug"
	}

	fallbackDir := ""
	if tui {
		if fallbackDir, err = store.DataDir(); err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
	}
	logs, err := logging.New(cfg.Log, fallbackDir)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	logger := logs.Logger

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath,
		store.WithLogger(logger),
		store.WithKeep(cfg.Storage.KeepSnapshots),
		store.WithMaxBytes(cfg.Storage.MaxBytes),
	)
	if err != nil {
		_ = logs.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)

	notes := &tree.Recorder{}
	mgr := tree.New(
		tree.WithStorage(st.TreeRepo()),
		tree.WithNotifier(notes),
		tree.WithPolicy(tree.Policy{RejectLockedIntoUnlocked: cfg.Policy.RejectLockedIntoUnlocked}),
		tree.WithOrigin(skillgraph.Position{X: cfg.Layout.OriginX, Y: cfg.Layout.OriginY}),
		tree.WithJitter(tree.RandomJitter(cfg.Layout.Jitter)),
		tree.WithLogger(logger),
	)
	if err := mgr.Restore(cmd.Context()); err != nil {
		_ = st.Close()
		_ = logs.Close()
		return nil, err
	}

	return &session{
		cfg:   cfg,
		logs:  logs,
		store: st,
		mgr:   mgr,
		notes: notes,
		out:   cmd.OutOrStdout(),
	}, nil
}

// Close releases the store and the log file.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logs.Logger.Warn("close store", "error", err)
	}
	_ = s.logs.Close()
}

// finish prints pending notifications and turns err into errReported when
// an error notification already explained it.
func (s *session) finish(err error) error {
	shown := false
	for _, n := range s.notes.Take() {
		printNote(s.out, n)
		shown = shown || n.IsError()
	}
	if err != nil && shown {
		return errReported
	}
	return err
}

func printNote(w io.Writer, n tree.Notification) {
	if n.IsError() {
		fmt.Fprintln(w, theme.ErrorText.Render("✗ "+n.Message))
		return
	}
	fmt.Fprintln(w, theme.SuccessText.Render("✓ "+n.Message))
}

var errAmbiguousID = errors.New("ambiguous skill id")

// resolveSkill finds a skill by exact id, unique id prefix, or exact
// (case-insensitive) name.
func resolveSkill(t skillgraph.Tree, ref string) (skillgraph.Skill, error) {
	if s, ok := skillgraph.Lookup(t.Skills, ref); ok {
		return s, nil
	}
	if ref == "" {
		return skillgraph.Skill{}, fmt.Errorf("%w: empty id", tree.ErrSkillNotFound)
	}

	var matches []skillgraph.Skill
	for _, s := range t.Skills {
		if strings.HasPrefix(s.ID, ref) || strings.EqualFold(s.Data.Name, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return skillgraph.Skill{}, fmt.Errorf("%w: %s", tree.ErrSkillNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = fmt.Sprintf("%s (%s)", m.Data.Name, shortID(m.ID))
		}
		return skillgraph.Skill{}, fmt.Errorf("%w %q matches %s", errAmbiguousID, ref, strings.Join(names, ", "))
	}
}

// shortID trims a UUID to a prefix long enough to type.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
