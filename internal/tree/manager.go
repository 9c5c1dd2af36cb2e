// Package tree owns the in-memory skill tree and applies user commands to it.
//
// Every command takes the current tree, checks it against the graph rules
// in package skillgraph, and either commits a new tree or leaves the old one
// in place. Committed trees are persisted through Storage; rejections and
// successes are reported through a Notifier. A Manager serves one user and is
// not safe for concurrent use.
package tree

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/abhisek/skilltree/internal/sanitize"
	"github.com/abhisek/skilltree/internal/skillgraph"
	"github.com/abhisek/skilltree/internal/store"
)

// Storage persists whole trees. store.TreeRepo satisfies it.
type Storage interface {
	Load(ctx context.Context) (*skillgraph.Tree, error)
	Save(ctx context.Context, tree skillgraph.Tree) error
	Clear(ctx context.Context) error
}

// Policy holds connection rules that can be switched off.
type Policy struct {
	// RejectLockedIntoUnlocked refuses an edge from a locked source into an
	// unlocked target, whose prerequisites would then be unsatisfied.
	RejectLockedIntoUnlocked bool
}

// DefaultPolicy enables every rule.
func DefaultPolicy() Policy {
	return Policy{RejectLockedIntoUnlocked: true}
}

// DefaultOrigin is where new skills are placed before jitter.
var DefaultOrigin = skillgraph.Position{X: 200, Y: 100}

// Manager holds the current tree.
type Manager struct {
	tree skillgraph.Tree

	storage  Storage
	notifier Notifier
	ids      IDGenerator
	jitter   Jitter
	policy   Policy
	origin   skillgraph.Position
	logger   *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithStorage sets where committed trees are persisted.
func WithStorage(s Storage) Option {
	return func(m *Manager) { m.storage = s }
}

// WithNotifier sets the receiver of user-facing messages.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		if n != nil {
			m.notifier = n
		}
	}
}

// WithIDGenerator sets the id source for new skills.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) {
		if g != nil {
			m.ids = g
		}
	}
}

// WithJitter sets the position offset source for new skills.
func WithJitter(j Jitter) Option {
	return func(m *Manager) {
		if j != nil {
			m.jitter = j
		}
	}
}

// WithPolicy overrides DefaultPolicy.
func WithPolicy(p Policy) Option {
	return func(m *Manager) { m.policy = p }
}

// WithOrigin sets where new skills are placed.
func WithOrigin(p skillgraph.Position) Option {
	return func(m *Manager) { m.origin = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithTree seeds the manager with an initial tree instead of an empty one.
func WithTree(t skillgraph.Tree) Option {
	return func(m *Manager) { m.tree = t.Clone() }
}

// New creates a Manager holding an empty tree.
func New(opts ...Option) *Manager {
	m := &Manager{
		notifier: nopNotifier{},
		ids:      UUIDGenerator(),
		jitter:   NoJitter,
		policy:   DefaultPolicy(),
		origin:   DefaultOrigin,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore replaces the current tree with the one in storage. Absent or
// unusable stored data leaves an empty tree. Only storage failures are
// returned.
func (m *Manager) Restore(ctx context.Context) error {
	m.tree = skillgraph.Tree{}
	if m.storage == nil {
		return nil
	}
	loaded, err := m.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore tree: %w", err)
	}
	if loaded == nil {
		m.logger.Info("no stored tree, starting empty")
		return nil
	}
	if err := skillgraph.Validate(*loaded); err != nil {
		m.logger.Warn("stored tree has structural problems", "error", err)
	}
	m.tree = *loaded
	m.logger.Debug("tree restored", "skills", len(m.tree.Skills), "edges", len(m.tree.Edges))
	return nil
}

// Tree returns a copy of the current tree.
func (m *Manager) Tree() skillgraph.Tree {
	return m.tree.Clone()
}

// Search computes the highlight state for query over the current tree.
func (m *Manager) Search(query string) skillgraph.Highlight {
	return skillgraph.Search(m.tree, query)
}

// AddSkill validates in and appends a new locked skill. On a validation
// failure the returned error is FieldErrors.
func (m *Manager) AddSkill(ctx context.Context, in SkillInput) (skillgraph.Skill, error) {
	data, err := in.Data()
	if err != nil {
		m.logger.Info("add skill rejected", "error", err)
		return skillgraph.Skill{}, err
	}
	data.Unlocked = false

	dx, dy := m.jitter()
	s := skillgraph.Skill{
		ID:       m.ids.NewID(),
		Position: skillgraph.Position{X: m.origin.X + dx, Y: m.origin.Y + dy},
		Data:     data,
	}

	next := skillgraph.Tree{
		Skills: append(append(make([]skillgraph.Skill, 0, len(m.tree.Skills)+1), m.tree.Skills...), s),
		Edges:  m.tree.Edges,
	}
	m.logger.Debug("skill added", "id", s.ID, "name", s.Data.Name)
	return s, m.commit(ctx, next)
}

// MoveNodes applies canvas position changes. Unknown ids are ignored; it is
// a no-op when no id matches.
func (m *Manager) MoveNodes(ctx context.Context, moves ...skillgraph.NodeMove) error {
	known := 0
	for _, mv := range moves {
		if _, ok := skillgraph.Lookup(m.tree.Skills, mv.ID); ok {
			known++
		}
	}
	if known == 0 {
		return nil
	}
	next := skillgraph.Tree{
		Skills: skillgraph.MoveNodes(m.tree.Skills, moves...),
		Edges:  m.tree.Edges,
	}
	m.logger.Debug("nodes moved", "count", known)
	return m.commit(ctx, next)
}

// RemoveEdges deletes edges by id. It is a no-op when nothing matches.
func (m *Manager) RemoveEdges(ctx context.Context, ids ...string) error {
	edges := skillgraph.RemoveEdges(m.tree.Edges, ids...)
	if len(edges) == len(m.tree.Edges) {
		return nil
	}
	if len(edges) == 0 {
		edges = nil
	}
	next := skillgraph.Tree{Skills: m.tree.Skills, Edges: edges}
	m.logger.Debug("edges removed", "count", len(m.tree.Edges)-len(edges))
	return m.commit(ctx, next)
}

// Connect adds the prerequisite edge c.Source -> c.Target. Rejections are
// reported to the notifier, except a missing endpoint which is silent.
func (m *Manager) Connect(ctx context.Context, c skillgraph.Connection) (skillgraph.Edge, error) {
	if c.Source == "" || c.Target == "" {
		return skillgraph.Edge{}, ErrMissingEndpoints
	}

	source, ok := skillgraph.Lookup(m.tree.Skills, c.Source)
	if !ok {
		return skillgraph.Edge{}, m.reject("connect", fmt.Errorf("%w: %s", ErrSkillNotFound, c.Source))
	}
	target, ok := skillgraph.Lookup(m.tree.Skills, c.Target)
	if !ok {
		return skillgraph.Edge{}, m.reject("connect", fmt.Errorf("%w: %s", ErrSkillNotFound, c.Target))
	}

	if m.policy.RejectLockedIntoUnlocked && !source.Data.Unlocked && target.Data.Unlocked {
		return skillgraph.Edge{}, m.reject("connect", ErrLockedIntoUnlocked)
	}

	if !skillgraph.ValidateConnection(m.tree.Edges, c) {
		err := ErrDuplicateEdge
		if skillgraph.IsSelfLoop(c.Source, c.Target) {
			err = ErrSelfLoop
		}
		return skillgraph.Edge{}, m.reject("connect", err)
	}

	if skillgraph.WouldCreateCycle(m.tree.Edges, c.Source, c.Target) {
		return skillgraph.Edge{}, m.reject("connect", ErrCycle)
	}

	next := skillgraph.Tree{
		Skills: m.tree.Skills,
		Edges:  skillgraph.AddConnection(m.tree.Edges, c),
	}
	edge := next.Edges[len(next.Edges)-1]
	m.logger.Debug("prerequisite added", "source", c.Source, "target", c.Target)
	return edge, m.commit(ctx, next)
}

// Unlock marks a skill unlocked when every prerequisite is. Unlocking an
// already-unlocked or ineligible skill changes nothing and notifies nothing.
func (m *Manager) Unlock(ctx context.Context, id string) (skillgraph.Skill, error) {
	s, ok := skillgraph.Lookup(m.tree.Skills, id)
	if !ok {
		return skillgraph.Skill{}, fmt.Errorf("%w: %s", ErrSkillNotFound, id)
	}
	if s.Data.Unlocked {
		return s, ErrAlreadyUnlocked
	}
	if !skillgraph.CanUnlock(m.tree.Skills, m.tree.Edges, id) {
		m.logger.Info("unlock rejected", "id", id, "error", ErrNotUnlockable)
		return s, ErrNotUnlockable
	}

	next := skillgraph.Tree{
		Skills: skillgraph.Unlock(m.tree.Skills, id),
		Edges:  m.tree.Edges,
	}
	s.Data.Unlocked = true
	m.logger.Debug("skill unlocked", "id", id)
	m.notifier.NotifySuccess(fmt.Sprintf("You've unlocked %s", sanitize.Text(s.Data.Name)))
	return s, m.commit(ctx, next)
}

// Reset empties the tree and clears storage.
func (m *Manager) Reset(ctx context.Context) error {
	m.tree = skillgraph.Tree{}
	m.logger.Debug("tree reset")
	if m.storage != nil {
		if err := m.storage.Clear(ctx); err != nil {
			err = &store.ErrSave{Err: err}
			m.logger.Error("clear storage failed", "error", err)
			m.notifier.NotifyError(Message(err))
			return err
		}
	}
	m.notifier.NotifySuccess(msgReset)
	return nil
}

// Replace swaps in a whole tree, as when importing. The tree must pass
// skillgraph.Validate; otherwise the current tree is kept.
func (m *Manager) Replace(ctx context.Context, t skillgraph.Tree) error {
	if err := skillgraph.Validate(t); err != nil {
		m.logger.Info("replace rejected", "error", err)
		return err
	}
	m.logger.Debug("tree replaced", "skills", len(t.Skills), "edges", len(t.Edges))
	return m.commit(ctx, t.Clone())
}

// commit installs next and persists it. A save failure is reported but the
// in-memory tree keeps the change.
func (m *Manager) commit(ctx context.Context, next skillgraph.Tree) error {
	m.tree = next
	if m.storage == nil {
		return nil
	}
	if err := m.storage.Save(ctx, next); err != nil {
		if !IsSaveError(err) {
			err = &store.ErrSave{Err: err}
		}
		m.logger.Error("save tree failed", "error", err)
		m.notifier.NotifyError(Message(err))
		return err
	}
	return nil
}

func (m *Manager) reject(op string, err error) error {
	m.logger.Info(op+" rejected", "error", err)
	if msg := Message(err); msg != "" {
		m.notifier.NotifyError(msg)
	}
	return err
}
