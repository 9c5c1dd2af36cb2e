package store

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skilltree/internal/sanitize"
	"github.com/abhisek/skilltree/internal/skillgraph"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), opts...)
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func intPtr(v int) *int { return &v }

func sampleTree() skillgraph.Tree {
	return skillgraph.Tree{
		Skills: []skillgraph.Skill{
			{ID: "a", Position: skillgraph.Position{X: 200, Y: 100}, Data: skillgraph.SkillData{Name: "Arithmetic", Description: "Add and subtract", Level: intPtr(1), Unlocked: true}},
			{ID: "b", Position: skillgraph.Position{X: 210.5, Y: 95}, Data: skillgraph.SkillData{Name: "Algebra", Description: "Solve for x"}},
		},
		Edges: []skillgraph.Edge{skillgraph.NewEdge("a", "b")},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, strings.ToLower(got), "PRAGMA %s", tt.pragma)
	}
}

func TestLoadEmpty(t *testing.T) {
	repo := openTestStore(t).TreeRepo()

	tree, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tree)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := openTestStore(t).TreeRepo()
	ctx := context.Background()
	want := sampleTree()

	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestSaveLoadRoundTripSanitizedNames(t *testing.T) {
	repo := openTestStore(t).TreeRepo()
	ctx := context.Background()

	want := skillgraph.Tree{Skills: []skillgraph.Skill{
		{ID: "a", Data: skillgraph.SkillData{
			Name:        sanitize.Text("AT&amp;amp;T"),
			Description: sanitize.Text("&amp;lt;b&amp;gt;Fire"),
		}},
	}}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want, *got)
	assert.Equal(t, "AT&T", got.Skills[0].Data.Name)
}

func TestLoadReturnsNewest(t *testing.T) {
	repo := openTestStore(t).TreeRepo()
	ctx := context.Background()

	first := sampleTree()
	second := sampleTree()
	second.Skills[1].Data.Unlocked = true

	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Skills[1].Data.Unlocked)
}

func TestClear(t *testing.T) {
	repo := openTestStore(t).TreeRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleTree()))
	require.NoError(t, repo.Clear(ctx))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	history, err := repo.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSaveRejectsOversizedTree(t *testing.T) {
	repo := openTestStore(t, WithMaxBytes(64)).TreeRepo()
	ctx := context.Background()

	err := repo.Save(ctx, sampleTree())
	require.Error(t, err)
	assert.True(t, IsStorageFull(err))

	var saveErr *ErrSave
	assert.True(t, errors.As(err, &saveErr))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "oversized tree must not be stored")
}

func TestSavePrunesToKeep(t *testing.T) {
	s := openTestStore(t, WithKeep(3))
	repo := s.TreeRepo()
	ctx := context.Background()

	for range 7 {
		require.NoError(t, repo.Save(ctx, sampleTree()))
	}

	history, err := repo.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, int64(7), history[0].Sequence)
	assert.Equal(t, int64(5), history[2].Sequence)
	assert.Positive(t, history[0].Bytes)
}

func TestPruneWithFewerThanKeep(t *testing.T) {
	repo := openTestStore(t).TreeRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleTree()))
	require.NoError(t, repo.Save(ctx, sampleTree()))
	require.NoError(t, repo.Prune(ctx, 5))

	history, err := repo.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestHistoryLimit(t *testing.T) {
	repo := openTestStore(t).TreeRepo()
	ctx := context.Background()

	for range 4 {
		require.NoError(t, repo.Save(ctx, sampleTree()))
	}

	history, err := repo.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestSequenceSurvivesClear(t *testing.T) {
	repo := openTestStore(t).TreeRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, sampleTree()))
	require.NoError(t, repo.Save(ctx, sampleTree()))
	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Save(ctx, sampleTree()))

	history, err := repo.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, int64(3), history[0].Sequence)
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		got, err := sc.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestLoadDiscardsMalformedRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`INSERT INTO tree_snapshots (sequence, saved_at, data) VALUES (1, 0, '{ bad json')`)
	require.NoError(t, err)

	got, err := s.TreeRepo().Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "nested", "tree.db")
		t.Setenv("SKILLTREE_DB", p)

		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.DirExists(t, filepath.Dir(p))
	})

	t.Run("xdg data home", func(t *testing.T) {
		dataHome := t.TempDir()
		t.Setenv("SKILLTREE_DB", "")
		t.Setenv("XDG_DATA_HOME", dataHome)

		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dataHome, "skilltree", "skilltree.db"), got)
	})
}
