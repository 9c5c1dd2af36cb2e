package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skilltree/internal/skillgraph"
)

// TreeRepo persists whole skill trees. Each Save appends a snapshot; Load
// returns the latest one.
type TreeRepo interface {
	// Load returns the latest stored tree, or nil when nothing usable is
	// stored. Only database failures are returned as errors.
	Load(ctx context.Context) (*skillgraph.Tree, error)
	Save(ctx context.Context, tree skillgraph.Tree) error
	Clear(ctx context.Context) error
	History(ctx context.Context, limit int) ([]SnapshotInfo, error)
	Prune(ctx context.Context, keep int) error
}

// SnapshotInfo describes a stored tree without decoding it.
type SnapshotInfo struct {
	Sequence int64
	SavedAt  time.Time
	Bytes    int
}

// treeRepo implements TreeRepo using the ent SQL driver and query builder.
type treeRepo struct {
	drv      *entsql.Driver
	seq      *sequenceCounter
	logger   *slog.Logger
	keep     int
	maxBytes int
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *treeRepo) Save(ctx context.Context, tree skillgraph.Tree) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return &ErrSave{Err: fmt.Errorf("marshal tree: %w", err)}
	}
	if r.maxBytes > 0 && len(data) > r.maxBytes {
		r.logger.Warn("tree exceeds storage cap", "bytes", len(data), "max_bytes", r.maxBytes)
		return &ErrSave{Err: fmt.Errorf("%w: %d bytes exceeds %d", ErrStorageFull, len(data), r.maxBytes)}
	}

	seq, err := r.seq.Next(ctx)
	if err != nil {
		return &ErrSave{Err: classify(err)}
	}

	query, args := builder().Insert(snapshotsTable).
		Columns("sequence", "saved_at", "data").
		Values(seq, time.Now().UnixMilli(), string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return &ErrSave{Err: classify(err)}
	}
	r.logger.Debug("tree saved", "sequence", seq, "skills", len(tree.Skills), "edges", len(tree.Edges))

	if err := r.Prune(ctx, r.keep); err != nil {
		r.logger.Warn("prune after save failed", "error", err)
	}
	return nil
}

func (r *treeRepo) Load(ctx context.Context) (*skillgraph.Tree, error) {
	b := builder()
	query, args := b.Select("sequence", "data").
		From(b.Table(snapshotsTable)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query latest tree: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query latest tree: %w", err)
		}
		return nil, nil
	}
	var (
		seq  int64
		data string
	)
	if err := rows.Scan(&seq, &data); err != nil {
		return nil, fmt.Errorf("scan latest tree: %w", err)
	}

	tree := decode([]byte(data), r.logger.With("sequence", seq))
	return tree, nil
}

func (r *treeRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(snapshotsTable).Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear trees: %w", err)
	}
	return nil
}

func (r *treeRepo) History(ctx context.Context, limit int) ([]SnapshotInfo, error) {
	b := builder()
	sel := b.Select("sequence", "saved_at", "LENGTH(data)").
		From(b.Table(snapshotsTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var (
			info    SnapshotInfo
			savedAt int64
		)
		if err := rows.Scan(&info.Sequence, &savedAt, &info.Bytes); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return out, nil
}

func (r *treeRepo) Prune(ctx context.Context, keep int) error {
	if keep < 1 {
		keep = 1
	}

	// Find the threshold: the sequence of the first snapshot past keep.
	b := builder()
	query, args := b.Select("sequence").
		From(b.Table(snapshotsTable)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Offset(keep).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return nil // fewer than keep snapshots exist
	}

	query, args = builder().Delete(snapshotsTable).
		Where(entsql.LTE("sequence", threshold)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
