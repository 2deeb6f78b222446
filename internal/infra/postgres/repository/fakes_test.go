package repository

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type call struct {
	sql  string
	args []any
}

// fakeDB implements postgres.DBTX. Statements go through the exec and
// queryRow hooks; batches run their queued statements through exec.
type fakeDB struct {
	exec     func(sql string, args []any) (pgconn.CommandTag, error)
	queryRow func(sql string, args []any) pgx.Row

	batchCloseErr error
	batches       []*fakeBatchResults
	calls         []call
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.calls = append(db.calls, call{sql: sql, args: args})
	if db.exec == nil {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return db.exec(sql, args)
}

func (db *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (db *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	db.calls = append(db.calls, call{sql: sql, args: args})
	if db.queryRow == nil {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return db.queryRow(sql, args)
}

func (db *fakeDB) SendBatch(_ context.Context, b *pgx.Batch) pgx.BatchResults {
	br := &fakeBatchResults{db: db, queued: slices.Clone(b.QueuedQueries), closeErr: db.batchCloseErr}
	db.batches = append(db.batches, br)
	return br
}

func (db *fakeDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("unexpected copy")
}

type fakeBatchResults struct {
	db       *fakeDB
	queued   []*pgx.QueuedQuery
	closeErr error
	closed   bool
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if len(b.queued) == 0 {
		return pgconn.CommandTag{}, errors.New("no queued statements left")
	}
	q := b.queued[0]
	b.queued = b.queued[1:]
	return b.db.Exec(context.Background(), q.SQL, q.Arguments...)
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) {
	return nil, errors.New("unexpected batch query")
}

func (b *fakeBatchResults) QueryRow() pgx.Row {
	return fakeRow{err: errors.New("unexpected batch query row")}
}

func (b *fakeBatchResults) Close() error {
	b.closed = true
	return b.closeErr
}

// fakeRow scans values into targets of a convertible type; nil zeroes the target.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d targets for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v).Convert(target.Type()))
	}
	return nil
}

type historyRow struct {
	userID int64
	query  string
}

// historyTable plays search_history for the statements HistoryRepository.Add
// sends. Rows are kept oldest first.
type historyTable struct {
	rows []historyRow
}

func (h *historyTable) exec(sql string, args []any) (pgconn.CommandTag, error) {
	userID := args[0].(int64)

	switch {
	case strings.Contains(sql, "INSERT INTO search_history"):
		query := args[1].(string)
		h.rows = slices.DeleteFunc(h.rows, func(r historyRow) bool {
			return r.userID == userID && r.query == query
		})
		h.rows = append(h.rows, historyRow{userID: userID, query: query})
		return pgconn.NewCommandTag("INSERT 0 1"), nil

	case strings.Contains(sql, "DELETE FROM search_history"):
		keep := args[1].(int)
		seen, deleted := 0, 0
		kept := make([]historyRow, 0, len(h.rows))
		for i := len(h.rows) - 1; i >= 0; i-- {
			r := h.rows[i]
			if r.userID == userID {
				seen++
				if seen > keep {
					deleted++
					continue
				}
			}
			kept = append(kept, r)
		}
		slices.Reverse(kept)
		h.rows = kept
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", deleted)), nil
	}

	return pgconn.CommandTag{}, fmt.Errorf("unexpected statement: %s", sql)
}

// recent returns the user's queries, most recent first.
func (h *historyTable) recent(userID int64) []string {
	var out []string
	for i := len(h.rows) - 1; i >= 0; i-- {
		if h.rows[i].userID == userID {
			out = append(out, h.rows[i].query)
		}
	}
	return out
}
