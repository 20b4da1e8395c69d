package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devninja-chat/internal/models"
)

type rowStub struct {
	createdAt time.Time
	err       error
}

func (r rowStub) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*time.Time)) = r.createdAt
	return nil
}

type countRow struct {
	source string
	n      int64
}

// rowsStub serves count rows; the embedded interface covers methods the
// repository never calls.
type rowsStub struct {
	pgx.Rows
	rows   []countRow
	pos    int
	closed bool
}

func (r *rowsStub) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *rowsStub) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	*(dest[0].(*string)) = row.source
	*(dest[1].(*int64)) = row.n
	return nil
}

func (r *rowsStub) Err() error { return nil }

func (r *rowsStub) Close() { r.closed = true }

type querierStub struct {
	sql  string
	args []any
	row  rowStub
	rows *rowsStub
}

func (q *querierStub) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.sql, q.args = sql, args
	return q.row
}

func (q *querierStub) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql, q.args = sql, args
	if q.rows == nil {
		return nil, errors.New("query not stubbed")
	}
	return q.rows, nil
}

func TestReplyEventRepo_Create(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	db := &querierStub{row: rowStub{createdAt: created}}
	repo := NewReplyEventRepo(db)

	sessionID := uuid.New()
	event := &models.ReplyEvent{SessionID: sessionID, Source: models.SourceFallback, Reason: models.ReasonTransport, LatencyMS: 42}
	require.NoError(t, repo.Create(context.Background(), event))

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, created, event.CreatedAt)
	assert.True(t, strings.HasPrefix(db.sql, "INSERT INTO reply_events"))
	require.Len(t, db.args, 5)
	assert.Equal(t, sessionID, db.args[1])
	assert.Equal(t, int64(42), db.args[4])
}

func TestReplyEventRepo_CreateScanError(t *testing.T) {
	db := &querierStub{row: rowStub{err: errors.New("relation does not exist")}}
	repo := NewReplyEventRepo(db)

	err := repo.Create(context.Background(), &models.ReplyEvent{Source: models.SourceRemote})
	assert.EqualError(t, err, "relation does not exist")
}

func TestReplyEventRepo_CountBySourceQueryError(t *testing.T) {
	repo := NewReplyEventRepo(&querierStub{})

	_, err := repo.CountBySource(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestReplyEventRepo_CountBySource(t *testing.T) {
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rows []countRow
		want map[string]int64
	}{
		{
			name: "no events yet",
			want: map[string]int64{models.SourceRemote: 0, models.SourceFallback: 0},
		},
		{
			name: "only fallback replies",
			rows: []countRow{{models.SourceFallback, 7}},
			want: map[string]int64{models.SourceRemote: 0, models.SourceFallback: 7},
		},
		{
			name: "both sources",
			rows: []countRow{{models.SourceRemote, 12}, {models.SourceFallback, 3}},
			want: map[string]int64{models.SourceRemote: 12, models.SourceFallback: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := &rowsStub{rows: tt.rows}
			db := &querierStub{rows: rows}

			got, err := NewReplyEventRepo(db).CountBySource(context.Background(), since)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, rows.closed)
			assert.Equal(t, []any{since}, db.args)
		})
	}
}
