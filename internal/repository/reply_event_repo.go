package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"devninja-chat/internal/models"
)

// querier is the subset of *pgxpool.Pool the repo needs.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type ReplyEventRepo struct {
	db querier
}

func NewReplyEventRepo(db querier) *ReplyEventRepo {
	return &ReplyEventRepo{db: db}
}

func (r *ReplyEventRepo) Create(ctx context.Context, e *models.ReplyEvent) error {
	e.ID = uuid.New()

	query := `INSERT INTO reply_events (id, session_id, source, reason, latency_ms)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`

	return r.db.QueryRow(ctx, query,
		e.ID, e.SessionID, e.Source, e.Reason, e.LatencyMS,
	).Scan(&e.CreatedAt)
}

func (r *ReplyEventRepo) CountBySource(ctx context.Context, since time.Time) (map[string]int64, error) {
	rows, err := r.db.Query(ctx,
		"SELECT source, COUNT(*) FROM reply_events WHERE created_at >= $1 GROUP BY source", since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{
		models.SourceRemote:   0,
		models.SourceFallback: 0,
	}
	for rows.Next() {
		var source string
		var n int64
		if err := rows.Scan(&source, &n); err != nil {
			return nil, err
		}
		counts[source] = n
	}
	return counts, rows.Err()
}
