package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// MatchAudit summarizes the shape of the match store over a time range.
type MatchAudit struct {
	From              time.Time      `json:"from"`
	To                time.Time      `json:"to"`
	Total             int            `json:"total"`
	ByStatus          map[string]int `json:"by_status"`
	MissingCreatedAt  int            `json:"missing_created_at"`
	NoParticipants    int            `json:"no_participants"`
	FeedbackNoRating  int            `json:"feedback_without_rating"`
	CompletedNoFinish int            `json:"completed_without_completed_at"`
}

type AuditRepository struct{ db *DB }

func NewAuditRepository(db *DB) *AuditRepository { return &AuditRepository{db: db} }

// StatusBreakdown counts matches per status and rows with data quality
// problems. Rows without created_at cannot be placed in the range and are
// counted across the whole table. Both queries read the same snapshot.
func (r *AuditRepository) StatusBreakdown(ctx context.Context, from, to time.Time) (MatchAudit, error) {
	a := MatchAudit{From: from, To: to, ByStatus: map[string]int{}}
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := r.db.WithTx(ctx, opts, func(tx pgx.Tx) error {
		return auditInTx(ctx, tx, &a)
	})
	return a, err
}

func auditInTx(ctx context.Context, tx pgx.Tx, a *MatchAudit) error {
	from, to := a.From, a.To
	rows, err := tx.Query(ctx, `
        SELECT COALESCE(status, 'unknown'), COUNT(*)
        FROM matches
        WHERE created_at >= $1 AND created_at <= $2
        GROUP BY 1`, from, to)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return err
		}
		a.ByStatus[status] = n
		a.Total += n
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
        SELECT
          COALESCE(SUM(CASE WHEN created_at >= $1 AND created_at <= $2
                             AND COALESCE(cardinality(matched_user_ids), 0) = 0 THEN 1 ELSE 0 END),0),
          COALESCE(SUM(CASE WHEN created_at >= $1 AND created_at <= $2
                             AND completion_feedback IS NOT NULL
                             AND completion_feedback->'rating' IS NULL THEN 1 ELSE 0 END),0),
          COALESCE(SUM(CASE WHEN created_at >= $1 AND created_at <= $2
                             AND status = 'completed_successful' AND completed_at IS NULL THEN 1 ELSE 0 END),0),
          COALESCE(SUM(CASE WHEN created_at IS NULL THEN 1 ELSE 0 END),0)
        FROM matches`, from, to).Scan(&a.NoParticipants, &a.FeedbackNoRating, &a.CompletedNoFinish, &a.MissingCreatedAt)
}
