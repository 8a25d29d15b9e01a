package postgres

import (
	"context"
	"fmt"

	"liquitrace/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriberRepository struct {
	pool *pgxpool.Pool
}

func NewSubscriberRepository(pool *pgxpool.Pool) *SubscriberRepository {
	return &SubscriberRepository{pool: pool}
}

func (r *SubscriberRepository) ListAll(ctx context.Context) ([]domain.Subscriber, error) {
	const q = `
		select fid, token, notification_url
		from notification_subscribers
		order by created_at, id;
	`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := make([]domain.Subscriber, 0, 64)
	for rows.Next() {
		var s domain.Subscriber
		if err = rows.Scan(&s.FID, &s.Token, &s.NotificationURL); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}
	return subscribers, nil
}

// DeleteByTokens removes every subscription holding one of the tokens, regardless of fid.
func (r *SubscriberRepository) DeleteByTokens(ctx context.Context, tokens []string) (int64, error) {
	if len(tokens) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `delete from notification_subscribers where token = any($1)`, tokens)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %d subscriber tokens: %w", len(tokens), err)
	}
	return tag.RowsAffected(), nil
}
