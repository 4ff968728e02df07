package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/signal-triage/internal/core/labeling"
)

// FeedbackRepository は labeling.Repository インターフェースを実装する PostgreSQL リポジトリです
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository は新しい FeedbackRepository を作成します
func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// コンパイル時の型チェック
var _ labeling.Repository = (*FeedbackRepository)(nil)

func (r *FeedbackRepository) UpsertVote(ctx context.Context, itemID uuid.UUID, userID string, polarity labeling.Polarity) (*labeling.Vote, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO feedback (news_item_id, user_id, label)
		VALUES ($1, $2, $3)
		ON CONFLICT (news_item_id, user_id)
		DO UPDATE SET label = EXCLUDED.label, created_at = CURRENT_TIMESTAMP
		RETURNING news_item_id, user_id, label, created_at`,
		UUIDToPgtype(itemID), userID, string(polarity),
	)

	vote, err := scanVote(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert vote: %w", err)
	}

	return vote, nil
}

func (r *FeedbackRepository) ListVotesByItem(ctx context.Context, itemID uuid.UUID) ([]labeling.Vote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT news_item_id, user_id, label, created_at
		FROM feedback
		WHERE news_item_id = $1
		ORDER BY user_id`,
		UUIDToPgtype(itemID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []labeling.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, *vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	return votes, nil
}

func (r *FeedbackRepository) GetVote(ctx context.Context, itemID uuid.UUID, userID string) (*labeling.Vote, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT news_item_id, user_id, label, created_at
		FROM feedback
		WHERE news_item_id = $1 AND user_id = $2`,
		UUIDToPgtype(itemID), userID,
	)

	vote, err := scanVote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	return vote, nil
}

func (r *FeedbackRepository) ListUnvotedItemIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id
		FROM news_items n
		WHERE NOT EXISTS (
			SELECT 1 FROM feedback f
			WHERE f.news_item_id = n.id AND f.user_id = $1
		)
		ORDER BY COALESCE(n.published_at, n.scraped_at) DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unvoted items: %w", err)
	}
	defer rows.Close()

	var itemIDs []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		itemIDs = append(itemIDs, PgtypeToUUID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item ids: %w", err)
	}

	return itemIDs, nil
}

func scanVote(row pgx.Row) (*labeling.Vote, error) {
	var (
		itemID    pgtype.UUID
		label     string
		createdAt pgtype.Timestamp
		vote      labeling.Vote
	)
	if err := row.Scan(&itemID, &vote.UserID, &label, &createdAt); err != nil {
		return nil, err
	}

	polarity, err := labeling.ParsePolarity(label)
	if err != nil {
		return nil, err
	}

	vote.ItemID = PgtypeToUUID(itemID)
	vote.Polarity = polarity
	vote.CreatedAt = PgtypeToTime(createdAt)
	return &vote, nil
}
