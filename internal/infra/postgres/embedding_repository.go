package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/samber/mo"

	"github.com/jinford/signal-triage/internal/core/embedding"
)

// EmbeddingRepository は embedding.Repository インターフェースを実装する PostgreSQL リポジトリです
type EmbeddingRepository struct {
	pool *pgxpool.Pool
}

// NewEmbeddingRepository は新しい EmbeddingRepository を作成します
func NewEmbeddingRepository(pool *pgxpool.Pool) *EmbeddingRepository {
	return &EmbeddingRepository{pool: pool}
}

// コンパイル時の型チェック
var _ embedding.Repository = (*EmbeddingRepository)(nil)

func (r *EmbeddingRepository) ListItemsMissingEmbedding(ctx context.Context, model string) ([]embedding.ItemText, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.title, n.content
		FROM news_items n
		WHERE NOT EXISTS (
			SELECT 1 FROM embeddings e
			WHERE e.news_item_id = n.id AND e.embedding_model = $1
		)
		ORDER BY COALESCE(n.published_at, n.scraped_at) DESC`,
		model,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items missing embedding: %w", err)
	}
	defer rows.Close()

	var items []embedding.ItemText
	for rows.Next() {
		var (
			id   pgtype.UUID
			item embedding.ItemText
		)
		if err := rows.Scan(&id, &item.Title, &item.Content); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.ID = PgtypeToUUID(id)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func (r *EmbeddingRepository) UpsertEmbedding(ctx context.Context, itemID uuid.UUID, model string, vector []float32) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO embeddings (news_item_id, embedding_model, embedding)
		VALUES ($1, $2, $3)
		ON CONFLICT (news_item_id, embedding_model)
		DO UPDATE SET embedding = EXCLUDED.embedding, created_at = CURRENT_TIMESTAMP`,
		UUIDToPgtype(itemID), model, pgvector.NewVector(vector),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

func (r *EmbeddingRepository) GetEmbedding(ctx context.Context, itemID uuid.UUID, model string) (mo.Option[[]float32], error) {
	var vector pgvector.Vector
	err := r.pool.QueryRow(ctx, `
		SELECT embedding
		FROM embeddings
		WHERE news_item_id = $1 AND embedding_model = $2`,
		UUIDToPgtype(itemID), model,
	).Scan(&vector)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[[]float32](), nil
		}
		return mo.None[[]float32](), fmt.Errorf("failed to get embedding: %w", err)
	}

	return mo.Some(vector.Slice()), nil
}
