package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/mo"

	"github.com/jinford/signal-triage/internal/core/scoring"
)

// PredictionRepository は scoring.Repository インターフェースを実装する PostgreSQL リポジトリです
// Embeddingの読み取りは EmbeddingRepository と同じテーブルを参照する
type PredictionRepository struct {
	pool *pgxpool.Pool
	*EmbeddingRepository
}

// NewPredictionRepository は新しい PredictionRepository を作成します
func NewPredictionRepository(pool *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{
		pool:                pool,
		EmbeddingRepository: NewEmbeddingRepository(pool),
	}
}

// コンパイル時の型チェック
var _ scoring.Repository = (*PredictionRepository)(nil)

const predictionColumns = `id, news_item_id, artifact_version, score, predicted_label, created_at`

func (r *PredictionRepository) InsertPrediction(ctx context.Context, prediction *scoring.Prediction) (*scoring.Prediction, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO predictions (news_item_id, artifact_version, score, predicted_label)
		VALUES ($1, $2, $3, $4)
		RETURNING `+predictionColumns,
		UUIDToPgtype(prediction.ItemID), prediction.ArtifactVersion, prediction.Score, string(prediction.Class),
	)

	stored, err := scanPrediction(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert prediction: %w", err)
	}

	return stored, nil
}

func (r *PredictionRepository) GetLatestPrediction(ctx context.Context, itemID uuid.UUID) (mo.Option[*scoring.Prediction], error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+predictionColumns+`
		FROM predictions
		WHERE news_item_id = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		UUIDToPgtype(itemID),
	)

	prediction, err := scanPrediction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*scoring.Prediction](), nil
		}
		return mo.None[*scoring.Prediction](), fmt.Errorf("failed to get latest prediction: %w", err)
	}

	return mo.Some(prediction), nil
}

func (r *PredictionRepository) ListUnscoredItemIDs(ctx context.Context, embeddingModel string, artifactVersion int, limit int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.news_item_id
		FROM embeddings e
		WHERE e.embedding_model = $1
		AND NOT EXISTS (
			SELECT 1 FROM predictions p
			WHERE p.news_item_id = e.news_item_id AND p.artifact_version = $2
		)
		ORDER BY e.created_at
		LIMIT $3`,
		embeddingModel, artifactVersion, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list unscored items: %w", err)
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

func scanPrediction(row pgx.Row) (*scoring.Prediction, error) {
	var (
		prediction scoring.Prediction
		id         pgtype.UUID
		itemID     pgtype.UUID
		class      string
		createdAt  pgtype.Timestamp
	)
	if err := row.Scan(&id, &itemID, &prediction.ArtifactVersion, &prediction.Score, &class, &createdAt); err != nil {
		return nil, err
	}

	prediction.ID = PgtypeToUUID(id)
	prediction.ItemID = PgtypeToUUID(itemID)
	prediction.Class = scoring.Class(class)
	prediction.CreatedAt = PgtypeToTime(createdAt)
	return &prediction, nil
}
