package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/samber/mo"

	"github.com/jinford/signal-triage/internal/core/labeling"
	"github.com/jinford/signal-triage/internal/core/training"
	"github.com/jinford/signal-triage/pkg/lock"
)

// ArtifactRepository は training.Repository インターフェースを実装する PostgreSQL リポジトリです
type ArtifactRepository struct {
	pool *pgxpool.Pool
}

// NewArtifactRepository は新しい ArtifactRepository を作成します
func NewArtifactRepository(pool *pgxpool.Pool) *ArtifactRepository {
	return &ArtifactRepository{pool: pool}
}

// コンパイル時の型チェック
var _ training.Repository = (*ArtifactRepository)(nil)

const artifactColumns = `id, version, embedding_model, weights, bias, threshold, metrics, train_samples, eval_samples, created_at`

func (r *ArtifactRepository) ListCandidates(ctx context.Context, embeddingModel string) ([]training.Candidate, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			e.news_item_id,
			e.embedding,
			array_agg(f.user_id ORDER BY f.user_id),
			array_agg(f.label ORDER BY f.user_id)
		FROM embeddings e
		JOIN feedback f ON f.news_item_id = e.news_item_id
		WHERE e.embedding_model = $1
		GROUP BY e.news_item_id, e.embedding`,
		embeddingModel,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list training candidates: %w", err)
	}
	defer rows.Close()

	var candidates []training.Candidate
	for rows.Next() {
		var (
			itemID pgtype.UUID
			vector pgvector.Vector
			users  []string
			labels []string
		)
		if err := rows.Scan(&itemID, &vector, &users, &labels); err != nil {
			return nil, fmt.Errorf("failed to scan training candidate: %w", err)
		}

		candidate := training.Candidate{
			ItemID: PgtypeToUUID(itemID),
			Vector: vector.Slice(),
		}
		for i, user := range users {
			polarity, err := labeling.ParsePolarity(labels[i])
			if err != nil {
				return nil, err
			}
			candidate.Votes = append(candidate.Votes, labeling.Vote{
				ItemID:   candidate.ItemID,
				UserID:   user,
				Polarity: polarity,
			})
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate training candidates: %w", err)
	}

	return candidates, nil
}

func (r *ArtifactRepository) InsertArtifact(ctx context.Context, artifact *training.Artifact) (*training.Artifact, error) {
	metrics, err := json.Marshal(artifact.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metrics: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// バージョン採番（MAX+1）を直列化する
	// ロックはトランザクション終了時に自動解放される
	manager := lock.NewManager(tx)
	if err := manager.Acquire(ctx, lock.GenerateLockID("model_artifacts", "version")); err != nil {
		return nil, fmt.Errorf("failed to acquire version lock: %w", err)
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO model_artifacts (version, embedding_model, weights, bias, threshold, metrics, train_samples, eval_samples)
		VALUES (
			(SELECT COALESCE(MAX(version), 0) + 1 FROM model_artifacts),
			$1, $2, $3, $4, $5, $6, $7
		)
		RETURNING `+artifactColumns,
		artifact.EmbeddingModel,
		artifact.Model.Weights,
		artifact.Model.Bias,
		artifact.Threshold,
		metrics,
		artifact.TrainSamples,
		artifact.EvalSamples,
	)

	stored, err := scanArtifact(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert artifact: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return stored, nil
}

func (r *ArtifactRepository) GetCurrentArtifact(ctx context.Context) (mo.Option[*training.Artifact], error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+artifactColumns+`
		FROM model_artifacts
		ORDER BY version DESC
		LIMIT 1`,
	)

	artifact, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*training.Artifact](), nil
		}
		return mo.None[*training.Artifact](), fmt.Errorf("failed to get current artifact: %w", err)
	}

	return mo.Some(artifact), nil
}

func (r *ArtifactRepository) GetArtifactByVersion(ctx context.Context, version int) (mo.Option[*training.Artifact], error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+artifactColumns+`
		FROM model_artifacts
		WHERE version = $1`,
		version,
	)

	artifact, err := scanArtifact(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*training.Artifact](), nil
		}
		return mo.None[*training.Artifact](), fmt.Errorf("failed to get artifact: %w", err)
	}

	return mo.Some(artifact), nil
}

func (r *ArtifactRepository) ListArtifacts(ctx context.Context) ([]*training.Artifact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+artifactColumns+`
		FROM model_artifacts
		ORDER BY version DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*training.Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}

	return artifacts, nil
}

func scanArtifact(row pgx.Row) (*training.Artifact, error) {
	var (
		artifact  training.Artifact
		id        pgtype.UUID
		metrics   []byte
		createdAt pgtype.Timestamp
	)
	if err := row.Scan(
		&id, &artifact.Version, &artifact.EmbeddingModel,
		&artifact.Model.Weights, &artifact.Model.Bias, &artifact.Threshold,
		&metrics, &artifact.TrainSamples, &artifact.EvalSamples, &createdAt,
	); err != nil {
		return nil, err
	}

	artifact.ID = PgtypeToUUID(id)
	artifact.CreatedAt = PgtypeToTime(createdAt)
	if err := json.Unmarshal(metrics, &artifact.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}

	return &artifact, nil
}
