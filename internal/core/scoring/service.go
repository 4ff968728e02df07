package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/mo"

	"github.com/jinford/signal-triage/internal/core/training"
)

var (
	// ErrNoArtifact は学習済みモデルが1つも存在しない場合に返される
	ErrNoArtifact = errors.New("学習済みモデルが存在しません")
	// ErrMissingEmbedding は対象記事のEmbeddingが未生成の場合に返される
	ErrMissingEmbedding = errors.New("記事のEmbeddingが生成されていません")
)

// ArtifactSource は現行の学習済み成果物を提供するインターフェース
type ArtifactSource interface {
	GetCurrentArtifact(ctx context.Context) (mo.Option[*training.Artifact], error)
}

// Service はスコアリングのビジネスロジックを提供する
type Service struct {
	repo      Repository
	artifacts ArtifactSource
	batchSize int
	logger    *slog.Logger
}

type ServiceOption func(*Service)

// WithBatchSize は一括スコアリング時の1回あたりの処理件数を設定する
func WithBatchSize(size int) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(repo Repository, artifacts ArtifactSource, opts ...ServiceOption) *Service {
	s := &Service{
		repo:      repo,
		artifacts: artifacts,
		batchSize: 500,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score は現行モデルで1記事をスコアリングし、予測を追記する
// モデル未学習なら ErrNoArtifact、Embedding未生成なら ErrMissingEmbedding を返す
func (s *Service) Score(ctx context.Context, itemID uuid.UUID) (*Prediction, error) {
	artifact, err := s.currentArtifact(ctx)
	if err != nil {
		return nil, err
	}
	return s.scoreWith(ctx, artifact, itemID)
}

// ScoreMissing は現行モデルの予測がまだない記事をまとめてスコアリングする
// 個々の記事の失敗は記録して続行し、失敗した記事は次回実行で再試行される
func (s *Service) ScoreMissing(ctx context.Context) (*RunStats, error) {
	artifact, err := s.currentArtifact(ctx)
	if err != nil {
		return nil, err
	}

	stats := &RunStats{ArtifactVersion: artifact.Version}

	// 失敗した記事は未スコアのまま再度列挙されるため、
	// 同一実行内では各記事を一度だけ試行する
	attempted := make(map[uuid.UUID]struct{})

	for {
		itemIDs, err := s.repo.ListUnscoredItemIDs(ctx, artifact.EmbeddingModel, artifact.Version, s.batchSize)
		if err != nil {
			return nil, fmt.Errorf("未スコア記事の取得に失敗: %w", err)
		}

		var progressed bool
		for _, itemID := range itemIDs {
			if _, ok := attempted[itemID]; ok {
				continue
			}
			attempted[itemID] = struct{}{}
			progressed = true

			if _, err := s.scoreWith(ctx, artifact, itemID); err != nil {
				s.logger.Warn("記事のスコアリングに失敗しました",
					slog.String("itemID", itemID.String()),
					slog.Any("error", err),
				)
				stats.Failed++
				continue
			}
			stats.Scored++
		}

		if !progressed {
			break
		}
	}

	s.logger.Info("一括スコアリングが完了しました",
		slog.Int("version", artifact.Version),
		slog.Int("scored", stats.Scored),
		slog.Int("failed", stats.Failed),
	)

	return stats, nil
}

// LatestPrediction は指定記事の最新の予測を取得する（未スコアならnil）
func (s *Service) LatestPrediction(ctx context.Context, itemID uuid.UUID) (*Prediction, error) {
	opt, err := s.repo.GetLatestPrediction(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("予測の取得に失敗: %w", err)
	}
	prediction, ok := opt.Get()
	if !ok {
		return nil, nil
	}
	return prediction, nil
}

func (s *Service) currentArtifact(ctx context.Context) (*training.Artifact, error) {
	opt, err := s.artifacts.GetCurrentArtifact(ctx)
	if err != nil {
		return nil, fmt.Errorf("現行成果物の取得に失敗: %w", err)
	}
	artifact, ok := opt.Get()
	if !ok {
		return nil, ErrNoArtifact
	}
	return artifact, nil
}

func (s *Service) scoreWith(ctx context.Context, artifact *training.Artifact, itemID uuid.UUID) (*Prediction, error) {
	vecOpt, err := s.repo.GetEmbedding(ctx, itemID, artifact.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("Embeddingの取得に失敗: %w", err)
	}
	vector, ok := vecOpt.Get()
	if !ok {
		return nil, fmt.Errorf("%w: itemID=%s model=%s", ErrMissingEmbedding, itemID, artifact.EmbeddingModel)
	}

	score, err := artifact.Model.Probability(vector)
	if err != nil {
		return nil, fmt.Errorf("スコアの計算に失敗: %w", err)
	}

	class := ClassNotRelevant
	if score >= artifact.Threshold {
		class = ClassRelevant
	}

	prediction, err := s.repo.InsertPrediction(ctx, &Prediction{
		ItemID:          itemID,
		ArtifactVersion: artifact.Version,
		Score:           score,
		Class:           class,
	})
	if err != nil {
		return nil, fmt.Errorf("予測の保存に失敗: %w", err)
	}

	return prediction, nil
}
