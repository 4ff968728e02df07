package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jinford/signal-triage/internal/core/classifier"
	"github.com/jinford/signal-triage/internal/core/labeling"
)

// ErrInsufficientData は学習に必要なサンプルが足りない場合に返される
// 呼び出し側は errors.Is で判定する
var ErrInsufficientData = errors.New("学習に必要なサンプルが不足しています")

// Service は学習パイプラインのビジネスロジックを提供する
type Service struct {
	repo           Repository
	embeddingModel string
	threshold      float64
	logger         *slog.Logger
}

type ServiceOption func(*Service)

// WithThreshold は成果物に記録するスコア閾値を設定する
func WithThreshold(threshold float64) ServiceOption {
	return func(s *Service) {
		s.threshold = threshold
	}
}

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(repo Repository, embeddingModel string, opts ...ServiceOption) *Service {
	s := &Service{
		repo:           repo,
		embeddingModel: embeddingModel,
		threshold:      0.5,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Train は現在の投票とEmbeddingから新しいモデルを学習し、成果物として保存する
// サンプル数が cfg.MinSamples 未満、または片方のクラスしか存在しない場合は
// ErrInsufficientData を返し、成果物は作成しない
func (s *Service) Train(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("学習設定が不正です: %w", err)
	}

	candidates, err := s.repo.ListCandidates(ctx, s.embeddingModel)
	if err != nil {
		return nil, fmt.Errorf("学習サンプルの取得に失敗: %w", err)
	}

	// ラベルは投票から都度解決する。同数票の記事は学習から除外
	var samples []Sample
	for _, c := range candidates {
		label := labeling.Resolve(c.Votes)
		if !label.Resolved() {
			continue
		}
		samples = append(samples, Sample{
			ItemID:   c.ItemID,
			Vector:   c.Vector,
			Relevant: label == labeling.LabelRelevant,
		})
	}
	unresolved := len(candidates) - len(samples)

	if err := checkSufficiency(samples, cfg.MinSamples); err != nil {
		return nil, err
	}

	train, eval := stratifiedSplit(samples, cfg.EvalRatio, cfg.Seed)

	vectors := make([][]float32, len(train))
	labels := make([]bool, len(train))
	for i, sample := range train {
		vectors[i] = sample.Vector
		labels[i] = sample.Relevant
	}

	model, err := classifier.Fit(vectors, labels, classifier.FitConfig{
		LearningRate:   cfg.LearningRate,
		Epochs:         cfg.Epochs,
		L2:             cfg.L2,
		BalanceClasses: true,
	})
	if err != nil {
		return nil, fmt.Errorf("モデルの学習に失敗: %w", err)
	}

	metrics, err := evaluate(model, eval, s.threshold)
	if err != nil {
		return nil, fmt.Errorf("モデルの評価に失敗: %w", err)
	}

	artifact, err := s.repo.InsertArtifact(ctx, &Artifact{
		EmbeddingModel: s.embeddingModel,
		Model:          *model,
		Threshold:      s.threshold,
		Metrics:        metrics,
		TrainSamples:   len(train),
		EvalSamples:    len(eval),
	})
	if err != nil {
		return nil, fmt.Errorf("成果物の保存に失敗: %w", err)
	}

	s.logger.Info("モデルの学習が完了しました",
		slog.Int("version", artifact.Version),
		slog.Int("trainSamples", artifact.TrainSamples),
		slog.Int("evalSamples", artifact.EvalSamples),
		slog.Float64("accuracy", metrics.Accuracy),
		slog.Float64("f1", metrics.F1),
	)

	return &Result{
		Artifact:        artifact,
		TotalCandidates: len(candidates),
		Unresolved:      unresolved,
	}, nil
}

// CurrentArtifact は現行（最大バージョン）の成果物を取得する
func (s *Service) CurrentArtifact(ctx context.Context) (*Artifact, error) {
	opt, err := s.repo.GetCurrentArtifact(ctx)
	if err != nil {
		return nil, fmt.Errorf("現行成果物の取得に失敗: %w", err)
	}
	artifact, ok := opt.Get()
	if !ok {
		return nil, nil
	}
	return artifact, nil
}

// ArtifactByVersion は指定バージョンの成果物を取得する
func (s *Service) ArtifactByVersion(ctx context.Context, version int) (*Artifact, error) {
	opt, err := s.repo.GetArtifactByVersion(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("成果物の取得に失敗: %w", err)
	}
	artifact, ok := opt.Get()
	if !ok {
		return nil, nil
	}
	return artifact, nil
}

// ListArtifacts は全成果物をバージョン降順で取得する
func (s *Service) ListArtifacts(ctx context.Context) ([]*Artifact, error) {
	artifacts, err := s.repo.ListArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("成果物一覧の取得に失敗: %w", err)
	}
	return artifacts, nil
}

func checkSufficiency(samples []Sample, minSamples int) error {
	if len(samples) < minSamples {
		return fmt.Errorf("%w: 解決済みラベルが %d 件（最低 %d 件必要）", ErrInsufficientData, len(samples), minSamples)
	}

	var positives int
	for _, s := range samples {
		if s.Relevant {
			positives++
		}
	}
	if positives == 0 || positives == len(samples) {
		return fmt.Errorf("%w: 両方のクラスのラベルが必要です（relevant %d 件 / not_relevant %d 件）",
			ErrInsufficientData, positives, len(samples)-positives)
	}

	return nil
}
