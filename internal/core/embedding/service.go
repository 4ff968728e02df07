package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

const (
	// DefaultBatchSize はEmbedding APIのデフォルトバッチサイズ
	DefaultBatchSize = 32
	// MinBatchSize は最小バッチサイズ（MaxBatchSize()が0を返した場合のフォールバック）
	MinBatchSize = 1
)

// Service はEmbedding生成のユースケースを提供する
type Service struct {
	repo               Repository
	embedder           Embedder
	counter            TokenCounter
	batchSize          int
	contentTokenBudget int
	logger             *slog.Logger
}

type serviceOptions struct {
	batchSize          int
	contentTokenBudget int
	logger             *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*serviceOptions)

// WithBatchSize はバッチサイズを上書きする
func WithBatchSize(size int) ServiceOption {
	return func(o *serviceOptions) {
		o.batchSize = size
	}
}

// WithContentTokenBudget は本文のトークン上限を上書きする
func WithContentTokenBudget(budget int) ServiceOption {
	return func(o *serviceOptions) {
		o.contentTokenBudget = budget
	}
}

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// NewService は新しいServiceを作成する
func NewService(repo Repository, embedder Embedder, counter TokenCounter, opts ...ServiceOption) *Service {
	options := serviceOptions{
		batchSize:          DefaultBatchSize,
		contentTokenBudget: DefaultContentTokenBudget,
		logger:             slog.Default(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	// バッチサイズをEmbedderの最大値でクリップ
	batchSize := options.batchSize
	maxBatchSize := embedder.MaxBatchSize()
	if maxBatchSize <= 0 {
		maxBatchSize = MinBatchSize
	}
	if batchSize > maxBatchSize {
		batchSize = maxBatchSize
	}
	if batchSize <= 0 {
		batchSize = MinBatchSize
	}

	return &Service{
		repo:               repo,
		embedder:           embedder,
		counter:            counter,
		batchSize:          batchSize,
		contentTokenBudget: options.contentTokenBudget,
		logger:             options.logger,
	}
}

// GenerateMissing は設定モデルのEmbeddingを持たない記事に対してベクトルを生成する
//
// 1バッチの失敗は記録するだけで処理を続行し、保存済みのベクトルを巻き戻さない。
// 失敗した記事はEmbedding未生成のまま残るため、次回の実行で自然に再処理される。
func (s *Service) GenerateMissing(ctx context.Context) (*GenerateStats, error) {
	model := s.embedder.ModelName()

	items, err := s.repo.ListItemsMissingEmbedding(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("Embedding未生成記事の取得に失敗: %w", err)
	}

	stats := &GenerateStats{Pending: len(items)}

	if len(items) == 0 {
		s.logger.Info("全記事がEmbedding生成済み", "model", model)
		return stats, nil
	}

	s.logger.Info("Embedding生成を開始",
		"model", model,
		"pending", len(items),
		"batchSize", s.batchSize,
	)

	for start := 0; start < len(items); start += s.batchSize {
		end := min(start+s.batchSize, len(items))
		batch := items[start:end]

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		s.processBatch(ctx, model, batch, stats)
	}

	s.logger.Info("Embedding生成が完了",
		"model", model,
		"embedded", stats.Embedded,
		"failed", stats.Failed,
	)

	return stats, nil
}

// processBatch は1バッチ分のEmbeddingを生成・保存する
// バッチ全体の失敗も1記事の保存失敗も、他の記事の処理を妨げない
func (s *Service) processBatch(ctx context.Context, model string, batch []ItemText, stats *GenerateStats) {
	texts := make([]string, 0, len(batch))
	ids := make([]uuid.UUID, 0, len(batch))
	for _, item := range batch {
		text, err := BuildText(item.Title, item.Content, s.counter, s.contentTokenBudget)
		if err != nil {
			s.logger.Warn("Embeddingテキストの組み立てに失敗", "itemID", item.ID, "error", err)
			stats.Failed++
			continue
		}
		texts = append(texts, text)
		ids = append(ids, item.ID)
	}

	if len(texts) == 0 {
		return
	}

	vectors, err := s.embedder.BatchEmbed(ctx, texts)
	if err != nil {
		s.logger.Warn("Embedding生成に失敗（バッチをスキップ）",
			"model", model,
			"batchSize", len(texts),
			"error", err,
		)
		stats.Failed += len(texts)
		return
	}

	if len(vectors) != len(texts) {
		s.logger.Warn("Embedding数が入力数と一致しません（バッチをスキップ）",
			"expected", len(texts),
			"actual", len(vectors),
		)
		stats.Failed += len(texts)
		return
	}

	for i, vector := range vectors {
		if err := s.repo.UpsertEmbedding(ctx, ids[i], model, vector); err != nil {
			s.logger.Warn("Embeddingの保存に失敗", "itemID", ids[i], "error", err)
			stats.Failed++
			continue
		}
		stats.Embedded++
	}
}

// GetVector は (記事, モデル) のベクトルを取得する
func (s *Service) GetVector(ctx context.Context, itemID uuid.UUID, model string) (mo.Option[[]float32], error) {
	return s.repo.GetEmbedding(ctx, itemID, model)
}
