package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/signal-triage/internal/core/embedding"
	"github.com/jinford/signal-triage/internal/core/labeling"
	"github.com/jinford/signal-triage/internal/core/news"
	"github.com/jinford/signal-triage/internal/core/scoring"
	"github.com/jinford/signal-triage/internal/core/training"
	"github.com/jinford/signal-triage/internal/infra/openai"
	"github.com/jinford/signal-triage/internal/infra/postgres"
	"github.com/jinford/signal-triage/internal/infra/tokenizer"
	"github.com/jinford/signal-triage/internal/platform/logger"
	"github.com/jinford/signal-triage/pkg/config"
	"github.com/jinford/signal-triage/pkg/db"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config   *config.Config
	Database *db.DB
	Logger   *slog.Logger
}

// NewAppContext は設定ファイルを読み込み、DBに接続して AppContext を作成する
func NewAppContext(ctx context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	appLogger := logger.New(logger.DefaultConfig())

	database, err := db.New(ctx, db.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	return &AppContext{
		Config:   cfg,
		Database: database,
		Logger:   appLogger,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Database != nil {
		ac.Database.Close()
	}
}

// newNewsService は記事サービスを組み立てる
func (ac *AppContext) newNewsService() *news.Service {
	repo := postgres.NewItemRepository(ac.Database.Pool)
	return news.NewService(repo, news.WithLogger(ac.Logger))
}

// newLabelingService は投票サービスを組み立てる
func (ac *AppContext) newLabelingService() *labeling.Service {
	repo := postgres.NewFeedbackRepository(ac.Database.Pool)
	return labeling.NewService(repo, labeling.WithLogger(ac.Logger))
}

// newEmbeddingService はEmbedding生成サービスを組み立てる
func (ac *AppContext) newEmbeddingService() (*embedding.Service, error) {
	if ac.Config.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY が設定されていません")
	}

	embedder := openai.NewEmbedder(ac.Config.OpenAI.APIKey,
		openai.WithEmbeddingModel(ac.Config.OpenAI.EmbeddingModel),
		openai.WithEmbeddingDimension(ac.Config.OpenAI.EmbeddingDimension),
	)

	counter, err := tokenizer.NewCounter(ac.Config.OpenAI.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("トークナイザの初期化に失敗: %w", err)
	}

	repo := postgres.NewEmbeddingRepository(ac.Database.Pool)
	return embedding.NewService(repo, embedder, counter,
		embedding.WithBatchSize(ac.Config.OpenAI.EmbeddingBatchSize),
		embedding.WithLogger(ac.Logger),
	), nil
}

// newTrainingService は学習サービスを組み立てる
func (ac *AppContext) newTrainingService() *training.Service {
	repo := postgres.NewArtifactRepository(ac.Database.Pool)
	return training.NewService(repo, ac.Config.OpenAI.EmbeddingModel,
		training.WithThreshold(ac.Config.Scoring.Threshold),
		training.WithLogger(ac.Logger),
	)
}

// newScoringService はスコアリングサービスを組み立てる
func (ac *AppContext) newScoringService() *scoring.Service {
	repo := postgres.NewPredictionRepository(ac.Database.Pool)
	artifacts := postgres.NewArtifactRepository(ac.Database.Pool)
	return scoring.NewService(repo, artifacts, scoring.WithLogger(ac.Logger))
}
