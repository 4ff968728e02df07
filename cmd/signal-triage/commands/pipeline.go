package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v3"

	"github.com/jinford/signal-triage/internal/core/scoring"
	"github.com/jinford/signal-triage/internal/core/training"
)

// PipelineRunAction はEmbedding生成→学習→スコアリングを一括実行するコマンドのアクション
func PipelineRunAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	return runPipeline(ctx, appCtx, cmd.String("config"))
}

// PipelineScheduleAction はパイプラインをcronスケジュールで定期実行するコマンドのアクション
// シグナルを受け取るまで動き続ける
func PipelineScheduleAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	schedule := cmd.String("cron")
	configPath := cmd.String("config")

	scheduler := cron.New()
	_, err = scheduler.AddFunc(schedule, func() {
		if err := runPipeline(ctx, appCtx, configPath); err != nil {
			appCtx.Logger.Error("パイプラインの実行に失敗しました", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron式の解釈に失敗: %w", err)
	}

	appCtx.Logger.Info("パイプラインのスケジュール実行を開始します", slog.String("cron", schedule))
	scheduler.Start()

	<-ctx.Done()

	// 実行中のジョブの完了を待つ
	stopCtx := scheduler.Stop()
	<-stopCtx.Done()

	appCtx.Logger.Info("パイプラインのスケジュール実行を停止しました")
	return nil
}

// runPipeline はパイプラインの1回分を実行する
// 学習データ不足やモデル未学習は異常ではなく、処理できる段階まで進めて正常終了する
func runPipeline(ctx context.Context, appCtx *AppContext, configPath string) error {
	embedSvc, err := appCtx.newEmbeddingService()
	if err != nil {
		return err
	}

	embedStats, err := embedSvc.GenerateMissing(ctx)
	if err != nil {
		return fmt.Errorf("Embedding生成に失敗: %w", err)
	}
	fmt.Printf("✓ Embedding生成: 対象 %d 件 / 生成 %d 件 / 失敗 %d 件\n",
		embedStats.Pending, embedStats.Embedded, embedStats.Failed)

	trainCfg := training.DefaultConfig()
	if configPath != "" {
		trainCfg, err = training.LoadConfigFile(configPath)
		if err != nil {
			return err
		}
	}

	result, err := appCtx.newTrainingService().Train(ctx, trainCfg)
	switch {
	case errors.Is(err, training.ErrInsufficientData):
		fmt.Println("- 学習: サンプル不足のためスキップしました")
	case err != nil:
		return fmt.Errorf("学習に失敗: %w", err)
	default:
		fmt.Printf("✓ 学習: モデル v%d（Accuracy %.3f / F1 %.3f）\n",
			result.Artifact.Version, result.Artifact.Metrics.Accuracy, result.Artifact.Metrics.F1)
	}

	scoreStats, err := appCtx.newScoringService().ScoreMissing(ctx)
	switch {
	case errors.Is(err, scoring.ErrNoArtifact):
		fmt.Println("- スコアリング: 学習済みモデルがないためスキップしました")
	case err != nil:
		return fmt.Errorf("スコアリングに失敗: %w", err)
	default:
		fmt.Printf("✓ スコアリング: モデル v%d / 成功 %d 件 / 失敗 %d 件\n",
			scoreStats.ArtifactVersion, scoreStats.Scored, scoreStats.Failed)
	}

	return nil
}
