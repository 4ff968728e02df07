package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jinford/signal-triage/internal/core/training"
)

// TrainRunAction は現在の投票とEmbeddingからモデルを学習するコマンドのアクション
func TrainRunAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	cfg := training.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		cfg, err = training.LoadConfigFile(path)
		if err != nil {
			return err
		}
	}

	result, err := appCtx.newTrainingService().Train(ctx, cfg)
	if err != nil {
		if errors.Is(err, training.ErrInsufficientData) {
			fmt.Println("学習に必要なサンプルが不足しています。投票とEmbedding生成を進めてください")
			fmt.Printf("  詳細: %v\n", err)
			return nil
		}
		return err
	}

	artifact := result.Artifact
	fmt.Printf("✓ モデル v%d を学習しました\n", artifact.Version)
	fmt.Printf("  学習サンプル: %d / 評価サンプル: %d\n", artifact.TrainSamples, artifact.EvalSamples)
	if result.Unresolved > 0 {
		fmt.Printf("  同数票のため除外: %d 件\n", result.Unresolved)
	}
	fmt.Printf("  Accuracy: %.3f / Precision: %.3f / Recall: %.3f / F1: %.3f\n",
		artifact.Metrics.Accuracy, artifact.Metrics.Precision,
		artifact.Metrics.Recall, artifact.Metrics.F1)

	return nil
}
