package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/jinford/signal-triage/internal/core/scoring"
)

// ScoreItemAction は1記事を現行モデルでスコアリングするコマンドのアクション
func ScoreItemAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	itemID, err := uuid.Parse(cmd.String("item"))
	if err != nil {
		return fmt.Errorf("item はUUIDで指定してください: %w", err)
	}

	prediction, err := appCtx.newScoringService().Score(ctx, itemID)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrNoArtifact):
			return fmt.Errorf("学習済みモデルがありません。先に `train run` を実行してください")
		case errors.Is(err, scoring.ErrMissingEmbedding):
			return fmt.Errorf("記事のEmbeddingがありません。先に `embed run` を実行してください")
		}
		return err
	}

	fmt.Printf("✓ スコア: %.3f → %s（モデル v%d）\n",
		prediction.Score, prediction.Class, prediction.ArtifactVersion)

	return nil
}

// ScoreRunAction は現行モデルの予測がない記事を一括スコアリングするコマンドのアクション
func ScoreRunAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	stats, err := appCtx.newScoringService().ScoreMissing(ctx)
	if err != nil {
		if errors.Is(err, scoring.ErrNoArtifact) {
			return fmt.Errorf("学習済みモデルがありません。先に `train run` を実行してください")
		}
		return err
	}

	fmt.Printf("✓ 一括スコアリングが完了しました（モデル v%d / 成功 %d 件 / 失敗 %d 件）\n",
		stats.ArtifactVersion, stats.Scored, stats.Failed)

	return nil
}
