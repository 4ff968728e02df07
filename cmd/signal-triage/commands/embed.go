package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// EmbedRunAction はEmbedding未生成の記事に対してベクトルを生成するコマンドのアクション
func EmbedRunAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc, err := appCtx.newEmbeddingService()
	if err != nil {
		return err
	}

	stats, err := svc.GenerateMissing(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Embedding生成が完了しました（対象 %d 件 / 生成 %d 件 / 失敗 %d 件）\n",
		stats.Pending, stats.Embedded, stats.Failed)
	if stats.Failed > 0 {
		fmt.Println("  失敗した記事は次回の実行で再処理されます")
	}

	return nil
}
