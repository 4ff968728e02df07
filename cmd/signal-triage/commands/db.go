package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

// DBInitAction はデータベーススキーマを初期化するコマンドのアクション
func DBInitAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if err := appCtx.Database.InitSchema(ctx); err != nil {
		return fmt.Errorf("スキーマの初期化に失敗: %w", err)
	}

	fmt.Println("✓ データベーススキーマを初期化しました")
	return nil
}

// DBStatusAction はデータベースの集計情報を表示するコマンドのアクション
func DBStatusAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	stats, err := appCtx.newNewsService().Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Println("=== データベースの状態 ===")
	fmt.Printf("記事数:        %d\n", stats.TotalItems)
	fmt.Printf("Embedding数:   %d\n", stats.TotalEmbeddings)
	fmt.Printf("投票数:        %d (relevant: %d / not_relevant: %d)\n",
		stats.TotalVotes, stats.RelevantVotes, stats.NotRelevantVotes)
	fmt.Printf("予測数:        %d\n", stats.TotalPredictions)

	if len(stats.BySource) > 0 {
		fmt.Println("\nソース別の記事数:")
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Source", "Items")
		for _, sc := range stats.BySource {
			table.Append(sc.Source, fmt.Sprintf("%d", sc.Count))
		}
		table.Render()
	}

	if len(stats.LatestItems) > 0 {
		fmt.Println("\n最新の記事:")
		for _, item := range stats.LatestItems {
			fmt.Printf("  - %s (%s)\n", item.Title, item.Source)
		}
	}

	return nil
}
