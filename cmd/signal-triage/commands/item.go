package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jinford/signal-triage/internal/core/news"
)

// ItemAddAction は記事を登録するコマンドのアクション
func ItemAddAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	metadata, err := parseMetadataFlags(cmd.StringSlice("meta"))
	if err != nil {
		return err
	}

	var publishedAt *time.Time
	if v := cmd.String("published-at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return fmt.Errorf("published-at はRFC3339形式で指定してください: %w", err)
		}
		publishedAt = &t
	}

	result, err := appCtx.newNewsService().Register(ctx, news.CreateItemParams{
		Source:      cmd.String("source"),
		Title:       cmd.String("title"),
		URL:         cmd.String("url"),
		Content:     cmd.String("content"),
		Metadata:    metadata,
		PublishedAt: publishedAt,
	})
	if err != nil {
		return err
	}

	if result.Duplicate {
		fmt.Printf("同じURLの記事が既に登録されています: %s\n", result.Item.ID)
	} else {
		fmt.Printf("✓ 記事を登録しました: %s\n", result.Item.ID)
	}

	return nil
}

// ItemListAction は最近の記事を投票集計つきで表示するコマンドのアクション
func ItemListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	items, err := appCtx.newNewsService().ListRecent(ctx,
		cmd.Int("days"), cmd.String("user"), cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Println("該当する記事がありません")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Source", "Title", "Votes", "Your Vote", "Score")

	for _, item := range items {
		userVote := "-"
		if item.UserVote != nil {
			userVote = *item.UserVote
		}
		score := "-"
		if item.LatestScore != nil {
			class := ""
			if item.LatestClass != nil {
				class = " " + *item.LatestClass
			}
			score = fmt.Sprintf("%.3f%s", *item.LatestScore, class)
		}
		table.Append(
			item.ID.String()[:8],
			item.Source,
			truncateTitle(item.Title, 48),
			fmt.Sprintf("+%d/-%d", item.Upvotes, item.Downvotes),
			userVote,
			score,
		)
	}

	table.Render()
	return nil
}

// parseMetadataFlags は key=value 形式のフラグ群をメタデータに変換する
func parseMetadataFlags(pairs []string) (news.ItemMetadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	metadata := make(news.ItemMetadata, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("メタデータは key=value 形式で指定してください: %q", pair)
		}
		metadata[key] = value
	}
	return metadata, nil
}

func truncateTitle(title string, max int) string {
	runes := []rune(title)
	if len(runes) <= max {
		return title
	}
	return string(runes[:max-1]) + "…"
}
