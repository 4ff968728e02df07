package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/urfave/cli/v3"

	"github.com/jinford/signal-triage/internal/core/labeling"
	"github.com/jinford/signal-triage/internal/core/news"
	"github.com/jinford/signal-triage/internal/infra/postgres"
)

// VoteCastAction は1記事に投票するコマンドのアクション
func VoteCastAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	itemID, err := uuid.Parse(cmd.String("item"))
	if err != nil {
		return fmt.Errorf("item はUUIDで指定してください: %w", err)
	}

	polarity, err := labeling.ParsePolarity(cmd.String("label"))
	if err != nil {
		return err
	}

	svc := appCtx.newLabelingService()
	if _, err := svc.CastVote(ctx, itemID, cmd.String("user"), polarity); err != nil {
		return err
	}

	label, err := svc.ResolveItem(ctx, itemID)
	if err != nil {
		return err
	}

	fmt.Printf("✓ 投票を記録しました（現在のラベル: %s）\n", label)
	return nil
}

// VoteShowAction は1記事の投票集計を表示するコマンドのアクション
func VoteShowAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	itemID, err := uuid.Parse(cmd.String("item"))
	if err != nil {
		return fmt.Errorf("item はUUIDで指定してください: %w", err)
	}

	summary, err := appCtx.newLabelingService().Summarize(ctx, itemID, cmd.String("user"))
	if err != nil {
		return err
	}

	fmt.Printf("記事:     %s\n", summary.ItemID)
	fmt.Printf("relevant: %d 票 / not_relevant: %d 票\n", summary.Upvotes, summary.Downvotes)
	fmt.Printf("ラベル:   %s\n", summary.Label)
	if summary.UserVote != nil {
		fmt.Printf("自分の投票: %s\n", *summary.UserVote)
	}

	return nil
}

// VoteLabelAction は未投票の記事を対話的にラベル付けするコマンドのアクション
func VoteLabelAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	userID := cmd.String("user")
	svc := appCtx.newLabelingService()
	items := postgres.NewItemRepository(appCtx.Database.Pool)

	itemIDs, err := svc.ListUnvotedItemIDs(ctx, userID, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(itemIDs) == 0 {
		fmt.Println("未投票の記事はありません")
		return nil
	}

	fmt.Printf("%d 件の未投票記事があります\n\n", len(itemIDs))

	var voted int
	for i, itemID := range itemIDs {
		opt, err := items.GetByID(ctx, itemID)
		if err != nil {
			return err
		}
		item, ok := opt.Get()
		if !ok {
			continue
		}

		printItemForReview(i+1, len(itemIDs), item)

		choice, err := promptVoteChoice()
		if err != nil {
			// Ctrl+Cで中断した場合はそこまでの投票を確定して終了
			if errors.Is(err, promptui.ErrInterrupt) {
				break
			}
			return fmt.Errorf("入力エラー: %w", err)
		}

		if choice == voteChoiceQuit {
			break
		}
		if choice == voteChoiceSkip {
			continue
		}

		if _, err := svc.CastVote(ctx, itemID, userID, choice.polarity()); err != nil {
			return err
		}
		voted++
	}

	fmt.Printf("\n✓ %d 件に投票しました\n", voted)
	return nil
}

type voteChoice string

const (
	voteChoiceRelevant    voteChoice = "relevant（関心あり）"
	voteChoiceNotRelevant voteChoice = "not_relevant（関心なし）"
	voteChoiceSkip        voteChoice = "スキップ"
	voteChoiceQuit        voteChoice = "終了"
)

func (c voteChoice) polarity() labeling.Polarity {
	if c == voteChoiceRelevant {
		return labeling.PolarityRelevant
	}
	return labeling.PolarityNotRelevant
}

func printItemForReview(index, total int, item *news.Item) {
	fmt.Printf("--- [%d/%d] -----------------------------------\n", index, total)
	fmt.Printf("タイトル: %s\n", item.Title)
	fmt.Printf("ソース:   %s\n", item.Source)
	fmt.Printf("URL:      %s\n", item.URL)
	if item.Content != "" {
		fmt.Printf("本文:     %s\n", truncateTitle(item.Content, 160))
	}
}

func promptVoteChoice() (voteChoice, error) {
	prompt := promptui.Select{
		Label: "この記事は関心に合いますか",
		Items: []voteChoice{
			voteChoiceRelevant,
			voteChoiceNotRelevant,
			voteChoiceSkip,
			voteChoiceQuit,
		},
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return voteChoice(result), nil
}
