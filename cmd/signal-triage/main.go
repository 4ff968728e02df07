package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jinford/signal-triage/cmd/signal-triage/commands"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "環境変数ファイルパス",
		Value: ".env",
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Usage:    "ユーザID",
		Required: true,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "signal-triage",
		Usage: "ニュース記事のチーム投票と関心度スコアリングシステム",
		Commands: []*cli.Command{
			{
				Name:  "db",
				Usage: "データベース管理コマンド",
				Commands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "スキーマを初期化",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.DBInitAction,
					},
					{
						Name:   "status",
						Usage:  "データベースの状態を表示",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.DBStatusAction,
					},
				},
			},
			{
				Name:  "item",
				Usage: "記事管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "add",
						Usage: "記事を登録",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "source",
								Usage:    "記事のソース（例: hackernews）",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "title",
								Usage:    "記事タイトル",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "url",
								Usage:    "記事URL",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "content",
								Usage: "記事本文",
							},
							&cli.StringFlag{
								Name:  "published-at",
								Usage: "公開日時（RFC3339形式）",
							},
							&cli.StringSliceFlag{
								Name:  "meta",
								Usage: "メタデータ（key=value 形式、複数指定可）",
							},
						},
						Action: commands.ItemAddAction,
					},
					{
						Name:  "list",
						Usage: "最近の記事を投票集計つきで表示",
						Flags: []cli.Flag{
							envFlag(),
							&cli.IntFlag{
								Name:  "days",
								Usage: "表示する日数",
								Value: 7,
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "最大表示件数",
								Value: 50,
							},
							&cli.StringFlag{
								Name:  "user",
								Usage: "自分の投票を表示するユーザID",
							},
						},
						Action: commands.ItemListAction,
					},
				},
			},
			{
				Name:  "vote",
				Usage: "投票コマンド",
				Commands: []*cli.Command{
					{
						Name:  "cast",
						Usage: "1記事に投票",
						Flags: []cli.Flag{
							envFlag(),
							userFlag(),
							&cli.StringFlag{
								Name:     "item",
								Usage:    "記事ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "label",
								Usage:    "relevant または not_relevant",
								Required: true,
							},
						},
						Action: commands.VoteCastAction,
					},
					{
						Name:  "label",
						Usage: "未投票の記事を対話的にラベル付け",
						Flags: []cli.Flag{
							envFlag(),
							userFlag(),
							&cli.IntFlag{
								Name:  "limit",
								Usage: "一度にラベル付けする最大件数",
								Value: 20,
							},
						},
						Action: commands.VoteLabelAction,
					},
					{
						Name:  "show",
						Usage: "1記事の投票集計を表示",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "item",
								Usage:    "記事ID",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "user",
								Usage: "自分の投票を表示するユーザID",
							},
						},
						Action: commands.VoteShowAction,
					},
				},
			},
			{
				Name:  "embed",
				Usage: "Embedding生成コマンド",
				Commands: []*cli.Command{
					{
						Name:   "run",
						Usage:  "未生成の記事のEmbeddingを生成",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.EmbedRunAction,
					},
				},
			},
			{
				Name:  "train",
				Usage: "モデル学習コマンド",
				Commands: []*cli.Command{
					{
						Name:  "run",
						Usage: "現在の投票とEmbeddingからモデルを学習",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:  "config",
								Usage: "学習設定YAMLのパス",
							},
						},
						Action: commands.TrainRunAction,
					},
				},
			},
			{
				Name:  "artifact",
				Usage: "学習済みモデル管理コマンド",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "学習済みモデルの一覧を表示",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.ArtifactListAction,
					},
					{
						Name:  "show",
						Usage: "学習済みモデルの詳細を表示",
						Flags: []cli.Flag{
							envFlag(),
							&cli.IntFlag{
								Name:  "version",
								Usage: "バージョン番号（省略時は現行モデル）",
							},
						},
						Action: commands.ArtifactShowAction,
					},
				},
			},
			{
				Name:  "score",
				Usage: "スコアリングコマンド",
				Commands: []*cli.Command{
					{
						Name:  "item",
						Usage: "1記事をスコアリング",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "item",
								Usage:    "記事ID",
								Required: true,
							},
						},
						Action: commands.ScoreItemAction,
					},
					{
						Name:   "run",
						Usage:  "未スコアの記事を一括スコアリング",
						Flags:  []cli.Flag{envFlag()},
						Action: commands.ScoreRunAction,
					},
				},
			},
			{
				Name:  "pipeline",
				Usage: "パイプライン実行コマンド",
				Commands: []*cli.Command{
					{
						Name:  "run",
						Usage: "Embedding生成→学習→スコアリングを一括実行",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:  "config",
								Usage: "学習設定YAMLのパス",
							},
						},
						Action: commands.PipelineRunAction,
					},
					{
						Name:  "schedule",
						Usage: "パイプラインをcronスケジュールで定期実行",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:  "cron",
								Usage: "cron式（例: 0 7 * * *）",
								Value: "0 7 * * *",
							},
							&cli.StringFlag{
								Name:  "config",
								Usage: "学習設定YAMLのパス",
							},
						},
						Action: commands.PipelineScheduleAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
