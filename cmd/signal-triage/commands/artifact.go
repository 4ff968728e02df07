package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jinford/signal-triage/internal/core/training"
)

// ArtifactListAction は学習済みモデルの一覧を表示するコマンドのアクション
func ArtifactListAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	artifacts, err := appCtx.newTrainingService().ListArtifacts(ctx)
	if err != nil {
		return err
	}

	if len(artifacts) == 0 {
		fmt.Println("学習済みモデルはまだありません")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Version", "Model", "Train", "Eval", "Accuracy", "F1", "Created At")

	for _, a := range artifacts {
		table.Append(
			fmt.Sprintf("v%d", a.Version),
			a.EmbeddingModel,
			fmt.Sprintf("%d", a.TrainSamples),
			fmt.Sprintf("%d", a.EvalSamples),
			fmt.Sprintf("%.3f", a.Metrics.Accuracy),
			fmt.Sprintf("%.3f", a.Metrics.F1),
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}

	table.Render()
	return nil
}

// ArtifactShowAction は指定バージョンの学習済みモデルの詳細を表示するコマンドのアクション
func ArtifactShowAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc := appCtx.newTrainingService()

	var artifact *training.Artifact
	if version := cmd.Int("version"); version > 0 {
		artifact, err = svc.ArtifactByVersion(ctx, version)
	} else {
		artifact, err = svc.CurrentArtifact(ctx)
	}
	if err != nil {
		return err
	}
	if artifact == nil {
		fmt.Println("該当する学習済みモデルがありません")
		return nil
	}

	fmt.Printf("バージョン:      v%d\n", artifact.Version)
	fmt.Printf("ID:              %s\n", artifact.ID)
	fmt.Printf("Embeddingモデル: %s\n", artifact.EmbeddingModel)
	fmt.Printf("次元数:          %d\n", len(artifact.Model.Weights))
	fmt.Printf("閾値:            %.2f\n", artifact.Threshold)
	fmt.Printf("学習サンプル:    %d / 評価サンプル: %d\n", artifact.TrainSamples, artifact.EvalSamples)
	fmt.Printf("Accuracy:        %.3f\n", artifact.Metrics.Accuracy)
	fmt.Printf("Precision:       %.3f\n", artifact.Metrics.Precision)
	fmt.Printf("Recall:          %.3f\n", artifact.Metrics.Recall)
	fmt.Printf("F1:              %.3f\n", artifact.Metrics.F1)
	fmt.Printf("作成日時:        %s\n", artifact.CreatedAt.Format("2006-01-02 15:04:05"))

	return nil
}
