package training

import (
	"time"

	"github.com/google/uuid"

	"github.com/jinford/signal-triage/internal/core/classifier"
	"github.com/jinford/signal-triage/internal/core/labeling"
)

// Metrics は評価用サブセットに対する分類性能を表す
// 正例（relevant）を対象クラスとして計算する
type Metrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Artifact は学習済みモデルのバージョン付き成果物を表す
// 作成後は不変で、バージョンは単調増加する。「現行」は常に最大バージョン
type Artifact struct {
	ID             uuid.UUID              `json:"id"`
	Version        int                    `json:"version"`
	EmbeddingModel string                 `json:"embeddingModel"`
	Model          classifier.LinearModel `json:"model"`
	Threshold      float64                `json:"threshold"`
	Metrics        Metrics                `json:"metrics"`
	TrainSamples   int                    `json:"trainSamples"`
	EvalSamples    int                    `json:"evalSamples"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// Candidate は学習サンプル候補を表す
// ラベルは保存された集計値ではなく、その時点の投票から都度解決する
type Candidate struct {
	ItemID uuid.UUID
	Vector []float32
	Votes  []labeling.Vote
}

// Sample は解決済みラベル付きの学習サンプルを表す
type Sample struct {
	ItemID   uuid.UUID
	Vector   []float32
	Relevant bool
}

// Result は学習実行の結果を表す
type Result struct {
	Artifact *Artifact
	// TotalCandidates はEmbeddingと投票の両方を持つ記事数
	TotalCandidates int
	// Unresolved は同数票のため除外された記事数
	Unresolved int
}
