package scoring

import (
	"time"

	"github.com/google/uuid"
)

// Class はモデルが予測した分類結果を表す
type Class string

const (
	ClassRelevant    Class = "relevant"
	ClassNotRelevant Class = "not_relevant"
)

// Prediction は1回のスコアリング結果を表す
// 予測は追記専用で、どのバージョンのモデルがいつ判定したかの履歴になる
type Prediction struct {
	ID              uuid.UUID `json:"id"`
	ItemID          uuid.UUID `json:"itemID"`
	ArtifactVersion int       `json:"artifactVersion"`
	Score           float64   `json:"score"`
	Class           Class     `json:"class"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RunStats は一括スコアリングの実行結果を表す
type RunStats struct {
	// Scored は予測を記録できた記事数
	Scored int
	// Failed は処理に失敗した記事数（次回実行で再試行される）
	Failed int
	// ArtifactVersion は使用した成果物のバージョン
	ArtifactVersion int
}
