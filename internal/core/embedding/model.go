package embedding

import (
	"time"

	"github.com/google/uuid"
)

// Embedding は記事のEmbeddingベクトルを表す
// (記事, モデル) につき1行のみ存在し、再生成は上書きになる
type Embedding struct {
	ItemID    uuid.UUID `json:"itemID"`
	Model     string    `json:"model"`
	Vector    []float32 `json:"vector"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemText はEmbedding生成対象の記事テキストを表す
type ItemText struct {
	ID      uuid.UUID
	Title   string
	Content string
}

// GenerateStats はバッチ生成の統計情報を表す
type GenerateStats struct {
	// Pending は実行開始時点でEmbedding未生成だった記事数
	Pending int
	// Embedded は今回の実行で生成・保存できた記事数
	Embedded int
	// Failed は生成または保存に失敗した記事数（次回の実行で再処理される）
	Failed int
}
