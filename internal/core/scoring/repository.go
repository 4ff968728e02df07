package scoring

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Repository はスコアリング関連のデータアクセスを提供するインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// GetEmbedding は指定記事・指定モデルのEmbeddingベクトルを取得する
	GetEmbedding(ctx context.Context, itemID uuid.UUID, embeddingModel string) (mo.Option[[]float32], error)

	// InsertPrediction は予測を追記する。既存の予測は決して上書きしない
	InsertPrediction(ctx context.Context, prediction *Prediction) (*Prediction, error)

	// GetLatestPrediction は指定記事の最新の予測を取得する
	GetLatestPrediction(ctx context.Context, itemID uuid.UUID) (mo.Option[*Prediction], error)

	// ListUnscoredItemIDs は指定モデルのEmbeddingを持つが、
	// 指定バージョンの予測がまだない記事のIDを取得する
	ListUnscoredItemIDs(ctx context.Context, embeddingModel string, artifactVersion int, limit int) ([]uuid.UUID, error)
}
