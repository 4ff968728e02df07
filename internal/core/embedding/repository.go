package embedding

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// Repository はEmbedding関連の全データアクセスを統合するインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// ListItemsMissingEmbedding は指定モデルのEmbeddingを持たない記事を新しい順に取得する
	ListItemsMissingEmbedding(ctx context.Context, model string) ([]ItemText, error)

	// UpsertEmbedding は (記事, モデル) をキーにベクトルを保存する
	// 既存行がある場合は上書きする（再生成は冪等）
	UpsertEmbedding(ctx context.Context, itemID uuid.UUID, model string, vector []float32) error

	// GetEmbedding は (記事, モデル) のベクトルを取得する
	GetEmbedding(ctx context.Context, itemID uuid.UUID, model string) (mo.Option[[]float32], error)
}
