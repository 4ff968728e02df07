package embedding

import "context"

// Embedder はテキストをベクトル表現に変換するインターフェース
type Embedder interface {
	// Embed は単一テキストのEmbeddingを生成する
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed はバッチでEmbeddingを生成する
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName はモデル名を返す
	ModelName() string

	// Dimension はEmbeddingベクトルの次元数を返す
	Dimension() int

	// MaxBatchSize はバッチ処理の最大サイズを返す
	MaxBatchSize() int
}

// TokenCounter はEmbedding入力テキストのトークン制御を提供する
type TokenCounter interface {
	// CountTokens はテキストのトークン数を数える
	CountTokens(text string) (int, error)

	// Truncate はテキストを最大トークン数以内に切り詰める
	Truncate(text string, maxTokens int) (string, error)
}
