package training

import (
	"context"

	"github.com/samber/mo"
)

// Repository は学習関連の全データアクセスを統合するインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// ListCandidates は指定モデルのEmbeddingと1票以上の投票を両方持つ記事を取得する
	// 単一クエリで読み取るため、サンプル選択時点の一貫したスナップショットになる
	ListCandidates(ctx context.Context, embeddingModel string) ([]Candidate, error)

	// InsertArtifact は新しいバージョン番号で成果物を保存する
	// バージョン採番は直列化され、既存の成果物は決して変更されない
	InsertArtifact(ctx context.Context, artifact *Artifact) (*Artifact, error)

	// GetCurrentArtifact は最大バージョンの成果物を取得する
	GetCurrentArtifact(ctx context.Context) (mo.Option[*Artifact], error)

	// GetArtifactByVersion は指定バージョンの成果物を取得する
	GetArtifactByVersion(ctx context.Context, version int) (mo.Option[*Artifact], error)

	// ListArtifacts は全成果物をバージョン降順で取得する
	ListArtifacts(ctx context.Context) ([]*Artifact, error)
}
