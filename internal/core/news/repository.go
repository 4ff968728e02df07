package news

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

// CreateItemParams は記事登録のパラメータ
type CreateItemParams struct {
	Source      string
	Title       string
	URL         string
	Content     string
	Metadata    ItemMetadata
	PublishedAt *time.Time
}

// Repository は記事関連の全データアクセスを統合するインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// CreateIfNotExists はURLの一意制約で記事を登録する
	// 既に同じURLが存在する場合は None を返す（エラーにしない）
	CreateIfNotExists(ctx context.Context, params CreateItemParams) (mo.Option[*Item], error)

	// GetByID はIDで記事を取得する
	GetByID(ctx context.Context, id uuid.UUID) (mo.Option[*Item], error)

	// GetByURL はURLで記事を取得する
	GetByURL(ctx context.Context, url string) (mo.Option[*Item], error)

	// ListRecentWithVotes は指定日数以内の記事を投票集計・最新予測付きで取得する
	// userID が空でない場合、そのユーザの現在の投票も合わせて返す
	ListRecentWithVotes(ctx context.Context, days int, userID string, limit int) ([]*ItemWithVotes, error)

	// Stats はデータベース全体の集計情報を取得する
	Stats(ctx context.Context) (*Stats, error)
}
