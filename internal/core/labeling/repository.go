package labeling

import (
	"context"

	"github.com/google/uuid"
)

// Repository は投票関連の全データアクセスを統合するインターフェース
// テスト時のモック用に消費者側で定義
type Repository interface {
	// UpsertVote は (記事, ユーザ) をキーに投票を原子的に登録・置換する
	// 同一ユーザの再投票は追加ではなく置き換えになる
	UpsertVote(ctx context.Context, itemID uuid.UUID, userID string, polarity Polarity) (*Vote, error)

	// ListVotesByItem は記事の現在有効な投票を全件取得する
	ListVotesByItem(ctx context.Context, itemID uuid.UUID) ([]Vote, error)

	// GetVote はユーザの現在の投票を取得する（未投票ならnil）
	GetVote(ctx context.Context, itemID uuid.UUID, userID string) (*Vote, error)

	// ListUnvotedItemIDs は指定ユーザがまだ投票していない記事IDを新しい順に取得する
	ListUnvotedItemIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error)
}
