package news

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/mo"
)

const (
	// DefaultListDays は一覧表示のデフォルト対象期間（日数）
	DefaultListDays = 7
	// DefaultListLimit は一覧表示のデフォルト最大件数
	DefaultListLimit = 100
)

// Service は記事管理のユースケースを提供する
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// ServiceOption は Service のオプション設定
type ServiceOption func(*Service)

// WithLogger は Service にロガーを設定する
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService は新しいServiceを作成する
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterResult は記事登録の結果を表す
type RegisterResult struct {
	Item      *Item
	Duplicate bool
}

// Register は記事を登録する
// 同一URLの記事が既に存在する場合は何もしない（冪等な取り込み）
func (s *Service) Register(ctx context.Context, params CreateItemParams) (*RegisterResult, error) {
	if params.URL == "" {
		return nil, fmt.Errorf("url は必須です")
	}
	if params.Source == "" {
		return nil, fmt.Errorf("source は必須です")
	}
	if params.Title == "" {
		return nil, fmt.Errorf("title は必須です")
	}

	created, err := s.repo.CreateIfNotExists(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("記事の登録に失敗: %w", err)
	}

	if created.IsAbsent() {
		// 重複URLはエラーではなくスキップ
		s.logger.Debug("既存の記事をスキップ", "url", params.URL)

		existing, err := s.repo.GetByURL(ctx, params.URL)
		if err != nil {
			return nil, fmt.Errorf("既存記事の取得に失敗: %w", err)
		}
		if existing.IsAbsent() {
			return nil, fmt.Errorf("既存記事が見つかりませんでした: %s", params.URL)
		}
		return &RegisterResult{Item: existing.MustGet(), Duplicate: true}, nil
	}

	item := created.MustGet()
	s.logger.Info("記事を登録", "id", item.ID, "source", item.Source, "url", item.URL)

	return &RegisterResult{Item: item}, nil
}

// GetByURL はURLで記事を取得する
func (s *Service) GetByURL(ctx context.Context, url string) (mo.Option[*Item], error) {
	if url == "" {
		return mo.None[*Item](), fmt.Errorf("url は必須です")
	}
	return s.repo.GetByURL(ctx, url)
}

// ListRecent は最近の記事を投票集計付きで取得する
func (s *Service) ListRecent(ctx context.Context, days int, userID string, limit int) ([]*ItemWithVotes, error) {
	if days <= 0 {
		days = DefaultListDays
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	items, err := s.repo.ListRecentWithVotes(ctx, days, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗: %w", err)
	}
	return items, nil
}

// Stats はデータベース全体の集計情報を取得する
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("集計情報の取得に失敗: %w", err)
	}
	return stats, nil
}
