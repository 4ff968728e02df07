package labeling

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Service は投票とラベル集約のユースケースを提供する
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

// CastVote は投票を登録する
// 既に同じユーザが投票済みの場合は置き換えになり、エラーにはならない
func (s *Service) CastVote(ctx context.Context, itemID uuid.UUID, userID string, polarity Polarity) (*Vote, error) {
	if itemID == uuid.Nil {
		return nil, fmt.Errorf("itemID は必須です")
	}
	if userID == "" {
		return nil, fmt.Errorf("userID は必須です")
	}
	if _, err := ParsePolarity(string(polarity)); err != nil {
		return nil, err
	}

	vote, err := s.repo.UpsertVote(ctx, itemID, userID, polarity)
	if err != nil {
		return nil, fmt.Errorf("投票の登録に失敗: %w", err)
	}

	s.logger.Info("投票を登録", "itemID", itemID, "userID", userID, "polarity", polarity)

	return vote, nil
}

// ResolveItem は記事の現在の投票からラベルを集約する
// 常に有効な投票行から再計算し、キャッシュは使わない
func (s *Service) ResolveItem(ctx context.Context, itemID uuid.UUID) (Label, error) {
	if itemID == uuid.Nil {
		return LabelUnresolved, fmt.Errorf("itemID は必須です")
	}

	votes, err := s.repo.ListVotesByItem(ctx, itemID)
	if err != nil {
		return LabelUnresolved, fmt.Errorf("投票の取得に失敗: %w", err)
	}

	return Resolve(votes), nil
}

// Summarize は記事の投票集計を返す（表示・ソート用）
// userID が空でない場合、そのユーザ自身の投票も含める
func (s *Service) Summarize(ctx context.Context, itemID uuid.UUID, userID string) (*VoteSummary, error) {
	if itemID == uuid.Nil {
		return nil, fmt.Errorf("itemID は必須です")
	}

	votes, err := s.repo.ListVotesByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("投票の取得に失敗: %w", err)
	}

	summary := &VoteSummary{
		ItemID: itemID,
		Label:  Resolve(votes),
	}
	for _, v := range votes {
		switch v.Polarity {
		case PolarityRelevant:
			summary.Upvotes++
		case PolarityNotRelevant:
			summary.Downvotes++
		}
		if userID != "" && v.UserID == userID {
			polarity := v.Polarity
			summary.UserVote = &polarity
		}
	}

	return summary, nil
}

// ListUnvotedItemIDs はユーザがまだ投票していない記事IDを取得する
func (s *Service) ListUnvotedItemIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID は必須です")
	}
	if limit <= 0 {
		limit = 50
	}
	ids, err := s.repo.ListUnvotedItemIDs(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("未投票記事の取得に失敗: %w", err)
	}
	return ids, nil
}
