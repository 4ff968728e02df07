package labeling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voteKey struct {
	itemID uuid.UUID
	userID string
}

// stubVoteRepo は (記事, ユーザ) につき1行の upsert セマンティクスを再現する
type stubVoteRepo struct {
	votes map[voteKey]Vote
}

func newStubVoteRepo() *stubVoteRepo {
	return &stubVoteRepo{votes: make(map[voteKey]Vote)}
}

func (r *stubVoteRepo) UpsertVote(ctx context.Context, itemID uuid.UUID, userID string, polarity Polarity) (*Vote, error) {
	vote := Vote{
		ItemID:    itemID,
		UserID:    userID,
		Polarity:  polarity,
		CreatedAt: time.Now(),
	}
	r.votes[voteKey{itemID, userID}] = vote
	return &vote, nil
}

func (r *stubVoteRepo) ListVotesByItem(ctx context.Context, itemID uuid.UUID) ([]Vote, error) {
	var votes []Vote
	for key, v := range r.votes {
		if key.itemID == itemID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (r *stubVoteRepo) GetVote(ctx context.Context, itemID uuid.UUID, userID string) (*Vote, error) {
	if v, ok := r.votes[voteKey{itemID, userID}]; ok {
		return &v, nil
	}
	return nil, nil
}

func (r *stubVoteRepo) ListUnvotedItemIDs(ctx context.Context, userID string, limit int) ([]uuid.UUID, error) {
	return nil, nil
}

func TestCastVoteReplacesPriorVote(t *testing.T) {
	repo := newStubVoteRepo()
	svc := NewService(repo)
	itemID := uuid.New()

	_, err := svc.CastVote(context.Background(), itemID, "user-1", PolarityRelevant)
	require.NoError(t, err)

	// 再投票は追加ではなく置き換え
	_, err = svc.CastVote(context.Background(), itemID, "user-1", PolarityNotRelevant)
	require.NoError(t, err)

	votes, err := repo.ListVotesByItem(context.Background(), itemID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, PolarityNotRelevant, votes[0].Polarity)

	// resolve は最新の投票のみを反映する
	label, err := svc.ResolveItem(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, LabelNotRelevant, label)
}

func TestCastVoteValidation(t *testing.T) {
	tests := []struct {
		name     string
		itemID   uuid.UUID
		userID   string
		polarity Polarity
	}{
		{
			name:     "itemIDが空",
			itemID:   uuid.Nil,
			userID:   "user-1",
			polarity: PolarityRelevant,
		},
		{
			name:     "userIDが空",
			itemID:   uuid.New(),
			userID:   "",
			polarity: PolarityRelevant,
		},
		{
			name:     "不正なpolarity",
			itemID:   uuid.New(),
			userID:   "user-1",
			polarity: Polarity("maybe"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newStubVoteRepo())
			_, err := svc.CastVote(context.Background(), tt.itemID, tt.userID, tt.polarity)
			assert.Error(t, err)
		})
	}
}

func TestSummarizeCountsAndUserVote(t *testing.T) {
	repo := newStubVoteRepo()
	svc := NewService(repo)
	itemID := uuid.New()

	// 2対1でrelevant
	_, err := svc.CastVote(context.Background(), itemID, "alice", PolarityRelevant)
	require.NoError(t, err)
	_, err = svc.CastVote(context.Background(), itemID, "bob", PolarityRelevant)
	require.NoError(t, err)
	_, err = svc.CastVote(context.Background(), itemID, "carol", PolarityNotRelevant)
	require.NoError(t, err)

	summary, err := svc.Summarize(context.Background(), itemID, "carol")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Upvotes)
	assert.Equal(t, 1, summary.Downvotes)
	assert.Equal(t, LabelRelevant, summary.Label)
	require.NotNil(t, summary.UserVote)
	assert.Equal(t, PolarityNotRelevant, *summary.UserVote)
}

func TestSummarizeTieIsUnresolved(t *testing.T) {
	repo := newStubVoteRepo()
	svc := NewService(repo)
	itemID := uuid.New()

	_, err := svc.CastVote(context.Background(), itemID, "alice", PolarityRelevant)
	require.NoError(t, err)
	_, err = svc.CastVote(context.Background(), itemID, "bob", PolarityNotRelevant)
	require.NoError(t, err)

	summary, err := svc.Summarize(context.Background(), itemID, "")
	require.NoError(t, err)
	assert.Equal(t, LabelUnresolved, summary.Label)
	assert.Nil(t, summary.UserVote)
}
