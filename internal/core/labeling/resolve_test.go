package labeling

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func votesOf(polarities ...Polarity) []Vote {
	itemID := uuid.New()
	votes := make([]Vote, 0, len(polarities))
	for i, p := range polarities {
		votes = append(votes, Vote{
			ItemID:   itemID,
			UserID:   string(rune('a' + i)),
			Polarity: p,
		})
	}
	return votes
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		votes []Vote
		want  Label
	}{
		{
			name:  "投票なしはunresolved",
			votes: nil,
			want:  LabelUnresolved,
		},
		{
			name:  "relevant多数",
			votes: votesOf(PolarityRelevant, PolarityRelevant, PolarityNotRelevant),
			want:  LabelRelevant,
		},
		{
			name:  "not_relevant多数",
			votes: votesOf(PolarityNotRelevant, PolarityNotRelevant, PolarityRelevant),
			want:  LabelNotRelevant,
		},
		{
			name:  "同数はunresolved（タイブレークしない）",
			votes: votesOf(PolarityRelevant, PolarityNotRelevant),
			want:  LabelUnresolved,
		},
		{
			name:  "relevant1票のみ",
			votes: votesOf(PolarityRelevant),
			want:  LabelRelevant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.votes))
		})
	}
}

func TestResolveIsOrderIndependent(t *testing.T) {
	votes := votesOf(PolarityRelevant, PolarityNotRelevant, PolarityRelevant)

	forward := Resolve(votes)

	reversed := make([]Vote, len(votes))
	for i, v := range votes {
		reversed[len(votes)-1-i] = v
	}
	backward := Resolve(reversed)

	assert.Equal(t, forward, backward)
}

func TestResolveIsIdempotent(t *testing.T) {
	votes := votesOf(PolarityRelevant, PolarityRelevant, PolarityNotRelevant)

	first := Resolve(votes)
	second := Resolve(votes)

	assert.Equal(t, first, second)
	assert.Equal(t, LabelRelevant, first)
}

func TestLabelResolved(t *testing.T) {
	assert.True(t, LabelRelevant.Resolved())
	assert.True(t, LabelNotRelevant.Resolved())
	assert.False(t, LabelUnresolved.Resolved())
}
