package news

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubItemRepo struct {
	existing  map[string]*Item
	created   []*Item
	lastDays  int
	lastLimit int
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{existing: make(map[string]*Item)}
}

func (r *stubItemRepo) CreateIfNotExists(ctx context.Context, params CreateItemParams) (mo.Option[*Item], error) {
	if _, ok := r.existing[params.URL]; ok {
		return mo.None[*Item](), nil
	}
	item := &Item{
		ID:      uuid.New(),
		Source:  params.Source,
		Title:   params.Title,
		URL:     params.URL,
		Content: params.Content,
	}
	r.existing[params.URL] = item
	r.created = append(r.created, item)
	return mo.Some(item), nil
}

func (r *stubItemRepo) GetByID(ctx context.Context, id uuid.UUID) (mo.Option[*Item], error) {
	for _, item := range r.existing {
		if item.ID == id {
			return mo.Some(item), nil
		}
	}
	return mo.None[*Item](), nil
}

func (r *stubItemRepo) GetByURL(ctx context.Context, url string) (mo.Option[*Item], error) {
	if item, ok := r.existing[url]; ok {
		return mo.Some(item), nil
	}
	return mo.None[*Item](), nil
}

func (r *stubItemRepo) ListRecentWithVotes(ctx context.Context, days int, userID string, limit int) ([]*ItemWithVotes, error) {
	r.lastDays = days
	r.lastLimit = limit
	return nil, nil
}

func (r *stubItemRepo) Stats(ctx context.Context) (*Stats, error) {
	return &Stats{TotalItems: len(r.existing)}, nil
}

func TestRegisterIsIdempotentByURL(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewService(repo)

	params := CreateItemParams{
		Source:  "BleepingComputer",
		Title:   "Critical RCE in popular firewall",
		URL:     "https://example.com/a",
		Content: "details",
	}

	first, err := svc.Register(context.Background(), params)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	// 同じURLの再登録はエラーにならず、既存記事が返る
	second, err := svc.Register(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Item.ID, second.Item.ID)
	assert.Len(t, repo.created, 1)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		params CreateItemParams
	}{
		{
			name:   "URLが空",
			params: CreateItemParams{Source: "s", Title: "t"},
		},
		{
			name:   "sourceが空",
			params: CreateItemParams{URL: "https://example.com", Title: "t"},
		},
		{
			name:   "titleが空",
			params: CreateItemParams{URL: "https://example.com", Source: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newStubItemRepo())
			_, err := svc.Register(context.Background(), tt.params)
			assert.Error(t, err)
		})
	}
}

func TestListRecentAppliesDefaults(t *testing.T) {
	repo := newStubItemRepo()
	svc := NewService(repo)

	_, err := svc.ListRecent(context.Background(), 0, "", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultListDays, repo.lastDays)
	assert.Equal(t, DefaultListLimit, repo.lastLimit)
}
