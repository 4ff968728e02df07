package embedding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingKey struct {
	itemID uuid.UUID
	model  string
}

type stubEmbeddingRepo struct {
	missing    []ItemText
	stored     map[embeddingKey][]float32
	upsertErrs map[uuid.UUID]error
}

func newStubEmbeddingRepo(missing ...ItemText) *stubEmbeddingRepo {
	return &stubEmbeddingRepo{
		missing:    missing,
		stored:     make(map[embeddingKey][]float32),
		upsertErrs: make(map[uuid.UUID]error),
	}
}

func (r *stubEmbeddingRepo) ListItemsMissingEmbedding(ctx context.Context, model string) ([]ItemText, error) {
	var still []ItemText
	for _, item := range r.missing {
		if _, ok := r.stored[embeddingKey{item.ID, model}]; !ok {
			still = append(still, item)
		}
	}
	return still, nil
}

func (r *stubEmbeddingRepo) UpsertEmbedding(ctx context.Context, itemID uuid.UUID, model string, vector []float32) error {
	if err := r.upsertErrs[itemID]; err != nil {
		return err
	}
	r.stored[embeddingKey{itemID, model}] = vector
	return nil
}

func (r *stubEmbeddingRepo) GetEmbedding(ctx context.Context, itemID uuid.UUID, model string) (mo.Option[[]float32], error) {
	if v, ok := r.stored[embeddingKey{itemID, model}]; ok {
		return mo.Some(v), nil
	}
	return mo.None[[]float32](), nil
}

// deterministicEmbedder はテキストから決定的なベクトルを生成する
type deterministicEmbedder struct {
	failBatches map[int]bool // 何回目のBatchEmbed呼び出しを失敗させるか
	calls       int
}

func (e *deterministicEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *deterministicEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.failBatches[e.calls] {
		return nil, errors.New("embedding api unavailable")
	}
	vectors := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vectors = append(vectors, []float32{float32(len(text)), 1})
	}
	return vectors, nil
}

func (e *deterministicEmbedder) ModelName() string { return "test-embed-model" }
func (e *deterministicEmbedder) Dimension() int    { return 2 }
func (e *deterministicEmbedder) MaxBatchSize() int { return 100 }

type passthroughCounter struct{}

func (passthroughCounter) CountTokens(text string) (int, error) { return len(text), nil }
func (passthroughCounter) Truncate(text string, maxTokens int) (string, error) {
	if len(text) > maxTokens {
		return text[:maxTokens], nil
	}
	return text, nil
}

func testItems(n int) []ItemText {
	items := make([]ItemText, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, ItemText{
			ID:      uuid.New(),
			Title:   fmt.Sprintf("title %d", i),
			Content: fmt.Sprintf("content %d", i),
		})
	}
	return items
}

func TestGenerateMissingEmbedsAllItems(t *testing.T) {
	items := testItems(5)
	repo := newStubEmbeddingRepo(items...)
	svc := NewService(repo, &deterministicEmbedder{}, passthroughCounter{}, WithBatchSize(2))

	stats, err := svc.GenerateMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Pending)
	assert.Equal(t, 5, stats.Embedded)
	assert.Equal(t, 0, stats.Failed)
	assert.Len(t, repo.stored, 5)
}

func TestGenerateMissingIsIdempotent(t *testing.T) {
	items := testItems(3)
	repo := newStubEmbeddingRepo(items...)
	embedder := &deterministicEmbedder{}
	svc := NewService(repo, embedder, passthroughCounter{})

	_, err := svc.GenerateMissing(context.Background())
	require.NoError(t, err)

	firstVectors := make(map[embeddingKey][]float32, len(repo.stored))
	for k, v := range repo.stored {
		firstVectors[k] = v
	}

	// 再実行しても未生成の記事がないため何も処理されない
	stats, err := svc.GenerateMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 0, stats.Embedded)
	assert.Equal(t, firstVectors, repo.stored)
}

func TestGenerateMissingIsolatesBatchFailure(t *testing.T) {
	items := testItems(4)
	repo := newStubEmbeddingRepo(items...)
	// 1回目のバッチ呼び出しだけ失敗させる
	embedder := &deterministicEmbedder{failBatches: map[int]bool{1: true}}
	svc := NewService(repo, embedder, passthroughCounter{}, WithBatchSize(2))

	stats, err := svc.GenerateMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Pending)
	assert.Equal(t, 2, stats.Embedded)
	assert.Equal(t, 2, stats.Failed)

	// 失敗した2件は未生成のまま残り、次回の実行で処理される
	embedder.failBatches = nil
	stats, err = svc.GenerateMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 2, stats.Embedded)
	assert.Len(t, repo.stored, 4)
}

func TestGenerateMissingIsolatesStoreFailure(t *testing.T) {
	items := testItems(3)
	repo := newStubEmbeddingRepo(items...)
	repo.upsertErrs[items[1].ID] = errors.New("disk full")
	svc := NewService(repo, &deterministicEmbedder{}, passthroughCounter{})

	stats, err := svc.GenerateMissing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Embedded)
	assert.Equal(t, 1, stats.Failed)
	assert.Len(t, repo.stored, 2)
}

func TestBuildTextTruncatesContent(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		budget  int
		want    string
	}{
		{
			name:    "本文はトークン上限で切り詰められる",
			title:   "Breaking news",
			content: "0123456789",
			budget:  4,
			want:    "Breaking news. 0123",
		},
		{
			name:    "本文が空ならタイトルのみ",
			title:   "Breaking news",
			content: "",
			budget:  4,
			want:    "Breaking news",
		},
		{
			name:    "短い本文はそのまま",
			title:   "T",
			content: "abc",
			budget:  10,
			want:    "T. abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildText(tt.title, tt.content, passthroughCounter{}, tt.budget)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
