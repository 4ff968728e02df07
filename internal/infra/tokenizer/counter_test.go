package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter(t *testing.T) {
	counter, err := NewCounter("text-embedding-3-small")
	require.NoError(t, err)

	t.Run("トークン数をカウントできる", func(t *testing.T) {
		count, err := counter.CountTokens("hello world")
		require.NoError(t, err)
		assert.Greater(t, count, 0)
	})

	t.Run("上限以内のテキストはそのまま返す", func(t *testing.T) {
		text := "short text"
		truncated, err := counter.Truncate(text, 100)
		require.NoError(t, err)
		assert.Equal(t, text, truncated)
	})

	t.Run("上限を超えたテキストは切り詰める", func(t *testing.T) {
		text := "one two three four five six seven eight nine ten"
		truncated, err := counter.Truncate(text, 3)
		require.NoError(t, err)

		count, err := counter.CountTokens(truncated)
		require.NoError(t, err)
		assert.LessOrEqual(t, count, 3)
		assert.NotEmpty(t, truncated)
	})

	t.Run("上限0なら空文字列", func(t *testing.T) {
		truncated, err := counter.Truncate("anything", 0)
		require.NoError(t, err)
		assert.Empty(t, truncated)
	})
}
