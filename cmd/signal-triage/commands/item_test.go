package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/signal-triage/internal/core/news"
)

func TestParseMetadataFlags(t *testing.T) {
	tests := []struct {
		name        string
		pairs       []string
		expected    news.ItemMetadata
		expectError bool
	}{
		{
			name:     "指定なしはnil",
			pairs:    nil,
			expected: nil,
		},
		{
			name:  "key=value形式をパースする",
			pairs: []string{"points=120", "author=pg"},
			expected: news.ItemMetadata{
				"points": "120",
				"author": "pg",
			},
		},
		{
			name:  "値に=を含んでもよい",
			pairs: []string{"query=a=b"},
			expected: news.ItemMetadata{
				"query": "a=b",
			},
		},
		{
			name:        "=がない場合はエラー",
			pairs:       []string{"invalid"},
			expectError: true,
		},
		{
			name:        "キーが空の場合はエラー",
			pairs:       []string{"=value"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata, err := parseMetadataFlags(tt.pairs)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, metadata)
		})
	}
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "short", truncateTitle("short", 10))
	assert.Equal(t, "あいうえ…", truncateTitle("あいうえおかきく", 5))
}
