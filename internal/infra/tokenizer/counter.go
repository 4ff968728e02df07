package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/jinford/signal-triage/internal/core/embedding"
)

// Counter はtiktokenを使ってトークン数のカウントと切り詰めを行う
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter は新しいCounterを作成する
// Embeddingモデルに対応するエンコーディングがなければcl100k_baseを使用する
func NewCounter(model string) (*Counter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("failed to get tiktoken encoding: %w", err)
		}
	}

	return &Counter{encoding: encoding}, nil
}

// CountTokens はテキストのトークン数をカウントする
func (c *Counter) CountTokens(text string) (int, error) {
	return len(c.encoding.Encode(text, nil, nil)), nil
}

// Truncate はテキストを最大トークン数以内に切り詰める
func (c *Counter) Truncate(text string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		return "", nil
	}

	tokens := c.encoding.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, nil
	}

	return c.encoding.Decode(tokens[:maxTokens]), nil
}

// インターフェース実装の確認
var _ embedding.TokenCounter = (*Counter)(nil)
