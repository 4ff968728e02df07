package embedding

import (
	"fmt"
	"strings"
)

// DefaultContentTokenBudget は本文から取り込む最大トークン数
// タイトルが最も重要なシグナルなので、本文は先頭部分に絞る
const DefaultContentTokenBudget = 256

// BuildText はタイトルと本文からEmbedding入力テキストを組み立てる
// 本文はトークン数で切り詰め、決定的な変換のみを行う
func BuildText(title, content string, counter TokenCounter, contentTokenBudget int) (string, error) {
	if contentTokenBudget <= 0 {
		contentTokenBudget = DefaultContentTokenBudget
	}

	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)

	if content == "" {
		return title, nil
	}

	truncated, err := counter.Truncate(content, contentTokenBudget)
	if err != nil {
		return "", fmt.Errorf("failed to truncate content: %w", err)
	}

	return fmt.Sprintf("%s. %s", title, truncated), nil
}
