package labeling

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Polarity は1票の判定内容を表す
type Polarity string

const (
	PolarityRelevant    Polarity = "relevant"
	PolarityNotRelevant Polarity = "not_relevant"
)

// ParsePolarity は文字列をPolarityに変換する
func ParsePolarity(s string) (Polarity, error) {
	switch Polarity(s) {
	case PolarityRelevant:
		return PolarityRelevant, nil
	case PolarityNotRelevant:
		return PolarityNotRelevant, nil
	default:
		return "", fmt.Errorf("invalid polarity: %q (must be %q or %q)", s, PolarityRelevant, PolarityNotRelevant)
	}
}

// Label は投票の集約結果を表す
// 同数（0対0を含む）の場合は unresolved となり、学習サンプルにならない
type Label string

const (
	LabelRelevant    Label = "relevant"
	LabelNotRelevant Label = "not_relevant"
	LabelUnresolved  Label = "unresolved"
)

// Resolved は学習シグナルとして使えるラベルかどうかを返す
func (l Label) Resolved() bool {
	return l == LabelRelevant || l == LabelNotRelevant
}

// Vote は1ユーザの1記事に対する投票を表す
// (記事, ユーザ) につき有効な投票は常に1件のみで、再投票は置き換えになる
type Vote struct {
	ItemID    uuid.UUID `json:"itemID"`
	UserID    string    `json:"userID"`
	Polarity  Polarity  `json:"polarity"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoteSummary は1記事の投票集計を表す
type VoteSummary struct {
	ItemID    uuid.UUID `json:"itemID"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Label     Label     `json:"label"`
	// UserVote は問い合わせたユーザ自身の現在の投票（未投票ならnil）
	UserVote *Polarity `json:"userVote,omitempty"`
}
