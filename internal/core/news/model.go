package news

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Item はニュース記事を表す
// 一意なURLで識別され、取り込み後は本文・タイトルを変更しない
type Item struct {
	ID          uuid.UUID    `json:"id"`
	Source      string       `json:"source"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Content     string       `json:"content"`
	Metadata    ItemMetadata `json:"metadata,omitempty"`
	PublishedAt *time.Time   `json:"publishedAt,omitempty"`
	ScrapedAt   time.Time    `json:"scrapedAt"`
}

// ItemMetadata は記事の任意メタデータを表す
// 型のない blob ではなく、検証可能な文字列キーバリューとして保持する
type ItemMetadata map[string]string

func (m ItemMetadata) Value() (driver.Value, error) {
	if m == nil {
		return json.Marshal(map[string]string{})
	}
	return json.Marshal(m)
}

func (m *ItemMetadata) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(b, m)
}

// ItemWithVotes は記事と投票集計・最新予測を合わせた表示用の構造体
type ItemWithVotes struct {
	Item
	Upvotes     int      `json:"upvotes"`
	Downvotes   int      `json:"downvotes"`
	UserVote    *string  `json:"userVote,omitempty"`
	LatestScore *float64 `json:"latestScore,omitempty"`
	LatestClass *string  `json:"latestClass,omitempty"`
}

// SourceCount はソース別の記事数を表す
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Stats はデータベース全体の集計情報を表す
type Stats struct {
	TotalItems       int           `json:"totalItems"`
	TotalEmbeddings  int           `json:"totalEmbeddings"`
	TotalVotes       int           `json:"totalVotes"`
	TotalPredictions int           `json:"totalPredictions"`
	RelevantVotes    int           `json:"relevantVotes"`
	NotRelevantVotes int           `json:"notRelevantVotes"`
	BySource         []SourceCount `json:"bySource"`
	LatestItems      []*Item       `json:"latestItems"`
}
