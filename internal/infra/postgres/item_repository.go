package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/mo"

	"github.com/jinford/signal-triage/internal/core/news"
)

// ItemRepository は news.Repository インターフェースを実装する PostgreSQL リポジトリです
type ItemRepository struct {
	pool *pgxpool.Pool
}

// NewItemRepository は新しい ItemRepository を作成します
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// コンパイル時の型チェック
var _ news.Repository = (*ItemRepository)(nil)

const itemColumns = `id, source, title, url, content, metadata, published_at, scraped_at`

func scanItem(row pgx.Row) (*news.Item, error) {
	var (
		item        news.Item
		id          pgtype.UUID
		metadata    []byte
		publishedAt pgtype.Timestamp
		scrapedAt   pgtype.Timestamp
	)
	if err := row.Scan(&id, &item.Source, &item.Title, &item.URL, &item.Content, &metadata, &publishedAt, &scrapedAt); err != nil {
		return nil, err
	}

	item.ID = PgtypeToUUID(id)
	item.PublishedAt = PgtypeToTimePtr(publishedAt)
	item.ScrapedAt = PgtypeToTime(scrapedAt)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &item, nil
}

func (r *ItemRepository) CreateIfNotExists(ctx context.Context, params news.CreateItemParams) (mo.Option[*news.Item], error) {
	metadata, err := json.Marshal(params.Metadata)
	if err != nil {
		return mo.None[*news.Item](), fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if params.Metadata == nil {
		metadata = []byte("{}")
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO news_items (source, title, url, content, metadata, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO NOTHING
		RETURNING `+itemColumns,
		params.Source, params.Title, params.URL, params.Content, metadata, TimePtrToPgtype(params.PublishedAt),
	)

	item, err := scanItem(row)
	if err != nil {
		// 競合時はRETURNINGが行を返さない
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*news.Item](), nil
		}
		return mo.None[*news.Item](), fmt.Errorf("failed to insert news item: %w", err)
	}

	return mo.Some(item), nil
}

func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (mo.Option[*news.Item], error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM news_items WHERE id = $1`, UUIDToPgtype(id))

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*news.Item](), nil
		}
		return mo.None[*news.Item](), fmt.Errorf("failed to get news item: %w", err)
	}

	return mo.Some(item), nil
}

func (r *ItemRepository) GetByURL(ctx context.Context, url string) (mo.Option[*news.Item], error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM news_items WHERE url = $1`, url)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return mo.None[*news.Item](), nil
		}
		return mo.None[*news.Item](), fmt.Errorf("failed to get news item by url: %w", err)
	}

	return mo.Some(item), nil
}

func (r *ItemRepository) ListRecentWithVotes(ctx context.Context, days int, userID string, limit int) ([]*news.ItemWithVotes, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			n.id, n.source, n.title, n.url, n.content, n.metadata, n.published_at, n.scraped_at,
			COUNT(*) FILTER (WHERE f.label = 'relevant') AS upvotes,
			COUNT(*) FILTER (WHERE f.label = 'not_relevant') AS downvotes,
			uf.label AS user_vote,
			lp.score AS latest_score,
			lp.predicted_label AS latest_class
		FROM news_items n
		LEFT JOIN feedback f ON f.news_item_id = n.id
		LEFT JOIN feedback uf ON uf.news_item_id = n.id AND uf.user_id = $2
		LEFT JOIN LATERAL (
			SELECT score, predicted_label
			FROM predictions p
			WHERE p.news_item_id = n.id
			ORDER BY p.created_at DESC
			LIMIT 1
		) lp ON TRUE
		WHERE COALESCE(n.published_at, n.scraped_at) >= CURRENT_TIMESTAMP - make_interval(days => $1)
		GROUP BY n.id, n.source, n.title, n.url, n.content, n.metadata, n.published_at, n.scraped_at,
			uf.label, lp.score, lp.predicted_label
		ORDER BY COALESCE(n.published_at, n.scraped_at) DESC
		LIMIT $3`,
		days, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent news items: %w", err)
	}
	defer rows.Close()

	var items []*news.ItemWithVotes
	for rows.Next() {
		var (
			item        news.ItemWithVotes
			id          pgtype.UUID
			metadata    []byte
			publishedAt pgtype.Timestamp
			scrapedAt   pgtype.Timestamp
			upvotes     int64
			downvotes   int64
			userVote    pgtype.Text
			latestScore pgtype.Float8
			latestClass pgtype.Text
		)
		if err := rows.Scan(
			&id, &item.Source, &item.Title, &item.URL, &item.Content, &metadata, &publishedAt, &scrapedAt,
			&upvotes, &downvotes, &userVote, &latestScore, &latestClass,
		); err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}

		item.ID = PgtypeToUUID(id)
		item.PublishedAt = PgtypeToTimePtr(publishedAt)
		item.ScrapedAt = PgtypeToTime(scrapedAt)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &item.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		item.Upvotes = int(upvotes)
		item.Downvotes = int(downvotes)
		if userVote.Valid {
			item.UserVote = &userVote.String
		}
		if latestScore.Valid {
			item.LatestScore = &latestScore.Float64
		}
		if latestClass.Valid {
			item.LatestClass = &latestClass.String
		}

		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate news items: %w", err)
	}

	return items, nil
}

func (r *ItemRepository) Stats(ctx context.Context) (*news.Stats, error) {
	var stats news.Stats

	row := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM news_items),
			(SELECT COUNT(*) FROM embeddings),
			(SELECT COUNT(*) FROM feedback),
			(SELECT COUNT(*) FROM predictions),
			(SELECT COUNT(*) FROM feedback WHERE label = 'relevant'),
			(SELECT COUNT(*) FROM feedback WHERE label = 'not_relevant')`,
	)
	if err := row.Scan(
		&stats.TotalItems, &stats.TotalEmbeddings, &stats.TotalVotes,
		&stats.TotalPredictions, &stats.RelevantVotes, &stats.NotRelevantVotes,
	); err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT source, COUNT(*)
		FROM news_items
		GROUP BY source
		ORDER BY COUNT(*) DESC, source`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get source counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc news.SourceCount
		if err := rows.Scan(&sc.Source, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		stats.BySource = append(stats.BySource, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate source counts: %w", err)
	}

	latestRows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM news_items
		ORDER BY COALESCE(published_at, scraped_at) DESC
		LIMIT 5`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest news items: %w", err)
	}
	defer latestRows.Close()

	for latestRows.Next() {
		item, err := scanItem(latestRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan news item: %w", err)
		}
		stats.LatestItems = append(stats.LatestItems, item)
	}
	if err := latestRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate latest news items: %w", err)
	}

	return &stats, nil
}
