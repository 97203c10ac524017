package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
	"github.com/oksasatya/vidtube-api/pkg/pagination"
)

const tweetColumns = `id, content, owner_id, created_at, updated_at`

var tweetSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type TweetRepository struct {
	pool *pgxpool.Pool
}

func NewTweetRepository(pool *pgxpool.Pool) *TweetRepository {
	return &TweetRepository{pool: pool}
}

func scanTweet(row pgx.Row) (*entity.Tweet, error) {
	t := &entity.Tweet{}
	if err := row.Scan(&t.ID, &t.Content, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func collectTweets(rows pgx.Rows) ([]entity.Tweet, error) {
	defer rows.Close()
	out := make([]entity.Tweet, 0)
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TweetRepository) Create(ctx context.Context, t *entity.Tweet) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tweets (content, owner_id) VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, t.Content, t.OwnerID)
	return mapErr(row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt), "tweet", "")
}

func (r *TweetRepository) GetByID(ctx context.Context, id string) (*entity.Tweet, error) {
	t, err := scanTweet(r.pool.QueryRow(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "tweet", id)
	}
	return t, nil
}

func (r *TweetRepository) UpdateContent(ctx context.Context, id, content string) (*entity.Tweet, error) {
	t, err := scanTweet(r.pool.QueryRow(ctx, `
		UPDATE tweets SET content = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+tweetColumns, content, id))
	if err != nil {
		return nil, mapErr(err, "tweet", id)
	}
	return t, nil
}

func (r *TweetRepository) Delete(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE target_type = 'tweet' AND target_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.Exec(ctx, `DELETE FROM tweets WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr(err, "tweet", id)
}

func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID string, p pagination.Params) ([]entity.Tweet, int64, error) {
	const where = `owner_id = $1 AND ($2::text = '' OR content ILIKE $3)`
	args := []any{ownerID, p.Search, likePattern(p.Search)}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM tweets WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "tweets", ownerID)
	}

	col := p.Column(tweetSortColumns, "created_at")
	dir := p.Direction()
	query := fmt.Sprintf(`SELECT %s FROM tweets WHERE %s ORDER BY %s %s, id %s LIMIT $4 OFFSET $5`,
		tweetColumns, where, col, dir, dir)
	rows, err := r.pool.Query(ctx, query, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, mapErr(err, "tweets", ownerID)
	}
	tweets, err := collectTweets(rows)
	if err != nil {
		return nil, 0, mapErr(err, "tweets", ownerID)
	}
	return tweets, total, nil
}

func (r *TweetRepository) AllByOwner(ctx context.Context, ownerID string) ([]entity.Tweet, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tweetColumns+` FROM tweets WHERE owner_id = $1 ORDER BY created_at DESC, id DESC
	`, ownerID)
	if err != nil {
		return nil, mapErr(err, "tweets", ownerID)
	}
	tweets, err := collectTweets(rows)
	return tweets, mapErr(err, "tweets", ownerID)
}

var _ repository.TweetRepository = (*TweetRepository)(nil)
