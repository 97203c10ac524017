package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
)

const likeColumns = `id, liked_by, target_type::text, target_id, created_at`

type LikeRepository struct {
	pool *pgxpool.Pool
}

func NewLikeRepository(pool *pgxpool.Pool) *LikeRepository {
	return &LikeRepository{pool: pool}
}

func scanLike(row pgx.Row) (*entity.Like, error) {
	l := &entity.Like{}
	var target string
	if err := row.Scan(&l.ID, &l.LikedBy, &target, &l.TargetID, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.TargetType = entity.LikeTarget(target)
	return l, nil
}

// Toggle deletes the like when present; otherwise it inserts one. The unique
// (liked_by, target_type, target_id) constraint absorbs concurrent inserts.
func (r *LikeRepository) Toggle(ctx context.Context, userID string, target entity.LikeTarget, targetID string) (entity.ToggleAction, *entity.Like, error) {
	if !target.Valid() {
		return "", nil, errors.New("like: unknown target " + string(target))
	}
	var (
		action entity.ToggleAction
		like   *entity.Like
	)
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		removed, err := scanLike(tx.QueryRow(ctx, `
			DELETE FROM likes
			WHERE liked_by = $1 AND target_type = $2::like_target AND target_id = $3
			RETURNING `+likeColumns, userID, string(target), targetID))
		if err == nil {
			action, like = entity.ToggleRemoved, removed
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+target.Table()+` WHERE id = $1)`, targetID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}

		added, err := scanLike(tx.QueryRow(ctx, `
			INSERT INTO likes (liked_by, target_type, target_id)
			VALUES ($1, $2::like_target, $3)
			ON CONFLICT (liked_by, target_type, target_id) DO NOTHING
			RETURNING `+likeColumns, userID, string(target), targetID))
		if errors.Is(err, pgx.ErrNoRows) {
			// lost the race to a concurrent insert; report the row that won
			added, err = scanLike(tx.QueryRow(ctx, `
				SELECT `+likeColumns+` FROM likes
				WHERE liked_by = $1 AND target_type = $2::like_target AND target_id = $3
			`, userID, string(target), targetID))
		}
		if err != nil {
			return err
		}
		action, like = entity.ToggleAdded, added
		return nil
	})
	if err != nil {
		return "", nil, mapErr(err, string(target), targetID)
	}
	return action, like, nil
}

func (r *LikeRepository) Count(ctx context.Context, target entity.LikeTarget, targetID string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM likes WHERE target_type = $1::like_target AND target_id = $2
	`, string(target), targetID).Scan(&n)
	return n, mapErr(err, string(target), targetID)
}

func (r *LikeRepository) LikedVideos(ctx context.Context, userID string) ([]entity.Video, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+videoColumnsAliased+`
		FROM likes l
		JOIN videos v ON v.id = l.target_id
		WHERE l.liked_by = $1 AND l.target_type = 'video'
		ORDER BY l.created_at DESC, l.id DESC
	`, userID)
	if err != nil {
		return nil, mapErr(err, "liked videos", userID)
	}
	videos, err := collectVideos(rows)
	return videos, mapErr(err, "liked videos", userID)
}

var _ repository.LikeRepository = (*LikeRepository)(nil)
