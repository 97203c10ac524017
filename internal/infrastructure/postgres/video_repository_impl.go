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

const videoColumns = `id, title, description, video_file_url, thumbnail_url, duration, views,
	is_published, owner_id, created_at, updated_at`

const videoColumnsAliased = `v.id, v.title, v.description, v.video_file_url, v.thumbnail_url, v.duration, v.views,
	v.is_published, v.owner_id, v.created_at, v.updated_at`

var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"views":     "views",
	"duration":  "duration",
}

type VideoRepository struct {
	pool *pgxpool.Pool
}

func NewVideoRepository(pool *pgxpool.Pool) *VideoRepository {
	return &VideoRepository{pool: pool}
}

func videoScanDest(v *entity.Video, extra ...any) []any {
	dest := []any{&v.ID, &v.Title, &v.Description, &v.VideoFileURL, &v.ThumbnailURL, &v.Duration, &v.Views,
		&v.IsPublished, &v.OwnerID, &v.CreatedAt, &v.UpdatedAt}
	return append(dest, extra...)
}

func scanVideo(row pgx.Row) (*entity.Video, error) {
	v := &entity.Video{}
	if err := row.Scan(videoScanDest(v)...); err != nil {
		return nil, err
	}
	return v, nil
}

func collectVideos(rows pgx.Rows) ([]entity.Video, error) {
	defer rows.Close()
	out := make([]entity.Video, 0)
	for rows.Next() {
		var v entity.Video
		if err := rows.Scan(videoScanDest(&v)...); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VideoRepository) Create(ctx context.Context, v *entity.Video) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO videos (title, description, video_file_url, thumbnail_url, duration, is_published, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, views, created_at, updated_at
	`, v.Title, v.Description, v.VideoFileURL, v.ThumbnailURL, v.Duration, v.IsPublished, v.OwnerID)
	return mapErr(row.Scan(&v.ID, &v.Views, &v.CreatedAt, &v.UpdatedAt), "video", v.Title)
}

func (r *VideoRepository) GetByID(ctx context.Context, id string) (*entity.Video, error) {
	v, err := scanVideo(r.pool.QueryRow(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "video", id)
	}
	return v, nil
}

func (r *VideoRepository) RecordView(ctx context.Context, id string) (*entity.Video, error) {
	v, err := scanVideo(r.pool.QueryRow(ctx, `
		UPDATE videos SET views = views + 1 WHERE id = $1
		RETURNING `+videoColumns, id))
	if err != nil {
		return nil, mapErr(err, "video", id)
	}
	return v, nil
}

func (r *VideoRepository) Update(ctx context.Context, v *entity.Video) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE videos
		SET title = $1, description = $2, thumbnail_url = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, v.Title, v.Description, v.ThumbnailURL, v.ID)
	return mapErr(row.Scan(&v.UpdatedAt), "video", v.ID)
}

func (r *VideoRepository) TogglePublished(ctx context.Context, id string) (bool, error) {
	var published bool
	err := r.pool.QueryRow(ctx, `
		UPDATE videos SET is_published = NOT is_published, updated_at = now()
		WHERE id = $1
		RETURNING is_published
	`, id).Scan(&published)
	return published, mapErr(err, "video", id)
}

func (r *VideoRepository) Delete(ctx context.Context, id string) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			DELETE FROM likes
			WHERE target_type = 'comment'
			  AND target_id IN (SELECT id FROM comments WHERE video_id = $1)
		`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE target_type = 'video' AND target_id = $1`, id); err != nil {
			return err
		}
		res, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	return mapErr(err, "video", id)
}

func (r *VideoRepository) ListByOwner(ctx context.Context, ownerID string, p pagination.Params) ([]entity.Video, int64, error) {
	where := `owner_id = $1 AND ($2::text = '' OR title ILIKE $3 OR description ILIKE $3)`
	args := []any{ownerID, p.Search, likePattern(p.Search)}
	return r.page(ctx, where, args, p)
}

func (r *VideoRepository) SearchPublished(ctx context.Context, p pagination.Params) ([]entity.Video, int64, error) {
	where := `is_published AND ($1::text = '' OR title ILIKE $2 OR description ILIKE $2)`
	args := []any{p.Search, likePattern(p.Search)}
	return r.page(ctx, where, args, p)
}

// page runs the count and the sorted page for one filter.
func (r *VideoRepository) page(ctx context.Context, where string, args []any, p pagination.Params) ([]entity.Video, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM videos WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err, "videos", "")
	}

	col := p.Column(videoSortColumns, "created_at")
	dir := p.Direction()
	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM videos WHERE %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		videoColumns, where, col, dir, dir, n+1, n+2)
	rows, err := r.pool.Query(ctx, query, append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, mapErr(err, "videos", "")
	}
	videos, err := collectVideos(rows)
	if err != nil {
		return nil, 0, mapErr(err, "videos", "")
	}
	return videos, total, nil
}

func (r *VideoRepository) GetManyPublished(ctx context.Context, ids []string) ([]entity.Video, error) {
	if len(ids) == 0 {
		return []entity.Video{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE id = ANY($1::uuid[]) AND is_published
	`, ids)
	if err != nil {
		return nil, mapErr(err, "videos", "")
	}
	found, err := collectVideos(rows)
	if err != nil {
		return nil, mapErr(err, "videos", "")
	}
	byID := make(map[string]entity.Video, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}
	out := make([]entity.Video, 0, len(found))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *VideoRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM videos WHERE id = $1)`, id).Scan(&ok)
	return ok, mapErr(err, "video", id)
}

var _ repository.VideoRepository = (*VideoRepository)(nil)
