package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
)

const playlistSelect = `
	SELECT p.id, p.name, p.description, p.owner_id, p.created_at, p.updated_at,
	       COALESCE((SELECT array_agg(pv.video_id::text ORDER BY pv.position)
	                 FROM playlist_videos pv WHERE pv.playlist_id = p.id), '{}')
	FROM playlists p`

type PlaylistRepository struct {
	pool *pgxpool.Pool
}

func NewPlaylistRepository(pool *pgxpool.Pool) *PlaylistRepository {
	return &PlaylistRepository{pool: pool}
}

func scanPlaylist(row pgx.Row) (*entity.Playlist, error) {
	p := &entity.Playlist{}
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt, &p.Videos); err != nil {
		return nil, err
	}
	if p.Videos == nil {
		p.Videos = []string{}
	}
	return p, nil
}

func getPlaylist(ctx context.Context, q querier, id string) (*entity.Playlist, error) {
	p, err := scanPlaylist(q.QueryRow(ctx, playlistSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "playlist", id)
	}
	return p, nil
}

func (r *PlaylistRepository) Create(ctx context.Context, p *entity.Playlist) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO playlists (name, description, owner_id) VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.Name, p.Description, p.OwnerID)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return mapErr(err, "playlist", p.Name)
	}
	p.Videos = []string{}
	return nil
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id string) (*entity.Playlist, error) {
	return getPlaylist(ctx, r.pool, id)
}

func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Playlist, error) {
	rows, err := r.pool.Query(ctx, playlistSelect+` WHERE p.owner_id = $1 ORDER BY p.created_at DESC, p.id DESC`, ownerID)
	if err != nil {
		return nil, mapErr(err, "playlists", ownerID)
	}
	defer rows.Close()

	out := make([]entity.Playlist, 0)
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, mapErr(err, "playlists", ownerID)
		}
		out = append(out, *p)
	}
	return out, mapErr(rows.Err(), "playlists", ownerID)
}

func (r *PlaylistRepository) Update(ctx context.Context, id, name, description string) (*entity.Playlist, error) {
	var p *entity.Playlist
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `
			UPDATE playlists SET name = $1, description = $2, updated_at = now() WHERE id = $3
		`, name, description, id)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		p, err = getPlaylist(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, mapErr(err, "playlist", id)
	}
	return p, nil
}

func (r *PlaylistRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return mapErr(err, "playlist", id)
	}
	if res.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "playlist", id)
	}
	return nil
}

// AddVideo has set semantics: the primary key turns a repeated add into a no-op.
func (r *PlaylistRepository) AddVideo(ctx context.Context, playlistID, videoID string) (*entity.Playlist, error) {
	return r.mutate(ctx, playlistID, `
		INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2)
		ON CONFLICT (playlist_id, video_id) DO NOTHING
	`, videoID)
}

func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) (*entity.Playlist, error) {
	return r.mutate(ctx, playlistID, `
		DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2
	`, videoID)
}

// mutate locks the playlist row, applies stmt and returns the fresh playlist.
func (r *PlaylistRepository) mutate(ctx context.Context, playlistID, stmt, videoID string) (*entity.Playlist, error) {
	var p *entity.Playlist
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		res, err := tx.Exec(ctx, `UPDATE playlists SET updated_at = now() WHERE id = $1`, playlistID)
		if err != nil {
			return err
		}
		if res.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if _, err := tx.Exec(ctx, stmt, playlistID, videoID); err != nil {
			return err
		}
		p, err = getPlaylist(ctx, tx, playlistID)
		return err
	})
	if err != nil {
		return nil, mapErr(err, "playlist", playlistID)
	}
	return p, nil
}

var _ repository.PlaylistRepository = (*PlaylistRepository)(nil)
