package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/vidtube-api/internal/domain/entity"
	"github.com/oksasatya/vidtube-api/internal/domain/repository"
)

const userColumns = `id, username, email, fullname, avatar_url, cover_image_url, password,
	COALESCE(refresh_token, ''), created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Fullname, &u.AvatarURL, &u.CoverImageURL,
		&u.Password, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, fullname, avatar_url, cover_image_url, password)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.Fullname, u.AvatarURL, u.CoverImageURL, u.Password)

	return mapErr(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt), "user", u.Username)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err, "user", id)
	}
	return u, nil
}

func (r *UserRepository) GetByLogin(ctx context.Context, username, email string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1 <> '' AND username = $1) OR ($2 <> '' AND email = $2)
		LIMIT 1
	`, username, email))
	if err != nil {
		key := username
		if key == "" {
			key = email
		}
		return nil, mapErr(err, "user", key)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET email = $1, fullname = $2, avatar_url = $3, cover_image_url = $4, password = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, u.Email, u.Fullname, u.AvatarURL, u.CoverImageURL, u.Password, u.ID)
	return mapErr(row.Scan(&u.UpdatedAt), "user", u.ID)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	res, err := r.pool.Exec(ctx, `UPDATE users SET refresh_token = NULLIF($1, ''), updated_at = now() WHERE id = $2`, token, id)
	if err != nil {
		return mapErr(err, "user", id)
	}
	if res.RowsAffected() == 0 {
		return mapErr(pgx.ErrNoRows, "user", id)
	}
	return nil
}

func (r *UserRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*entity.ChannelProfile, error) {
	p := &entity.ChannelProfile{}
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.username, u.email, u.fullname, u.avatar_url, u.cover_image_url,
		       (SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id),
		       (SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id),
		       EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id::text = $2)
		FROM users u
		WHERE u.username = $1
	`, username, viewerID).Scan(&p.ID, &p.Username, &p.Email, &p.Fullname, &p.AvatarURL, &p.CoverImageURL,
		&p.SubscribersCount, &p.ChannelsSubscribedToCount, &p.IsSubscribed)
	if err != nil {
		return nil, mapErr(err, "channel", username)
	}
	return p, nil
}

func (r *UserRepository) AddToWatchHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO watch_history (user_id, video_id) VALUES ($1, $2)
		ON CONFLICT (user_id, video_id) DO UPDATE SET watched_at = now()
	`, userID, videoID)
	return mapErr(err, "watch history", videoID)
}

func (r *UserRepository) WatchHistory(ctx context.Context, userID string) ([]entity.WatchedVideo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+videoColumnsAliased+`, o.id, o.username, o.fullname, o.avatar_url, w.watched_at
		FROM watch_history w
		JOIN videos v ON v.id = w.video_id
		JOIN users o ON o.id = v.owner_id
		WHERE w.user_id = $1
		ORDER BY w.watched_at DESC
	`, userID)
	if err != nil {
		return nil, mapErr(err, "watch history", userID)
	}
	defer rows.Close()

	out := make([]entity.WatchedVideo, 0)
	for rows.Next() {
		var w entity.WatchedVideo
		if err := rows.Scan(videoScanDest(&w.Video, &w.Owner.ID, &w.Owner.Username, &w.Owner.Fullname, &w.Owner.AvatarURL, &w.WatchedAt)...); err != nil {
			return nil, mapErr(err, "watch history", userID)
		}
		out = append(out, w)
	}
	return out, mapErr(rows.Err(), "watch history", userID)
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&ok)
	return ok, mapErr(err, "user", id)
}

var _ repository.UserRepository = (*UserRepository)(nil)
