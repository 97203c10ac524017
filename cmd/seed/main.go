package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/oksasatya/vidtube-api/config"
	pginfra "github.com/oksasatya/vidtube-api/internal/infrastructure/postgres"
	"github.com/oksasatya/vidtube-api/pkg/helpers"
)

const demoPassword = "password123"

type demoUser struct {
	username, email, fullname string
}

var demoUsers = []demoUser{
	{"janedoe", "jane@example.com", "Jane Doe"},
	{"johnsmith", "john@example.com", "John Smith"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	hash, err := helpers.HashPassword(demoPassword)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		ids := make([]string, len(demoUsers))
		for i, u := range demoUsers {
			if err := tx.QueryRow(ctx, `
				INSERT INTO users (username, email, fullname, avatar_url, password)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (username) DO UPDATE SET fullname = EXCLUDED.fullname
				RETURNING id
			`, u.username, u.email, u.fullname, "https://placehold.co/128x128?text="+u.username, hash).Scan(&ids[i]); err != nil {
				return fmt.Errorf("seed user %s: %w", u.username, err)
			}
			fmt.Printf("seeded user: id=%s username=%s password=%s\n", ids[i], u.username, demoPassword)
		}
		jane, john := ids[0], ids[1]

		if _, err := tx.Exec(ctx, `
			INSERT INTO subscriptions (subscriber_id, channel_id) VALUES ($1, $2)
			ON CONFLICT (subscriber_id, channel_id) DO NOTHING
		`, john, jane); err != nil {
			return fmt.Errorf("seed subscription: %w", err)
		}

		var videoID string
		err := tx.QueryRow(ctx, `SELECT id FROM videos WHERE owner_id = $1 AND title = $2`, jane, "Welcome to my channel").Scan(&videoID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = tx.QueryRow(ctx, `
				INSERT INTO videos (title, description, video_file_url, thumbnail_url, duration, owner_id)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, "Welcome to my channel", "A short hello from Jane.",
				"https://example.com/media/videos/welcome.mp4",
				"https://example.com/media/thumbnails/welcome.png", 42.5, jane).Scan(&videoID)
		}
		if err != nil {
			return fmt.Errorf("seed video: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO tweets (content, owner_id)
			SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM tweets WHERE owner_id = $2 AND content = $1)
		`, "First video is up!", jane); err != nil {
			return fmt.Errorf("seed tweet: %w", err)
		}

		var playlistID string
		err = tx.QueryRow(ctx, `SELECT id FROM playlists WHERE owner_id = $1 AND name = $2`, john, "Watch later").Scan(&playlistID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = tx.QueryRow(ctx, `
				INSERT INTO playlists (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id
			`, "Watch later", "Things to catch up on", john).Scan(&playlistID)
		}
		if err != nil {
			return fmt.Errorf("seed playlist: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO playlist_videos (playlist_id, video_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, playlistID, videoID); err != nil {
			return fmt.Errorf("seed playlist video: %w", err)
		}
		fmt.Printf("seeded video=%s playlist=%s\n", videoID, playlistID)
		return nil
	})
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
