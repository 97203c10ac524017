package entity

import "time"

// Video is an uploaded video. File URLs are only set once both uploads succeeded.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoFileURL string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	OwnerID      string    `json:"owner"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WatchedVideo is a watch history entry.
type WatchedVideo struct {
	Video
	Owner     UserSummary `json:"ownerDetails"`
	WatchedAt time.Time   `json:"watchedAt"`
}
