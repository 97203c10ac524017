package entity

import (
	"fmt"
	"time"
)

// LikeTarget tags what a Like points at. Every like has exactly one target.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "video"
	LikeTargetComment LikeTarget = "comment"
	LikeTargetTweet   LikeTarget = "tweet"
)

// Valid reports whether t is one of the known targets.
func (t LikeTarget) Valid() bool {
	switch t {
	case LikeTargetVideo, LikeTargetComment, LikeTargetTweet:
		return true
	}
	return false
}

// Table is the table holding targets of this kind.
func (t LikeTarget) Table() string {
	switch t {
	case LikeTargetVideo:
		return "videos"
	case LikeTargetComment:
		return "comments"
	case LikeTargetTweet:
		return "tweets"
	}
	panic(fmt.Sprintf("entity: unknown like target %q", string(t)))
}

type Like struct {
	ID         string     `json:"id"`
	LikedBy    string     `json:"likedBy"`
	TargetType LikeTarget `json:"targetType"`
	TargetID   string     `json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// LikeCount is the number of likes on one target.
type LikeCount struct {
	TargetType LikeTarget `json:"targetType"`
	TargetID   string     `json:"targetId"`
	Likes      int64      `json:"likes"`
}

// ToggleAction is the outcome of a toggle on an association record.
type ToggleAction string

const (
	ToggleAdded   ToggleAction = "added"
	ToggleRemoved ToggleAction = "removed"
)
