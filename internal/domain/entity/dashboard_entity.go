package entity

// ChannelStats aggregates a channel's counters. All fields are always present.
type ChannelStats struct {
	TotalVideos      int64 `json:"totalVideos"`
	TotalSubscribers int64 `json:"totalSubscribers"`
	TotalVideosViews int64 `json:"totalVideosViews"`
	TotalVideosLikes int64 `json:"totalVideosLikes"`
}

// ChannelVideos is one page of a channel's videos, newest first.
type ChannelVideos struct {
	Videos      []Video `json:"videos"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	TotalVideos int64   `json:"totalVideos"`
}
