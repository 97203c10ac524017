package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/vidtube-api/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithUsername(username string) Option {
	return func(d *EmailData) { d.Username = username }
}

// WithVideo fills the video fields; the watch link is built from the app base URL.
func WithVideo(id, title, thumbnailURL string) Option {
	return func(d *EmailData) {
		d.VideoTitle = title
		d.ThumbnailURL = thumbnailURL
		d.VideoURL = strings.TrimRight(d.AppBaseURL, "/") + "/watch/" + id
	}
}

func WithChannel(name string) Option {
	return func(d *EmailData) { d.ChannelName = name }
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		RecipientEmail: recipient,
		Type:           typ,
		AppName:        cfg.AppName,
		AppBaseURL:     cfg.AppBaseURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, fullname, username, email string, opts ...Option) map[string]any {
	opts = append([]Option{WithUsername(username)}, opts...)
	return ToMap(NewBaseEmailData(cfg, Welcome, fullname, email, opts...))
}

func NewVideoData(cfg *config.Config, subscriberName, email, channelName, videoID, title, thumbnailURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithChannel(channelName), WithVideo(videoID, title, thumbnailURL)}, opts...)
	return ToMap(NewBaseEmailData(cfg, NewVideo, subscriberName, email, opts...))
}
