package mailer

import (
	"context"
	"errors"

	mailtpl "github.com/oksasatya/vidtube-api/pkg/mailer/templates"
)

// EmailJob is one templated email to a single recipient.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"` // "welcome" or "new_video"
	Data     map[string]any `json:"data,omitempty"`
}

// ErrRender marks failures that retrying cannot fix.
var ErrRender = errors.New("mailer: render failed")

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Deliver renders the job's template and sends it through s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	subject, text, html, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return errors.Join(ErrRender, err)
	}
	return s.Send(ctx, job.To, subject, text, html)
}
