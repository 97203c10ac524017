package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"io"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// EmailData defines the fields every notification template can use.
type EmailData struct {
	Name           string `json:"Name"`
	Username       string `json:"Username"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	AppName    string `json:"AppName"`
	AppBaseURL string `json:"AppBaseURL"`

	// new_video only
	ChannelName  string `json:"ChannelName"`
	VideoTitle   string `json:"VideoTitle"`
	VideoURL     string `json:"VideoURL"`
	ThumbnailURL string `json:"ThumbnailURL"`

	Time   string    `json:"Time"`
	TimeAt time.Time `json:"TimeAt"`
}

// ToMap flattens d into the map carried by an EmailJob.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		zero := reflect.Zero(rv.Type()).Interface()
		if reflect.DeepEqual(value, zero) {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"now":        func() time.Time { return time.Now().UTC() },
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

const (
	Welcome  = "welcome"
	NewVideo = "new_video"
)

// set is the parsed subject/text/html trio for one template name.
type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var cache sync.Map // name -> *set

func load(name string) (*set, error) {
	if v, ok := cache.Load(name); ok {
		return v.(*set), nil
	}
	subject, err := texttpl.New(name + ".subject.tmpl").Funcs(textFuncMap).ParseFS(FS, name+".subject.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template %s: subject: %w", name, err)
	}
	text, err := texttpl.New(name + ".text.tmpl").Funcs(textFuncMap).ParseFS(FS, name+".text.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template %s: text: %w", name, err)
	}
	html, err := htmpl.New(name + ".html.tmpl").Funcs(htmlFuncMap).ParseFS(FS, name+".html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template %s: html: %w", name, err)
	}
	v, _ := cache.LoadOrStore(name, &set{subject: subject, text: text, html: html})
	return v.(*set), nil
}

type executor interface {
	Execute(w io.Writer, data any) error
}

func exec(t executor, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render executes <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
// The subject is trimmed to a single line.
func Render(name string, data any) (subject, text, html string, err error) {
	s, err := load(name)
	if err != nil {
		return "", "", "", err
	}
	if subject, err = exec(s.subject, data); err != nil {
		return "", "", "", fmt.Errorf("template %s: subject: %w", name, err)
	}
	if text, err = exec(s.text, data); err != nil {
		return "", "", "", fmt.Errorf("template %s: text: %w", name, err)
	}
	if html, err = exec(s.html, data); err != nil {
		return "", "", "", fmt.Errorf("template %s: html: %w", name, err)
	}
	return strings.Join(strings.Fields(subject), " "), text, html, nil
}
