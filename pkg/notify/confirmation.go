package notify

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Confirmation is the dialog shown after an accepted application.
type Confirmation struct {
	Title      string
	Headline   string
	Body       []string
	NextSteps  []string
	LoginLabel string
	LoginURL   string
}

// DefaultConfirmation returns the scholarship confirmation.
func DefaultConfirmation() Confirmation {
	return Confirmation{
		Title:    "Application Submitted 🎉",
		Headline: "Your application has been submitted successfully!",
		Body: []string{
			"Our admissions team is reviewing your application and will contact you soon.",
		},
		NextSteps: []string{
			"Login or create an account on Inforens to track your application status.",
			"Join our student community to connect with peers and mentors.",
			"Explore other plans and benefits we offer to international students.",
		},
		LoginLabel: "Login Now",
		LoginURL:   "https://www.inforens.com",
	}
}

// RendererOption customises a Renderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	templates fs.FS
	name      string
}

// WithTemplates loads templates from files instead of the embedded set.
func WithTemplates(files fs.FS) RendererOption {
	return func(cfg *rendererConfig) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplateName selects the confirmation template file.
func WithTemplateName(name string) RendererOption {
	return func(cfg *rendererConfig) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// Renderer turns a Confirmation into text using pongo2 templates.
type Renderer struct {
	tmpl *pongo2.Template
}

// NewRenderer compiles the confirmation template.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	cfg := &rendererConfig{name: "confirmation.tpl"}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("notify: open embedded templates: %w", err)
		}
		cfg.templates = sub
	}

	set := pongo2.NewSet("applyform-notify", pongo2.NewFSLoader(cfg.templates))
	tmpl, err := set.FromFile(cfg.name)
	if err != nil {
		return nil, fmt.Errorf("notify: load template %q: %w", cfg.name, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render fills the template for the applicant.
func (r *Renderer) Render(c Confirmation, firstName string) (string, error) {
	if r == nil || r.tmpl == nil {
		return "", errors.New("notify: renderer is nil")
	}
	ctx := pongo2.Context{
		"title":       c.Title,
		"headline":    c.Headline,
		"body":        c.Body,
		"next_steps":  c.NextSteps,
		"login_label": c.LoginLabel,
		"login_url":   c.LoginURL,
		"first_name":  strings.TrimSpace(firstName),
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("notify: render confirmation: %w", err)
	}
	return buf.String(), nil
}
