package applyform

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-applyform/internal/logging"
	"github.com/goliatone/go-applyform/pkg/catalog"
	"github.com/goliatone/go-applyform/pkg/dropdown"
	"github.com/goliatone/go-applyform/pkg/form"
	"github.com/goliatone/go-applyform/pkg/model"
	"github.com/goliatone/go-applyform/pkg/notify"
	"github.com/goliatone/go-applyform/pkg/submit"
)

// DefaultSource tags payloads produced through this package.
const DefaultSource = "applyform"

// Options wires the scholarship form to its collaborators. Zero values
// select the defaults: embedded catalogs, JSON encoding, no contract
// checks, no metrics and a silent logger.
type Options struct {
	BaseURL          string
	Path             string
	Format           submit.Format
	CatalogDir       string
	ValidateContract bool
	FormID           string
	Source           string
	HTTPClient       *http.Client
	Registerer       prometheus.Registerer
	Logger           *logrus.Logger
	Notifier         notify.Notifier
	EventSource      dropdown.EventSource

	// StripMarkup removes HTML from free text answers before they are
	// stored and validated.
	StripMarkup bool

	// Submitter replaces the HTTP client entirely when set.
	Submitter submit.Submitter

	// Decorators adjust the definition before the controller is built.
	Decorators []model.Decorator
}

// LoadCatalogs reads option catalogs from dir, or the embedded defaults when
// dir is blank.
func LoadCatalogs(dir string) (*catalog.Store, error) {
	if strings.TrimSpace(dir) == "" {
		return catalog.LoadDefaults()
	}
	return catalog.LoadFS(os.DirFS(dir))
}

// Definition returns the scholarship definition with opts.Decorators
// applied and the configured form id.
func Definition(opts Options) (model.FormDefinition, error) {
	def, err := model.Apply(model.ScholarshipDefinition(), opts.Decorators...)
	if err != nil {
		return model.FormDefinition{}, err
	}
	if id := strings.TrimSpace(opts.FormID); id != "" {
		def.ID = id
	}
	return def, nil
}

// NewSubmitter builds the HTTP client that delivers applications.
func NewSubmitter(ctx context.Context, opts Options) (*submit.Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("applyform: base URL is required")
	}
	logger := entry(opts.Logger, "submit")

	source := opts.Source
	if source == "" {
		source = DefaultSource
	}
	formID := strings.TrimSpace(opts.FormID)
	if formID == "" {
		formID = model.ScholarshipDefinition().ID
	}

	clientOpts := []submit.Option{
		submit.WithLogger(logger),
		submit.WithHiddenFields(submit.FormID(formID), submit.Source(source)),
	}
	if opts.Path != "" {
		clientOpts = append(clientOpts, submit.WithPath(opts.Path))
	}
	if opts.Format != "" {
		clientOpts = append(clientOpts, submit.WithFormat(opts.Format))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, submit.WithHTTPClient(opts.HTTPClient))
	}
	if opts.Registerer != nil {
		clientOpts = append(clientOpts, submit.WithMetrics(submit.NewMetrics(opts.Registerer)))
	}
	if opts.ValidateContract {
		contract, err := submit.LoadDefaultContract(ctx)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, submit.WithContract(contract))
	}
	return submit.NewClient(opts.BaseURL, clientOpts...)
}

// NewScholarshipForm returns a controller for the scholarship application.
func NewScholarshipForm(ctx context.Context, opts Options) (*form.Controller, error) {
	def, err := Definition(opts)
	if err != nil {
		return nil, err
	}
	store, err := LoadCatalogs(opts.CatalogDir)
	if err != nil {
		return nil, err
	}

	submitter := opts.Submitter
	if submitter == nil {
		client, err := NewSubmitter(ctx, opts)
		if err != nil {
			return nil, err
		}
		submitter = client
	}

	formOpts := []form.Option{
		form.WithCatalogs(store),
		form.WithLogger(entry(opts.Logger, "form")),
	}
	if opts.Notifier != nil {
		formOpts = append(formOpts, form.WithNotifier(opts.Notifier))
	}
	if opts.EventSource != nil {
		formOpts = append(formOpts, form.WithEventSource(opts.EventSource))
	}
	if opts.StripMarkup {
		formOpts = append(formOpts, form.WithSanitizer(form.StripMarkup))
	}
	return form.New(def, submitter, formOpts...)
}

func entry(logger *logrus.Logger, component string) *logrus.Entry {
	if logger == nil {
		return logging.Discard().WithField("component", component)
	}
	return logging.Component(logger, component)
}
