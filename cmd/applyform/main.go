package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-applyform"
	"github.com/goliatone/go-applyform/internal/config"
	"github.com/goliatone/go-applyform/internal/logging"
	"github.com/goliatone/go-applyform/pkg/notify"
	"github.com/goliatone/go-applyform/pkg/submit"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

// app carries what every command needs once the root has loaded config.
type app struct {
	envFiles []string
	logLevel string

	cfg *config.AppConfig
	log *logrus.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "applyform",
		Short: "Fill, validate and submit scholarship applications",
		Long: `applyform drives the scholarship application form from the terminal.

Answers can be entered interactively, or read from a YAML or JSON file
keyed by field name and checked or submitted in one go.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "env files to load (defaults to .env when present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides LOG_LEVEL")

	root.AddCommand(
		applyCmd(a),
		validateCmd(a),
		submitCmd(a),
		catalogCmd(a),
		versionCmd(),
	)
	return root
}

func (a *app) init(logOut io.Writer) error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = strings.ToLower(a.logLevel)
	}
	a.cfg = cfg
	a.log = logging.New(cfg.LogLevel, cfg.Environment, logOut)
	return nil
}

// options maps the loaded configuration onto the form wiring.
func (a *app) options(out io.Writer) applyform.Options {
	return applyform.Options{
		BaseURL:          a.cfg.SubmitURL,
		Path:             a.cfg.SubmitPath,
		Format:           submit.Format(a.cfg.SubmitFormat),
		CatalogDir:       a.cfg.CatalogDir,
		ValidateContract: a.cfg.ValidateContract,
		FormID:           a.cfg.FormID,
		Source:           "applyform-cli",
		StripMarkup:      true,
		Logger:           a.log,
		Notifier: notify.Multi(
			notify.NewWriterNotifier(out),
			notify.LogNotifier{Logger: logging.Component(a.log, "notify")},
		),
	}
}

func (a *app) confirmation(out io.Writer, firstName string) error {
	renderer, err := notify.NewRenderer()
	if err != nil {
		return err
	}
	text, err := renderer.Render(notify.DefaultConfirmation(), firstName)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, strings.TrimRight(text, "\n"))
	return err
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "applyform %s (%s)\n", version, commit)
		},
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
