package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-applyform"
	"github.com/goliatone/go-applyform/pkg/model"
	"github.com/goliatone/go-applyform/pkg/submit"
	"github.com/goliatone/go-applyform/pkg/submit/submittest"
)

func submitCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "submit FILE",
		Short: "Validate an application file and submit it",
		Long: `Load answers from a YAML or JSON file, validate them and post the
application to the configured collaborator. With --dry-run the request
goes to an in-process server that accepts it and the sent payload is
printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			opts := a.options(out)

			var srv *submittest.Server
			if dryRun {
				srv = submittest.NewServer(submittest.WithPath(a.cfg.SubmitPath))
				defer srv.Close()
				opts.BaseURL = srv.URL
			}

			ctx := contextOf(cmd)
			ctrl, err := applyform.NewScholarshipForm(ctx, opts)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := loadAnswers(ctrl, args[0], out); err != nil {
				return err
			}
			if err := ctrl.Submit(ctx); err != nil {
				return err
			}

			if srv != nil {
				for _, req := range srv.Requests() {
					fmt.Fprintf(out, "dry run: %s request %s\n", req.ContentType, req.RequestID)
					fmt.Fprintln(out, receivedPayload(req).Pretty())
				}
			}

			first, _ := ctrl.Value(model.FieldFirstName)
			name, _ := first.(string)
			return a.confirmation(out, name)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "submit to an in-process server instead of the collaborator")

	return cmd
}

// receivedPayload is what the in-process server decoded from the request
// body, in either wire encoding.
func receivedPayload(req submittest.Request) submit.Payload {
	if req.Payload != nil {
		return submit.Payload(req.Payload)
	}
	out := make(submit.Payload, len(req.Form))
	for key, values := range req.Form {
		if name, ok := strings.CutSuffix(key, "[]"); ok {
			out[name] = values
			continue
		}
		out[key] = strings.Join(values, "")
	}
	return out
}
