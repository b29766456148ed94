package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-applyform"
	"github.com/goliatone/go-applyform/pkg/submit"
)

var noSubmit = submit.SubmitterFunc(func(context.Context, submit.Payload) (submit.Response, error) {
	return submit.Response{}, errors.New("validate never submits")
})

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check an application file without submitting it",
		Long: `Load answers from a YAML or JSON file keyed by field name and run the
form's validation rules. Every failing field is listed and the command
exits non-zero when any rule fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.options(cmd.OutOrStdout())
			opts.Submitter = noSubmit
			opts.Notifier = nil

			ctrl, err := applyform.NewScholarshipForm(contextOf(cmd), opts)
			if err != nil {
				return err
			}
			defer ctrl.Close()

			if err := loadAnswers(ctrl, args[0], cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", args[0])
			return nil
		},
	}
}
