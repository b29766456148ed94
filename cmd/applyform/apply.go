package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-applyform"
	"github.com/goliatone/go-applyform/internal/logging"
	"github.com/goliatone/go-applyform/internal/tui"
	"github.com/goliatone/go-applyform/pkg/notify"
)

func applyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Fill in and submit the application interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ctx := contextOf(cmd)

			ctrl, err := applyform.NewScholarshipForm(ctx, a.options(out))
			if err != nil {
				return err
			}
			defer ctrl.Close()

			renderer, err := notify.NewRenderer()
			if err != nil {
				return err
			}
			session, err := tui.NewSession(ctrl,
				tui.WithPromptDriver(tui.NewSurveyDriver(out)),
				tui.WithConfirmation(renderer, notify.DefaultConfirmation()),
				tui.WithLogger(logging.Component(a.log, "tui")),
			)
			if err != nil {
				return err
			}
			return session.Run(ctx)
		},
	}
}
