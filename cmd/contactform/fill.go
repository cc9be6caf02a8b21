package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
)

// promptDriver is swapped in tests.
var promptDriver = func() tui.PromptDriver {
	return tui.NewSurveyDriver(nil)
}

func newFillCmd(a *app) *cobra.Command {
	var (
		format  string
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the form interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, ok := tui.ParseOutputFormat(format)
			if !ok {
				return fmt.Errorf("unknown --format %q (json, form, pretty)", format)
			}

			renderer, err := tui.New(
				tui.WithPromptDriver(promptDriver()),
				tui.WithOutputFormat(outputFormat),
				tui.WithConfirmSubmit(confirm),
			)
			if err != nil {
				return err
			}
			form, err := openapi.DefaultForm()
			if err != nil {
				return err
			}

			out, err := renderer.Render(cmd.Context(), form, render.RenderOptions{})
			if errors.Is(err, tui.ErrAborted) {
				a.logger.Debug("fill aborted")
				return nil
			}
			if err != nil {
				return err
			}
			a.logger.Debug("fill submitted", zap.String("format", format))

			if len(out) > 0 && out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(tui.OutputFormatPrettyText), "Output format: json, form, pretty")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Ask for confirmation before submitting")
	return cmd
}
