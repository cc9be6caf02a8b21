package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/contact"
	"github.com/goliatone/go-contactform/pkg/openapi"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/vanilla"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output       string
		valuesPath   string
		submit       bool
		templatesDir string
		stylesheet   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form as static HTML",
		Long: `Render writes the form HTML to stdout or --output. --values prefills the
fields from a YAML file; with --submit the values are submitted first so the
output shows either the errors or the submitted values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := contact.NewState()
			if valuesPath != "" {
				values, err := readValues(valuesPath)
				if err != nil {
					return err
				}
				if submit {
					state.SubmitValues(values)
				} else {
					for name, value := range values.Map() {
						if value == "" {
							continue
						}
						if err := state.Change(name, value); err != nil {
							return err
						}
					}
				}
			}

			opts := []vanilla.Option{vanilla.WithTemplatesDir(templatesDir)}
			if stylesheet != "" {
				opts = append(opts, vanilla.WithStylesheet(stylesheet))
			}
			renderer, err := vanilla.New(opts...)
			if err != nil {
				return err
			}
			form, err := openapi.DefaultForm()
			if err != nil {
				return err
			}

			renderOpts := render.OptionsFromState(state)
			renderOpts.Theme = a.cfg.Theme.RendererConfig()
			html, err := renderer.Render(cmd.Context(), form, renderOpts)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&valuesPath, "values", "", "YAML file with firstName, lastName, email, message")
	cmd.Flags().BoolVar(&submit, "submit", false, "Submit the values before rendering")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "Directory holding templates/form.tpl overrides")
	cmd.Flags().StringVar(&stylesheet, "stylesheet", "", "Stylesheet URL to link")
	return cmd
}

func readValues(path string) (contact.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return contact.Values{}, fmt.Errorf("read values: %w", err)
	}
	var values contact.Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return contact.Values{}, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}
