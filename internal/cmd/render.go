package cmd

import (
	"fmt"
	"os"

	"github.com/Digital-Shane/rlz-tidy/internal/core"
	"github.com/Digital-Shane/rlz-tidy/internal/form"
	"github.com/Digital-Shane/rlz-tidy/internal/log"
	"github.com/spf13/cobra"
)

func newRenderCommand(opts *rootOptions) *cobra.Command {
	var (
		template     string
		templateFile string
		release      string
	)

	cmd := &cobra.Command{
		Use:   "render <report>",
		Short: "Render the upload description of a release",
		Long: `Parse a MediaInfo report and render the description template with the
resulting record. The configured template is used unless --template or
--template-file is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts, args)
			if err != nil {
				return err
			}
			defer env.close()

			render := env.cfg.RenderDescription
			switch {
			case templateFile != "":
				data, err := os.ReadFile(templateFile)
				if err != nil {
					return fmt.Errorf("failed to read template: %w", err)
				}
				render = env.renderWith(string(data))
			case template != "":
				render = env.renderWith(template)
			}

			path := args[0]
			rec, err := env.processReport(cmd, path, release)
			if err != nil {
				log.LogRender(path, "", err)
				return err
			}

			text, err := render(rec)
			log.LogRender(path, rec.General.ReleaseName, err)
			if err != nil {
				return fmt.Errorf("failed to render description: %w", err)
			}
			_, err = fmt.Fprintln(env.out, text)
			return err
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "Description template to render")
	cmd.Flags().StringVar(&templateFile, "template-file", "", "File holding the description template")
	cmd.Flags().StringVar(&release, "release", "", "Release name to use when the report has no complete name")
	return cmd
}

func newFormCommand(opts *rootOptions) *cobra.Command {
	var (
		release       string
		noDescription bool
	)

	cmd := &cobra.Command{
		Use:   "form <report>...",
		Short: "Export tracker upload forms as JSON",
		Long: `Parse MediaInfo reports and print, for each one, the upload form values
derived from the record: quality, language, standard, season and episode,
genres and the rendered description.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(cmd, opts, args)
			if err != nil {
				return err
			}
			defer env.close()

			var sinkOpts []form.SinkOption
			if !noDescription {
				sinkOpts = append(sinkOpts, form.WithDescription(env.registry, env.cfg.DescriptionTemplate))
			}
			sink := form.NewJSONSink(env.out, sinkOpts...)

			failed := 0
			for _, path := range args {
				report, err := readInput(cmd, path)
				if err != nil {
					log.LogForm(path, "", err)
					return err
				}
				fallback := release
				if fallback == "" {
					fallback = releaseFromPath(path)
				}
				p, err := env.pipeline(core.WithFallbackName(fallback), core.WithSink(sink))
				if err != nil {
					return err
				}

				rec, err := p.Process(cmd.Context(), report)
				log.LogForm(path, releaseOf(rec), err)
				if err != nil {
					env.logger.Error().Err(err).Str("report", path).Msg("cmd: form export failed")
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&release, "release", "", "Release name to use when a report has no complete name")
	cmd.Flags().BoolVar(&noDescription, "no-description", false, "Leave the description field empty")
	return cmd
}
