package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Digital-Shane/rlz-tidy/internal/config"
	"github.com/Digital-Shane/rlz-tidy/internal/provider/omdb"
	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the configuration",
		Long: `Show or change the settings stored in ~/.rlz-tidy/config.json.

Without a subcommand the current configuration is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.ConfigPath()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
				return err
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change one setting",
			Long: `Change one setting and save the configuration.

Keys: ` + strings.Join(settingKeys(), ", "),
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if err := applySetting(cfg, args[0], args[1]); err != nil {
					return err
				}
				return cfg.Save()
			},
		},
		&cobra.Command{
			Use:   "variables",
			Short: "List the description template variables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				registry, err := fullRegistry()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, v := range registry.GetAvailableVariables() {
					fmt.Fprintf(out, "{%s}\t[%s] %s\n", v.Name, v.Provider, registry.GetVariableHelp(v.Name))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "validate [template]",
			Short: "Check a description template for unknown variables",
			Long:  `Check the given template, or the configured one, for unknown variables.`,
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				template := cfg.DescriptionTemplate
				if len(args) == 1 {
					template = args[0]
				}
				registry, err := fullRegistry()
				if err != nil {
					return err
				}
				if err := registry.ValidateTemplate(template); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "template is valid")
				return err
			},
		},
	)

	return cmd
}

// fullRegistry knows the variables of every enricher, configured or not.
func fullRegistry() (*config.TemplateRegistry, error) {
	registry := config.NewTemplateRegistry()
	enricher, err := omdb.New("offline")
	if err != nil {
		return nil, err
	}
	if err := registry.RegisterProvider(enricher); err != nil {
		return nil, err
	}
	return registry, nil
}

var settings = map[string]func(cfg *config.Config, value string) error{
	"description_template": func(cfg *config.Config, v string) error {
		cfg.DescriptionTemplate = v
		return nil
	},
	"dictionary_path": func(cfg *config.Config, v string) error {
		cfg.DictionaryPath = v
		return nil
	},
	"log_level": func(cfg *config.Config, v string) error {
		cfg.LogLevel = v
		return nil
	},
	"omdb_api_key": func(cfg *config.Config, v string) error {
		cfg.OMDBAPIKey = v
		return nil
	},
	"omdb_plot": func(cfg *config.Config, v string) error {
		if v != "short" && v != "full" {
			return fmt.Errorf("omdb_plot must be short or full, got %q", v)
		}
		cfg.OMDBPlot = v
		return nil
	},
	"enable_logging": func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		cfg.EnableLogging = b
		return err
	},
	"enable_omdb_lookup": func(cfg *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		cfg.EnableOMDBLookup = b
		return err
	},
	"log_retention_days": func(cfg *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("log_retention_days must be a positive number, got %q", v)
		}
		cfg.LogRetentionDays = n
		return nil
	},
}

func applySetting(cfg *config.Config, key, value string) error {
	set, ok := settings[key]
	if !ok {
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(settingKeys(), ", "))
	}
	if err := set(cfg, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

func settingKeys() []string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
