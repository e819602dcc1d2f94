package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newThemeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "theme",
		Short: "Print the active color theme as YAML",
		Long: `Print the active color theme as YAML. The output can be edited and passed
back with --theme.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadTheme(v.GetString("theme"))
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(p); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
