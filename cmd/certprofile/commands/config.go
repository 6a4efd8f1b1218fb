package commands

import (
	"github.com/spf13/cobra"
	"reactor.de/certprofile/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
}

// config validate
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the syntax and schema of profiles.yaml and settings.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.Action("Validating configuration files (profiles.yaml and settings.yaml)")
		app := getApp(cmd)
		diags, err := app.ValidateConfig(cmd.Context())
		if err != nil {
			return err
		}
		if len(diags) > 0 {
			ui.Warning("Configuration files are valid, with %d issue(s):", len(diags))
			ui.PrintDiagnostics(diags)
			return nil
		}
		ui.Success("Configuration files are valid")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
