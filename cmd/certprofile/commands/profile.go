package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/ui"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect certificate profiles",
}

// profile list
var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles in registration order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := getApp(cmd)
		profiles, err := app.ListProfiles(cmd.Context())
		if err != nil {
			return err
		}
		printProfileTable(profiles, app.DefaultProfile())
		return nil
	},
}

// profile show
var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the configuration of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := getApp(cmd)
		p, err := app.ShowProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ui.PrintProfile(p, p.Name == app.DefaultProfile())
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileShowCmd)
}

func printProfileTable(profiles []*domain.Profile, defaultProfile string) {
	if len(profiles) == 0 {
		ui.Info("No profiles found.")
		return
	}

	table := ui.NewListTable()
	table.Header([]string{"PROFILE", "DEFAULT", "CN IN SAN", "EXTENSIONS", "DESCRIPTION"})

	var data [][]string
	for _, p := range profiles {
		isDefault := ""
		if p.Name == defaultProfile {
			isDefault = ui.SuccessSymbol()
		}
		cnInSAN := "no"
		if p.IncludeCNInSAN() {
			cnInSAN = "yes"
		}
		data = append(data, []string{
			p.Name,
			isDefault,
			cnInSAN,
			fmt.Sprintf("%d", len(p.Extensions)),
			p.Description,
		})
	}

	table.Bulk(data)
	table.Footer([]string{"", "", "", "Total", fmt.Sprintf("%d", len(profiles))})
	table.Render()
}
