package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"reactor.de/certprofile/internal/app"
	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/localedate"
	"reactor.de/certprofile/internal/ui"
)

var (
	formNewProfile  string
	formNewForce    bool
	formSelectNone  bool
	formDeleteForce bool
)

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Manage certificate request forms",
}

// form new
var formNewCmd = &cobra.Command{
	Use:   "new <form-id>",
	Short: "Create a request form, applying a profile",
	Long: `Creates a request form. Without --profile the default_profile from
settings.yaml is applied; if none is configured the form starts empty.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := getApp(cmd)
		result, err := app.NewForm(cmd.Context(), args[0], formNewProfile, formNewForce)
		if err != nil {
			return err
		}
		reportDiagnostics(result.Diagnostics)
		if result.State.Profile == "" {
			ui.Success("Created form '%s' without a profile", result.ID)
		} else {
			ui.Success("Created form '%s' with profile '%s'", result.ID, result.State.Profile)
		}
		return nil
	},
}

// form select
var formSelectCmd = &cobra.Command{
	Use:   "select <form-id> [profile]",
	Short: "Apply a profile to a form",
	Long: `Applies a profile on top of the current form. Extensions the profile
does not mention keep their values. Use --none to clear the selection.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if formSelectNone {
			if len(args) != 1 {
				return fmt.Errorf("accepts exactly one argument: <form-id> when --none is specified")
			}
			return nil
		}
		if len(args) != 2 {
			return fmt.Errorf("accepts <form-id> <profile>, or <form-id> with --none")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if !formSelectNone {
			name = args[1]
		}

		app := getApp(cmd)
		result, err := app.SelectProfile(cmd.Context(), args[0], name)
		if err != nil {
			return err
		}
		reportDiagnostics(result.Diagnostics)
		if name == "" {
			ui.Success("Cleared profile of form '%s'", result.ID)
		} else {
			ui.Success("Applied profile '%s' to form '%s' (revision %d)", name, result.ID, result.State.Revision)
		}
		return nil
	},
}

// form set
var formSetCmd = &cobra.Command{
	Use:   "set <form-id> <field> <value>",
	Short: "Change a single form field",
	Long: `Changes one form field and recomputes the fields that depend on it.

Fields:
  subject.<C|ST|L|O|OU|CN|emailAddress>
  cn_in_san                      true|false
  subject_alt_name               comma separated names
  <extension>.include            true|false
  <extension>.critical           true|false
  <extension>.values             comma separated tokens
  <extension>.issuers|ocsp       authority_information_access URIs
  <extension>.full_name          distribution point URIs
  <extension>.relative_name      distribution point name relative to the issuer
  <extension>.crl_issuer         distribution point CRL issuer general names
  <extension>.names              issuer_alternative_name general names`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := getApp(cmd)
		result, err := app.EditField(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		ui.Success("Set %s on form '%s' (revision %d)", args[1], result.ID, result.State.Revision)
		return nil
	},
}

// form show
var formShowCmd = &cobra.Command{
	Use:   "show <form-id>",
	Short: "Show a form with its derived state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := getApp(cmd).ShowForm(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ui.PrintForm(args[0], state)
		return nil
	},
}

// form template
var formTemplateCmd = &cobra.Command{
	Use:   "template <form-id>",
	Short: "Build and show the unsigned certificate template of a form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		template, err := getApp(cmd).BuildTemplate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		ui.PrintTemplateInfo(args[0], template)
		return nil
	},
}

// form list
var formListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored forms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		infos, err := getApp(cmd).ListForms(cmd.Context())
		if err != nil {
			return err
		}
		printFormTable(infos)
		return nil
	},
}

// form delete
var formDeleteCmd = &cobra.Command{
	Use:   "delete <form-id>",
	Short: "Delete a stored form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := getApp(cmd).DeleteForm(cmd.Context(), args[0], formDeleteForce)
		if errors.Is(err, domain.ErrActionAborted) {
			ui.Info("Form '%s' kept", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		ui.Success("Deleted form '%s'", args[0])
		return nil
	},
}

func init() {
	formNewCmd.Flags().StringVarP(&formNewProfile, "profile", "p", "", "Profile to apply (default: default_profile from settings.yaml)")
	formNewCmd.Flags().BoolVar(&formNewForce, "force", false, "Overwrite an existing form")
	formSelectCmd.Flags().BoolVar(&formSelectNone, "none", false, "Clear the profile selection")
	formDeleteCmd.Flags().BoolVar(&formDeleteForce, "force", false, "Delete without confirmation")

	formCmd.AddCommand(formNewCmd)
	formCmd.AddCommand(formSelectCmd)
	formCmd.AddCommand(formSetCmd)
	formCmd.AddCommand(formShowCmd)
	formCmd.AddCommand(formTemplateCmd)
	formCmd.AddCommand(formListCmd)
	formCmd.AddCommand(formDeleteCmd)
}

func printFormTable(list []*app.FormInfo) {
	if len(list) == 0 {
		ui.Info("No forms found.")
		return
	}

	table := ui.NewListTable()
	table.Header([]string{"FORM ID", "PROFILE", "COMMON NAME", "REVISION", "UPDATED"})

	var data [][]string
	for _, f := range list {
		profile := f.Profile
		if profile == "" {
			profile = "-"
		}
		cn := f.Subject
		if cn == "" {
			cn = "-"
		}
		data = append(data, []string{
			f.ID,
			profile,
			cn,
			fmt.Sprintf("%d", f.Revision),
			ui.FormatTimestamp(f.State.UpdatedAt, localedate.Short),
		})
	}

	table.Bulk(data)
	table.Footer([]string{"", "", "", "Total", fmt.Sprintf("%d", len(list))})
	table.Render()
}
