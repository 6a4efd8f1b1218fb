package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"reactor.de/certprofile/internal/pathutil"
	"reactor.de/certprofile/internal/ui"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize config and store directories",
	Long:  `Creates the necessary directory structure (config/, store/) and populates it with default configuration files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath, err := getRootPath(cmd)
		if err != nil {
			return err
		}
		layout := pathutil.NewLayout(rootPath)

		ui.Action("Initializing certprofile in %s...", layout.Root)

		dirs := []string{
			layout.ConfigDir(),
			layout.StoreDir(),
			filepath.Join(layout.StoreDir(), "forms"),
		}

		for _, dir := range dirs {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
			ui.Success("Created directory: %s", dir)
		}

		files := []struct {
			path    string
			content string
		}{
			{layout.ProfilesFile(), defaultProfilesYAML},
			{layout.SettingsFile(), defaultSettingsYAML},
		}

		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil && !forceInit {
				ui.Warning("Skipping existing file: %s (use --force to overwrite)", f.path)
				continue
			}
			if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
				return fmt.Errorf("failed to write file %s: %w", f.path, err)
			}
			ui.Success("Created config file: %s", f.path)
		}

		ui.Success("Initialization complete. Review the files in config/ and then run “certprofile form new <id>”.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite existing configuration files")
}

const defaultSettingsYAML = `# certprofile: application settings
# Every key can be overridden with a CERTPROFILE_<KEY> environment variable.

# Profile applied to new forms when 'form new' is called without --profile.
default_profile: webserver

# One of debug, info, warn, error.
log_level: info

# Relative paths are resolved against the store directory.
log_file: certprofile.log
`

const defaultProfilesYAML = `# certprofile: certificate profiles
# Each profile is applied on top of the current form. Extensions that a
# profile does not mention keep their values; an extension set to null is
# cleared and excluded.
# yaml-language-server: $schema=https://reactor.de/certprofile/schemas/v1/profiles.schema.json

client:
  description: A certificate for a client.
  cn_in_san: false
  extensions:
    key_usage:
      critical: true
      value: [digitalSignature]
    extended_key_usage:
      value: [clientAuth]

server:
  description: A certificate for a server, allows client and server authentication.
  extensions:
    key_usage:
      critical: true
      value: [digitalSignature, keyAgreement, keyEncipherment]
    extended_key_usage:
      value: [clientAuth, serverAuth]

webserver:
  description: A certificate for a webserver.
  extensions:
    key_usage:
      critical: true
      value: [digitalSignature, keyAgreement, keyEncipherment]
    extended_key_usage:
      value: [serverAuth]
    ocsp_no_check: null

enduser:
  description: A certificate for an enduser, allows client authentication, code and email signing.
  cn_in_san: false
  extensions:
    key_usage:
      critical: true
      value: [dataEncipherment, digitalSignature, keyEncipherment]
    extended_key_usage:
      value: [clientAuth, codeSigning, emailProtection]

ocsp:
  description: A certificate for an OCSP responder.
  cn_in_san: false
  extensions:
    key_usage:
      critical: true
      value: [nonRepudiation, digitalSignature, keyEncipherment]
    extended_key_usage:
      value: [OCSPSigning]
    ocsp_no_check:
      kind: toggle
`
