package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"reactor.de/certprofile/internal/app"
	"reactor.de/certprofile/internal/infra/clock"
	"reactor.de/certprofile/internal/infra/config"
	"reactor.de/certprofile/internal/infra/crypto"
	"reactor.de/certprofile/internal/infra/crypto/extensions"
	"reactor.de/certprofile/internal/infra/logging"
	"reactor.de/certprofile/internal/infra/store"
	"reactor.de/certprofile/internal/pathutil"
	"reactor.de/certprofile/internal/ui"
)

// AppContext holds all the dependencies for the application.
// It is attached to the command's context for access in RunE functions.
type AppContext struct {
	App *app.Application
}

var appContextKey = &struct{}{}

var rootCmd = &cobra.Command{
	Use:   "certprofile",
	Short: "certprofile resolves certificate profiles into request forms.",
	Long: ui.GetColoredLogo() + `
certprofile applies named certificate profiles to certificate request
forms, keeps dependent form fields consistent while you edit them and
builds unsigned X.509 templates from the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Do not run dependency injection for the 'init' command or help.
		if cmd.Name() == "init" || cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		rootPath, err := getRootPath(cmd)
		if err != nil {
			return err
		}
		layout := pathutil.NewLayout(rootPath)

		// Basic validation to ensure we are in a certprofile directory
		if _, err := os.Stat(layout.ConfigDir()); os.IsNotExist(err) {
			return fmt.Errorf("config directory not found at %s. Did you run 'certprofile init'?", layout.ConfigDir())
		}
		if _, err := os.Stat(layout.StoreDir()); os.IsNotExist(err) {
			return fmt.Errorf("store directory not found at %s. Did you run 'certprofile init'?", layout.StoreDir())
		}

		settings, err := config.NewSettingsLoader(layout.ConfigDir()).LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		// Dependency Injection
		logger, err := logging.NewFileLogger(layout.Resolve(settings.LogFile), settings.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		fileStore := store.NewFileStore(layout.StoreDir())
		profileLoader := config.NewYAMLProfileLoader(layout.ConfigDir())
		templateBuilder := crypto.NewService(extensions.NewRegistry())
		userInteraction := ui.NewPrompt()

		application := app.NewApplication(
			layout.Root,
			logger,
			profileLoader,
			settings,
			fileStore,
			templateBuilder,
			userInteraction,
			clock.NewService(),
		)

		ctx := context.WithValue(cmd.Context(), appContextKey, &AppContext{App: application})
		cmd.SetContext(ctx)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(version string) error {
	rootCmd.Version = version
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("root", "", "Root directory for config and store (env: "+RootEnvVar+")")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(formCmd)
}
