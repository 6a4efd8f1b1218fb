package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"reactor.de/certprofile/internal/app"
	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/ui"
)

// RootEnvVar overrides the working directory as root when --root is not given.
const RootEnvVar = "CERTPROFILE_ROOT"

// getApp retrieves the application context from the command.
func getApp(cmd *cobra.Command) *app.Application {
	return cmd.Context().Value(appContextKey).(*AppContext).App
}

// getRootPath determines the application's root directory from flags or environment variables.
func getRootPath(cmd *cobra.Command) (string, error) {
	rootPath, err := cmd.Flags().GetString("root")
	if err != nil {
		// This should not happen with a properly configured flag.
		return "", err
	}
	if rootPath == "" {
		rootPath = os.Getenv(RootEnvVar)
	}
	if rootPath == "" {
		rootPath, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not determine current directory: %w", err)
		}
	}
	rootPath, err = filepath.Abs(rootPath)
	if err != nil {
		return "", fmt.Errorf("could not get absolute path for root: %w", err)
	}
	return rootPath, nil
}

// reportDiagnostics prints profile anomalies after a form change.
func reportDiagnostics(diags []domain.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	ui.Warning("Profile applied with %d issue(s); affected fields were left unchanged:", len(diags))
	ui.PrintDiagnostics(diags)
}
