package main

import (
	"os"
	"regexp"
	"strings"

	"reactor.de/certprofile/cmd/certprofile/commands"
	"reactor.de/certprofile/internal/ui"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		errorMsg := strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
		errorMsg = strings.ReplaceAll(errorMsg, "\n", "\n  ")

		// Remove schema references from error messages
		schemaRefRe := regexp.MustCompile(` with 'schema://\w+#'`)
		errorMsg = schemaRefRe.ReplaceAllString(errorMsg, "")

		ui.Error("%s", errorMsg)
		os.Exit(1)
	}
}
