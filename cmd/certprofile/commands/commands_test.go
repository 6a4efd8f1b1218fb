//go:build !integration && !e2e

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/term"

	"reactor.de/certprofile/internal/domain"
	"reactor.de/certprofile/internal/testutil"
)

// resetFlags restores every flag to its default so that state from a
// previous invocation does not leak into the next one.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	rootCmd.SetArgs(append([]string{"--root", root}, args...))

	var err error
	out := testutil.CaptureOutput(t, func() {
		err = rootCmd.Execute()
	})
	return out, err
}

func initRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("LC_ALL", "en_GB.UTF-8")
	for _, key := range []string{"DEFAULT_PROFILE", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv("CERTPROFILE_"+key, "")
		os.Unsetenv("CERTPROFILE_" + key)
	}

	_, err := run(t, root, "init")
	require.NoError(t, err)
	return root
}

func TestInit(t *testing.T) {
	root := initRoot(t)

	for _, path := range []string{
		filepath.Join(root, "config", "profiles.yaml"),
		filepath.Join(root, "config", "settings.yaml"),
		filepath.Join(root, "store", "forms"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected %s to exist", path)
	}

	out, err := run(t, root, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipping existing file")
}

func TestCommands_MissingRoot(t *testing.T) {
	_, err := run(t, t.TempDir(), "profile", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config directory not found")
}

func TestConfigValidate(t *testing.T) {
	root := initRoot(t)

	out, err := run(t, root, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration files are valid")
}

func TestProfileCommands(t *testing.T) {
	root := initRoot(t)

	out, err := run(t, root, "profile", "list")
	require.NoError(t, err)
	for _, name := range []string{"client", "server", "webserver", "enduser", "ocsp"} {
		assert.Contains(t, out, name)
	}

	out, err = run(t, root, "profile", "show", "webserver")
	require.NoError(t, err)
	assert.Contains(t, out, "PROFILE webserver (default)")
	assert.Contains(t, out, "ocsp_no_check (absent)")

	_, err = run(t, root, "profile", "show", "nonexistent")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestFormLifecycle(t *testing.T) {
	root := initRoot(t)

	out, err := run(t, root, "form", "new", "req-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created form 'req-1' with profile 'webserver'")
	_, err = os.Stat(filepath.Join(root, "store", "forms", "req-1.yaml"))
	require.NoError(t, err)

	_, err = run(t, root, "form", "new", "req-1")
	assert.ErrorIs(t, err, domain.ErrFormExists)

	_, err = run(t, root, "form", "set", "req-1", "subject.CN", "responder.example.com")
	require.NoError(t, err)

	out, err = run(t, root, "form", "select", "req-1", "ocsp")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied profile 'ocsp' to form 'req-1' (revision 3)")

	_, err = run(t, root, "form", "select", "req-1", "nonexistent")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)

	out, err = run(t, root, "form", "show", "req-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile       ocsp")
	assert.Contains(t, out, "CN in SAN     no")
	assert.Contains(t, out, "Revision      3")

	out, err = run(t, root, "form", "template", "req-1")
	require.NoError(t, err)
	assert.Contains(t, out, "CN=responder.example.com")
	assert.Contains(t, out, "OCSP Signing")
	assert.Contains(t, out, "OCSP No Check")
	assert.NotContains(t, out, "SUBJECT NAMES")

	out, err = run(t, root, "form", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "req-1")
	assert.Contains(t, out, "responder.example.com")

	_, err = run(t, root, "form", "set", "req-1", "bogus", "1")
	assert.ErrorIs(t, err, domain.ErrUnknownField)

	out, err = run(t, root, "form", "select", "req-1", "--none")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared profile of form 'req-1'")

	out, err = run(t, root, "form", "delete", "req-1", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted form 'req-1'")
	_, err = os.Stat(filepath.Join(root, "store", "forms", "req-1.yaml"))
	assert.True(t, os.IsNotExist(err))

	_, err = run(t, root, "form", "show", "req-1")
	assert.ErrorIs(t, err, domain.ErrFormNotFound)
}

func TestFormDelete_NonInteractive(t *testing.T) {
	root := initRoot(t)

	_, err := run(t, root, "form", "new", "req-1")
	require.NoError(t, err)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		t.Skip("stdin is a terminal")
	}
	_, err = run(t, root, "form", "delete", "req-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-interactive")
}

func TestFormSet_IssuerAlternativeName(t *testing.T) {
	root := initRoot(t)

	_, err := run(t, root, "form", "new", "req-1", "--profile", "client")
	require.NoError(t, err)
	_, err = run(t, root, "form", "set", "req-1", "subject.CN", "alice")
	require.NoError(t, err)
	_, err = run(t, root, "form", "set", "req-1", "issuer_alternative_name.include", "true")
	require.NoError(t, err)
	_, err = run(t, root, "form", "set", "req-1", "issuer_alternative_name.names", "URI:https://ca.example.com,email:ca@example.com")
	require.NoError(t, err)

	out, err := run(t, root, "form", "show", "req-1")
	require.NoError(t, err)
	assert.Contains(t, out, "issuer_alternative_name")
	assert.Contains(t, out, "email:ca@example.com")

	out, err = run(t, root, "form", "template", "req-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Issuer Alternative Name")
	assert.Contains(t, out, "URI:https://ca.example.com")
}
