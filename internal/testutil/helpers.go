// Package testutil holds helpers shared by command and ui tests.
package testutil

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/fatih/color"
)

// CaptureOutput runs fn with stdout redirected and returns what it printed.
// Color output is disabled while fn runs so assertions see plain text.
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	oldStdout := os.Stdout
	oldNoColor := color.NoColor
	os.Stdout = w
	color.NoColor = true

	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	defer func() {
		os.Stdout = oldStdout
		color.NoColor = oldNoColor
	}()

	fn()

	w.Close()
	return string(<-done)
}

// WithSilentOutput discards stdout and stderr while fn runs.
func WithSilentOutput(t *testing.T, fn func()) {
	t.Helper()

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("failed to open %s: %v", os.DevNull, err)
	}
	defer devNull.Close()

	oldStdout, oldStderr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = devNull, devNull
	defer func() {
		os.Stdout, os.Stderr = oldStdout, oldStderr
	}()

	fn()
}
