//go:build e2e || integration

package clock

import (
	"os"
	"time"
)

// now returns CERTPROFILE_FAKE_TIME when set, so that form timestamps
// written by integration runs are reproducible.
func now() time.Time {
	if fakeTime := os.Getenv("CERTPROFILE_FAKE_TIME"); fakeTime != "" {
		t, err := time.Parse(time.RFC3339, fakeTime)
		if err != nil {
			panic("failed to parse CERTPROFILE_FAKE_TIME: " + err.Error())
		}
		return t
	}
	return time.Now()
}
