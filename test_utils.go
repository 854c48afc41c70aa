package ivee

import "os"

// isCI returns true if running in GitHub Actions, so tests that need a
// real /dev/kvm can skip themselves in environments without nested
// virtualization.
func isCI() bool {
	return os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"
}
