// Package update compares the running CLI version against the latest
// published release.
package update

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/go-version"

	"github.com/satishbabariya/querystudio-go/cli/internal/ui"
)

// latestKnownVersion is the newest release the binary knows about. It
// is bumped at release time.
// TODO: fetch the latest release from the GitHub releases API instead.
const latestKnownVersion = "0.1.0"

// CheckForUpdates compares the current version against the latest
// known release and prints an upgrade hint when the binary is behind.
func CheckForUpdates(currentVersion string) error {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return fmt.Errorf("invalid version format: %w", err)
	}

	latest, err := version.NewVersion(latestKnownVersion)
	if err != nil {
		return fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		fmt.Printf("Current version: %s\n", currentVersion)
		fmt.Printf("Latest version:  %s\n", latestKnownVersion)
		fmt.Printf("\nUpdate with: go install github.com/satishbabariya/querystudio-go/cli@latest\n")
		return nil
	}

	return nil
}

// GetDownloadURL returns the download URL for the current platform
func GetDownloadURL(version string) string {
	os := runtime.GOOS
	arch := runtime.GOARCH

	return fmt.Sprintf("https://github.com/satishbabariya/querystudio-go/releases/download/v%s/querystudio-%s-%s", version, os, arch)
}
