package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateSlug = "tabcal/tabcal"

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update tabcal to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		executable, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locating executable: %w", err)
		}
		if isHomebrewInstall(executable) {
			fmt.Println("tabcal is installed via Homebrew.")
			fmt.Println("Please run 'brew upgrade tabcal' instead.")
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateSlug))
		if err != nil {
			return fmt.Errorf("checking for updates: %w", err)
		}
		if !found {
			fmt.Println("No release found for this platform.")
			return nil
		}
		if latest.LessOrEqual(Version) {
			fmt.Printf("Already up to date (%s).\n", Version)
			return nil
		}

		fmt.Printf("Updating %s -> %s...\n", Version, latest.Version())
		if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, executable); err != nil {
			return fmt.Errorf("applying update: %w", err)
		}

		fmt.Printf("Updated to %s.\n", latest.Version())
		return nil
	},
}

// isHomebrewInstall reports whether the executable lives in a Homebrew
// Cellar, following symlinks first.
func isHomebrewInstall(executable string) bool {
	resolved, err := filepath.EvalSymlinks(executable)
	if err != nil {
		resolved = executable
	}
	return strings.Contains(resolved, "/Cellar/")
}
