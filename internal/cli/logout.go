package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tabcal/config"
	"tabcal/internal/auth"
)

var logoutYes bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of Google Calendar",
	Long:  "Revoke the cached Google session and remove it from the system keyring.",
	Run: func(cmd *cobra.Command, args []string) {
		handleLogout()
	},
}

func init() {
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Skip confirmation prompt")
}

func confirmLogout() bool {
	// Skip prompt if --yes flag or not a terminal (CI/scripts)
	if logoutYes || !term.IsTerminal(int(os.Stdin.Fd())) {
		return true
	}
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Sign out of Google Calendar? [y/N]: ")
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func handleLogout() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if !confirmLogout() {
		fmt.Println("Cancelled.")
		return
	}

	provider := auth.NewProvider(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := provider.Revoke(ctx); err != nil {
		fmt.Printf("Sign-out failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Signed out.")
}
