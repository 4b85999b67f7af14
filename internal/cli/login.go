package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tabcal/config"
	"tabcal/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Google Calendar",
	Long:  "Open a browser window to sign in and grant calendar access. The session is cached in the system keyring.",
	Run: func(cmd *cobra.Command, args []string) {
		handleLogin()
	},
}

func handleLogin() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.OAuth.ClientID == "" {
		fmt.Println("No OAuth client configured. Run 'tabcal setup' first.")
		os.Exit(1)
	}

	provider := auth.NewProvider(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if token, err := provider.TokenSilent(ctx); err == nil && token != nil {
		fmt.Println("Already signed in.")
		return
	}

	fmt.Println("Opening your browser to sign in...")
	if _, err := provider.TokenInteractive(ctx); err != nil {
		log.WithError(err).Error("interactive sign-in failed")
		fmt.Printf("Sign-in failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Signed in.")
}
