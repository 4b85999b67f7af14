package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tabcal/config"
	"tabcal/internal/auth"
)

var (
	setupClientID     string
	setupClientSecret string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the config file and register the OAuth client",
	Long: "Write the default config to ~/.config/tabcal/config.yml and store " +
		"the Google OAuth client credentials used for sign-in.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleSetup()
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Sign out and delete all local state",
	Long:  "Revoke the cached Google session, then delete the config directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return handleRemove()
	},
}

func init() {
	setupCmd.Flags().StringVar(&setupClientID, "client-id", "", "Google OAuth client ID")
	setupCmd.Flags().StringVar(&setupClientSecret, "client-secret", "", "Google OAuth client secret")
}

func handleSetup() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	clientID := setupClientID
	clientSecret := setupClientSecret
	if clientID == "" {
		clientID = prompt("Google OAuth client ID", cfg.OAuth.ClientID)
	}
	if clientSecret == "" {
		clientSecret = prompt("Google OAuth client secret", cfg.OAuth.ClientSecret)
	}
	if clientID == "" {
		return fmt.Errorf("an OAuth client ID is required")
	}

	cfg.OAuth.ClientID = clientID
	cfg.OAuth.ClientSecret = clientSecret
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	dir, err := config.GetConfigDir()
	if err == nil {
		fmt.Printf("Config written to %s\n", dir)
	}
	log.Info("setup complete")
	fmt.Println("Run 'tabcal login' to sign in, or just 'tabcal' to capture an event.")
	return nil
}

func handleRemove() error {
	cfg, err := config.Load()
	if err == nil && cfg.OAuth.ClientID != "" {
		provider := auth.NewProvider(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := provider.Revoke(ctx); err != nil {
			// The session may already be gone upstream, local cleanup still
			// has to happen.
			log.WithError(err).Warn("revoke on remove failed")
			fmt.Printf("Warning: could not revoke session: %v\n", err)
		}
	}

	if err := config.Delete(); err != nil {
		return fmt.Errorf("deleting config: %w", err)
	}

	fmt.Println("Local state removed.")
	return nil
}

func prompt(label, current string) string {
	reader := bufio.NewReader(os.Stdin)
	if current != "" {
		fmt.Printf("%s [%s]: ", label, current)
	} else {
		fmt.Printf("%s: ", label)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}
