package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"tabcal/config"
	"tabcal/internal/auth"
	"tabcal/internal/calendar"
	"tabcal/internal/tab"
	"tabcal/internal/ui"
)

var (
	flagTitle    string
	flagURL      string
	flagCalendar string
)

var rootCmd = &cobra.Command{
	Use:   "tabcal",
	Short: "Capture the page you are reading as a Google Calendar event",
	Long: "tabcal pops up a small event form prefilled from your browser's " +
		"active tab and creates the event in Google Calendar.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	Run: func(cmd *cobra.Command, args []string) {
		runPopup()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVar(&flagTitle, "title", "", "Event title (skips tab capture)")
	rootCmd.Flags().StringVar(&flagURL, "url", "", "Source URL (skips tab capture)")
	rootCmd.Flags().StringVar(&flagCalendar, "calendar", "", "Target calendar ID (default from config)")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// setupLogging sends logs to a file under the config dir so they never
// corrupt the TUI's terminal output.
func setupLogging() {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	path, err := config.LogFilePath()
	if err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(f)
}

func runPopup() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.OAuth.ClientID == "" {
		fmt.Println("No OAuth client configured. Run:")
		fmt.Println()
		fmt.Println("  tabcal setup")
		fmt.Println()
		os.Exit(1)
	}

	calendarID := cfg.CalendarID
	if flagCalendar != "" {
		calendarID = flagCalendar
	}

	provider := auth.NewProvider(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret)
	factory := func(ctx context.Context, token *oauth2.Token) calendar.Client {
		return calendar.NewGoogleClient(provider.HTTPClient(ctx, token), calendarID)
	}

	p := tea.NewProgram(
		ui.NewPopup(tabSource(), provider, factory, cfg, nil),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// tabSource picks the prefill source: explicit flags win over desktop
// capture.
func tabSource() ui.TabSource {
	if flagTitle != "" || flagURL != "" {
		return sourceAdapter{tab.StaticSource{Info: tab.Info{Title: flagTitle, URL: flagURL}}}
	}
	return sourceAdapter{tab.DesktopSource{}}
}

// sourceAdapter bridges tab.Source to the popup's TabSource.
type sourceAdapter struct {
	src tab.Source
}

func (a sourceAdapter) ActiveTab(ctx context.Context) (ui.TabInfo, error) {
	info, err := a.src.ActiveTab(ctx)
	if err != nil {
		return ui.TabInfo{}, err
	}
	return ui.TabInfo{Title: info.Title, URL: info.URL}, nil
}
